package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cellflow-dev/cellflow/pkg/cellflow"
)

func demoCmd() *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a scripted dataflow graph and print propagation",
		Long: `Run a scripted reactive graph and print every propagation step.

The graph covers the engine's core behaviors:
  • a diamond (one source, two derivations, one reconvergence)
  • a reactive sequence with a mapped view and a folded total
  • transform pipelines rejecting invalid writes

Examples:
  cellflow demo
  cellflow demo --steps=10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(steps)
		},
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 5, "Number of scripted update steps")

	return cmd
}

func runDemo(steps int) error {
	printBanner()

	flow := cellflow.New(cellflow.WithObserver(func(ev cellflow.FlowEvent) {
		info("enqueue queue=%s target=%s depth=%d", ev.Queue, ev.Target, ev.Depth)
	}))

	g := buildDemoGraph(flow, nil)

	success("graph wired: price × quantity diamond, order sequence, running total")
	for i := 0; i < steps; i++ {
		g.step(i)
	}
	success("demo complete")
	info("orders:    %v", g.orders.Values())
	info("big ones:  %v", g.discounts.Values())
	info("order sum: %v", g.orderSum.Peek())
	info("subtotal:  %v", g.subtotal.Peek())
	info("total:     %v", g.total.Peek())
	return nil
}

// demoGraph is the scripted reactive graph shared by demo and serve.
type demoGraph struct {
	flow *cellflow.Flow

	price    *cellflow.Property
	quantity *cellflow.Property
	subtotal *cellflow.Property
	taxed    *cellflow.Property
	total    *cellflow.Property

	orders    *cellflow.Sequence
	orderSum  *cellflow.Property
	discounts *cellflow.Sequence
}

// buildDemoGraph wires the demo cells on flow.
func buildDemoGraph(flow *cellflow.Flow, queues []string) *demoGraph {
	g := &demoGraph{flow: flow}

	g.price = cellflow.NewProperty(10, cellflow.OnFlow(flow))
	g.price.Transform(func(v any) any {
		if n, ok := v.(int); !ok || n < 0 {
			return cellflow.Reject
		}
		return v
	})
	g.quantity = cellflow.NewProperty(1, cellflow.OnFlow(flow))

	g.subtotal = cellflow.NewAutoProperty(func() any {
		return g.price.Get().(int) * g.quantity.Get().(int)
	}, cellflow.OnFlow(flow))
	g.taxed = cellflow.NewAutoProperty(func() any {
		return g.subtotal.Get().(int) / 5
	}, cellflow.OnFlow(flow))
	g.total = cellflow.NewAutoProperty(func() any {
		return g.subtotal.Get().(int) + g.taxed.Get().(int)
	}, cellflow.OnFlow(flow))

	g.orders = cellflow.NewSequence(nil, cellflow.OnFlow(flow))
	g.orderSum = g.orders.Fold(0, func(acc, v any) any {
		return acc.(int) + v.(int)
	})
	g.discounts = g.orders.Filter(func(v any) bool {
		return v.(int) >= 50
	})

	// Register declared queues in flush order by routing one empty
	// invocation through each.
	flow.Run(func() {
		for _, name := range queues {
			flow.DeferOnce(cellflow.NewListener(nil).WithQueue(name), "", nil)
		}
	})

	return g
}

// step performs one scripted mutation round.
func (g *demoGraph) step(i int) {
	g.flow.Run(func() {
		g.price.Set(10 + i*3)
		g.quantity.Set(1 + i)
	})
	g.orders.Add(g.total.Peek())
	if i%3 == 2 {
		g.price.Set(-1) // rejected by the transform pipeline
	}
	fmt.Println()
}
