package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cellflow-dev/cellflow/internal/config"
	"github.com/cellflow-dev/cellflow/pkg/cellflow"
	"github.com/cellflow-dev/cellflow/pkg/inspect"
	"github.com/cellflow-dev/cellflow/pkg/log"
)

func serveCmd() *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the inspector server",
		Long: `Start the inspector server over a demo flow.

The inspector exposes:
  /healthz   health check
  /snapshot  JSON snapshot of flow and queue statistics
  /metrics   prometheus exposition
  /feed      WebSocket live feed of enqueued invocations

A background ticker drives a small reactive graph so every
endpoint has data to show.

Examples:
  cellflow serve
  cellflow serve --port=7070`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port, host)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to serve on (default from cellflow.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from cellflow.json)")

	return cmd
}

func runServe(port int, host string) error {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}
	if port != 0 {
		cfg.Serve.Port = port
	}
	if host != "" {
		cfg.Serve.Host = host
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := log.InfoLevel
	if cfg.Debug {
		level = log.DebugLevel
	}
	logger := log.NewZap(level, os.Stderr)

	feed := inspect.NewFeed()
	flow := cellflow.New(
		cellflow.WithLogger(logger),
		cellflow.WithMetrics(cellflow.NewMetrics(
			cellflow.WithNamespace(cfg.Metrics.Namespace),
			cellflow.WithSubsystem(cfg.Metrics.Subsystem),
		)),
		cellflow.WithObserver(feed.Observer()),
	)

	graph := buildDemoGraph(flow, cfg.Queues)

	// Flows are single-goroutine. One driver goroutine owns this one: it
	// ticks the demo graph and services snapshot requests, so the HTTP
	// handlers never touch the flow directly.
	ops := make(chan func(), 8)
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for i := 0; ; {
			select {
			case op := <-ops:
				op()
			case <-ticker.C:
				graph.step(i)
				i++
			}
		}
	}()
	stats := func() cellflow.FlowStats {
		reply := make(chan cellflow.FlowStats, 1)
		ops <- func() { reply <- flow.Stats() }
		return <-reply
	}

	printBanner()
	success("inspector ready")
	info("snapshot:  http://%s/snapshot", cfg.ListenAddr())
	info("metrics:   http://%s/metrics", cfg.ListenAddr())
	info("live feed: ws://%s/feed", cfg.ListenAddr())

	s := inspect.NewServer(flow,
		inspect.WithFeed(feed),
		inspect.WithLogger(logger),
		inspect.WithStats(stats),
	)
	return s.ListenAndServe(cfg.ListenAddr())
}
