package inspect

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/cellflow-dev/cellflow/pkg/cellflow"
)

// Feed manages WebSocket connections for the live propagation feed.
// Every enqueued invocation tapped from the flow is broadcast to all
// connected clients as one JSON record.
type Feed struct {
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
	upgrader websocket.Upgrader
}

// NewFeed creates a feed with no connected clients.
func NewFeed() *Feed {
	return &Feed{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Debug surface; same trust domain as /snapshot
			},
		},
	}
}

// Observer returns the tap to install on a flow with WithObserver.
func (f *Feed) Observer() func(ev cellflow.FlowEvent) {
	return func(ev cellflow.FlowEvent) {
		f.broadcast(ev)
	}
}

// HandleWebSocket handles WebSocket upgrade and connection.
func (f *Feed) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := f.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return
	}

	f.mu.Lock()
	f.clients[conn] = true
	f.mu.Unlock()

	// Keep connection alive until client disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	f.mu.Lock()
	delete(f.clients, conn)
	f.mu.Unlock()
	conn.Close()
}

// broadcast sends one record to all connected clients.
func (f *Feed) broadcast(ev cellflow.FlowEvent) {
	f.mu.RLock()
	if len(f.clients) == 0 {
		f.mu.RUnlock()
		return
	}
	clients := make([]*websocket.Conn, 0, len(f.clients))
	for client := range f.clients {
		clients = append(clients, client)
	}
	f.mu.RUnlock()

	data, err := json.Marshal(ev)
	if err != nil {
		return
	}

	for _, client := range clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			f.mu.Lock()
			delete(f.clients, client)
			f.mu.Unlock()
			client.Close()
		}
	}
}

// ClientCount returns the number of connected clients.
func (f *Feed) ClientCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.clients)
}
