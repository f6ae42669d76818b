package sse

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mcoot/scoreboard/internal/metrics"
	"github.com/mcoot/scoreboard/internal/model"
)

// Hub manages SSE clients for a single board
type Hub struct {
	boardCode model.BoardCode
	clients   map[*Client]bool
	mu        sync.RWMutex
	logger    *slog.Logger
	metrics   *metrics.Manager

	// Channels for managing clients
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	closeOnce  sync.Once
}

// NewHub creates a new Hub for a board
func NewHub(boardCode model.BoardCode, logger *slog.Logger, m *metrics.Manager) *Hub {
	return &Hub{
		boardCode:  boardCode,
		clients:    make(map[*Client]bool),
		logger:     logger.With(slog.String("board", string(boardCode))),
		metrics:    m,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	h.logger.Debug("sse hub started")
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			clientCount := len(h.clients)
			h.mu.Unlock()
			h.metrics.SSEClientsChanged(1)
			h.logger.Info("sse client registered",
				slog.String("viewer", string(client.viewerID)),
				slog.Int("total_clients", clientCount))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				clientCount := len(h.clients)
				h.mu.Unlock()
				h.metrics.SSEClientsChanged(-1)
				h.logger.Info("sse client unregistered",
					slog.String("viewer", string(client.viewerID)),
					slog.Duration("connection_duration", time.Since(client.connectedAt)),
					slog.Int("total_clients", clientCount))
			} else {
				h.mu.Unlock()
			}

		case message := <-h.broadcast:
			h.mu.RLock()
			dropped := 0
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					dropped++
				}
			}
			h.mu.RUnlock()
			if dropped > 0 {
				h.logger.Warn("sse message dropped - client buffer full", slog.Int("dropped", dropped))
			}

		case <-h.done:
			h.mu.Lock()
			clientCount := len(h.clients)
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.metrics.SSEClientsChanged(-clientCount)
			h.logger.Debug("sse hub stopped", slog.Int("disconnected_clients", clientCount))
			return
		}
	}
}

// Register adds a client to the hub. It returns false if the hub has closed.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast sends a message to all clients
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn("sse broadcast dropped - hub buffer full")
	}
}

// BroadcastEvent sends an SSE event with a name and data
func (h *Hub) BroadcastEvent(eventName, data string) {
	h.Broadcast(formatSSEMessage(eventName, data))
}

// Close shuts down the hub. Closing twice is harmless.
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
	})
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// formatSSEMessage formats an SSE message with event name and data.
// Each line of data gets its own "data: " prefix.
func formatSSEMessage(eventName, data string) []byte {
	var b strings.Builder
	b.WriteString("event: " + eventName + "\n")
	for _, line := range splitLines(data) {
		b.WriteString("data: " + line + "\n")
	}
	b.WriteString("\n")
	return []byte(b.String())
}

// splitLines splits a string into lines, handling various line endings
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}

// LifecycleFunc is called with the board code when a hub is created or removed
type LifecycleFunc func(code model.BoardCode)

// HubManager manages hubs for all boards
type HubManager struct {
	hubs     map[model.BoardCode]*Hub
	mu       sync.Mutex
	logger   *slog.Logger
	metrics  *metrics.Manager
	onCreate LifecycleFunc
	onRemove LifecycleFunc
}

// HubManagerOption configures a HubManager
type HubManagerOption func(*HubManager)

// WithLifecycle sets hooks run after a hub is created and after it is
// removed. Each hook runs exactly once per hub.
func WithLifecycle(onCreate, onRemove LifecycleFunc) HubManagerOption {
	return func(m *HubManager) {
		m.onCreate = onCreate
		m.onRemove = onRemove
	}
}

// WithHubMetrics enables client gauges
func WithHubMetrics(mm *metrics.Manager) HubManagerOption {
	return func(m *HubManager) {
		m.metrics = mm
	}
}

// NewHubManager creates a new HubManager
func NewHubManager(logger *slog.Logger, opts ...HubManagerOption) *HubManager {
	m := &HubManager{
		hubs:   make(map[model.BoardCode]*Hub),
		logger: logger.With(slog.String("component", "sse")),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// GetOrCreateHub returns the hub for a board, creating one if it doesn't exist
func (m *HubManager) GetOrCreateHub(code model.BoardCode) *Hub {
	m.mu.Lock()
	if hub, ok := m.hubs[code]; ok {
		m.mu.Unlock()
		return hub
	}
	hub := NewHub(code, m.logger, m.metrics)
	m.hubs[code] = hub
	go hub.Run()
	m.mu.Unlock()

	if m.onCreate != nil {
		m.onCreate(code)
	}
	return hub
}

// GetHub returns the hub for a board, or nil if it doesn't exist
func (m *HubManager) GetHub(code model.BoardCode) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hubs[code]
}

// Watched reports whether any viewer is connected to the board's hub
func (m *HubManager) Watched(code model.BoardCode) bool {
	hub := m.GetHub(code)
	return hub != nil && hub.ClientCount() > 0
}

// Join registers a new client for the viewer on the board's hub. A hub can
// be closed by the janitor between lookup and registration, so a closed hub
// is replaced once before giving up.
func (m *HubManager) Join(code model.BoardCode, viewerID model.ViewerID) (*Hub, *Client, bool) {
	for attempt := 0; attempt < 2; attempt++ {
		hub := m.GetOrCreateHub(code)
		client := NewClient(hub, viewerID)
		if hub.Register(client) {
			return hub, client, true
		}
		m.dropClosedHub(code, hub)
	}
	return nil, nil, false
}

// dropClosedHub forgets hub if it is still the one mapped to code
func (m *HubManager) dropClosedHub(code model.BoardCode, hub *Hub) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hubs[code] == hub {
		delete(m.hubs, code)
	}
}

// RemoveHub removes and closes a hub
func (m *HubManager) RemoveHub(code model.BoardCode) {
	m.mu.Lock()
	hub, ok := m.hubs[code]
	if ok {
		delete(m.hubs, code)
	}
	m.mu.Unlock()

	if !ok {
		return
	}
	m.closeHub(code, hub)
	m.logger.Info("sse hub removed", slog.String("board", string(code)))
}

// CleanupEmptyHubs removes hubs with no clients and returns how many were removed
func (m *HubManager) CleanupEmptyHubs() int {
	m.mu.Lock()
	empty := make(map[model.BoardCode]*Hub)
	for code, hub := range m.hubs {
		if hub.ClientCount() == 0 {
			empty[code] = hub
			delete(m.hubs, code)
		}
	}
	m.mu.Unlock()

	for code, hub := range empty {
		m.closeHub(code, hub)
	}
	if len(empty) > 0 {
		m.logger.Info("sse empty hubs cleaned up", slog.Int("removed", len(empty)))
	}
	return len(empty)
}

// CloseAll removes every hub
func (m *HubManager) CloseAll() {
	m.mu.Lock()
	hubs := m.hubs
	m.hubs = make(map[model.BoardCode]*Hub)
	m.mu.Unlock()

	for code, hub := range hubs {
		m.closeHub(code, hub)
	}
}

// HubCount returns the number of live hubs
func (m *HubManager) HubCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.hubs)
}

func (m *HubManager) closeHub(code model.BoardCode, hub *Hub) {
	hub.Close()
	if m.onRemove != nil {
		m.onRemove(code)
	}
}
