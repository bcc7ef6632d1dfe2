// Package network provides the websocket transport: a Hub fanning game
// events and state pushes out to connected clients, and a Client routing
// player actions into the engine.
package network

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/JaySchenk/idleAiGame-sub000/internal/engine"
	"github.com/JaySchenk/idleAiGame-sub000/internal/events"
	"github.com/JaySchenk/idleAiGame-sub000/internal/platform/logger"
	"github.com/JaySchenk/idleAiGame-sub000/internal/platform/metrics"
	"github.com/JaySchenk/idleAiGame-sub000/internal/platform/optimization"
)

// Envelope wraps every outbound message so the frontend can route on type.
type Envelope struct {
	Type    string      `json:"type"` // "EVENT" or "STATE"
	Payload interface{} `json:"payload"`
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
	logger     *logger.Logger
	engine     *engine.Engine
	tuning     *optimization.Config
}

// NewHub initializes a new WebSocket Hub bound to one engine.
func NewHub(eng *engine.Engine, log *logger.Logger, tuning *optimization.Config) *Hub {
	if tuning == nil {
		tuning = optimization.DefaultConfig()
	}
	return &Hub{
		broadcast:  make(chan []byte, tuning.BroadcastChannelBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		logger:     log,
		engine:     eng,
		tuning:     tuning,
	}
}

// Run starts the Hub's main loop to handle client connections and broadcasts.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("WebSocket Hub shutting down.")
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			metrics.Get().RecordWSConnection(1)
			h.logger.Info("New WebSocket client connected")
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				metrics.Get().RecordWSConnection(-1)
				h.logger.Info("WebSocket client disconnected")
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
					metrics.Get().RecordWSMessage(false)
				default:
					close(client.send)
					delete(h.clients, client)
					metrics.Get().RecordWSConnection(-1)
					metrics.Get().RecordWSError()
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastEvent serializes a GameEvent and sends it to all connected clients.
func (h *Hub) BroadcastEvent(event events.GameEvent) {
	payload, err := json.Marshal(Envelope{Type: "EVENT", Payload: event})
	if err != nil {
		h.logger.Error("Failed to serialize GameEvent for WebSocket broadcast: " + err.Error())
		metrics.Get().RecordWSError()
		return
	}
	h.broadcast <- payload
}

// BroadcastState serializes the full read model and sends it to all clients.
func (h *Hub) BroadcastState() {
	payload, err := json.Marshal(Envelope{Type: "STATE", Payload: h.engine.View()})
	if err != nil {
		h.logger.Error("Failed to serialize StateView for WebSocket broadcast: " + err.Error())
		metrics.Get().RecordWSError()
		return
	}
	h.broadcast <- payload
}

// StartEventPoller spawns a goroutine to poll the EventLog and push new events to the Hub.
// This allows the Hub to run independently from the engine's tick loop while picking up the same events.
func (h *Hub) StartEventPoller(ctx context.Context, eventLog *events.EventLog) {
	go func() {
		pollInterval := time.NewTicker(time.Duration(h.tuning.EventPollIntervalMs) * time.Millisecond)
		defer pollInterval.Stop()

		lastProcessedEvent := 0

		for {
			select {
			case <-ctx.Done():
				return
			case <-pollInterval.C:
				allEvents := eventLog.Replay()
				if len(allEvents) > lastProcessedEvent {
					for _, event := range allEvents[lastProcessedEvent:] {
						h.BroadcastEvent(event)
					}
					lastProcessedEvent = len(allEvents)
				}
			}
		}
	}()
}

// StartStatePusher spawns a goroutine that pushes the full read model on a
// fixed cadence, so idle frontends stay in sync without polling HTTP.
func (h *Hub) StartStatePusher(ctx context.Context) {
	go func() {
		pushInterval := time.NewTicker(time.Duration(h.tuning.StatePushIntervalMs) * time.Millisecond)
		defer pushInterval.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-pushInterval.C:
				h.mu.Lock()
				connected := len(h.clients)
				h.mu.Unlock()
				if connected > 0 {
					h.BroadcastState()
				}
			}
		}
	}()
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The game serves a browser frontend from a different origin in dev.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades an HTTP request to a websocket connection and starts the
// client pumps.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed: " + err.Error())
		metrics.Get().RecordWSError()
		return
	}
	client := NewClient(h, conn)
	client.Register()
	go client.WritePump()
	go client.ReadPump()
}
