package network

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/JaySchenk/idleAiGame-sub000/internal/platform/metrics"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// PlayerAction represents an incoming command from the frontend.
type PlayerAction struct {
	Type    string          `json:"type"` // "CLICK", "BUY_GENERATOR", "BUY_UPGRADE", "PRESTIGE", "NEXT_NARRATIVE"
	Payload json.RawMessage `json:"payload"`
}

// ActionResult is the direct reply to the acting client.
type ActionResult struct {
	Type    string `json:"type"`
	Action  string `json:"action"`
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// Client holds one websocket connection and its rate-limit window.
type Client struct {
	hub          *Hub
	conn         *websocket.Conn
	send         chan []byte
	windowStart  time.Time
	windowCount  int
}

// NewClient creates a new WebSocket client and returns it.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, hub.tuning.ClientSendBuffer),
	}
}

// Register adds the client to the hub.
func (c *Client) Register() {
	c.hub.register <- c
}

// ReadPump pumps messages from the websocket connection into the engine.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error: %v", err)
			}
			break
		}
		metrics.Get().RecordWSMessage(true)

		var action PlayerAction
		if err := json.Unmarshal(message, &action); err != nil {
			c.hub.logger.Error("Failed to parse PlayerAction from WebSocket. err: " + err.Error())
			continue
		}

		c.handlePlayerAction(action)
	}
}

func (c *Client) handlePlayerAction(action PlayerAction) {
	if !c.allowAction() {
		c.hub.logger.Warn("Rate limit exceeded for client action " + action.Type)
		c.reply(action.Type, false, "rate limit exceeded")
		return
	}

	eng := c.hub.engine

	switch action.Type {
	case "CLICK":
		eng.Click()
		c.reply(action.Type, true, "")
	case "BUY_GENERATOR":
		var parsed struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(action.Payload, &parsed); err != nil || parsed.ID == "" {
			c.reply(action.Type, false, "missing generator id")
			return
		}
		if !eng.BuyGenerator(parsed.ID) {
			c.reply(action.Type, false, "purchase rejected")
			return
		}
		c.reply(action.Type, true, "")
	case "BUY_UPGRADE":
		var parsed struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(action.Payload, &parsed); err != nil || parsed.ID == "" {
			c.reply(action.Type, false, "missing upgrade id")
			return
		}
		if !eng.BuyUpgrade(parsed.ID) {
			c.reply(action.Type, false, "purchase rejected")
			return
		}
		c.reply(action.Type, true, "")
	case "PRESTIGE":
		if !eng.Prestige() {
			c.reply(action.Type, false, "threshold not reached")
			return
		}
		c.reply(action.Type, true, "")
	case "NEXT_NARRATIVE":
		ev := eng.NextPendingNarrative()
		if ev == nil {
			c.reply(action.Type, false, "no pending narrative")
			return
		}
		c.reply(action.Type, true, ev.ID)
	default:
		c.hub.logger.Warn("Unknown PlayerAction type: " + action.Type)
		c.reply(action.Type, false, "unknown action")
	}
}

// allowAction enforces the per-second action budget from the tuning config.
func (c *Client) allowAction() bool {
	now := time.Now()
	if now.Sub(c.windowStart) >= time.Second {
		c.windowStart = now
		c.windowCount = 0
	}
	c.windowCount++
	return c.windowCount <= c.hub.tuning.MaxActionsPerSecond
}

func (c *Client) reply(action string, ok bool, message string) {
	payload, err := json.Marshal(ActionResult{Type: "ACTION_RESULT", Action: action, OK: ok, Message: message})
	if err != nil {
		return
	}
	select {
	case c.send <- payload:
		metrics.Get().RecordWSMessage(false)
	default:
		metrics.Get().RecordWSError()
	}
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message.
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
