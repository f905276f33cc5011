package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/jmorel/yam-master-server/game/combo"
	"github.com/jmorel/yam-master-server/game/service"
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

// Inbound event names.
const (
	EventQueueJoin    = "queue.join"
	EventBotGameJoin  = "botGame.join"
	EventRollDices    = "game.dices.roll"
	EventLockDie      = "game.dices.lock"
	EventSelectChoice = "game.choices.selected"
	EventSelectCell   = "game.grid.selected"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		// TODO: Configure this for production
		return true
	},
}

// Message is the wire envelope in both directions: an event name and an
// event-specific payload.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Inbound payloads.
type lockPayload struct {
	IDDice int `json:"idDice"`
}

type choicePayload struct {
	ChoiceID string `json:"choiceId"`
}

type cellPayload struct {
	CellID    string `json:"cellId"`
	RowIndex  int    `json:"rowIndex"`
	CellIndex int    `json:"cellIndex"`
}

// Client represents one connected WebSocket peer. Its id is minted on
// upgrade and is the identity every game structure keys on.
type Client struct {
	hub  *Hub
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub maintains the set of active clients and pushes per-client events.
// It is the session layer's Emitter: a push to an id that is no longer
// connected is dropped.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	service service.GameService
}

// NewHub creates a new WebSocket hub. Bind the game service before
// serving connections.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

// Bind wires the game service the hub dispatches inbound events to.
// The hub and the service reference each other, so binding happens
// after both exist.
func (h *Hub) Bind(svc service.GameService) {
	h.service = svc
}

// ServeWS upgrades an HTTP request and registers the peer.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &Client{
		hub:  h,
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, 256),
	}
	h.register(client)

	go client.writePump()
	go client.readPump()
}

// Emit pushes one event to one client. Implements session.Emitter.
func (h *Hub) Emit(clientID, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("marshal payload failed")
		return
	}
	frame, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("marshal envelope failed")
		return
	}

	h.mu.RLock()
	client, ok := h.clients[clientID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	select {
	case client.send <- frame:
	default:
		// the peer stopped draining, drop it
		h.unregister(client)
	}
}

// Connected reports the number of live peers.
func (h *Hub) Connected() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	h.clients[client.id] = client
	total := len(h.clients)
	h.mu.Unlock()

	log.Info().Str("client", client.id).Int("connected", total).Msg("client connected")
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client.id)
	close(client.send)
	total := len(h.clients)
	h.mu.Unlock()

	log.Info().Str("client", client.id).Int("connected", total).Msg("client disconnected")
}

// dispatch routes one inbound event to the game service. Rejected
// intents are logged and dropped; the peer is never answered directly.
func (h *Hub) dispatch(ctx context.Context, clientID string, msg Message) {
	var err error
	switch msg.Event {
	case EventQueueJoin:
		h.service.JoinQueue(ctx, clientID)

	case EventBotGameJoin:
		_, err = h.service.JoinBotGame(ctx, clientID)

	case EventRollDices:
		err = h.service.RollDices(ctx, clientID)

	case EventLockDie:
		var p lockPayload
		if err = json.Unmarshal(msg.Data, &p); err == nil {
			err = h.service.LockDice(ctx, clientID, p.IDDice)
		}

	case EventSelectChoice:
		var p choicePayload
		if err = json.Unmarshal(msg.Data, &p); err == nil {
			err = h.service.SelectChoice(ctx, clientID, combo.ID(p.ChoiceID))
		}

	case EventSelectCell:
		var p cellPayload
		if err = json.Unmarshal(msg.Data, &p); err == nil {
			err = h.service.SelectCell(ctx, clientID, combo.ID(p.CellID), p.RowIndex, p.CellIndex)
		}

	default:
		log.Debug().Str("client", clientID).Str("event", msg.Event).Msg("unknown event")
		return
	}

	if err != nil {
		log.Debug().
			Str("client", clientID).
			Str("event", msg.Event).
			Err(err).
			Msg("event dropped")
	}
}

// readPump pumps messages from the WebSocket connection into the game
// service. The connection closing tears the client's session down.
func (c *Client) readPump() {
	ctx := context.Background()
	defer func() {
		c.hub.unregister(c)
		c.hub.service.Disconnect(ctx, c.id)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Debug().Err(err).Str("client", c.id).Msg("websocket read error")
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Debug().Err(err).Str("client", c.id).Msg("malformed frame")
			continue
		}
		c.hub.dispatch(ctx, c.id, msg)
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
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
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
