package live

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// ErrHubBusy is returned when the broadcast buffer is full and an update was dropped.
var ErrHubBusy = errors.New("live: broadcast buffer full")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HubStats is a snapshot of hub activity.
type HubStats struct {
	ActiveClients     int   `json:"active_clients"`
	TotalConnections  int64 `json:"total_connections"`
	TotalMessages     int64 `json:"total_messages"`
	BroadcastCapacity int   `json:"broadcast_capacity"`
	BroadcastUsage    int   `json:"broadcast_usage"`
}

// Hub keeps the connected scoreboards and fans updates out to those following the match.
type Hub struct {
	clients   map[*Client]bool
	clientsMu sync.RWMutex

	broadcast  chan Update
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	statsMu          sync.Mutex
	totalConnections int64
	totalMessages    int64
}

// NewHub creates a hub. Run must be started before clients connect.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Update, 1000),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run is the hub's main loop. It returns when ctx is cancelled, closing every client.
func (h *Hub) Run(ctx context.Context) {
	log.Info().Msg("live hub started")
	go h.reportStats(ctx)

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case c := <-h.register:
			h.registerClient(c)
		case c := <-h.unregister:
			h.unregisterClient(c)
		case u := <-h.broadcast:
			h.broadcastUpdate(u)
		}
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish queues an update for broadcast. It never blocks.
func (h *Hub) Publish(_ context.Context, u Update) error {
	select {
	case h.broadcast <- u:
		return nil
	default:
		return ErrHubBusy
	}
}

func (h *Hub) registerClient(c *Client) {
	h.clientsMu.Lock()
	h.clients[c] = true
	n := len(h.clients)
	h.clientsMu.Unlock()

	h.statsMu.Lock()
	h.totalConnections++
	h.statsMu.Unlock()

	log.Debug().Str("client_id", c.ID).Uint("match_id", c.MatchID).Int("clients", n).Msg("scoreboard connected")
}

func (h *Hub) unregisterClient(c *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		log.Debug().Str("client_id", c.ID).Int("clients", len(h.clients)).Msg("scoreboard disconnected")
	}
}

func (h *Hub) broadcastUpdate(u Update) {
	h.clientsMu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMu.RUnlock()

	sent := 0
	for _, c := range clients {
		if !c.follows(u.MatchID) {
			continue
		}
		if c.trySend(u) {
			sent++
			continue
		}
		// Client buffer full, it is too slow to keep.
		log.Warn().Str("client_id", c.ID).Msg("scoreboard too slow, disconnecting")
		h.unregisterClient(c)
	}

	if sent > 0 {
		h.statsMu.Lock()
		h.totalMessages++
		h.statsMu.Unlock()
	}
}

// ClientCount returns the number of connected scoreboards.
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// Stats returns hub counters.
func (h *Hub) Stats() HubStats {
	active := h.ClientCount()
	h.statsMu.Lock()
	defer h.statsMu.Unlock()
	return HubStats{
		ActiveClients:     active,
		TotalConnections:  h.totalConnections,
		TotalMessages:     h.totalMessages,
		BroadcastCapacity: cap(h.broadcast),
		BroadcastUsage:    len(h.broadcast),
	}
}

func (h *Hub) shutdown() {
	close(h.done)

	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	log.Info().Int("clients", len(h.clients)).Msg("shutting down live hub")
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

func (h *Hub) reportStats(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s := h.Stats()
			log.Debug().
				Int("clients", s.ActiveClients).
				Int64("total_connections", s.TotalConnections).
				Int64("messages", s.TotalMessages).
				Msg("live hub stats")
		}
	}
}

// Handler upgrades GET /ws?match_id=N to a scoreboard subscription. Pumps run on ctx,
// not on the request context.
func (h *Hub) Handler(ctx context.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		var matchID uint
		if raw := c.Query("match_id"); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "invalid match_id"})
				return
			}
			matchID = uint(id)
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}

		client := newClient(uuid.New().String(), matchID, conn, h)
		h.Register(client)

		go client.writePump(ctx)
		go client.readPump(ctx)
	}
}

// StatsHandler reports hub counters.
func (h *Hub) StatsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.Stats())
}
