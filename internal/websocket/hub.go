package websocket

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"studyflow-backend/internal/events"
	"studyflow-backend/internal/logger"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// client pairs a connection with its write lock; gorilla/websocket allows a
// single concurrent writer.
type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *client) write(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub streams widget events from the bus to every connected client. The bus
// subscription lives only while at least one client is connected.
type Hub struct {
	mu          sync.RWMutex
	connections map[*websocket.Conn]*client
	bus         events.Bus
	cancel      context.CancelFunc
	log         zerolog.Logger
}

func NewHub(bus events.Bus) *Hub {
	return &Hub{
		connections: make(map[*websocket.Conn]*client),
		bus:         bus,
		log:         logger.Component("websocket"),
	}
}

func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	h.registerConnection(conn)

	// Clients never send anything we act on; reading detects the disconnect.
	go func() {
		defer h.unregisterConnection(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

// Connections reports how many clients are attached.
func (h *Hub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

func (h *Hub) registerConnection(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[conn] = &client{conn: conn}

	if len(h.connections) == 1 {
		ctx, cancel := context.WithCancel(context.Background())
		h.cancel = cancel
		go h.subscribe(ctx)
	}

	h.log.Info().Int("total", len(h.connections)).Msg("websocket connected")
}

func (h *Hub) unregisterConnection(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn.Close()
	delete(h.connections, conn)

	if len(h.connections) == 0 && h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}

	h.log.Info().Int("total", len(h.connections)).Msg("websocket disconnected")
}

func (h *Hub) subscribe(ctx context.Context) {
	ch, err := h.bus.Subscribe(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("event subscription failed")
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast(data)
		}
	}
}

func (h *Hub) broadcast(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.connections {
		if err := c.write(data); err != nil {
			h.log.Debug().Err(err).Msg("websocket write failed")
		}
	}
}

// Close drops every client and the bus subscription.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.connections {
		conn.Close()
	}
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
}
