// Package preview mirrors the LED strip to browsers via websocket
package preview

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/fako1024/potlight/pkg/gauge"
	"github.com/fako1024/potlight/pkg/scale"
	"github.com/gorilla/websocket"
)

const (
	defaultWriteTimeout = time.Second
	sendBufferSize      = 16
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub denotes a virtual LED strip broadcasting every frame to all connected websocket
// clients as JSON array of #rrggbb strings
type Hub struct {
	upgrader     websocket.Upgrader
	writeTimeout time.Duration

	clients map[*client]struct{}
	last    []byte
	closed  bool
	mu      sync.Mutex

	logger scale.Logger
}

// New instantiates a new Hub, executing functional options, if any
func New(options ...func(*Hub)) *Hub {
	h := &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		writeTimeout: defaultWriteTimeout,
		clients:      make(map[*client]struct{}),
		logger:       &scale.NullLogger{},
	}

	// Execute functional options (if any), see options.go for implementation
	for _, option := range options {
		option(h)
	}

	return h
}

// Show broadcasts a frame to all clients. Unchanged frames are not sent again, clients
// that cannot keep up miss frames.
func (h *Hub) Show(buf gauge.Buffer) error {
	payload, err := json.Marshal(buf.Hex())
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed || bytes.Equal(payload, h.last) {
		return nil
	}
	h.last = payload

	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			h.logger.Debugf("dropped frame for slow preview client %s", c.conn.RemoteAddr())
		}
	}

	return nil
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.clients)
}

// Handler returns an http.Handler upgrading requests to websocket preview connections
func (h *Hub) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warnf("failed to upgrade preview connection: %s", err)
			return
		}

		c := &client{
			conn: conn,
			send: make(chan []byte, sendBufferSize),
		}
		if !h.register(c) {
			conn.Close()
			return
		}
		h.logger.Debugf("preview client %s connected", conn.RemoteAddr())

		go h.write(c)
		h.read(c)
	})
}

// Close disconnects all clients
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}

	return nil
}

////////////////////////////////////////////////////////////////////////////////

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}

	// New clients start with the current frame
	if h.last != nil {
		c.send <- h.last
	}

	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.clients[c]; exists {
		delete(h.clients, c)
		close(c.send)
	}
}

// read discards incoming messages until the connection is closed
func (h *Hub) read(c *client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
		h.logger.Debugf("preview client %s disconnected", c.conn.RemoteAddr())
	}()

	for {
		if _, _, err := c.conn.NextReader(); err != nil {
			return
		}
	}
}

func (h *Hub) write(c *client) {
	for payload := range c.send {
		if err := c.conn.SetWriteDeadline(time.Now().Add(h.writeTimeout)); err != nil {
			break
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.logger.Debugf("failed to write to preview client %s: %s", c.conn.RemoteAddr(), err)
			break
		}
	}

	// Channel closed by the hub or write failure, either way the connection is done
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(h.writeTimeout))
	c.conn.Close()
}
