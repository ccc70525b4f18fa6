package gateway

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Conn is one live transport session. A user may hold several at
// once (multiple devices); each keeps its own outbound queue drained
// by a single writer goroutine.
type Conn struct {
	ID string

	mu     sync.RWMutex
	userID uuid.UUID
	topics map[string]struct{}

	ws        *websocket.Conn
	send      chan []byte
	closeOnce sync.Once
	done      chan struct{}
}

func NewConn(id string, ws *websocket.Conn, sendQueue int) *Conn {
	return &Conn{
		ID:     id,
		ws:     ws,
		topics: make(map[string]struct{}),
		send:   make(chan []byte, sendQueue),
		done:   make(chan struct{}),
	}
}

// BindUser marks the connection authenticated. Set once, before the
// connection is added to the registry.
func (c *Conn) BindUser(user uuid.UUID) {
	c.mu.Lock()
	c.userID = user
	c.mu.Unlock()
}

func (c *Conn) User() uuid.UUID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userID
}

func (c *Conn) Authenticated() bool { return c.User() != uuid.Nil }

func (c *Conn) addTopic(t string) {
	c.mu.Lock()
	c.topics[t] = struct{}{}
	c.mu.Unlock()
}

func (c *Conn) removeTopic(t string) {
	c.mu.Lock()
	delete(c.topics, t)
	c.mu.Unlock()
}

// Topics snapshots the connection's subscriptions.
func (c *Conn) Topics() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.topics))
	for t := range c.topics {
		out = append(out, t)
	}
	return out
}

// Enqueue hands payload to the writer without blocking. A full queue
// means a slow client; the push is dropped, the durable store is the
// backstop.
func (c *Conn) Enqueue(payload []byte) bool {
	select {
	case c.send <- payload:
		return true
	case <-c.done:
		return false
	default:
		return false
	}
}

// Close tears the transport down; safe to call from any goroutine and
// more than once.
func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.ws != nil {
			_ = c.ws.Close()
		}
	})
}

// writePump drains the send queue onto the websocket and keeps the
// connection alive with pings. Exits when the queue source closes or
// a write fails; either way the connection is closed so the read loop
// unblocks too.
func (c *Conn) writePump(pingInterval, writeTimeout time.Duration) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case payload := <-c.send:
			if err := c.write(websocket.TextMessage, payload, writeTimeout); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil, writeTimeout); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *Conn) write(messageType int, payload []byte, timeout time.Duration) error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}
	return c.ws.WriteMessage(messageType, payload)
}
