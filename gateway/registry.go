package gateway

import (
	"sync"

	"github.com/google/uuid"
)

// Registry is the in-process LiveConnection table: which user holds
// which connections and which connections sit behind which topic.
// Everything here dies with the connection; nothing is persisted.
type Registry struct {
	mu      sync.RWMutex
	byConn  map[string]*Conn
	byUser  map[uuid.UUID]map[string]*Conn
	byTopic map[string]map[string]*Conn
}

func NewRegistry() *Registry {
	return &Registry{
		byConn:  make(map[string]*Conn),
		byUser:  make(map[uuid.UUID]map[string]*Conn),
		byTopic: make(map[string]map[string]*Conn),
	}
}

// Add registers an authenticated connection.
func (r *Registry) Add(c *Conn) {
	user := c.User()
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byConn[c.ID] = c
	m := r.byUser[user]
	if m == nil {
		m = make(map[string]*Conn)
		r.byUser[user] = m
	}
	m[c.ID] = c
}

// Remove drops the connection and every subscription it holds. After
// this returns no push can reach the connection; in-flight fan-out
// jobs that still hold a pointer hit a closed queue and drop.
func (r *Registry) Remove(c *Conn) {
	topics := c.Topics()
	user := c.User()

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byConn, c.ID)
	if m := r.byUser[user]; m != nil {
		delete(m, c.ID)
		if len(m) == 0 {
			delete(r.byUser, user)
		}
	}
	for _, t := range topics {
		if m := r.byTopic[t]; m != nil {
			delete(m, c.ID)
			if len(m) == 0 {
				delete(r.byTopic, t)
			}
		}
	}
}

// Subscribe records the (connection, topic) pair. Authorization has
// already happened by the time this is called.
func (r *Registry) Subscribe(c *Conn, topic string) {
	r.mu.Lock()
	m := r.byTopic[topic]
	if m == nil {
		m = make(map[string]*Conn)
		r.byTopic[topic] = m
	}
	m[c.ID] = c
	r.mu.Unlock()

	c.addTopic(topic)
}

func (r *Registry) Unsubscribe(c *Conn, topic string) {
	r.mu.Lock()
	if m := r.byTopic[topic]; m != nil {
		delete(m, c.ID)
		if len(m) == 0 {
			delete(r.byTopic, topic)
		}
	}
	r.mu.Unlock()

	c.removeTopic(topic)
}

// Subscribers snapshots the connections behind a topic.
func (r *Registry) Subscribers(topic string) []*Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m := r.byTopic[topic]
	if len(m) == 0 {
		return nil
	}
	out := make([]*Conn, 0, len(m))
	for _, c := range m {
		out = append(out, c)
	}
	return out
}

// ConnsByUser snapshots a user's live connections.
func (r *Registry) ConnsByUser(user uuid.UUID) []*Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m := r.byUser[user]
	if len(m) == 0 {
		return nil
	}
	out := make([]*Conn, 0, len(m))
	for _, c := range m {
		out = append(out, c)
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byConn)
}
