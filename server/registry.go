package server

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"chessduel/game"
)

// match is a session bound to its websocket connection. mu serializes every
// access to the session so a search never runs alongside a read.
type match struct {
	id      string
	mu      sync.Mutex
	session *game.Session
	conn    *websocket.Conn
}

func (m *match) snapshot() GameUpdate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return snapshot(m.id, m.session)
}

// Registry tracks the games with an open connection.
type Registry struct {
	mu      sync.RWMutex
	matches map[string]*match
}

func NewRegistry() *Registry {
	return &Registry{matches: make(map[string]*match)}
}

func (r *Registry) add(session *game.Session, conn *websocket.Conn) *match {
	m := &match{
		id:      uuid.NewString(),
		session: session,
		conn:    conn,
	}
	r.mu.Lock()
	r.matches[m.id] = m
	r.mu.Unlock()
	return m
}

func (r *Registry) remove(id string) {
	r.mu.Lock()
	delete(r.matches, id)
	r.mu.Unlock()
}

func (r *Registry) get(id string) (*match, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.matches[id]
	return m, ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.matches)
}

// CloseAll closes every open game connection. Their handlers unregister the
// games when their read loops fail.
func (r *Registry) CloseAll() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result *multierror.Error
	for id, m := range r.matches {
		if m.conn == nil {
			continue
		}
		_ = m.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"), deadline())
		if err := m.conn.Close(); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "close game %s", id))
		}
	}
	return result.ErrorOrNil()
}
