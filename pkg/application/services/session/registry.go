package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vsinha/stockrecon/pkg/infrastructure/events"
)

var ErrSessionNotFound = errors.New("session not found")

// Registry holds one Session per logged-in user and serializes work on each.
// Sessions are created on login and destroyed on logout; there is no shared default.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*guarded
	opts     Options
	logger   *zap.Logger
}

type guarded struct {
	mu      sync.Mutex
	session *Session
}

// NewRegistry creates an empty registry. opts apply to every session it creates.
func NewRegistry(opts Options) *Registry {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		sessions: make(map[string]*guarded),
		opts:     opts,
		logger:   logger,
	}
}

// Create starts a fresh session and returns its id. Creating a session for an
// id that already exists replaces it, like logging in again, and reports
// replaced so callers can tell the previous state is gone.
func (r *Registry) Create(id string) (sessionID string, replaced bool) {
	if id == "" {
		id = uuid.NewString()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, replaced = r.sessions[id]; replaced && r.opts.Events != nil {
		r.opts.Events.DropStream(id)
	}
	r.sessions[id] = &guarded{session: New(id, r.opts)}
	r.logger.Info("session created", zap.String("session", id), zap.Bool("replaced", replaced))
	return id, replaced
}

// Destroy discards a session and its audit stream
func (r *Registry) Destroy(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	if r.opts.Events != nil {
		r.opts.Events.DropStream(id)
	}
	r.logger.Info("session destroyed", zap.String("session", id))
	return nil
}

// With runs fn while holding the session's lock, so at most one run or
// reset is in flight per session.
func (r *Registry) With(id string, fn func(s *Session) error) error {
	r.mu.Lock()
	g, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return fn(g.session)
}

// Events returns the session's audit stream from fromVersion on. Without an
// audit store the stream is always empty.
func (r *Registry) Events(id string, fromVersion int) ([]events.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return nil, ErrSessionNotFound
	}
	if r.opts.Events == nil {
		return []events.Event{}, nil
	}
	return r.opts.Events.Read(id, fromVersion)
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
