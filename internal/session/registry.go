package session

import (
	"sync"
	"time"

	"leadadmin/internal/auth"
	"leadadmin/internal/models"
)

// Registry owns the in-memory session map and the per-session expiry
// timers. It is constructed once and handed to request handlers rather
// than living as ambient global state.
type Registry struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]models.Session
	timers   map[string]*time.Timer
	now      func() time.Time
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		ttl:      ttl,
		sessions: make(map[string]models.Session),
		timers:   make(map[string]*time.Timer),
		now:      time.Now,
	}
}

// Create mints a token for the user and schedules automatic
// invalidation after the registry TTL.
func (r *Registry) Create(u models.User) (models.Session, error) {
	token, err := auth.NewSessionToken()
	if err != nil {
		return models.Session{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for {
		if _, exists := r.sessions[token]; !exists {
			break
		}
		if token, err = auth.NewSessionToken(); err != nil {
			return models.Session{}, err
		}
	}
	sess := models.Session{
		Token:     token,
		UserID:    u.ID,
		Username:  u.Username,
		Name:      u.Name,
		Role:      u.Role,
		Email:     u.Email,
		CreatedAt: r.now().UTC(),
	}
	r.sessions[token] = sess
	r.timers[token] = time.AfterFunc(r.ttl, func() { r.Destroy(token) })
	return sess, nil
}

// Validate returns the session if it is present and not expired. The
// expiry timer is the primary cleanup path; the clock check here keeps
// Validate correct when it races a timer that has not fired yet.
func (r *Registry) Validate(token string) (models.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[token]
	if !ok {
		return models.Session{}, false
	}
	if r.now().UTC().Sub(sess.CreatedAt) >= r.ttl {
		r.remove(token)
		return models.Session{}, false
	}
	return sess, true
}

// Destroy removes the session immediately and cancels its expiry timer.
// Destroying an absent token is a no-op.
func (r *Registry) Destroy(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remove(token)
}

func (r *Registry) remove(token string) {
	if t, ok := r.timers[token]; ok {
		t.Stop()
		delete(r.timers, token)
	}
	delete(r.sessions, token)
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
