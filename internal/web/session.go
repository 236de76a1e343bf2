// Package web provides the HTTP server and web UI for the song cluster explorer.
package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/justestif/go-song-cluster-explorer/internal/selection"
)

const sessionCookieName = "session_id"

// Session holds the selection state of one browser.
type Session struct {
	ID       string
	State    selection.State
	LastSeen time.Time
}

// SessionStore keeps sessions in memory. Sessions expire after ttl without use.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create starts a session with the initial selection.
func (s *SessionStore) Create() *Session {
	session := &Session{
		ID:       uuid.NewString(),
		State:    selection.Initial(),
		LastSeen: s.now(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	return session
}

// State returns the selection of a live session.
func (s *SessionStore) State(id string) (selection.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.live(id)
	if session == nil {
		return selection.State{}, false
	}
	return session.State, true
}

// Update applies action to the session's selection and returns the new state.
// The whole read-reduce-write happens under the store lock.
func (s *SessionStore) Update(id string, action selection.Action) (selection.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.live(id)
	if session == nil {
		return selection.State{}, false
	}
	session.State = selection.Reduce(session.State, action)
	return session.State, true
}

// Sweep removes every expired session and returns how many were removed.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if s.expired(session) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions, expired ones included.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// FromRequest returns the session ID of the request cookie. A missing or
// expired session is replaced by a new one and the cookie is set.
func (s *SessionStore) FromRequest(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if _, ok := s.State(cookie.Value); ok {
			return cookie.Value
		}
	}

	session := s.Create()
	s.SetCookie(w, session)
	return session.ID
}

// SetCookie sets the session cookie on the response.
func (s *SessionStore) SetCookie(w http.ResponseWriter, session *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl.Seconds()),
	})
}

// live returns the session and refreshes its expiry. Callers hold s.mu.
func (s *SessionStore) live(id string) *Session {
	session, ok := s.sessions[id]
	if !ok {
		return nil
	}
	if s.expired(session) {
		delete(s.sessions, id)
		return nil
	}
	session.LastSeen = s.now()
	return session
}

func (s *SessionStore) expired(session *Session) bool {
	return s.ttl > 0 && s.now().Sub(session.LastSeen) > s.ttl
}
