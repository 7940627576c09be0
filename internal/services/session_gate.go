package services

import (
	"sync"
	"time"

	"loyalty_club_backend/internal/models"
)

// Views the gate routes between.
const (
	ViewRoot    = "/"
	ViewLogin   = "/login"
	ViewClients = "/clients"
)

// SessionGate is the process-wide authenticated/unauthenticated switch.
// It starts closed and nothing about it survives a restart.
type SessionGate struct {
	mu    sync.RWMutex
	user  *models.SessionUser
	since time.Time
	now   func() time.Time
}

// NewSessionGate returns a closed gate.
func NewSessionGate() *SessionGate {
	return &SessionGate{now: time.Now}
}

// Login opens the gate and records the acting user.
func (g *SessionGate) Login(user models.SessionUser) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.user = &user
	g.since = g.now()
}

// Logout closes the gate and forgets the user.
func (g *SessionGate) Logout() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.user = nil
	g.since = time.Time{}
}

func (g *SessionGate) IsAuthenticated() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.user != nil
}

// CurrentUser returns the logged-in user, if any.
func (g *SessionGate) CurrentUser() (models.SessionUser, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.user == nil {
		return models.SessionUser{}, false
	}
	return *g.user, true
}

// Session is a snapshot of the gate.
func (g *SessionGate) Session() models.Session {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.user == nil {
		return models.Session{}
	}
	user := *g.user
	since := g.since
	return models.Session{Authenticated: true, User: &user, Since: &since}
}

// Resolve returns the view a request for view should be redirected to, or
// view itself when no redirect applies. The root always points at the client
// list, which in turn needs a session; the login view is skipped once logged in.
func (g *SessionGate) Resolve(view string) string {
	authenticated := g.IsAuthenticated()
	switch view {
	case ViewRoot, "":
		return ViewClients
	case ViewClients:
		if !authenticated {
			return ViewLogin
		}
	case ViewLogin:
		if authenticated {
			return ViewClients
		}
	}
	return view
}
