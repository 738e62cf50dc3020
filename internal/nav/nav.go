// ABOUTME: Navigation guard gating the article screen on session presence
// ABOUTME: Redirects unauthenticated access to the login screen

package nav

import (
	"log/slog"
	"sync"
)

// Screen is a routable screen
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenArticles
)

// String returns the route name of a Screen
func (s Screen) String() string {
	switch s {
	case ScreenLogin:
		return "login"
	case ScreenArticles:
		return "articles"
	default:
		return "unknown"
	}
}

// AuthState is the guard's view of the session
type AuthState int

const (
	Unauthenticated AuthState = iota
	Authenticated
)

// String returns a readable AuthState
func (a AuthState) String() string {
	if a == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// SessionChecker reports whether a session is held
type SessionChecker interface {
	HasSession() bool
}

// Guard routes between screens. Its auth state follows the session store, so
// login success makes it Authenticated and logout or a 401 make it
// Unauthenticated. The guard only decides what to render; the API enforces
// authorization.
type Guard struct {
	session SessionChecker

	mu      sync.Mutex
	current Screen
}

// New creates a guard starting on the login screen
func New(session SessionChecker) *Guard {
	return &Guard{session: session, current: ScreenLogin}
}

// State returns the current auth state
func (g *Guard) State() AuthState {
	if g.session != nil && g.session.HasSession() {
		return Authenticated
	}
	return Unauthenticated
}

// Allowed reports whether screen may be shown in the current auth state
func (g *Guard) Allowed(screen Screen) bool {
	return screen != ScreenArticles || g.State() == Authenticated
}

// Navigate moves to screen and returns the screen actually shown.
// Unauthenticated requests for the article screen land on login.
func (g *Guard) Navigate(screen Screen) Screen {
	target := screen
	if !g.Allowed(screen) {
		slog.Debug("Navigation redirected", "requested", screen, "shown", ScreenLogin)
		target = ScreenLogin
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.current = target
	return target
}

// RedirectToLogin moves to the login screen unconditionally
func (g *Guard) RedirectToLogin() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.current = ScreenLogin
}

// Current returns the screen to render. If the session went away while the
// article screen was showing, the login screen is returned instead.
func (g *Guard) Current() Screen {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.Allowed(g.current) {
		g.current = ScreenLogin
	}
	return g.current
}
