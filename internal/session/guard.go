package session

import (
	"net/http"
	"sync"

	"main/internal/bus"

	"github.com/yanun0323/logs"
)

// Guard owns the bearer token lifecycle. Exactly one valid token exists
// process-wide; every authorized call goes through Authorize, and any
// call that observes an authentication failure reports it through
// Invalidate.
type Guard struct {
	mu      sync.Mutex
	token   string
	loaded  bool
	keyring Keyring
	hub     *bus.Hub
}

// NewGuard creates a guard backed by the given keyring. hub may be nil
// in tests that do not care about notifications.
func NewGuard(keyring Keyring, hub *bus.Hub) *Guard {
	return &Guard{keyring: keyring, hub: hub}
}

// Token returns the current token, reading the keyring lazily on first
// access and caching it in memory afterward.
func (g *Guard) Token() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tokenLocked()
}

func (g *Guard) tokenLocked() string {
	if g.loaded {
		return g.token
	}
	g.loaded = true
	if g.keyring == nil {
		return g.token
	}
	token, err := g.keyring.Read()
	if err != nil {
		logs.Warnf("read persisted token, err: %+v", err)
		return g.token
	}
	g.token = token
	return g.token
}

// Authenticated reports whether a token is held.
func (g *Guard) Authenticated() bool {
	return g.Token() != ""
}

// SetToken stores a freshly issued token, replacing any previous one.
func (g *Guard) SetToken(token string) {
	g.mu.Lock()
	g.token = token
	g.loaded = true
	g.mu.Unlock()

	if g.keyring != nil {
		if err := g.keyring.Write(token); err != nil {
			logs.Warnf("persist token, err: %+v", err)
		}
	}
}

// Authorize attaches the bearer token to an outgoing request. Calls to
// authentication endpoints must not pass through here.
func (g *Guard) Authorize(r *http.Request) {
	token := g.Token()
	if token == "" {
		return
	}
	r.Header.Set("Authorization", "Bearer "+token)
}

// Invalidate discards the token after an authentication failure and
// broadcasts a single session-expired notification. Repeated calls for
// the same expired session are no-ops.
func (g *Guard) Invalidate() {
	if !g.discard() {
		return
	}
	logs.Warn("session token rejected by venue, broadcasting expiry")
	g.hub.Publish(bus.TopicSessionExpired)
}

// Logout discards the token on explicit user request and broadcasts a
// distinct logged-out notification.
func (g *Guard) Logout() {
	g.discard()
	g.hub.Publish(bus.TopicUserLoggedOut)
}

// discard clears memory and keyring, reporting whether a token was held.
func (g *Guard) discard() bool {
	g.mu.Lock()
	had := g.tokenLocked() != ""
	g.token = ""
	g.mu.Unlock()

	if g.keyring != nil {
		if err := g.keyring.Clear(); err != nil {
			logs.Warnf("clear persisted token, err: %+v", err)
		}
	}
	return had
}
