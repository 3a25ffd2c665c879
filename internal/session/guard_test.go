package session

import (
	"net/http"
	"path/filepath"
	"testing"

	"main/internal/bus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGuard(t *testing.T) (*Guard, *bus.Hub) {
	t.Helper()
	hub := bus.NewHub()
	keyring := NewFileKeyring(filepath.Join(t.TempDir(), "token"))
	return NewGuard(keyring, hub), hub
}

func TestGuardAuthorizeAttachesBearer(t *testing.T) {
	guard, _ := newTestGuard(t)
	guard.SetToken("tok-123")

	r, err := http.NewRequest(http.MethodGet, "http://venue/market/board/G_BTCJPY", nil)
	require.NoError(t, err)
	guard.Authorize(r)

	assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
}

func TestGuardAuthorizeWithoutToken(t *testing.T) {
	guard, _ := newTestGuard(t)

	r, err := http.NewRequest(http.MethodGet, "http://venue/market/board/G_BTCJPY", nil)
	require.NoError(t, err)
	guard.Authorize(r)

	assert.Empty(t, r.Header.Get("Authorization"))
}

func TestGuardTokenSurvivesRestart(t *testing.T) {
	hub := bus.NewHub()
	path := filepath.Join(t.TempDir(), "token")

	NewGuard(NewFileKeyring(path), hub).SetToken("persisted")

	reloaded := NewGuard(NewFileKeyring(path), hub)
	assert.Equal(t, "persisted", reloaded.Token())
	assert.True(t, reloaded.Authenticated())
}

func TestGuardInvalidateBroadcastsOnce(t *testing.T) {
	guard, hub := newTestGuard(t)
	expired, cancel := hub.Subscribe(bus.TopicSessionExpired)
	defer cancel()

	guard.SetToken("tok-123")
	guard.Invalidate()
	guard.Invalidate()

	require.Len(t, expired, 1)
	assert.Equal(t, bus.TopicSessionExpired, (<-expired).Topic)
	assert.False(t, guard.Authenticated())

	// a subsequent request must carry no Authorization header
	r, err := http.NewRequest(http.MethodGet, "http://venue/positions/summary", nil)
	require.NoError(t, err)
	guard.Authorize(r)
	assert.Empty(t, r.Header.Get("Authorization"))
}

func TestGuardLogoutBroadcastsDistinctTopic(t *testing.T) {
	guard, hub := newTestGuard(t)
	expired, cancelExpired := hub.Subscribe(bus.TopicSessionExpired)
	loggedOut, cancelLoggedOut := hub.Subscribe(bus.TopicUserLoggedOut)
	defer cancelExpired()
	defer cancelLoggedOut()

	guard.SetToken("tok-123")
	guard.Logout()

	assert.Len(t, expired, 0)
	require.Len(t, loggedOut, 1)
	assert.False(t, guard.Authenticated())
}

func TestGuardReLoginAfterInvalidate(t *testing.T) {
	guard, _ := newTestGuard(t)

	guard.SetToken("first")
	guard.Invalidate()
	guard.SetToken("second")

	assert.Equal(t, "second", guard.Token())
}
