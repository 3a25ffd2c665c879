package venue

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yanun0323/errors"

	"main/internal/adapter"
	"main/internal/adapter/enum"
	"main/internal/bus"
	"main/internal/session"
	"main/pkg/exception"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *session.Guard, *bus.Hub, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	hub := bus.NewHub()
	guard := session.NewGuard(session.NewFileKeyring(filepath.Join(t.TempDir(), "token")), hub)
	client := NewClient(Config{
		BaseURL:     server.URL,
		NewsBaseURL: server.URL,
	}, server.Client(), guard)
	return client, guard, hub, server
}

func TestClientLoginStoresToken(t *testing.T) {
	client, guard, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "testuser", creds["username"])

		_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok-abc"})
	}))

	require.NoError(t, client.Login(t.Context(), "testuser", "password123"))
	assert.Equal(t, "tok-abc", guard.Token())
}

func TestClientOrderBook(t *testing.T) {
	client, guard, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/market/board/G_FX_BTCJPY", r.URL.Path)
		assert.Equal(t, "15", r.URL.Query().Get("depth"))
		assert.Equal(t, "Bearer tok-abc", r.Header.Get("Authorization"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"symbol": "G_FX_BTCJPY",
			"bids":   []map[string]int64{{"price": 14980000, "quantity": 10000}},
			"asks":   []map[string]int64{{"price": 14981000, "quantity": 5000}},
		})
	}))
	guard.SetToken("tok-abc")

	book, err := client.OrderBook(t.Context(), adapter.SymbolGFXBTCJPY, 15)
	require.NoError(t, err)
	assert.Equal(t, adapter.SymbolGFXBTCJPY, book.Symbol)
	require.Len(t, book.Bids, 1)
	assert.Equal(t, adapter.Price(14980000), book.Bids[0].Price)
	require.Len(t, book.Asks, 1)
	assert.Equal(t, adapter.Quantity(5000), book.Asks[0].Quantity)
}

func TestClientUnauthorizedInvalidatesSession(t *testing.T) {
	client, guard, hub, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	guard.SetToken("expired")

	notices, cancel := hub.Subscribe(bus.TopicSessionExpired)
	defer cancel()

	_, err := client.OrderBook(t.Context(), adapter.SymbolGBTCJPY, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, exception.ErrSessionUnauthorized))
	assert.False(t, guard.Authenticated())
	assert.Len(t, notices, 1)
}

func TestClientStatusTaxonomy(t *testing.T) {
	testCases := []struct {
		desc     string
		status   int
		expected error
	}{
		{"forbidden", http.StatusForbidden, exception.ErrVenueForbidden},
		{"server error", http.StatusInternalServerError, exception.ErrVenueStatus},
		{"bad request", http.StatusBadRequest, exception.ErrVenueStatus},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			client, _, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))

			_, err := client.OrderBook(t.Context(), adapter.SymbolGBTCJPY, 0)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.expected))
		})
	}
}

func TestClientPlaceOrder(t *testing.T) {
	client, guard, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/orders/new", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "B_BTCJPY", body["symbol"])
		assert.Equal(t, "SELL", body["side"])
		assert.Equal(t, "LIMIT", body["ordType"])
		assert.Equal(t, "IOC", body["tif"])
		assert.EqualValues(t, 14979000, body["price"])
		assert.EqualValues(t, 250, body["quantity"])

		_ = json.NewEncoder(w).Encode(map[string]string{
			"orderId":   "order-9",
			"clOrdID":   "client-9",
			"ordStatus": "NEW",
		})
	}))
	guard.SetToken("tok")

	ack, err := client.PlaceOrder(t.Context(), adapter.OrderTicket{
		Symbol:      adapter.SymbolBBTCJPY,
		Side:        enum.OrderSideSell,
		Type:        enum.OrderTypeLimit,
		TimeInForce: enum.OrderTimeInForceIOC,
		Price:       14979000,
		Quantity:    250,
	})
	require.NoError(t, err)
	assert.Equal(t, "order-9", ack.OrderID)
	assert.Equal(t, "NEW", ack.Status)
}

func TestClientOwnExecutions(t *testing.T) {
	client, guard, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/executions/history", r.URL.Path)
		assert.Equal(t, "0", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("size"))
		assert.Equal(t, "G_BTCJPY", r.URL.Query().Get("symbol"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"executions": []map[string]any{
				{
					"execID":       "exec-1",
					"symbol":       "G_BTCJPY",
					"side":         "BUY",
					"lastQty":      100,
					"lastPx":       14980000,
					"ordStatus":    "FILLED",
					"transactTime": time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC).Format(time.RFC3339),
				},
			},
		})
	}))
	guard.SetToken("tok")

	records, err := client.OwnExecutions(t.Context(), adapter.SymbolGBTCJPY, 0, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "exec-1", records[0].ExecID)
	assert.Equal(t, enum.OrderSideBuy, records[0].Side)
	assert.Equal(t, adapter.Quantity(100), records[0].LastQty)
	assert.False(t, records[0].TransactTime.IsZero())
}

func TestClientNewsUnauthenticated(t *testing.T) {
	client, guard, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/news/summaries", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"title": "headline", "summary": "body", "source": "wire"},
		})
	}))
	guard.SetToken("tok")

	items, err := client.NewsSummaries(t.Context(), 0, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "headline", items[0].Title)
}
