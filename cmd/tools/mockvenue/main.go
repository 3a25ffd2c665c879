// mockvenue serves the venue REST API locally with deterministic data,
// so the terminal can run end to end without a real backend.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/yanun0323/logs"

	"main/internal/adapter"
	"main/internal/market"
)

const _mockToken = "mock-token"

type server struct {
	mu    sync.Mutex
	seq   int
	fills []map[string]any
}

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	s := &server{}

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", s.login)
	mux.HandleFunc("/auth/signup", s.login)
	mux.HandleFunc("/market/board/", s.board)
	mux.HandleFunc("/orders/new", s.newOrder)
	mux.HandleFunc("/executions/history", s.executions)
	mux.HandleFunc("/executions/all", s.executions)
	mux.HandleFunc("/executions/volume", s.volume)
	mux.HandleFunc("/positions/summary", s.summary)
	mux.HandleFunc("/positions/trades", s.trades)
	mux.HandleFunc("/news/summaries", s.newsSummaries)
	mux.HandleFunc("/news/translations", s.newsTranslations)

	logs.Infof("mock venue listening on %s", *addr)
	if err := http.ListenAndServe(*addr, mux); err != nil {
		logs.Errorf("serve, err: %+v", err)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	payload, _ := sonic.ConfigFastest.Marshal(v)
	_, _ = w.Write(payload)
}

func authorized(w http.ResponseWriter, r *http.Request) bool {
	if r.Header.Get("Authorization") != "Bearer "+_mockToken {
		w.WriteHeader(http.StatusUnauthorized)
		return false
	}
	return true
}

func (s *server) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, map[string]string{"token": _mockToken})
}

func (s *server) board(w http.ResponseWriter, r *http.Request) {
	if !authorized(w, r) {
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/market/board/")
	symbol := adapter.ParseSymbol(name)
	if !symbol.IsAvailable() {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	book := market.SyntheticBook(symbol, time.Now())
	levels := func(side []adapter.BookLevel) []map[string]int64 {
		out := make([]map[string]int64, 0, len(side))
		for _, level := range side {
			out = append(out, map[string]int64{
				"price":    int64(level.Price),
				"quantity": int64(level.Quantity),
			})
		}
		return out
	}
	writeJSON(w, map[string]any{
		"symbol":         symbol.String(),
		"bids":           levels(book.Bids),
		"asks":           levels(book.Asks),
		"lastUpdateTime": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *server) newOrder(w http.ResponseWriter, r *http.Request) {
	if !authorized(w, r) {
		return
	}

	var req struct {
		Symbol   string `json:"symbol"`
		Price    int64  `json:"price"`
		Quantity int64  `json:"quantity"`
		Side     string `json:"side"`
	}
	if err := sonic.ConfigFastest.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.seq++
	seq := s.seq
	fill := map[string]any{
		"execID":       fmt.Sprintf("exec-%d", seq),
		"orderId":      fmt.Sprintf("order-%d", seq),
		"symbol":       req.Symbol,
		"side":         req.Side,
		"lastQty":      req.Quantity,
		"lastPx":       req.Price,
		"cumQty":       req.Quantity,
		"avgPx":        req.Price,
		"ordStatus":    "FILLED",
		"transactTime": time.Now().UTC().Format(time.RFC3339),
	}
	s.fills = append([]map[string]any{fill}, s.fills...)
	s.mu.Unlock()

	writeJSON(w, map[string]string{
		"orderId":   fmt.Sprintf("order-%d", seq),
		"clOrdID":   fmt.Sprintf("client-%d", seq),
		"ordStatus": "FILLED",
	})
}

func (s *server) executions(w http.ResponseWriter, r *http.Request) {
	if !authorized(w, r) {
		return
	}

	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if size <= 0 {
		size = 10
	}

	s.mu.Lock()
	fills := s.fills
	if len(fills) > size {
		fills = fills[:size]
	}
	page := make([]map[string]any, len(fills))
	copy(page, fills)
	s.mu.Unlock()

	writeJSON(w, map[string]any{
		"page":          0,
		"size":          size,
		"totalElements": len(page),
		"executions":    page,
	})
}

func (s *server) volume(w http.ResponseWriter, r *http.Request) {
	if !authorized(w, r) {
		return
	}
	writeJSON(w, map[string]any{
		"symbol":   r.URL.Query().Get("symbol"),
		"volume":   "1.250",
		"fromTime": r.URL.Query().Get("fromTime"),
		"toTime":   r.URL.Query().Get("toTime"),
	})
}

func (s *server) summary(w http.ResponseWriter, r *http.Request) {
	if !authorized(w, r) {
		return
	}

	s.mu.Lock()
	count := len(s.fills)
	s.mu.Unlock()

	writeJSON(w, map[string]any{
		"username":           "testuser",
		"totalRealizedPnL":   125_000,
		"totalUnrealizedPnL": -15_000,
		"totalPnL":           110_000,
		"totalTradeCount":    count,
		"totalTradingVolume": "1.250",
		"positions": []map[string]any{{
			"symbol":          adapter.SymbolGBTCJPY.String(),
			"netQty":          "0.150",
			"averageBuyPrice": 14_950_000,
			"realizedPnL":     125_000,
			"unrealizedPnL":   -15_000,
			"totalPnL":        110_000,
		}},
		"symbolTradeCounts": map[string]int{
			adapter.SymbolGBTCJPY.String(): count,
		},
	})
}

func (s *server) trades(w http.ResponseWriter, r *http.Request) {
	if !authorized(w, r) {
		return
	}
	writeJSON(w, []map[string]any{{
		"id":          "trade-1",
		"symbol":      adapter.SymbolGBTCJPY.String(),
		"side":        "BUY",
		"quantity":    "0.100",
		"price":       14_950_000,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"realizedPnL": 0,
	}})
}

func (s *server) newsSummaries(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, []map[string]any{{
		"title":     "BTC/JPY steady through the Tokyo session",
		"summary":   "Spot volumes held firm on domestic venues.",
		"source":    "mock",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}})
}

func (s *server) newsTranslations(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, []map[string]any{{
		"title":     "BTC/JPY steady through the Tokyo session",
		"title_jp":  "BTC/JPYは東京時間を通じて安定",
		"body":      "国内取引所の現物出来高は底堅く推移した。",
		"impact":    0.3,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}})
}
