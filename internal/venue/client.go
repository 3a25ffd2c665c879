package venue

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/yanun0323/errors"

	"main/internal/adapter"
	"main/internal/session"
	"main/pkg/exception"
)

const (
	_defaultDepth       = 15
	_defaultPageSize    = 10
	_defaultCallTimeout = 15 * time.Second
)

// Config carries the venue endpoints and paging defaults.
type Config struct {
	// BaseURL is the authorized venue API root.
	BaseURL string
	// NewsBaseURL is the separate, unauthenticated news API root.
	NewsBaseURL string
	// Depth is the order book depth requested per snapshot.
	Depth int
	// PageSize caps execution history pages.
	PageSize int
	// CallTimeout bounds a single REST call.
	CallTimeout time.Duration
}

func (cfg Config) withDefaults() Config {
	if cfg.Depth <= 0 {
		cfg.Depth = _defaultDepth
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = _defaultPageSize
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = _defaultCallTimeout
	}
	return cfg
}

// Client talks to the venue's REST API. Every authorized call carries
// the guard's bearer token; any authentication failure is reported to
// the guard before the error surfaces.
type Client struct {
	cfg    Config
	client *http.Client
	guard  *session.Guard
}

// NewClient creates a venue client. A nil http.Client falls back to a
// default one.
func NewClient(cfg Config, client *http.Client, guard *session.Guard) *Client {
	if client == nil {
		client = &http.Client{}
	}
	return &Client{
		cfg:    cfg.withDefaults(),
		client: client,
		guard:  guard,
	}
}

// PageSize returns the configured execution page size.
func (c *Client) PageSize() int {
	return c.cfg.PageSize
}

// Depth returns the configured order book depth.
func (c *Client) Depth() int {
	return c.cfg.Depth
}

// Login exchanges credentials for a token and stores it in the guard.
func (c *Client) Login(ctx context.Context, username, password string) error {
	return c.authenticate(ctx, "/auth/login", username, password)
}

// Signup registers a new account and stores the issued token.
func (c *Client) Signup(ctx context.Context, username, password string) error {
	return c.authenticate(ctx, "/auth/signup", username, password)
}

func (c *Client) authenticate(ctx context.Context, path, username, password string) error {
	var resp authResponse
	err := c.do(ctx, http.MethodPost, c.cfg.BaseURL+path, false, credentialsPayload{
		Username: username,
		Password: password,
	}, &resp)
	if err != nil {
		return err
	}
	if resp.Token == "" {
		return exception.ErrSessionTokenMissing
	}
	c.guard.SetToken(resp.Token)
	return nil
}

// OrderBook fetches one order book snapshot.
func (c *Client) OrderBook(ctx context.Context, symbol adapter.Symbol, depth int) (adapter.OrderBook, error) {
	if depth <= 0 {
		depth = c.cfg.Depth
	}
	endpoint := c.cfg.BaseURL + "/market/board/" + symbol.String() + "?depth=" + strconv.Itoa(depth)

	var payload orderBookPayload
	if err := c.do(ctx, http.MethodGet, endpoint, true, nil, &payload); err != nil {
		return adapter.OrderBook{}, err
	}
	book := payload.toBook()
	if !book.Symbol.IsAvailable() {
		book.Symbol = symbol
	}
	return book, nil
}

// PlaceOrder submits a new order.
func (c *Client) PlaceOrder(ctx context.Context, ticket adapter.OrderTicket) (adapter.OrderAck, error) {
	body := orderRequestPayload{
		Symbol:   ticket.Symbol.String(),
		Price:    int64(ticket.Price),
		Quantity: int64(ticket.Quantity),
		Side:     ticket.Side.String(),
		OrdType:  ticket.Type.String(),
		TIF:      ticket.TimeInForce.String(),
	}

	var payload orderResponsePayload
	if err := c.do(ctx, http.MethodPost, c.cfg.BaseURL+"/orders/new", true, body, &payload); err != nil {
		return adapter.OrderAck{}, err
	}
	return adapter.OrderAck{
		OrderID:       payload.OrderID,
		ClientOrderID: payload.ClOrdID,
		Status:        payload.OrdStatus,
		Message:       payload.Message,
	}, nil
}

// OwnExecutions fetches one page of the caller's execution history.
func (c *Client) OwnExecutions(ctx context.Context, symbol adapter.Symbol, page, size int) ([]adapter.ExecutionRecord, error) {
	return c.executions(ctx, "/executions/history", symbol, page, size)
}

// AllExecutions fetches one page of market-wide execution history.
func (c *Client) AllExecutions(ctx context.Context, symbol adapter.Symbol, page, size int) ([]adapter.ExecutionRecord, error) {
	return c.executions(ctx, "/executions/all", symbol, page, size)
}

func (c *Client) executions(ctx context.Context, path string, symbol adapter.Symbol, page, size int) ([]adapter.ExecutionRecord, error) {
	if size <= 0 {
		size = c.cfg.PageSize
	}
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))
	if symbol.IsAvailable() {
		query.Set("symbol", symbol.String())
	}

	var payload executionHistoryResponse
	if err := c.do(ctx, http.MethodGet, c.cfg.BaseURL+path+"?"+query.Encode(), true, nil, &payload); err != nil {
		return nil, err
	}
	return payload.toRecords(), nil
}

// TradedVolume fetches the traded volume within a time window.
func (c *Client) TradedVolume(ctx context.Context, symbol adapter.Symbol, from, to time.Time) (adapter.TradedVolume, error) {
	query := url.Values{}
	query.Set("symbol", symbol.String())
	query.Set("fromTime", from.UTC().Format(time.RFC3339))
	query.Set("toTime", to.UTC().Format(time.RFC3339))

	var payload tradedVolumePayload
	if err := c.do(ctx, http.MethodGet, c.cfg.BaseURL+"/executions/volume?"+query.Encode(), true, nil, &payload); err != nil {
		return adapter.TradedVolume{}, err
	}
	return adapter.TradedVolume{
		Symbol:   adapter.ParseSymbol(payload.Symbol),
		Volume:   payload.Volume,
		FromTime: parseWireTime(payload.FromTime),
		ToTime:   parseWireTime(payload.ToTime),
	}, nil
}

// PortfolioSummary fetches the account-wide portfolio report.
func (c *Client) PortfolioSummary(ctx context.Context) (adapter.PortfolioSummary, error) {
	var payload portfolioSummaryPayload
	if err := c.do(ctx, http.MethodGet, c.cfg.BaseURL+"/positions/summary", true, nil, &payload); err != nil {
		return adapter.PortfolioSummary{}, err
	}
	return payload.toSummary(), nil
}

// TradeHistory fetches up to limit settled trades, optionally filtered
// by symbol.
func (c *Client) TradeHistory(ctx context.Context, limit int, symbol adapter.Symbol) ([]adapter.TradeHistoryItem, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if symbol.IsAvailable() {
		query.Set("symbol", symbol.String())
	}
	endpoint := c.cfg.BaseURL + "/positions/trades"
	if len(query) != 0 {
		endpoint += "?" + query.Encode()
	}

	var payload []tradeHistoryItemPayload
	if err := c.do(ctx, http.MethodGet, endpoint, true, nil, &payload); err != nil {
		return nil, err
	}
	items := make([]adapter.TradeHistoryItem, 0, len(payload))
	for _, item := range payload {
		items = append(items, item.toItem())
	}
	return items, nil
}

// NewsSummaries fetches the news summary feed from the unauthenticated
// news base.
func (c *Client) NewsSummaries(ctx context.Context, page, size int) ([]adapter.NewsSummary, error) {
	var payload []newsSummaryPayload
	if err := c.do(ctx, http.MethodGet, c.newsEndpoint("/news/summaries", page, size), false, nil, &payload); err != nil {
		return nil, err
	}
	items := make([]adapter.NewsSummary, 0, len(payload))
	for _, item := range payload {
		items = append(items, adapter.NewsSummary{
			Title:     item.Title,
			Summary:   item.Summary,
			URL:       item.URL,
			Source:    item.Source,
			Timestamp: parseWireTime(item.Timestamp),
		})
	}
	return items, nil
}

// NewsTranslations fetches the translated news feed.
func (c *Client) NewsTranslations(ctx context.Context, page, size int) ([]adapter.NewsTranslation, error) {
	var payload []newsTranslationPayload
	if err := c.do(ctx, http.MethodGet, c.newsEndpoint("/news/translations", page, size), false, nil, &payload); err != nil {
		return nil, err
	}
	items := make([]adapter.NewsTranslation, 0, len(payload))
	for _, item := range payload {
		items = append(items, adapter.NewsTranslation{
			Title:     item.Title,
			TitleJP:   item.TitleJP,
			Body:      item.Body,
			Impact:    item.Impact,
			Timestamp: parseWireTime(item.Timestamp),
		})
	}
	return items, nil
}

func (c *Client) newsEndpoint(path string, page, size int) string {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	if size <= 0 {
		size = c.cfg.PageSize
	}
	query.Set("size", strconv.Itoa(size))
	return c.cfg.NewsBaseURL + path + "?" + query.Encode()
}

// do performs one REST call: encodes the body, attaches authorization
// for non-auth endpoints, maps the status taxonomy, and decodes the
// response. A 401 from any endpoint invalidates the session exactly
// once before the error is returned.
func (c *Client) do(ctx context.Context, method, endpoint string, authorized bool, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := sonic.ConfigFastest.Marshal(body)
		if err != nil {
			return errors.Wrapf(exception.ErrVenueEncodeRequestBody, "marshal, err: %+v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	r, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	r.Header.Set("Content-Type", "application/json")
	if authorized {
		c.guard.Authorize(r)
	}

	resp, err := c.client.Do(r)
	if err != nil {
		return errors.Wrapf(exception.ErrVenueUnreachable, "%s %s, err: %+v", method, endpoint, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		c.guard.Invalidate()
		return errors.Wrapf(exception.ErrSessionUnauthorized, "%s %s", method, endpoint)
	case resp.StatusCode == http.StatusForbidden:
		return errors.Wrapf(exception.ErrVenueForbidden, "%s %s", method, endpoint)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return errors.Wrapf(exception.ErrVenueStatus, "%s %s, status: %d", method, endpoint, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := sonic.ConfigFastest.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(exception.ErrVenueDecodeResponseBody, "%s %s, err: %+v", method, endpoint, err)
	}
	return nil
}
