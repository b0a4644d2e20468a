package kalshi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/mselser95/bracket-arb/pkg/types"
)

const (
	requestTimeout = 15 * time.Second

	getMaxRetries    = 3
	postMaxRetries   = 2
	deleteMaxRetries = 2

	getBackoffCap  = 10 * time.Second
	writeBackoffCap = 5 * time.Second
)

// Client wraps the exchange's signed REST API: paginated reads, a read
// throttle on GET, and bounded exponential backoff on 429. It is safe
// for concurrent use — the read-throttle timestamp is the only mutable
// state, guarded by its own mutex.
type Client struct {
	baseURL    string
	httpClient *http.Client
	auth       *Auth
	logger     *zap.Logger

	readDelay time.Duration
	throttle  sync.Mutex
	lastRead  time.Time
}

// Config configures a Client.
type Config struct {
	BaseURL      string
	RSAKeyPath   string
	APIKeyID     string
	ReadDelay    time.Duration // default 150ms
	Logger       *zap.Logger
}

// NewClient builds a Client, loading the RSA signing key immediately —
// a missing or unparsable key fails construction fatally.
func NewClient(cfg Config) (*Client, error) {
	auth, err := NewAuth(cfg.RSAKeyPath, cfg.APIKeyID)
	if err != nil {
		return nil, fmt.Errorf("construct exchange client: %w", err)
	}

	readDelay := cfg.ReadDelay
	if readDelay == 0 {
		readDelay = 150 * time.Millisecond
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: requestTimeout},
		auth:       auth,
		logger:     logger,
		readDelay:  readDelay,
	}, nil
}

// throttleGET serializes the start of every GET so successive reads
// begin no closer together than readDelay.
func (c *Client) throttleGET() {
	c.throttle.Lock()
	defer c.throttle.Unlock()

	elapsed := time.Since(c.lastRead)
	if wait := c.readDelay - elapsed; wait > 0 {
		time.Sleep(wait)
	}
	c.lastRead = time.Now()
}

// roundTrip issues one HTTP request with signed headers and returns
// the status code, body, and Retry-After header verbatim; it does not
// interpret the status.
func (c *Client) roundTrip(ctx context.Context, method, path string, body []byte) (int, []byte, string, error) {
	headers, err := c.auth.Headers(method, path)
	if err != nil {
		return 0, nil, "", fmt.Errorf("sign request: %w", err)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, "", fmt.Errorf("build request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, "", fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, "", fmt.Errorf("%s %s: read body: %w", method, path, err)
	}

	return resp.StatusCode, respBody, resp.Header.Get("Retry-After"), nil
}

// retryAfterDelay parses the Retry-After header's seconds value, possibly
// fractional, per the 429 backoff contract; zero, false if unusable.
func retryAfterDelay(header string) (time.Duration, bool) {
	if header == "" {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(header, 64)
	if err != nil || seconds < 0 {
		return 0, false
	}
	return time.Duration(seconds * float64(time.Second)), true
}

// doWithRetry retries a GET/POST/DELETE on 429 up to maxRetries times,
// honoring Retry-After when present, else exponential backoff capped
// at backoffCap. It returns the final status/body once retries are
// exhausted or a non-429 response arrives.
func (c *Client) doWithRetry(
	ctx context.Context,
	method, path string,
	body []byte,
	maxRetries int,
	backoffCap time.Duration,
) (status int, respBody []byte, err error) {
	for attempt := 0; ; attempt++ {
		if method == http.MethodGet {
			c.throttleGET()
		}

		var after string
		status, respBody, after, err = c.roundTrip(ctx, method, path, body)
		if err != nil {
			return status, respBody, err
		}

		if status != http.StatusTooManyRequests {
			return status, respBody, nil
		}

		if attempt >= maxRetries {
			return status, respBody, nil
		}

		wait, ok := retryAfterDelay(after)
		if !ok {
			wait = time.Duration(1<<uint(attempt)) * time.Second
			if wait > backoffCap {
				wait = backoffCap
			}
		}

		c.logger.Warn("exchange-rate-limited-retrying",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", maxRetries),
			zap.Duration("wait", wait))

		select {
		case <-ctx.Done():
			return status, respBody, ctx.Err()
		case <-time.After(wait):
		}
	}
}

// get performs a throttled, retried GET.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	status, body, err := c.doWithRetry(ctx, http.MethodGet, path, nil, getMaxRetries, getBackoffCap)
	if err != nil {
		return nil, err
	}

	if status == http.StatusTooManyRequests {
		return nil, &types.RateLimitError{Method: http.MethodGet, Path: path, Body: string(body)}
	}
	if status < 200 || status >= 300 {
		return nil, &types.APIError{Method: http.MethodGet, Path: path, Status: status, Body: string(body)}
	}

	return body, nil
}

// post performs a retried POST (no read throttle).
func (c *Client) post(ctx context.Context, path string, reqBody []byte) ([]byte, error) {
	status, body, err := c.doWithRetry(ctx, http.MethodPost, path, reqBody, postMaxRetries, writeBackoffCap)
	if err != nil {
		return nil, err
	}

	if status == http.StatusTooManyRequests {
		return nil, &types.RateLimitError{Method: http.MethodPost, Path: path, Body: string(body)}
	}
	if status < 200 || status >= 300 {
		return nil, &types.APIError{Method: http.MethodPost, Path: path, Status: status, Body: string(body)}
	}

	return body, nil
}

// delete performs a retried DELETE; cancellation is best-effort, so a
// 429 after retries or any non-success status is logged and treated
// as success rather than propagated.
func (c *Client) delete(ctx context.Context, path string) error {
	status, body, err := c.doWithRetry(ctx, http.MethodDelete, path, nil, deleteMaxRetries, writeBackoffCap)
	if err != nil {
		return err
	}

	if status == http.StatusTooManyRequests || status < 200 || status >= 300 {
		c.logger.Warn("exchange-cancel-non-success-treated-as-best-effort",
			zap.String("path", path),
			zap.Int("status", status),
			zap.String("body", string(body)))
	}

	return nil
}

// ListSeries pages through GET /series until the cursor is exhausted.
func (c *Client) ListSeries(ctx context.Context) ([]Series, error) {
	var all []Series
	cursor := ""

	for {
		path := "/series"
		if cursor != "" {
			path += "?cursor=" + url.QueryEscape(cursor)
		}

		body, err := c.get(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("list series: %w", err)
		}

		var page SeriesResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("list series: parse response: %w", err)
		}

		all = append(all, page.Series...)

		if page.Cursor == "" {
			return all, nil
		}
		cursor = page.Cursor
	}
}

// GetEvents pages through GET /events for one series, requesting
// nested markets and open status; the "active" filter is applied by
// the caller per-market.
func (c *Client) GetEvents(ctx context.Context, seriesTicker string) ([]Event, error) {
	var all []Event
	cursor := ""

	for {
		q := url.Values{}
		q.Set("series_ticker", seriesTicker)
		q.Set("with_nested_markets", "true")
		q.Set("status", "open")
		if cursor != "" {
			q.Set("cursor", cursor)
		}
		path := "/events?" + q.Encode()

		body, err := c.get(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("get events for series %s: %w", seriesTicker, err)
		}

		var page EventsResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("get events for series %s: parse response: %w", seriesTicker, err)
		}

		all = append(all, page.Events...)

		if page.Cursor == "" {
			return all, nil
		}
		cursor = page.Cursor
	}
}

// GetOrderbook fetches the depth-5 order book for one market.
func (c *Client) GetOrderbook(ctx context.Context, marketTicker string) (Orderbook, error) {
	path := fmt.Sprintf("/markets/%s/orderbook?depth=5", marketTicker)

	body, err := c.get(ctx, path)
	if err != nil {
		return Orderbook{}, fmt.Errorf("get orderbook for %s: %w", marketTicker, err)
	}

	var resp OrderbookResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Orderbook{}, fmt.Errorf("get orderbook for %s: parse response: %w", marketTicker, err)
	}

	return resp.Orderbook, nil
}

// CreateOrder places one limit order.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (Order, error) {
	reqBody, err := json.Marshal(req)
	if err != nil {
		return Order{}, fmt.Errorf("encode order request: %w", err)
	}

	body, err := c.post(ctx, "/portfolio/orders", reqBody)
	if err != nil {
		return Order{}, err
	}

	var resp CreateOrderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Order{}, fmt.Errorf("create order: parse response: %w", err)
	}

	return resp.Order, nil
}

// CancelOrder cancels an order; failures are best-effort per §4.2.
func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	path := "/portfolio/orders/" + url.PathEscape(orderID)
	return c.delete(ctx, path)
}
