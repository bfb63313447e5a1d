// Package api is the HTTP client for the scheduling platform.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"agenda/internal/availability"
	"agenda/internal/metrics"
	"agenda/internal/schedule"
	"agenda/internal/session"
)

// TokenSource supplies the bearer token for authenticated calls.
type TokenSource interface {
	Token() (string, error)
}

// HTTPError is returned for non-2xx responses.
type HTTPError struct {
	StatusCode int
	Method     string
	Path       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: http %d", e.Method, e.Path, e.StatusCode)
}

// Client calls the scheduling API.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zerolog.Logger

	redis    redis.Cmdable
	cacheTTL time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit caps outgoing requests to rps with the given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps > 0 {
			if burst <= 0 {
				burst = 1
			}
			c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient constructs a client for baseURL. tokens may be nil for
// unauthenticated use (sign-in only).
func NewClient(baseURL string, tokens TokenSource, opts ...Option) *Client {
	nop := zerolog.Nop()
	c := &Client{
		baseURL:    baseURL,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     &nop,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UseRedisCache configures optional Redis caching for month availability.
func (c *Client) UseRedisCache(redisClient redis.Cmdable, ttl time.Duration) {
	c.redis = redisClient
	c.cacheTTL = ttl
}

// FetchByDay returns the signed-in provider's appointments of one day.
func (c *Client) FetchByDay(ctx context.Context, day, month, year int) ([]schedule.RawAppointment, error) {
	q := url.Values{}
	q.Set("day", strconv.Itoa(day))
	q.Set("month", strconv.Itoa(month))
	q.Set("year", strconv.Itoa(year))

	var out []schedule.RawAppointment
	if err := c.doGet(ctx, "/appointments/me", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchByMonth returns the per-day availability of providerID for one month.
func (c *Client) FetchByMonth(ctx context.Context, providerID string, month, year int) ([]availability.DayEntry, error) {
	if providerID == "" {
		return nil, session.ErrNotSignedIn
	}
	cacheKey := fmt.Sprintf("month-availability:%s:%04d-%02d", providerID, year, month)
	var out []availability.DayEntry

	if c.readCache(ctx, cacheKey, &out) {
		return out, nil
	}

	q := url.Values{}
	q.Set("month", strconv.Itoa(month))
	q.Set("year", strconv.Itoa(year))
	path := fmt.Sprintf("/providers/%s/month-availability", url.PathEscape(providerID))
	if err := c.doGet(ctx, path, q, &out); err != nil {
		return nil, err
	}
	c.writeCache(ctx, cacheKey, out)
	return out, nil
}

// SignIn exchanges credentials for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*session.Auth, error) {
	body := map[string]string{"email": email, "password": password}
	var out session.Auth
	if err := c.doPost(ctx, "/sessions", body, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// HealthCheck checks that the API answers.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", http.NoBody)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed: %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) readCache(ctx context.Context, key string, out any) bool {
	if c.redis == nil || c.cacheTTL <= 0 {
		return false
	}
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		metrics.IncCacheLookup(false)
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		metrics.IncCacheLookup(false)
		return false
	}
	metrics.IncCacheLookup(true)
	return true
}

func (c *Client) writeCache(ctx context.Context, key string, val any) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, c.cacheTTL).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

func (c *Client) doGet(ctx context.Context, path string, q url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return err
	}
	if err := c.authorize(req); err != nil {
		return err
	}
	return c.do(req, path, out)
}

func (c *Client) doPost(ctx context.Context, path string, body, out any, auth bool) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if auth {
		if err := c.authorize(req); err != nil {
			return err
		}
	}
	return c.do(req, path, out)
}

func (c *Client) authorize(req *http.Request) error {
	if c.tokens == nil {
		return nil
	}
	token, err := c.tokens.Token()
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

func (c *Client) do(req *http.Request, path string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("request_id", requestID).
		Str("method", req.Method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("api call")

	if resp.StatusCode >= 300 {
		return &HTTPError{StatusCode: resp.StatusCode, Method: req.Method, Path: path}
	}
	if out == nil {
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	return dec.Decode(out)
}
