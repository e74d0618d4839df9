package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/zaplinkhq/zaplink/internal/config"
)

// HTTPClient talks to the messaging gateway over REST. Every call passes
// through a client-side rate limiter because the gateway throttles
// aggressively and returns opaque 429s when pushed.
type HTTPClient struct {
	baseURL string
	token   string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewHTTPClient creates a gateway client from provider config.
func NewHTTPClient(log *slog.Logger, cfg config.ProviderConfig) *HTTPClient {
	if log == nil {
		log = slog.Default()
	}
	perSecond := cfg.RatePerSecond
	if perSecond <= 0 {
		perSecond = config.DefaultRatePerSecond
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = perSecond
	}
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		http:    &http.Client{Timeout: cfg.Timeout()},
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		logger:  log.With(slog.String("service", "provider")),
	}
}

// FetchRecentChanges returns recently changed messages across all chats.
func (c *HTTPClient) FetchRecentChanges(ctx context.Context, limit int) ([]Event, error) {
	query := url.Values{"limit": {strconv.Itoa(limit)}}
	var events []Event
	if err := c.get(ctx, "/api/messages/recent", query, &events); err != nil {
		return nil, fmt.Errorf("fetch recent changes: %w", err)
	}
	return events, nil
}

// FetchHistoryPage returns one page of a chat's history, oldest pages at the
// highest offsets.
func (c *HTTPClient) FetchHistoryPage(ctx context.Context, scopeID string, pageOffset, pageSize int) ([]Event, error) {
	query := url.Values{
		"page":  {strconv.Itoa(pageOffset)},
		"limit": {strconv.Itoa(pageSize)},
	}
	var events []Event
	path := "/api/chats/" + url.PathEscape(scopeID) + "/messages"
	if err := c.get(ctx, path, query, &events); err != nil {
		return nil, fmt.Errorf("fetch history page %d for %s: %w", pageOffset, scopeID, err)
	}
	return events, nil
}

// SendMessage posts an outbound text message.
func (c *HTTPClient) SendMessage(ctx context.Context, rawIdentifier, text string) (SendResult, error) {
	payload, err := json.Marshal(map[string]string{
		"phone":   rawIdentifier,
		"message": text,
	})
	if err != nil {
		return SendResult{}, err
	}
	var result SendResult
	if err := c.post(ctx, "/api/messages", payload, &result); err != nil {
		return SendResult{}, fmt.Errorf("send message: %w", err)
	}
	return result, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, query url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *HTTPClient) post(ctx context.Context, path string, body []byte, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, snippet)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
