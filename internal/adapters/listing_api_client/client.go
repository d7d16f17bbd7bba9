package listing_api_client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"golang.org/x/time/rate"

	"github.com/Edmond40/afari-real-estate-sub000/internal/contextkeys"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/domain"
)

// Config - адрес и ограничения upstream API объявлений.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// RPS и Burst ограничивают частоту запросов к upstream.
	RPS   float64
	Burst int
}

// Client - реализация port.ListingRepositoryPort поверх REST API объявлений.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient(cfg Config) (*Client, error) {
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid listing API base URL %q: %w", cfg.BaseURL, err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(limit, cfg.Burst),
	}, nil
}

func (c *Client) FetchPage(ctx context.Context, q domain.RepositoryQuery) (*domain.RepositoryPage, error) {
	params := url.Values{}
	if q.City != "" {
		params.Set("city", q.City)
	}
	if q.Type != "" {
		params.Set("type", q.Type)
	}
	if q.Status != "" {
		params.Set("status", q.Status)
	}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("limit", strconv.Itoa(q.Limit))

	body, err := c.get(ctx, "/api/listings", params)
	if err != nil {
		return nil, err
	}
	return decodePage(body, q)
}

func (c *Client) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	body, err := c.get(ctx, "/api/listings/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	return decodeListing(body)
}

func (c *Client) Search(ctx context.Context, text string, limit int) ([]domain.Listing, error) {
	params := url.Values{}
	params.Set("q", text)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	body, err := c.get(ctx, "/api/listings/search", params)
	if err != nil {
		return nil, err
	}
	page, err := decodePage(body, domain.RepositoryQuery{Page: 1, Limit: limit})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// get выполняет GET с ограничением частоты и пробрасывает trace id.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		req.Header.Set("X-Trace-ID", traceID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to listing API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read listing API response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.ErrListingNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("listing API returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// decodeJSON разбирает тело в нетипизированное дерево: форма ответа у API не постоянна.
func decodeJSON(body []byte) (any, error) {
	var v any
	if err := sonic.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("listing API returned invalid JSON: %w", err)
	}
	return v, nil
}
