package usecase

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Edmond40/afari-real-estate-sub000/internal/core/domain"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/engine"
)

// fakeRepository - репозиторий в памяти, повторяющий серверную фильтрацию по city/type/status.
type fakeRepository struct {
	mu      sync.Mutex
	items   []domain.Listing
	err     error
	queries []domain.RepositoryQuery
	// maxLimit > 0 урезает размер страницы, как это делают некоторые API
	maxLimit int

	fetchHook func(ctx context.Context, call int) error
}

func (r *fakeRepository) FetchPage(ctx context.Context, q domain.RepositoryQuery) (*domain.RepositoryPage, error) {
	r.mu.Lock()
	r.queries = append(r.queries, q)
	call := len(r.queries)
	hook := r.fetchHook
	r.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, call); err != nil {
			return nil, err
		}
	}
	if r.err != nil {
		return nil, r.err
	}

	var matched []domain.Listing
	for _, l := range r.items {
		if q.City != "" && !strings.Contains(strings.ToLower(l.City), strings.ToLower(q.City)) {
			continue
		}
		if q.Type != "" && !strings.EqualFold(l.PropertyType, q.Type) {
			continue
		}
		if q.Status != "" && engine.NormalizeCategory(l.Category) != engine.NormalizeCategory(q.Status) {
			continue
		}
		matched = append(matched, l)
	}

	limit := q.Limit
	if r.maxLimit > 0 && limit > r.maxLimit {
		limit = r.maxLimit
	}
	start := (q.Page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := min(start+limit, len(matched))

	return &domain.RepositoryPage{
		Items:       matched[start:end],
		Total:       len(matched),
		CurrentPage: q.Page,
		TotalPages:  engine.TotalPages(len(matched), limit),
	}, nil
}

func (r *fakeRepository) GetByID(_ context.Context, id string) (*domain.Listing, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, l := range r.items {
		if l.ID == id {
			found := l
			return &found, nil
		}
	}
	return nil, domain.ErrListingNotFound
}

func (r *fakeRepository) Search(_ context.Context, text string, limit int) ([]domain.Listing, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []domain.Listing
	for _, l := range r.items {
		if strings.Contains(strings.ToLower(l.DisplayName()), strings.ToLower(text)) {
			out = append(out, l)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeRepository) lastQuery() domain.RepositoryQuery {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.queries[len(r.queries)-1]
}

// fakeCache хранит значения в JSON, как это делает настоящий кэш.
type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, out)
}

func (c *fakeCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *fakeCache) keys(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			n++
		}
	}
	return n
}

// recordingMetrics считает вызовы метрик.
type recordingMetrics struct {
	mu         sync.Mutex
	failures   int
	hits       int
	misses     int
	stale      int
	observed   int
	lastFailed bool
}

func (m *recordingMetrics) ObserveBrowse(_ string, _ time.Duration, failed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observed++
	m.lastFailed = failed
}

func (m *recordingMetrics) RepositoryFailure(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures++
}

func (m *recordingMetrics) CacheHit(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hits++
}

func (m *recordingMetrics) CacheMiss(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.misses++
}

func (m *recordingMetrics) StaleRequest() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stale++
}

func generateListings(n int) []domain.Listing {
	cities := []string{"Accra", "Kumasi", "Tema"}
	types := []string{"House", "Apartment"}
	categories := []string{"For Sale", "FOR_RENT"}

	out := make([]domain.Listing, n)
	for i := range out {
		city := cities[i%len(cities)]
		out[i] = domain.Listing{
			ID:           strconv.Itoa(i + 1),
			Title:        "Listing " + strconv.Itoa(i+1),
			City:         city,
			Location:     city + ", Ghana",
			PropertyType: types[i%len(types)],
			Category:     categories[i%len(categories)],
			Price:        float64((i + 1) * 25000),
		}
	}
	return out
}

func testBrowseConfig() BrowseConfig {
	return BrowseConfig{DefaultPageSize: 12, MaxPageSize: 100, MemoTTL: time.Minute}
}
