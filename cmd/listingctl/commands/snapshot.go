package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"

	"github.com/Edmond40/afari-real-estate-sub000/internal/core/domain"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/engine"
)

// loadSnapshot читает файл с объявлениями. Допускается массив верхнего уровня
// или объект с полем items/listings/data, как в ответах API.
func loadSnapshot(path string) ([]domain.Listing, error) {
	if path == "" {
		return nil, fmt.Errorf("snapshot file is required (--file)")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var doc any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &doc)
	default:
		err = sonic.Unmarshal(raw, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot file %s: %w", path, err)
	}

	items, err := itemsOf(doc)
	if err != nil {
		return nil, err
	}

	listings := make([]domain.Listing, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("snapshot item %d is not an object", i)
		}
		listings = append(listings, engine.NormalizeRaw(m))
	}
	return listings, nil
}

func itemsOf(doc any) ([]any, error) {
	switch v := doc.(type) {
	case []any:
		return v, nil
	case map[string]any:
		for _, key := range []string{"items", "listings", "data"} {
			if items, ok := v[key].([]any); ok {
				return items, nil
			}
		}
	}
	return nil, fmt.Errorf("snapshot file must contain a list of listings")
}

// snapshotRepository отдает объявления из файла так же, как это делает upstream API:
// фильтры city/type/status на стороне "сервера", страницы по page/limit.
type snapshotRepository struct {
	items []domain.Listing
}

func (r *snapshotRepository) FetchPage(_ context.Context, q domain.RepositoryQuery) (*domain.RepositoryPage, error) {
	matched := engine.ApplyFilters(r.items, domain.FilterSpec{
		Location:     q.City,
		PropertyType: q.Type,
		Category:     q.Status,
	})

	limit := q.Limit
	if limit < 1 {
		limit = engine.DefaultPageSize
	}
	page := engine.Paginate(matched, q.Page, limit)
	return &domain.RepositoryPage{
		Items:       page.Items,
		Total:       page.TotalCount,
		CurrentPage: page.CurrentPage,
		TotalPages:  page.TotalPages,
	}, nil
}

func (r *snapshotRepository) GetByID(_ context.Context, id string) (*domain.Listing, error) {
	for _, l := range r.items {
		if l.ID == id {
			found := l
			return &found, nil
		}
	}
	return nil, domain.ErrListingNotFound
}

func (r *snapshotRepository) Search(_ context.Context, text string, limit int) ([]domain.Listing, error) {
	needle := strings.ToLower(strings.TrimSpace(text))
	var out []domain.Listing
	for _, l := range r.items {
		if strings.Contains(strings.ToLower(l.DisplayName()), needle) || strings.Contains(strings.ToLower(l.Location), needle) {
			out = append(out, l)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out, nil
}
