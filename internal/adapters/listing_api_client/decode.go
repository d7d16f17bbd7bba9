package listing_api_client

import (
	"fmt"

	"github.com/Edmond40/afari-real-estate-sub000/internal/core/domain"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/engine"
)

// Известные формы ответа со списком:
//   - [ {...}, ... ]
//   - {"items": [...], "total": N, "page": P, "totalPages": T}
//   - {"listings": [...], "total": N}
//   - {"data": [...]} или {"data": {"listings": [...], "pagination": {...}}}
func decodePage(body []byte, q domain.RepositoryQuery) (*domain.RepositoryPage, error) {
	root, err := decodeJSON(body)
	if err != nil {
		return nil, err
	}

	rawItems, meta, ok := findItems(root)
	if !ok {
		return nil, fmt.Errorf("listing API response has no listings array")
	}

	items := make([]domain.Listing, 0, len(rawItems))
	for _, raw := range rawItems {
		m, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		items = append(items, engine.NormalizeRaw(m))
	}

	page := &domain.RepositoryPage{
		Items:       items,
		Total:       intField(meta, len(items), "total", "totalCount", "count"),
		CurrentPage: intField(meta, q.Page, "page", "currentPage"),
		TotalPages:  intField(meta, 0, "totalPages", "pages"),
	}
	if page.Total < len(items) {
		page.Total = len(items)
	}
	if page.TotalPages == 0 {
		page.TotalPages = engine.TotalPages(page.Total, q.Limit)
	}
	return page, nil
}

// findItems ищет массив объявлений и объект с метаданными пагинации рядом с ним.
func findItems(v any) ([]any, map[string]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, nil, true
	case map[string]any:
		for _, key := range []string{"items", "listings", "results"} {
			if arr, ok := t[key].([]any); ok {
				return arr, metaOf(t), true
			}
		}
		if data, ok := t["data"]; ok {
			arr, meta, found := findItems(data)
			if found && meta == nil {
				meta = metaOf(t)
			}
			return arr, meta, found
		}
	}
	return nil, nil, false
}

// metaOf - пагинация либо вложена в "pagination"/"meta", либо лежит на том же уровне.
func metaOf(m map[string]any) map[string]any {
	for _, key := range []string{"pagination", "meta"} {
		if nested, ok := m[key].(map[string]any); ok {
			return nested
		}
	}
	return m
}

func intField(m map[string]any, def int, keys ...string) int {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if f, ok := v.(float64); ok && f >= 0 {
				return int(f)
			}
		}
	}
	return def
}

// decodeListing разбирает {"data": {...}}, {"listing": {...}} или сам объект.
func decodeListing(body []byte) (*domain.Listing, error) {
	root, err := decodeJSON(body)
	if err != nil {
		return nil, err
	}
	m, ok := root.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("listing API returned unexpected listing shape")
	}
	for _, key := range []string{"data", "listing"} {
		if nested, ok := m[key].(map[string]any); ok {
			m = nested
			break
		}
	}

	l := engine.NormalizeRaw(m)
	if l.ID == "" {
		return nil, domain.ErrListingNotFound
	}
	return &l, nil
}
