package engine

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/Edmond40/afari-real-estate-sub000/internal/core/domain"
	"github.com/mmcloughlin/geohash"
)

const geohashPrecision = 5

// GroupBy считает количество элементов для каждого ключа.
// Пустой ключ учитывается как domain.UnknownGroup.
func GroupBy[T any](items []T, keyFn func(T) string) map[string]int {
	counts := make(map[string]int)
	for _, item := range items {
		key := keyFn(item)
		if strings.TrimSpace(key) == "" {
			key = domain.UnknownGroup
		}
		counts[key]++
	}
	return counts
}

// SortedGroups раскладывает результат GroupBy в детерминированном порядке:
// по убыванию количества, затем по ключу.
func SortedGroups(counts map[string]int) []domain.GroupCount {
	groups := make([]domain.GroupCount, 0, len(counts))
	for k, v := range counts {
		groups = append(groups, domain.GroupCount{Key: k, Count: v})
	}
	slices.SortFunc(groups, func(a, b domain.GroupCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return groups
}

// ListingKeyFunc возвращает функцию ключа для поля группировки.
func ListingKeyFunc(field domain.GroupField) (func(domain.Listing) string, error) {
	switch field {
	case domain.GroupByStatus:
		return func(l domain.Listing) string {
			if l.Status != "" {
				return orUnknown(l.Status)
			}
			return orUnknown(l.Category)
		}, nil
	case domain.GroupByLocation:
		return func(l domain.Listing) string { return orUnknown(l.Location) }, nil
	case domain.GroupByType:
		return func(l domain.Listing) string { return orUnknown(l.PropertyType) }, nil
	case domain.GroupByAgent:
		return func(l domain.Listing) string {
			if l.AgentName != "" {
				return l.AgentName
			}
			return orUnknown(l.AgentID)
		}, nil
	case domain.GroupByPurpose:
		return func(l domain.Listing) string { return orUnknown(l.Purpose) }, nil
	case domain.GroupByBedrooms:
		return func(l domain.Listing) string {
			if l.Bedrooms == nil {
				return domain.UnknownGroup
			}
			return strconv.Itoa(*l.Bedrooms)
		}, nil
	case domain.GroupByPrice:
		return func(l domain.Listing) string { return PriceBucket(l.Price) }, nil
	case domain.GroupByGeohash:
		return func(l domain.Listing) string {
			if l.Latitude == nil || l.Longitude == nil {
				return domain.UnknownGroup
			}
			return geohash.EncodeWithPrecision(*l.Latitude, *l.Longitude, geohashPrecision)
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownGroupField, field)
	}
}

// PriceBucket - ценовая корзина для графиков. Нулевая цена (не указана) - Unknown.
func PriceBucket(price float64) string {
	switch {
	case price <= 0:
		return domain.UnknownGroup
	case price <= 100000:
		return "<$100k"
	case price <= 200000:
		return "$100k-$200k"
	case price <= 400000:
		return "$200k-$400k"
	default:
		return ">$400k"
	}
}

func orUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.UnknownGroup
	}
	return s
}
