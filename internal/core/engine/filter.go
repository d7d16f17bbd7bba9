package engine

import (
	"strings"

	"github.com/Edmond40/afari-real-estate-sub000/internal/core/domain"
)

// ApplyFilters возвращает объявления, удовлетворяющие всем активным критериям.
// Порядок входа сохраняется, вход не изменяется. Пустая спецификация - тождество.
func ApplyFilters(listings []domain.Listing, spec domain.FilterSpec) []domain.Listing {
	result := make([]domain.Listing, 0, len(listings))
	if spec.IsEmpty() {
		return append(result, listings...)
	}

	m := newMatcher(spec)
	for _, l := range listings {
		if m.match(l) {
			result = append(result, l)
		}
	}
	return result
}

// matcher держит уже нормализованные значения фильтра,
// чтобы не пересчитывать их на каждом объявлении.
type matcher struct {
	location     string
	propertyType string
	category     string
	priceMin     float64
	priceMax     float64
	hasPrice     bool
}

func newMatcher(spec domain.FilterSpec) matcher {
	m := matcher{}
	if spec.HasLocation() {
		m.location = strings.ToLower(strings.TrimSpace(spec.Location))
	}
	if spec.HasPropertyType() {
		m.propertyType = strings.TrimSpace(spec.PropertyType)
	}
	if spec.HasCategory() {
		m.category = NormalizeCategory(spec.Category)
	}
	m.priceMin, m.priceMax, m.hasPrice = spec.PriceRange.Bounds()
	return m
}

func (m matcher) match(l domain.Listing) bool {
	if m.location != "" && !matchLocation(l, m.location) {
		return false
	}
	if m.propertyType != "" && !strings.EqualFold(strings.TrimSpace(l.PropertyType), m.propertyType) {
		return false
	}
	if m.category != "" && NormalizeCategory(l.Category) != m.category {
		return false
	}
	if m.hasPrice && (l.Price < m.priceMin || l.Price > m.priceMax) {
		return false
	}
	return true
}

func matchLocation(l domain.Listing, needle string) bool {
	if l.Location != "" && strings.Contains(strings.ToLower(l.Location), needle) {
		return true
	}
	cityState := strings.ToLower(strings.TrimSpace(l.City + " " + l.State))
	return strings.Contains(cityState, needle)
}

// NormalizeCategory приводит "For Rent" и "FOR_RENT" к одному виду.
func NormalizeCategory(s string) string {
	s = strings.ToLower(strings.ReplaceAll(s, "_", " "))
	return strings.Join(strings.Fields(s), " ")
}
