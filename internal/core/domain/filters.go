package domain

import "strings"

// Сентинелы - значения "без ограничения".
const (
	AllTypes    = "AllTypes"
	AnyCategory = "Any"
)

// PriceRange - ценовой диапазон фильтра.
type PriceRange string

const (
	AnyPrice       PriceRange = "AnyPrice"
	Under100k      PriceRange = "Under100k"
	From100kTo200k PriceRange = "100kTo200k"
	From400kTo500k PriceRange = "400kTo500k"
)

// Bounds возвращает границы диапазона (включительно).
// ok == false означает "без ограничения" (AnyPrice или неизвестное значение).
func (p PriceRange) Bounds() (min, max float64, ok bool) {
	switch p {
	case Under100k:
		return 0, 100000, true
	case From100kTo200k:
		return 100000, 200000, true
	case From400kTo500k:
		return 400000, 500000, true
	default:
		return 0, 0, false
	}
}

// FilterSpec - набор критериев, выбранных пользователем.
// Пустые значения и сентинелы не ограничивают выборку.
type FilterSpec struct {
	Location     string     `json:"location,omitempty"`
	PropertyType string     `json:"propertyType,omitempty"`
	Category     string     `json:"category,omitempty"`
	PriceRange   PriceRange `json:"priceRange,omitempty"`
}

// IsEmpty - true, если ни один критерий не активен.
func (f FilterSpec) IsEmpty() bool {
	return !f.HasLocation() && !f.HasPropertyType() && !f.HasCategory() && !f.HasPriceRange()
}

func (f FilterSpec) HasLocation() bool {
	return trimmed(f.Location) != ""
}

func (f FilterSpec) HasPropertyType() bool {
	t := trimmed(f.PropertyType)
	return t != "" && !strings.EqualFold(t, AllTypes)
}

func (f FilterSpec) HasCategory() bool {
	c := trimmed(f.Category)
	return c != "" && !strings.EqualFold(c, AnyCategory)
}

func (f FilterSpec) HasPriceRange() bool {
	_, _, ok := f.PriceRange.Bounds()
	return ok
}

// OnlyPriceRange - копия, в которой активен только ценовой фильтр.
func (f FilterSpec) OnlyPriceRange() FilterSpec {
	return FilterSpec{PriceRange: f.PriceRange}
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
