package domain

// SortKey - стратегия упорядочивания.
type SortKey string

const (
	SortDefault   SortKey = "default"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortName      SortKey = "name"
)

// Normalize приводит неизвестные значения к SortDefault.
func (k SortKey) Normalize() SortKey {
	switch k {
	case SortPriceLow, SortPriceHigh, SortName:
		return k
	default:
		return SortDefault
	}
}
