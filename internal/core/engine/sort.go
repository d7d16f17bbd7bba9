package engine

import (
	"cmp"
	"slices"

	"github.com/Edmond40/afari-real-estate-sub000/internal/core/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ApplySort возвращает новый срез, упорядоченный по ключу.
// Сортировка стабильная; неизвестный ключ работает как SortDefault.
func ApplySort(listings []domain.Listing, key domain.SortKey) []domain.Listing {
	result := make([]domain.Listing, len(listings))
	copy(result, listings)

	switch key.Normalize() {
	case domain.SortPriceLow:
		slices.SortStableFunc(result, func(a, b domain.Listing) int {
			return cmp.Compare(a.Price, b.Price)
		})
	case domain.SortPriceHigh:
		slices.SortStableFunc(result, func(a, b domain.Listing) int {
			return cmp.Compare(b.Price, a.Price)
		})
	case domain.SortName:
		// Collator не потокобезопасен, поэтому создаем его на каждый вызов
		col := collate.New(language.English)
		slices.SortStableFunc(result, func(a, b domain.Listing) int {
			return col.CompareString(a.DisplayName(), b.DisplayName())
		})
	}

	return result
}
