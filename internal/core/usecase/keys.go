package usecase

import (
	"fmt"
	"strings"

	"github.com/Edmond40/afari-real-estate-sub000/internal/core/domain"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/engine"
)

func snapshotKey(id string) string {
	return "snapshot:" + id
}

// memoKey - ключ мемоизации (источник, фильтры, сортировка, версия источника).
// Значения квотируются, чтобы разделители внутри пользовательских строк
// не склеивали разные запросы в один ключ.
func memoKey(sourceID string, spec domain.FilterSpec, sort domain.SortKey, version uint64) string {
	loc, typ, cat, price := normalizedFilter(spec)
	return fmt.Sprintf("browse:%q:loc=%q:type=%q:cat=%q:price=%q:sort=%s:v%d",
		sourceID, loc, typ, cat, price, sort, version)
}

// normalizedFilter приводит фильтр к виду, в котором его видит движок:
// "" и AllTypes/Any/AnyPrice дают одно и то же.
func normalizedFilter(spec domain.FilterSpec) (loc, typ, cat, price string) {
	if spec.HasLocation() {
		loc = strings.ToLower(strings.TrimSpace(spec.Location))
	}
	if spec.HasPropertyType() {
		typ = strings.ToLower(strings.TrimSpace(spec.PropertyType))
	}
	if spec.HasCategory() {
		cat = engine.NormalizeCategory(spec.Category)
	}
	if spec.HasPriceRange() {
		price = string(spec.PriceRange)
	}
	return loc, typ, cat, price
}
