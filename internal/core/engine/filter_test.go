package engine

import (
	"testing"

	"github.com/Edmond40/afari-real-estate-sub000/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestApplyFilters_EmptySpecIsIdentity(t *testing.T) {
	listings := sampleListings()

	for _, spec := range []domain.FilterSpec{
		{},
		{PropertyType: domain.AllTypes, Category: domain.AnyCategory, PriceRange: domain.AnyPrice},
		{Location: "   ", PropertyType: "alltypes", Category: "any"},
	} {
		assert.Equal(t, listings, ApplyFilters(listings, spec))
	}
}

func TestApplyFilters_DoesNotMutateInput(t *testing.T) {
	listings := sampleListings()
	before := ids(listings)

	_ = ApplyFilters(listings, domain.FilterSpec{PropertyType: "Apartment"})

	assert.Equal(t, before, ids(listings))
}

func TestApplyFilters_Location(t *testing.T) {
	listings := sampleListings()

	got := ApplyFilters(listings, domain.FilterSpec{Location: "greater ACCRA"})
	assert.Equal(t, []string{"1", "4"}, ids(got))

	got = ApplyFilters(listings, domain.FilterSpec{Location: "kumasi ashanti"})
	assert.Equal(t, []string{"2"}, ids(got), "city and state joined with a space must match")
}

func TestApplyFilters_PropertyTypeCaseInsensitive(t *testing.T) {
	got := ApplyFilters(sampleListings(), domain.FilterSpec{PropertyType: "house"})
	assert.Equal(t, []string{"1", "3"}, ids(got))
}

func TestApplyFilters_CategoryToleratesEnumEncoding(t *testing.T) {
	listings := sampleListings()

	assert.Equal(t, []string{"2"}, ids(ApplyFilters(listings, domain.FilterSpec{Category: "For Rent"})))
	assert.Equal(t, []string{"1", "3", "4"}, ids(ApplyFilters(listings, domain.FilterSpec{Category: "FOR_SALE"})))
}

func TestApplyFilters_PriceBoundariesInclusive(t *testing.T) {
	listings := []domain.Listing{
		{ID: "a", Price: 100000},
		{ID: "b", Price: 200000},
		{ID: "c", Price: 400000},
		{ID: "d", Price: 500000},
		{ID: "e", Price: 500001},
	}

	assert.Equal(t, []string{"a"}, ids(ApplyFilters(listings, domain.FilterSpec{PriceRange: domain.Under100k})))
	assert.Equal(t, []string{"a", "b"}, ids(ApplyFilters(listings, domain.FilterSpec{PriceRange: domain.From100kTo200k})))
	assert.Equal(t, []string{"c", "d"}, ids(ApplyFilters(listings, domain.FilterSpec{PriceRange: domain.From400kTo500k})))
}

func TestApplyFilters_MissingPriceCountsAsZero(t *testing.T) {
	got := ApplyFilters(sampleListings(), domain.FilterSpec{PriceRange: domain.Under100k})
	assert.Equal(t, []string{"1", "4"}, ids(got))
}

func TestApplyFilters_UnknownPriceRangeIsNoOp(t *testing.T) {
	listings := sampleListings()
	assert.Equal(t, listings, ApplyFilters(listings, domain.FilterSpec{PriceRange: "Over9000"}))
}

func TestApplyFilters_CriteriaAreAnded(t *testing.T) {
	got := ApplyFilters(sampleListings(), domain.FilterSpec{
		Location:     "accra",
		PropertyType: "House",
		Category:     "for sale",
		PriceRange:   domain.Under100k,
	})
	assert.Equal(t, []string{"1"}, ids(got))
}

func TestFilterThenSortMatchesSortThenFilter(t *testing.T) {
	listings := sampleListings()
	spec := domain.FilterSpec{Category: "For Sale"}

	for _, key := range []domain.SortKey{domain.SortDefault, domain.SortPriceLow, domain.SortPriceHigh, domain.SortName} {
		a := ApplySort(ApplyFilters(listings, spec), key)
		b := ApplyFilters(ApplySort(listings, key), spec)
		assert.Equal(t, ids(a), ids(b), "sort key %s", key)
	}
}

func TestEndToEndScenario(t *testing.T) {
	listings := []domain.Listing{
		{ID: "1", Price: 90000, PropertyType: "House", Category: "For Sale"},
		{ID: "2", Price: 150000, PropertyType: "Apartment", Category: "For Rent"},
		{ID: "3", Price: 450000, PropertyType: "House", Category: "For Sale"},
	}

	filtered := ApplyFilters(listings, domain.FilterSpec{PropertyType: "House", PriceRange: domain.AnyPrice})
	assert.Equal(t, []string{"1", "3"}, ids(filtered))

	sorted := ApplySort(filtered, domain.SortPriceHigh)
	assert.Equal(t, []string{"3", "1"}, ids(sorted))
}
