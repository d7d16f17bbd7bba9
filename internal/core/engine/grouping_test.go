package engine

import (
	"errors"
	"testing"

	"github.com/Edmond40/afari-real-estate-sub000/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupBy_CompletenessForEveryField(t *testing.T) {
	listings := sampleListings()
	listings = append(listings, domain.Listing{ID: "5"})

	fields := []domain.GroupField{
		domain.GroupByStatus, domain.GroupByLocation, domain.GroupByType, domain.GroupByAgent,
		domain.GroupByPurpose, domain.GroupByBedrooms, domain.GroupByPrice, domain.GroupByGeohash,
	}
	for _, field := range fields {
		keyFn, err := ListingKeyFunc(field)
		require.NoError(t, err)

		total := 0
		for _, c := range GroupBy(listings, keyFn) {
			total += c
		}
		assert.Equal(t, len(listings), total, "field %s", field)
	}
}

func TestGroupBy_MissingValuesAreUnknown(t *testing.T) {
	keyFn, err := ListingKeyFunc(domain.GroupByBedrooms)
	require.NoError(t, err)

	counts := GroupBy(sampleListings(), keyFn)
	assert.Equal(t, map[string]int{"2": 1, "1": 1, "5": 1, domain.UnknownGroup: 1}, counts)
}

func TestGroupBy_EmptyKeyBecomesUnknown(t *testing.T) {
	counts := GroupBy([]string{"a", "", " ", "a"}, func(s string) string { return s })
	assert.Equal(t, map[string]int{"a": 2, domain.UnknownGroup: 2}, counts)
}

func TestPriceBucket(t *testing.T) {
	assert.Equal(t, domain.UnknownGroup, PriceBucket(0))
	assert.Equal(t, "<$100k", PriceBucket(100000))
	assert.Equal(t, "$100k-$200k", PriceBucket(100001))
	assert.Equal(t, "$200k-$400k", PriceBucket(400000))
	assert.Equal(t, ">$400k", PriceBucket(400001))
}

func TestGroupBy_Geohash(t *testing.T) {
	keyFn, err := ListingKeyFunc(domain.GroupByGeohash)
	require.NoError(t, err)

	listings := []domain.Listing{
		{ID: "1", Latitude: floatPtr(5.6037), Longitude: floatPtr(-0.1870)},
		{ID: "2", Latitude: floatPtr(5.60371), Longitude: floatPtr(-0.18701)},
		{ID: "3"},
	}
	counts := GroupBy(listings, keyFn)

	assert.Equal(t, 1, counts[domain.UnknownGroup])
	assert.Len(t, counts, 2)
}

func TestListingKeyFunc_UnknownField(t *testing.T) {
	_, err := ListingKeyFunc("color")
	assert.True(t, errors.Is(err, domain.ErrUnknownGroupField))
}

func TestSortedGroups(t *testing.T) {
	groups := SortedGroups(map[string]int{"b": 2, "a": 2, "c": 5})
	assert.Equal(t, []domain.GroupCount{{Key: "c", Count: 5}, {Key: "a", Count: 2}, {Key: "b", Count: 2}}, groups)
}
