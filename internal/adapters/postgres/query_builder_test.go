package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Edmond40/afari-real-estate-sub000/internal/core/domain"
)

func TestBuildPageQueries_NoFilters(t *testing.T) {
	countSQL, dataSQL, countArgs, dataArgs := buildPageQueries(domain.RepositoryQuery{Page: 3, Limit: 12})

	assert.Equal(t, "SELECT COUNT(*) FROM listings ", countSQL)
	assert.Empty(t, countArgs)
	assert.Contains(t, dataSQL, "LIMIT $1 OFFSET $2")
	assert.Equal(t, []interface{}{12, 24}, dataArgs)
}

func TestBuildPageQueries_AllFilters(t *testing.T) {
	countSQL, dataSQL, countArgs, dataArgs := buildPageQueries(domain.RepositoryQuery{
		City: " Accra ", Type: "House", Status: "FOR_SALE", Page: 1, Limit: 10,
	})

	assert.Contains(t, countSQL, "(location ILIKE $1 OR (COALESCE(city, '') || ' ' || COALESCE(state, '')) ILIKE $1)")
	assert.Contains(t, countSQL, "lower(property_type) = lower($2)")
	assert.Contains(t, countSQL, "lower(replace($3, '_', ' '))")
	assert.Equal(t, []interface{}{"%Accra%", "House", "FOR_SALE"}, countArgs)

	assert.Contains(t, dataSQL, "LIMIT $4 OFFSET $5")
	assert.Equal(t, []interface{}{"%Accra%", "House", "FOR_SALE", 10, 0}, dataArgs)
}

func TestBuildPageQueries_CityAndStateMatchTogether(t *testing.T) {
	countSQL, _, countArgs, _ := buildPageQueries(domain.RepositoryQuery{City: "Accra Greater", Page: 1, Limit: 10})

	// "Accra Greater" не найдется ни в city, ни в state по отдельности
	assert.Contains(t, countSQL, "(COALESCE(city, '') || ' ' || COALESCE(state, '')) ILIKE $1")
	assert.NotContains(t, countSQL, "city ILIKE $1")
	assert.Equal(t, []interface{}{"%Accra Greater%"}, countArgs)
}

func TestBuildSearchQuery(t *testing.T) {
	sql, args := buildSearchQuery("50%_off", 20)

	assert.Contains(t, sql, "title ILIKE $1")
	assert.Contains(t, sql, "LIMIT $2")
	assert.Equal(t, []interface{}{`%50\%\_off%`, 20}, args)
}
