package engine

import (
	"encoding/json"
	"testing"

	"github.com/Edmond40/afari-real-estate-sub000/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRaw_LegacyFields(t *testing.T) {
	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": 17,
		"title": "Sea View",
		"city": "Accra",
		"state": "Greater Accra",
		"type": "APARTMENT",
		"status": "FOR_RENT",
		"price": "125000",
		"bedrooms": "3",
		"images": "[\"/a.jpg\", \"/b.jpg\"]",
		"AgentName": "Ama Mensah",
		"agentId": "ag-1"
	}`), &raw))

	l := NormalizeRaw(raw)

	assert.Equal(t, "17", l.ID)
	assert.Equal(t, "Accra, Greater Accra", l.Location)
	assert.Equal(t, "Apartment", l.PropertyType)
	assert.Equal(t, "FOR_RENT", l.Category)
	assert.Equal(t, 125000.0, l.Price)
	require.NotNil(t, l.Bedrooms)
	assert.Equal(t, 3, *l.Bedrooms)
	assert.Nil(t, l.Bathrooms)
	assert.Equal(t, []string{"/a.jpg", "/b.jpg"}, l.Images)
	assert.Equal(t, "Ama Mensah", l.AgentName)
	assert.Equal(t, "ag-1", l.AgentID)
}

func TestNormalizeRaw_BadValuesDegrade(t *testing.T) {
	l := NormalizeRaw(map[string]any{
		"propertyType": "TownHouse",
		"price":        "call us",
		"images":       "[not json",
		"agent":        map[string]any{"name": "Kofi"},
		"location":     "East Legon",
	})

	assert.Equal(t, "TownHouse", l.PropertyType)
	assert.Equal(t, 0.0, l.Price)
	assert.Equal(t, []string{}, l.Images)
	assert.Equal(t, "Kofi", l.AgentName)
	assert.Equal(t, "East Legon", l.Location)
}

func TestCoercePrice(t *testing.T) {
	assert.Equal(t, 0.0, CoercePrice(nil))
	assert.Equal(t, 0.0, CoercePrice("abc"))
	assert.Equal(t, 12.5, CoercePrice(" 12.5 "))
	assert.Equal(t, 42.0, CoercePrice(42))
	assert.Equal(t, 0.0, CoercePrice("NaN"))
}

func TestDeriveLocation(t *testing.T) {
	assert.Equal(t, "Accra, Greater Accra", DeriveLocation("Accra", "Greater Accra"))
	assert.Equal(t, "Accra", DeriveLocation("Accra", ""))
	assert.Equal(t, "Ashanti", DeriveLocation(" ", "Ashanti"))
	assert.Equal(t, "", Finalize(domain.Listing{}).Location)
}
