package domain

import "time"

// Listing - нормализованный объект недвижимости.
// Все "легаси" поля (type/propertyType, AgentName/agentName и т.д.) сводятся к этому набору
// один раз, при приеме данных (см. engine.NormalizeRaw).
type Listing struct {
	ID    string
	Title string
	Name  string // запасное поле, если Title не заполнен

	City     string
	State    string
	Location string // "city, state", если не задан явно

	PropertyType string // Apartment, House, Land, ...
	Category     string // "For Sale" / "For Rent" (или FOR_SALE / FOR_RENT)
	Purpose      string
	Status       string // статус модерации в админке

	Price     float64
	Bedrooms  *int
	Bathrooms *int
	Area      *float64

	Images []string

	AgentID   string
	AgentName string

	Latitude  *float64
	Longitude *float64

	CreatedAt time.Time
}

// DisplayName возвращает заголовок для сортировки по имени.
func (l Listing) DisplayName() string {
	if l.Title != "" {
		return l.Title
	}
	return l.Name
}
