package domain

// GroupField - поле группировки для аналитики в админке.
type GroupField string

const (
	GroupByStatus   GroupField = "status"
	GroupByLocation GroupField = "location"
	GroupByType     GroupField = "type"
	GroupByAgent    GroupField = "agent"
	GroupByPurpose  GroupField = "purpose"
	GroupByBedrooms GroupField = "bedrooms"
	GroupByPrice    GroupField = "price"
	GroupByGeohash  GroupField = "geohash"
)

// UnknownGroup - ключ для отсутствующих значений.
const UnknownGroup = "Unknown"

// GroupCount - одна категория графика.
type GroupCount struct {
	Key   string
	Count int
}

// ListingStats - результат агрегации по нескольким полям.
type ListingStats struct {
	Groups       map[GroupField][]GroupCount
	TotalScanned int
	// Truncated - обход остановлен по лимиту страниц.
	Truncated bool
}

// SearchSnapshot - сохраненный результат полнотекстового поиска.
type SearchSnapshot struct {
	ID    string
	Query string
	Items []Listing
}

// ListingChangedEvent - событие об изменении объявления во внешнем сервисе.
type ListingChangedEvent struct {
	EventID   string
	ListingID string
	Action    string
}
