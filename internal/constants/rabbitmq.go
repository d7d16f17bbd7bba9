package constants

// Обменник, в который сервис объявлений публикует изменения
const (
	ExchangeListings     = "listings"
	ExchangeListingsType = "topic"
)

// Ключи маршрутизации
const (
	RoutingKeyListingChanged = "listing.changed"
)

// Очередь этого сервиса. Не durable: после рестарта кэш все равно пустой.
const (
	QueueListingChanged = "listing_service.listing_changed"
	ConsumerTag         = "listing-service"
)

// Заголовки сообщений
const (
	HeaderEventType    = "event-type"
	HeaderEventVersion = "event-version"
	HeaderTraceID      = "x-trace-id"
)
