package domain

// BrowseMode - где выполняется фильтрация и сортировка.
type BrowseMode string

const (
	ModeServer BrowseMode = "server"
	ModeClient BrowseMode = "client"
)

// BrowseRequest - входные данные координатора пагинации.
type BrowseRequest struct {
	Filters  FilterSpec
	Sort     SortKey
	Page     int
	PageSize int

	// PreviousPageSize - размер страницы, который был у клиента до запроса.
	// Если он отличается от PageSize, страница сбрасывается на первую.
	PreviousPageSize int

	// Snapshot - полный набор результатов (например, после поиска).
	// Если задан (или задан SnapshotID), работает клиентский режим.
	Snapshot   []Listing
	SnapshotID string

	// ClientKey - ключ клиента для защиты от устаревших ответов.
	ClientKey string
}

// BrowseResult - страница плюс отдельный признак ошибки.
type BrowseResult struct {
	Page   Page
	Mode   BrowseMode
	Failed bool
	Err    error
	// Stale - ответ устарел: клиент уже отправил более новый запрос.
	Stale bool
}

// RepositoryQuery - то подмножество фильтров, которое понимает репозиторий.
type RepositoryQuery struct {
	City   string
	Type   string
	Status string
	Page   int
	Limit  int
}

// RepositoryPage - ответ репозитория.
type RepositoryPage struct {
	Items       []Listing
	Total       int
	CurrentPage int
	TotalPages  int
}
