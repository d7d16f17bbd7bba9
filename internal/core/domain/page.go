package domain

// Page - страница, готовая к отрисовке.
// Инварианты: len(Items) <= PageSize, CurrentPage <= TotalPages,
// TotalCount == 0 => Items пуст и TotalPages == 1.
type Page struct {
	Items       []Listing
	CurrentPage int
	TotalPages  int
	TotalCount  int
	PageSize    int
}

// EmptyPage - пустая, но валидная страница.
func EmptyPage(pageSize int) Page {
	if pageSize < 1 {
		pageSize = 1
	}
	return Page{
		Items:       []Listing{},
		CurrentPage: 1,
		TotalPages:  1,
		TotalCount:  0,
		PageSize:    pageSize,
	}
}
