package engine

import "github.com/Edmond40/afari-real-estate-sub000/internal/core/domain"

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

// TotalPages - количество страниц; для пустого результата всегда 1.
func TotalPages(totalCount, pageSize int) int {
	if totalCount <= 0 || pageSize < 1 {
		return 1
	}
	return (totalCount + pageSize - 1) / pageSize
}

// NormalizePaging приводит номер и размер страницы к допустимым значениям.
// Смена размера страницы сбрасывает номер на первую.
func NormalizePaging(page, pageSize, previousPageSize, defaultSize, maxSize int) (int, int) {
	if defaultSize < 1 {
		defaultSize = DefaultPageSize
	}
	if maxSize < 1 {
		maxSize = MaxPageSize
	}
	if pageSize < 1 {
		pageSize = defaultSize
	}
	if pageSize > maxSize {
		pageSize = maxSize
	}
	if page < 1 {
		page = 1
	}
	if previousPageSize > 0 && previousPageSize != pageSize {
		page = 1
	}
	return page, pageSize
}

// Paginate режет полный набор на страницы (клиентский режим).
// Номер страницы за пределами диапазона прижимается к последней.
func Paginate(items []domain.Listing, page, pageSize int) domain.Page {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	total := len(items)
	if total == 0 {
		return domain.EmptyPage(pageSize)
	}

	totalPages := TotalPages(total, pageSize)
	page = clampPage(page, totalPages)

	start := (page - 1) * pageSize
	end := min(start+pageSize, total)

	pageItems := make([]domain.Listing, end-start)
	copy(pageItems, items[start:end])

	return domain.Page{
		Items:       pageItems,
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
		PageSize:    pageSize,
	}
}

// PageFromServer собирает страницу из ответа репозитория.
// Количество и число страниц берутся у репозитория, даже если часть элементов
// страницы отсеяна ценовым фильтром на нашей стороне.
func PageFromServer(items []domain.Listing, totalCount, page, pageSize int) domain.Page {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if len(items) > pageSize {
		items = items[:pageSize]
	}
	if totalCount < len(items) {
		totalCount = len(items)
	}
	if totalCount == 0 {
		return domain.EmptyPage(pageSize)
	}

	totalPages := TotalPages(totalCount, pageSize)
	pageItems := make([]domain.Listing, len(items))
	copy(pageItems, items)

	return domain.Page{
		Items:       pageItems,
		CurrentPage: clampPage(page, totalPages),
		TotalPages:  totalPages,
		TotalCount:  totalCount,
		PageSize:    pageSize,
	}
}

func clampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}
