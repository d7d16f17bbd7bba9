package rest

import (
	"time"

	"github.com/Edmond40/afari-real-estate-sub000/internal/core/domain"
)

// ListingDTO - объявление в том виде, который ждет SPA.
type ListingDTO struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Name         string   `json:"name,omitempty"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	Location     string   `json:"location"`
	PropertyType string   `json:"propertyType"`
	Category     string   `json:"category"`
	Purpose      string   `json:"purpose,omitempty"`
	Status       string   `json:"status,omitempty"`
	Price        float64  `json:"price"`
	Bedrooms     *int     `json:"bedrooms,omitempty"`
	Bathrooms    *int     `json:"bathrooms,omitempty"`
	Area         *float64 `json:"area,omitempty"`
	Images       []string `json:"images"`
	AgentID      string   `json:"agentId,omitempty"`
	AgentName    string   `json:"agentName,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	CreatedAt    string   `json:"createdAt,omitempty"`
}

// PageDTO - страница плюс режим, в котором она собрана.
type PageDTO struct {
	Items       []ListingDTO `json:"items"`
	CurrentPage int          `json:"currentPage"`
	TotalPages  int          `json:"totalPages"`
	TotalCount  int          `json:"totalCount"`
	PageSize    int          `json:"pageSize"`
	Mode        string       `json:"mode"`
	Error       string       `json:"error,omitempty"`
}

type GroupCountDTO struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

type StatsDTO struct {
	Groups       map[string][]GroupCountDTO `json:"groups"`
	TotalScanned int                        `json:"totalScanned"`
	Truncated    bool                       `json:"truncated"`
}

type CreateSearchRequest struct {
	Query string `json:"query"`
}

type CreateSearchResponse struct {
	ID    string `json:"id"`
	Query string `json:"query"`
	Total int    `json:"total"`
}

// InlineBrowseRequest - тело POST /listings/browse: полный набор уже есть у клиента.
// Элементы приходят "сырыми" и проходят ту же нормализацию, что и ответы API.
type InlineBrowseRequest struct {
	Items            []map[string]any  `json:"items"`
	Filters          domain.FilterSpec `json:"filters"`
	Sort             string            `json:"sort"`
	Page             int               `json:"page"`
	PageSize         int               `json:"pageSize"`
	PreviousPageSize int               `json:"previousPageSize"`
}

func toListingDTO(l domain.Listing) ListingDTO {
	dto := ListingDTO{
		ID:           l.ID,
		Title:        l.DisplayName(),
		Name:         l.Name,
		City:         l.City,
		State:        l.State,
		Location:     l.Location,
		PropertyType: l.PropertyType,
		Category:     l.Category,
		Purpose:      l.Purpose,
		Status:       l.Status,
		Price:        l.Price,
		Bedrooms:     l.Bedrooms,
		Bathrooms:    l.Bathrooms,
		Area:         l.Area,
		Images:       l.Images,
		AgentID:      l.AgentID,
		AgentName:    l.AgentName,
		Latitude:     l.Latitude,
		Longitude:    l.Longitude,
	}
	if dto.Images == nil {
		dto.Images = []string{}
	}
	if !l.CreatedAt.IsZero() {
		dto.CreatedAt = l.CreatedAt.UTC().Format(time.RFC3339)
	}
	return dto
}

func toPageDTO(res domain.BrowseResult) PageDTO {
	items := make([]ListingDTO, 0, len(res.Page.Items))
	for _, l := range res.Page.Items {
		items = append(items, toListingDTO(l))
	}
	dto := PageDTO{
		Items:       items,
		CurrentPage: res.Page.CurrentPage,
		TotalPages:  res.Page.TotalPages,
		TotalCount:  res.Page.TotalCount,
		PageSize:    res.Page.PageSize,
		Mode:        string(res.Mode),
	}
	if res.Err != nil {
		dto.Error = res.Err.Error()
	}
	return dto
}

func toStatsDTO(stats *domain.ListingStats) StatsDTO {
	dto := StatsDTO{
		Groups:       make(map[string][]GroupCountDTO, len(stats.Groups)),
		TotalScanned: stats.TotalScanned,
		Truncated:    stats.Truncated,
	}
	for field, groups := range stats.Groups {
		out := make([]GroupCountDTO, 0, len(groups))
		for _, g := range groups {
			out = append(out, GroupCountDTO{Key: g.Key, Count: g.Count})
		}
		dto.Groups[string(field)] = out
	}
	return dto
}
