package rest

import (
	"net/url"

	"github.com/gorilla/schema"

	"github.com/Edmond40/afari-real-estate-sub000/internal/core/domain"
)

var queryDecoder = schema.NewDecoder()

func init() {
	queryDecoder.IgnoreUnknownKeys(true)
}

// BrowseQuery - параметры строки запроса для листинга.
type BrowseQuery struct {
	Location         string `schema:"location"`
	PropertyType     string `schema:"propertyType"`
	Category         string `schema:"category"`
	PriceRange       string `schema:"priceRange"`
	Sort             string `schema:"sort"`
	Page             int    `schema:"page"`
	PageSize         int    `schema:"pageSize"`
	PreviousPageSize int    `schema:"prevPageSize"`
}

func parseBrowseQuery(values url.Values) (BrowseQuery, error) {
	var q BrowseQuery
	if err := queryDecoder.Decode(&q, values); err != nil {
		return BrowseQuery{}, err
	}
	return q, nil
}

func (q BrowseQuery) toRequest() domain.BrowseRequest {
	return domain.BrowseRequest{
		Filters: domain.FilterSpec{
			Location:     q.Location,
			PropertyType: q.PropertyType,
			Category:     q.Category,
			PriceRange:   domain.PriceRange(q.PriceRange),
		},
		Sort:             domain.SortKey(q.Sort),
		Page:             q.Page,
		PageSize:         q.PageSize,
		PreviousPageSize: q.PreviousPageSize,
	}
}
