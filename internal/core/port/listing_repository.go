package port

import (
	"context"

	"github.com/Edmond40/afari-real-estate-sub000/internal/core/domain"
)

// ListingRepositoryPort - внешний источник объявлений (REST API или БД).
type ListingRepositoryPort interface {
	// FetchPage возвращает страницу, уже отфильтрованную по city/type/status.
	FetchPage(ctx context.Context, query domain.RepositoryQuery) (*domain.RepositoryPage, error)
	// GetByID возвращает domain.ErrListingNotFound, если объявления нет.
	GetByID(ctx context.Context, id string) (*domain.Listing, error)
	// Search - полнотекстовый поиск, результат которого становится снимком.
	Search(ctx context.Context, text string, limit int) ([]domain.Listing, error)
}
