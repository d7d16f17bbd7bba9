package usecases_port

import (
	"context"

	"github.com/Edmond40/afari-real-estate-sub000/internal/core/domain"
)

// BrowseListingsUseCase никогда не возвращает ошибку: сбой репозитория
// превращается в пустую страницу с признаком Failed.
type BrowseListingsUseCase interface {
	Execute(ctx context.Context, req domain.BrowseRequest) domain.BrowseResult
}
