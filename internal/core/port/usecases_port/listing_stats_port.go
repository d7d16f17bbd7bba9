package usecases_port

import (
	"context"

	"github.com/Edmond40/afari-real-estate-sub000/internal/core/domain"
)

type ListingStatsUseCase interface {
	Execute(ctx context.Context, fields []domain.GroupField) (*domain.ListingStats, error)
}
