package usecases_port

import (
	"context"

	"github.com/Edmond40/afari-real-estate-sub000/internal/core/domain"
)

type CreateSearchSnapshotUseCase interface {
	Execute(ctx context.Context, query string) (*domain.SearchSnapshot, error)
}
