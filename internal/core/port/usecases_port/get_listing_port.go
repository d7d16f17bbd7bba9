package usecases_port

import (
	"context"

	"github.com/Edmond40/afari-real-estate-sub000/internal/core/domain"
)

type GetListingUseCase interface {
	Execute(ctx context.Context, id string) (*domain.Listing, error)
}
