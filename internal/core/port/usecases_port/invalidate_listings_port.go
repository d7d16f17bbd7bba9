package usecases_port

import (
	"context"

	"github.com/Edmond40/afari-real-estate-sub000/internal/core/domain"
)

type InvalidateListingsUseCase interface {
	Execute(ctx context.Context, event domain.ListingChangedEvent) error
}
