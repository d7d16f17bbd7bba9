package usecase

import (
	"context"

	"github.com/Edmond40/afari-real-estate-sub000/internal/contextkeys"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/domain"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/port"
)

// InvalidateListingsUseCase реагирует на изменение объявления во внешнем сервисе.
type InvalidateListingsUseCase struct {
	version port.SourceVersionPort
}

func NewInvalidateListingsUseCase(version port.SourceVersionPort) *InvalidateListingsUseCase {
	return &InvalidateListingsUseCase{version: version}
}

func (uc *InvalidateListingsUseCase) Execute(ctx context.Context, event domain.ListingChangedEvent) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "InvalidateListings",
		"event_id":   event.EventID,
		"listing_id": event.ListingID,
		"action":     event.Action,
	})

	newVersion := uc.version.Bump()
	ucLogger.Info("Source version bumped", port.Fields{"version": newVersion})
	return nil
}
