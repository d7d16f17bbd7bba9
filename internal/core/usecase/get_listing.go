package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Edmond40/afari-real-estate-sub000/internal/contextkeys"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/domain"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/port"
)

type GetListingUseCase struct {
	repo    port.ListingRepositoryPort
	metrics port.BrowseMetricsPort
}

func NewGetListingUseCase(repo port.ListingRepositoryPort, metrics port.BrowseMetricsPort) *GetListingUseCase {
	if metrics == nil {
		metrics = port.NoopMetrics{}
	}
	return &GetListingUseCase{repo: repo, metrics: metrics}
}

func (uc *GetListingUseCase) Execute(ctx context.Context, id string) (*domain.Listing, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "GetListing",
		"listing_id": id,
	})

	ucLogger.Info("Use case started", nil)

	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrListingNotFound
	}

	listing, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			ucLogger.Warn("Listing not found", nil)
			return nil, err
		}
		ucLogger.Error("Repository returned an error", err, nil)
		uc.metrics.RepositoryFailure("get_by_id")
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}

	ucLogger.Info("Use case finished successfully", nil)
	return listing, nil
}
