package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Edmond40/afari-real-estate-sub000/internal/contextkeys"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/domain"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/port"
)

// CreateSearchSnapshotUseCase выполняет поиск и сохраняет весь результат в кэш,
// чтобы дальше листать его в клиентском режиме.
type CreateSearchSnapshotUseCase struct {
	repo     port.ListingRepositoryPort
	cache    port.ResultCachePort
	ttl      time.Duration
	maxItems int
}

func NewCreateSearchSnapshotUseCase(repo port.ListingRepositoryPort, cache port.ResultCachePort, ttl time.Duration, maxItems int) *CreateSearchSnapshotUseCase {
	return &CreateSearchSnapshotUseCase{repo: repo, cache: cache, ttl: ttl, maxItems: maxItems}
}

func (uc *CreateSearchSnapshotUseCase) Execute(ctx context.Context, query string) (*domain.SearchSnapshot, error) {
	query = strings.TrimSpace(query)

	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "CreateSearchSnapshot",
		"query":    query,
	})

	ucLogger.Info("Use case started", nil)

	if query == "" {
		return nil, domain.ErrEmptySearchQuery
	}

	items, err := uc.repo.Search(ctx, query, uc.maxItems)
	if err != nil {
		ucLogger.Error("Repository search failed", err, nil)
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	if items == nil {
		items = []domain.Listing{}
	}

	snapshot := &domain.SearchSnapshot{
		ID:    uuid.NewString(),
		Query: query,
		Items: items,
	}
	if err := uc.cache.Set(ctx, snapshotKey(snapshot.ID), snapshot, uc.ttl); err != nil {
		ucLogger.Error("Failed to store snapshot", err, port.Fields{"snapshot_id": snapshot.ID})
		return nil, fmt.Errorf("failed to store snapshot: %w", err)
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"snapshot_id": snapshot.ID,
		"total_found": len(items),
	})
	return snapshot, nil
}
