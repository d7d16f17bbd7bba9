package usecase

import (
	"context"
	"fmt"

	"github.com/Edmond40/afari-real-estate-sub000/internal/contextkeys"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/domain"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/engine"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/port"
)

const statsPageLimit = 100

// ListingStatsUseCase обходит репозиторий постранично и группирует все объявления
// по запрошенным полям.
type ListingStatsUseCase struct {
	repo     port.ListingRepositoryPort
	metrics  port.BrowseMetricsPort
	maxPages int
}

func NewListingStatsUseCase(repo port.ListingRepositoryPort, metrics port.BrowseMetricsPort, maxPages int) *ListingStatsUseCase {
	if metrics == nil {
		metrics = port.NoopMetrics{}
	}
	if maxPages < 1 {
		maxPages = 1
	}
	return &ListingStatsUseCase{repo: repo, metrics: metrics, maxPages: maxPages}
}

func (uc *ListingStatsUseCase) Execute(ctx context.Context, fields []domain.GroupField) (*domain.ListingStats, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "ListingStats",
		"group_by": fields,
	})

	ucLogger.Info("Use case started", nil)

	// Проверяем поля до обращения к репозиторию
	keyFns := make(map[domain.GroupField]func(domain.Listing) string, len(fields))
	for _, f := range fields {
		fn, err := engine.ListingKeyFunc(f)
		if err != nil {
			ucLogger.Warn("Unknown group field", port.Fields{"field": string(f)})
			return nil, err
		}
		keyFns[f] = fn
	}

	var all []domain.Listing
	truncated := false
	// upstream может урезать limit, поэтому размер страницы берем из первого ответа
	pageSize := 0
	for page := 1; ; page++ {
		if page > uc.maxPages {
			truncated = true
			break
		}

		repoPage, err := uc.repo.FetchPage(ctx, domain.RepositoryQuery{Page: page, Limit: statsPageLimit})
		if err != nil {
			ucLogger.Error("Repository returned an error", err, port.Fields{"page": page})
			uc.metrics.RepositoryFailure("stats_fetch_page")
			return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
		}
		if repoPage == nil || len(repoPage.Items) == 0 {
			break
		}
		all = append(all, repoPage.Items...)
		if pageSize == 0 {
			pageSize = len(repoPage.Items)
		}

		totalPages := repoPage.TotalPages
		if totalPages == 0 {
			totalPages = engine.TotalPages(repoPage.Total, pageSize)
		}
		if page >= totalPages {
			break
		}
	}

	stats := &domain.ListingStats{
		Groups:       make(map[domain.GroupField][]domain.GroupCount, len(keyFns)),
		TotalScanned: len(all),
		Truncated:    truncated,
	}
	for f, fn := range keyFns {
		stats.Groups[f] = engine.SortedGroups(engine.GroupBy(all, fn))
	}

	if truncated {
		ucLogger.Warn("Scan stopped at page limit", port.Fields{"max_pages": uc.maxPages})
	}
	ucLogger.Info("Use case finished successfully", port.Fields{"total_scanned": len(all)})
	return stats, nil
}
