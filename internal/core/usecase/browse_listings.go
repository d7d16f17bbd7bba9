package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Edmond40/afari-real-estate-sub000/internal/contextkeys"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/domain"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/engine"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/port"
)

// BrowseConfig - настройки координатора пагинации.
type BrowseConfig struct {
	DefaultPageSize int
	MaxPageSize     int
	MemoTTL         time.Duration
}

// BrowseListingsUseCase решает, где фильтровать и сортировать (на сервере или локально),
// и сводит результат в одну страницу для отрисовки.
type BrowseListingsUseCase struct {
	repo    port.ListingRepositoryPort
	cache   port.ResultCachePort
	version port.SourceVersionPort
	guard   *RequestGuard
	metrics port.BrowseMetricsPort
	cfg     BrowseConfig
}

func NewBrowseListingsUseCase(
	repo port.ListingRepositoryPort,
	cache port.ResultCachePort,
	version port.SourceVersionPort,
	guard *RequestGuard,
	metrics port.BrowseMetricsPort,
	cfg BrowseConfig,
) *BrowseListingsUseCase {
	if metrics == nil {
		metrics = port.NoopMetrics{}
	}
	if version == nil {
		version = NewSourceVersion()
	}
	return &BrowseListingsUseCase{
		repo:    repo,
		cache:   cache,
		version: version,
		guard:   guard,
		metrics: metrics,
		cfg:     cfg,
	}
}

// Execute никогда не паникует и не возвращает ошибку наружу:
// любой сбой превращается в пустую валидную страницу с Failed = true.
func (uc *BrowseListingsUseCase) Execute(ctx context.Context, req domain.BrowseRequest) (result domain.BrowseResult) {
	startTime := time.Now()

	page, pageSize := engine.NormalizePaging(req.Page, req.PageSize, req.PreviousPageSize, uc.cfg.DefaultPageSize, uc.cfg.MaxPageSize)
	sortKey := req.Sort.Normalize()
	mode := domain.ModeServer
	if req.Snapshot != nil || req.SnapshotID != "" {
		mode = domain.ModeClient
	}

	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":  "BrowseListings",
		"mode":      string(mode),
		"filters":   req.Filters,
		"sort":      string(sortKey),
		"page":      page,
		"page_size": pageSize,
	})
	ucLogger.Debug("Use case started", nil)

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("browse listings panicked: %v", r)
			ucLogger.Error("Recovered from panic", err, nil)
			result = failedResult(mode, pageSize, err)
		}
		uc.metrics.ObserveBrowse(string(result.Mode), time.Since(startTime), result.Failed)
	}()

	var ticket *Ticket
	if req.ClientKey != "" && uc.guard != nil {
		ctx, ticket = uc.guard.Begin(ctx, req.ClientKey)
		defer ticket.Release()
	}

	if mode == domain.ModeClient {
		result = uc.browseSnapshot(ctx, ucLogger, req, sortKey, page, pageSize)
	} else {
		result = uc.browseServer(ctx, ucLogger, req.Filters, sortKey, page, pageSize)
	}

	// Более новый запрос этого клиента уже в работе - результат не отдаем
	if ticket != nil && !ticket.IsCurrent() {
		ucLogger.Info("Result discarded, request was superseded", port.Fields{"client_key": req.ClientKey})
		uc.metrics.StaleRequest()
		return domain.BrowseResult{
			Page:  domain.EmptyPage(pageSize),
			Mode:  mode,
			Err:   domain.ErrStaleRequest,
			Stale: true,
		}
	}

	if !result.Failed {
		ucLogger.Info("Use case finished successfully", port.Fields{
			"total_found":   result.Page.TotalCount,
			"items_on_page": len(result.Page.Items),
		})
	}
	return result
}

// browseServer - серверный режим: репозиторий фильтрует по city/type/status и пагинирует,
// а ценовой диапазон и сортировка применяются уже к полученной странице.
// Ценовой фильтр поэтому отсеивает только элементы текущей страницы, а общее количество
// остается серверным - это известное ограничение контракта API.
func (uc *BrowseListingsUseCase) browseServer(ctx context.Context, logger port.LoggerPort, spec domain.FilterSpec, sortKey domain.SortKey, page, pageSize int) domain.BrowseResult {
	query := ToRepositoryQuery(spec, page, pageSize)

	repoPage, err := uc.repo.FetchPage(ctx, query)
	if err != nil {
		logger.Error("Repository returned an error", err, port.Fields{"query": query})
		uc.metrics.RepositoryFailure("fetch_page")
		return failedResult(domain.ModeServer, pageSize, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err))
	}
	if repoPage == nil {
		repoPage = &domain.RepositoryPage{}
	}

	items := engine.ApplyFilters(repoPage.Items, spec.OnlyPriceRange())
	items = engine.ApplySort(items, sortKey)

	return domain.BrowseResult{
		Page: engine.PageFromServer(items, repoPage.Total, page, pageSize),
		Mode: domain.ModeServer,
	}
}

// browseSnapshot - клиентский режим: фильтр, сортировка и нарезка по полному снимку.
func (uc *BrowseListingsUseCase) browseSnapshot(ctx context.Context, logger port.LoggerPort, req domain.BrowseRequest, sortKey domain.SortKey, page, pageSize int) domain.BrowseResult {
	if req.SnapshotID == "" {
		ordered := engine.ApplySort(engine.ApplyFilters(req.Snapshot, req.Filters), sortKey)
		return domain.BrowseResult{Page: engine.Paginate(ordered, page, pageSize), Mode: domain.ModeClient}
	}

	if uc.cache == nil {
		return failedResult(domain.ModeClient, pageSize, domain.ErrSnapshotNotFound)
	}

	key := memoKey(req.SnapshotID, req.Filters, sortKey, uc.version.Current())
	var ordered []domain.Listing
	found, err := uc.cache.Get(ctx, key, &ordered)
	if err != nil {
		// Кэш мемоизации не критичен, просто считаем заново
		logger.Warn("Memo cache read failed", port.Fields{"key": key, "error": err.Error()})
	}
	if found {
		uc.metrics.CacheHit("memo")
		return domain.BrowseResult{Page: engine.Paginate(ordered, page, pageSize), Mode: domain.ModeClient}
	}
	uc.metrics.CacheMiss("memo")

	var snapshot domain.SearchSnapshot
	found, err = uc.cache.Get(ctx, snapshotKey(req.SnapshotID), &snapshot)
	if err != nil {
		logger.Error("Failed to load search snapshot", err, port.Fields{"snapshot_id": req.SnapshotID})
		return failedResult(domain.ModeClient, pageSize, fmt.Errorf("failed to load snapshot: %w", err))
	}
	if !found {
		logger.Warn("Search snapshot not found or expired", port.Fields{"snapshot_id": req.SnapshotID})
		return failedResult(domain.ModeClient, pageSize, domain.ErrSnapshotNotFound)
	}

	ordered = engine.ApplySort(engine.ApplyFilters(snapshot.Items, req.Filters), sortKey)
	if err := uc.cache.Set(ctx, key, ordered, uc.cfg.MemoTTL); err != nil {
		logger.Warn("Memo cache write failed", port.Fields{"key": key, "error": err.Error()})
	}

	return domain.BrowseResult{Page: engine.Paginate(ordered, page, pageSize), Mode: domain.ModeClient}
}

// ToRepositoryQuery переводит ту часть фильтров, которую понимает репозиторий, в параметры запроса.
func ToRepositoryQuery(spec domain.FilterSpec, page, pageSize int) domain.RepositoryQuery {
	query := domain.RepositoryQuery{Page: page, Limit: pageSize}
	if spec.HasLocation() {
		query.City = strings.TrimSpace(spec.Location)
	}
	if spec.HasPropertyType() {
		query.Type = strings.TrimSpace(spec.PropertyType)
	}
	if spec.HasCategory() {
		query.Status = strings.TrimSpace(spec.Category)
	}
	return query
}

func failedResult(mode domain.BrowseMode, pageSize int, err error) domain.BrowseResult {
	return domain.BrowseResult{
		Page:   domain.EmptyPage(pageSize),
		Mode:   mode,
		Failed: true,
		Err:    err,
	}
}
