package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Edmond40/afari-real-estate-sub000/internal/contextkeys"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/domain"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/engine"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/port"
)

// ListingRepository читает объявления напрямую из БД сервиса объявлений (только чтение).
type ListingRepository struct {
	pool *pgxpool.Pool
}

func NewListingRepository(pool *pgxpool.Pool) *ListingRepository {
	return &ListingRepository{pool: pool}
}

func (r *ListingRepository) FetchPage(ctx context.Context, q domain.RepositoryQuery) (*domain.RepositoryPage, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresListingRepository",
		"method":    "FetchPage",
		"page":      q.Page,
		"limit":     q.Limit,
	})

	countSQL, dataSQL, countArgs, dataArgs := buildPageQueries(q)

	// COUNT и выборка в одной транзакции, чтобы итог совпадал со страницей
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly, IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var total int
	if err := tx.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		repoLogger.Error("Failed to count listings", err, port.Fields{"query": countSQL})
		return nil, fmt.Errorf("failed to count listings: %w", err)
	}

	page := &domain.RepositoryPage{
		Items:       []domain.Listing{},
		Total:       total,
		CurrentPage: q.Page,
		TotalPages:  engine.TotalPages(total, q.Limit),
	}
	if total == 0 {
		return page, nil
	}

	rows, err := tx.Query(ctx, dataSQL, dataArgs...)
	if err != nil {
		repoLogger.Error("Failed to query listings", err, port.Fields{"query": dataSQL})
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	items, err := pgx.CollectRows(rows, scanListing)
	if err != nil {
		return nil, fmt.Errorf("failed to scan listings: %w", err)
	}
	page.Items = items

	repoLogger.Debug("Page fetched", port.Fields{"total_count": total, "items_on_page": len(items)})
	return page, nil
}

func (r *ListingRepository) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	sql := fmt.Sprintf("SELECT %s FROM listings WHERE id::text = $1", listingColumns)

	rows, err := r.pool.Query(ctx, sql, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query listing %s: %w", id, err)
	}
	l, err := pgx.CollectExactlyOneRow(rows, scanListing)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrListingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan listing %s: %w", id, err)
	}
	return &l, nil
}

func (r *ListingRepository) Search(ctx context.Context, text string, limit int) ([]domain.Listing, error) {
	sql, args := buildSearchQuery(text, limit)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search listings: %w", err)
	}
	items, err := pgx.CollectRows(rows, scanListing)
	if err != nil {
		return nil, fmt.Errorf("failed to scan search results: %w", err)
	}
	return items, nil
}

func scanListing(row pgx.CollectableRow) (domain.Listing, error) {
	var (
		l         domain.Listing
		bedrooms  *int32
		bathrooms *int32
		createdAt time.Time
	)
	err := row.Scan(
		&l.ID, &l.Title, &l.Name, &l.City, &l.State,
		&l.Location, &l.PropertyType, &l.Category, &l.Purpose,
		&l.Status, &l.Price, &bedrooms, &bathrooms, &l.Area,
		&l.Images, &l.AgentID, &l.AgentName,
		&l.Latitude, &l.Longitude, &createdAt,
	)
	if err != nil {
		return domain.Listing{}, err
	}

	l.Bedrooms = intPtr(bedrooms)
	l.Bathrooms = intPtr(bathrooms)
	if createdAt.Unix() > 0 {
		l.CreatedAt = createdAt
	}
	l.PropertyType = engine.NormalizePropertyType(l.PropertyType)
	return engine.Finalize(l), nil
}

func intPtr(v *int32) *int {
	if v == nil {
		return nil
	}
	i := int(*v)
	return &i
}
