package cache

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Edmond40/afari-real-estate-sub000/internal/contextkeys"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/domain"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/port"
)

// sharedFetchTimeout ограничивает общий запрос к источнику: он не зависит
// от отмены контекста того, кто его запустил.
const sharedFetchTimeout = 30 * time.Second

// CachedListingRepository кэширует ответы репозитория и схлопывает одинаковые
// одновременные запросы в один. Ключ включает версию источника,
// так что событие об изменении объявлений делает весь кэш неактуальным.
type CachedListingRepository struct {
	next         port.ListingRepositoryPort
	cache        port.ResultCachePort
	version      port.SourceVersionPort
	metrics      port.BrowseMetricsPort
	ttl          time.Duration
	fetchTimeout time.Duration
	group        singleflight.Group
}

func NewCachedListingRepository(
	next port.ListingRepositoryPort,
	cache port.ResultCachePort,
	version port.SourceVersionPort,
	metrics port.BrowseMetricsPort,
	ttl time.Duration,
) *CachedListingRepository {
	if metrics == nil {
		metrics = port.NoopMetrics{}
	}
	return &CachedListingRepository{
		next:         next,
		cache:        cache,
		version:      version,
		metrics:      metrics,
		ttl:          ttl,
		fetchTimeout: sharedFetchTimeout,
	}
}

// pageKey квотирует значения: разделители внутри них не дают коллизий.
func pageKey(version uint64, q domain.RepositoryQuery) string {
	return fmt.Sprintf("page:v%d:city=%q:type=%q:status=%q:p=%d:l=%d",
		version, q.City, q.Type, q.Status, q.Page, q.Limit)
}

func (r *CachedListingRepository) FetchPage(ctx context.Context, q domain.RepositoryQuery) (*domain.RepositoryPage, error) {
	key := pageKey(r.version.Current(), q)

	var cached domain.RepositoryPage
	if r.lookup(ctx, key, "page", &cached) {
		return &cached, nil
	}

	v, err := r.shared(ctx, key, func(fetchCtx context.Context) (interface{}, error) {
		page, err := r.next.FetchPage(fetchCtx, q)
		if err != nil {
			return nil, err
		}
		r.store(fetchCtx, key, page)
		return page, nil
	})
	if err != nil {
		return nil, err
	}
	return clonePage(v.(*domain.RepositoryPage)), nil
}

func (r *CachedListingRepository) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	key := fmt.Sprintf("listing:v%d:%q", r.version.Current(), id)

	var cached domain.Listing
	if r.lookup(ctx, key, "listing", &cached) {
		return &cached, nil
	}

	v, err := r.shared(ctx, key, func(fetchCtx context.Context) (interface{}, error) {
		l, err := r.next.GetByID(fetchCtx, id)
		if err != nil {
			return nil, err
		}
		r.store(fetchCtx, key, l)
		return l, nil
	})
	if err != nil {
		return nil, err
	}
	l := *v.(*domain.Listing)
	return &l, nil
}

// shared выполняет fn один раз на ключ. Сам запрос идет на контексте без отмены
// (значения, в т.ч. логгер, сохраняются) и с собственным таймаутом,
// а каждый вызывающий перестает ждать по своему ctx.
func (r *CachedListingRepository) shared(ctx context.Context, key string, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	ch := r.group.DoChan(key, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.fetchTimeout)
		defer cancel()
		return fn(fetchCtx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

// Search не кэшируется: его результат сам сохраняется как снимок.
func (r *CachedListingRepository) Search(ctx context.Context, text string, limit int) ([]domain.Listing, error) {
	return r.next.Search(ctx, text, limit)
}

func (r *CachedListingRepository) lookup(ctx context.Context, key, kind string, out any) bool {
	found, err := r.cache.Get(ctx, key, out)
	if err != nil {
		contextkeys.LoggerFromContext(ctx).Warn("Cache read failed", port.Fields{"key": key, "error": err.Error()})
	}
	if found && err == nil {
		r.metrics.CacheHit(kind)
		return true
	}
	r.metrics.CacheMiss(kind)
	return false
}

func (r *CachedListingRepository) store(ctx context.Context, key string, value any) {
	if err := r.cache.Set(ctx, key, value, r.ttl); err != nil {
		contextkeys.LoggerFromContext(ctx).Warn("Cache write failed", port.Fields{"key": key, "error": err.Error()})
	}
}

// clonePage - результат singleflight общий для всех ожидающих, отдаем каждому свою копию.
func clonePage(p *domain.RepositoryPage) *domain.RepositoryPage {
	out := *p
	out.Items = append([]domain.Listing(nil), p.Items...)
	return &out
}
