package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Edmond40/afari-real-estate-sub000/internal/core/domain"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/usecase"
)

type countingRepository struct {
	fetches atomic.Int32
	gets    atomic.Int32
	err     error
	release chan struct{}
	// delay имитирует медленный источник, который уважает отмену ctx
	delay time.Duration
}

func (r *countingRepository) FetchPage(ctx context.Context, q domain.RepositoryQuery) (*domain.RepositoryPage, error) {
	r.fetches.Add(1)
	if r.release != nil {
		<-r.release
	}
	if r.delay > 0 {
		select {
		case <-time.After(r.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	return &domain.RepositoryPage{
		Items:       []domain.Listing{{ID: "1", City: q.City}},
		Total:       1,
		CurrentPage: q.Page,
		TotalPages:  1,
	}, nil
}

func (r *countingRepository) GetByID(_ context.Context, id string) (*domain.Listing, error) {
	r.gets.Add(1)
	if r.err != nil {
		return nil, r.err
	}
	return &domain.Listing{ID: id}, nil
}

func (r *countingRepository) Search(context.Context, string, int) ([]domain.Listing, error) {
	return nil, nil
}

func TestCachedRepository_CachesPerVersion(t *testing.T) {
	next := &countingRepository{}
	version := usecase.NewSourceVersion()
	repo := NewCachedListingRepository(next, NewMemoryCache(), version, nil, time.Minute)
	ctx := context.Background()
	q := domain.RepositoryQuery{City: "Accra", Page: 1, Limit: 12}

	first, err := repo.FetchPage(ctx, q)
	require.NoError(t, err)
	second, err := repo.FetchPage(ctx, q)
	require.NoError(t, err)

	assert.Equal(t, int32(1), next.fetches.Load())
	assert.Equal(t, first.Items, second.Items)

	version.Bump()
	_, err = repo.FetchPage(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, int32(2), next.fetches.Load())

	_, _ = repo.GetByID(ctx, "7")
	_, _ = repo.GetByID(ctx, "7")
	assert.Equal(t, int32(1), next.gets.Load())
}

func TestCachedRepository_ErrorsAreNotCached(t *testing.T) {
	next := &countingRepository{err: errors.New("down")}
	repo := NewCachedListingRepository(next, NewMemoryCache(), usecase.NewSourceVersion(), nil, time.Minute)

	_, err := repo.FetchPage(context.Background(), domain.RepositoryQuery{Page: 1, Limit: 5})
	assert.Error(t, err)
	_, err = repo.FetchPage(context.Background(), domain.RepositoryQuery{Page: 1, Limit: 5})
	assert.Error(t, err)
	assert.Equal(t, int32(2), next.fetches.Load())
}

func TestCachedRepository_CollapsesConcurrentFetches(t *testing.T) {
	next := &countingRepository{release: make(chan struct{})}
	repo := NewCachedListingRepository(next, NewMemoryCache(), usecase.NewSourceVersion(), nil, time.Minute)
	q := domain.RepositoryQuery{Page: 1, Limit: 5}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			page, err := repo.FetchPage(context.Background(), q)
			assert.NoError(t, err)
			assert.Len(t, page.Items, 1)
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(next.release)
	wg.Wait()

	assert.Equal(t, int32(1), next.fetches.Load())
}

func TestCachedRepository_LeaderCancelDoesNotFailWaiters(t *testing.T) {
	next := &countingRepository{delay: 200 * time.Millisecond}
	repo := NewCachedListingRepository(next, NewMemoryCache(), usecase.NewSourceVersion(), nil, time.Minute)
	q := domain.RepositoryQuery{City: "Accra", Page: 1, Limit: 5}

	leaderCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	leaderErr := make(chan error, 1)
	go func() {
		_, err := repo.FetchPage(leaderCtx, q)
		leaderErr <- err
	}()
	require.Eventually(t, func() bool { return next.fetches.Load() == 1 }, time.Second, time.Millisecond)

	type result struct {
		page *domain.RepositoryPage
		err  error
	}
	follower := make(chan result, 1)
	go func() {
		page, err := repo.FetchPage(context.Background(), q)
		follower <- result{page, err}
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-leaderErr, context.Canceled)

	res := <-follower
	require.NoError(t, res.err)
	require.Len(t, res.page.Items, 1)
	assert.Equal(t, "Accra", res.page.Items[0].City)
	assert.Equal(t, int32(1), next.fetches.Load())

	// общий запрос завершился и успел попасть в кэш
	_, err := repo.FetchPage(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, int32(1), next.fetches.Load())
}

func TestCachedRepository_SeparatorsInQueryDoNotShareKey(t *testing.T) {
	next := &countingRepository{}
	repo := NewCachedListingRepository(next, NewMemoryCache(), usecase.NewSourceVersion(), nil, time.Minute)
	ctx := context.Background()

	first, err := repo.FetchPage(ctx, domain.RepositoryQuery{City: "x|type=House", Page: 1, Limit: 5})
	require.NoError(t, err)
	second, err := repo.FetchPage(ctx, domain.RepositoryQuery{City: "x", Type: "House|type=", Page: 1, Limit: 5})
	require.NoError(t, err)

	assert.Equal(t, int32(2), next.fetches.Load())
	assert.Equal(t, "x|type=House", first.Items[0].City)
	assert.Equal(t, "x", second.Items[0].City)
}
