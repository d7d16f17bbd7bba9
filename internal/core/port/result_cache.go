package port

import (
	"context"
	"time"
)

// ResultCachePort - кэш результатов (страницы, снимки поиска, мемоизация).
type ResultCachePort interface {
	// Get декодирует значение в out. found == false, если ключа нет или он истек.
	Get(ctx context.Context, key string, out any) (found bool, err error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// SourceVersionPort отдает текущую версию данных источника.
// Любое изменение объявлений увеличивает версию и делает старые ключи кэша неактуальными.
type SourceVersionPort interface {
	Current() uint64
	Bump() uint64
}
