package port

import "time"

// BrowseMetricsPort - метрики координатора пагинации.
type BrowseMetricsPort interface {
	ObserveBrowse(mode string, duration time.Duration, failed bool)
	RepositoryFailure(operation string)
	CacheHit(kind string)
	CacheMiss(kind string)
	StaleRequest()
}

// NoopMetrics - реализация по умолчанию, когда метрики не нужны (тесты, CLI).
type NoopMetrics struct{}

func (NoopMetrics) ObserveBrowse(string, time.Duration, bool) {}
func (NoopMetrics) RepositoryFailure(string)                  {}
func (NoopMetrics) CacheHit(string)                           {}
func (NoopMetrics) CacheMiss(string)                          {}
func (NoopMetrics) StaleRequest()                             {}
