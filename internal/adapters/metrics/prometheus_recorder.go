package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder реализует port.BrowseMetricsPort на Prometheus.
type Recorder struct {
	browseDuration     *prometheus.HistogramVec
	browseFailures     *prometheus.CounterVec
	repositoryFailures *prometheus.CounterVec
	cacheHits          *prometheus.CounterVec
	cacheMisses        *prometheus.CounterVec
	staleRequests      prometheus.Counter
}

// NewRecorder регистрирует метрики в reg. nil - глобальный prometheus.DefaultRegisterer.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Recorder{
		browseDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "listing_browse_duration_seconds",
			Help:    "Time spent building one listing page",
			Buckets: prometheus.DefBuckets,
		}, []string{"mode"}),
		browseFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "listing_browse_failures_total",
			Help: "Browse requests that ended with an empty page because of an error",
		}, []string{"mode"}),
		repositoryFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "listing_repository_failures_total",
			Help: "Failed calls to the listing repository",
		}, []string{"operation"}),
		cacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "listing_cache_hits_total",
			Help: "Result cache hits",
		}, []string{"kind"}),
		cacheMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "listing_cache_misses_total",
			Help: "Result cache misses",
		}, []string{"kind"}),
		staleRequests: factory.NewCounter(prometheus.CounterOpts{
			Name: "listing_stale_requests_total",
			Help: "Results discarded because a newer request from the same client superseded them",
		}),
	}
}

func (r *Recorder) ObserveBrowse(mode string, duration time.Duration, failed bool) {
	r.browseDuration.WithLabelValues(mode).Observe(duration.Seconds())
	if failed {
		r.browseFailures.WithLabelValues(mode).Inc()
	}
}

func (r *Recorder) RepositoryFailure(operation string) {
	r.repositoryFailures.WithLabelValues(operation).Inc()
}

func (r *Recorder) CacheHit(kind string) {
	r.cacheHits.WithLabelValues(kind).Inc()
}

func (r *Recorder) CacheMiss(kind string) {
	r.cacheMisses.WithLabelValues(kind).Inc()
}

func (r *Recorder) StaleRequest() {
	r.staleRequests.Inc()
}
