package livereload

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics holds the Prometheus instrumentation for the live-reload
// server's diff pipeline, mirroring the shape of the teacher's own
// event-loop metrics (counters/histograms built once via promauto).
type metrics struct {
	diffDuration prometheus.Histogram
	patchesTotal prometheus.Counter
	reloadsTotal prometheus.Counter
	cacheHits    prometheus.Counter
	cacheMisses  prometheus.Counter
	clientsGauge prometheus.Gauge
}

var (
	globalMetrics     *metrics
	globalMetricsOnce sync.Once
)

// initMetrics registers every collector against reg (pass
// prometheus.DefaultRegisterer for the global registry).
func initMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		diffDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "htmldiff",
			Subsystem: "livereload",
			Name:      "diff_duration_seconds",
			Help:      "Time spent diffing a route's rendered HTML against its cache.",
			Buckets:   prometheus.DefBuckets,
		}),
		patchesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "htmldiff",
			Subsystem: "livereload",
			Name:      "patches_sent_total",
			Help:      "Total number of patches broadcast to connected clients.",
		}),
		reloadsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "htmldiff",
			Subsystem: "livereload",
			Name:      "reloads_total",
			Help:      "Total number of full-page reloads broadcast (cold route or diff failure).",
		}),
		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "htmldiff",
			Subsystem: "livereload",
			Name:      "cache_hits_total",
			Help:      "Routes whose rendered HTML matched the cache (no patch needed).",
		}),
		cacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "htmldiff",
			Subsystem: "livereload",
			Name:      "cache_misses_total",
			Help:      "Routes whose rendered HTML differed from the cache.",
		}),
		clientsGauge: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "htmldiff",
			Subsystem: "livereload",
			Name:      "connected_clients",
			Help:      "Number of browsers currently connected to the reload WebSocket.",
		}),
	}
}

// Metrics lazily initializes and returns the global metrics singleton,
// registered against prometheus.DefaultRegisterer.
func Metrics() *metrics {
	globalMetricsOnce.Do(func() {
		globalMetrics = initMetrics(prometheus.DefaultRegisterer)
	})
	return globalMetrics
}

func (m *metrics) observeDiff(start time.Time, result Result) {
	m.diffDuration.Observe(time.Since(start).Seconds())
	switch result.Kind {
	case ResultNone:
		m.cacheHits.Inc()
	case ResultPatches:
		m.cacheMisses.Inc()
		m.patchesTotal.Add(float64(len(result.Patches)))
	case ResultReload:
		m.cacheMisses.Inc()
		m.reloadsTotal.Inc()
	}
}
