package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "triton"
	subsystem = "check"
)

// Collector registers and records all triton metrics. A nil *Collector
// is valid and records nothing, so call sites never branch on whether
// metrics are enabled.
type Collector struct {
	registry *prometheus.Registry

	runsTotal     prometheus.Counter
	filesScanned  prometheus.Counter
	filesTimedOut prometheus.Counter
	issuesTotal   *prometheus.CounterVec
	fixesApplied  prometheus.Counter
	cacheHits     prometheus.Counter
	cacheMisses   prometheus.Counter

	runDuration  prometheus.Histogram
	ruleDuration *prometheus.HistogramVec
}

// NewCollector creates a collector on the given registry. A nil registry
// gets a fresh private one.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,
		runsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "runs_total",
			Help: "Validation runs started.",
		}),
		filesScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "files_scanned_total",
			Help: "Theme files validated.",
		}),
		filesTimedOut: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "files_timed_out_total",
			Help: "Files whose validation hit the per-file timeout.",
		}),
		issuesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "issues_total",
			Help: "Issues reported, by severity.",
		}, []string{"severity"}),
		fixesApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "fixes_applied_total",
			Help: "Auto-fix edits applied.",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "cache_hits_total",
			Help: "Files served from the result cache.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "cache_misses_total",
			Help: "Files validated because the cache had no entry.",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name:    "run_duration_seconds",
			Help:    "Wall time of a whole validation run.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		ruleDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name:    "rule_duration_seconds",
			Help:    "Evaluation time of one rule over one file.",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"rule"}),
	}

	registry.MustRegister(
		c.runsTotal, c.filesScanned, c.filesTimedOut, c.issuesTotal,
		c.fixesApplied, c.cacheHits, c.cacheMisses,
		c.runDuration, c.ruleDuration,
	)
	return c
}

// RecordRunStart counts a run.
func (c *Collector) RecordRunStart() {
	if c == nil {
		return
	}
	c.runsTotal.Inc()
}

// RecordRunDuration records the wall time of a completed run.
func (c *Collector) RecordRunDuration(d time.Duration) {
	if c == nil {
		return
	}
	c.runDuration.Observe(d.Seconds())
}

// RecordFile counts one validated file.
func (c *Collector) RecordFile() {
	if c == nil {
		return
	}
	c.filesScanned.Inc()
}

// RecordTimeout counts a file that hit its validation deadline.
func (c *Collector) RecordTimeout() {
	if c == nil {
		return
	}
	c.filesTimedOut.Inc()
}

// RecordIssue counts one reported issue by severity name.
func (c *Collector) RecordIssue(severity string) {
	if c == nil {
		return
	}
	c.issuesTotal.WithLabelValues(severity).Inc()
}

// RecordFixes counts applied auto-fix edits.
func (c *Collector) RecordFixes(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.fixesApplied.Add(float64(n))
}

// RecordCacheHit counts a cache hit or miss.
func (c *Collector) RecordCacheHit(hit bool) {
	if c == nil {
		return
	}
	if hit {
		c.cacheHits.Inc()
	} else {
		c.cacheMisses.Inc()
	}
}

// RecordRuleDuration records one rule's evaluation time over one file.
func (c *Collector) RecordRuleDuration(rule string, d time.Duration) {
	if c == nil {
		return
	}
	c.ruleDuration.WithLabelValues(rule).Observe(d.Seconds())
}

// Handler returns the Prometheus scrape handler for this collector's
// registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}
