// Package prom exposes the pool's metrics through a Prometheus
// registry and an optional /metrics HTTP endpoint.
package prom

import (
	"context"
	"net/http"
	"time"

	lg "github.com/Andrej220/go-utils/zlog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/azargarov/jobengine"
)

// Sink implements jobengine.MetricsSink over a private Prometheus
// registry, so several sinks can coexist in one process (tests, or two
// pools with separate endpoints).
type Sink struct {
	registry *prometheus.Registry
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
	hists    map[string]prometheus.Histogram
}

// NewSink registers the pool's metrics on a fresh registry.
func NewSink() *Sink {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Sink{
		registry: reg,
		counters: map[string]prometheus.Counter{
			jobengine.MetricJobsSubmitted: f.NewCounter(prometheus.CounterOpts{
				Name: jobengine.MetricJobsSubmitted,
				Help: "Total number of jobs submitted",
			}),
			jobengine.MetricJobsCompleted: f.NewCounter(prometheus.CounterOpts{
				Name: jobengine.MetricJobsCompleted,
				Help: "Total number of jobs completed",
			}),
			jobengine.MetricJobsFailed: f.NewCounter(prometheus.CounterOpts{
				Name: jobengine.MetricJobsFailed,
				Help: "Total number of jobs failed",
			}),
		},
		gauges: map[string]prometheus.Gauge{
			jobengine.MetricActiveJobs: f.NewGauge(prometheus.GaugeOpts{
				Name: jobengine.MetricActiveJobs,
				Help: "Current number of active jobs",
			}),
		},
		hists: map[string]prometheus.Histogram{
			jobengine.MetricJobLatency: f.NewHistogram(prometheus.HistogramOpts{
				Name:    jobengine.MetricJobLatency,
				Help:    "Job execution latency in seconds",
				Buckets: jobengine.DefaultLatencyBuckets,
			}),
		},
	}
}

// Inc increments the named counter. Unknown names are ignored.
func (s *Sink) Inc(name string) {
	if c, ok := s.counters[name]; ok {
		c.Inc()
	}
}

// Set sets the named gauge. Unknown names are ignored.
func (s *Sink) Set(name string, v float64) {
	if g, ok := s.gauges[name]; ok {
		g.Set(v)
	}
}

// Observe records a sample into the named histogram. Unknown names are
// ignored.
func (s *Sink) Observe(name string, v float64) {
	if h, ok := s.hists[name]; ok {
		h.Observe(v)
	}
}

// Registry returns the sink's private registry, for exposition or
// scraping in tests.
func (s *Sink) Registry() *prometheus.Registry { return s.registry }

// StartServer exposes the sink's registry on addr under /metrics in a
// background goroutine.
func StartServer(ctx context.Context, addr string, s *Sink) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lg.FromContext(ctx).Error("metrics server failed", lg.Any("error", err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}
