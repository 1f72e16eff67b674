package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SyncStoreMetrics records persistence activity for the synced client stores.
type SyncStoreMetrics struct {
	flushes   *prometheus.CounterVec
	snapshots *prometheus.CounterVec
}

// NewSyncStoreMetrics registers the sync store metrics on the provided registerer.
func NewSyncStoreMetrics(reg prometheus.Registerer) *SyncStoreMetrics {
	if reg == nil {
		return &SyncStoreMetrics{}
	}
	flushes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_store_flushes_total",
		Help: "Sync store persistence flushes by kind, backend, and outcome.",
	}, []string{"kind", "backend", "outcome"})
	snapshots := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_store_snapshots_total",
		Help: "Remote document snapshots applied by kind.",
	}, []string{"kind"})
	reg.MustRegister(flushes, snapshots)
	return &SyncStoreMetrics{
		flushes:   flushes,
		snapshots: snapshots,
	}
}

// ObserveFlush records a flush attempt outcome.
func (s *SyncStoreMetrics) ObserveFlush(kind, backend string, err error) {
	if s == nil || s.flushes == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	s.flushes.WithLabelValues(normalizeLabel(kind), normalizeLabel(backend), outcome).Inc()
}

// IncSnapshot counts a remote snapshot applied to in-memory state.
func (s *SyncStoreMetrics) IncSnapshot(kind string) {
	if s == nil || s.snapshots == nil {
		return
	}
	s.snapshots.WithLabelValues(normalizeLabel(kind)).Inc()
}

// PlatformMetrics records calls against external collaborators.
type PlatformMetrics struct {
	duration *prometheus.HistogramVec
}

// NewPlatformMetrics registers external platform call metrics.
func NewPlatformMetrics(reg prometheus.Registerer) *PlatformMetrics {
	if reg == nil {
		return &PlatformMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "platform_call_duration_seconds",
		Help:    "Duration of external platform calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"surface", "operation"})
	reg.MustRegister(duration)
	return &PlatformMetrics{duration: duration}
}

// ObserveCall records the duration for one external call.
func (p *PlatformMetrics) ObserveCall(surface, operation string, duration time.Duration) {
	if p == nil || p.duration == nil {
		return
	}
	p.duration.WithLabelValues(normalizeLabel(surface), normalizeLabel(operation)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
