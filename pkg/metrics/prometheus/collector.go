// Package prometheus is the Prometheus-backed implementation of
// metrics.Collector.
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/secdds/ddscrypto/pkg/metrics"
)

// collector is the Prometheus implementation of metrics.Collector.
type collector struct {
	registrations   *prometheus.CounterVec
	unregistrations *prometheus.CounterVec
	rejections      *prometheus.CounterVec
	opDuration      *prometheus.HistogramVec
	activeHandles   *prometheus.GaugeVec
}

// NewCollector creates a new Prometheus-backed Collector registered
// against reg. Returns nil if reg is nil, so that a caller with metrics
// disabled can pass metrics.Collector(nil) straight through to the
// registry with zero overhead.
func NewCollector(reg *prometheus.Registry) metrics.Collector {
	if reg == nil {
		return nil
	}

	return &collector{
		registrations: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "ddscrypto_registrations_total",
				Help: "Total number of successful Key Factory registrations by entity kind and transformation kind",
			},
			[]string{"entity_kind", "transform_kind"},
		),
		unregistrations: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "ddscrypto_unregistrations_total",
				Help: "Total number of successful Key Factory unregistrations by entity kind",
			},
			[]string{"entity_kind"},
		),
		rejections: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "ddscrypto_rejections_total",
				Help: "Total number of rejected Key Factory operations by entity kind and error code",
			},
			[]string{"entity_kind", "error_code"},
		),
		opDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "ddscrypto_operation_duration_milliseconds",
				Help: "Duration of Key Factory operations in milliseconds",
				Buckets: []float64{
					0.01, // 10us - pure in-memory map operations
					0.05,
					0.1,
					0.5,
					1,
					5,
					10,
					50,
				},
			},
			[]string{"operation"},
		),
		activeHandles: promauto.With(reg).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ddscrypto_active_handles",
				Help: "Current number of entries in a registry table",
			},
			[]string{"table"},
		),
	}
}

func (c *collector) RecordRegistration(entityKind, transformKind string) {
	if c == nil {
		return
	}
	c.registrations.WithLabelValues(entityKind, transformKind).Inc()
}

func (c *collector) RecordUnregistration(entityKind string) {
	if c == nil {
		return
	}
	c.unregistrations.WithLabelValues(entityKind).Inc()
}

func (c *collector) RecordRejection(entityKind, errorCode string) {
	if c == nil {
		return
	}
	c.rejections.WithLabelValues(entityKind, errorCode).Inc()
}

func (c *collector) ObserveOperationDuration(operation string, d time.Duration) {
	if c == nil {
		return
	}
	c.opDuration.WithLabelValues(operation).Observe(float64(d.Microseconds()) / 1000.0)
}

func (c *collector) RecordActiveHandles(table string, n int) {
	if c == nil {
		return
	}
	c.activeHandles.WithLabelValues(table).Set(float64(n))
}
