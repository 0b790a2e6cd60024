// Package metrics provides Prometheus metrics for the newsroom engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus collectors for the service.
type Metrics struct {
	// HTTP request metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Revision lifecycle metrics
	RevisionsCreatedTotal prometheus.Counter
	RevisionsPrunedTotal  prometheus.Counter
	PayloadPartsDropped   prometheus.Counter

	// Signature metrics
	SignatureChecksTotal *prometheus.CounterVec

	// Image digest cache metrics
	DigestCacheHitsTotal   prometheus.Counter
	DigestCacheMissesTotal prometheus.Counter

	ServerStartTime time.Time
}

// NewMetrics creates all collectors and registers them on the given
// registry. Passing a fresh registry keeps tests independent.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ServerStartTime: time.Now(),
	}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsroom_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "newsroom_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	m.RevisionsCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "newsroom_revisions_created_total",
		Help: "Total number of revisions captured",
	})

	m.RevisionsPrunedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "newsroom_revisions_pruned_total",
		Help: "Total number of revisions deleted on publish",
	})

	m.PayloadPartsDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "newsroom_payload_parts_dropped_total",
		Help: "Total number of payload sub-parts omitted during assembly",
	})

	m.SignatureChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsroom_signature_checks_total",
			Help: "Total number of signature validations by outcome",
		},
		[]string{"outcome"},
	)

	m.DigestCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "newsroom_digest_cache_hits_total",
		Help: "Total number of image digest cache hits",
	})

	m.DigestCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "newsroom_digest_cache_misses_total",
		Help: "Total number of image digest cache misses",
	})

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.RevisionsCreatedTotal,
		m.RevisionsPrunedTotal,
		m.PayloadPartsDropped,
		m.SignatureChecksTotal,
		m.DigestCacheHitsTotal,
		m.DigestCacheMissesTotal,
	)

	return m
}
