package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MarkWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slasti_mark_writes_total",
		Help: "Mark mutations by operation and outcome.",
	}, []string{"op", "result"})

	DamagedRecordsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slasti_damaged_records_total",
		Help: "Mark records that failed to decode, by reason.",
	}, []string{"reason"})

	TagWriteErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slasti_tag_write_errors_total",
		Help: "Tag index writes that failed.",
	})

	FixCollisionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slasti_fix_collisions_total",
		Help: "Inserts that had to look past fix 0.",
	})

	ListingReloadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slasti_listing_reloads_total",
		Help: "Full re-reads of a marks directory.",
	})

	LockWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "slasti_lock_wait_seconds",
		Help:    "Time spent waiting for the store writer lock.",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})

	CheckIssues = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "slasti_check_issues",
		Help: "Issues found by the last consistency check, by user and kind.",
	}, []string{"user", "kind"})
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slasti_http_requests_total",
		Help: "HTTP requests by route pattern and status code.",
	}, []string{"route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "slasti_http_request_duration_seconds",
		Help:    "Time spent serving HTTP requests, by route pattern.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"route"})

	RejectedRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slasti_rejected_requests_total",
		Help: "Requests refused by access middleware, by reason.",
	}, []string{"reason"})
)
