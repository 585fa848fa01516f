// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics declares the Prometheus collectors exported by yamdb binaries.

Collectors are registered on the default registry through promauto, so they
appear on [Handler] as soon as the package is imported.
*/
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taibuivan/yamdb/internal/platform/constants"
)

// # HTTP

var (
	// HTTPRequestsTotal counts finished requests by route pattern and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: constants.MetricsNamespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests handled by the API.",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration observes request latency by route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: constants.MetricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// # Domain

var (
	// SignupsTotal counts signup attempts by outcome
	// (created, reissued, conflict, invalid).
	SignupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: constants.MetricsNamespace,
			Name:      "signups_total",
			Help:      "Signup attempts by outcome.",
		},
		[]string{"outcome"},
	)

	// ConfirmationDeliveriesTotal counts confirmation code hand-offs and mail sends.
	ConfirmationDeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: constants.MetricsNamespace,
			Name:      "confirmation_deliveries_total",
			Help:      "Confirmation code deliveries by outcome.",
		},
		[]string{"outcome"},
	)

	// ReviewsRejectedTotal counts review inserts refused by the one-per-author rule.
	ReviewsRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: constants.MetricsNamespace,
			Name:      "reviews_rejected_total",
			Help:      "Duplicate reviews rejected, by detection point.",
		},
		[]string{"reason"},
	)

	// ActorCacheTotal counts actor cache lookups (hit, miss).
	ActorCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: constants.MetricsNamespace,
			Name:      "actor_cache_total",
			Help:      "Actor cache lookups by result.",
		},
		[]string{"result"},
	)
)

// Outcome and reason label values.
const (
	OutcomeCreated   = "created"
	OutcomeReissued  = "reissued"
	OutcomeConflict  = "conflict"
	OutcomeInvalid   = "invalid"
	OutcomeQueued    = "queued"
	OutcomeSent      = "sent"
	OutcomeFailed    = "failed"
	ReasonFastPath   = "fast_path"
	ReasonConstraint = "constraint"
	ResultHit        = "hit"
	ResultMiss       = "miss"
)

// Handler exposes the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
