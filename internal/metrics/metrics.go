// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestCounter counts HTTP requests by status code, method, and route.
	RequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adotafacil_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"status", "method", "path"},
	)

	// RequestDuration measures HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "adotafacil_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status", "method", "path"},
	)

	// RequestInProgress counts HTTP requests currently being processed.
	RequestInProgress = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "adotafacil_http_requests_in_progress",
			Help: "Number of HTTP requests currently being processed",
		},
		[]string{"method", "path"},
	)

	// RecoveryCodes counts recovery code events: issued, conflict,
	// delivery_failed, confirmed, invalid, expired.
	RecoveryCodes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adotafacil_recovery_codes_total",
			Help: "Password recovery code events",
		},
		[]string{"event"},
	)

	// RecoveryCodesSwept counts expired codes removed by the sweep.
	RecoveryCodesSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "adotafacil_recovery_codes_swept_total",
			Help: "Expired recovery codes deleted by the periodic sweep",
		},
	)

	// EmailsSent counts outgoing mail by provider and result.
	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adotafacil_emails_sent_total",
			Help: "Outgoing emails by provider and result",
		},
		[]string{"provider", "result"},
	)

	// BlobUploads counts image uploads by result.
	BlobUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adotafacil_blob_uploads_total",
			Help: "Image uploads to blob storage by result",
		},
		[]string{"result"},
	)

	// SearchResults observes how many listings a search returned.
	SearchResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "adotafacil_search_results",
			Help:    "Number of listings returned per search",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		},
	)
)

// Result returns the label value for an operation outcome.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
