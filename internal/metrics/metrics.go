// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ExtractionRequests counts receipt extraction attempts by outcome
	// (ok, empty, error).
	ExtractionRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billsplitter_extraction_requests_total",
		Help: "Receipt extraction attempts by outcome.",
	}, []string{"outcome"})

	// ExtractedItems counts line items produced by successful extractions.
	ExtractedItems = promauto.NewCounter(prometheus.CounterOpts{
		Name: "billsplitter_extracted_items_total",
		Help: "Line items produced by receipt extraction.",
	})

	// RequestDuration observes HTTP handler latency.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "billsplitter_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
