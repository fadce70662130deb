// Package metrics holds the prometheus collectors shared by the store, the
// screen and the HTTP layer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result labels for StoreLoads.
const (
	LoadOK      = "ok"
	LoadEmpty   = "empty"
	LoadCorrupt = "corrupt"
	LoadError   = "error"
)

var (
	// StoreLoads counts load attempts by result: LoadOK, LoadEmpty (nothing
	// stored yet), LoadCorrupt or LoadError.
	StoreLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pocketblog_store_loads_total",
		Help: "Total number of post collection loads by result",
	}, []string{"result"})

	// StoreSaves counts completed saves.
	StoreSaves = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pocketblog_store_saves_total",
		Help: "Total number of post collection saves",
	})

	// StoreSaveFailures counts saves the backend rejected.
	StoreSaveFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pocketblog_store_save_failures_total",
		Help: "Total number of failed post collection saves",
	})

	// Submissions counts composer submissions by outcome (accepted, rejected).
	Submissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pocketblog_submissions_total",
		Help: "Total number of post submissions by outcome",
	}, []string{"outcome"})

	// PostsStored tracks the size of the in-memory collection.
	PostsStored = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pocketblog_posts",
		Help: "Number of posts in the current collection",
	})

	// HTTPRequestDuration records handler latency by route and status.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pocketblog_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
