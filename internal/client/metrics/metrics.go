// Package metrics provides Prometheus metrics for the admin client.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/homepoint/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Outgoing API requests
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homepoint_http_requests_total",
			Help: "Total number of requests sent to the admin API",
		},
		[]string{"method", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "homepoint_http_request_duration_seconds",
			Help:    "Admin API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// Query cache
	cacheFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homepoint_cache_fetches_total",
			Help: "Fetches started by the query cache",
		},
		[]string{"resource", "result"},
	)

	cacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homepoint_cache_hits_total",
			Help: "Subscriptions served from a fresh cache entry",
		},
		[]string{"resource"},
	)
)

// Status label used when the request never produced a response.
const StatusError = "error"

// RecordHTTPRequest records one API round trip. status is the HTTP status
// code, or 0 when the request failed before a response arrived.
func RecordHTTPRequest(method string, status int, d time.Duration) {
	label := StatusError
	if status > 0 {
		label = strconv.Itoa(status)
	}
	httpRequestsTotal.WithLabelValues(method, label).Inc()
	httpRequestDuration.WithLabelValues(method).Observe(d.Seconds())
}

// RecordCacheFetch records a completed cache fetch; result is "success" or
// "error".
func RecordCacheFetch(resource, result string) {
	cacheFetchesTotal.WithLabelValues(resource, result).Inc()
}

func RecordCacheHit(resource string) {
	cacheHitsTotal.WithLabelValues(resource).Inc()
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Serve exposes /metrics on addr until ctx is cancelled. An empty addr
// disables the listener.
func Serve(ctx context.Context, addr string, log logging.Logger) error {
	if addr == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info(ctx, "metrics listener started", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
