// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// # Prometheus Metrics

const metricsNamespace = "staybook"

// Metrics holds the HTTP and authentication collectors.
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	authOutcomes    *prometheus.CounterVec
}

// NewMetrics registers the collectors on registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests processed",
		}, []string{"method", "route", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),

		authOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "auth_verifications_total",
			Help:      "Session token verifications by channel and outcome",
		}, []string{"channel", "outcome"}),
	}
}

// Handler records request counts and latency labelled by chi route pattern.
func (metrics *Metrics) Handler(next http.Handler) http.Handler {
	if metrics == nil {
		return next
	}

	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		startTime := time.Now()
		wrappedWriter := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}

		next.ServeHTTP(wrappedWriter, request)

		// Pattern is only complete after routing, and keeps label cardinality bounded.
		route := "unmatched"
		if routeContext := chi.RouteContext(request.Context()); routeContext != nil {
			if pattern := routeContext.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		metrics.requestsTotal.WithLabelValues(request.Method, route, strconv.Itoa(wrappedWriter.status)).Inc()
		metrics.requestDuration.WithLabelValues(request.Method, route).Observe(time.Since(startTime).Seconds())
	})
}

// observeAuth counts one verification outcome.
func (metrics *Metrics) observeAuth(channel, outcome string) {
	if metrics == nil {
		return
	}
	metrics.authOutcomes.WithLabelValues(channel, outcome).Inc()
}
