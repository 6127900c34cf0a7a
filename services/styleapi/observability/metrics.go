// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides Prometheus metrics for the styleapi
// service.
//
// # Description
//
// Metrics cover the decide path end to end:
//   - Decision counters (by selected style and matched/fallback outcome)
//   - Decision latency histogram
//   - Loaded-rules gauge (set once at startup)
//   - Validation failure counter (contexts rejected at the boundary)
//
// # Integration
//
// Metrics are exposed via the /metrics endpoint. Use with Prometheus +
// Grafana for dashboards and alerting.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all metrics
const metricsNamespace = "aleutian"

// Subsystem for style decision metrics
const styleSubsystem = "style"

// Outcome label values for DecisionsTotal.
const (
	OutcomeMatched  = "matched"
	OutcomeFallback = "fallback"
)

// StyleMetrics holds all Prometheus metrics for style decisions.
//
// Initialize once at startup via InitMetrics().
type StyleMetrics struct {
	// DecisionsTotal counts decisions by selected style and outcome.
	// Labels: style (explanatory, concise, ...), outcome (matched, fallback)
	DecisionsTotal *prometheus.CounterVec

	// DecisionDurationSeconds measures end-to-end decide handler latency.
	DecisionDurationSeconds prometheus.Histogram

	// RulesLoaded reports the number of rules in the active strategy list.
	RulesLoaded prometheus.Gauge

	// ValidationFailuresTotal counts requests rejected at the boundary.
	// Labels: reason (bind, enum)
	ValidationFailuresTotal *prometheus.CounterVec
}

// DefaultMetrics is the singleton instance of StyleMetrics.
// Initialized by InitMetrics().
var DefaultMetrics *StyleMetrics

// InitMetrics initializes and registers the default metrics instance.
//
// Should be called once at application startup. Calling it twice would
// panic on duplicate registration, as with all promauto collectors.
func InitMetrics() *StyleMetrics {
	DefaultMetrics = &StyleMetrics{
		DecisionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: styleSubsystem,
			Name:      "decisions_total",
			Help:      "Style decisions by selected style and outcome.",
		}, []string{"style", "outcome"}),

		DecisionDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: styleSubsystem,
			Name:      "decision_duration_seconds",
			Help:      "Latency of the decide handler.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),

		RulesLoaded: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: styleSubsystem,
			Name:      "rules_loaded",
			Help:      "Number of rules in the active strategy list.",
		}),

		ValidationFailuresTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: styleSubsystem,
			Name:      "validation_failures_total",
			Help:      "Decide requests rejected before evaluation.",
		}, []string{"reason"}),
	}
	return DefaultMetrics
}

// RecordDecision increments the decision counter for a result.
// Safe to call when metrics are disabled (DefaultMetrics == nil).
func RecordDecision(style string, matched bool) {
	if DefaultMetrics == nil {
		return
	}
	outcome := OutcomeFallback
	if matched {
		outcome = OutcomeMatched
	}
	DefaultMetrics.DecisionsTotal.WithLabelValues(style, outcome).Inc()
}

// RecordDecisionDuration observes one decide handler latency sample.
func RecordDecisionDuration(seconds float64) {
	if DefaultMetrics == nil {
		return
	}
	DefaultMetrics.DecisionDurationSeconds.Observe(seconds)
}

// RecordValidationFailure increments the boundary rejection counter.
func RecordValidationFailure(reason string) {
	if DefaultMetrics == nil {
		return
	}
	DefaultMetrics.ValidationFailuresTotal.WithLabelValues(reason).Inc()
}

// SetRulesLoaded records the size of the active strategy list.
func SetRulesLoaded(n int) {
	if DefaultMetrics == nil {
		return
	}
	DefaultMetrics.RulesLoaded.Set(float64(n))
}
