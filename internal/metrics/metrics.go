// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bloodbridge_http_requests_total",
		Help: "HTTP requests by method, route and status code",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bloodbridge_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bloodbridge_auth_events_total",
		Help: "Registrations, logins and logouts by outcome",
	}, []string{"event"})

	RoleTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bloodbridge_role_transitions_total",
		Help: "Committed account role transitions",
	}, []string{"from", "to"})

	ChatbotReplies = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bloodbridge_chatbot_replies_total",
		Help: "Chatbot replies by source (glm, deepseek, fallback, gated)",
	}, []string{"source"})

	RevocationCheckDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bloodbridge_token_revocation_check_seconds",
		Help:    "Latency of token revocation lookups",
		Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025},
	})

	JobRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bloodbridge_job_runs_total",
		Help: "Background job runs by job and result",
	}, []string{"job", "result"})

	JobRowsAffected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bloodbridge_job_rows_affected_total",
		Help: "Rows changed by background jobs",
	}, []string{"job"})
)
