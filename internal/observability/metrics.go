package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	repositoryOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "statusup_repository_operations_total",
		Help: "Repository operations by entity, operation and outcome.",
	}, []string{"entity", "operation", "outcome"})

	authEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "statusup_auth_events_total",
		Help: "Authentication flow events by step and outcome.",
	}, []string{"step", "outcome"})

	jobEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "statusup_job_events_total",
		Help: "Job board mutations by action and outcome.",
	}, []string{"action", "outcome"})

	mailSends = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "statusup_mail_sends_total",
		Help: "Outbound mail attempts by kind and outcome.",
	}, []string{"kind", "outcome"})
)

func RecordRepositoryOperation(entity, operation, outcome string) {
	repositoryOps.WithLabelValues(entity, operation, outcome).Inc()
}

func RecordAuthEvent(step, outcome string) {
	authEvents.WithLabelValues(step, outcome).Inc()
}

func RecordJobEvent(action, outcome string) {
	jobEvents.WithLabelValues(action, outcome).Inc()
}

func RecordMailSend(kind, outcome string) {
	mailSends.WithLabelValues(kind, outcome).Inc()
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
