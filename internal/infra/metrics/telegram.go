// File: internal/infra/metrics/telegram.go
package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		apiRequestsTotal,
		errorReportsTotal,
	)
}

var (
	apiRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_api_requests_total",
			Help: "Bot API requests by method and outcome.",
		},
		[]string{"method", "outcome"},
	)

	errorReportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_error_reports_total",
			Help: "Error reports delivered per sink.",
		},
		[]string{"sink"},
	)
)

// Request outcomes.
const (
	OutcomeOK             = "ok"
	OutcomeAPIError       = "api_error"
	OutcomeTransportError = "transport_error"
)

func IncAPIRequest(method, outcome string) {
	apiRequestsTotal.WithLabelValues(method, outcome).Inc()
}

func IncErrorReport(sink string) {
	errorReportsTotal.WithLabelValues(sink).Inc()
}
