package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// CommandMetricsCollector handles all command/query execution metrics
type CommandMetricsCollector struct {
	// Command execution metrics
	commandDuration *prometheus.HistogramVec
	commandsTotal   *prometheus.CounterVec
}

// NewCommandMetricsCollector creates a new command metrics collector
func NewCommandMetricsCollector() *CommandMetricsCollector {
	return &CommandMetricsCollector{
		// Command execution duration histogram
		commandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "request_duration_seconds",
				Help:      "Mediator request execution duration distribution",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 5.0},
			},
			[]string{"request", "kind"},
		),

		// Command execution counter
		commandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "requests_total",
				Help:      "Total number of mediator requests by type, kind and status",
			},
			[]string{"request", "kind", "status"},
		),
	}
}

// Register registers all command metrics with the Prometheus registry
func (c *CommandMetricsCollector) Register() error {
	return register(c.commandDuration, c.commandsTotal)
}

// RecordCommandExecution records one dispatch. status is the result status code,
// or "error" when the pipeline returned an error.
func (c *CommandMetricsCollector) RecordCommandExecution(
	requestName string,
	kind string,
	duration float64,
	status string,
) {
	// Record duration
	c.commandDuration.WithLabelValues(requestName, kind).Observe(duration)

	// Increment counter
	c.commandsTotal.WithLabelValues(requestName, kind, status).Inc()
}

func statusLabel(statusCode int) string {
	if statusCode == 0 {
		return "unknown"
	}
	return strconv.Itoa(statusCode)
}
