package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// Namespace for all metrics
	namespace = "entries"
	// Subsystem for service metrics
	subsystem = "service"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalEntryCollector is the singleton entry metrics collector
	// Set by SetGlobalEntryCollector() when metrics are enabled
	globalEntryCollector EntryMetricsRecorder
)

// EntryMetricsRecorder defines the interface for recording entry change events.
// Application handlers record through the package-level RecordEntryChange.
type EntryMetricsRecorder interface {
	RecordEntryChange(operation string, amount float64)
}

// InitRegistry initializes the Prometheus registry with the Go runtime and process collectors.
// Should be called once at application startup if metrics are enabled
func InitRegistry() {
	Registry = prometheus.NewRegistry()
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// ResetRegistry drops the registry and the global collector, disabling metrics
func ResetRegistry() {
	Registry = nil
	globalEntryCollector = nil
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// Handler serves the registry in the Prometheus exposition format
func Handler() http.Handler {
	if Registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}

// SetGlobalEntryCollector sets the global entry metrics collector
func SetGlobalEntryCollector(collector EntryMetricsRecorder) {
	globalEntryCollector = collector
}

// RecordEntryChange records an entry create/update/delete globally
func RecordEntryChange(operation string, amount float64) {
	if globalEntryCollector != nil {
		globalEntryCollector.RecordEntryChange(operation, amount)
	}
}

func register(collectors ...prometheus.Collector) error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	for _, c := range collectors {
		if err := Registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}
