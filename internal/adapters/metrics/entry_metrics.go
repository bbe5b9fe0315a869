package metrics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	entryQueries "github.com/andrescamacho/entries-go/internal/application/entry/queries"
	"github.com/andrescamacho/entries-go/internal/application/mediator"
)

// EntryMetricsCollector handles ledger metrics: change counters fed by the command
// handlers, and totals refreshed by polling GetEntriesQuery through the mediator
type EntryMetricsCollector struct {
	// Dependencies
	sender   mediator.Sender
	logger   *slog.Logger
	interval time.Duration

	// Change metrics
	changesTotal *prometheus.CounterVec
	changeAmount *prometheus.HistogramVec

	// Ledger totals
	entriesCount prometheus.Gauge
	amountTotal  prometheus.Gauge

	// Lifecycle
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewEntryMetricsCollector creates a new entry metrics collector polling every interval
func NewEntryMetricsCollector(sender mediator.Sender, logger *slog.Logger, interval time.Duration) *EntryMetricsCollector {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = 60 * time.Second
	}

	return &EntryMetricsCollector{
		sender:   sender,
		logger:   logger,
		interval: interval,

		changesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "entry_changes_total",
				Help:      "Total number of entry changes by operation",
			},
			[]string{"operation"},
		),

		changeAmount: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "entry_amount",
				Help:      "Entry amount distribution by operation",
				Buckets:   []float64{1, 10, 50, 100, 500, 1000, 5000, 10000, 50000},
			},
			[]string{"operation"},
		),

		entriesCount: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "entries",
				Help:      "Number of entries in the ledger at the last poll",
			},
		),

		amountTotal: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "entries_amount_total",
				Help:      "Sum of all entry amounts at the last poll",
			},
		),
	}
}

// Register registers all entry metrics with the Prometheus registry
func (c *EntryMetricsCollector) Register() error {
	return register(c.changesTotal, c.changeAmount, c.entriesCount, c.amountTotal)
}

// Start begins the totals polling goroutine
func (c *EntryMetricsCollector) Start(ctx context.Context) {
	ctx, c.cancelFunc = context.WithCancel(ctx)

	c.wg.Add(1)
	go c.poll(ctx)
}

// Stop gracefully stops the entry metrics collector
func (c *EntryMetricsCollector) Stop() {
	if c.cancelFunc != nil {
		c.cancelFunc()
	}
	c.wg.Wait()
}

func (c *EntryMetricsCollector) poll(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	// Do initial poll immediately
	c.Refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Refresh(ctx)
		}
	}
}

// Refresh fetches all entries and updates the ledger totals
func (c *EntryMetricsCollector) Refresh(ctx context.Context) {
	if c.sender == nil {
		return
	}

	result, err := mediator.Send(ctx, c.sender, &entryQueries.GetEntriesQuery{})
	if err != nil {
		c.logger.WarnContext(ctx, "failed to fetch entries for metrics", "error", err)
		return
	}
	if !result.IsSuccess() {
		c.logger.WarnContext(ctx, "entries query failed for metrics", "status", result.StatusCode(), "errors", result.Errors())
		return
	}

	total := 0.0
	for _, e := range result.Data() {
		amount, _ := e.Amount.Float64()
		total += amount
	}

	c.entriesCount.Set(float64(len(result.Data())))
	c.amountTotal.Set(total)
}

// RecordEntryChange records an entry change event
func (c *EntryMetricsCollector) RecordEntryChange(operation string, amount float64) {
	c.changesTotal.WithLabelValues(operation).Inc()
	if amount > 0 {
		c.changeAmount.WithLabelValues(operation).Observe(amount)
	}
}
