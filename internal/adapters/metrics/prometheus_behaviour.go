package metrics

import (
	"context"
	"time"

	"github.com/andrescamacho/entries-go/internal/application/mediator"
)

// PrometheusBehaviour records command/query execution metrics
//
// It wraps every dispatch and records:
// - Execution duration (histogram)
// - Counts by result status code (counter)
type PrometheusBehaviour struct {
	collector *CommandMetricsCollector
}

// NewPrometheusBehaviour creates the metrics behaviour; a nil collector records nothing
func NewPrometheusBehaviour(collector *CommandMetricsCollector) *PrometheusBehaviour {
	return &PrometheusBehaviour{collector: collector}
}

// Handle implements mediator.Behaviour
func (b *PrometheusBehaviour) Handle(ctx context.Context, info mediator.RequestInfo, request any, next mediator.Next) (any, error) {
	// Skip metrics if collector is nil (metrics disabled)
	if b.collector == nil {
		return next(ctx)
	}

	start := time.Now()

	result, err := next(ctx)

	status := "error"
	if err == nil {
		status = "ok"
		if env, ok := result.(mediator.Envelope); ok {
			status = statusLabel(env.StatusCode())
		}
	}
	b.collector.RecordCommandExecution(info.Name, info.Kind.String(), time.Since(start).Seconds(), status)

	return result, err
}
