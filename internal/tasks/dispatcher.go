package tasks

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nyashahama/financial-agent-backend/internal/ai"
)

// Recorder counts dispatched tasks. *metrics.Metrics satisfies it.
type Recorder interface {
	ObserveTask(taskType, status string)
}

// Dispatcher selects a Generator by task type. It holds no per-request state
// and is safe for concurrent use.
type Dispatcher struct {
	generators map[string]Generator
	generic    Generator
	logger     *slog.Logger
	rec        Recorder
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithClock overrides the clock used for review and adjustment dates.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		for key, g := range d.generators {
			switch g := g.(type) {
			case reviewGenerator:
				g.now = now
				d.generators[key] = g
			case budgetGenerator:
				g.now = now
				d.generators[key] = g
			}
		}
	}
}

// WithGenerator registers or replaces the generator for its task type.
func WithGenerator(g Generator) Option {
	return func(d *Dispatcher) { d.generators[g.TaskType()] = g }
}

// NewDispatcher wires the financial-review and budget-adjustment generators
// to c. rec may be nil.
func NewDispatcher(c ai.Completer, logger *slog.Logger, rec Recorder, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		generators: map[string]Generator{
			TypeFinancialReview:  reviewGenerator{completer: c, now: time.Now},
			TypeBudgetAdjustment: budgetGenerator{completer: c, now: time.Now},
		},
		generic: genericGenerator{},
		logger:  logger,
		rec:     rec,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch runs the generator for d.TaskType, or the generic one when the
// type is unknown or empty. A generator error is returned as a failed
// envelope carrying that generator's task type and the error text.
func (d *Dispatcher) Dispatch(ctx context.Context, desc Descriptor) Result {
	if desc.BusinessID == "" {
		desc.BusinessID = DefaultBusinessID
	}

	gen, ok := d.generators[desc.TaskType]
	if !ok {
		gen = d.generic
	}

	executionID := uuid.New().String()
	log := d.logger.With(
		"task_type", desc.TaskType,
		"business_name", desc.BusinessName,
		"business_id", desc.BusinessID,
		"execution_id", executionID,
	)
	log.Info("tasks: received", "generator", gen.TaskType(), "parameters", len(desc.Parameters))

	start := time.Now()
	res, err := gen.Generate(ctx, desc)
	if err != nil {
		log.Error("tasks: generator failed", "error", err)
		res = Failed(gen.TaskType(), err)
	}

	res.BusinessName = desc.BusinessName
	res.BusinessID = desc.BusinessID
	res.ExecutionID = executionID

	if res.Status == StatusCompleted {
		log.Info("tasks: completed", "duration_ms", time.Since(start).Milliseconds())
	}
	if d.rec != nil {
		d.rec.ObserveTask(gen.TaskType(), res.Status)
	}
	return res
}
