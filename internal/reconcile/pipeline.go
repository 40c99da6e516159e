// Package reconcile runs the ordered batch-wide stages that fill gaps in
// assembled records from the batch and persistent cross-reference indices.
// Every stage is a total function over the record list, only acts on
// empty/low-confidence fields, stamps provenance, and is idempotent.
package reconcile

import (
	"context"
	"log/slog"

	"github.com/mfuentesc/boletas-engine/constants"
	"github.com/mfuentesc/boletas-engine/internal/entity"
	"github.com/mfuentesc/boletas-engine/internal/memory"
)

// Config holds the stage knobs.
type Config struct {
	HourlyRate float64 // CLP per hour for calculated amounts
}

type Pipeline struct {
	Logger *slog.Logger
	Cfg    Config
	Batch  *memory.BatchMemory
	Store  *memory.PersistentStore
}

func NewPipeline(logger *slog.Logger, cfg Config, batch *memory.BatchMemory, store *memory.PersistentStore) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.HourlyRate <= 0 {
		cfg.HourlyRate = 4500
	}
	return &Pipeline{Logger: logger, Cfg: cfg, Batch: batch, Store: store}
}

// Run executes the fixed stage sequence over the whole batch. The context
// is only consulted between stages; individual stages are in-memory and
// short. Re-running over an already-completed batch is a no-op.
func (p *Pipeline) Run(ctx context.Context, recs []*entity.Record) error {
	stages := []struct {
		name string
		fn   func([]*entity.Record)
	}{
		{"decree_normalize", p.normalizeDecrees},
		{"cross_search", p.CrossSearch},
		{"amount_fill", p.fillAmounts},
		{"period_inference", p.inferPeriods},
	}
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			return err
		}
		st.fn(recs)
		p.Logger.Debug("reconcile.stage.done", "stage", st.name, "records", len(recs))
	}
	return nil
}

// fill sets f only when it is empty or below floor, and only to a better
// confidence. An ocr value at or above 0.90 confidence is never displaced.
func fill(f *entity.Field, value string, conf float64, origin constants.Origin, floor float64) bool {
	if value == "" || f == nil {
		return false
	}
	if !f.Empty() {
		if f.Origin == constants.OriginOCR && f.Confidence >= 0.90 {
			return false
		}
		if f.Confidence >= floor || conf <= f.Confidence {
			return false
		}
	}
	*f = entity.Field{Value: value, Confidence: conf, Origin: origin}
	return true
}
