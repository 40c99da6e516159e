package pipeline

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/mfuentesc/boletas-engine/internal/assemble"
	"github.com/mfuentesc/boletas-engine/internal/async"
	"github.com/mfuentesc/boletas-engine/internal/common"
	"github.com/mfuentesc/boletas-engine/internal/correction"
	"github.com/mfuentesc/boletas-engine/internal/entity"
	"github.com/mfuentesc/boletas-engine/internal/memory"
	"github.com/mfuentesc/boletas-engine/internal/reconcile"
	"github.com/mfuentesc/boletas-engine/internal/repository"
	"github.com/mfuentesc/boletas-engine/internal/review"
)

// Config holds batch-run behavior.
type Config struct {
	Workers    int
	HourlyRate float64
	RetryFloor float64
}

// Runner wires the full flow: assemble -> batch memory -> reconcile ->
// review -> learn -> persist.
type Runner struct {
	Logger *slog.Logger
	Cfg    Config
	Store  *memory.PersistentStore
	Repo   repository.RecordRepository // optional
}

func NewRunner(logger *slog.Logger, cfg Config, store *memory.PersistentStore, repo repository.RecordRepository) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return &Runner{Logger: logger, Cfg: cfg, Store: store, Repo: repo}
}

// Batch is a finished run. It keeps its batch memory and reconciler alive
// so manual corrections can re-enter incrementally.
type Batch struct {
	ID      uuid.UUID
	Records []*entity.Record

	logger *slog.Logger
	mem    *memory.BatchMemory
	rec    *reconcile.Pipeline
	eng    *review.Engine
	store  *memory.PersistentStore
}

// Run processes a whole batch. Per-document assembly fans out across the
// worker pool with no shared mutable state; everything after the
// cancellation point runs sequentially on the calling goroutine, which is
// the single writer for BatchMemory and the persistent store.
func (r *Runner) Run(ctx context.Context, docs []entity.SourceDocument) (*Batch, error) {
	start := time.Now()
	batch := &Batch{
		ID:      uuid.New(),
		Records: make([]*entity.Record, len(docs)),
		logger:  r.Logger,
		mem:     memory.NewBatchMemory(),
		eng:     review.NewEngine(r.Logger),
		store:   r.Store,
	}
	batch.rec = reconcile.NewPipeline(r.Logger, reconcile.Config{HourlyRate: r.Cfg.HourlyRate}, batch.mem, r.Store)

	acfg := assemble.Config{RetryFloor: r.Cfg.RetryFloor}
	queue := async.NewQueue(r.Logger, func(_ context.Context, job async.Job) {
		batch.Records[job.Index] = ProcessDocument(r.Logger, acfg, job.Doc)
	}, async.WithWorkers(r.Cfg.Workers), async.WithQueueSize(len(docs)))
	for i, doc := range docs {
		if err := queue.Submit(ctx, async.Job{Index: i, Doc: doc}); err != nil {
			_ = queue.Shutdown(context.Background())
			return nil, err
		}
	}
	if err := queue.Shutdown(ctx); err != nil {
		return nil, err
	}
	r.Logger.Info("batch.extract.ok", "batch_id", batch.ID.String(), "documents", len(docs))

	// cancellation point between the parallel and sequential phases
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, rec := range batch.Records {
		batch.mem.Add(rec)
	}
	if err := batch.rec.Run(ctx, batch.Records); err != nil {
		return nil, err
	}
	for _, rec := range batch.Records {
		batch.eng.Evaluate(rec)
	}
	batch.learn()

	if r.Repo != nil {
		if err := r.Repo.SaveBatch(ctx, batch.ID, batch.Records); err != nil {
			return nil, common.WrapError(err, "persist batch")
		}
	}

	flagged := 0
	for _, rec := range batch.Records {
		if rec.NeedsReview {
			flagged++
		}
	}
	r.Logger.Info("batch.done",
		"batch_id", batch.ID.String(),
		"records", len(batch.Records),
		"needs_review", flagged,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return batch, nil
}

// learn feeds reviewed-clean records into the persistent store; all
// learning happens on the controlling goroutine after extraction.
func (b *Batch) learn() {
	if b.store == nil {
		return
	}
	for _, rec := range b.Records {
		if rec.NeedsReview || rec.Error != "" {
			continue
		}
		b.store.Learn(rec)
		if !rec.Decree.Empty() && !rec.Amount.Empty() {
			b.store.LearnPaymentPattern(rec.RUT.Value, rec.Decree.Value, rec.Amount.Value, rec.Hours.Value)
		}
	}
}

// Correct applies a manual correction to one record, offers the corrected
// record back into batch memory, and re-runs the cross-search stage for
// still-pending records so they can benefit from it.
func (b *Batch) Correct(recordID uuid.UUID, payload []byte) error {
	var target *entity.Record
	for _, rec := range b.Records {
		if rec.ID == recordID {
			target = rec
			break
		}
	}
	if target == nil {
		return common.NewAppError("CORRECTION_ERROR", "record not in batch: "+recordID.String(), common.ErrNotFound)
	}
	if err := correction.Apply(target, payload); err != nil {
		return err
	}
	b.mem.Add(target)

	var pending []*entity.Record
	for _, rec := range b.Records {
		if rec.NeedsReview && rec.ID != recordID {
			pending = append(pending, rec)
		}
	}
	if len(pending) > 0 {
		b.rec.CrossSearch(pending)
		for _, rec := range pending {
			b.eng.Evaluate(rec)
		}
	}

	if b.store != nil {
		b.store.Learn(target)
		if !target.Decree.Empty() && !target.Amount.Empty() {
			b.store.LearnPaymentPattern(target.RUT.Value, target.Decree.Value, target.Amount.Value, target.Hours.Value)
		}
	}
	b.logger.Info("batch.correction.applied", "batch_id", b.ID.String(), "record_id", recordID.String(), "repaired_pending", len(pending))
	return nil
}
