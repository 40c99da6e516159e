package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mfuentesc/boletas-engine/constants"
	"github.com/mfuentesc/boletas-engine/internal/entity"
	"github.com/mfuentesc/boletas-engine/internal/extract"
)

type RecordRepository interface {
	SaveBatch(ctx context.Context, batchID uuid.UUID, recs []*entity.Record) error
	ListByBatch(ctx context.Context, batchID uuid.UUID) ([]*entity.Record, error)
	ListByPeriod(ctx context.Context, year, month int) ([]*entity.Record, error)
}

type recordRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewRecordRepository(db *sql.DB, logger *slog.Logger) RecordRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &recordRepository{db: db, logger: logger}
}

const insertSQL = `
INSERT INTO records (
	id, batch_id, source_ref,
	rut, folio, issue_date, amount, name, agreement,
	hours, decree, payment_type, glosa, service_period,
	period_month, period_year, confidences, origins,
	needs_review, review_reason, quality_score, error_message, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23)
ON CONFLICT (id) DO UPDATE SET
	rut = excluded.rut, folio = excluded.folio, issue_date = excluded.issue_date,
	amount = excluded.amount, name = excluded.name, agreement = excluded.agreement,
	hours = excluded.hours, decree = excluded.decree, payment_type = excluded.payment_type,
	glosa = excluded.glosa, service_period = excluded.service_period,
	period_month = excluded.period_month, period_year = excluded.period_year,
	confidences = excluded.confidences, origins = excluded.origins,
	needs_review = excluded.needs_review, review_reason = excluded.review_reason,
	quality_score = excluded.quality_score, error_message = excluded.error_message`

// SaveBatch upserts all records of a run in one transaction.
func (r *recordRepository) SaveBatch(ctx context.Context, batchID uuid.UUID, recs []*entity.Record) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, rec := range recs {
		confidences, origins := packMeta(rec)
		_, err := stmt.ExecContext(ctx,
			rec.ID.String(), batchID.String(), rec.SourceRef,
			rec.RUT.Value, rec.Folio.Value, rec.IssueDate.Value, rec.Amount.Value,
			rec.Name.Value, rec.Agreement.Value, rec.Hours.Value, rec.Decree.Value,
			rec.PaymentType.Value, rec.Glosa.Value, rec.Period.Value,
			rec.PeriodMonth, rec.PeriodYear, confidences, origins,
			rec.NeedsReview, rec.ReviewReason, rec.QualityScore, rec.Error,
			rec.CreatedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("insert record %s: %w", rec.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	r.logger.Info("repository.batch.saved", "batch_id", batchID.String(), "records", len(recs))
	return nil
}

func (r *recordRepository) ListByBatch(ctx context.Context, batchID uuid.UUID) ([]*entity.Record, error) {
	return r.list(ctx, `SELECT `+selectCols+` FROM records WHERE batch_id = $1 ORDER BY source_ref`, batchID.String())
}

func (r *recordRepository) ListByPeriod(ctx context.Context, year, month int) ([]*entity.Record, error) {
	return r.list(ctx, `SELECT `+selectCols+` FROM records WHERE period_year = $1 AND period_month = $2 ORDER BY source_ref`, year, month)
}

const selectCols = `id, source_ref, rut, folio, issue_date, amount, name, agreement,
	hours, decree, payment_type, glosa, service_period, period_month, period_year,
	confidences, origins, needs_review, review_reason, quality_score, error_message, created_at`

func (r *recordRepository) list(ctx context.Context, query string, args ...any) ([]*entity.Record, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*entity.Record
	for rows.Next() {
		rec := &entity.Record{}
		var id, confidences, origins, createdAt string
		err := rows.Scan(&id, &rec.SourceRef,
			&rec.RUT.Value, &rec.Folio.Value, &rec.IssueDate.Value, &rec.Amount.Value,
			&rec.Name.Value, &rec.Agreement.Value, &rec.Hours.Value, &rec.Decree.Value,
			&rec.PaymentType.Value, &rec.Glosa.Value, &rec.Period.Value,
			&rec.PeriodMonth, &rec.PeriodYear, &confidences, &origins,
			&rec.NeedsReview, &rec.ReviewReason, &rec.QualityScore, &rec.Error, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if rec.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse record id: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			rec.CreatedAt = t
		}
		unpackMeta(rec, confidences, origins)
		rec.PeriodMonthName = extract.MonthName(rec.PeriodMonth)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// packMeta serializes the parallel confidence/origin maps as JSON columns.
func packMeta(rec *entity.Record) (string, string) {
	confs := map[string]float64{}
	origins := map[string]string{}
	for _, tag := range constants.AllFields {
		f := rec.FieldRef(tag)
		confs[string(tag)] = f.Confidence
		origins[string(tag)] = string(f.Origin)
	}
	cb, _ := json.Marshal(confs)
	ob, _ := json.Marshal(origins)
	return string(cb), string(ob)
}

func unpackMeta(rec *entity.Record, confidences, origins string) {
	confs := map[string]float64{}
	origs := map[string]string{}
	_ = json.Unmarshal([]byte(confidences), &confs)
	_ = json.Unmarshal([]byte(origins), &origs)
	for _, tag := range constants.AllFields {
		f := rec.FieldRef(tag)
		f.Confidence = confs[string(tag)]
		f.Origin = constants.Origin(origs[string(tag)])
	}
}
