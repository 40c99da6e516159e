// Package repository persists finalized records so reporting can query
// across runs. It speaks plain database/sql: the "sqlite" driver
// (modernc.org/sqlite) for local/in-memory use and "pgx"
// (jackc/pgx stdlib adapter) for a deployment database. Drivers are
// blank-imported by the binary that opens the connection.
package repository

import (
	"context"
	"database/sql"
	"fmt"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS records (
	id             TEXT PRIMARY KEY,
	batch_id       TEXT NOT NULL,
	source_ref     TEXT NOT NULL,
	rut            TEXT,
	folio          TEXT,
	issue_date     TEXT,
	amount         TEXT,
	name           TEXT,
	agreement      TEXT,
	hours          TEXT,
	decree         TEXT,
	payment_type   TEXT,
	glosa          TEXT,
	service_period TEXT,
	period_month   INTEGER,
	period_year    INTEGER,
	confidences    TEXT NOT NULL,
	origins        TEXT NOT NULL,
	needs_review   BOOLEAN NOT NULL,
	review_reason  TEXT,
	quality_score  REAL NOT NULL,
	error_message  TEXT,
	created_at     TEXT NOT NULL
)`

// Open opens the database and ensures the schema exists.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return db, nil
}
