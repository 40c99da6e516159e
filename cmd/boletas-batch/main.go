package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/mfuentesc/boletas-engine/internal/common"
	"github.com/mfuentesc/boletas-engine/internal/export"
	"github.com/mfuentesc/boletas-engine/internal/ingest"
	"github.com/mfuentesc/boletas-engine/internal/memory"
	"github.com/mfuentesc/boletas-engine/internal/pipeline"
	"github.com/mfuentesc/boletas-engine/internal/repository"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir     = flag.String("dir", "", "directory with OCR text dumps to process (required)")
		out     = flag.String("out", "", "output XLSX file path (defaults to <dir>/../boletas.xlsx)")
		store   = flag.String("store", "", "persistent store path (overrides STORE_PATH)")
		workers = flag.Int("workers", 0, "parallel extraction workers (overrides BATCH_WORKERS)")
		inmem   = flag.Bool("inmem", false, "use an in-memory SQLite database")
		noDB    = flag.Bool("nodb", false, "skip the record database entirely")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(*dir), "boletas.xlsx")
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := common.LoadConfig()
	if *store != "" {
		cfg.Store.Path = *store
	}
	if *workers > 0 {
		cfg.Batch.Workers = *workers
	}
	if *inmem {
		cfg.Database.Driver = "sqlite"
		cfg.Database.DSN = "file::memory:?cache=shared"
	}
	if err := cfg.Validate(); err != nil {
		printError("Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	docs, err := ingest.ScanDirectory(*dir)
	if err != nil {
		printError("Error: scan %s: %v\n", *dir, err)
		os.Exit(1)
	}
	if len(docs) == 0 {
		printError("Error: no OCR text dumps found under %s\n", *dir)
		os.Exit(1)
	}
	logger.Info("ingest.ok", "dir", *dir, "documents", len(docs))

	var repo repository.RecordRepository
	if !*noDB {
		db, err := repository.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			printError("Error: open database: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = db.Close() }()
		repo = repository.NewRecordRepository(db, logger)
	}

	persistent := memory.NewPersistentStore(cfg.Store.Path, logger)
	runner := pipeline.NewRunner(logger, pipeline.Config{
		Workers:    cfg.Batch.Workers,
		HourlyRate: cfg.Batch.HourlyRate,
		RetryFloor: cfg.Batch.RetryFloor,
	}, persistent, repo)

	batch, err := runner.Run(ctx, docs)
	if err != nil {
		printError("Error: batch failed: %v\n", err)
		os.Exit(1)
	}

	xlsx, err := export.NewService(logger).WriteXLSX(batch.Records)
	if err != nil {
		printError("Error: export: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, xlsx, 0o644); err != nil {
		printError("Error: write %s: %v\n", *out, err)
		os.Exit(1)
	}

	flagged := 0
	for _, rec := range batch.Records {
		if rec.NeedsReview {
			flagged++
		}
	}
	fmt.Printf("Processed %d documents (%d need review). Report: %s\n", len(batch.Records), flagged, *out)
}
