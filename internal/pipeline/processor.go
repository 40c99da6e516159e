// Package pipeline orchestrates a batch run: parallel per-document
// assembly, then the sequential reconcile/review phase over shared state.
package pipeline

import (
	"log/slog"

	"github.com/mfuentesc/boletas-engine/internal/assemble"
	"github.com/mfuentesc/boletas-engine/internal/entity"
)

// ProcessDocument assembles one source document with its own transient
// extractor state. It shares nothing with other invocations, so any worker
// goroutine can call it concurrently.
func ProcessDocument(logger *slog.Logger, cfg assemble.Config, doc entity.SourceDocument) *entity.Record {
	return assemble.NewAssembler(logger, cfg).Assemble(doc)
}
