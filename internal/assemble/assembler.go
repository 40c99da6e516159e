// Package assemble turns one OCR text blob into a partial record: a first
// extraction pass over the full text, derived service-period boundaries,
// and a second pass that re-attempts low-confidence fields using the
// free-text descriptor as a secondary source.
package assemble

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mfuentesc/boletas-engine/constants"
	"github.com/mfuentesc/boletas-engine/internal/entity"
	"github.com/mfuentesc/boletas-engine/internal/extract"
	"github.com/mfuentesc/boletas-engine/internal/textutil"
)

// Config holds thresholds for the assembly stage.
type Config struct {
	RetryFloor float64 // default 0.70: below this the glosa pass re-attempts a field
}

type Assembler struct {
	Logger *slog.Logger
	Cfg    Config
	Ex     *extract.Extractor
}

func NewAssembler(logger *slog.Logger, cfg Config) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RetryFloor <= 0 {
		cfg.RetryFloor = 0.70
	}
	return &Assembler{Logger: logger, Cfg: cfg, Ex: extract.NewExtractor()}
}

// Assemble builds a record from one source document. It never fails: a
// document-level processing failure yields an error-only record and
// malformed text degrades to empty/low-confidence fields.
func (a *Assembler) Assemble(doc entity.SourceDocument) *entity.Record {
	rec := &entity.Record{
		ID:             uuid.New(),
		SourceRef:      doc.Path,
		PageConfidence: doc.PageConfidence,
		CreatedAt:      time.Now().UTC(),
	}
	if doc.Err != "" {
		rec.Error = doc.Err
		return rec
	}
	text := textutil.Normalize(doc.Text)
	if text == "" {
		rec.Error = "empty OCR text"
		return rec
	}

	for _, tag := range constants.TableFields {
		if tag == constants.FieldName {
			continue // name wants the filename fallback
		}
		setField(rec.FieldRef(tag), a.Ex.Extract(tag, text), constants.OriginOCR)
	}
	setField(&rec.Name, a.Ex.Name(text, doc.Path), constants.OriginOCR)
	setField(&rec.IssueDate, a.Ex.IssueDate(text), constants.OriginOCR)

	a.secondPass(rec)
	a.derivePeriod(rec, text)

	a.Logger.Debug("assemble.ok",
		"source", doc.Path,
		"rut", rec.RUT.Value,
		"amount", rec.Amount.Value,
		"date", rec.IssueDate.Value,
	)
	return rec
}

// secondPass re-attempts low-confidence fields against the descriptor;
// the glosa often repeats the program, hours or amount in cleaner prose.
func (a *Assembler) secondPass(rec *entity.Record) {
	if rec.Glosa.Empty() {
		return
	}
	for _, tag := range constants.GlosaRetryFields {
		f := rec.FieldRef(tag)
		if !f.Empty() && f.Confidence >= a.Cfg.RetryFloor {
			continue
		}
		r := a.Ex.Extract(tag, rec.Glosa.Value)
		if r.Empty() || r.Confidence <= f.Confidence {
			continue
		}
		*f = entity.Field{Value: r.Value, Confidence: r.Confidence, Origin: constants.OriginGlosa}
	}
}

// derivePeriod fills the service period from the descriptor or raw text,
// falling back to the document month minus one.
func (a *Assembler) derivePeriod(rec *entity.Record, text string) {
	docDate := rec.IssueTime()

	source := rec.Glosa.Value
	if source == "" {
		source = text
	}
	p, conf := a.Ex.ServicePeriod(source, docDate)
	if p.Month == 0 {
		p2, conf2 := a.Ex.ServicePeriod(text, docDate)
		p, conf = p2, conf2
	}

	if p.Month != 0 {
		rec.Period = entity.Field{Value: p.String(), Confidence: conf, Origin: constants.OriginOCR}
		rec.PeriodMonth = p.Month
		rec.PeriodYear = p.Year
		rec.PeriodMonthName = extract.MonthName(p.Month)
		return
	}
	if fallback := extract.PeriodFromDocDate(docDate); fallback.Month != 0 {
		rec.Period = entity.Field{Value: fallback.String(), Confidence: 0.50, Origin: constants.OriginCalculated}
		rec.PeriodMonth = fallback.Month
		rec.PeriodYear = fallback.Year
		rec.PeriodMonthName = extract.MonthName(fallback.Month)
	}
}

func setField(f *entity.Field, r extract.Result, origin constants.Origin) {
	if r.Value == "" && r.Confidence == 0 {
		return
	}
	*f = entity.Field{Value: r.Value, Confidence: r.Confidence, Origin: origin}
}
