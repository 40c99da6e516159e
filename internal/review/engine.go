// Package review decides whether a record is trustworthy enough to skip
// human review. The engine is a rule-ordered evaluator: first matching rule
// wins and stamps a reason; identical inputs always yield identical
// outcomes, independent of record order.
package review

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/mfuentesc/boletas-engine/constants"
	"github.com/mfuentesc/boletas-engine/internal/entity"
	"github.com/mfuentesc/boletas-engine/internal/extract"
)

// Rule forces review when it applies, contributing a human-readable reason.
type Rule struct {
	Name    string
	Applies func(r *entity.Record) (string, bool)
}

type Engine struct {
	Logger *slog.Logger
	rules  []Rule
}

func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{Logger: logger, rules: defaultRules()}
}

// defaultRules is the balanced rule set. A missing folio alone is treated
// as non-critical; it only lowers the quality score.
func defaultRules() []Rule {
	return []Rule{
		{
			Name: "processing_error",
			Applies: func(r *entity.Record) (string, bool) {
				if r.Error != "" {
					return "processing error: " + r.Error, true
				}
				return "", false
			},
		},
		{
			Name: "missing_identifier",
			Applies: func(r *entity.Record) (string, bool) {
				if r.RUT.Empty() {
					return "identifier missing", true
				}
				return "", false
			},
		},
		{
			Name: "too_few_core_fields",
			Applies: func(r *entity.Record) (string, bool) {
				var missing []string
				if r.Name.Empty() {
					missing = append(missing, "name")
				}
				if r.Amount.Empty() {
					missing = append(missing, "amount")
				}
				if r.Agreement.Empty() {
					missing = append(missing, "agreement")
				}
				if len(missing) > 1 {
					return "missing fields: " + strings.Join(missing, ", "), true
				}
				return "", false
			},
		},
		{
			Name: "invalid_check_digit",
			Applies: func(r *entity.Record) (string, bool) {
				body, check, ok := splitRUT(r.RUT.Value)
				if !ok || !extract.ValidRUT(body, check) {
					return "identifier fails check-digit validation", true
				}
				return "", false
			},
		},
		{
			Name: "implausible_amount",
			Applies: func(r *entity.Record) (string, bool) {
				if r.Amount.Empty() {
					return "", false
				}
				n, err := strconv.Atoi(r.Amount.Value)
				if err != nil || !extract.PlausibleAmount(n) {
					return "amount outside plausible range: " + r.Amount.Value, true
				}
				return "", false
			},
		},
	}
}

// Evaluate stamps NeedsReview, ReviewReason and QualityScore on the record.
// Strictly a decision function: no state survives between records.
func (e *Engine) Evaluate(r *entity.Record) {
	for _, rule := range e.rules {
		if reason, hit := rule.Applies(r); hit {
			r.NeedsReview = true
			r.ReviewReason = reason
			r.QualityScore = qualityScore(r)
			e.Logger.Debug("review.flagged", "source", r.SourceRef, "rule", rule.Name, "reason", reason)
			return
		}
	}
	r.NeedsReview = false
	r.ReviewReason = ""
	r.QualityScore = qualityScore(r)
}

// per-field weights for the quality score; a present field contributes a
// fixed presence share plus a confidence-scaled share
var qualityWeights = map[constants.FieldTag]float64{
	constants.FieldRUT:       0.25,
	constants.FieldAmount:    0.20,
	constants.FieldIssueDate: 0.15,
	constants.FieldName:      0.15,
	constants.FieldAgreement: 0.10,
	constants.FieldPeriod:    0.10,
	constants.FieldFolio:     0.05,
}

func qualityScore(r *entity.Record) float64 {
	if r.Error != "" {
		return 0
	}
	score := 0.0
	for tag, w := range qualityWeights {
		f := r.FieldRef(tag)
		if f.Empty() {
			continue
		}
		score += w * (0.4 + 0.6*f.Confidence)
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

func splitRUT(s string) (body, check string, ok bool) {
	i := strings.LastIndexByte(s, '-')
	if i <= 0 || i != len(s)-2 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}
