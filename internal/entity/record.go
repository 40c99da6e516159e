package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/mfuentesc/boletas-engine/constants"
)

// Field is one extracted value with its confidence and provenance.
type Field struct {
	Value      string           `json:"value"`
	Confidence float64          `json:"confidence"`
	Origin     constants.Origin `json:"origin,omitempty"`
}

// Empty reports whether no value has been extracted for the field.
func (f Field) Empty() bool { return f.Value == "" }

// Record is the unit of work: one scanned fee receipt turned into
// confidence-scored structured fields.
type Record struct {
	ID             uuid.UUID `json:"id"`
	SourceRef      string    `json:"source_ref"`
	PageConfidence float64   `json:"page_confidence"`

	RUT         Field `json:"rut"`
	Folio       Field `json:"folio"`
	IssueDate   Field `json:"issue_date"` // YYYY-MM-DD
	Amount      Field `json:"amount"`     // integer CLP, separators stripped
	Name        Field `json:"name"`
	Agreement   Field `json:"agreement"`
	Hours       Field `json:"hours"`
	Decree      Field `json:"decree"`
	PaymentType Field `json:"payment_type"`
	Glosa       Field `json:"glosa"`
	Period      Field `json:"service_period"` // raw period token, e.g. "DICIEMBRE 2023"

	// Derived service period. PeriodYear 0 is the explicit placeholder for
	// "month known, year unknown" when no document date exists.
	PeriodMonth     int    `json:"period_month"`
	PeriodYear      int    `json:"period_year"`
	PeriodMonthName string `json:"period_month_name"`

	// Error is set only for document-level processing failures; such a
	// record carries no fields and always needs review.
	Error string `json:"error,omitempty"`

	NeedsReview  bool    `json:"needs_review"`
	ReviewReason string  `json:"review_reason,omitempty"`
	QualityScore float64 `json:"quality_score"`

	CreatedAt time.Time `json:"created_at"`
}

// FieldRef returns a pointer to the field identified by tag, or nil for
// an unknown tag.
func (r *Record) FieldRef(tag constants.FieldTag) *Field {
	switch tag {
	case constants.FieldRUT:
		return &r.RUT
	case constants.FieldFolio:
		return &r.Folio
	case constants.FieldIssueDate:
		return &r.IssueDate
	case constants.FieldAmount:
		return &r.Amount
	case constants.FieldName:
		return &r.Name
	case constants.FieldAgreement:
		return &r.Agreement
	case constants.FieldHours:
		return &r.Hours
	case constants.FieldDecree:
		return &r.Decree
	case constants.FieldPaymentType:
		return &r.PaymentType
	case constants.FieldGlosa:
		return &r.Glosa
	case constants.FieldPeriod:
		return &r.Period
	}
	return nil
}

// IssueTime parses the document date field. Zero time when absent or
// malformed.
func (r *Record) IssueTime() time.Time {
	if r.IssueDate.Empty() {
		return time.Time{}
	}
	t, err := time.ParseInLocation("2006-01-02", r.IssueDate.Value, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Flatten renders the record as the flat mapping handed to reporting
// collaborators: field -> value plus parallel _confidence/_origin keys.
func (r *Record) Flatten() map[string]any {
	out := map[string]any{
		"id":            r.ID.String(),
		"source_ref":    r.SourceRef,
		"needs_review":  r.NeedsReview,
		"review_reason": r.ReviewReason,
		"quality_score": r.QualityScore,
		"period_month":  r.PeriodMonth,
		"period_year":   r.PeriodYear,
	}
	if r.Error != "" {
		out["error"] = r.Error
	}
	for _, tag := range constants.AllFields {
		f := r.FieldRef(tag)
		out[string(tag)] = f.Value
		out[string(tag)+"_confidence"] = f.Confidence
		out[string(tag)+"_origin"] = string(f.Origin)
	}
	return out
}
