// Package correction accepts fully-specified corrected records from the
// review collaborator and applies them as privileged overwrites.
package correction

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mfuentesc/boletas-engine/constants"
	"github.com/mfuentesc/boletas-engine/internal/entity"
	"github.com/mfuentesc/boletas-engine/internal/extract"
)

// Apply validates the payload against the correction schema and overwrites
// the record verbatim: every field at confidence 1.0 with a manual origin,
// needs_review cleared, derived period recomputed.
func Apply(rec *entity.Record, payload []byte) error {
	if err := validateJSONAgainstSchema(BuildCorrectionSchema(), payload); err != nil {
		return fmt.Errorf("correction payload: %w", err)
	}
	var c entity.CorrectionPayload
	if err := json.Unmarshal(payload, &c); err != nil {
		return fmt.Errorf("decode correction: %w", err)
	}

	set := func(f *entity.Field, v string) {
		if v == "" {
			*f = entity.Field{}
			return
		}
		*f = entity.Field{Value: v, Confidence: 1.0, Origin: constants.OriginManual}
	}
	set(&rec.RUT, c.RUT)
	set(&rec.Folio, c.Folio)
	set(&rec.IssueDate, c.IssueDate)
	set(&rec.Amount, c.Amount)
	set(&rec.Name, c.Name)
	set(&rec.Agreement, c.Agreement)
	set(&rec.Hours, c.Hours)
	set(&rec.Decree, c.Decree)
	set(&rec.PaymentType, c.PaymentType)
	set(&rec.Glosa, c.Glosa)
	set(&rec.Period, c.ServicePeriod)

	rec.PeriodMonth, rec.PeriodYear = parsePeriodToken(c.ServicePeriod)
	rec.PeriodMonthName = extract.MonthName(rec.PeriodMonth)

	rec.Error = ""
	rec.NeedsReview = false
	rec.ReviewReason = ""
	rec.QualityScore = 1.0
	return nil
}

// parsePeriodToken reads "DICIEMBRE 2023" style tokens; a missing or
// unknown year stays at the placeholder.
func parsePeriodToken(s string) (month, year int) {
	fields := strings.Fields(strings.ToUpper(strings.TrimSpace(s)))
	if len(fields) == 0 {
		return 0, 0
	}
	for i := 1; i <= 12; i++ {
		if extract.MonthName(i) == fields[0] {
			month = i
			break
		}
	}
	if len(fields) > 1 {
		if y, err := strconv.Atoi(fields[len(fields)-1]); err == nil &&
			y >= constants.MinYear && y <= constants.MaxYear {
			year = y
		}
	}
	return month, year
}
