package extract

import (
	"regexp"
	"strconv"
	"time"

	"github.com/mfuentesc/boletas-engine/constants"

	"github.com/mfuentesc/boletas-engine/internal/textutil"
)

// Period is a detected service period. Year 0 is the explicit placeholder
// when the month is known but no year can be established.
type Period struct {
	Month int
	Year  int
	Raw   string
}

// month token first (OCR-tolerant resolution happens in monthFromToken),
// then an optional "de"/"del" and a 2-4 digit year
var rePeriodToken = regexp.MustCompile(`(?i)\b([A-Za-zÁÉÍÓÚáéíóú0158]{4,10})\b(?:\s+DE(?:L)?)?\s*(\d{2,4})?`)

// ServicePeriod detects the month the service was rendered, as distinct
// from the issuance date. Lines carrying a complete day-month-year date are
// skipped: a month inside such a date is the issuance date, never the
// service period. With no explicit year token the year is inferred from the
// document date: a detected month numerically greater than the document
// month means the prior year (service precedes or matches the pay month).
// With no document date the month is kept with the placeholder year; a year
// is never fabricated.
func (e *Extractor) ServicePeriod(text string, docDate time.Time) (Period, float64) {
	var p Period
scan:
	for _, line := range textutil.Lines(text) {
		if len(parseDates(line)) > 0 {
			continue
		}
		for _, m := range rePeriodToken.FindAllStringSubmatch(line, -1) {
			month := monthFromToken(m[1])
			if month == 0 {
				continue
			}
			p = Period{Month: month, Raw: m[0]}
			if m[2] != "" {
				if y := normalizeYear(m[2]); y >= constants.MinYear && y <= constants.MaxYear {
					p.Year = y
				}
			}
			break scan
		}
	}
	if p.Month == 0 {
		return Period{}, 0
	}

	conf := 0.80
	if p.Year == 0 {
		conf = 0.70
		if !docDate.IsZero() {
			if p.Month > int(docDate.Month()) {
				p.Year = docDate.Year() - 1
			} else {
				p.Year = docDate.Year()
			}
		}
	}
	return p, conf
}

// PeriodFromDocDate derives the fallback period when no explicit token
// exists: the document month minus one.
func PeriodFromDocDate(docDate time.Time) Period {
	if docDate.IsZero() {
		return Period{}
	}
	// clamp to the first of the month so end-of-month overflow cannot
	// skew the subtraction
	prev := time.Date(docDate.Year(), docDate.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return Period{Month: int(prev.Month()), Year: prev.Year()}
}

// String renders the canonical period token, e.g. "DICIEMBRE 2023".
func (p Period) String() string {
	if p.Month == 0 {
		return ""
	}
	if p.Year == 0 {
		return MonthName(p.Month)
	}
	return MonthName(p.Month) + " " + strconv.Itoa(p.Year)
}
