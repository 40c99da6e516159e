package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mfuentesc/boletas-engine/constants"

	"github.com/mfuentesc/boletas-engine/internal/textutil"
)

var (
	reDateLong    = regexp.MustCompile(`(?i)\b(\d{1,2})\s+DE\s+([A-Za-zÁÉÍÓÚáéíóú0158]+)\s+DE(?:L)?\s+(\d{2,4})\b`)
	reDateNumeric = regexp.MustCompile(`\b(\d{1,2})[/.\-](\d{1,2})[/.\-](\d{2,4})\b`)
)

const (
	dateScanLines     = 25
	dateFallbackLines = 15
)

// scores per detection phase; confidence is a step function of the winner
const (
	dateScoreLabeled  = 100
	dateScoreIssued   = 50
	dateScoreFallback = 10
)

var dateNoiseTokens = []string{"VERIFIQUE", "TIMBRE", "WWW", "HTTP", "SII.CL", "CODIGO DE BARRAS"}

type dateCandidate struct {
	t     time.Time
	score int
}

// IssueDate scans the top of the document for the issuance date.
// Phase 1: a bare FECHA label (excluding printed/issued qualifiers).
// Phase 2: an issuance-qualified label. Phase 3: any day-month-year pattern
// in the first lines, excluding verification/stamp/URL noise. Ties within
// the winning phase break toward the most recent valid date.
func (e *Extractor) IssueDate(text string) Result {
	lines := textutil.Lines(text)
	if len(lines) > dateScanLines {
		lines = lines[:dateScanLines]
	}

	var best dateCandidate
	consider := func(t time.Time, score int) {
		if score > best.score || (score == best.score && t.After(best.t)) {
			best = dateCandidate{t: t, score: score}
		}
	}

	for i, line := range lines {
		upper := textutil.StripDiacritics(strings.ToUpper(line))
		switch {
		case strings.Contains(upper, "FECHA") &&
			!strings.Contains(upper, "IMPRES") && !strings.Contains(upper, "EMISION"):
			for _, t := range parseDates(line) {
				consider(t, dateScoreLabeled)
			}
		case strings.Contains(upper, "EMISION"):
			for _, t := range parseDates(line) {
				consider(t, dateScoreIssued)
			}
		case i < dateFallbackLines && !containsAny(upper, dateNoiseTokens):
			for _, t := range parseDates(line) {
				consider(t, dateScoreFallback)
			}
		}
	}

	if best.score == 0 {
		return Result{}
	}
	conf := 0.75
	switch best.score {
	case dateScoreLabeled:
		conf = 0.98
	case dateScoreIssued:
		conf = 0.90
	}
	return Result{Value: best.t.Format("2006-01-02"), Confidence: conf}
}

// parseDates tries both grammars: long form "12 de marzo de 2024" and
// numeric D/M/Y, validating day, month and year band. Two-digit years are
// normalized by adding 2000.
func parseDates(line string) []time.Time {
	var out []time.Time
	for _, m := range reDateLong.FindAllStringSubmatch(line, -1) {
		day, _ := strconv.Atoi(m[1])
		month := monthFromToken(m[2])
		year := normalizeYear(m[3])
		if t, ok := validDate(day, month, year); ok {
			out = append(out, t)
		}
	}
	for _, m := range reDateNumeric.FindAllStringSubmatch(line, -1) {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year := normalizeYear(m[3])
		if t, ok := validDate(day, month, year); ok {
			out = append(out, t)
		}
	}
	return out
}

func normalizeYear(s string) int {
	y, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	if len(s) == 2 {
		y += 2000
	}
	return y
}

func validDate(day, month, year int) (time.Time, bool) {
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return time.Time{}, false
	}
	if year < constants.MinYear || year > constants.MaxYear {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// reject normalized overflow like Feb 30
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

func containsAny(s string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(s, tok) {
			return true
		}
	}
	return false
}
