package extract

import (
	"strings"

	"github.com/agext/levenshtein"

	"github.com/mfuentesc/boletas-engine/internal/textutil"
)

var monthNames = map[string]int{
	"ENERO":      1,
	"FEBRERO":    2,
	"MARZO":      3,
	"ABRIL":      4,
	"MAYO":       5,
	"JUNIO":      6,
	"JULIO":      7,
	"AGOSTO":     8,
	"SEPTIEMBRE": 9,
	"SETIEMBRE":  9, // common regional spelling
	"OCTUBRE":    10,
	"NOVIEMBRE":  11,
	"DICIEMBRE":  12,
}

// MonthName returns the canonical Spanish name for month 1..12.
func MonthName(m int) string {
	names := [...]string{"", "ENERO", "FEBRERO", "MARZO", "ABRIL", "MAYO", "JUNIO",
		"JULIO", "AGOSTO", "SEPTIEMBRE", "OCTUBRE", "NOVIEMBRE", "DICIEMBRE"}
	if m < 1 || m > 12 {
		return ""
	}
	return names[m]
}

// ocr confusions seen in scanned month names: digit standing in for a letter
var ocrConfusions = strings.NewReplacer("0", "O", "1", "I", "5", "S", "8", "B")

// monthFromToken resolves a token to a month number, tolerating OCR
// letter/digit confusion ("AG0STO") and a single-character error.
func monthFromToken(tok string) int {
	tok = textutil.StripDiacritics(strings.ToUpper(strings.Trim(tok, ".,;:")))
	tok = ocrConfusions.Replace(tok)
	if m, ok := monthNames[tok]; ok {
		return m
	}
	// fuzzy match only for longer tokens; short month names are too close
	// to ordinary words (MARIO/MARZO) to tolerate edit distance
	if len(tok) < 6 {
		return 0
	}
	for name, m := range monthNames {
		if levenshtein.Distance(tok, name, nil) <= 1 {
			return m
		}
	}
	return 0
}
