package extract

import (
	"regexp"
	"strconv"

	"github.com/mfuentesc/boletas-engine/constants"

	"github.com/mfuentesc/boletas-engine/internal/textutil"
)

var (
	reFolioLabeled  = regexp.MustCompile(`(?i)(?:\bFOLIO\b|\bBOLETA\b|N[°ºo]\.?)\s*:?\s*(\d{3,7})\b`)
	reFolioFallback = regexp.MustCompile(`\b(\d{4,7})\b`)
)

const folioScanLines = 15

// folio extracts the document number: label-anchored 3-7 digit token
// preferred, else the first plausible 4-7 digit number near the top of the
// document. Year-like values are rejected in the unlabeled fallback.
func (e *Extractor) folio(text string) Result {
	if m := reFolioLabeled.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && plausibleFolio(n) {
			return Result{Value: m[1], Confidence: 0.90}
		}
	}
	lines := textutil.Lines(text)
	if len(lines) > folioScanLines {
		lines = lines[:folioScanLines]
	}
	for _, line := range lines {
		for _, m := range reFolioFallback.FindAllStringSubmatch(line, -1) {
			n, err := strconv.Atoi(m[1])
			if err != nil || !plausibleFolio(n) {
				continue
			}
			// a bare number in the plausible-year band is almost
			// certainly a date fragment, not a folio
			if n >= 1900 && n <= 2100 {
				continue
			}
			return Result{Value: m[1], Confidence: 0.60}
		}
	}
	return Result{}
}

func plausibleFolio(n int) bool {
	return n >= constants.MinFolio && n <= constants.MaxFolio
}
