package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mfuentesc/boletas-engine/constants"

	"github.com/mfuentesc/boletas-engine/internal/textutil"
)

var (
	reTotalFee    = regexp.MustCompile(`(?i)TOTAL\s+HONORARIOS?\s*:?\s*\$?\s*([\d.,]+)`)
	reAmountLabel = regexp.MustCompile(`(?i)\b(?:MONTO|TOTAL|L[IÍ]QUIDO|HONORARIOS?)\b`)
	reMoneyToken  = regexp.MustCompile(`\$\s*(\d{1,3}(?:\.\d{3})+|\d+)|\b(\d{1,3}(?:\.\d{3})+)\b`)
)

// amount extracts the fee total. Priority: labeled total-fee cell, then a
// monetary token on the same or next line as an amount label, then any
// currency-marked or thousands-grouped token anywhere. Only range-plausible
// values are accepted; nothing is ever calculated here.
func (e *Extractor) amount(text string) Result {
	if m := reTotalFee.FindStringSubmatch(text); m != nil {
		if v, ok := normalizeAmount(m[1]); ok {
			return Result{Value: v, Confidence: 0.97}
		}
	}

	lines := textutil.Lines(text)
	for i, line := range lines {
		if !reAmountLabel.MatchString(line) {
			continue
		}
		if v, ok := largestMoney(line); ok {
			return Result{Value: v, Confidence: 0.95}
		}
		if i+1 < len(lines) {
			if v, ok := largestMoney(lines[i+1]); ok {
				return Result{Value: v, Confidence: 0.95}
			}
		}
	}

	if v, ok := largestMoney(text); ok {
		return Result{Value: v, Confidence: 0.75}
	}
	return Result{}
}

// largestMoney picks the largest plausible monetary token in s; totals
// dominate their components on a fee receipt.
func largestMoney(s string) (string, bool) {
	best := 0
	for _, m := range reMoneyToken.FindAllStringSubmatch(s, -1) {
		tok := m[1]
		if tok == "" {
			tok = m[2]
		}
		v, ok := normalizeAmount(tok)
		if !ok {
			continue
		}
		if n, _ := strconv.Atoi(v); n > best {
			best = n
		}
	}
	if best == 0 {
		return "", false
	}
	return strconv.Itoa(best), true
}

// normalizeAmount strips thousands separators (Chilean "1.234.567"),
// drops a decimal tail, and enforces the plausibility band.
func normalizeAmount(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = s[:i]
	}
	s = strings.ReplaceAll(s, ".", "")
	n, err := strconv.Atoi(s)
	if err != nil || !PlausibleAmount(n) {
		return "", false
	}
	return strconv.Itoa(n), true
}

// PlausibleAmount reports whether n is inside the accepted CLP band.
func PlausibleAmount(n int) bool {
	return n >= constants.MinAmountCLP && n <= constants.MaxAmountCLP
}
