package extract

import (
	"regexp"
	"strings"
)

var (
	reRUTLabeled = regexp.MustCompile(`(?i)R\.?\s*U\.?\s*T\.?\s*:?\s*((?:\d{1,2}\.\d{3}\.\d{3})|\d{7,8})\s*-\s*([0-9Kk])`)
	reRUTAny     = regexp.MustCompile(`((?:\d{1,2}\.\d{3}\.\d{3})|\d{7,8})\s*-\s*([0-9Kk])`)
)

// CheckDigit computes the modulo-11 verification character for a RUT body:
// digits are traversed right to left with multipliers 2..7 cycling; the
// remainder maps to '0', a digit, or 'K'.
func CheckDigit(body string) byte {
	sum := 0
	mult := 2
	for i := len(body) - 1; i >= 0; i-- {
		c := body[i]
		if c < '0' || c > '9' {
			return 0
		}
		sum += int(c-'0') * mult
		mult++
		if mult > 7 {
			mult = 2
		}
	}
	switch rem := 11 - sum%11; rem {
	case 11:
		return '0'
	case 10:
		return 'K'
	default:
		return byte('0' + rem)
	}
}

// ValidRUT reports whether check is the correct verification character for
// body (digits only, dots stripped).
func ValidRUT(body, check string) bool {
	if body == "" || len(check) != 1 {
		return false
	}
	want := CheckDigit(body)
	return want != 0 && strings.ToUpper(check)[0] == want
}

// FormatRUT renders the canonical value: bare digits, dash, uppercase check.
func FormatRUT(body, check string) string {
	return body + "-" + strings.ToUpper(check)
}

// rut finds a tax identifier. Two confidence tiers: next to an explicit
// label 0.95, anywhere in text 0.85. Tokens failing the check digit are
// discarded outright.
func (e *Extractor) rut(text string) Result {
	if m := reRUTLabeled.FindStringSubmatch(text); m != nil {
		body := strings.ReplaceAll(m[1], ".", "")
		if ValidRUT(body, m[2]) {
			return Result{Value: FormatRUT(body, m[2]), Confidence: 0.95}
		}
	}
	for _, m := range reRUTAny.FindAllStringSubmatch(text, -1) {
		body := strings.ReplaceAll(m[1], ".", "")
		if ValidRUT(body, m[2]) {
			return Result{Value: FormatRUT(body, m[2]), Confidence: 0.85}
		}
	}
	return Result{}
}

// rutLineIndex returns the index of the first line containing a RUT-shaped
// token, or -1. Used by the name extractor to look at preceding lines.
func rutLineIndex(lines []string) int {
	for i, line := range lines {
		if reRUTAny.MatchString(line) {
			return i
		}
	}
	return -1
}
