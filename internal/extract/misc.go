package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mfuentesc/boletas-engine/constants"

	"github.com/mfuentesc/boletas-engine/internal/textutil"
)

var reHours = regexp.MustCompile(`(?i)\b(\d{1,3})\s*(?:HRS?\.?|HORAS?)\b`)

// decree label variants, most explicit first; first match wins
var decreeRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bD\.?\s*A\.?\s*N?[°ºo]?\s*:?\s*(\d{1,6})\b`),
	regexp.MustCompile(`(?i)DECRETO\s+ALCALDICIO\s+N?[°ºo]?\s*:?\s*(\d{1,6})\b`),
	regexp.MustCompile(`(?i)\bDCTO\.?\s*N?[°ºo]?\s*:?\s*(\d{1,6})\b`),
}

var glosaKeywords = []string{
	"SERVICIO", "APOYO", "ASESOR", "MONITOR", "TALLER",
	"PRESTACION", "PROFESIONAL", "ATENCION", "MES DE",
}

var reGlosaNoise = regexp.MustCompile(`[^\pL\pN\s$.,/:°()-]`)

const glosaMaxLen = 300

// hours: first plausible 1-3 digit number adjacent to an hour unit.
func (e *Extractor) hours(text string) Result {
	for _, m := range reHours.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < constants.MinHours || n > constants.MaxHours {
			continue
		}
		return Result{Value: strconv.Itoa(n), Confidence: 0.85}
	}
	return Result{}
}

// decree: ordered list of label variants, first match wins.
func (e *Extractor) decree(text string) Result {
	for _, re := range decreeRes {
		if m := re.FindStringSubmatch(text); m != nil {
			return Result{Value: m[1], Confidence: 0.90}
		}
	}
	return Result{}
}

// paymentType: presence of a weekly/monthly token, defaulting to weekly.
func (e *Extractor) paymentType(text string) Result {
	upper := strings.ToUpper(text)
	if strings.Contains(upper, constants.PaymentMonthly) {
		return Result{Value: constants.PaymentMonthly, Confidence: 0.80}
	}
	if strings.Contains(upper, constants.PaymentWeekly) {
		return Result{Value: constants.PaymentWeekly, Confidence: 0.80}
	}
	return Result{Value: constants.PaymentWeekly, Confidence: 0.40}
}

// glosa: lines matching the topical keyword set, concatenated and
// truncated, with light symbol cleanup.
func (e *Extractor) glosa(text string) Result {
	var picked []string
	for _, line := range textutil.Lines(text) {
		upper := textutil.StripDiacritics(strings.ToUpper(line))
		if containsAny(upper, glosaKeywords) {
			picked = append(picked, strings.TrimSpace(reGlosaNoise.ReplaceAllString(line, "")))
		}
	}
	if len(picked) == 0 {
		return Result{}
	}
	joined := strings.Join(picked, " / ")
	if rs := []rune(joined); len(rs) > glosaMaxLen {
		joined = string(rs[:glosaMaxLen])
	}
	return Result{Value: joined, Confidence: 0.70}
}
