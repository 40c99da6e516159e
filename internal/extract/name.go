package extract

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mfuentesc/boletas-engine/internal/textutil"
)

var titleCaser = cases.Title(language.Spanish)

var reNameLabel = regexp.MustCompile(`(?i)\b(?:NOMBRE|SE[ÑN]OR(?:ES)?|RAZ[OÓ]N\s+SOCIAL|EMPRESA)\s*:?\s*(.*)`)

// zone anchors: party identity lives between the document-type header and
// the issuance footer
var (
	nameZoneStart = []string{"BOLETA DE HONORARIOS", "BOLETA DE PRESTACION", "BOLETA"}
	nameZoneEnd   = []string{"VERIFIQUE", "TIMBRE ELECTRONICO", "S.I.I.", "SII.CL", "RES. EX", "RESOLUCION EXENTA"}
)

// institutional/document vocabulary that disqualifies a name candidate
var nameStopWords = map[string]struct{}{
	"BOLETA": {}, "HONORARIOS": {}, "ELECTRONICA": {}, "MUNICIPALIDAD": {},
	"ILUSTRE": {}, "FACTURA": {}, "SERVICIOS": {}, "SII": {}, "VERIFIQUE": {},
	"FECHA": {}, "EMISION": {}, "TOTAL": {}, "MONTO": {}, "RUT": {}, "FOLIO": {},
	"GIRO": {}, "DIRECCION": {}, "DOCUMENTO": {}, "TIMBRE": {}, "DECRETO": {},
}

// nameFromText looks for the party name inside the cropped document zone:
// a label-anchored candidate on the same or next two lines, else the
// line(s) immediately preceding the identifier token.
func (e *Extractor) nameFromText(text string) Result {
	zone := textutil.CropZone(text, nameZoneStart, nameZoneEnd)
	lines := textutil.Lines(zone)

	for i, line := range lines {
		m := reNameLabel.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if cand := strings.TrimSpace(m[1]); validNameShape(cand) {
			return Result{Value: cleanName(cand), Confidence: 0.90}
		}
		for j := i + 1; j < len(lines) && j <= i+2; j++ {
			if cand := strings.TrimSpace(lines[j]); validNameShape(cand) {
				return Result{Value: cleanName(cand), Confidence: 0.90}
			}
		}
	}

	if ri := rutLineIndex(lines); ri > 0 {
		for j := ri - 1; j >= 0 && j >= ri-2; j-- {
			if cand := strings.TrimSpace(lines[j]); validNameShape(cand) {
				return Result{Value: cleanName(cand), Confidence: 0.80}
			}
		}
	}
	return Result{}
}

// Name runs the in-text strategies and falls back to tokens parsed out of
// the source file name, at the lowest confidence tier.
func (e *Extractor) Name(text, sourcePath string) Result {
	if r := e.nameFromText(text); !r.Empty() {
		return r
	}
	return nameFromFilename(sourcePath)
}

func nameFromFilename(path string) Result {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	parts := strings.FieldsFunc(base, func(r rune) bool {
		return r == '-' || r == '_' || r == '.' || r == ' '
	})
	var words []string
	for _, p := range parts {
		if p == "" || strings.IndexFunc(p, unicode.IsDigit) >= 0 {
			continue
		}
		words = append(words, titleCaser.String(strings.ToLower(p)))
	}
	cand := strings.Join(words, " ")
	if !validNameShape(cand) {
		return Result{}
	}
	conf := 0.50
	if len(words) >= 3 {
		conf = 0.60
	}
	return Result{Value: cand, Confidence: conf}
}

// validNameShape rejects candidates that are too short or long, carry more
// than two digits, contain institutional vocabulary, or have fewer than two
// alphabetic tokens.
func validNameShape(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) < 7 || len(s) > 60 {
		return false
	}
	digits := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if digits > 2 {
		return false
	}
	alphaTokens := 0
	for _, tok := range strings.Fields(textutil.StripDiacritics(strings.ToUpper(s))) {
		tok = strings.Trim(tok, ".,;:")
		if _, stop := nameStopWords[tok]; stop {
			return false
		}
		if len(tok) > 1 && strings.IndexFunc(tok, unicode.IsLetter) >= 0 {
			alphaTokens++
		}
	}
	return alphaTokens >= 2
}

func cleanName(s string) string {
	s = strings.Trim(s, " .,:;-")
	return strings.Join(strings.Fields(s), " ")
}
