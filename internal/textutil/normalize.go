package textutil

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reTabs       = regexp.MustCompile(`\t+`)
	reMultiSpace = regexp.MustCompile(` {2,}`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)
)

var reBoxNoise = regexp.MustCompile(`(?m)^\s*[_\-=]{3,}\s*$`)

// Normalize collapses noisy whitespace in OCR output. Conservative: keeps
// line breaks; collapses >2 newlines into a single blank line.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = reCRLF.ReplaceAllString(s, "\n")
	s = reTabs.ReplaceAllString(s, " ")
	s = reMultiSpace.ReplaceAllString(s, " ")
	s = reBoxNoise.ReplaceAllString(s, "")
	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// StripDiacritics removes combining marks: "Pérez" -> "Perez", "Ñuñoa" -> "Nunoa".
func StripDiacritics(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeName produces the canonical index key for a person name:
// case-fold, strip diacritics, drop non-letters, collapse whitespace.
// Idempotent: NormalizeName(NormalizeName(x)) == NormalizeName(x).
func NormalizeName(s string) string {
	s = StripDiacritics(strings.ToLower(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || r == ' ' {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Lines splits normalized text into lines.
func Lines(s string) []string {
	return strings.Split(s, "\n")
}

// foldASCII uppercases and strips diacritics into a one-byte-per-rune
// shadow of s, so byte indexes into the fold map back to rune starts in s.
// offs[i] is the byte offset in s of the rune behind fold byte i, with a
// final sentinel at len(s). Runes with no single-letter ASCII fold become
// 0x1A, which never matches an anchor.
func foldASCII(s string) (string, []int) {
	var b strings.Builder
	offs := make([]int, 0, len(s)+1)
	for i, r := range s {
		offs = append(offs, i)
		r = unicode.ToUpper(r)
		if r < utf8.RuneSelf {
			b.WriteByte(byte(r))
			continue
		}
		if d := StripDiacritics(string(r)); len(d) == 1 && d[0] >= 'A' && d[0] <= 'Z' {
			b.WriteByte(d[0])
		} else {
			b.WriteByte(0x1A)
		}
	}
	offs = append(offs, len(s))
	return b.String(), offs
}

// CropZone returns the text between the first start anchor and the first
// trailer anchor that follows it. Missing anchors leave the respective
// boundary open. Anchors must be uppercase ASCII; the haystack is matched
// case- and diacritic-insensitively, so "TIMBRE ELECTRÓNICO" in the text
// still hits the anchor "TIMBRE ELECTRONICO".
func CropZone(text string, startAnchors, endAnchors []string) string {
	fold, offs := foldASCII(text)
	begin := 0
	for _, a := range startAnchors {
		if i := strings.Index(fold, a); i >= 0 {
			begin = i + len(a)
			break
		}
	}
	end := len(fold)
	for _, a := range endAnchors {
		if i := strings.Index(fold[begin:], a); i >= 0 && begin+i < end {
			end = begin + i
		}
	}
	return text[offs[begin]:offs[end]]
}
