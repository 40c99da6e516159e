package extract

import (
	"strings"

	"github.com/mfuentesc/boletas-engine/internal/textutil"
)

// agreement scans the upper-cased text against the rule table, ranking
// matches by per-tag specificity weight. The institutional header is
// neutralized first so "Ilustre Municipalidad de ..." never triggers the
// generic municipal tag on its own. A small decree-code table is the final
// fallback; no match yields an empty value at low confidence, never the
// generic tag by default.
func (e *Extractor) agreement(text string) Result {
	upper := textutil.StripDiacritics(strings.ToUpper(text))
	upper = reInstitutionalHeader.ReplaceAllString(upper, " ")
	hasQualifier := reQualifier.MatchString(upper)

	bestWeight := 0
	bestTag := ""
	for _, rule := range agreementRules {
		if rule.RequiresQualifier && !hasQualifier {
			continue
		}
		for _, p := range rule.Patterns {
			if p.MatchString(upper) && rule.Weight > bestWeight {
				bestWeight = rule.Weight
				bestTag = string(rule.Tag)
				break
			}
		}
	}
	if bestTag != "" {
		return Result{Value: bestTag, Confidence: 0.90}
	}

	if d := e.decree(text); !d.Empty() {
		if tag, ok := decreeAgreements[d.Value]; ok {
			return Result{Value: string(tag), Confidence: 0.70}
		}
	}
	return Result{Confidence: 0.30}
}
