// Package extract holds the stateless field extractors: pure functions from
// raw OCR text to (value, confidence) pairs. Absence is ("", 0); extractors
// never return an error and never fabricate values that fail a domain check.
package extract

import (
	"fmt"

	"github.com/mfuentesc/boletas-engine/constants"
)

// Result is one extracted value with its confidence.
type Result struct {
	Value      string
	Confidence float64
}

func (r Result) Empty() bool { return r.Value == "" }

// Extractor bundles the per-field extraction functions. It carries no
// mutable state, so each worker constructs its own instance cheaply.
type Extractor struct{}

type extractFunc func(e *Extractor, text string) Result

// fieldFuncs is the tag-indexed extractor table. Fields needing extra
// context (issue date, service period) have dedicated methods.
var fieldFuncs = map[constants.FieldTag]extractFunc{
	constants.FieldRUT:         (*Extractor).rut,
	constants.FieldFolio:       (*Extractor).folio,
	constants.FieldAmount:      (*Extractor).amount,
	constants.FieldName:        (*Extractor).nameFromText,
	constants.FieldAgreement:   (*Extractor).agreement,
	constants.FieldHours:       (*Extractor).hours,
	constants.FieldDecree:      (*Extractor).decree,
	constants.FieldPaymentType: (*Extractor).paymentType,
	constants.FieldGlosa:       (*Extractor).glosa,
}

// NewExtractor returns a ready extractor, verifying the dispatch table
// covers exactly the table-served field tags.
func NewExtractor() *Extractor {
	if len(fieldFuncs) != len(constants.TableFields) {
		panic(fmt.Sprintf("extractor table has %d entries, want %d", len(fieldFuncs), len(constants.TableFields)))
	}
	for _, tag := range constants.TableFields {
		if _, ok := fieldFuncs[tag]; !ok {
			panic(fmt.Sprintf("extractor table missing field %q", tag))
		}
	}
	return &Extractor{}
}

// Extract runs the table extractor for tag over text. Unknown or
// context-dependent tags yield an empty result.
func (e *Extractor) Extract(tag constants.FieldTag, text string) Result {
	fn, ok := fieldFuncs[tag]
	if !ok {
		return Result{}
	}
	return fn(e, text)
}
