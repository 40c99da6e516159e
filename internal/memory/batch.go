// Package memory implements the cross-reference indices used to fill gaps
// in a record from other documents in the same batch (BatchMemory) and from
// previous runs (PersistentStore). Both expose the same lookup contract:
// exact normalized-key match first, then fuzzy and token-partial matches
// when strict is off.
package memory

import (
	"strings"

	"github.com/mfuentesc/boletas-engine/internal/entity"
	"github.com/mfuentesc/boletas-engine/internal/textutil"
)

// BatchMemory is the batch-scoped index: built incrementally as records are
// assembled, owned by one reconciliation run, discarded afterward. Not safe
// for concurrent mutation; the batch runner updates it from a single
// sequential pass after the parallel extraction phase.
type BatchMemory struct {
	nameByRUT   freqCounter
	rutByName   freqCounter // key: normalized name
	agrByRUT    freqCounter
	agrByDecree freqCounter
	wordIndex   map[string][]string // name word -> normalized names
}

func NewBatchMemory() *BatchMemory {
	return &BatchMemory{
		nameByRUT:   freqCounter{},
		rutByName:   freqCounter{},
		agrByRUT:    freqCounter{},
		agrByDecree: freqCounter{},
		wordIndex:   map[string][]string{},
	}
}

// Add ingests all of a record's known fields into the indices. Idempotent
// re-insertion is tolerated (it only strengthens the frequency counts).
func (b *BatchMemory) Add(r *entity.Record) {
	if r == nil || r.Error != "" {
		return
	}
	rut := r.RUT.Value
	name := r.Name.Value
	norm := textutil.NormalizeName(name)

	b.nameByRUT.add(rut, name)
	if norm != "" {
		if _, known := b.rutByName[norm]; !known {
			b.indexWords(norm)
		}
		b.rutByName.add(norm, rut)
	}
	b.agrByRUT.add(rut, r.Agreement.Value)
	b.agrByDecree.add(r.Decree.Value, r.Agreement.Value)
}

func (b *BatchMemory) indexWords(norm string) {
	for _, w := range strings.Fields(norm) {
		b.wordIndex[w] = append(b.wordIndex[w], norm)
	}
}

// NameByRUT returns the canonical (most frequent) name observed for rut.
func (b *BatchMemory) NameByRUT(rut string) (string, bool) {
	return b.nameByRUT.best(rut)
}

// RUTByName resolves a name to an identifier. With strict off it falls back
// to a fuzzy key match and then a token-level partial match.
func (b *BatchMemory) RUTByName(name string, strict bool) (string, bool) {
	norm := textutil.NormalizeName(name)
	if norm == "" {
		return "", false
	}
	if rut, ok := b.rutByName.best(norm); ok {
		return rut, true
	}
	if strict {
		return "", false
	}
	if k, ok := fuzzyKey(norm, b.rutByName); ok {
		return b.rutByName.best(k)
	}
	if k, ok := partialKey(norm, strings.Fields(norm), b.wordIndex); ok {
		return b.rutByName.best(k)
	}
	return "", false
}

// AgreementByRUT returns the canonical agreement observed for rut.
func (b *BatchMemory) AgreementByRUT(rut string) (string, bool) {
	return b.agrByRUT.best(rut)
}

// DecreeMajority returns the majority agreement for a decree along with the
// number of batch observations backing it.
func (b *BatchMemory) DecreeMajority(decree string) (string, int) {
	agr, ok := b.agrByDecree.best(decree)
	if !ok {
		return "", 0
	}
	return agr, b.agrByDecree.observations(decree)
}
