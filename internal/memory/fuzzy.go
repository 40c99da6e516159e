package memory

import (
	"sort"

	"github.com/agext/levenshtein"
)

// lookup cutoffs shared by both memories
const (
	fuzzyCutoff   = 0.85 // whole-key similarity
	partialCutoff = 0.70 // token-level partial match, whole-string similarity
)

// freqCounter maps a key to observed values with frequency counts; values
// are added, never removed, and the most frequent one is canonical.
type freqCounter map[string]map[string]int

func (m freqCounter) add(key, val string) {
	if key == "" || val == "" {
		return
	}
	vals, ok := m[key]
	if !ok {
		vals = make(map[string]int)
		m[key] = vals
	}
	vals[val]++
}

// best returns the most frequent value for key; frequency ties break
// lexically so lookups are deterministic.
func (m freqCounter) best(key string) (string, bool) {
	vals, ok := m[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	type entry struct {
		val   string
		count int
	}
	entries := make([]entry, 0, len(vals))
	for v, c := range vals {
		entries = append(entries, entry{v, c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].val < entries[j].val
	})
	return entries[0].val, true
}

func (m freqCounter) observations(key string) int {
	total := 0
	for _, c := range m[key] {
		total += c
	}
	return total
}

// fuzzyKey finds the stored key most similar to key at or above the fuzzy
// cutoff.
func fuzzyKey[V any](key string, keys map[string]V) (string, bool) {
	bestSim := 0.0
	bestKey := ""
	for k := range keys {
		if sim := levenshtein.Similarity(key, k, nil); sim >= fuzzyCutoff && sim > bestSim {
			bestSim = sim
			bestKey = k
		}
	}
	return bestKey, bestKey != ""
}

// partialKey splits key into words, collects candidate keys through the
// word index, and accepts the best whole-string similarity above the
// partial cutoff.
func partialKey(key string, words []string, wordIndex map[string][]string) (string, bool) {
	seen := map[string]struct{}{}
	bestSim := 0.0
	bestKey := ""
	for _, w := range words {
		for _, cand := range wordIndex[w] {
			if _, dup := seen[cand]; dup {
				continue
			}
			seen[cand] = struct{}{}
			if sim := levenshtein.Similarity(key, cand, nil); sim > partialCutoff && sim > bestSim {
				bestSim = sim
				bestKey = cand
			}
		}
	}
	return bestKey, bestKey != ""
}
