package memory

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mfuentesc/boletas-engine/internal/entity"
	"github.com/mfuentesc/boletas-engine/internal/textutil"
)

// patternOverwriteSupport is the observation count below which a
// disagreeing payment pattern may be overwritten instead of kept.
const patternOverwriteSupport = 5

// UsageStats tracks how often an identifier has been seen across runs.
type UsageStats struct {
	Seen     int    `json:"seen"`
	LastSeen string `json:"last_seen"`
}

// PaymentPattern is the learned (identifier, decree) -> last known payment.
type PaymentPattern struct {
	Amount   string `json:"amount"`
	Hours    string `json:"hours"`
	Count    int    `json:"count"`
	LastSeen string `json:"last_seen"`
}

// storeData is the persisted layout: five top-level maps. Absence of the
// file is a valid empty-store state.
type storeData struct {
	NameByRUT     map[string]string         `json:"rut_to_name"`
	RUTByName     map[string]string         `json:"name_to_rut"`
	AgreementFreq map[string]map[string]int `json:"rut_agreements"`
	Usage         map[string]UsageStats     `json:"rut_usage"`
	Payments      map[string]PaymentPattern `json:"rut_decree_payments"`
}

func emptyStoreData() storeData {
	return storeData{
		NameByRUT:     map[string]string{},
		RUTByName:     map[string]string{},
		AgreementFreq: map[string]map[string]int{},
		Usage:         map[string]UsageStats{},
		Payments:      map[string]PaymentPattern{},
	}
}

// PersistentStore is the durable cross-run cross-reference store. All
// mutations are serialized behind a mutex and saved immediately; writers
// must not be spread across goroutines during the parallel phase.
type PersistentStore struct {
	mu        sync.Mutex
	path      string
	logger    *slog.Logger
	data      storeData
	wordIndex map[string][]string
}

// NewPersistentStore loads the store at path. A missing or corrupt file
// falls back to empty indices and is never an error.
func NewPersistentStore(path string, logger *slog.Logger) *PersistentStore {
	if logger == nil {
		logger = slog.Default()
	}
	s := &PersistentStore{path: path, logger: logger, data: emptyStoreData(), wordIndex: map[string][]string{}}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("store.load.failed", "path", path, "error", err)
		}
		return s
	}
	var data storeData
	if err := json.Unmarshal(raw, &data); err != nil {
		logger.Warn("store.load.corrupt", "path", path, "error", err)
		return s
	}
	if data.NameByRUT == nil {
		data.NameByRUT = map[string]string{}
	}
	if data.RUTByName == nil {
		data.RUTByName = map[string]string{}
	}
	if data.AgreementFreq == nil {
		data.AgreementFreq = map[string]map[string]int{}
	}
	if data.Usage == nil {
		data.Usage = map[string]UsageStats{}
	}
	if data.Payments == nil {
		data.Payments = map[string]PaymentPattern{}
	}
	s.data = data
	for norm := range s.data.RUTByName {
		s.indexWords(norm)
	}
	logger.Info("store.loaded", "path", path, "identifiers", len(s.data.NameByRUT), "patterns", len(s.data.Payments))
	return s
}

func (s *PersistentStore) indexWords(norm string) {
	for _, w := range strings.Fields(norm) {
		s.wordIndex[w] = append(s.wordIndex[w], norm)
	}
}

// Learn ingests a record's identity fields and bumps usage stats. Intended
// for records that passed review so the store is not poisoned.
func (s *PersistentStore) Learn(r *entity.Record) {
	if r == nil || r.Error != "" || r.RUT.Empty() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rut := r.RUT.Value
	if name := r.Name.Value; name != "" {
		norm := textutil.NormalizeName(name)
		s.data.NameByRUT[rut] = name
		if _, known := s.data.RUTByName[norm]; !known {
			s.indexWords(norm)
		}
		s.data.RUTByName[norm] = rut
	}
	if agr := r.Agreement.Value; agr != "" {
		if s.data.AgreementFreq[rut] == nil {
			s.data.AgreementFreq[rut] = map[string]int{}
		}
		s.data.AgreementFreq[rut][agr]++
	}
	u := s.data.Usage[rut]
	u.Seen++
	u.LastSeen = time.Now().UTC().Format("2006-01-02")
	s.data.Usage[rut] = u

	s.save()
}

// LearnPaymentPattern records the last known (amount, hours) for an
// identifier+decree pair: a matching pattern gets its count incremented; a
// disagreeing one is overwritten only while its support is low.
func (s *PersistentStore) LearnPaymentPattern(rut, decree, amount, hours string) {
	if rut == "" || decree == "" || amount == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := paymentKey(rut, decree)
	now := time.Now().UTC().Format("2006-01-02")
	p, ok := s.data.Payments[key]
	switch {
	case ok && p.Amount == amount:
		p.Count++
		p.Hours = hours
		p.LastSeen = now
		s.data.Payments[key] = p
	case ok && p.Count >= patternOverwriteSupport:
		// entrenched pattern disagrees: keep it
	default:
		s.data.Payments[key] = PaymentPattern{Amount: amount, Hours: hours, Count: 1, LastSeen: now}
	}
	s.save()
}

// PaymentFor returns the learned pattern for an identifier+decree pair.
func (s *PersistentStore) PaymentFor(rut, decree string) (PaymentPattern, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.data.Payments[paymentKey(rut, decree)]
	return p, ok
}

// NameByRUT returns the stored name for rut.
func (s *PersistentStore) NameByRUT(rut string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.data.NameByRUT[rut]
	return name, ok && name != ""
}

// RUTByName resolves a name with the shared lookup contract.
func (s *PersistentStore) RUTByName(name string, strict bool) (string, bool) {
	norm := textutil.NormalizeName(name)
	if norm == "" {
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if rut, ok := s.data.RUTByName[norm]; ok {
		return rut, true
	}
	if strict {
		return "", false
	}
	if k, ok := fuzzyKey(norm, s.data.RUTByName); ok {
		return s.data.RUTByName[k], true
	}
	if k, ok := partialKey(norm, strings.Fields(norm), s.wordIndex); ok {
		return s.data.RUTByName[k], true
	}
	return "", false
}

// AgreementByRUT returns the most frequent agreement learned for rut.
func (s *PersistentStore) AgreementByRUT(rut string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return freqCounter(s.data.AgreementFreq).best(rut)
}

// save rewrites the whole file; callers hold the mutex. Write errors are
// logged, never propagated: losing a learning event must not fail a batch.
func (s *PersistentStore) save() {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		s.logger.Error("store.save.marshal", "error", err)
		return
	}
	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		s.logger.Error("store.save.mkdir", "path", s.path, "error", err)
		return
	}
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		s.logger.Error("store.save.write", "path", tmp, "error", err)
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		s.logger.Error("store.save.rename", "path", s.path, "error", err)
	}
}

func paymentKey(rut, decree string) string {
	return rut + "|" + decree
}
