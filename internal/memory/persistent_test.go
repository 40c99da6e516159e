package memory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "store.json")
}

func TestPersistentStoreRoundTrip(t *testing.T) {
	path := storePath(t)

	s := NewPersistentStore(path, nil)
	s.Learn(rec("12345678-5", "Ana Pérez Soto", "PRODESAL", "1250"))
	s.LearnPaymentPattern("12345678-5", "1250", "450000", "45")

	reloaded := NewPersistentStore(path, nil)

	name, ok := reloaded.NameByRUT("12345678-5")
	assert.True(t, ok)
	assert.Equal(t, "Ana Pérez Soto", name)

	rut, ok := reloaded.RUTByName("ana perez soto", true)
	assert.True(t, ok)
	assert.Equal(t, "12345678-5", rut)

	agr, ok := reloaded.AgreementByRUT("12345678-5")
	assert.True(t, ok)
	assert.Equal(t, "PRODESAL", agr)

	p, ok := reloaded.PaymentFor("12345678-5", "1250")
	require.True(t, ok)
	assert.Equal(t, "450000", p.Amount)
	assert.Equal(t, "45", p.Hours)
	assert.Equal(t, 1, p.Count)
}

func TestPersistentStoreMissingFile(t *testing.T) {
	s := NewPersistentStore(filepath.Join(t.TempDir(), "absent", "store.json"), nil)
	_, ok := s.NameByRUT("12345678-5")
	assert.False(t, ok)
}

func TestPersistentStoreCorruptFile(t *testing.T) {
	path := storePath(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := NewPersistentStore(path, nil)
	_, ok := s.NameByRUT("12345678-5")
	assert.False(t, ok)

	// a corrupt store must still accept new learning
	s.Learn(rec("12345678-5", "Ana Pérez Soto", "", ""))
	name, ok := s.NameByRUT("12345678-5")
	assert.True(t, ok)
	assert.Equal(t, "Ana Pérez Soto", name)
}

func TestLearnPaymentPattern(t *testing.T) {
	t.Run("matching amount increments support", func(t *testing.T) {
		s := NewPersistentStore(storePath(t), nil)
		s.LearnPaymentPattern("12345678-5", "1250", "450000", "45")
		s.LearnPaymentPattern("12345678-5", "1250", "450000", "44")

		p, ok := s.PaymentFor("12345678-5", "1250")
		require.True(t, ok)
		assert.Equal(t, 2, p.Count)
		assert.Equal(t, "44", p.Hours)
	})

	t.Run("low support pattern is overwritten on disagreement", func(t *testing.T) {
		s := NewPersistentStore(storePath(t), nil)
		s.LearnPaymentPattern("12345678-5", "1250", "450000", "45")
		s.LearnPaymentPattern("12345678-5", "1250", "500000", "50")

		p, ok := s.PaymentFor("12345678-5", "1250")
		require.True(t, ok)
		assert.Equal(t, "500000", p.Amount)
		assert.Equal(t, 1, p.Count)
	})

	t.Run("entrenched pattern survives disagreement", func(t *testing.T) {
		s := NewPersistentStore(storePath(t), nil)
		for i := 0; i < patternOverwriteSupport; i++ {
			s.LearnPaymentPattern("12345678-5", "1250", "450000", "45")
		}
		s.LearnPaymentPattern("12345678-5", "1250", "999999", "99")

		p, ok := s.PaymentFor("12345678-5", "1250")
		require.True(t, ok)
		assert.Equal(t, "450000", p.Amount)
		assert.Equal(t, patternOverwriteSupport, p.Count)
	})

	t.Run("patterns are scoped per decree", func(t *testing.T) {
		s := NewPersistentStore(storePath(t), nil)
		s.LearnPaymentPattern("12345678-5", "1250", "450000", "45")
		s.LearnPaymentPattern("12345678-5", "830", "120000", "12")

		p, ok := s.PaymentFor("12345678-5", "830")
		require.True(t, ok)
		assert.Equal(t, "120000", p.Amount)
	})
}

func TestPersistentStoreFuzzyLookup(t *testing.T) {
	s := NewPersistentStore(storePath(t), nil)
	s.Learn(rec("12345678-5", "Ana Pérez Soto", "", ""))

	rut, ok := s.RUTByName("Ana Perez Sote", false)
	assert.True(t, ok)
	assert.Equal(t, "12345678-5", rut)

	_, ok = s.RUTByName("Ana Perez Sote", true)
	assert.False(t, ok)
}

func TestLearnSkipsUnusableRecords(t *testing.T) {
	s := NewPersistentStore(storePath(t), nil)

	failed := rec("12345678-5", "Ana Pérez Soto", "", "")
	failed.Error = "read error"
	s.Learn(failed)
	s.Learn(rec("", "Sin Identificador Pérez", "", ""))

	_, ok := s.NameByRUT("12345678-5")
	assert.False(t, ok)
	_, ok = s.RUTByName("Sin Identificador Pérez", false)
	assert.False(t, ok)
}
