package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mfuentesc/boletas-engine/constants"
	"github.com/mfuentesc/boletas-engine/internal/entity"
)

func rec(rut, name, agreement, decree string) *entity.Record {
	r := &entity.Record{}
	r.RUT = entity.Field{Value: rut, Confidence: 0.95, Origin: constants.OriginOCR}
	r.Name = entity.Field{Value: name, Confidence: 0.90, Origin: constants.OriginOCR}
	r.Agreement = entity.Field{Value: agreement, Confidence: 0.90, Origin: constants.OriginOCR}
	r.Decree = entity.Field{Value: decree, Confidence: 0.90, Origin: constants.OriginOCR}
	return r
}

func TestBatchMemoryLookups(t *testing.T) {
	b := NewBatchMemory()
	b.Add(rec("12345678-5", "Ana Pérez Soto", "PRODESAL", "1250"))
	b.Add(rec("11111111-1", "Juan Muñoz Rojas", "SENDA", "830"))

	t.Run("name by identifier", func(t *testing.T) {
		name, ok := b.NameByRUT("12345678-5")
		assert.True(t, ok)
		assert.Equal(t, "Ana Pérez Soto", name)

		_, ok = b.NameByRUT("99999999-9")
		assert.False(t, ok)
	})

	t.Run("exact name lookup ignores case and accents", func(t *testing.T) {
		rut, ok := b.RUTByName("ANA PEREZ SOTO", true)
		assert.True(t, ok)
		assert.Equal(t, "12345678-5", rut)
	})

	t.Run("fuzzy lookup tolerates one ocr error", func(t *testing.T) {
		rut, ok := b.RUTByName("Ana Perez Sote", false)
		assert.True(t, ok)
		assert.Equal(t, "12345678-5", rut)
	})

	t.Run("strict lookup rejects the same near miss", func(t *testing.T) {
		_, ok := b.RUTByName("Ana Perez Sote", true)
		assert.False(t, ok)
	})

	t.Run("partial lookup through shared words", func(t *testing.T) {
		rut, ok := b.RUTByName("Juan Muñoz Rojas Pérez", false)
		assert.True(t, ok)
		assert.Equal(t, "11111111-1", rut)
	})

	t.Run("unrelated name finds nothing", func(t *testing.T) {
		_, ok := b.RUTByName("Carlos Fuentes Vidal", false)
		assert.False(t, ok)
	})
}

func TestBatchMemoryMajorities(t *testing.T) {
	b := NewBatchMemory()
	b.Add(rec("12345678-5", "Ana Pérez Soto", "PRODESAL", "1250"))
	b.Add(rec("11111111-1", "Juan Muñoz Rojas", "PRODESAL", "1250"))
	b.Add(rec("9876543-3", "Rosa Díaz León", "SENDA", "1250"))

	agr, ok := b.AgreementByRUT("12345678-5")
	assert.True(t, ok)
	assert.Equal(t, "PRODESAL", agr)

	maj, n := b.DecreeMajority("1250")
	assert.Equal(t, "PRODESAL", maj)
	assert.Equal(t, 3, n)

	maj, n = b.DecreeMajority("9999")
	assert.Empty(t, maj)
	assert.Zero(t, n)
}

func TestBatchMemoryCanonicalByFrequency(t *testing.T) {
	b := NewBatchMemory()
	b.Add(rec("12345678-5", "Ana Perez Soto", "", ""))
	b.Add(rec("12345678-5", "Ana Pérez Soto", "", ""))
	b.Add(rec("12345678-5", "Ana Pérez Soto", "", ""))

	name, ok := b.NameByRUT("12345678-5")
	assert.True(t, ok)
	assert.Equal(t, "Ana Pérez Soto", name)
}

func TestBatchMemorySkipsFailedRecords(t *testing.T) {
	b := NewBatchMemory()
	failed := rec("12345678-5", "Ana Pérez Soto", "PRODESAL", "1250")
	failed.Error = "read error"
	b.Add(failed)
	b.Add(nil)

	_, ok := b.NameByRUT("12345678-5")
	assert.False(t, ok)
}
