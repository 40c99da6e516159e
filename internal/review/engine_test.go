package review

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mfuentesc/boletas-engine/constants"
	"github.com/mfuentesc/boletas-engine/internal/entity"
)

func field(value string, conf float64) entity.Field {
	return entity.Field{Value: value, Confidence: conf, Origin: constants.OriginOCR}
}

func goodRecord() *entity.Record {
	return &entity.Record{
		RUT:       field("12345678-5", 0.95),
		Name:      field("Ana Pérez Soto", 0.90),
		Folio:     field("4521", 0.90),
		IssueDate: field("2024-03-12", 0.98),
		Amount:    field("450000", 0.97),
		Agreement: field("PRODESAL", 0.90),
		Period:    field("FEBRERO 2024", 0.80),
	}
}

func TestEvaluateCleanRecord(t *testing.T) {
	e := NewEngine(nil)
	r := goodRecord()
	e.Evaluate(r)

	assert.False(t, r.NeedsReview)
	assert.Empty(t, r.ReviewReason)
	assert.Greater(t, r.QualityScore, 0.9)
	assert.LessOrEqual(t, r.QualityScore, 1.0)
}

func TestEvaluateRules(t *testing.T) {
	e := NewEngine(nil)

	t.Run("processing error wins over everything", func(t *testing.T) {
		r := goodRecord()
		r.Error = "empty text"
		r.RUT = entity.Field{}
		e.Evaluate(r)

		assert.True(t, r.NeedsReview)
		assert.Equal(t, "processing error: empty text", r.ReviewReason)
		assert.Zero(t, r.QualityScore)
	})

	t.Run("missing identifier", func(t *testing.T) {
		r := goodRecord()
		r.RUT = entity.Field{}
		e.Evaluate(r)

		assert.True(t, r.NeedsReview)
		assert.Equal(t, "identifier missing", r.ReviewReason)
	})

	t.Run("too few core fields lists the missing ones", func(t *testing.T) {
		r := goodRecord()
		r.Amount = entity.Field{}
		r.Agreement = entity.Field{}
		e.Evaluate(r)

		assert.True(t, r.NeedsReview)
		assert.Equal(t, "missing fields: amount, agreement", r.ReviewReason)
	})

	t.Run("one missing core field is tolerated", func(t *testing.T) {
		r := goodRecord()
		r.Agreement = entity.Field{}
		e.Evaluate(r)
		assert.False(t, r.NeedsReview)
	})

	t.Run("invalid check digit", func(t *testing.T) {
		r := goodRecord()
		r.RUT = field("12345678-4", 0.95)
		e.Evaluate(r)

		assert.True(t, r.NeedsReview)
		assert.Equal(t, "identifier fails check-digit validation", r.ReviewReason)
	})

	t.Run("malformed identifier fails validation", func(t *testing.T) {
		r := goodRecord()
		r.RUT = field("12.345.678", 0.95)
		e.Evaluate(r)
		assert.True(t, r.NeedsReview)
	})

	t.Run("implausible amount", func(t *testing.T) {
		r := goodRecord()
		r.Amount = field("12000000", 0.97)
		e.Evaluate(r)

		assert.True(t, r.NeedsReview)
		assert.Equal(t, "amount outside plausible range: 12000000", r.ReviewReason)
	})

	t.Run("missing folio alone does not force review", func(t *testing.T) {
		r := goodRecord()
		r.Folio = entity.Field{}
		e.Evaluate(r)
		assert.False(t, r.NeedsReview)
	})
}

func TestRuleOrder(t *testing.T) {
	// identifier and amount both broken: the identifier rule fires first
	e := NewEngine(nil)
	r := goodRecord()
	r.RUT = entity.Field{}
	r.Amount = field("12000000", 0.97)
	e.Evaluate(r)

	assert.Equal(t, "identifier missing", r.ReviewReason)
}

func TestQualityScore(t *testing.T) {
	e := NewEngine(nil)

	t.Run("bounded", func(t *testing.T) {
		r := goodRecord()
		e.Evaluate(r)
		assert.LessOrEqual(t, r.QualityScore, 1.0)
		assert.Greater(t, r.QualityScore, 0.0)
	})

	t.Run("missing fields lower the score", func(t *testing.T) {
		full := goodRecord()
		sparse := goodRecord()
		sparse.Folio = entity.Field{}
		sparse.Period = entity.Field{}
		e.Evaluate(full)
		e.Evaluate(sparse)
		assert.Less(t, sparse.QualityScore, full.QualityScore)
	})

	t.Run("confidence scales the contribution", func(t *testing.T) {
		high := goodRecord()
		low := goodRecord()
		low.Amount.Confidence = 0.55
		e.Evaluate(high)
		e.Evaluate(low)
		assert.Less(t, low.QualityScore, high.QualityScore)
	})

	t.Run("empty record scores zero", func(t *testing.T) {
		r := &entity.Record{}
		e.Evaluate(r)
		assert.Zero(t, r.QualityScore)
	})
}

func TestEvaluateClearsStaleFlags(t *testing.T) {
	e := NewEngine(nil)
	r := goodRecord()
	r.NeedsReview = true
	r.ReviewReason = "stale"
	e.Evaluate(r)

	assert.False(t, r.NeedsReview)
	assert.Empty(t, r.ReviewReason)
}
