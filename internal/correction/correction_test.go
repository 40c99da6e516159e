package correction

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfuentesc/boletas-engine/constants"
	"github.com/mfuentesc/boletas-engine/internal/entity"
)

func validPayload() map[string]string {
	return map[string]string{
		"rut":            "12345678-5",
		"folio":          "4521",
		"issue_date":     "2024-03-12",
		"amount":         "450000",
		"name":           "Ana Pérez Soto",
		"agreement":      "PRODESAL",
		"hours":          "44",
		"decree":         "1250",
		"payment_type":   "SEMANAL",
		"glosa":          "Servicios de apoyo",
		"service_period": "FEBRERO 2024",
	}
}

func marshal(t *testing.T, payload map[string]string) []byte {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return raw
}

func TestApply(t *testing.T) {
	rec := &entity.Record{
		RUT:          entity.Field{Value: "12345678-4", Confidence: 0.95, Origin: constants.OriginOCR},
		NeedsReview:  true,
		ReviewReason: "identifier fails check-digit validation",
	}

	require.NoError(t, Apply(rec, marshal(t, validPayload())))

	assert.Equal(t, "12345678-5", rec.RUT.Value)
	assert.InDelta(t, 1.0, rec.RUT.Confidence, 1e-9)
	assert.Equal(t, constants.OriginManual, rec.RUT.Origin)
	assert.Equal(t, "Ana Pérez Soto", rec.Name.Value)
	assert.Equal(t, constants.OriginManual, rec.Name.Origin)

	assert.Equal(t, 2, rec.PeriodMonth)
	assert.Equal(t, 2024, rec.PeriodYear)
	assert.Equal(t, "FEBRERO", rec.PeriodMonthName)

	assert.False(t, rec.NeedsReview)
	assert.Empty(t, rec.ReviewReason)
	assert.InDelta(t, 1.0, rec.QualityScore, 1e-9)
}

func TestApplyEmptyValuesClearFields(t *testing.T) {
	rec := &entity.Record{
		Folio: entity.Field{Value: "999", Confidence: 0.60, Origin: constants.OriginOCR},
	}
	p := validPayload()
	p["folio"] = ""
	p["service_period"] = ""

	require.NoError(t, Apply(rec, marshal(t, p)))
	assert.True(t, rec.Folio.Empty())
	assert.True(t, rec.Period.Empty())
	assert.Zero(t, rec.PeriodMonth)
}

func TestApplyRejectsInvalidPayloads(t *testing.T) {
	rec := &entity.Record{}

	t.Run("malformed identifier", func(t *testing.T) {
		p := validPayload()
		p["rut"] = "12.345.678-5"
		assert.Error(t, Apply(rec, marshal(t, p)))
	})

	t.Run("empty identifier", func(t *testing.T) {
		p := validPayload()
		p["rut"] = ""
		assert.Error(t, Apply(rec, marshal(t, p)))
	})

	t.Run("bad date format", func(t *testing.T) {
		p := validPayload()
		p["issue_date"] = "12/03/2024"
		assert.Error(t, Apply(rec, marshal(t, p)))
	})

	t.Run("unknown payment type", func(t *testing.T) {
		p := validPayload()
		p["payment_type"] = "QUINCENAL"
		assert.Error(t, Apply(rec, marshal(t, p)))
	})

	t.Run("missing required field", func(t *testing.T) {
		p := validPayload()
		delete(p, "amount")
		assert.Error(t, Apply(rec, marshal(t, p)))
	})

	t.Run("unexpected extra field", func(t *testing.T) {
		raw := []byte(`{"rut":"12345678-5","extra":"x"}`)
		assert.Error(t, Apply(rec, raw))
	})

	t.Run("not json at all", func(t *testing.T) {
		assert.Error(t, Apply(rec, []byte("nope")))
	})
}

func TestApplyDoesNotTouchRecordOnValidationFailure(t *testing.T) {
	rec := &entity.Record{
		RUT:         entity.Field{Value: "12345678-5", Confidence: 0.95, Origin: constants.OriginOCR},
		NeedsReview: true,
	}
	p := validPayload()
	p["amount"] = "not-a-number"

	require.Error(t, Apply(rec, marshal(t, p)))
	assert.Equal(t, constants.OriginOCR, rec.RUT.Origin)
	assert.True(t, rec.NeedsReview)
}

func TestParsePeriodToken(t *testing.T) {
	m, y := parsePeriodToken("DICIEMBRE 2023")
	assert.Equal(t, 12, m)
	assert.Equal(t, 2023, y)

	m, y = parsePeriodToken("agosto")
	assert.Equal(t, 8, m)
	assert.Zero(t, y)

	m, y = parsePeriodToken("")
	assert.Zero(t, m)
	assert.Zero(t, y)
}
