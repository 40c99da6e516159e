package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestServicePeriod(t *testing.T) {
	e := NewExtractor()

	t.Run("explicit month and year", func(t *testing.T) {
		p, conf := e.ServicePeriod("servicios mes de marzo 2024", time.Time{})
		assert.Equal(t, 3, p.Month)
		assert.Equal(t, 2024, p.Year)
		assert.InDelta(t, 0.80, conf, 1e-9)
	})

	t.Run("month de year form", func(t *testing.T) {
		p, _ := e.ServicePeriod("correspondiente a DICIEMBRE DE 2023", time.Time{})
		assert.Equal(t, 12, p.Month)
		assert.Equal(t, 2023, p.Year)
	})

	t.Run("service month after document month means prior year", func(t *testing.T) {
		p, _ := e.ServicePeriod("servicios mes de diciembre", date(2024, time.January, 10))
		assert.Equal(t, 12, p.Month)
		assert.Equal(t, 2023, p.Year)
	})

	t.Run("service month at or before document month keeps the year", func(t *testing.T) {
		p, _ := e.ServicePeriod("servicios mes de febrero", date(2024, time.March, 10))
		assert.Equal(t, 2, p.Month)
		assert.Equal(t, 2024, p.Year)
	})

	t.Run("no document date keeps the placeholder year", func(t *testing.T) {
		p, conf := e.ServicePeriod("servicios mes de agosto", time.Time{})
		assert.Equal(t, 8, p.Month)
		assert.Zero(t, p.Year)
		assert.InDelta(t, 0.70, conf, 1e-9)
	})

	t.Run("ocr digit confusion in month token", func(t *testing.T) {
		p, _ := e.ServicePeriod("mes de AG0STO 2023", time.Time{})
		assert.Equal(t, 8, p.Month)
		assert.Equal(t, 2023, p.Year)
	})

	t.Run("no month at all", func(t *testing.T) {
		p, conf := e.ServicePeriod("texto sin periodo", time.Time{})
		assert.Zero(t, p.Month)
		assert.Zero(t, conf)
	})

	t.Run("month inside a full date is not a period", func(t *testing.T) {
		p, conf := e.ServicePeriod("FECHA: 13 de marzo de 2024", date(2024, time.March, 13))
		assert.Zero(t, p.Month)
		assert.Zero(t, conf)
	})

	t.Run("period token survives a dated line elsewhere", func(t *testing.T) {
		text := "FECHA: 10 de enero de 2024\nservicios mes de diciembre"
		p, _ := e.ServicePeriod(text, date(2024, time.January, 10))
		assert.Equal(t, 12, p.Month)
		assert.Equal(t, 2023, p.Year)
	})
}

func TestPeriodFromDocDate(t *testing.T) {
	p := PeriodFromDocDate(date(2024, time.March, 31))
	assert.Equal(t, 2, p.Month)
	assert.Equal(t, 2024, p.Year)

	p = PeriodFromDocDate(date(2024, time.January, 5))
	assert.Equal(t, 12, p.Month)
	assert.Equal(t, 2023, p.Year)

	assert.Zero(t, PeriodFromDocDate(time.Time{}).Month)
}

func TestPeriodString(t *testing.T) {
	assert.Equal(t, "DICIEMBRE 2023", Period{Month: 12, Year: 2023}.String())
	assert.Equal(t, "AGOSTO", Period{Month: 8}.String())
	assert.Empty(t, Period{}.String())
}
