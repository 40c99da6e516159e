package constants

// Plausibility bands for validated fields. Values outside a band are
// discarded by the extractor, never surfaced at reduced confidence.
const (
	MinAmountCLP = 5_000
	MaxAmountCLP = 10_000_000

	MinHours = 4
	MaxHours = 200

	MinFolio = 1
	MaxFolio = 5_000_000

	MinYear = 2010
	MaxYear = 2035
)

// Payment type values. Semanal is the default when neither token appears.
const (
	PaymentWeekly  = "SEMANAL"
	PaymentMonthly = "MENSUAL"
)
