package constants

// Agreement is the categorical tag for the funding program a service was
// billed under.
type Agreement string

const (
	AgreementPRODESAL  Agreement = "PRODESAL"
	AgreementSENDA     Agreement = "SENDA"
	AgreementOPD       Agreement = "OPD"
	AgreementSEP       Agreement = "SEP"
	AgreementPIE       Agreement = "PIE"
	AgreementSalud     Agreement = "SALUD"
	AgreementMunicipal Agreement = "MUNICIPAL"
)
