package extract

import (
	"regexp"

	"github.com/mfuentesc/boletas-engine/constants"
)

// AgreementRule is one entry of the declarative agreement vocabulary:
// matching is ranked by Weight (specificity), not by position, and a rule
// may demand an explicit convenio/programa qualifier before it fires.
type AgreementRule struct {
	Tag               constants.Agreement
	Patterns          []*regexp.Regexp
	Weight            int
	RequiresQualifier bool
}

// header token neutralized before matching so it cannot trigger the
// generic municipal tag
var reInstitutionalHeader = regexp.MustCompile(`(?:ILUSTRE\s+)?(?:I\.\s*)?MUNICIPALIDAD\s+DE\b`)

var reQualifier = regexp.MustCompile(`\b(?:CONVENIO|PROGRAMA)\b`)

var agreementRules = []AgreementRule{
	{
		Tag:    constants.AgreementPRODESAL,
		Weight: 10,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`\bPRODESAL\b`),
			regexp.MustCompile(`DESARROLLO\s+LOCAL`),
		},
	},
	{
		Tag:    constants.AgreementSENDA,
		Weight: 10,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`\bSENDA\b`),
			regexp.MustCompile(`\bPREVIENE\b`),
		},
	},
	{
		Tag:    constants.AgreementOPD,
		Weight: 10,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`\bOPD\b`),
			regexp.MustCompile(`PROTECCION\s+DE\s+DERECHOS`),
		},
	},
	{
		Tag:    constants.AgreementSEP,
		Weight: 9,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`SUBVENCION\s+ESCOLAR\s+PREFERENCIAL`),
			regexp.MustCompile(`\bLEY\s+SEP\b`),
		},
	},
	{
		Tag:    constants.AgreementPIE,
		Weight: 9,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`INTEGRACION\s+ESCOLAR`),
			regexp.MustCompile(`\bPIE\b`),
		},
	},
	{
		Tag:    constants.AgreementSalud,
		Weight: 8,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`ATENCION\s+PRIMARIA`),
			regexp.MustCompile(`\bCESFAM\b`),
			regexp.MustCompile(`POSTA\s+RURAL`),
		},
	},
	{
		Tag:               constants.AgreementMunicipal,
		Weight:            2,
		RequiresQualifier: true,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`\bMUNICIPAL\b`),
		},
	},
}

// decreeAgreements maps known decree codes to their agreement, used as a
// reduced-confidence fallback when no pattern matches.
var decreeAgreements = map[string]constants.Agreement{
	"1250": constants.AgreementPRODESAL,
	"830":  constants.AgreementSENDA,
	"2104": constants.AgreementOPD,
	"477":  constants.AgreementSalud,
}
