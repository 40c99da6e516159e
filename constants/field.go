package constants

// FieldTag identifies a semantic field of a record.
type FieldTag string

const (
	FieldRUT         FieldTag = "rut"
	FieldFolio       FieldTag = "folio"
	FieldIssueDate   FieldTag = "issue_date"
	FieldAmount      FieldTag = "amount"
	FieldName        FieldTag = "name"
	FieldAgreement   FieldTag = "agreement"
	FieldHours       FieldTag = "hours"
	FieldDecree      FieldTag = "decree"
	FieldPaymentType FieldTag = "payment_type"
	FieldGlosa       FieldTag = "glosa"
	FieldPeriod      FieldTag = "service_period"
)

// AllFields lists every semantic field in output order.
var AllFields = []FieldTag{
	FieldRUT,
	FieldFolio,
	FieldIssueDate,
	FieldAmount,
	FieldName,
	FieldAgreement,
	FieldHours,
	FieldDecree,
	FieldPaymentType,
	FieldGlosa,
	FieldPeriod,
}

// TableFields lists the fields served by the tag-indexed extractor table.
// IssueDate and Period need extra context (the document date) and are
// extracted through dedicated methods instead.
var TableFields = []FieldTag{
	FieldRUT,
	FieldFolio,
	FieldAmount,
	FieldName,
	FieldAgreement,
	FieldHours,
	FieldDecree,
	FieldPaymentType,
	FieldGlosa,
}

// GlosaRetryFields lists the fields the assembler re-attempts from the
// descriptor when the first pass came back below the retry floor.
var GlosaRetryFields = []FieldTag{
	FieldAmount,
	FieldName,
	FieldAgreement,
	FieldHours,
	FieldDecree,
}
