package entity

// CorrectionPayload is the fully-specified corrected record supplied by the
// review collaborator. All fields arrive as strings; empty means "field is
// genuinely absent", not "keep the old value".
type CorrectionPayload struct {
	RUT           string `json:"rut"`
	Folio         string `json:"folio"`
	IssueDate     string `json:"issue_date"`
	Amount        string `json:"amount"`
	Name          string `json:"name"`
	Agreement     string `json:"agreement"`
	Hours         string `json:"hours"`
	Decree        string `json:"decree"`
	PaymentType   string `json:"payment_type"`
	Glosa         string `json:"glosa"`
	ServicePeriod string `json:"service_period"`
}
