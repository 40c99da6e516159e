package correction

// BuildCorrectionSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. The review collaborator must supply every field as a string;
// empty strings mean "genuinely absent". Formats are enforced only on
// non-empty values.
func BuildCorrectionSchema() map[string]any {
	orEmpty := func(pattern string) map[string]any {
		return map[string]any{"type": "string", "pattern": `^$|` + pattern}
	}
	props := map[string]any{
		"rut":            map[string]any{"type": "string", "pattern": `^\d{7,8}-[0-9K]$`},
		"folio":          orEmpty(`^\d{1,7}$`),
		"issue_date":     orEmpty(`^\d{4}-\d{2}-\d{2}$`),
		"amount":         orEmpty(`^\d+$`),
		"name":           map[string]any{"type": "string"},
		"agreement":      map[string]any{"type": "string"},
		"hours":          orEmpty(`^\d{1,3}$`),
		"decree":         orEmpty(`^\d{1,6}$`),
		"payment_type":   orEmpty(`^(SEMANAL|MENSUAL)$`),
		"glosa":          map[string]any{"type": "string"},
		"service_period": map[string]any{"type": "string"},
	}
	required := make([]string, 0, len(props))
	for k := range props {
		required = append(required, k)
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             required,
	}
}
