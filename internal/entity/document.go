package entity

// SourceDocument is the input contract from the OCR collaborator: one raw
// text blob plus a scalar page confidence per scanned document. Err carries
// a document-level failure (the collaborator produced no text at all).
type SourceDocument struct {
	Path           string
	Text           string
	PageConfidence float64
	Err            string
}
