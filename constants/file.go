package constants

import "strings"

// TextExtension is the extension of OCR text dumps accepted by ingestion.
const TextExtension = "txt"

// ConfidenceSidecarExt is the optional sidecar file carrying the page
// confidence reported by the OCR collaborator.
const ConfidenceSidecarExt = ".conf"

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
