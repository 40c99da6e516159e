package constants

// Origin records which stage or source produced a field's current value.
type Origin string

// Stable values (store these exact strings in DB and exports).
const (
	OriginOCR        Origin = "ocr"               // primary text extraction
	OriginGlosa      Origin = "glosa"             // second pass over the descriptor
	OriginBatch      Origin = "batch_memory"      // cross-reference within the batch
	OriginPersistent Origin = "persistent_memory" // cross-reference against the store
	OriginDecree     Origin = "decree_inferred"   // decree -> agreement normalization
	OriginCalculated Origin = "calculated"        // derived, e.g. hours x rate
	OriginManual     Origin = "manual"            // privileged operator correction
)
