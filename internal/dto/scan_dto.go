package dto

// ScanLabelRequest carries one label photo for extraction. Purpose selects the
// advisory checks run after resolution ("receive" or "release").
type ScanLabelRequest struct {
	Image   string `json:"image"   validate:"required"`
	Purpose string `json:"purpose" validate:"required,oneof=receive release"`
}

// LabelFields is the best-effort output of the vision sidecar. Every field may
// be empty when the extractor could not read it; an empty field is "not
// detected", never an error.
type LabelFields struct {
	ThaiName     string `json:"thai_name"`
	EnglishName  string `json:"english_name"`
	BatchNo      string `json:"batch_no"`
	Mfd          string `json:"mfd"`
	Exp          string `json:"exp"`
	Manufacturer string `json:"manufacturer"`
}

// ScanLabelResponse returns the extracted fields plus resolver candidates.
// Caller contract: zero candidates → block and prompt registration; exactly
// one → proceed with it; several → present a choice to the operator.
type ScanLabelResponse struct {
	Fields     LabelFields       `json:"fields"`
	Candidates []ProductResponse `json:"candidates"`
	// DuplicateBatch is set for purpose=receive when the batch code was
	// already received.
	DuplicateBatch *DuplicateBatch `json:"duplicate_batch,omitempty"`
	// ExpiryAdvisory is set for purpose=release when an earlier-expiring
	// In-Stock lot of the resolved product exists.
	ExpiryAdvisory *ExpiryAdvisory `json:"expiry_advisory,omitempty"`
}
