package dto

// ─── Receive (stock-in) ──────────────────────────────────────────────────────

// ReceiveRequest records one incoming lot. Names are denormalized into the lot
// exactly as given; the caller is expected to have resolved them against the
// catalog first. Dates must already be normalized to YYYY-MM-DD.
type ReceiveRequest struct {
	ThaiName     string `json:"thai_name"    validate:"max=200"`
	EnglishName  string `json:"english_name" validate:"max=200"`
	BatchNo      string `json:"batch_no"     validate:"required,max=80"`
	Mfd          string `json:"mfd"          validate:"omitempty,datetime=2006-01-02"`
	Exp          string `json:"exp"          validate:"omitempty,datetime=2006-01-02"`
	Manufacturer string `json:"manufacturer" validate:"max=200"`
	Quantity     int    `json:"quantity"     validate:"required,min=1"`
}

// ReceiveResponse returns the created lot plus the duplicate-batch advisory.
// The advisory is informational only — repeated receipts of one batch code
// are legal and accumulate as distinct lots.
type ReceiveResponse struct {
	Item           StockItemResponse `json:"item"`
	DuplicateBatch *DuplicateBatch   `json:"duplicate_batch,omitempty"`
}

// DuplicateBatch points at an earlier receipt sharing the same batch code.
type DuplicateBatch struct {
	ReceivedAt string `json:"received_at"`
	Quantity   int    `json:"quantity"`
}

// ─── Release (stock-out) ─────────────────────────────────────────────────────

type ReleaseRequest struct {
	BatchNo    string `json:"batch_no"    validate:"required,max=80"`
	Quantity   int    `json:"quantity"    validate:"required,min=1"`
	ReleasedTo string `json:"released_to" validate:"required,max=200"`
}

// ReleaseResponse confirms a completed release with the last lot the engine
// touched.
type ReleaseResponse struct {
	Item StockItemResponse `json:"item"`
}

// ─── Advisory ────────────────────────────────────────────────────────────────

// ExpiryAdvisory warns that another In-Stock lot of the same product expires
// earlier than the one being prepared for release. Advisory only: the
// allocation order itself is FIFO by receipt time, not expiry.
type ExpiryAdvisory struct {
	Exp     string `json:"exp"`
	BatchNo string `json:"batch_no"`
}

// ─── Listing / aggregation ───────────────────────────────────────────────────

type StockItemResponse struct {
	ID           string `json:"id"`
	ThaiName     string `json:"thai_name"`
	EnglishName  string `json:"english_name"`
	BatchNo      string `json:"batch_no"`
	Mfd          string `json:"mfd"`
	Exp          string `json:"exp"`
	Manufacturer string `json:"manufacturer"`
	Quantity     int    `json:"quantity"`
	Status       string `json:"status"`
	ProcessedBy  string `json:"processed_by"`
	ReceivedAt   string `json:"received_at"`
	ReleasedTo   string `json:"released_to,omitempty"`
	ReleasedAt   string `json:"released_at,omitempty"`
}

type StockItemFilter struct {
	BatchNo string `form:"batch_no"`
	Status  string `form:"status"`
	Page    int    `form:"page,default=1"    validate:"min=1"`
	Limit   int    `form:"limit,default=100" validate:"min=1,max=500"`
}

// StockGroup is one row of the grouped on-hand view: all In-Stock lots of one
// product (by normalized display name) collapsed to a total and the nearest
// expiry. Recomputed on every read, never stored.
type StockGroup struct {
	Name          string `json:"name"`
	ThaiName      string `json:"thai_name"`
	EnglishName   string `json:"english_name"`
	Manufacturer  string `json:"manufacturer"`
	TotalQuantity int    `json:"total_quantity"`
	NearestExpiry string `json:"nearest_expiry"`
	MinStock      int    `json:"min_stock"`
}
