package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// RegisterProductRequest creates a catalog master record. At least one display
// name is required; the service rejects a request with both names empty.
type RegisterProductRequest struct {
	ThaiName      string           `json:"thai_name"      validate:"max=200"`
	EnglishName   string           `json:"english_name"   validate:"max=200"`
	SearchName    string           `json:"search_name"    validate:"max=200"`
	Manufacturer  string           `json:"manufacturer"   validate:"max=200"`
	ContactNumber string           `json:"contact_number" validate:"max=40"`
	MinStock      int              `json:"min_stock"      validate:"min=0"`
	FillVolumeL   *decimal.Decimal `json:"fill_volume_l"`
	Photo         string           `json:"photo"`
}

type UpdateProductRequest struct {
	ThaiName      *string          `json:"thai_name"      validate:"omitempty,max=200"`
	EnglishName   *string          `json:"english_name"   validate:"omitempty,max=200"`
	SearchName    *string          `json:"search_name"    validate:"omitempty,max=200"`
	Manufacturer  *string          `json:"manufacturer"   validate:"omitempty,max=200"`
	ContactNumber *string          `json:"contact_number" validate:"omitempty,max=40"`
	MinStock      *int             `json:"min_stock"      validate:"omitempty,min=0"`
	FillVolumeL   *decimal.Decimal `json:"fill_volume_l"`
	Photo         *string          `json:"photo"`
}

type ProductFilter struct {
	Query string `form:"q"`
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID            string           `json:"id"`
	ThaiName      string           `json:"thai_name"`
	EnglishName   string           `json:"english_name"`
	SearchName    string           `json:"search_name"`
	Manufacturer  string           `json:"manufacturer"`
	ContactNumber string           `json:"contact_number"`
	MinStock      int              `json:"min_stock"`
	FillVolumeL   *decimal.Decimal `json:"fill_volume_l,omitempty"`
	Photo         string           `json:"photo,omitempty"`
	RegisteredBy  string           `json:"registered_by"`
	CreatedAt     string           `json:"created_at"`
}

// RegisterProductResponse carries the duplicate-product advisory alongside the
// created record. The warning never blocks registration.
type RegisterProductResponse struct {
	Product          ProductResponse   `json:"product"`
	DuplicateWarning *DuplicateProduct `json:"duplicate_warning,omitempty"`
}

// DuplicateProduct describes an already-registered product whose normalized
// name exactly equals the one being registered.
type DuplicateProduct struct {
	Name         string `json:"name"`
	Manufacturer string `json:"manufacturer"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
