package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a registered master record in the catalog. Stock items copy its
// names at receipt time; editing a product never rewrites historical lots.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ThaiName    string    `gorm:"index"`
	EnglishName string    `gorm:"index"`
	// SearchName is a free-text alias matched by the resolver alongside the
	// display names (e.g. a short ward nickname for the product).
	SearchName    string
	Manufacturer  string
	ContactNumber string
	// MinStock is the alert floor: a low-stock alert fires when the on-hand
	// total for this product drops below it.
	MinStock int `gorm:"not null;default:0"`
	// FillVolumeL is the nominal bag fill volume in litres (e.g. 2.00 for a
	// standard PD exchange bag). Informational only.
	FillVolumeL  decimal.Decimal `gorm:"type:decimal(5,2)"`
	Photo        string          // opaque image reference captured at registration
	Active       bool            `gorm:"not null;default:true"`
	RegisteredBy string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
