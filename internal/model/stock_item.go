package model

import (
	"time"

	"github.com/google/uuid"
)

// Stock item lifecycle states. The string values are part of the stored data
// and must not change.
const (
	StatusInStock  = "In Stock"
	StatusReleased = "Released"
)

// StockItem is one lot: a single receipt-quantity record of a product.
// Several lots may share one human-entered batch code. Product names are
// denormalized at receipt time — renaming a product does not rewrite lots.
//
// Once Status is Released the record is immutable history. A partial release
// decrements this record's quantity and inserts a new sibling StockItem
// carrying the released portion.
type StockItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ThaiName    string    `gorm:"index"`
	EnglishName string    `gorm:"index"`
	BatchNo     string    `gorm:"index;not null"`
	// Mfd and Exp are calendar dates kept as YYYY-MM-DD strings; the
	// normalized format makes lexicographic comparison equivalent to date
	// comparison.
	Mfd          string
	Exp          string
	Manufacturer string
	Quantity     int    `gorm:"not null"`
	Status       string `gorm:"index;not null;default:'In Stock'"`
	ProcessedBy  string
	// ReceivedAt defines the FIFO consumption order within a batch code.
	ReceivedAt time.Time `gorm:"index;not null"`
	// Set only on release.
	ReleasedTo string
	ReleasedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
