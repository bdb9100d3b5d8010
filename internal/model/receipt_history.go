package model

import (
	"time"

	"github.com/google/uuid"
)

// ReceiptHistory is an append-only audit row mirroring one stock-in action.
// Rows are never updated or deleted.
type ReceiptHistory struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ThaiName    string
	EnglishName string
	BatchNo     string `gorm:"index"`
	Exp         string
	Quantity    int `gorm:"not null"`
	ProcessedBy string
	CreatedAt   time.Time
}

// TableName overrides GORM's default pluralization (receipt_histories → receipt_history).
func (ReceiptHistory) TableName() string { return "receipt_history" }
