package model

import (
	"time"

	"github.com/google/uuid"
)

// ReleaseHistory is an append-only audit row summarizing one release request.
// Exactly one row is written per request even when the allocation spanned
// several lots; Quantity is the requested total, not a per-lot amount.
type ReleaseHistory struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ThaiName    string
	EnglishName string
	BatchNo     string `gorm:"index"`
	Exp         string
	Quantity    int `gorm:"not null"`
	ProcessedBy string
	ReleasedTo  string
	CreatedAt   time.Time
}

// TableName overrides GORM's default pluralization (release_histories → release_history).
func (ReleaseHistory) TableName() string { return "release_history" }
