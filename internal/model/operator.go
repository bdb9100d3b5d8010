package model

import (
	"time"

	"github.com/google/uuid"
)

// Operator is a clinic staff account. Releases and receipts are stamped with
// the operator's username.
type Operator struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	FirstName    string    `gorm:"not null"`
	LastName     string
	PasswordHash string `gorm:"not null"`
	Active       bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
