package model

import (
	"time"

	"github.com/google/uuid"
)

// Owner is a business-owner account. Every other entity in the system belongs
// to exactly one Owner; all queries and mutations are scoped by owner id.
type Owner struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string    `gorm:"not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	BusinessName string    `gorm:"not null"`
	// BusinessPrefix is the short code prepended to invoice numbers
	// (e.g. "ACM" → invoice "ACM001").
	BusinessPrefix string `gorm:"type:varchar(8);not null"`
	Phone          *string
	Address        *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
