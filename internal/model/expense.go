package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense is a standalone business outgoing (rent, utilities, wages, ...).
// Feeds the dashboard cash-flow score.
type Expense struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name        string          `gorm:"not null"`
	Category    string          `gorm:"not null;default:'general'"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Paid        bool            `gorm:"not null;default:true"`
	Description *string
	Date        time.Time `gorm:"not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
