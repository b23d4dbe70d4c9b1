package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Staff is an employee record.
type Staff struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Name     string    `gorm:"not null"`
	Email    *string
	Phone    *string
	Position string          `gorm:"not null"`
	Salary   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	JoinDate time.Time
	Active   bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Staff) TableName() string { return "staff" }
