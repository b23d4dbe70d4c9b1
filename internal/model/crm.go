package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Task is a to-do item; the completion ratio feeds the dashboard.
type Task struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"not null"`
	Description *string
	DueDate     *time.Time
	Done        bool `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Appointment is a scheduled meeting with a customer or prospect.
type Appointment struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Title        string    `gorm:"not null"`
	CustomerName string
	At           time.Time `gorm:"not null;index"`
	Note         *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Deal pipeline stages.
const (
	DealStageLead        = "lead"
	DealStageNegotiation = "negotiation"
	DealStageWon         = "won"
	DealStageLost        = "lost"
)

// Deal is a sales-pipeline opportunity; the won/total ratio is the
// conversion rate on the dashboard.
type Deal struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Title        string    `gorm:"not null"`
	CustomerName string
	Value        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Stage        string          `gorm:"type:varchar(20);not null;default:'lead'"` // "lead" | "negotiation" | "won" | "lost"
	ExpectedClose *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
