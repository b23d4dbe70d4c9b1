package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer is a buyer account with a running receivable balance.
// Balance is the amount the customer currently owes the business; it must at
// all times equal the signed sum of the customer's transaction ledger.
type Customer struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name    string    `gorm:"not null;index"`
	Email   *string
	Phone   *string
	Address *string
	Balance decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	// Lifetime aggregates, updated on every sale regardless of paid status.
	TotalSales  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalProfit decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CustomerTransaction type values.
const (
	CustomerTxnSale    = "sale"
	CustomerTxnPayment = "payment"
)

// CustomerTransaction is an immutable entry in a customer's ledger.
// Entries are NEVER modified or deleted — corrections create inverse entries.
type CustomerTransaction struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID    uuid.UUID `gorm:"type:uuid;not null;index"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Type       string    `gorm:"type:varchar(20);not null"` // "sale" | "payment"
	// Amount is signed: positive increases the balance (sale on credit),
	// negative decreases it (payment received).
	Amount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// BalanceAfter snapshots the running balance after this entry was applied.
	BalanceAfter decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SaleID       *uuid.UUID      `gorm:"type:uuid"`
	InvoiceID    *uuid.UUID      `gorm:"type:uuid"`
	Description  string
	Date         time.Time `gorm:"not null;index"`
	CreatedAt    time.Time
}
