package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Vendor is a supplier with a running payable balance.
// Balance is the amount the business currently owes the vendor; like the
// customer balance it must reconcile with the vendor's transaction ledger.
type Vendor struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name    string    `gorm:"not null;index"`
	Email   *string
	Phone   *string
	Address *string
	Balance decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	// Lifetime aggregates.
	TotalPurchases decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalPaid      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// VendorTransaction type values.
const (
	VendorTxnPurchase = "purchase"
	VendorTxnPayment  = "payment"
	VendorTxnCredit   = "credit"
	VendorTxnDebit    = "debit"
)

// VendorTransaction is an immutable entry in a vendor's ledger.
type VendorTransaction struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID  uuid.UUID `gorm:"type:uuid;not null;index"`
	VendorID uuid.UUID `gorm:"type:uuid;not null;index"`
	Type     string    `gorm:"type:varchar(20);not null"` // "purchase" | "payment" | "credit" | "debit"
	// Amount is signed: positive increases what the business owes
	// (purchase on credit, debit note), negative decreases it
	// (payment made, credit note).
	Amount       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	BalanceAfter decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// InventoryItemID links a purchase entry to the restocked item.
	InventoryItemID *uuid.UUID `gorm:"type:uuid"`
	Description     string
	Date            time.Time `gorm:"not null;index"`
	CreatedAt       time.Time
}
