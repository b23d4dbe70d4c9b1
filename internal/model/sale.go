package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is one completed checkout. Line items snapshot the product's name,
// price, cost and tax schedule at sale time, so later catalog edits never
// retroactively change historical sales. Sales are immutable after creation:
// there is no update path, only delete (which compensates stock and ledger).
type Sale struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index"`
	// CustomerID is nil for anonymous ("Walk-in Customer") sales.
	CustomerID *uuid.UUID `gorm:"type:uuid;index"`
	// Aggregate totals. Invariants: TotalSale = Σ item.LineTotal and
	// TotalProfit = TotalSale - TotalCost.
	TotalSale     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalCost     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalProfit   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ProfitPercent decimal.Decimal `gorm:"type:decimal(8,2);not null"`
	Paid          bool            `gorm:"not null;default:false"`
	InvoiceID     *uuid.UUID      `gorm:"type:uuid"`
	Date          time.Time       `gorm:"not null;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Items    []SaleItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	Customer *Customer  `gorm:"foreignKey:CustomerID"`
	Invoice  *Invoice   `gorm:"foreignKey:InvoiceID"`
}

// SaleItem is one snapshotted line of a sale.
type SaleItem struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID uuid.UUID `gorm:"type:uuid;not null;index"`
	// ItemID references the inventory item sold. The reference may dangle
	// after a hard item delete; the snapshot fields below keep the sale whole.
	ItemID     uuid.UUID       `gorm:"type:uuid;not null"`
	ItemName   string          `gorm:"not null"`
	Qty        int             `gorm:"not null"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	UnitCost   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TaxSlab    TaxSlab         `gorm:"type:jsonb;not null;default:'[]'"`
	LineTotal  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	LineProfit decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}
