package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice is the customer-facing document generated for a sale (or created
// standalone). InvoiceNo is assigned exactly once at creation and is unique
// per owner — it is the one user-visible identifier that must stay stable.
type Invoice struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_owner_invoice_no,priority:1"`
	// InvoiceNo format: {businessPrefix}{sequence zero-padded to 3 digits}.
	InvoiceNo string     `gorm:"type:varchar(32);not null;uniqueIndex:idx_owner_invoice_no,priority:2"`
	SaleID    *uuid.UUID `gorm:"type:uuid;index"`
	// Customer contact fields are denormalized at creation time.
	CustomerName    string `gorm:"not null"`
	CustomerEmail   *string
	CustomerPhone   *string
	CustomerAddress *string
	SubTotal        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TaxAmount       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	// GrandTotal = SubTotal + TaxAmount.
	GrandTotal decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Paid       bool            `gorm:"not null;default:false"`
	// PDFPath is relative to PDF_STORAGE_PATH; set by the invoice worker.
	PDFPath   *string
	Date      time.Time `gorm:"not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

// InvoiceItem is one line on an invoice, tax included in LineTotal.
type InvoiceItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name      string          `gorm:"not null"`
	Qty       int             `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Cost      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TaxSlab   TaxSlab         `gorm:"type:jsonb;not null;default:'[]'"`
	TaxAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	// LineTotal = Price*Qty + TaxAmount.
	LineTotal decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// InvoiceCounter holds the per-owner invoice sequence. The atomic
// increment-and-return on this row is the serialization point that keeps
// invoice numbers gap-free and duplicate-free under concurrent checkout.
type InvoiceCounter struct {
	OwnerID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	LastSeq   int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time
}
