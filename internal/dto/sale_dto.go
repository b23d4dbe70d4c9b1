package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SaleLineRequest struct {
	ItemID string `json:"item_id" validate:"required,uuid"`
	Qty    int    `json:"qty"     validate:"required,min=1"`
}

// CreateSaleRequest drives the whole sale pipeline: stock check + decrement,
// totals, invoice creation, customer ledger posting.
//
// Customer resolution: CustomerID wins when present; otherwise CustomerName
// plus at least one of CustomerEmail/CustomerPhone auto-creates a customer;
// otherwise the sale is anonymous ("Walk-in Customer").
type CreateSaleRequest struct {
	Items         []SaleLineRequest `json:"items" validate:"required,min=1,dive"`
	CustomerID    *string           `json:"customer_id"    validate:"omitempty,uuid"`
	CustomerName  *string           `json:"customer_name"  validate:"omitempty,min=1,max=120"`
	CustomerEmail *string           `json:"customer_email" validate:"omitempty,email"`
	CustomerPhone *string           `json:"customer_phone"`
	Paid          bool              `json:"paid"`
	// Date defaults to now (YYYY-MM-DD).
	Date *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type SaleFilter struct {
	// Date filters by sale date (YYYY-MM-DD); empty = all.
	Date  string `form:"date"`
	Paid  string `form:"paid"` // "true" | "false" | "" (all)
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleLineResponse struct {
	ItemID     string          `json:"item_id"`
	ItemName   string          `json:"item_name"`
	Qty        int             `json:"qty"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	LineTotal  decimal.Decimal `json:"line_total"`
	LineProfit decimal.Decimal `json:"line_profit"`
}

type SaleResponse struct {
	ID            string             `json:"id"`
	CustomerID    *string            `json:"customer_id,omitempty"`
	CustomerName  string             `json:"customer_name"`
	Items         []SaleLineResponse `json:"items"`
	TotalSale     decimal.Decimal    `json:"total_sale"`
	TotalCost     decimal.Decimal    `json:"total_cost"`
	TotalProfit   decimal.Decimal    `json:"total_profit"`
	ProfitPercent decimal.Decimal    `json:"profit_percent"`
	Paid          bool               `json:"paid"`
	InvoiceID     *string            `json:"invoice_id,omitempty"`
	InvoiceNo     string             `json:"invoice_no,omitempty"`
	Date          string             `json:"date"`
	CreatedAt     string             `json:"created_at"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
