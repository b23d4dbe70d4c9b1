package dto

import "github.com/shopspring/decimal"

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type InvoiceFilter struct {
	Paid  string `form:"paid"` // "true" | "false" | "" (all)
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type InvoiceItemResponse struct {
	Name      string          `json:"name"`
	Qty       int             `json:"qty"`
	Price     decimal.Decimal `json:"price"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type InvoiceResponse struct {
	ID            string                `json:"id"`
	InvoiceNo     string                `json:"invoice_no"`
	SaleID        *string               `json:"sale_id,omitempty"`
	CustomerName  string                `json:"customer_name"`
	CustomerEmail *string               `json:"customer_email,omitempty"`
	CustomerPhone *string               `json:"customer_phone,omitempty"`
	Items         []InvoiceItemResponse `json:"items"`
	SubTotal      decimal.Decimal       `json:"sub_total"`
	TaxAmount     decimal.Decimal       `json:"tax_amount"`
	GrandTotal    decimal.Decimal       `json:"grand_total"`
	Paid          bool                  `json:"paid"`
	Date          string                `json:"date"`
	CreatedAt     string                `json:"created_at"`
}

type InvoiceListResponse struct {
	Data  []InvoiceResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
