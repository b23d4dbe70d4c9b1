package dto

import "github.com/shopspring/decimal"

// party_dto.go — customers and vendors share the same request/response shape
// for CRUD and payments; only the ledger semantics differ.

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateCustomerRequest struct {
	Name    string  `json:"name"    validate:"required,min=1,max=120"`
	Email   *string `json:"email"   validate:"omitempty,email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

type UpdateCustomerRequest struct {
	Name    *string `json:"name"    validate:"omitempty,min=1,max=120"`
	Email   *string `json:"email"   validate:"omitempty,email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

type CreateVendorRequest = CreateCustomerRequest
type UpdateVendorRequest = UpdateCustomerRequest

// RecordPaymentRequest records a payment against a customer (received) or a
// vendor (made). Amount must be positive and must not exceed the current
// balance — over-payments are rejected, never clamped.
type RecordPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Description *string         `json:"description"`
	// Date defaults to now (YYYY-MM-DD).
	Date *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// VendorAdjustmentRequest posts a manual credit or debit note to a vendor
// ledger.
type VendorAdjustmentRequest struct {
	Type        string          `json:"type"   validate:"required,oneof=credit debit"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Description *string         `json:"description"`
	Date        *string         `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type PartyFilter struct {
	Name  string `form:"name"`
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=20" validate:"min=1,max=100"`
}

type TransactionFilter struct {
	Page  int `form:"page,default=1"   validate:"min=1"`
	Limit int `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CustomerResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Email       *string         `json:"email,omitempty"`
	Phone       *string         `json:"phone,omitempty"`
	Address     *string         `json:"address,omitempty"`
	Balance     decimal.Decimal `json:"balance"`
	TotalSales  decimal.Decimal `json:"total_sales"`
	TotalProfit decimal.Decimal `json:"total_profit"`
	CreatedAt   string          `json:"created_at"`
}

type VendorResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Email          *string         `json:"email,omitempty"`
	Phone          *string         `json:"phone,omitempty"`
	Address        *string         `json:"address,omitempty"`
	Balance        decimal.Decimal `json:"balance"`
	TotalPurchases decimal.Decimal `json:"total_purchases"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	CreatedAt      string          `json:"created_at"`
}

type CustomerListResponse struct {
	Data  []CustomerResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

type VendorListResponse struct {
	Data  []VendorResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// TransactionResponse is one ledger entry of either party type.
type TransactionResponse struct {
	ID           string          `json:"id"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	Description  string          `json:"description,omitempty"`
	SaleID       *string         `json:"sale_id,omitempty"`
	InvoiceID    *string         `json:"invoice_id,omitempty"`
	Date         string          `json:"date"`
}

type TransactionListResponse struct {
	Data  []TransactionResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}
