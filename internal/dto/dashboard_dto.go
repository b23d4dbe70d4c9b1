package dto

import "github.com/shopspring/decimal"

// RangeSelector values accepted by GET /v1/dashboard.
// Mapped to a concrete [start, now] window by the dashboard service.
const (
	RangeToday   = "today"
	RangeWeek    = "week"
	RangeMonth   = "month"
	RangeQuarter = "quarter"
	RangeYear    = "year"
	RangeAllTime = "alltime"
)

type DashboardFilter struct {
	Range string `form:"range,default=month" validate:"omitempty,oneof=today week month quarter year alltime"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SalesMetrics struct {
	TotalSale   decimal.Decimal `json:"total_sale"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	TotalProfit decimal.Decimal `json:"total_profit"`
	SaleCount   int64           `json:"sale_count"`
	// GrowthPercent compares this window against the previous window of the
	// same length. Zero for alltime.
	GrowthPercent decimal.Decimal `json:"growth_percent"`
}

type InventoryMetrics struct {
	StockValue    decimal.Decimal `json:"stock_value"` // Σ cost × stockRemain
	ItemCount     int64           `json:"item_count"`
	LowStockCount int64           `json:"low_stock_count"`
	OutOfStock    int64           `json:"out_of_stock_count"`
}

type CustomerMetrics struct {
	TotalCustomers int64 `json:"total_customers"`
	// Returning counts customers with more than one sale in the window.
	Returning int64 `json:"returning"`
	// RetentionPercent = returning / active-in-window × 100.
	RetentionPercent decimal.Decimal `json:"retention_percent"`
	TotalReceivable  decimal.Decimal `json:"total_receivable"`
}

type InvoiceMetrics struct {
	TotalInvoices int64           `json:"total_invoices"`
	PaidCount     int64           `json:"paid_count"`
	UnpaidCount   int64           `json:"unpaid_count"`
	UnpaidAmount  decimal.Decimal `json:"unpaid_amount"`
}

type PipelineMetrics struct {
	OpenDeals         int64           `json:"open_deals"`
	WonDeals          int64           `json:"won_deals"`
	LostDeals         int64           `json:"lost_deals"`
	ConversionPercent decimal.Decimal `json:"conversion_percent"`
	TaskTotal         int64           `json:"task_total"`
	TaskDone          int64           `json:"task_done"`
	TaskCompletion    decimal.Decimal `json:"task_completion_percent"`
}

type CashFlowMetrics struct {
	Income   decimal.Decimal `json:"income"`   // paid sales in window
	Expenses decimal.Decimal `json:"expenses"` // expenses in window
	Net      decimal.Decimal `json:"net"`
}

// HealthScore is the composite 0–100 score: a fixed weighted sum of five
// sub-scores, each normalized and capped at its weight.
type HealthScore struct {
	Score     int `json:"score"`
	Sales     int `json:"sales"`      // max 30
	Margin    int `json:"margin"`     // max 25
	Inventory int `json:"inventory"`  // max 15
	Customer  int `json:"customer"`   // max 15
	CashFlow  int `json:"cash_flow"`  // max 15
}

type DashboardResponse struct {
	Range     string           `json:"range"`
	From      string           `json:"from"`
	To        string           `json:"to"`
	Sales     SalesMetrics     `json:"sales"`
	Inventory InventoryMetrics `json:"inventory"`
	Customers CustomerMetrics  `json:"customers"`
	Invoices  InvoiceMetrics   `json:"invoices"`
	Pipeline  PipelineMetrics  `json:"pipeline"`
	CashFlow  CashFlowMetrics  `json:"cash_flow"`
	Health    HealthScore      `json:"health"`
}
