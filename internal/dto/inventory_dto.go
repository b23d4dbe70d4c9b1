package dto

import "github.com/shopspring/decimal"

// TaxRateDTO mirrors one entry of an item's tax schedule.
type TaxRateDTO struct {
	Name string          `json:"name" validate:"required"`
	Rate decimal.Decimal `json:"rate" validate:"min=0"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// AddInventoryRequest creates or restocks an item. Exactly one of VendorID /
// VendorName may be set; when both are empty the purchase has no vendor and no
// vendor ledger entry is posted.
type AddInventoryRequest struct {
	Item      string          `json:"item"       validate:"required,min=1,max=120"`
	Category  string          `json:"category"   validate:"required"`
	Warehouse string          `json:"warehouse"  validate:"required"`
	Cost      decimal.Decimal `json:"cost"       validate:"required"`
	SalePrice decimal.Decimal `json:"sale_price" validate:"required"`
	Qty       int             `json:"qty"        validate:"required,min=1"`
	TaxSlab   []TaxRateDTO    `json:"tax_slab"   validate:"omitempty,dive"`
	// VendorID takes precedence over VendorName when both are present.
	VendorID   *string `json:"vendor_id"   validate:"omitempty,uuid"`
	VendorName *string `json:"vendor_name" validate:"omitempty,min=1,max=120"`
	Paid       bool    `json:"paid"`
	// Date defaults to now (YYYY-MM-DD).
	Date *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateInventoryRequest struct {
	Item      *string          `json:"item"       validate:"omitempty,min=1,max=120"`
	Category  *string          `json:"category"`
	Warehouse *string          `json:"warehouse"`
	Cost      *decimal.Decimal `json:"cost"`
	SalePrice *decimal.Decimal `json:"sale_price"`
	TaxSlab   []TaxRateDTO     `json:"tax_slab"   validate:"omitempty,dive"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type InventoryFilter struct {
	Item      string `form:"item"`
	Category  string `form:"category"`
	Warehouse string `form:"warehouse"`
	VendorID  string `form:"vendor_id"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type InventoryItemResponse struct {
	ID             string          `json:"id"`
	Item           string          `json:"item"`
	Category       string          `json:"category"`
	Warehouse      string          `json:"warehouse"`
	Cost           decimal.Decimal `json:"cost"`
	SalePrice      decimal.Decimal `json:"sale_price"`
	StockRemain    int             `json:"stock_remain"`
	TaxSlab        []TaxRateDTO    `json:"tax_slab"`
	VendorID       *string         `json:"vendor_id,omitempty"`
	VendorName     string          `json:"vendor_name,omitempty"`
	Paid           bool            `json:"paid"`
	PurchaseAmount decimal.Decimal `json:"purchase_amount"`
	PurchaseDate   string          `json:"purchase_date"`
	CreatedAt      string          `json:"created_at"`
}

type InventoryListResponse struct {
	Data  []InventoryItemResponse `json:"data"`
	Total int64                   `json:"total"`
	Page  int                     `json:"page"`
	Limit int                     `json:"limit"`
}
