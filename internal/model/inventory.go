package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxRate is one entry in an item's tax schedule.
type TaxRate struct {
	Name string          `json:"name"`
	Rate decimal.Decimal `json:"rate"` // percent, e.g. 18 for 18%
}

// TaxSlab is the item's tax schedule, stored as a JSONB column.
type TaxSlab []TaxRate

func (t TaxSlab) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal(t)
	return string(b), err
}

func (t *TaxSlab) Scan(value interface{}) error {
	if value == nil {
		*t = TaxSlab{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return errors.New("tax slab: unsupported scan type")
	}
}

// TaxOn returns the tax due on base across every rate in the schedule,
// rounded to 2 decimal places.
func (t TaxSlab) TaxOn(base decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, r := range t {
		total = total.Add(base.Mul(r.Rate).Div(decimal.NewFromInt(100)))
	}
	return total.Round(2)
}

// InventoryItem is one stocked product in a warehouse.
// StockRemain is never negative: it is decremented only through the
// conditional update in InventoryRepository (sales) and incremented on
// restock / sale deletion.
type InventoryItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Item      string    `gorm:"not null;index"`
	Category  string    `gorm:"not null"`
	Warehouse string    `gorm:"not null"`
	// Cost is the per-unit purchase cost; SalePrice the per-unit sale price.
	Cost        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SalePrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	VendorID    *uuid.UUID      `gorm:"type:uuid;index"`
	TaxSlab     TaxSlab         `gorm:"type:jsonb;not null;default:'[]'"`
	StockRemain int             `gorm:"not null;default:0"`
	// Purchase metadata for the most recent restock.
	Paid           bool            `gorm:"not null;default:false"`
	PurchaseAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PurchaseDate   time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Vendor *Vendor `gorm:"foreignKey:VendorID"`
}
