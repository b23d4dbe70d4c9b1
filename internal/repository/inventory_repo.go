package repository

import (
	"context"

	"bizzops/internal/dto"
	"bizzops/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryAggregates are the point-in-time numbers the dashboard reads.
type InventoryAggregates struct {
	StockValue decimal.Decimal
	ItemCount  int64
	LowStock   int64
	OutOfStock int64
}

// InventoryRepository defines the data access contract for stocked items.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via in-memory stubs.
type InventoryRepository interface {
	Create(ctx context.Context, item *model.InventoryItem) error
	CreateTx(tx *gorm.DB, item *model.InventoryItem) error
	// SaveTx persists catalog-field changes (cost, price, tax slab, vendor)
	// inside a restock transaction.
	SaveTx(tx *gorm.DB, item *model.InventoryItem) error
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.InventoryItem, error)
	// FindMatching locates an existing item with the same owner, item name,
	// category and warehouse — the merge target for restocks.
	FindMatching(ctx context.Context, ownerID uuid.UUID, item, category, warehouse string) (*model.InventoryItem, error)
	List(ctx context.Context, ownerID uuid.UUID, filter dto.InventoryFilter) ([]model.InventoryItem, int64, error)
	Update(ctx context.Context, item *model.InventoryItem) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// DecrementStockTx conditionally decrements stock inside a sale
	// transaction. The WHERE stock_remain >= qty guard is the
	// compare-and-swap that keeps stock from ever going negative under
	// concurrent sales; it reports false when the guard failed.
	DecrementStockTx(tx *gorm.DB, id uuid.UUID, qty int) (bool, error)
	// AddStockTx increments stock (restock, sale deletion).
	AddStockTx(tx *gorm.DB, id uuid.UUID, qty int) error
	// UpdatePurchaseTx refreshes the purchase metadata of a merged restock.
	UpdatePurchaseTx(tx *gorm.DB, id uuid.UUID, amount decimal.Decimal, paid bool) error

	Aggregates(ctx context.Context, ownerID uuid.UUID, lowThreshold int) (*InventoryAggregates, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type inventoryRepo struct{ db *gorm.DB }

func NewInventoryRepository(db *gorm.DB) InventoryRepository { return &inventoryRepo{db: db} }

func (r *inventoryRepo) DB() *gorm.DB { return r.db }

func (r *inventoryRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *inventoryRepo) Create(ctx context.Context, item *model.InventoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *inventoryRepo) CreateTx(tx *gorm.DB, item *model.InventoryItem) error {
	return r.conn(tx).Create(item).Error
}

func (r *inventoryRepo) SaveTx(tx *gorm.DB, item *model.InventoryItem) error {
	return r.conn(tx).Save(item).Error
}

func (r *inventoryRepo) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.InventoryItem, error) {
	var item model.InventoryItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&item).Error
	return &item, err
}

func (r *inventoryRepo) FindMatching(ctx context.Context, ownerID uuid.UUID, item, category, warehouse string) (*model.InventoryItem, error) {
	var found model.InventoryItem
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND item = ? AND category = ? AND warehouse = ?",
			ownerID, item, category, warehouse).
		First(&found).Error
	return &found, err
}

func (r *inventoryRepo) List(ctx context.Context, ownerID uuid.UUID, filter dto.InventoryFilter) ([]model.InventoryItem, int64, error) {
	var items []model.InventoryItem
	var total int64

	q := r.db.WithContext(ctx).Model(&model.InventoryItem{}).Where("owner_id = ?", ownerID)

	if filter.Item != "" {
		q = q.Where("item ILIKE ?", "%"+filter.Item+"%")
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Warehouse != "" {
		q = q.Where("warehouse = ?", filter.Warehouse)
	}
	if filter.VendorID != "" {
		q = q.Where("vendor_id = ?", filter.VendorID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Vendor").Order("item ASC").Limit(filter.Limit).Offset(offset).Find(&items).Error
	return items, total, err
}

func (r *inventoryRepo) Update(ctx context.Context, item *model.InventoryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *inventoryRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&model.InventoryItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *inventoryRepo) DecrementStockTx(tx *gorm.DB, id uuid.UUID, qty int) (bool, error) {
	res := r.conn(tx).Model(&model.InventoryItem{}).
		Where("id = ? AND stock_remain >= ?", id, qty).
		Update("stock_remain", gorm.Expr("stock_remain - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *inventoryRepo) AddStockTx(tx *gorm.DB, id uuid.UUID, qty int) error {
	return r.conn(tx).Model(&model.InventoryItem{}).
		Where("id = ?", id).
		Update("stock_remain", gorm.Expr("stock_remain + ?", qty)).Error
}

func (r *inventoryRepo) UpdatePurchaseTx(tx *gorm.DB, id uuid.UUID, amount decimal.Decimal, paid bool) error {
	return r.conn(tx).Model(&model.InventoryItem{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"purchase_amount": amount,
			"paid":            paid,
			"purchase_date":   gorm.Expr("NOW()"),
		}).Error
}

func (r *inventoryRepo) Aggregates(ctx context.Context, ownerID uuid.UUID, lowThreshold int) (*InventoryAggregates, error) {
	var agg InventoryAggregates
	row := r.db.WithContext(ctx).Model(&model.InventoryItem{}).
		Select(`COALESCE(SUM(cost * stock_remain), 0) AS stock_value,
			COUNT(*) AS item_count,
			COUNT(*) FILTER (WHERE stock_remain > 0 AND stock_remain <= ?) AS low_stock,
			COUNT(*) FILTER (WHERE stock_remain = 0) AS out_of_stock`, lowThreshold).
		Where("owner_id = ?", ownerID).
		Row()
	var stockValue string
	if err := row.Scan(&stockValue, &agg.ItemCount, &agg.LowStock, &agg.OutOfStock); err != nil {
		return nil, err
	}
	v, err := decimal.NewFromString(stockValue)
	if err != nil {
		return nil, err
	}
	agg.StockValue = v
	return &agg, nil
}
