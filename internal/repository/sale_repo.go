package repository

import (
	"context"
	"time"

	"bizzops/internal/dto"
	"bizzops/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleTotals are aggregate sale numbers over a window.
type SaleTotals struct {
	TotalSale   decimal.Decimal
	TotalCost   decimal.Decimal
	TotalProfit decimal.Decimal
	PaidSale    decimal.Decimal
	Count       int64
}

type SaleRepository interface {
	CreateTx(tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Sale, error)
	List(ctx context.Context, ownerID uuid.UUID, filter dto.SaleFilter) ([]model.Sale, int64, error)
	// DeleteTx removes the sale and its items inside a compensation
	// transaction; line items cascade.
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	// SetInvoiceTx links the generated invoice back to the sale.
	SetInvoiceTx(tx *gorm.DB, id, invoiceID uuid.UUID) error

	TotalsInRange(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (*SaleTotals, error)

	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *saleRepo) CreateTx(tx *gorm.DB, s *model.Sale) error {
	return r.conn(tx).Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items").Preload("Customer").Preload("Invoice").
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&s).Error
	return &s, err
}

func (r *saleRepo) List(ctx context.Context, ownerID uuid.UUID, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Sale{}).Where("owner_id = ?", ownerID)
	if filter.Date != "" {
		q = q.Where("DATE(date) = ?", filter.Date)
	}
	switch filter.Paid {
	case "true":
		q = q.Where("paid = true")
	case "false":
		q = q.Where("paid = false")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Items").Preload("Customer").Preload("Invoice").
		Order("date DESC, created_at DESC").
		Limit(filter.Limit).Offset(offset).
		Find(&sales).Error
	return sales, total, err
}

func (r *saleRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	c := r.conn(tx)
	if err := c.Where("sale_id = ?", id).Delete(&model.SaleItem{}).Error; err != nil {
		return err
	}
	return c.Delete(&model.Sale{}, id).Error
}

func (r *saleRepo) SetInvoiceTx(tx *gorm.DB, id, invoiceID uuid.UUID) error {
	return r.conn(tx).Model(&model.Sale{}).
		Where("id = ?", id).
		Update("invoice_id", invoiceID).Error
}

func (r *saleRepo) TotalsInRange(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (*SaleTotals, error) {
	var totalSale, totalCost, totalProfit, paidSale string
	var count int64
	row := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select(`COALESCE(SUM(total_sale), 0),
			COALESCE(SUM(total_cost), 0),
			COALESCE(SUM(total_profit), 0),
			COALESCE(SUM(total_sale) FILTER (WHERE paid), 0),
			COUNT(*)`).
		Where("owner_id = ? AND date BETWEEN ? AND ?", ownerID, from, to).
		Row()
	if err := row.Scan(&totalSale, &totalCost, &totalProfit, &paidSale, &count); err != nil {
		return nil, err
	}

	totals := &SaleTotals{Count: count}
	for _, pair := range []struct {
		src string
		dst *decimal.Decimal
	}{
		{totalSale, &totals.TotalSale},
		{totalCost, &totals.TotalCost},
		{totalProfit, &totals.TotalProfit},
		{paidSale, &totals.PaidSale},
	} {
		v, err := decimal.NewFromString(pair.src)
		if err != nil {
			return nil, err
		}
		*pair.dst = v
	}
	return totals, nil
}
