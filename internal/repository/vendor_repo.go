package repository

import (
	"context"
	"database/sql"
	"errors"

	"bizzops/internal/dto"
	"bizzops/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VendorRepository interface {
	Create(ctx context.Context, v *model.Vendor) error
	CreateTx(tx *gorm.DB, v *model.Vendor) error
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Vendor, error)
	// FindByName supports the lookup-or-create resolution of by-name vendor
	// references on inventory restock.
	FindByName(ctx context.Context, ownerID uuid.UUID, name string) (*model.Vendor, error)
	List(ctx context.Context, ownerID uuid.UUID, filter dto.PartyFilter) ([]model.Vendor, int64, error)
	Update(ctx context.Context, v *model.Vendor) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	IncrementBalanceTx(tx *gorm.DB, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)
	// DebitBalanceGuardedTx mirrors the customer-side payment guard.
	DebitBalanceGuardedTx(tx *gorm.DB, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, bool, error)
	AddPurchasesTx(tx *gorm.DB, id uuid.UUID, amount decimal.Decimal) error
	AddPaidTx(tx *gorm.DB, id uuid.UUID, amount decimal.Decimal) error

	CreateTransactionTx(tx *gorm.DB, t *model.VendorTransaction) error
	ListTransactions(ctx context.Context, ownerID, vendorID uuid.UUID, filter dto.TransactionFilter) ([]model.VendorTransaction, int64, error)

	DB() *gorm.DB
}

type vendorRepo struct{ db *gorm.DB }

func NewVendorRepository(db *gorm.DB) VendorRepository { return &vendorRepo{db: db} }

func (r *vendorRepo) DB() *gorm.DB { return r.db }

func (r *vendorRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *vendorRepo) Create(ctx context.Context, v *model.Vendor) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *vendorRepo) CreateTx(tx *gorm.DB, v *model.Vendor) error {
	return r.conn(tx).Create(v).Error
}

func (r *vendorRepo) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Vendor, error) {
	var v model.Vendor
	err := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&v).Error
	return &v, err
}

func (r *vendorRepo) FindByName(ctx context.Context, ownerID uuid.UUID, name string) (*model.Vendor, error) {
	var v model.Vendor
	err := r.db.WithContext(ctx).Where("owner_id = ? AND name = ?", ownerID, name).First(&v).Error
	return &v, err
}

func (r *vendorRepo) List(ctx context.Context, ownerID uuid.UUID, filter dto.PartyFilter) ([]model.Vendor, int64, error) {
	var vendors []model.Vendor
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Vendor{}).Where("owner_id = ?", ownerID)
	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&vendors).Error
	return vendors, total, err
}

func (r *vendorRepo) Update(ctx context.Context, v *model.Vendor) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *vendorRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&model.Vendor{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *vendorRepo) IncrementBalanceTx(tx *gorm.DB, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	row := r.conn(tx).Raw(
		`UPDATE vendors SET balance = balance + ? WHERE id = ? RETURNING balance`,
		amount, id,
	).Row()
	if err := row.Scan(&balance); err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

func (r *vendorRepo) DebitBalanceGuardedTx(tx *gorm.DB, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, bool, error) {
	var balance decimal.Decimal
	row := r.conn(tx).Raw(
		`UPDATE vendors SET balance = balance - ? WHERE id = ? AND balance >= ? RETURNING balance`,
		amount, id, amount,
	).Row()
	if err := row.Scan(&balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, err
	}
	return balance, true, nil
}

func (r *vendorRepo) AddPurchasesTx(tx *gorm.DB, id uuid.UUID, amount decimal.Decimal) error {
	return r.conn(tx).Model(&model.Vendor{}).
		Where("id = ?", id).
		Update("total_purchases", gorm.Expr("total_purchases + ?", amount)).Error
}

func (r *vendorRepo) AddPaidTx(tx *gorm.DB, id uuid.UUID, amount decimal.Decimal) error {
	return r.conn(tx).Model(&model.Vendor{}).
		Where("id = ?", id).
		Update("total_paid", gorm.Expr("total_paid + ?", amount)).Error
}

func (r *vendorRepo) CreateTransactionTx(tx *gorm.DB, t *model.VendorTransaction) error {
	return r.conn(tx).Create(t).Error
}

func (r *vendorRepo) ListTransactions(ctx context.Context, ownerID, vendorID uuid.UUID, filter dto.TransactionFilter) ([]model.VendorTransaction, int64, error) {
	var txns []model.VendorTransaction
	var total int64

	q := r.db.WithContext(ctx).Model(&model.VendorTransaction{}).
		Where("owner_id = ? AND vendor_id = ?", ownerID, vendorID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("date DESC, created_at DESC").Limit(filter.Limit).Offset(offset).Find(&txns).Error
	return txns, total, err
}
