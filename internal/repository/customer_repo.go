package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"bizzops/internal/dto"
	"bizzops/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CustomerAggregates are the dashboard's customer-side numbers.
type CustomerAggregates struct {
	TotalCustomers int64
	Receivable     decimal.Decimal
}

type CustomerRepository interface {
	Create(ctx context.Context, c *model.Customer) error
	CreateTx(tx *gorm.DB, c *model.Customer) error
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Customer, error)
	// FindByContact matches on email or phone for sale-time auto-resolution.
	FindByContact(ctx context.Context, ownerID uuid.UUID, email, phone *string) (*model.Customer, error)
	List(ctx context.Context, ownerID uuid.UUID, filter dto.PartyFilter) ([]model.Customer, int64, error)
	Update(ctx context.Context, c *model.Customer) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// IncrementBalanceTx adds amount (sale on credit) to the running balance
	// and returns the resulting balance, for the ledger's balance_after.
	IncrementBalanceTx(tx *gorm.DB, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)
	// DebitBalanceGuardedTx subtracts amount only if balance >= amount; the
	// guard serializes the check-then-act so two concurrent payments can
	// never jointly over-draw. Reports false when the guard failed, the
	// resulting balance otherwise.
	DebitBalanceGuardedTx(tx *gorm.DB, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, bool, error)
	// AddAggregatesTx bumps the lifetime totals.
	AddAggregatesTx(tx *gorm.DB, id uuid.UUID, sales, profit decimal.Decimal) error

	// Ledger — append-only.
	CreateTransactionTx(tx *gorm.DB, t *model.CustomerTransaction) error
	ListTransactions(ctx context.Context, ownerID, customerID uuid.UUID, filter dto.TransactionFilter) ([]model.CustomerTransaction, int64, error)

	Aggregates(ctx context.Context, ownerID uuid.UUID) (*CustomerAggregates, error)
	// ActiveAndReturning counts customers with ≥1 sale (active) and >1 sale
	// (returning) in the window, for the retention metric.
	ActiveAndReturning(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (active, returning int64, err error)

	DB() *gorm.DB
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepo{db: db} }

func (r *customerRepo) DB() *gorm.DB { return r.db }

func (r *customerRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *customerRepo) Create(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *customerRepo) CreateTx(tx *gorm.DB, c *model.Customer) error {
	return r.conn(tx).Create(c).Error
}

func (r *customerRepo) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&c).Error
	return &c, err
}

func (r *customerRepo) FindByContact(ctx context.Context, ownerID uuid.UUID, email, phone *string) (*model.Customer, error) {
	q := r.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	switch {
	case email != nil && phone != nil:
		q = q.Where("email = ? OR phone = ?", *email, *phone)
	case email != nil:
		q = q.Where("email = ?", *email)
	case phone != nil:
		q = q.Where("phone = ?", *phone)
	default:
		return nil, gorm.ErrRecordNotFound
	}
	var c model.Customer
	err := q.First(&c).Error
	return &c, err
}

func (r *customerRepo) List(ctx context.Context, ownerID uuid.UUID, filter dto.PartyFilter) ([]model.Customer, int64, error) {
	var customers []model.Customer
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Customer{}).Where("owner_id = ?", ownerID)
	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&customers).Error
	return customers, total, err
}

func (r *customerRepo) Update(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *customerRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&model.Customer{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *customerRepo) IncrementBalanceTx(tx *gorm.DB, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	row := r.conn(tx).Raw(
		`UPDATE customers SET balance = balance + ? WHERE id = ? RETURNING balance`,
		amount, id,
	).Row()
	if err := row.Scan(&balance); err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

func (r *customerRepo) DebitBalanceGuardedTx(tx *gorm.DB, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, bool, error) {
	var balance decimal.Decimal
	row := r.conn(tx).Raw(
		`UPDATE customers SET balance = balance - ? WHERE id = ? AND balance >= ? RETURNING balance`,
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

func (r *customerRepo) AddAggregatesTx(tx *gorm.DB, id uuid.UUID, sales, profit decimal.Decimal) error {
	return r.conn(tx).Model(&model.Customer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_sales":  gorm.Expr("total_sales + ?", sales),
			"total_profit": gorm.Expr("total_profit + ?", profit),
		}).Error
}

func (r *customerRepo) CreateTransactionTx(tx *gorm.DB, t *model.CustomerTransaction) error {
	return r.conn(tx).Create(t).Error
}

func (r *customerRepo) ListTransactions(ctx context.Context, ownerID, customerID uuid.UUID, filter dto.TransactionFilter) ([]model.CustomerTransaction, int64, error) {
	var txns []model.CustomerTransaction
	var total int64

	q := r.db.WithContext(ctx).Model(&model.CustomerTransaction{}).
		Where("owner_id = ? AND customer_id = ?", ownerID, customerID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("date DESC, created_at DESC").Limit(filter.Limit).Offset(offset).Find(&txns).Error
	return txns, total, err
}

func (r *customerRepo) Aggregates(ctx context.Context, ownerID uuid.UUID) (*CustomerAggregates, error) {
	var agg CustomerAggregates
	var receivable string
	row := r.db.WithContext(ctx).Model(&model.Customer{}).
		Select("COUNT(*), COALESCE(SUM(balance), 0)").
		Where("owner_id = ?", ownerID).
		Row()
	if err := row.Scan(&agg.TotalCustomers, &receivable); err != nil {
		return nil, err
	}
	v, err := decimal.NewFromString(receivable)
	if err != nil {
		return nil, err
	}
	agg.Receivable = v
	return &agg, nil
}

func (r *customerRepo) ActiveAndReturning(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (int64, int64, error) {
	var active, returning int64
	row := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*), COUNT(*) FILTER (WHERE n > 1)
		FROM (
			SELECT customer_id, COUNT(*) AS n
			FROM sales
			WHERE owner_id = ? AND customer_id IS NOT NULL AND date BETWEEN ? AND ?
			GROUP BY customer_id
		) s`, ownerID, from, to).Row()
	if err := row.Scan(&active, &returning); err != nil {
		return 0, 0, err
	}
	return active, returning, nil
}
