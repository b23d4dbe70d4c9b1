package repository

import (
	"context"
	"time"

	"bizzops/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ExpenseRepository interface {
	Create(ctx context.Context, e *model.Expense) error
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Expense, error)
	List(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]model.Expense, int64, error)
	Update(ctx context.Context, e *model.Expense) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	SumInRange(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (decimal.Decimal, error)
}

type expenseRepo struct{ db *gorm.DB }

func NewExpenseRepository(db *gorm.DB) ExpenseRepository { return &expenseRepo{db: db} }

func (r *expenseRepo) Create(ctx context.Context, e *model.Expense) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *expenseRepo) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Expense, error) {
	var e model.Expense
	err := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&e).Error
	return &e, err
}

func (r *expenseRepo) List(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]model.Expense, int64, error) {
	var expenses []model.Expense
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Expense{}).Where("owner_id = ?", ownerID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("date DESC").Limit(limit).Offset((page - 1) * limit).Find(&expenses).Error
	return expenses, total, err
}

func (r *expenseRepo) Update(ctx context.Context, e *model.Expense) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *expenseRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&model.Expense{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *expenseRepo) SumInRange(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var sum string
	row := r.db.WithContext(ctx).Model(&model.Expense{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("owner_id = ? AND date BETWEEN ? AND ?", ownerID, from, to).
		Row()
	if err := row.Scan(&sum); err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(sum)
}
