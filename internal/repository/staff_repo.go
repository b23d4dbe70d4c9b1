package repository

import (
	"context"

	"bizzops/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StaffRepository interface {
	Create(ctx context.Context, s *model.Staff) error
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Staff, error)
	List(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]model.Staff, int64, error)
	Update(ctx context.Context, s *model.Staff) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type staffRepo struct{ db *gorm.DB }

func NewStaffRepository(db *gorm.DB) StaffRepository { return &staffRepo{db: db} }

func (r *staffRepo) Create(ctx context.Context, s *model.Staff) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *staffRepo) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Staff, error) {
	var s model.Staff
	err := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&s).Error
	return &s, err
}

func (r *staffRepo) List(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]model.Staff, int64, error) {
	var staff []model.Staff
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Staff{}).Where("owner_id = ?", ownerID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("name ASC").Limit(limit).Offset((page - 1) * limit).Find(&staff).Error
	return staff, total, err
}

func (r *staffRepo) Update(ctx context.Context, s *model.Staff) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *staffRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&model.Staff{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
