package repository

import (
	"context"

	"bizzops/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OwnerRepository interface {
	Create(ctx context.Context, o *model.Owner) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Owner, error)
	FindByEmail(ctx context.Context, email string) (*model.Owner, error)
	Update(ctx context.Context, o *model.Owner) error
}

type ownerRepo struct{ db *gorm.DB }

func NewOwnerRepository(db *gorm.DB) OwnerRepository { return &ownerRepo{db: db} }

func (r *ownerRepo) Create(ctx context.Context, o *model.Owner) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *ownerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Owner, error) {
	var o model.Owner
	err := r.db.WithContext(ctx).First(&o, id).Error
	return &o, err
}

func (r *ownerRepo) FindByEmail(ctx context.Context, email string) (*model.Owner, error) {
	var o model.Owner
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&o).Error
	return &o, err
}

func (r *ownerRepo) Update(ctx context.Context, o *model.Owner) error {
	return r.db.WithContext(ctx).Save(o).Error
}
