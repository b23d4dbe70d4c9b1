package repository

import (
	"context"

	"bizzops/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PipelineCounts are the dashboard's deal/task numbers.
type PipelineCounts struct {
	OpenDeals int64
	WonDeals  int64
	LostDeals int64
	TaskTotal int64
	TaskDone  int64
}

// CRMRepository covers tasks, appointments and deals — the light scheduling
// and pipeline entities that share trivial CRUD shapes.
type CRMRepository interface {
	CreateTask(ctx context.Context, t *model.Task) error
	FindTask(ctx context.Context, ownerID, id uuid.UUID) (*model.Task, error)
	ListTasks(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]model.Task, int64, error)
	UpdateTask(ctx context.Context, t *model.Task) error
	DeleteTask(ctx context.Context, ownerID, id uuid.UUID) error

	CreateAppointment(ctx context.Context, a *model.Appointment) error
	FindAppointment(ctx context.Context, ownerID, id uuid.UUID) (*model.Appointment, error)
	ListAppointments(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]model.Appointment, int64, error)
	UpdateAppointment(ctx context.Context, a *model.Appointment) error
	DeleteAppointment(ctx context.Context, ownerID, id uuid.UUID) error

	CreateDeal(ctx context.Context, d *model.Deal) error
	FindDeal(ctx context.Context, ownerID, id uuid.UUID) (*model.Deal, error)
	ListDeals(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]model.Deal, int64, error)
	UpdateDeal(ctx context.Context, d *model.Deal) error
	DeleteDeal(ctx context.Context, ownerID, id uuid.UUID) error

	PipelineCounts(ctx context.Context, ownerID uuid.UUID) (*PipelineCounts, error)
}

type crmRepo struct{ db *gorm.DB }

func NewCRMRepository(db *gorm.DB) CRMRepository { return &crmRepo{db: db} }

func ownedDelete[T any](db *gorm.DB, ctx context.Context, ownerID, id uuid.UUID) error {
	var zero T
	res := db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&zero)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ── Tasks ────────────────────────────────────────────────────────────────────

func (r *crmRepo) CreateTask(ctx context.Context, t *model.Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *crmRepo) FindTask(ctx context.Context, ownerID, id uuid.UUID) (*model.Task, error) {
	var t model.Task
	err := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&t).Error
	return &t, err
}

func (r *crmRepo) ListTasks(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]model.Task, int64, error) {
	var tasks []model.Task
	var total int64
	q := r.db.WithContext(ctx).Model(&model.Task{}).Where("owner_id = ?", ownerID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&tasks).Error
	return tasks, total, err
}

func (r *crmRepo) UpdateTask(ctx context.Context, t *model.Task) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *crmRepo) DeleteTask(ctx context.Context, ownerID, id uuid.UUID) error {
	return ownedDelete[model.Task](r.db, ctx, ownerID, id)
}

// ── Appointments ─────────────────────────────────────────────────────────────

func (r *crmRepo) CreateAppointment(ctx context.Context, a *model.Appointment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *crmRepo) FindAppointment(ctx context.Context, ownerID, id uuid.UUID) (*model.Appointment, error) {
	var a model.Appointment
	err := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&a).Error
	return &a, err
}

func (r *crmRepo) ListAppointments(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]model.Appointment, int64, error) {
	var appts []model.Appointment
	var total int64
	q := r.db.WithContext(ctx).Model(&model.Appointment{}).Where("owner_id = ?", ownerID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("at ASC").Limit(limit).Offset((page - 1) * limit).Find(&appts).Error
	return appts, total, err
}

func (r *crmRepo) UpdateAppointment(ctx context.Context, a *model.Appointment) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *crmRepo) DeleteAppointment(ctx context.Context, ownerID, id uuid.UUID) error {
	return ownedDelete[model.Appointment](r.db, ctx, ownerID, id)
}

// ── Deals ────────────────────────────────────────────────────────────────────

func (r *crmRepo) CreateDeal(ctx context.Context, d *model.Deal) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *crmRepo) FindDeal(ctx context.Context, ownerID, id uuid.UUID) (*model.Deal, error) {
	var d model.Deal
	err := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&d).Error
	return &d, err
}

func (r *crmRepo) ListDeals(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]model.Deal, int64, error) {
	var deals []model.Deal
	var total int64
	q := r.db.WithContext(ctx).Model(&model.Deal{}).Where("owner_id = ?", ownerID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&deals).Error
	return deals, total, err
}

func (r *crmRepo) UpdateDeal(ctx context.Context, d *model.Deal) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *crmRepo) DeleteDeal(ctx context.Context, ownerID, id uuid.UUID) error {
	return ownedDelete[model.Deal](r.db, ctx, ownerID, id)
}

func (r *crmRepo) PipelineCounts(ctx context.Context, ownerID uuid.UUID) (*PipelineCounts, error) {
	var counts PipelineCounts
	row := r.db.WithContext(ctx).Raw(`
		SELECT
			(SELECT COUNT(*) FROM deals WHERE owner_id = @owner AND stage IN ('lead', 'negotiation')),
			(SELECT COUNT(*) FROM deals WHERE owner_id = @owner AND stage = 'won'),
			(SELECT COUNT(*) FROM deals WHERE owner_id = @owner AND stage = 'lost'),
			(SELECT COUNT(*) FROM tasks WHERE owner_id = @owner),
			(SELECT COUNT(*) FROM tasks WHERE owner_id = @owner AND done)`,
		map[string]interface{}{"owner": ownerID}).Row()
	if err := row.Scan(&counts.OpenDeals, &counts.WonDeals, &counts.LostDeals, &counts.TaskTotal, &counts.TaskDone); err != nil {
		return nil, err
	}
	return &counts, nil
}
