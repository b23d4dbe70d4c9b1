package service

import (
	"context"
	"errors"
	"time"

	"bizzops/internal/apperror"
	"bizzops/internal/dto"
	"bizzops/internal/model"
	"bizzops/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CRMService covers the light pipeline features: tasks, appointments and
// deals. Deals feed the dashboard conversion rate.
type CRMService interface {
	CreateTask(ctx context.Context, ownerID uuid.UUID, req dto.CreateTaskRequest) (*dto.TaskResponse, error)
	ListTasks(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]dto.TaskResponse, int64, error)
	SetTaskDone(ctx context.Context, ownerID, id uuid.UUID, done bool) (*dto.TaskResponse, error)
	DeleteTask(ctx context.Context, ownerID, id uuid.UUID) error

	CreateAppointment(ctx context.Context, ownerID uuid.UUID, req dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	ListAppointments(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]dto.AppointmentResponse, int64, error)
	DeleteAppointment(ctx context.Context, ownerID, id uuid.UUID) error

	CreateDeal(ctx context.Context, ownerID uuid.UUID, req dto.CreateDealRequest) (*dto.DealResponse, error)
	ListDeals(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]dto.DealResponse, int64, error)
	UpdateDealStage(ctx context.Context, ownerID, id uuid.UUID, req dto.UpdateDealStageRequest) (*dto.DealResponse, error)
	DeleteDeal(ctx context.Context, ownerID, id uuid.UUID) error
}

type crmService struct {
	repo repository.CRMRepository
}

func NewCRMService(repo repository.CRMRepository) CRMService {
	return &crmService{repo: repo}
}

// ─── Tasks ───────────────────────────────────────────────────────────────────

func (s *crmService) CreateTask(ctx context.Context, ownerID uuid.UUID, req dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	t := &model.Task{
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
	}
	if req.DueDate != nil {
		due, err := parseDate(req.DueDate)
		if err != nil {
			return nil, err
		}
		t.DueDate = &due
	}
	if err := s.repo.CreateTask(ctx, t); err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "create task", err)
	}
	return taskToResponse(t), nil
}

func (s *crmService) ListTasks(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]dto.TaskResponse, int64, error) {
	tasks, total, err := s.repo.ListTasks(ctx, ownerID, page, limit)
	if err != nil {
		return nil, 0, apperror.Wrap(apperror.KindInternal, "list tasks", err)
	}
	out := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, *taskToResponse(&tasks[i]))
	}
	return out, total, nil
}

func (s *crmService) SetTaskDone(ctx context.Context, ownerID, id uuid.UUID, done bool) (*dto.TaskResponse, error) {
	t, err := s.repo.FindTask(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("task not found")
		}
		return nil, apperror.Wrap(apperror.KindInternal, "load task", err)
	}
	t.Done = done
	if err := s.repo.UpdateTask(ctx, t); err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "update task", err)
	}
	return taskToResponse(t), nil
}

func (s *crmService) DeleteTask(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.repo.DeleteTask(ctx, ownerID, id)
}

// ─── Appointments ────────────────────────────────────────────────────────────

func (s *crmService) CreateAppointment(ctx context.Context, ownerID uuid.UUID, req dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	at, err := time.Parse(time.RFC3339, req.At)
	if err != nil {
		return nil, apperror.Validation("appointment time must be RFC 3339")
	}
	a := &model.Appointment{
		OwnerID:      ownerID,
		Title:        req.Title,
		CustomerName: req.CustomerName,
		At:           at,
		Note:         req.Note,
	}
	if err := s.repo.CreateAppointment(ctx, a); err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "create appointment", err)
	}
	return appointmentToResponse(a), nil
}

func (s *crmService) ListAppointments(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]dto.AppointmentResponse, int64, error) {
	appointments, total, err := s.repo.ListAppointments(ctx, ownerID, page, limit)
	if err != nil {
		return nil, 0, apperror.Wrap(apperror.KindInternal, "list appointments", err)
	}
	out := make([]dto.AppointmentResponse, 0, len(appointments))
	for i := range appointments {
		out = append(out, *appointmentToResponse(&appointments[i]))
	}
	return out, total, nil
}

func (s *crmService) DeleteAppointment(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.repo.DeleteAppointment(ctx, ownerID, id)
}

// ─── Deals ───────────────────────────────────────────────────────────────────

func (s *crmService) CreateDeal(ctx context.Context, ownerID uuid.UUID, req dto.CreateDealRequest) (*dto.DealResponse, error) {
	d := &model.Deal{
		OwnerID:      ownerID,
		Title:        req.Title,
		CustomerName: req.CustomerName,
		Value:        req.Value,
		Stage:        model.DealStageLead,
	}
	if req.Stage != nil {
		d.Stage = *req.Stage
	}
	if req.ExpectedClose != nil {
		closeAt, err := parseDate(req.ExpectedClose)
		if err != nil {
			return nil, err
		}
		d.ExpectedClose = &closeAt
	}
	if err := s.repo.CreateDeal(ctx, d); err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "create deal", err)
	}
	return dealToResponse(d), nil
}

func (s *crmService) ListDeals(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]dto.DealResponse, int64, error) {
	deals, total, err := s.repo.ListDeals(ctx, ownerID, page, limit)
	if err != nil {
		return nil, 0, apperror.Wrap(apperror.KindInternal, "list deals", err)
	}
	out := make([]dto.DealResponse, 0, len(deals))
	for i := range deals {
		out = append(out, *dealToResponse(&deals[i]))
	}
	return out, total, nil
}

func (s *crmService) UpdateDealStage(ctx context.Context, ownerID, id uuid.UUID, req dto.UpdateDealStageRequest) (*dto.DealResponse, error) {
	d, err := s.repo.FindDeal(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("deal not found")
		}
		return nil, apperror.Wrap(apperror.KindInternal, "load deal", err)
	}
	// Closed deals stay closed.
	if d.Stage == model.DealStageWon || d.Stage == model.DealStageLost {
		return nil, apperror.New(apperror.KindConflict, "deal is already closed")
	}
	d.Stage = req.Stage
	if err := s.repo.UpdateDeal(ctx, d); err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "update deal", err)
	}
	return dealToResponse(d), nil
}

func (s *crmService) DeleteDeal(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.repo.DeleteDeal(ctx, ownerID, id)
}

func taskToResponse(t *model.Task) *dto.TaskResponse {
	resp := &dto.TaskResponse{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		Done:        t.Done,
	}
	if t.DueDate != nil {
		due := t.DueDate.Format(dateFormat)
		resp.DueDate = &due
	}
	return resp
}

func appointmentToResponse(a *model.Appointment) *dto.AppointmentResponse {
	return &dto.AppointmentResponse{
		ID:           a.ID.String(),
		Title:        a.Title,
		CustomerName: a.CustomerName,
		At:           a.At.Format(dateTimeFormat),
		Note:         a.Note,
	}
}

func dealToResponse(d *model.Deal) *dto.DealResponse {
	resp := &dto.DealResponse{
		ID:           d.ID.String(),
		Title:        d.Title,
		CustomerName: d.CustomerName,
		Value:        d.Value,
		Stage:        d.Stage,
	}
	if d.ExpectedClose != nil {
		ec := d.ExpectedClose.Format(dateFormat)
		resp.ExpectedClose = &ec
	}
	return resp
}
