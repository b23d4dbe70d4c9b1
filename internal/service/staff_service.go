package service

import (
	"context"
	"errors"

	"bizzops/internal/apperror"
	"bizzops/internal/dto"
	"bizzops/internal/model"
	"bizzops/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StaffService interface {
	CreateStaff(ctx context.Context, ownerID uuid.UUID, req dto.CreateStaffRequest) (*dto.StaffResponse, error)
	ListStaff(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]dto.StaffResponse, int64, error)
	UpdateStaff(ctx context.Context, ownerID, id uuid.UUID, req dto.CreateStaffRequest) (*dto.StaffResponse, error)
	// SetActive toggles employment status instead of deleting the record.
	SetActive(ctx context.Context, ownerID, id uuid.UUID, active bool) error
	DeleteStaff(ctx context.Context, ownerID, id uuid.UUID) error
}

type staffService struct {
	repo repository.StaffRepository
}

func NewStaffService(repo repository.StaffRepository) StaffService {
	return &staffService{repo: repo}
}

func (s *staffService) CreateStaff(ctx context.Context, ownerID uuid.UUID, req dto.CreateStaffRequest) (*dto.StaffResponse, error) {
	joinDate, err := parseDate(req.JoinDate)
	if err != nil {
		return nil, err
	}
	st := &model.Staff{
		OwnerID:  ownerID,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Position: req.Position,
		Salary:   req.Salary,
		JoinDate: joinDate,
		Active:   true,
	}
	if err := s.repo.Create(ctx, st); err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "create staff", err)
	}
	return staffToResponse(st), nil
}

func (s *staffService) ListStaff(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]dto.StaffResponse, int64, error) {
	staff, total, err := s.repo.List(ctx, ownerID, page, limit)
	if err != nil {
		return nil, 0, apperror.Wrap(apperror.KindInternal, "list staff", err)
	}
	out := make([]dto.StaffResponse, 0, len(staff))
	for i := range staff {
		out = append(out, *staffToResponse(&staff[i]))
	}
	return out, total, nil
}

func (s *staffService) UpdateStaff(ctx context.Context, ownerID, id uuid.UUID, req dto.CreateStaffRequest) (*dto.StaffResponse, error) {
	st, err := s.loadStaff(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	st.Name = req.Name
	st.Email = req.Email
	st.Phone = req.Phone
	st.Position = req.Position
	st.Salary = req.Salary
	if req.JoinDate != nil {
		joinDate, err := parseDate(req.JoinDate)
		if err != nil {
			return nil, err
		}
		st.JoinDate = joinDate
	}
	if err := s.repo.Update(ctx, st); err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "update staff", err)
	}
	return staffToResponse(st), nil
}

func (s *staffService) SetActive(ctx context.Context, ownerID, id uuid.UUID, active bool) error {
	st, err := s.loadStaff(ctx, ownerID, id)
	if err != nil {
		return err
	}
	st.Active = active
	return s.repo.Update(ctx, st)
}

func (s *staffService) DeleteStaff(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.loadStaff(ctx, ownerID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, ownerID, id)
}

func (s *staffService) loadStaff(ctx context.Context, ownerID, id uuid.UUID) (*model.Staff, error) {
	st, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("staff member not found")
		}
		return nil, apperror.Wrap(apperror.KindInternal, "load staff", err)
	}
	return st, nil
}

func staffToResponse(st *model.Staff) *dto.StaffResponse {
	return &dto.StaffResponse{
		ID:       st.ID.String(),
		Name:     st.Name,
		Email:    st.Email,
		Phone:    st.Phone,
		Position: st.Position,
		Salary:   st.Salary,
		JoinDate: st.JoinDate.Format(dateFormat),
		Active:   st.Active,
	}
}
