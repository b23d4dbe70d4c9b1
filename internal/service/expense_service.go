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

type ExpenseService interface {
	CreateExpense(ctx context.Context, ownerID uuid.UUID, req dto.CreateExpenseRequest) (*dto.ExpenseResponse, error)
	ListExpenses(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]dto.ExpenseResponse, int64, error)
	UpdateExpense(ctx context.Context, ownerID, id uuid.UUID, req dto.CreateExpenseRequest) (*dto.ExpenseResponse, error)
	DeleteExpense(ctx context.Context, ownerID, id uuid.UUID) error
}

type expenseService struct {
	repo repository.ExpenseRepository
}

func NewExpenseService(repo repository.ExpenseRepository) ExpenseService {
	return &expenseService{repo: repo}
}

func (s *expenseService) CreateExpense(ctx context.Context, ownerID uuid.UUID, req dto.CreateExpenseRequest) (*dto.ExpenseResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.New(apperror.KindInvalidAmount, "expense amount must be positive")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	e := &model.Expense{
		OwnerID:     ownerID,
		Name:        req.Name,
		Category:    req.Category,
		Amount:      req.Amount,
		Paid:        true,
		Description: req.Description,
		Date:        date,
	}
	if e.Category == "" {
		e.Category = "general"
	}
	if req.Paid != nil {
		e.Paid = *req.Paid
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "create expense", err)
	}
	return expenseToResponse(e), nil
}

func (s *expenseService) ListExpenses(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]dto.ExpenseResponse, int64, error) {
	expenses, total, err := s.repo.List(ctx, ownerID, page, limit)
	if err != nil {
		return nil, 0, apperror.Wrap(apperror.KindInternal, "list expenses", err)
	}
	out := make([]dto.ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		out = append(out, *expenseToResponse(&expenses[i]))
	}
	return out, total, nil
}

func (s *expenseService) UpdateExpense(ctx context.Context, ownerID, id uuid.UUID, req dto.CreateExpenseRequest) (*dto.ExpenseResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.New(apperror.KindInvalidAmount, "expense amount must be positive")
	}
	e, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("expense not found")
		}
		return nil, apperror.Wrap(apperror.KindInternal, "load expense", err)
	}
	e.Name = req.Name
	if req.Category != "" {
		e.Category = req.Category
	}
	e.Amount = req.Amount
	if req.Paid != nil {
		e.Paid = *req.Paid
	}
	e.Description = req.Description
	if req.Date != nil {
		date, err := parseDate(req.Date)
		if err != nil {
			return nil, err
		}
		e.Date = date
	}
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "update expense", err)
	}
	return expenseToResponse(e), nil
}

func (s *expenseService) DeleteExpense(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, ownerID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("expense not found")
		}
		return apperror.Wrap(apperror.KindInternal, "load expense", err)
	}
	return s.repo.Delete(ctx, ownerID, id)
}

func expenseToResponse(e *model.Expense) *dto.ExpenseResponse {
	return &dto.ExpenseResponse{
		ID:          e.ID.String(),
		Name:        e.Name,
		Category:    e.Category,
		Amount:      e.Amount,
		Paid:        e.Paid,
		Description: e.Description,
		Date:        e.Date.Format(dateFormat),
	}
}
