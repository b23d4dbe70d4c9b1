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

type CustomerService interface {
	CreateCustomer(ctx context.Context, ownerID uuid.UUID, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	GetCustomer(ctx context.Context, ownerID, id uuid.UUID) (*dto.CustomerResponse, error)
	ListCustomers(ctx context.Context, ownerID uuid.UUID, filter dto.PartyFilter) (*dto.CustomerListResponse, error)
	UpdateCustomer(ctx context.Context, ownerID, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error)
	DeleteCustomer(ctx context.Context, ownerID, id uuid.UUID) error

	// RecordPayment posts a payment received against the customer's balance.
	// The amount must be positive and must not exceed the balance.
	RecordPayment(ctx context.Context, ownerID, id uuid.UUID, req dto.RecordPaymentRequest) (*dto.TransactionResponse, error)
	ListTransactions(ctx context.Context, ownerID, id uuid.UUID, filter dto.TransactionFilter) (*dto.TransactionListResponse, error)
}

type customerService struct {
	repo repository.CustomerRepository
}

func NewCustomerService(repo repository.CustomerRepository) CustomerService {
	return &customerService{repo: repo}
}

func (s *customerService) CreateCustomer(ctx context.Context, ownerID uuid.UUID, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	c := &model.Customer{
		OwnerID: ownerID,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "create customer", err)
	}
	return customerToResponse(c), nil
}

func (s *customerService) GetCustomer(ctx context.Context, ownerID, id uuid.UUID) (*dto.CustomerResponse, error) {
	c, err := s.loadCustomer(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return customerToResponse(c), nil
}

func (s *customerService) ListCustomers(ctx context.Context, ownerID uuid.UUID, filter dto.PartyFilter) (*dto.CustomerListResponse, error) {
	customers, total, err := s.repo.List(ctx, ownerID, filter)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "list customers", err)
	}
	resp := &dto.CustomerListResponse{
		Data:  make([]dto.CustomerResponse, 0, len(customers)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range customers {
		resp.Data = append(resp.Data, *customerToResponse(&customers[i]))
	}
	return resp, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, ownerID, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	c, err := s.loadCustomer(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Email != nil {
		c.Email = req.Email
	}
	if req.Phone != nil {
		c.Phone = req.Phone
	}
	if req.Address != nil {
		c.Address = req.Address
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "update customer", err)
	}
	return customerToResponse(c), nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, ownerID, id uuid.UUID) error {
	c, err := s.loadCustomer(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if !c.Balance.IsZero() {
		return apperror.New(apperror.KindConflict,
			"customer has an outstanding balance; settle it before deleting")
	}
	return s.repo.Delete(ctx, ownerID, id)
}

func (s *customerService) RecordPayment(ctx context.Context, ownerID, id uuid.UUID, req dto.RecordPaymentRequest) (*dto.TransactionResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.New(apperror.KindInvalidAmount, "payment amount must be positive")
	}
	c, err := s.loadCustomer(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	description := "Payment received"
	if req.Description != nil && *req.Description != "" {
		description = *req.Description
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	var txn *model.CustomerTransaction
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		newBalance, ok, err := s.repo.DebitBalanceGuardedTx(tx, c.ID, req.Amount)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.Newf(apperror.KindExceedsBalance,
				"payment %s exceeds outstanding balance %s", req.Amount, c.Balance)
		}
		txn = &model.CustomerTransaction{
			OwnerID:      ownerID,
			CustomerID:   c.ID,
			Type:         model.CustomerTxnPayment,
			Amount:       req.Amount.Neg(),
			BalanceAfter: newBalance,
			Description:  description,
			Date:         date,
		}
		return s.repo.CreateTransactionTx(tx, txn)
	})
	if txErr != nil {
		return nil, txErr
	}
	return customerTxnToResponse(txn), nil
}

func (s *customerService) ListTransactions(ctx context.Context, ownerID, id uuid.UUID, filter dto.TransactionFilter) (*dto.TransactionListResponse, error) {
	if _, err := s.loadCustomer(ctx, ownerID, id); err != nil {
		return nil, err
	}
	txns, total, err := s.repo.ListTransactions(ctx, ownerID, id, filter)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "list customer transactions", err)
	}
	resp := &dto.TransactionListResponse{
		Data:  make([]dto.TransactionResponse, 0, len(txns)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range txns {
		resp.Data = append(resp.Data, *customerTxnToResponse(&txns[i]))
	}
	return resp, nil
}

func (s *customerService) loadCustomer(ctx context.Context, ownerID, id uuid.UUID) (*model.Customer, error) {
	c, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("customer not found")
		}
		return nil, apperror.Wrap(apperror.KindInternal, "load customer", err)
	}
	return c, nil
}

func customerToResponse(c *model.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		Address:     c.Address,
		Balance:     c.Balance,
		TotalSales:  c.TotalSales,
		TotalProfit: c.TotalProfit,
		CreatedAt:   c.CreatedAt.Format(dateTimeFormat),
	}
}

func customerTxnToResponse(t *model.CustomerTransaction) *dto.TransactionResponse {
	resp := &dto.TransactionResponse{
		ID:           t.ID.String(),
		Type:         t.Type,
		Amount:       t.Amount,
		BalanceAfter: t.BalanceAfter,
		Description:  t.Description,
		Date:         t.Date.Format(dateFormat),
	}
	if t.SaleID != nil {
		id := t.SaleID.String()
		resp.SaleID = &id
	}
	if t.InvoiceID != nil {
		id := t.InvoiceID.String()
		resp.InvoiceID = &id
	}
	return resp
}
