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

type VendorService interface {
	CreateVendor(ctx context.Context, ownerID uuid.UUID, req dto.CreateVendorRequest) (*dto.VendorResponse, error)
	GetVendor(ctx context.Context, ownerID, id uuid.UUID) (*dto.VendorResponse, error)
	ListVendors(ctx context.Context, ownerID uuid.UUID, filter dto.PartyFilter) (*dto.VendorListResponse, error)
	UpdateVendor(ctx context.Context, ownerID, id uuid.UUID, req dto.UpdateVendorRequest) (*dto.VendorResponse, error)
	DeleteVendor(ctx context.Context, ownerID, id uuid.UUID) error

	// RecordPayment posts a payment made to the vendor, reducing what the
	// business owes. Same guard semantics as customer payments.
	RecordPayment(ctx context.Context, ownerID, id uuid.UUID, req dto.RecordPaymentRequest) (*dto.TransactionResponse, error)
	// Adjust posts a manual credit (reduces the payable) or debit (raises it)
	// note to the vendor ledger.
	Adjust(ctx context.Context, ownerID, id uuid.UUID, req dto.VendorAdjustmentRequest) (*dto.TransactionResponse, error)
	ListTransactions(ctx context.Context, ownerID, id uuid.UUID, filter dto.TransactionFilter) (*dto.TransactionListResponse, error)
}

type vendorService struct {
	repo repository.VendorRepository
}

func NewVendorService(repo repository.VendorRepository) VendorService {
	return &vendorService{repo: repo}
}

func (s *vendorService) CreateVendor(ctx context.Context, ownerID uuid.UUID, req dto.CreateVendorRequest) (*dto.VendorResponse, error) {
	v := &model.Vendor{
		OwnerID: ownerID,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "create vendor", err)
	}
	return vendorToResponse(v), nil
}

func (s *vendorService) GetVendor(ctx context.Context, ownerID, id uuid.UUID) (*dto.VendorResponse, error) {
	v, err := s.loadVendor(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return vendorToResponse(v), nil
}

func (s *vendorService) ListVendors(ctx context.Context, ownerID uuid.UUID, filter dto.PartyFilter) (*dto.VendorListResponse, error) {
	vendors, total, err := s.repo.List(ctx, ownerID, filter)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "list vendors", err)
	}
	resp := &dto.VendorListResponse{
		Data:  make([]dto.VendorResponse, 0, len(vendors)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range vendors {
		resp.Data = append(resp.Data, *vendorToResponse(&vendors[i]))
	}
	return resp, nil
}

func (s *vendorService) UpdateVendor(ctx context.Context, ownerID, id uuid.UUID, req dto.UpdateVendorRequest) (*dto.VendorResponse, error) {
	v, err := s.loadVendor(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		v.Name = *req.Name
	}
	if req.Email != nil {
		v.Email = req.Email
	}
	if req.Phone != nil {
		v.Phone = req.Phone
	}
	if req.Address != nil {
		v.Address = req.Address
	}
	if err := s.repo.Update(ctx, v); err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "update vendor", err)
	}
	return vendorToResponse(v), nil
}

func (s *vendorService) DeleteVendor(ctx context.Context, ownerID, id uuid.UUID) error {
	v, err := s.loadVendor(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if !v.Balance.IsZero() {
		return apperror.New(apperror.KindConflict,
			"vendor has an outstanding payable; settle it before deleting")
	}
	return s.repo.Delete(ctx, ownerID, id)
}

func (s *vendorService) RecordPayment(ctx context.Context, ownerID, id uuid.UUID, req dto.RecordPaymentRequest) (*dto.TransactionResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.New(apperror.KindInvalidAmount, "payment amount must be positive")
	}
	v, err := s.loadVendor(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	description := "Payment made"
	if req.Description != nil && *req.Description != "" {
		description = *req.Description
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	var txn *model.VendorTransaction
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		newBalance, ok, err := s.repo.DebitBalanceGuardedTx(tx, v.ID, req.Amount)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.Newf(apperror.KindExceedsBalance,
				"payment %s exceeds outstanding payable %s", req.Amount, v.Balance)
		}
		if err := s.repo.AddPaidTx(tx, v.ID, req.Amount); err != nil {
			return err
		}
		txn = &model.VendorTransaction{
			OwnerID:      ownerID,
			VendorID:     v.ID,
			Type:         model.VendorTxnPayment,
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
	return vendorTxnToResponse(txn), nil
}

func (s *vendorService) Adjust(ctx context.Context, ownerID, id uuid.UUID, req dto.VendorAdjustmentRequest) (*dto.TransactionResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.New(apperror.KindInvalidAmount, "adjustment amount must be positive")
	}
	v, err := s.loadVendor(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	description := "Manual adjustment"
	if req.Description != nil && *req.Description != "" {
		description = *req.Description
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	var txn *model.VendorTransaction
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var (
			newBalance = v.Balance
			txnType    string
			amount     = req.Amount
		)
		switch req.Type {
		case "debit":
			txnType = model.VendorTxnDebit
			b, err := s.repo.IncrementBalanceTx(tx, v.ID, req.Amount)
			if err != nil {
				return err
			}
			newBalance = b
		case "credit":
			txnType = model.VendorTxnCredit
			amount = req.Amount.Neg()
			b, ok, err := s.repo.DebitBalanceGuardedTx(tx, v.ID, req.Amount)
			if err != nil {
				return err
			}
			if !ok {
				return apperror.Newf(apperror.KindExceedsBalance,
					"credit note %s exceeds outstanding payable %s", req.Amount, v.Balance)
			}
			newBalance = b
		default:
			return apperror.Validation("adjustment type must be credit or debit")
		}
		txn = &model.VendorTransaction{
			OwnerID:      ownerID,
			VendorID:     v.ID,
			Type:         txnType,
			Amount:       amount,
			BalanceAfter: newBalance,
			Description:  description,
			Date:         date,
		}
		return s.repo.CreateTransactionTx(tx, txn)
	})
	if txErr != nil {
		return nil, txErr
	}
	return vendorTxnToResponse(txn), nil
}

func (s *vendorService) ListTransactions(ctx context.Context, ownerID, id uuid.UUID, filter dto.TransactionFilter) (*dto.TransactionListResponse, error) {
	if _, err := s.loadVendor(ctx, ownerID, id); err != nil {
		return nil, err
	}
	txns, total, err := s.repo.ListTransactions(ctx, ownerID, id, filter)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "list vendor transactions", err)
	}
	resp := &dto.TransactionListResponse{
		Data:  make([]dto.TransactionResponse, 0, len(txns)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range txns {
		resp.Data = append(resp.Data, *vendorTxnToResponse(&txns[i]))
	}
	return resp, nil
}

func (s *vendorService) loadVendor(ctx context.Context, ownerID, id uuid.UUID) (*model.Vendor, error) {
	v, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("vendor not found")
		}
		return nil, apperror.Wrap(apperror.KindInternal, "load vendor", err)
	}
	return v, nil
}

func vendorToResponse(v *model.Vendor) *dto.VendorResponse {
	return &dto.VendorResponse{
		ID:             v.ID.String(),
		Name:           v.Name,
		Email:          v.Email,
		Phone:          v.Phone,
		Address:        v.Address,
		Balance:        v.Balance,
		TotalPurchases: v.TotalPurchases,
		TotalPaid:      v.TotalPaid,
		CreatedAt:      v.CreatedAt.Format(dateTimeFormat),
	}
}

func vendorTxnToResponse(t *model.VendorTransaction) *dto.TransactionResponse {
	return &dto.TransactionResponse{
		ID:           t.ID.String(),
		Type:         t.Type,
		Amount:       t.Amount,
		BalanceAfter: t.BalanceAfter,
		Description:  t.Description,
		Date:         t.Date.Format(dateFormat),
	}
}
