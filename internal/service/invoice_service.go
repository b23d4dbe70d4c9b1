package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"bizzops/internal/apperror"
	"bizzops/internal/dto"
	"bizzops/internal/model"
	"bizzops/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvoiceService owns invoice numbering and document generation. Invoices for
// sales are created inside the sale transaction so a sale and its invoice
// commit or roll back together.
type InvoiceService interface {
	// CreateForSaleTx builds and persists the invoice for a freshly created
	// sale. Must be called inside the sale's transaction.
	CreateForSaleTx(tx *gorm.DB, owner *model.Owner, sale *model.Sale, customer *model.Customer) (*model.Invoice, error)
	// DeleteForSaleTx removes a sale's invoice as part of the sale's
	// compensating delete transaction.
	DeleteForSaleTx(tx *gorm.DB, saleID uuid.UUID) error

	GetInvoice(ctx context.Context, ownerID, id uuid.UUID) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context, ownerID uuid.UUID, filter dto.InvoiceFilter) (*dto.InvoiceListResponse, error)
	MarkPaid(ctx context.Context, ownerID, id uuid.UUID) error
	// PDFPath returns the stored path of the invoice's generated PDF, or a
	// not-found error when the worker has not produced one yet.
	PDFPath(ctx context.Context, ownerID, id uuid.UUID) (string, error)
}

type invoiceService struct {
	repo repository.InvoiceRepository
}

func NewInvoiceService(repo repository.InvoiceRepository) InvoiceService {
	return &invoiceService{repo: repo}
}

func (s *invoiceService) CreateForSaleTx(tx *gorm.DB, owner *model.Owner, sale *model.Sale, customer *model.Customer) (*model.Invoice, error) {
	no, err := s.nextInvoiceNo(tx, owner)
	if err != nil {
		return nil, err
	}

	inv := &model.Invoice{
		OwnerID:      owner.ID,
		InvoiceNo:    no,
		SaleID:       &sale.ID,
		CustomerName: WalkInCustomer,
		SubTotal:     sale.TotalSale,
		Paid:         sale.Paid,
		Date:         sale.Date,
	}
	if customer != nil {
		inv.CustomerName = customer.Name
		inv.CustomerEmail = customer.Email
		inv.CustomerPhone = customer.Phone
		inv.CustomerAddress = customer.Address
	}

	for _, it := range sale.Items {
		base := it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Qty)))
		tax := it.TaxSlab.TaxOn(base)
		inv.TaxAmount = inv.TaxAmount.Add(tax)
		inv.Items = append(inv.Items, model.InvoiceItem{
			Name:      it.ItemName,
			Qty:       it.Qty,
			Price:     it.UnitPrice,
			Cost:      it.UnitCost,
			TaxSlab:   it.TaxSlab,
			TaxAmount: tax,
			LineTotal: base.Add(tax),
		})
	}
	inv.GrandTotal = inv.SubTotal.Add(inv.TaxAmount)

	if err := s.repo.CreateTx(tx, inv); err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "create invoice", err)
	}
	return inv, nil
}

// nextInvoiceNo assigns the next per-owner number. The counter upsert is
// authoritative; the fallbacks only matter when the counter row cannot be
// reached (fresh migration from the pre-counter schema).
func (s *invoiceService) nextInvoiceNo(tx *gorm.DB, owner *model.Owner) (string, error) {
	seq, err := s.repo.NextSeqTx(tx, owner.ID)
	if err == nil {
		return fmt.Sprintf("%s%03d", owner.BusinessPrefix, seq), nil
	}

	last, lastErr := s.repo.FindLastByOwner(context.Background(), owner.ID)
	if lastErr == nil {
		if n, ok := trailingNumber(last.InvoiceNo); ok {
			return fmt.Sprintf("%s%03d", owner.BusinessPrefix, n+1), nil
		}
	}
	// Last resort: time-derived, still unique per owner.
	return fmt.Sprintf("%s%d", owner.BusinessPrefix, time.Now().UnixNano()), nil
}

// trailingNumber parses the numeric suffix of an invoice number.
func trailingNumber(no string) (int64, bool) {
	i := len(no)
	for i > 0 && no[i-1] >= '0' && no[i-1] <= '9' {
		i--
	}
	if i == len(no) {
		return 0, false
	}
	n, err := strconv.ParseInt(no[i:], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (s *invoiceService) DeleteForSaleTx(tx *gorm.DB, saleID uuid.UUID) error {
	return s.repo.DeleteBySaleTx(tx, saleID)
}

func (s *invoiceService) GetInvoice(ctx context.Context, ownerID, id uuid.UUID) (*dto.InvoiceResponse, error) {
	inv, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("invoice not found")
		}
		return nil, apperror.Wrap(apperror.KindInternal, "load invoice", err)
	}
	return invoiceToResponse(inv), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, ownerID uuid.UUID, filter dto.InvoiceFilter) (*dto.InvoiceListResponse, error) {
	invoices, total, err := s.repo.List(ctx, ownerID, filter)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "list invoices", err)
	}
	resp := &dto.InvoiceListResponse{
		Data:  make([]dto.InvoiceResponse, 0, len(invoices)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range invoices {
		resp.Data = append(resp.Data, *invoiceToResponse(&invoices[i]))
	}
	return resp, nil
}

func (s *invoiceService) MarkPaid(ctx context.Context, ownerID, id uuid.UUID) error {
	err := s.repo.MarkPaid(ctx, ownerID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("invoice not found")
	}
	return err
}

func (s *invoiceService) PDFPath(ctx context.Context, ownerID, id uuid.UUID) (string, error) {
	inv, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperror.NotFound("invoice not found")
		}
		return "", apperror.Wrap(apperror.KindInternal, "load invoice", err)
	}
	if inv.PDFPath == nil {
		return "", apperror.NotFound("invoice PDF not generated yet")
	}
	return *inv.PDFPath, nil
}

func invoiceToResponse(inv *model.Invoice) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:            inv.ID.String(),
		InvoiceNo:     inv.InvoiceNo,
		CustomerName:  inv.CustomerName,
		CustomerEmail: inv.CustomerEmail,
		CustomerPhone: inv.CustomerPhone,
		SubTotal:      inv.SubTotal,
		TaxAmount:     inv.TaxAmount,
		GrandTotal:    inv.GrandTotal,
		Paid:          inv.Paid,
		Date:          inv.Date.Format(dateFormat),
		CreatedAt:     inv.CreatedAt.Format(dateTimeFormat),
	}
	if inv.SaleID != nil {
		id := inv.SaleID.String()
		resp.SaleID = &id
	}
	for _, it := range inv.Items {
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			Name:      it.Name,
			Qty:       it.Qty,
			Price:     it.Price,
			TaxAmount: it.TaxAmount,
			LineTotal: it.LineTotal,
		})
	}
	return resp
}
