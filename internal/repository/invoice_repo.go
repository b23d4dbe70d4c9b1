package repository

import (
	"context"
	"time"

	"bizzops/internal/dto"
	"bizzops/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvoiceStats are the dashboard's paid/unpaid numbers.
type InvoiceStats struct {
	Total        int64
	Paid         int64
	Unpaid       int64
	UnpaidAmount decimal.Decimal
}

type InvoiceRepository interface {
	CreateTx(tx *gorm.DB, inv *model.Invoice) error
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Invoice, error)
	// FindAny loads an invoice without owner scoping, for the background
	// worker which only has the invoice id.
	FindAny(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	List(ctx context.Context, ownerID uuid.UUID, filter dto.InvoiceFilter) ([]model.Invoice, int64, error)
	MarkPaid(ctx context.Context, ownerID, id uuid.UUID) error
	SetPDFPath(ctx context.Context, id uuid.UUID, path string) error
	DeleteBySaleTx(tx *gorm.DB, saleID uuid.UUID) error

	// NextSeqTx atomically increments and returns the per-owner invoice
	// sequence. The single-row upsert is the serialization point that makes
	// numbers gap-free and duplicate-free under concurrent checkout.
	NextSeqTx(tx *gorm.DB, ownerID uuid.UUID) (int64, error)
	// FindLastByOwner returns the most recently created invoice, used by the
	// numbering fallback when the counter row is unavailable.
	FindLastByOwner(ctx context.Context, ownerID uuid.UUID) (*model.Invoice, error)

	Stats(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (*InvoiceStats, error)

	DB() *gorm.DB
}

type invoiceRepo struct{ db *gorm.DB }

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository { return &invoiceRepo{db: db} }

func (r *invoiceRepo) DB() *gorm.DB { return r.db }

func (r *invoiceRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *invoiceRepo) CreateTx(tx *gorm.DB, inv *model.Invoice) error {
	return r.conn(tx).Create(inv).Error
}

func (r *invoiceRepo) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Invoice, error) {
	var inv model.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&inv).Error
	return &inv, err
}

func (r *invoiceRepo) FindAny(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var inv model.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&inv, "id = ?", id).Error
	return &inv, err
}

func (r *invoiceRepo) List(ctx context.Context, ownerID uuid.UUID, filter dto.InvoiceFilter) ([]model.Invoice, int64, error) {
	var invoices []model.Invoice
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Invoice{}).Where("owner_id = ?", ownerID)
	switch filter.Paid {
	case "true":
		q = q.Where("paid = true")
	case "false":
		q = q.Where("paid = false")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Items").
		Order("date DESC, created_at DESC").
		Limit(filter.Limit).Offset(offset).
		Find(&invoices).Error
	return invoices, total, err
}

func (r *invoiceRepo) MarkPaid(ctx context.Context, ownerID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.Invoice{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Update("paid", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *invoiceRepo) SetPDFPath(ctx context.Context, id uuid.UUID, path string) error {
	return r.db.WithContext(ctx).Model(&model.Invoice{}).
		Where("id = ?", id).
		Update("pdf_path", path).Error
}

func (r *invoiceRepo) DeleteBySaleTx(tx *gorm.DB, saleID uuid.UUID) error {
	c := r.conn(tx)
	var inv model.Invoice
	if err := c.Where("sale_id = ?", saleID).First(&inv).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}
	if err := c.Where("invoice_id = ?", inv.ID).Delete(&model.InvoiceItem{}).Error; err != nil {
		return err
	}
	return c.Delete(&model.Invoice{}, inv.ID).Error
}

func (r *invoiceRepo) NextSeqTx(tx *gorm.DB, ownerID uuid.UUID) (int64, error) {
	var seq int64
	err := r.conn(tx).Raw(`
		INSERT INTO invoice_counters (owner_id, last_seq, updated_at)
		VALUES (?, 1, NOW())
		ON CONFLICT (owner_id)
		DO UPDATE SET last_seq = invoice_counters.last_seq + 1, updated_at = NOW()
		RETURNING last_seq`, ownerID).Scan(&seq).Error
	return seq, err
}

func (r *invoiceRepo) FindLastByOwner(ctx context.Context, ownerID uuid.UUID) (*model.Invoice, error) {
	var inv model.Invoice
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		First(&inv).Error
	return &inv, err
}

func (r *invoiceRepo) Stats(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (*InvoiceStats, error) {
	var stats InvoiceStats
	var unpaidAmount string
	row := r.db.WithContext(ctx).Model(&model.Invoice{}).
		Select(`COUNT(*),
			COUNT(*) FILTER (WHERE paid),
			COUNT(*) FILTER (WHERE NOT paid),
			COALESCE(SUM(grand_total) FILTER (WHERE NOT paid), 0)`).
		Where("owner_id = ? AND date BETWEEN ? AND ?", ownerID, from, to).
		Row()
	if err := row.Scan(&stats.Total, &stats.Paid, &stats.Unpaid, &unpaidAmount); err != nil {
		return nil, err
	}
	v, err := decimal.NewFromString(unpaidAmount)
	if err != nil {
		return nil, err
	}
	stats.UnpaidAmount = v
	return &stats, nil
}
