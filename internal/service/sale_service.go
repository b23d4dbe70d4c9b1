package service

import (
	"context"
	"errors"

	"bizzops/internal/apperror"
	"bizzops/internal/dto"
	"bizzops/internal/model"
	"bizzops/internal/repository"
	"bizzops/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WalkInCustomer is the display name used for anonymous sales.
const WalkInCustomer = "Walk-in Customer"

type SaleService interface {
	CreateSale(ctx context.Context, ownerID uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	DeleteSale(ctx context.Context, ownerID, id uuid.UUID) error
	GetSale(ctx context.Context, ownerID, id uuid.UUID) (*dto.SaleResponse, error)
	ListSales(ctx context.Context, ownerID uuid.UUID, filter dto.SaleFilter) (*dto.SaleListResponse, error)
}

type saleService struct {
	repo       repository.SaleRepository
	inventory  repository.InventoryRepository
	customers  repository.CustomerRepository
	invoices   InvoiceService
	ownerRepo  repository.OwnerRepository
	dispatcher *worker.Dispatcher
}

func NewSaleService(
	repo repository.SaleRepository,
	inventory repository.InventoryRepository,
	customers repository.CustomerRepository,
	invoices InvoiceService,
	ownerRepo repository.OwnerRepository,
	dispatcher *worker.Dispatcher,
) SaleService {
	return &saleService{
		repo:       repo,
		inventory:  inventory,
		customers:  customers,
		invoices:   invoices,
		ownerRepo:  ownerRepo,
		dispatcher: dispatcher,
	}
}

// ── CreateSale ────────────────────────────────────────────────────────────────
// Full pipeline, one ACID unit:
//   1. Resolve every line item and pre-validate stock — no writes yet.
//   2. Compute line snapshots and totals.
//   3. Resolve the customer (id / auto-create / walk-in).
//   4. BEGIN TX: create sale, decrement stock (guarded), create invoice with
//      the next per-owner number, post the customer ledger entry.
//   5. COMMIT, then enqueue the invoice PDF/email job best-effort.
//
// Any failure before step 4 leaves no writes; any failure inside the
// transaction rolls everything back, so no partial sale is ever observable.

func (s *saleService) CreateSale(ctx context.Context, ownerID uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	saleDate, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	// 1–2. Resolve lines and pre-check stock before any mutation, so a
	// failing line never leaves earlier lines decremented.
	type resolvedLine struct {
		item       *model.InventoryItem
		qty        int
		lineTotal  decimal.Decimal
		lineCost   decimal.Decimal
		lineProfit decimal.Decimal
	}

	resolved := make([]resolvedLine, 0, len(req.Items))
	totalSale := decimal.Zero
	totalCost := decimal.Zero

	for _, line := range req.Items {
		itemID, err := uuid.Parse(line.ItemID)
		if err != nil {
			return nil, apperror.Validation("invalid item_id")
		}
		item, err := s.inventory.FindByID(ctx, ownerID, itemID)
		if err != nil {
			return nil, apperror.NotFound("inventory item not found")
		}
		if item.StockRemain < line.Qty {
			return nil, apperror.Newf(apperror.KindInsufficientStock,
				"insufficient stock for %q: requested %d, available %d",
				item.Item, line.Qty, item.StockRemain)
		}

		qty := decimal.NewFromInt(int64(line.Qty))
		lineTotal := item.SalePrice.Mul(qty)
		lineCost := item.Cost.Mul(qty)
		resolved = append(resolved, resolvedLine{
			item:       item,
			qty:        line.Qty,
			lineTotal:  lineTotal,
			lineCost:   lineCost,
			lineProfit: lineTotal.Sub(lineCost),
		})
		totalSale = totalSale.Add(lineTotal)
		totalCost = totalCost.Add(lineCost)
	}

	totalProfit := totalSale.Sub(totalCost)
	profitPercent := decimal.Zero
	if totalCost.IsPositive() {
		profitPercent = totalProfit.Div(totalCost).Mul(decimal.NewFromInt(100)).Round(2)
	}

	// 3. Customer resolution.
	customer, err := s.resolveCustomer(ctx, ownerID, req)
	if err != nil {
		return nil, err
	}

	owner, err := s.ownerRepo.FindByID(ctx, ownerID)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "load owner", err)
	}

	// 4. ACID transaction.
	var sale model.Sale
	var invoice *model.Invoice
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		sale = model.Sale{
			OwnerID:       ownerID,
			TotalSale:     totalSale,
			TotalCost:     totalCost,
			TotalProfit:   totalProfit,
			ProfitPercent: profitPercent,
			Paid:          req.Paid,
			Date:          saleDate,
		}
		if customer != nil {
			sale.CustomerID = &customer.ID
		}
		for _, r := range resolved {
			sale.Items = append(sale.Items, model.SaleItem{
				ItemID:     r.item.ID,
				ItemName:   r.item.Item,
				Qty:        r.qty,
				UnitPrice:  r.item.SalePrice,
				UnitCost:   r.item.Cost,
				TaxSlab:    r.item.TaxSlab,
				LineTotal:  r.lineTotal,
				LineProfit: r.lineProfit,
			})
		}
		if err := s.repo.CreateTx(tx, &sale); err != nil {
			return err
		}

		// Guarded decrement: the WHERE stock_remain >= qty condition closes
		// the race between the pre-check above and this write.
		for _, r := range resolved {
			ok, err := s.inventory.DecrementStockTx(tx, r.item.ID, r.qty)
			if err != nil {
				return err
			}
			if !ok {
				return apperror.Newf(apperror.KindInsufficientStock,
					"insufficient stock for %q", r.item.Item)
			}
		}

		// Invoice with per-owner sequential number and tax breakdown.
		inv, err := s.invoices.CreateForSaleTx(tx, owner, &sale, customer)
		if err != nil {
			return err
		}
		invoice = inv
		if err := s.repo.SetInvoiceTx(tx, sale.ID, inv.ID); err != nil {
			return err
		}
		sale.InvoiceID = &inv.ID

		// Ledger posting. Unpaid credit sale raises the balance; a paid sale
		// only bumps the lifetime aggregates.
		if customer != nil {
			if err := s.customers.AddAggregatesTx(tx, customer.ID, inv.GrandTotal, totalProfit); err != nil {
				return err
			}
			if !req.Paid {
				newBalance, err := s.customers.IncrementBalanceTx(tx, customer.ID, inv.GrandTotal)
				if err != nil {
					return err
				}
				txn := &model.CustomerTransaction{
					OwnerID:      ownerID,
					CustomerID:   customer.ID,
					Type:         model.CustomerTxnSale,
					Amount:       inv.GrandTotal,
					BalanceAfter: newBalance,
					SaleID:       &sale.ID,
					InvoiceID:    &inv.ID,
					Description:  "Credit sale " + inv.InvoiceNo,
					Date:         saleDate,
				}
				if err := s.customers.CreateTransactionTx(tx, txn); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// 5. Async invoice delivery — fire & forget.
	if s.dispatcher != nil && invoice != nil {
		payload := worker.InvoiceJobPayload{InvoiceID: invoice.ID.String()}
		if customer != nil && customer.Email != nil {
			payload.Email = *customer.Email
		}
		_ = s.dispatcher.EnqueueInvoice(ctx, payload)
	}

	resp := saleToResponse(&sale)
	if customer != nil {
		resp.CustomerName = customer.Name
	}
	if invoice != nil {
		resp.InvoiceNo = invoice.InvoiceNo
	}
	return resp, nil
}

// resolveCustomer implements the three-way resolution: explicit id, implicit
// lookup-or-create by contact, or nil for a walk-in sale.
func (s *saleService) resolveCustomer(ctx context.Context, ownerID uuid.UUID, req dto.CreateSaleRequest) (*model.Customer, error) {
	if req.CustomerID != nil {
		id, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			return nil, apperror.Validation("invalid customer_id")
		}
		c, err := s.customers.FindByID(ctx, ownerID, id)
		if err != nil {
			return nil, apperror.NotFound("customer not found")
		}
		return c, nil
	}

	if req.CustomerName == nil || (req.CustomerEmail == nil && req.CustomerPhone == nil) {
		return nil, nil // walk-in
	}

	if existing, err := s.customers.FindByContact(ctx, ownerID, req.CustomerEmail, req.CustomerPhone); err == nil {
		return existing, nil
	}

	c := &model.Customer{
		OwnerID: ownerID,
		Name:    *req.CustomerName,
		Email:   req.CustomerEmail,
		Phone:   req.CustomerPhone,
	}
	if err := s.customers.Create(ctx, c); err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "create customer", err)
	}
	return c, nil
}

// ── DeleteSale ────────────────────────────────────────────────────────────────
// Compensating removal: restores stock, reverses the customer balance and
// aggregates for unpaid sales, appends a reversing ledger entry, and removes
// the linked invoice. All inside one transaction.

func (s *saleService) DeleteSale(ctx context.Context, ownerID, id uuid.UUID) error {
	sale, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return apperror.NotFound("sale not found")
	}

	grandTotal := sale.TotalSale
	if sale.Invoice != nil {
		grandTotal = sale.Invoice.GrandTotal
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, item := range sale.Items {
			if err := s.inventory.AddStockTx(tx, item.ItemID, item.Qty); err != nil {
				return err
			}
		}

		if sale.CustomerID != nil {
			negTotal := grandTotal.Neg()
			if err := s.customers.AddAggregatesTx(tx, *sale.CustomerID, negTotal, sale.TotalProfit.Neg()); err != nil {
				return err
			}
			if !sale.Paid {
				newBalance, ok, err := s.customers.DebitBalanceGuardedTx(tx, *sale.CustomerID, grandTotal)
				if err != nil {
					return err
				}
				if !ok {
					return apperror.New(apperror.KindExceedsBalance,
						"customer balance no longer covers this sale; record the payment removal first")
				}
				txn := &model.CustomerTransaction{
					OwnerID:      ownerID,
					CustomerID:   *sale.CustomerID,
					Type:         model.CustomerTxnSale,
					Amount:       negTotal,
					BalanceAfter: newBalance,
					SaleID:       &sale.ID,
					Description:  "Sale deleted",
					Date:         sale.Date,
				}
				if err := s.customers.CreateTransactionTx(tx, txn); err != nil {
					return err
				}
			}
		}

		if err := s.invoices.DeleteForSaleTx(tx, sale.ID); err != nil {
			return err
		}
		return s.repo.DeleteTx(tx, sale.ID)
	})
}

func (s *saleService) GetSale(ctx context.Context, ownerID, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("sale not found")
		}
		return nil, apperror.Wrap(apperror.KindInternal, "load sale", err)
	}
	return saleToResponse(sale), nil
}

func (s *saleService) ListSales(ctx context.Context, ownerID uuid.UUID, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	sales, total, err := s.repo.List(ctx, ownerID, filter)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "list sales", err)
	}
	items := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		items = append(items, *saleToResponse(&sales[i]))
	}
	return &dto.SaleListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func saleToResponse(sale *model.Sale) *dto.SaleResponse {
	lines := make([]dto.SaleLineResponse, 0, len(sale.Items))
	for _, item := range sale.Items {
		lines = append(lines, dto.SaleLineResponse{
			ItemID:     item.ItemID.String(),
			ItemName:   item.ItemName,
			Qty:        item.Qty,
			UnitPrice:  item.UnitPrice,
			UnitCost:   item.UnitCost,
			LineTotal:  item.LineTotal,
			LineProfit: item.LineProfit,
		})
	}
	resp := &dto.SaleResponse{
		ID:            sale.ID.String(),
		CustomerName:  WalkInCustomer,
		Items:         lines,
		TotalSale:     sale.TotalSale,
		TotalCost:     sale.TotalCost,
		TotalProfit:   sale.TotalProfit,
		ProfitPercent: sale.ProfitPercent,
		Paid:          sale.Paid,
		Date:          sale.Date.Format(dateFormat),
		CreatedAt:     sale.CreatedAt.Format(dateTimeFormat),
	}
	if sale.CustomerID != nil {
		cid := sale.CustomerID.String()
		resp.CustomerID = &cid
	}
	if sale.Customer != nil {
		resp.CustomerName = sale.Customer.Name
	}
	if sale.InvoiceID != nil {
		iid := sale.InvoiceID.String()
		resp.InvoiceID = &iid
	}
	if sale.Invoice != nil {
		resp.InvoiceNo = sale.Invoice.InvoiceNo
	}
	return resp
}
