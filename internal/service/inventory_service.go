package service

import (
	"context"
	"errors"
	"fmt"

	"bizzops/internal/apperror"
	"bizzops/internal/dto"
	"bizzops/internal/model"
	"bizzops/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryService owns the product catalog and the purchase side of the
// ledger: a restock against a vendor posts a purchase entry and, when unpaid,
// raises the vendor's payable balance.
type InventoryService interface {
	// AddInventory creates a new item or merges stock into an existing one
	// matching on (item, category, warehouse).
	AddInventory(ctx context.Context, ownerID uuid.UUID, req dto.AddInventoryRequest) (*dto.InventoryItemResponse, error)
	GetItem(ctx context.Context, ownerID, id uuid.UUID) (*dto.InventoryItemResponse, error)
	ListItems(ctx context.Context, ownerID uuid.UUID, filter dto.InventoryFilter) (*dto.InventoryListResponse, error)
	UpdateItem(ctx context.Context, ownerID, id uuid.UUID, req dto.UpdateInventoryRequest) (*dto.InventoryItemResponse, error)
	// DeleteItem removes an item from the catalog. Historical sales keep
	// their snapshotted name and prices, so the delete is a hard delete.
	DeleteItem(ctx context.Context, ownerID, id uuid.UUID) error
}

type inventoryService struct {
	repo    repository.InventoryRepository
	vendors repository.VendorRepository
}

func NewInventoryService(repo repository.InventoryRepository, vendors repository.VendorRepository) InventoryService {
	return &inventoryService{repo: repo, vendors: vendors}
}

func (s *inventoryService) AddInventory(ctx context.Context, ownerID uuid.UUID, req dto.AddInventoryRequest) (*dto.InventoryItemResponse, error) {
	vendor, err := s.resolveVendor(ctx, ownerID, req)
	if err != nil {
		return nil, err
	}

	purchaseAmount := req.Cost.Mul(decimal.NewFromInt(int64(req.Qty)))
	slab := taxSlabFromDTO(req.TaxSlab)
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindMatching(ctx, ownerID, req.Item, req.Category, req.Warehouse)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.Wrap(apperror.KindInternal, "find inventory item", err)
	}

	var item *model.InventoryItem
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if existing != nil {
			// Merge restock: stock adds up, catalog fields take the latest
			// values.
			existing.Cost = req.Cost
			existing.SalePrice = req.SalePrice
			if len(slab) > 0 {
				existing.TaxSlab = slab
			}
			if vendor != nil {
				existing.VendorID = &vendor.ID
			}
			if err := s.repo.SaveTx(tx, existing); err != nil {
				return err
			}
			if err := s.repo.AddStockTx(tx, existing.ID, req.Qty); err != nil {
				return err
			}
			if err := s.repo.UpdatePurchaseTx(tx, existing.ID, purchaseAmount, req.Paid); err != nil {
				return err
			}
			existing.StockRemain += req.Qty
			existing.PurchaseAmount = purchaseAmount
			existing.Paid = req.Paid
			item = existing
		} else {
			item = &model.InventoryItem{
				OwnerID:        ownerID,
				Item:           req.Item,
				Category:       req.Category,
				Warehouse:      req.Warehouse,
				Cost:           req.Cost,
				SalePrice:      req.SalePrice,
				TaxSlab:        slab,
				StockRemain:    req.Qty,
				Paid:           req.Paid,
				PurchaseAmount: purchaseAmount,
				PurchaseDate:   date,
			}
			if vendor != nil {
				item.VendorID = &vendor.ID
			}
			if err := s.repo.CreateTx(tx, item); err != nil {
				return err
			}
		}

		if vendor == nil {
			return nil
		}

		// Purchase ledger. An unpaid purchase raises the payable; a paid one
		// only bumps the lifetime aggregates.
		if err := s.vendors.AddPurchasesTx(tx, vendor.ID, purchaseAmount); err != nil {
			return err
		}
		if req.Paid {
			return s.vendors.AddPaidTx(tx, vendor.ID, purchaseAmount)
		}
		newBalance, err := s.vendors.IncrementBalanceTx(tx, vendor.ID, purchaseAmount)
		if err != nil {
			return err
		}
		txn := &model.VendorTransaction{
			OwnerID:         ownerID,
			VendorID:        vendor.ID,
			Type:            model.VendorTxnPurchase,
			Amount:          purchaseAmount,
			BalanceAfter:    newBalance,
			InventoryItemID: &item.ID,
			Description:     fmt.Sprintf("Purchase %s x%d", req.Item, req.Qty),
			Date:            date,
		}
		return s.vendors.CreateTransactionTx(tx, txn)
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := inventoryToResponse(item)
	if vendor != nil {
		resp.VendorName = vendor.Name
	}
	return resp, nil
}

// resolveVendor maps the request's vendor reference to a vendor record:
// explicit id (must exist), name (lookup-or-create), or nil for a
// vendor-less purchase. The id takes precedence when both are present.
func (s *inventoryService) resolveVendor(ctx context.Context, ownerID uuid.UUID, req dto.AddInventoryRequest) (*model.Vendor, error) {
	if req.VendorID != nil && *req.VendorID != "" {
		id, err := uuid.Parse(*req.VendorID)
		if err != nil {
			return nil, apperror.Validation("invalid vendor id")
		}
		v, err := s.vendors.FindByID(ctx, ownerID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperror.NotFound("vendor not found")
			}
			return nil, apperror.Wrap(apperror.KindInternal, "load vendor", err)
		}
		return v, nil
	}
	if req.VendorName != nil && *req.VendorName != "" {
		v, err := s.vendors.FindByName(ctx, ownerID, *req.VendorName)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.KindInternal, "find vendor", err)
		}
		v = &model.Vendor{OwnerID: ownerID, Name: *req.VendorName}
		if err := s.vendors.Create(ctx, v); err != nil {
			return nil, apperror.Wrap(apperror.KindInternal, "create vendor", err)
		}
		return v, nil
	}
	return nil, nil
}

func (s *inventoryService) GetItem(ctx context.Context, ownerID, id uuid.UUID) (*dto.InventoryItemResponse, error) {
	item, err := s.loadItem(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return inventoryToResponse(item), nil
}

func (s *inventoryService) ListItems(ctx context.Context, ownerID uuid.UUID, filter dto.InventoryFilter) (*dto.InventoryListResponse, error) {
	items, total, err := s.repo.List(ctx, ownerID, filter)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "list inventory", err)
	}
	resp := &dto.InventoryListResponse{
		Data:  make([]dto.InventoryItemResponse, 0, len(items)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range items {
		resp.Data = append(resp.Data, *inventoryToResponse(&items[i]))
	}
	return resp, nil
}

func (s *inventoryService) UpdateItem(ctx context.Context, ownerID, id uuid.UUID, req dto.UpdateInventoryRequest) (*dto.InventoryItemResponse, error) {
	item, err := s.loadItem(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if req.Item != nil {
		item.Item = *req.Item
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Warehouse != nil {
		item.Warehouse = *req.Warehouse
	}
	if req.Cost != nil {
		item.Cost = *req.Cost
	}
	if req.SalePrice != nil {
		item.SalePrice = *req.SalePrice
	}
	if req.TaxSlab != nil {
		item.TaxSlab = taxSlabFromDTO(req.TaxSlab)
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "update inventory item", err)
	}
	return inventoryToResponse(item), nil
}

func (s *inventoryService) DeleteItem(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.loadItem(ctx, ownerID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, ownerID, id)
}

func (s *inventoryService) loadItem(ctx context.Context, ownerID, id uuid.UUID) (*model.InventoryItem, error) {
	item, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("inventory item not found")
		}
		return nil, apperror.Wrap(apperror.KindInternal, "load inventory item", err)
	}
	return item, nil
}

func taxSlabFromDTO(in []dto.TaxRateDTO) model.TaxSlab {
	slab := make(model.TaxSlab, 0, len(in))
	for _, r := range in {
		slab = append(slab, model.TaxRate{Name: r.Name, Rate: r.Rate})
	}
	return slab
}

func taxSlabToDTO(in model.TaxSlab) []dto.TaxRateDTO {
	out := make([]dto.TaxRateDTO, 0, len(in))
	for _, r := range in {
		out = append(out, dto.TaxRateDTO{Name: r.Name, Rate: r.Rate})
	}
	return out
}

func inventoryToResponse(item *model.InventoryItem) *dto.InventoryItemResponse {
	resp := &dto.InventoryItemResponse{
		ID:             item.ID.String(),
		Item:           item.Item,
		Category:       item.Category,
		Warehouse:      item.Warehouse,
		Cost:           item.Cost,
		SalePrice:      item.SalePrice,
		StockRemain:    item.StockRemain,
		TaxSlab:        taxSlabToDTO(item.TaxSlab),
		Paid:           item.Paid,
		PurchaseAmount: item.PurchaseAmount,
		PurchaseDate:   item.PurchaseDate.Format(dateFormat),
		CreatedAt:      item.CreatedAt.Format(dateTimeFormat),
	}
	if item.VendorID != nil {
		id := item.VendorID.String()
		resp.VendorID = &id
	}
	if item.Vendor != nil {
		resp.VendorName = item.Vendor.Name
	}
	return resp
}
