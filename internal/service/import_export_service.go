package service

import (
	"context"
	"io"
	"strconv"
	"strings"

	"bizzops/internal/apperror"
	"bizzops/internal/dto"
	"bizzops/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ImportExportService handles spreadsheet bulk import and export. Imports are
// best-effort per row: a bad row is reported, not fatal.
// ImportFunc and ExportFunc let the HTTP layer route every sheet kind through
// a single upload/download code path.
type (
	ImportFunc func(ctx context.Context, ownerID uuid.UUID, r io.Reader) (*dto.ImportResponse, error)
	ExportFunc func(ctx context.Context, ownerID uuid.UUID) ([]byte, error)
)

type ImportExportService interface {
	ImportInventory(ctx context.Context, ownerID uuid.UUID, r io.Reader) (*dto.ImportResponse, error)
	ImportCustomers(ctx context.Context, ownerID uuid.UUID, r io.Reader) (*dto.ImportResponse, error)
	ImportExpenses(ctx context.Context, ownerID uuid.UUID, r io.Reader) (*dto.ImportResponse, error)

	ExportInventory(ctx context.Context, ownerID uuid.UUID) ([]byte, error)
	ExportSales(ctx context.Context, ownerID uuid.UUID) ([]byte, error)
	ExportCustomers(ctx context.Context, ownerID uuid.UUID) ([]byte, error)
}

type importExportService struct {
	inventorySvc InventoryService
	customerSvc  CustomerService
	expenseSvc   ExpenseService
	inventory    repository.InventoryRepository
	sales        repository.SaleRepository
	customers    repository.CustomerRepository
}

func NewImportExportService(
	inventorySvc InventoryService,
	customerSvc CustomerService,
	expenseSvc ExpenseService,
	inventory repository.InventoryRepository,
	sales repository.SaleRepository,
	customers repository.CustomerRepository,
) ImportExportService {
	return &importExportService{
		inventorySvc: inventorySvc,
		customerSvc:  customerSvc,
		expenseSvc:   expenseSvc,
		inventory:    inventory,
		sales:        sales,
		customers:    customers,
	}
}

const exportPageLimit = 10000

// ─── Import ──────────────────────────────────────────────────────────────────

func (s *importExportService) ImportInventory(ctx context.Context, ownerID uuid.UUID, r io.Reader) (*dto.ImportResponse, error) {
	rows, err := readSheet(r)
	if err != nil {
		return nil, err
	}

	resp := &dto.ImportResponse{Success: []string{}, Failed: []dto.ImportRowError{}}
	for i, row := range rows {
		rowNo := i + 2 // 1-based, after the header row
		if len(row) < 6 {
			resp.Failed = append(resp.Failed, dto.ImportRowError{Row: rowNo, Error: "expected at least 6 columns: item, category, warehouse, cost, sale_price, qty"})
			continue
		}
		cost, err := decimal.NewFromString(strings.TrimSpace(row[3]))
		if err != nil {
			resp.Failed = append(resp.Failed, dto.ImportRowError{Row: rowNo, Error: "invalid cost: " + row[3]})
			continue
		}
		price, err := decimal.NewFromString(strings.TrimSpace(row[4]))
		if err != nil {
			resp.Failed = append(resp.Failed, dto.ImportRowError{Row: rowNo, Error: "invalid sale_price: " + row[4]})
			continue
		}
		qty, err := strconv.Atoi(strings.TrimSpace(row[5]))
		if err != nil || qty < 1 {
			resp.Failed = append(resp.Failed, dto.ImportRowError{Row: rowNo, Error: "invalid qty: " + row[5]})
			continue
		}

		req := dto.AddInventoryRequest{
			Item:      strings.TrimSpace(row[0]),
			Category:  strings.TrimSpace(row[1]),
			Warehouse: strings.TrimSpace(row[2]),
			Cost:      cost,
			SalePrice: price,
			Qty:       qty,
		}
		if req.Item == "" {
			resp.Failed = append(resp.Failed, dto.ImportRowError{Row: rowNo, Error: "item name is required"})
			continue
		}
		if len(row) > 6 && strings.TrimSpace(row[6]) != "" {
			name := strings.TrimSpace(row[6])
			req.VendorName = &name
		}
		if len(row) > 7 {
			req.Paid = parseBool(row[7])
		}

		item, err := s.inventorySvc.AddInventory(ctx, ownerID, req)
		if err != nil {
			resp.Failed = append(resp.Failed, dto.ImportRowError{Row: rowNo, Error: err.Error()})
			continue
		}
		resp.Success = append(resp.Success, item.ID)
	}
	return resp, nil
}

func (s *importExportService) ImportCustomers(ctx context.Context, ownerID uuid.UUID, r io.Reader) (*dto.ImportResponse, error) {
	rows, err := readSheet(r)
	if err != nil {
		return nil, err
	}

	resp := &dto.ImportResponse{Success: []string{}, Failed: []dto.ImportRowError{}}
	for i, row := range rows {
		rowNo := i + 2
		if len(row) < 1 || strings.TrimSpace(row[0]) == "" {
			resp.Failed = append(resp.Failed, dto.ImportRowError{Row: rowNo, Error: "name is required"})
			continue
		}
		req := dto.CreateCustomerRequest{Name: strings.TrimSpace(row[0])}
		if v := cell(row, 1); v != "" {
			req.Email = &v
		}
		if v := cell(row, 2); v != "" {
			req.Phone = &v
		}
		if v := cell(row, 3); v != "" {
			req.Address = &v
		}

		customer, err := s.customerSvc.CreateCustomer(ctx, ownerID, req)
		if err != nil {
			resp.Failed = append(resp.Failed, dto.ImportRowError{Row: rowNo, Error: err.Error()})
			continue
		}
		resp.Success = append(resp.Success, customer.ID)
	}
	return resp, nil
}

func (s *importExportService) ImportExpenses(ctx context.Context, ownerID uuid.UUID, r io.Reader) (*dto.ImportResponse, error) {
	rows, err := readSheet(r)
	if err != nil {
		return nil, err
	}

	resp := &dto.ImportResponse{Success: []string{}, Failed: []dto.ImportRowError{}}
	for i, row := range rows {
		rowNo := i + 2
		if len(row) < 3 {
			resp.Failed = append(resp.Failed, dto.ImportRowError{Row: rowNo, Error: "expected at least 3 columns: name, category, amount"})
			continue
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(row[2]))
		if err != nil {
			resp.Failed = append(resp.Failed, dto.ImportRowError{Row: rowNo, Error: "invalid amount: " + row[2]})
			continue
		}
		req := dto.CreateExpenseRequest{
			Name:     strings.TrimSpace(row[0]),
			Category: strings.TrimSpace(row[1]),
			Amount:   amount,
		}
		if len(row) > 3 {
			paid := parseBool(row[3])
			req.Paid = &paid
		}
		if v := cell(row, 4); v != "" {
			req.Date = &v
		}

		expense, err := s.expenseSvc.CreateExpense(ctx, ownerID, req)
		if err != nil {
			resp.Failed = append(resp.Failed, dto.ImportRowError{Row: rowNo, Error: err.Error()})
			continue
		}
		resp.Success = append(resp.Success, expense.ID)
	}
	return resp, nil
}

// ─── Export ──────────────────────────────────────────────────────────────────

func (s *importExportService) ExportInventory(ctx context.Context, ownerID uuid.UUID) ([]byte, error) {
	items, _, err := s.inventory.List(ctx, ownerID, dto.InventoryFilter{Page: 1, Limit: exportPageLimit})
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "list inventory", err)
	}

	header := []interface{}{"Item", "Category", "Warehouse", "Cost", "Sale Price", "Stock", "Purchase Amount", "Paid"}
	rows := make([][]interface{}, 0, len(items))
	for i := range items {
		it := &items[i]
		rows = append(rows, []interface{}{
			it.Item, it.Category, it.Warehouse,
			it.Cost.StringFixed(2), it.SalePrice.StringFixed(2),
			it.StockRemain, it.PurchaseAmount.StringFixed(2), it.Paid,
		})
	}
	return writeSheet("Inventory", header, rows)
}

func (s *importExportService) ExportSales(ctx context.Context, ownerID uuid.UUID) ([]byte, error) {
	sales, _, err := s.sales.List(ctx, ownerID, dto.SaleFilter{Page: 1, Limit: exportPageLimit})
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "list sales", err)
	}

	header := []interface{}{"Date", "Invoice", "Customer", "Total", "Cost", "Profit", "Paid"}
	rows := make([][]interface{}, 0, len(sales))
	for i := range sales {
		sl := &sales[i]
		customer := WalkInCustomer
		if sl.Customer != nil {
			customer = sl.Customer.Name
		}
		invoiceNo := ""
		if sl.Invoice != nil {
			invoiceNo = sl.Invoice.InvoiceNo
		}
		rows = append(rows, []interface{}{
			sl.Date.Format(dateFormat), invoiceNo, customer,
			sl.TotalSale.StringFixed(2), sl.TotalCost.StringFixed(2),
			sl.TotalProfit.StringFixed(2), sl.Paid,
		})
	}
	return writeSheet("Sales", header, rows)
}

func (s *importExportService) ExportCustomers(ctx context.Context, ownerID uuid.UUID) ([]byte, error) {
	customers, _, err := s.customers.List(ctx, ownerID, dto.PartyFilter{Page: 1, Limit: exportPageLimit})
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "list customers", err)
	}

	header := []interface{}{"Name", "Email", "Phone", "Balance", "Total Sales", "Total Profit"}
	rows := make([][]interface{}, 0, len(customers))
	for i := range customers {
		cu := &customers[i]
		rows = append(rows, []interface{}{
			cu.Name, strDeref(cu.Email), strDeref(cu.Phone),
			cu.Balance.StringFixed(2), cu.TotalSales.StringFixed(2), cu.TotalProfit.StringFixed(2),
		})
	}
	return writeSheet("Customers", header, rows)
}

// ─── Spreadsheet helpers ─────────────────────────────────────────────────────

// readSheet returns the data rows of the first sheet, header excluded.
func readSheet(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperror.Validation("could not read spreadsheet: " + err.Error())
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperror.Validation("spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperror.Validation("could not read rows: " + err.Error())
	}
	if len(rows) <= 1 {
		return nil, apperror.Validation("spreadsheet has no data rows")
	}
	return rows[1:], nil
}

func writeSheet(sheet string, header []interface{}, rows [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheet)
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "write header", err)
	}
	for i, row := range rows {
		cellRef, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cellRef, &row); err != nil {
			return nil, apperror.Wrap(apperror.KindInternal, "write row", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "serialize spreadsheet", err)
	}
	return buf.Bytes(), nil
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "1", "paid":
		return true
	}
	return false
}

func strDeref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
