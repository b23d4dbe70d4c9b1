package service

import (
	"bytes"
	"context"
	"testing"

	"bizzops/internal/dto"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type importEnv struct {
	svc       ImportExportService
	inventory *stubInventoryRepo
	customers *stubCustomerRepo
	expenses  *stubExpenseRepo
	vendors   *stubVendorRepo
	ownerID   uuid.UUID
}

func newImportEnv() *importEnv {
	inventoryRepo := newStubInventoryRepo()
	vendorRepo := newStubVendorRepo()
	customerRepo := newStubCustomerRepo()
	expenseRepo := newStubExpenseRepo()
	saleRepo := newStubSaleRepo()

	inventorySvc := NewInventoryService(inventoryRepo, vendorRepo)
	customerSvc := NewCustomerService(customerRepo)
	expenseSvc := NewExpenseService(expenseRepo)

	return &importEnv{
		svc:       NewImportExportService(inventorySvc, customerSvc, expenseSvc, inventoryRepo, saleRepo, customerRepo),
		inventory: inventoryRepo,
		customers: customerRepo,
		expenses:  expenseRepo,
		vendors:   vendorRepo,
		ownerID:   uuid.New(),
	}
}

// sheet builds an in-memory workbook with a header row followed by the given
// data rows, the same shape our import endpoints accept.
func sheet(t *testing.T, header []interface{}, rows [][]interface{}) *bytes.Reader {
	t.Helper()

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cellRef, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return bytes.NewReader(buf.Bytes())
}

func TestImportInventoryMixedRows(t *testing.T) {
	env := newImportEnv()
	header := []interface{}{"Item", "Category", "Warehouse", "Cost", "Sale Price", "Qty"}

	r := sheet(t, header, [][]interface{}{
		{"Widget", "Hardware", "Main", "10.00", "15.00", "5"},
		{"Gadget", "Hardware", "Main", "not-a-number", "20.00", "3"},
		{"Gizmo", "Hardware"}, // too few columns
		{"", "Hardware", "Main", "1.00", "2.00", "1"},
		{"Doohickey", "Hardware", "Main", "4.00", "6.00", "0"},
	})

	resp, err := env.svc.ImportInventory(context.Background(), env.ownerID, r)
	require.NoError(t, err)

	require.Len(t, resp.Success, 1)
	require.Len(t, resp.Failed, 4)

	// Row numbers are 1-based and account for the header row.
	assert.Equal(t, 3, resp.Failed[0].Row)
	assert.Contains(t, resp.Failed[0].Error, "invalid cost")
	assert.Equal(t, 4, resp.Failed[1].Row)
	assert.Equal(t, 5, resp.Failed[2].Row)
	assert.Contains(t, resp.Failed[2].Error, "item name is required")
	assert.Equal(t, 6, resp.Failed[3].Row)
	assert.Contains(t, resp.Failed[3].Error, "invalid qty")

	item, err := env.inventory.FindByID(context.Background(), env.ownerID, mustID(t, resp.Success[0]))
	require.NoError(t, err)
	assert.Equal(t, "Widget", item.Item)
	assert.Equal(t, 5, item.StockRemain)
	assert.True(t, item.PurchaseAmount.Equal(decimal.NewFromInt(50)))
}

func TestImportInventoryWithVendorColumn(t *testing.T) {
	env := newImportEnv()
	header := []interface{}{"Item", "Category", "Warehouse", "Cost", "Sale Price", "Qty", "Vendor", "Paid"}

	r := sheet(t, header, [][]interface{}{
		{"Cable", "Electrical", "Main", "2.50", "4.00", "40", "Acme Supply", "no"},
	})

	resp, err := env.svc.ImportInventory(context.Background(), env.ownerID, r)
	require.NoError(t, err)
	require.Len(t, resp.Success, 1)
	require.Empty(t, resp.Failed)

	vendor, err := env.vendors.FindByName(context.Background(), env.ownerID, "Acme Supply")
	require.NoError(t, err)
	assert.True(t, vendor.Balance.Equal(decimal.NewFromInt(100)), "unpaid purchase should raise the payable")
}

func TestImportCustomers(t *testing.T) {
	env := newImportEnv()
	header := []interface{}{"Name", "Email", "Phone", "Address"}

	r := sheet(t, header, [][]interface{}{
		{"Alice", "alice@example.test", "555-0101", "1 Main St"},
		{"Bob"},
		{""},
	})

	resp, err := env.svc.ImportCustomers(context.Background(), env.ownerID, r)
	require.NoError(t, err)
	require.Len(t, resp.Success, 2)
	require.Len(t, resp.Failed, 1)
	assert.Equal(t, 4, resp.Failed[0].Row)

	alice, err := env.customers.FindByID(context.Background(), env.ownerID, mustID(t, resp.Success[0]))
	require.NoError(t, err)
	require.NotNil(t, alice.Email)
	assert.Equal(t, "alice@example.test", *alice.Email)
}

func TestImportExpenses(t *testing.T) {
	env := newImportEnv()
	header := []interface{}{"Name", "Category", "Amount", "Paid"}

	r := sheet(t, header, [][]interface{}{
		{"Rent", "Premises", "1200.00", "paid"},
		{"Coffee", "Office", "-5"},
	})

	resp, err := env.svc.ImportExpenses(context.Background(), env.ownerID, r)
	require.NoError(t, err)
	require.Len(t, resp.Success, 1)
	require.Len(t, resp.Failed, 1)

	expense, err := env.expenses.FindByID(context.Background(), env.ownerID, mustID(t, resp.Success[0]))
	require.NoError(t, err)
	assert.True(t, expense.Paid)
	assert.True(t, expense.Amount.Equal(decimal.NewFromInt(1200)))
}

func TestImportRejectsEmptySheet(t *testing.T) {
	env := newImportEnv()
	r := sheet(t, []interface{}{"Item"}, nil)

	_, err := env.svc.ImportInventory(context.Background(), env.ownerID, r)
	require.Error(t, err)
}

func TestExportInventoryRoundTrips(t *testing.T) {
	env := newImportEnv()
	inventorySvc := NewInventoryService(env.inventory, env.vendors)

	_, err := inventorySvc.AddInventory(context.Background(), env.ownerID, dto.AddInventoryRequest{
		Item:      "Widget",
		Category:  "Hardware",
		Warehouse: "Main",
		Cost:      decimal.NewFromInt(10),
		SalePrice: decimal.NewFromInt(15),
		Qty:       5,
		Paid:      true,
	})
	require.NoError(t, err)

	data, err := env.svc.ExportInventory(context.Background(), env.ownerID)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Inventory")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Item", rows[0][0])
	assert.Equal(t, "Widget", rows[1][0])
	assert.Equal(t, "10.00", rows[1][3])
	assert.Equal(t, "5", rows[1][5])
}

func TestExportCustomersIncludesBalance(t *testing.T) {
	env := newImportEnv()
	customerSvc := NewCustomerService(env.customers)

	created, err := customerSvc.CreateCustomer(context.Background(), env.ownerID, dto.CreateCustomerRequest{Name: "Alice"})
	require.NoError(t, err)
	_, err = env.customers.IncrementBalanceTx(nil, mustID(t, created.ID), decimal.NewFromInt(75))
	require.NoError(t, err)

	data, err := env.svc.ExportCustomers(context.Background(), env.ownerID)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Customers")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Alice", rows[1][0])
	assert.Equal(t, "75.00", rows[1][3])
}
