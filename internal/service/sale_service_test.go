package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"bizzops/internal/apperror"
	"bizzops/internal/dto"
	"bizzops/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type saleEnv struct {
	svc       SaleService
	inventory *stubInventoryRepo
	customers *stubCustomerRepo
	sales     *stubSaleRepo
	invoices  *stubInvoiceRepo
	owners    *stubOwnerRepo
	ownerID   uuid.UUID
}

func newSaleEnv(t *testing.T) *saleEnv {
	t.Helper()
	inventory := newStubInventoryRepo()
	customers := newStubCustomerRepo()
	sales := newStubSaleRepo()
	invoices := newStubInvoiceRepo()
	owners := newStubOwnerRepo()

	owner := &model.Owner{Name: "Pat", Email: "pat@shop.test", BusinessName: "Corner Shop", BusinessPrefix: "COR"}
	require.NoError(t, owners.Create(context.Background(), owner))

	invoiceSvc := NewInvoiceService(invoices)
	svc := NewSaleService(sales, inventory, customers, invoiceSvc, owners, nil)

	return &saleEnv{
		svc:       svc,
		inventory: inventory,
		customers: customers,
		sales:     sales,
		invoices:  invoices,
		owners:    owners,
		ownerID:   owner.ID,
	}
}

func (e *saleEnv) seedItem(stock int, cost, price int64) *model.InventoryItem {
	return e.inventory.put(&model.InventoryItem{
		OwnerID:     e.ownerID,
		Item:        "Widget",
		Category:    "Hardware",
		Warehouse:   "Main",
		Cost:        decimal.NewFromInt(cost),
		SalePrice:   decimal.NewFromInt(price),
		StockRemain: stock,
	})
}

func (e *saleEnv) seedCustomer(name string) *model.Customer {
	c := &model.Customer{OwnerID: e.ownerID, Name: name}
	_ = e.customers.Create(context.Background(), c)
	return c
}

func TestCreateSaleCreditPipeline(t *testing.T) {
	env := newSaleEnv(t)
	item := env.seedItem(5, 10, 15)
	customer := env.seedCustomer("Alice")
	cid := customer.ID.String()

	resp, err := env.svc.CreateSale(context.Background(), env.ownerID, dto.CreateSaleRequest{
		Items:      []dto.SaleLineRequest{{ItemID: item.ID.String(), Qty: 5}},
		CustomerID: &cid,
		Paid:       false,
	})
	require.NoError(t, err)

	assert.True(t, resp.TotalSale.Equal(decimal.NewFromInt(75)), "total sale: %s", resp.TotalSale)
	assert.True(t, resp.TotalCost.Equal(decimal.NewFromInt(50)))
	assert.True(t, resp.TotalProfit.Equal(decimal.NewFromInt(25)))
	assert.True(t, resp.ProfitPercent.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, "Alice", resp.CustomerName)
	assert.Equal(t, "COR001", resp.InvoiceNo)

	// Stock decremented to zero, never below.
	stored, err := env.inventory.FindByID(context.Background(), env.ownerID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.StockRemain)

	// Unpaid credit sale raises the balance by the invoice grand total.
	c, err := env.customers.FindByID(context.Background(), env.ownerID, customer.ID)
	require.NoError(t, err)
	assert.True(t, c.Balance.Equal(decimal.NewFromInt(75)))
	assert.True(t, c.TotalSales.Equal(decimal.NewFromInt(75)))

	// One ledger entry whose running sum reconciles with the balance.
	txns, _, err := env.customers.ListTransactions(context.Background(), env.ownerID, customer.ID, dto.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, model.CustomerTxnSale, txns[0].Type)
	assert.True(t, txns[0].BalanceAfter.Equal(c.Balance))
	assert.True(t, env.customers.ledgerSum(customer.ID).Equal(c.Balance))
}

func TestCreateSalePaidSkipsLedger(t *testing.T) {
	env := newSaleEnv(t)
	item := env.seedItem(5, 10, 15)
	customer := env.seedCustomer("Bob")
	cid := customer.ID.String()

	_, err := env.svc.CreateSale(context.Background(), env.ownerID, dto.CreateSaleRequest{
		Items:      []dto.SaleLineRequest{{ItemID: item.ID.String(), Qty: 2}},
		CustomerID: &cid,
		Paid:       true,
	})
	require.NoError(t, err)

	c, err := env.customers.FindByID(context.Background(), env.ownerID, customer.ID)
	require.NoError(t, err)
	assert.True(t, c.Balance.IsZero(), "paid sale must not touch the balance")
	assert.True(t, c.TotalSales.Equal(decimal.NewFromInt(30)), "aggregates still bumped")

	txns, _, err := env.customers.ListTransactions(context.Background(), env.ownerID, customer.ID, dto.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestCreateSaleWalkIn(t *testing.T) {
	env := newSaleEnv(t)
	item := env.seedItem(3, 10, 15)

	resp, err := env.svc.CreateSale(context.Background(), env.ownerID, dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{{ItemID: item.ID.String(), Qty: 1}},
		Paid:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, WalkInCustomer, resp.CustomerName)
	assert.Nil(t, resp.CustomerID)
}

func TestCreateSaleAutoCreatesCustomerByContact(t *testing.T) {
	env := newSaleEnv(t)
	item := env.seedItem(3, 10, 15)
	name := "Carol"
	email := "carol@example.test"

	resp, err := env.svc.CreateSale(context.Background(), env.ownerID, dto.CreateSaleRequest{
		Items:         []dto.SaleLineRequest{{ItemID: item.ID.String(), Qty: 1}},
		CustomerName:  &name,
		CustomerEmail: &email,
	})
	require.NoError(t, err)
	assert.Equal(t, "Carol", resp.CustomerName)

	found, err := env.customers.FindByContact(context.Background(), env.ownerID, &email, nil)
	require.NoError(t, err)
	assert.Equal(t, "Carol", found.Name)

	// A second sale with the same email reuses the customer.
	_, err = env.svc.CreateSale(context.Background(), env.ownerID, dto.CreateSaleRequest{
		Items:         []dto.SaleLineRequest{{ItemID: item.ID.String(), Qty: 1}},
		CustomerName:  &name,
		CustomerEmail: &email,
	})
	require.NoError(t, err)
	_, total, err := env.customers.List(context.Background(), env.ownerID, dto.PartyFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestCreateSaleInsufficientStock(t *testing.T) {
	env := newSaleEnv(t)
	item := env.seedItem(5, 10, 15)

	_, err := env.svc.CreateSale(context.Background(), env.ownerID, dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{{ItemID: item.ID.String(), Qty: 6}},
	})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindInsufficientStock))

	stored, err := env.inventory.FindByID(context.Background(), env.ownerID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.StockRemain, "failed sale must not change stock")
}

func TestCreateSaleMultiLineFailureLeavesNoWrites(t *testing.T) {
	env := newSaleEnv(t)
	okItem := env.seedItem(5, 10, 15)
	shortItem := env.inventory.put(&model.InventoryItem{
		OwnerID:     env.ownerID,
		Item:        "Gasket",
		Category:    "Hardware",
		Warehouse:   "Main",
		Cost:        decimal.NewFromInt(1),
		SalePrice:   decimal.NewFromInt(2),
		StockRemain: 1,
	})

	_, err := env.svc.CreateSale(context.Background(), env.ownerID, dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{
			{ItemID: okItem.ID.String(), Qty: 2},
			{ItemID: shortItem.ID.String(), Qty: 3},
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindInsufficientStock))

	a, _ := env.inventory.FindByID(context.Background(), env.ownerID, okItem.ID)
	b, _ := env.inventory.FindByID(context.Background(), env.ownerID, shortItem.ID)
	assert.Equal(t, 5, a.StockRemain)
	assert.Equal(t, 1, b.StockRemain)

	_, total, err := env.sales.List(context.Background(), env.ownerID, dto.SaleFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestCreateSaleUnknownItem(t *testing.T) {
	env := newSaleEnv(t)
	_, err := env.svc.CreateSale(context.Background(), env.ownerID, dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{{ItemID: uuid.NewString(), Qty: 1}},
	})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestCreateSaleMalformedDate(t *testing.T) {
	env := newSaleEnv(t)
	item := env.seedItem(5, 10, 15)

	bad := "13/01/2026"
	_, err := env.svc.CreateSale(context.Background(), env.ownerID, dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{{ItemID: item.ID.String(), Qty: 1}},
		Paid:  true,
		Date:  &bad,
	})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	// Rejected before any write.
	after, err := env.inventory.FindByID(context.Background(), env.ownerID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, after.StockRemain)
}

func TestDeleteSaleCompensates(t *testing.T) {
	env := newSaleEnv(t)
	item := env.seedItem(5, 10, 15)
	customer := env.seedCustomer("Dana")
	cid := customer.ID.String()

	resp, err := env.svc.CreateSale(context.Background(), env.ownerID, dto.CreateSaleRequest{
		Items:      []dto.SaleLineRequest{{ItemID: item.ID.String(), Qty: 3}},
		CustomerID: &cid,
	})
	require.NoError(t, err)
	saleID := uuid.MustParse(resp.ID)

	require.NoError(t, env.svc.DeleteSale(context.Background(), env.ownerID, saleID))

	stored, err := env.inventory.FindByID(context.Background(), env.ownerID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.StockRemain, "stock restored")

	c, err := env.customers.FindByID(context.Background(), env.ownerID, customer.ID)
	require.NoError(t, err)
	assert.True(t, c.Balance.IsZero(), "balance reversed")
	assert.True(t, c.TotalSales.IsZero(), "aggregates reversed")
	assert.True(t, env.customers.ledgerSum(customer.ID).IsZero(), "ledger reconciles to zero")

	_, err = env.sales.FindByID(context.Background(), env.ownerID, saleID)
	assert.Error(t, err)

	// The linked invoice is gone too.
	_, total, err := env.invoices.List(context.Background(), env.ownerID, dto.InvoiceFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestDeleteSaleUnknown(t *testing.T) {
	env := newSaleEnv(t)
	err := env.svc.DeleteSale(context.Background(), env.ownerID, uuid.New())
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

// Concurrent checkouts must receive distinct, gap-free invoice numbers and
// never oversell the shared item.
func TestConcurrentSalesNumberingAndStock(t *testing.T) {
	env := newSaleEnv(t)
	const n = 20
	item := env.seedItem(n, 10, 15)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.svc.CreateSale(context.Background(), env.ownerID, dto.CreateSaleRequest{
				Items: []dto.SaleLineRequest{{ItemID: item.ID.String(), Qty: 1}},
				Paid:  true,
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := env.inventory.FindByID(context.Background(), env.ownerID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.StockRemain)

	invoices, total, err := env.invoices.List(context.Background(), env.ownerID, dto.InvoiceFilter{})
	require.NoError(t, err)
	require.Equal(t, int64(n), total)

	seen := make(map[string]bool, n)
	for _, inv := range invoices {
		seen[inv.InvoiceNo] = true
	}
	for i := 1; i <= n; i++ {
		want := fmt.Sprintf("COR%03d", i)
		assert.True(t, seen[want], "missing invoice number %s", want)
	}
}
