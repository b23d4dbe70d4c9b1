package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"bizzops/internal/dto"
	"bizzops/internal/model"
	"bizzops/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func mustID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}

// In-memory repository stubs. Tx methods accept a nil *gorm.DB because runTx
// calls fn(nil) when no database is wired, which lets the service layer run
// its full transaction body against these maps. Mutexes keep the stubs safe
// under the concurrent invoice-numbering tests.

// ── Inventory ─────────────────────────────────────────────────────────────────

type stubInventoryRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*model.InventoryItem
}

func newStubInventoryRepo() *stubInventoryRepo {
	return &stubInventoryRepo{items: make(map[uuid.UUID]*model.InventoryItem)}
}

// put stores a copy so a caller mutating its struct after the call cannot
// alias the "persisted" record, mirroring real database semantics.
func (r *stubInventoryRepo) put(item *model.InventoryItem) *model.InventoryItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	cp := *item
	r.items[item.ID] = &cp
	return &cp
}

func (r *stubInventoryRepo) Create(_ context.Context, item *model.InventoryItem) error {
	r.put(item)
	return nil
}

func (r *stubInventoryRepo) CreateTx(_ *gorm.DB, item *model.InventoryItem) error {
	r.put(item)
	return nil
}

func (r *stubInventoryRepo) SaveTx(_ *gorm.DB, item *model.InventoryItem) error {
	r.put(item)
	return nil
}

func (r *stubInventoryRepo) FindByID(_ context.Context, ownerID, id uuid.UUID) (*model.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok || item.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *item
	return &cp, nil
}

func (r *stubInventoryRepo) FindMatching(_ context.Context, ownerID uuid.UUID, item, category, warehouse string) (*model.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items {
		if it.OwnerID == ownerID &&
			strings.EqualFold(it.Item, item) &&
			strings.EqualFold(it.Category, category) &&
			strings.EqualFold(it.Warehouse, warehouse) {
			cp := *it
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubInventoryRepo) List(_ context.Context, ownerID uuid.UUID, _ dto.InventoryFilter) ([]model.InventoryItem, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.InventoryItem
	for _, it := range r.items {
		if it.OwnerID == ownerID {
			out = append(out, *it)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubInventoryRepo) Update(_ context.Context, item *model.InventoryItem) error {
	r.put(item)
	return nil
}

func (r *stubInventoryRepo) Delete(_ context.Context, ownerID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok || item.OwnerID != ownerID {
		return gorm.ErrRecordNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *stubInventoryRepo) DecrementStockTx(_ *gorm.DB, id uuid.UUID, qty int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if item.StockRemain < qty {
		return false, nil
	}
	item.StockRemain -= qty
	return true, nil
}

func (r *stubInventoryRepo) AddStockTx(_ *gorm.DB, id uuid.UUID, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	item.StockRemain += qty
	return nil
}

func (r *stubInventoryRepo) UpdatePurchaseTx(_ *gorm.DB, id uuid.UUID, amount decimal.Decimal, paid bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	item.PurchaseAmount = amount
	item.Paid = paid
	item.PurchaseDate = time.Now().UTC()
	return nil
}

func (r *stubInventoryRepo) Aggregates(_ context.Context, ownerID uuid.UUID, lowThreshold int) (*repository.InventoryAggregates, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	agg := &repository.InventoryAggregates{StockValue: decimal.Zero}
	for _, it := range r.items {
		if it.OwnerID != ownerID {
			continue
		}
		agg.ItemCount++
		agg.StockValue = agg.StockValue.Add(it.Cost.Mul(decimal.NewFromInt(int64(it.StockRemain))))
		switch {
		case it.StockRemain == 0:
			agg.OutOfStock++
		case it.StockRemain <= lowThreshold:
			agg.LowStock++
		}
	}
	return agg, nil
}

func (r *stubInventoryRepo) DB() *gorm.DB { return nil }

var _ repository.InventoryRepository = (*stubInventoryRepo)(nil)

// ── Customers ─────────────────────────────────────────────────────────────────

type stubCustomerRepo struct {
	mu        sync.Mutex
	customers map[uuid.UUID]*model.Customer
	txns      []model.CustomerTransaction
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{customers: make(map[uuid.UUID]*model.Customer)}
}

func (r *stubCustomerRepo) put(c *model.Customer) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.customers[c.ID] = c
}

func (r *stubCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(c)
	return nil
}

func (r *stubCustomerRepo) CreateTx(_ *gorm.DB, c *model.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(c)
	return nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, ownerID, id uuid.UUID) (*model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok || c.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCustomerRepo) FindByContact(_ context.Context, ownerID uuid.UUID, email, phone *string) (*model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.customers {
		if c.OwnerID != ownerID {
			continue
		}
		if email != nil && c.Email != nil && *c.Email == *email {
			cp := *c
			return &cp, nil
		}
		if phone != nil && c.Phone != nil && *c.Phone == *phone {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCustomerRepo) List(_ context.Context, ownerID uuid.UUID, _ dto.PartyFilter) ([]model.Customer, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Customer
	for _, c := range r.customers {
		if c.OwnerID == ownerID {
			out = append(out, *c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubCustomerRepo) Update(_ context.Context, c *model.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(c)
	return nil
}

func (r *stubCustomerRepo) Delete(_ context.Context, ownerID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok || c.OwnerID != ownerID {
		return gorm.ErrRecordNotFound
	}
	delete(r.customers, id)
	return nil
}

func (r *stubCustomerRepo) IncrementBalanceTx(_ *gorm.DB, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return decimal.Zero, gorm.ErrRecordNotFound
	}
	c.Balance = c.Balance.Add(amount)
	return c.Balance, nil
}

func (r *stubCustomerRepo) DebitBalanceGuardedTx(_ *gorm.DB, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return decimal.Zero, false, gorm.ErrRecordNotFound
	}
	if c.Balance.LessThan(amount) {
		return decimal.Zero, false, nil
	}
	c.Balance = c.Balance.Sub(amount)
	return c.Balance, true, nil
}

func (r *stubCustomerRepo) AddAggregatesTx(_ *gorm.DB, id uuid.UUID, sales, profit decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.TotalSales = c.TotalSales.Add(sales)
	c.TotalProfit = c.TotalProfit.Add(profit)
	return nil
}

func (r *stubCustomerRepo) CreateTransactionTx(_ *gorm.DB, t *model.CustomerTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.txns = append(r.txns, *t)
	return nil
}

func (r *stubCustomerRepo) ListTransactions(_ context.Context, ownerID, customerID uuid.UUID, _ dto.TransactionFilter) ([]model.CustomerTransaction, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.CustomerTransaction
	for _, t := range r.txns {
		if t.OwnerID == ownerID && t.CustomerID == customerID {
			out = append(out, t)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubCustomerRepo) Aggregates(_ context.Context, ownerID uuid.UUID) (*repository.CustomerAggregates, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	agg := &repository.CustomerAggregates{Receivable: decimal.Zero}
	for _, c := range r.customers {
		if c.OwnerID == ownerID {
			agg.TotalCustomers++
			agg.Receivable = agg.Receivable.Add(c.Balance)
		}
	}
	return agg, nil
}

func (r *stubCustomerRepo) ActiveAndReturning(_ context.Context, _ uuid.UUID, _, _ time.Time) (int64, int64, error) {
	return 0, 0, nil
}

func (r *stubCustomerRepo) DB() *gorm.DB { return nil }

// ledgerSum adds up all ledger amounts for one customer. Used by tests to
// check that the running balance reconciles with the transaction history.
func (r *stubCustomerRepo) ledgerSum(customerID uuid.UUID) decimal.Decimal {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := decimal.Zero
	for _, t := range r.txns {
		if t.CustomerID == customerID {
			sum = sum.Add(t.Amount)
		}
	}
	return sum
}

var _ repository.CustomerRepository = (*stubCustomerRepo)(nil)

// ── Vendors ───────────────────────────────────────────────────────────────────

type stubVendorRepo struct {
	mu      sync.Mutex
	vendors map[uuid.UUID]*model.Vendor
	txns    []model.VendorTransaction
}

func newStubVendorRepo() *stubVendorRepo {
	return &stubVendorRepo{vendors: make(map[uuid.UUID]*model.Vendor)}
}

func (r *stubVendorRepo) put(v *model.Vendor) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.vendors[v.ID] = v
}

func (r *stubVendorRepo) Create(_ context.Context, v *model.Vendor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(v)
	return nil
}

func (r *stubVendorRepo) CreateTx(_ *gorm.DB, v *model.Vendor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(v)
	return nil
}

func (r *stubVendorRepo) FindByID(_ context.Context, ownerID, id uuid.UUID) (*model.Vendor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vendors[id]
	if !ok || v.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *stubVendorRepo) FindByName(_ context.Context, ownerID uuid.UUID, name string) (*model.Vendor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.vendors {
		if v.OwnerID == ownerID && strings.EqualFold(v.Name, name) {
			cp := *v
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubVendorRepo) List(_ context.Context, ownerID uuid.UUID, _ dto.PartyFilter) ([]model.Vendor, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Vendor
	for _, v := range r.vendors {
		if v.OwnerID == ownerID {
			out = append(out, *v)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubVendorRepo) Update(_ context.Context, v *model.Vendor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(v)
	return nil
}

func (r *stubVendorRepo) Delete(_ context.Context, ownerID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vendors[id]
	if !ok || v.OwnerID != ownerID {
		return gorm.ErrRecordNotFound
	}
	delete(r.vendors, id)
	return nil
}

func (r *stubVendorRepo) IncrementBalanceTx(_ *gorm.DB, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vendors[id]
	if !ok {
		return decimal.Zero, gorm.ErrRecordNotFound
	}
	v.Balance = v.Balance.Add(amount)
	return v.Balance, nil
}

func (r *stubVendorRepo) DebitBalanceGuardedTx(_ *gorm.DB, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vendors[id]
	if !ok {
		return decimal.Zero, false, gorm.ErrRecordNotFound
	}
	if v.Balance.LessThan(amount) {
		return decimal.Zero, false, nil
	}
	v.Balance = v.Balance.Sub(amount)
	return v.Balance, true, nil
}

func (r *stubVendorRepo) AddPurchasesTx(_ *gorm.DB, id uuid.UUID, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vendors[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.TotalPurchases = v.TotalPurchases.Add(amount)
	return nil
}

func (r *stubVendorRepo) AddPaidTx(_ *gorm.DB, id uuid.UUID, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vendors[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.TotalPaid = v.TotalPaid.Add(amount)
	return nil
}

func (r *stubVendorRepo) CreateTransactionTx(_ *gorm.DB, t *model.VendorTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.txns = append(r.txns, *t)
	return nil
}

func (r *stubVendorRepo) ListTransactions(_ context.Context, ownerID, vendorID uuid.UUID, _ dto.TransactionFilter) ([]model.VendorTransaction, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.VendorTransaction
	for _, t := range r.txns {
		if t.OwnerID == ownerID && t.VendorID == vendorID {
			out = append(out, t)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubVendorRepo) DB() *gorm.DB { return nil }

var _ repository.VendorRepository = (*stubVendorRepo)(nil)

// ── Sales ─────────────────────────────────────────────────────────────────────

type stubSaleRepo struct {
	mu    sync.Mutex
	sales map[uuid.UUID]*model.Sale
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (r *stubSaleRepo) CreateTx(_ *gorm.DB, s *model.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	for i := range s.Items {
		if s.Items[i].ID == uuid.Nil {
			s.Items[i].ID = uuid.New()
		}
		s.Items[i].SaleID = s.ID
	}
	cp := *s
	r.sales[s.ID] = &cp
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, ownerID, id uuid.UUID) (*model.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[id]
	if !ok || s.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *stubSaleRepo) List(_ context.Context, ownerID uuid.UUID, _ dto.SaleFilter) ([]model.Sale, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Sale
	for _, s := range r.sales {
		if s.OwnerID == ownerID {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubSaleRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sales, id)
	return nil
}

func (r *stubSaleRepo) SetInvoiceTx(_ *gorm.DB, id, invoiceID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.InvoiceID = &invoiceID
	return nil
}

func (r *stubSaleRepo) TotalsInRange(_ context.Context, ownerID uuid.UUID, from, to time.Time) (*repository.SaleTotals, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := &repository.SaleTotals{
		TotalSale:   decimal.Zero,
		TotalCost:   decimal.Zero,
		TotalProfit: decimal.Zero,
		PaidSale:    decimal.Zero,
	}
	for _, s := range r.sales {
		if s.OwnerID != ownerID || s.Date.Before(from) || s.Date.After(to) {
			continue
		}
		t.Count++
		t.TotalSale = t.TotalSale.Add(s.TotalSale)
		t.TotalCost = t.TotalCost.Add(s.TotalCost)
		t.TotalProfit = t.TotalProfit.Add(s.TotalProfit)
		if s.Paid {
			t.PaidSale = t.PaidSale.Add(s.TotalSale)
		}
	}
	return t, nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// ── Invoices ──────────────────────────────────────────────────────────────────

type stubInvoiceRepo struct {
	mu       sync.Mutex
	invoices map[uuid.UUID]*model.Invoice
	seqs     map[uuid.UUID]int64
	seqErr   error // force the numbering fallback
}

func newStubInvoiceRepo() *stubInvoiceRepo {
	return &stubInvoiceRepo{
		invoices: make(map[uuid.UUID]*model.Invoice),
		seqs:     make(map[uuid.UUID]int64),
	}
}

func (r *stubInvoiceRepo) CreateTx(_ *gorm.DB, inv *model.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	inv.CreatedAt = time.Now().UTC()
	cp := *inv
	r.invoices[inv.ID] = &cp
	return nil
}

func (r *stubInvoiceRepo) FindByID(_ context.Context, ownerID, id uuid.UUID) (*model.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[id]
	if !ok || inv.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *inv
	return &cp, nil
}

func (r *stubInvoiceRepo) FindAny(_ context.Context, id uuid.UUID) (*model.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *inv
	return &cp, nil
}

func (r *stubInvoiceRepo) List(_ context.Context, ownerID uuid.UUID, _ dto.InvoiceFilter) ([]model.Invoice, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Invoice
	for _, inv := range r.invoices {
		if inv.OwnerID == ownerID {
			out = append(out, *inv)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubInvoiceRepo) MarkPaid(_ context.Context, ownerID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[id]
	if !ok || inv.OwnerID != ownerID {
		return gorm.ErrRecordNotFound
	}
	inv.Paid = true
	return nil
}

func (r *stubInvoiceRepo) SetPDFPath(_ context.Context, id uuid.UUID, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	inv.PDFPath = &path
	return nil
}

func (r *stubInvoiceRepo) DeleteBySaleTx(_ *gorm.DB, saleID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, inv := range r.invoices {
		if inv.SaleID != nil && *inv.SaleID == saleID {
			delete(r.invoices, id)
		}
	}
	return nil
}

func (r *stubInvoiceRepo) NextSeqTx(_ *gorm.DB, ownerID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seqErr != nil {
		return 0, r.seqErr
	}
	r.seqs[ownerID]++
	return r.seqs[ownerID], nil
}

func (r *stubInvoiceRepo) FindLastByOwner(_ context.Context, ownerID uuid.UUID) (*model.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var last *model.Invoice
	for _, inv := range r.invoices {
		if inv.OwnerID != ownerID {
			continue
		}
		if last == nil || inv.CreatedAt.After(last.CreatedAt) {
			last = inv
		}
	}
	if last == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *last
	return &cp, nil
}

func (r *stubInvoiceRepo) Stats(_ context.Context, ownerID uuid.UUID, _, _ time.Time) (*repository.InvoiceStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := &repository.InvoiceStats{UnpaidAmount: decimal.Zero}
	for _, inv := range r.invoices {
		if inv.OwnerID != ownerID {
			continue
		}
		st.Total++
		if inv.Paid {
			st.Paid++
		} else {
			st.Unpaid++
			st.UnpaidAmount = st.UnpaidAmount.Add(inv.GrandTotal)
		}
	}
	return st, nil
}

func (r *stubInvoiceRepo) DB() *gorm.DB { return nil }

var _ repository.InvoiceRepository = (*stubInvoiceRepo)(nil)

// ── Owners ────────────────────────────────────────────────────────────────────

type stubOwnerRepo struct {
	mu     sync.Mutex
	owners map[uuid.UUID]*model.Owner
}

func newStubOwnerRepo() *stubOwnerRepo {
	return &stubOwnerRepo{owners: make(map[uuid.UUID]*model.Owner)}
}

func (r *stubOwnerRepo) Create(_ context.Context, o *model.Owner) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	o.CreatedAt = time.Now().UTC()
	r.owners[o.ID] = o
	return nil
}

func (r *stubOwnerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Owner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.owners[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *stubOwnerRepo) FindByEmail(_ context.Context, email string) (*model.Owner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.owners {
		if o.Email == email {
			cp := *o
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubOwnerRepo) Update(_ context.Context, o *model.Owner) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.owners[o.ID] = o
	return nil
}

var _ repository.OwnerRepository = (*stubOwnerRepo)(nil)

// ── Expenses ──────────────────────────────────────────────────────────────────

type stubExpenseRepo struct {
	mu       sync.Mutex
	expenses map[uuid.UUID]*model.Expense
}

func newStubExpenseRepo() *stubExpenseRepo {
	return &stubExpenseRepo{expenses: make(map[uuid.UUID]*model.Expense)}
}

func (r *stubExpenseRepo) Create(_ context.Context, e *model.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.expenses[e.ID] = e
	return nil
}

func (r *stubExpenseRepo) FindByID(_ context.Context, ownerID, id uuid.UUID) (*model.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.expenses[id]
	if !ok || e.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *stubExpenseRepo) List(_ context.Context, ownerID uuid.UUID, _, _ int) ([]model.Expense, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Expense
	for _, e := range r.expenses {
		if e.OwnerID == ownerID {
			out = append(out, *e)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubExpenseRepo) Update(_ context.Context, e *model.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expenses[e.ID] = e
	return nil
}

func (r *stubExpenseRepo) Delete(_ context.Context, ownerID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.expenses[id]
	if !ok || e.OwnerID != ownerID {
		return gorm.ErrRecordNotFound
	}
	delete(r.expenses, id)
	return nil
}

func (r *stubExpenseRepo) SumInRange(_ context.Context, ownerID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := decimal.Zero
	for _, e := range r.expenses {
		if e.OwnerID == ownerID && !e.Date.Before(from) && !e.Date.After(to) {
			sum = sum.Add(e.Amount)
		}
	}
	return sum, nil
}

var _ repository.ExpenseRepository = (*stubExpenseRepo)(nil)

// ── CRM ───────────────────────────────────────────────────────────────────────

type stubCRMRepo struct {
	mu           sync.Mutex
	tasks        map[uuid.UUID]*model.Task
	appointments map[uuid.UUID]*model.Appointment
	deals        map[uuid.UUID]*model.Deal
}

func newStubCRMRepo() *stubCRMRepo {
	return &stubCRMRepo{
		tasks:        make(map[uuid.UUID]*model.Task),
		appointments: make(map[uuid.UUID]*model.Appointment),
		deals:        make(map[uuid.UUID]*model.Deal),
	}
}

func (r *stubCRMRepo) CreateTask(_ context.Context, t *model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.tasks[t.ID] = t
	return nil
}

func (r *stubCRMRepo) FindTask(_ context.Context, ownerID, id uuid.UUID) (*model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *stubCRMRepo) ListTasks(_ context.Context, ownerID uuid.UUID, _, _ int) ([]model.Task, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Task
	for _, t := range r.tasks {
		if t.OwnerID == ownerID {
			out = append(out, *t)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubCRMRepo) UpdateTask(_ context.Context, t *model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[t.ID] = t
	return nil
}

func (r *stubCRMRepo) DeleteTask(_ context.Context, ownerID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return gorm.ErrRecordNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *stubCRMRepo) CreateAppointment(_ context.Context, a *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.appointments[a.ID] = a
	return nil
}

func (r *stubCRMRepo) FindAppointment(_ context.Context, ownerID, id uuid.UUID) (*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok || a.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *stubCRMRepo) ListAppointments(_ context.Context, ownerID uuid.UUID, _, _ int) ([]model.Appointment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Appointment
	for _, a := range r.appointments {
		if a.OwnerID == ownerID {
			out = append(out, *a)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubCRMRepo) UpdateAppointment(_ context.Context, a *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appointments[a.ID] = a
	return nil
}

func (r *stubCRMRepo) DeleteAppointment(_ context.Context, ownerID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok || a.OwnerID != ownerID {
		return gorm.ErrRecordNotFound
	}
	delete(r.appointments, id)
	return nil
}

func (r *stubCRMRepo) CreateDeal(_ context.Context, d *model.Deal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.deals[d.ID] = d
	return nil
}

func (r *stubCRMRepo) FindDeal(_ context.Context, ownerID, id uuid.UUID) (*model.Deal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.deals[id]
	if !ok || d.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *stubCRMRepo) ListDeals(_ context.Context, ownerID uuid.UUID, _, _ int) ([]model.Deal, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Deal
	for _, d := range r.deals {
		if d.OwnerID == ownerID {
			out = append(out, *d)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubCRMRepo) UpdateDeal(_ context.Context, d *model.Deal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deals[d.ID] = d
	return nil
}

func (r *stubCRMRepo) DeleteDeal(_ context.Context, ownerID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.deals[id]
	if !ok || d.OwnerID != ownerID {
		return gorm.ErrRecordNotFound
	}
	delete(r.deals, id)
	return nil
}

func (r *stubCRMRepo) PipelineCounts(_ context.Context, ownerID uuid.UUID) (*repository.PipelineCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pc := &repository.PipelineCounts{}
	for _, d := range r.deals {
		if d.OwnerID != ownerID {
			continue
		}
		switch d.Stage {
		case model.DealStageWon:
			pc.WonDeals++
		case model.DealStageLost:
			pc.LostDeals++
		default:
			pc.OpenDeals++
		}
	}
	for _, t := range r.tasks {
		if t.OwnerID != ownerID {
			continue
		}
		pc.TaskTotal++
		if t.Done {
			pc.TaskDone++
		}
	}
	return pc, nil
}

var _ repository.CRMRepository = (*stubCRMRepo)(nil)
