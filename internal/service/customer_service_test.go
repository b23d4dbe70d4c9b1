package service

import (
	"context"
	"testing"

	"bizzops/internal/apperror"
	"bizzops/internal/dto"
	"bizzops/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedCustomerWithBalance(repo *stubCustomerRepo, owner *model.Owner, balance int64) *model.Customer {
	c := &model.Customer{
		OwnerID: owner.ID,
		Name:    "Eve",
		Balance: decimal.NewFromInt(balance),
	}
	_ = repo.Create(context.Background(), c)
	return c
}

func testOwner() *model.Owner {
	o := &model.Owner{Name: "Pat", Email: "pat@shop.test", BusinessName: "Corner Shop", BusinessPrefix: "COR"}
	_ = newStubOwnerRepo().Create(context.Background(), o)
	return o
}

func TestRecordPaymentReducesBalance(t *testing.T) {
	repo := newStubCustomerRepo()
	owner := testOwner()
	c := seedCustomerWithBalance(repo, owner, 75)
	svc := NewCustomerService(repo)

	resp, err := svc.RecordPayment(context.Background(), owner.ID, c.ID, dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	assert.Equal(t, model.CustomerTxnPayment, resp.Type)
	assert.True(t, resp.Amount.Equal(decimal.NewFromInt(-50)), "payments post as negative ledger amounts")
	assert.True(t, resp.BalanceAfter.Equal(decimal.NewFromInt(25)))

	stored, err := repo.FindByID(context.Background(), owner.ID, c.ID)
	require.NoError(t, err)
	assert.True(t, stored.Balance.Equal(decimal.NewFromInt(25)))
}

func TestRecordPaymentOverpayRejected(t *testing.T) {
	repo := newStubCustomerRepo()
	owner := testOwner()
	c := seedCustomerWithBalance(repo, owner, 30)
	svc := NewCustomerService(repo)

	_, err := svc.RecordPayment(context.Background(), owner.ID, c.ID, dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(31),
	})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindExceedsBalance))

	// Rejection leaves balance and ledger untouched.
	stored, err := repo.FindByID(context.Background(), owner.ID, c.ID)
	require.NoError(t, err)
	assert.True(t, stored.Balance.Equal(decimal.NewFromInt(30)))
	txns, _, err := repo.ListTransactions(context.Background(), owner.ID, c.ID, dto.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestRecordPaymentNonPositiveAmount(t *testing.T) {
	repo := newStubCustomerRepo()
	owner := testOwner()
	c := seedCustomerWithBalance(repo, owner, 30)
	svc := NewCustomerService(repo)

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		_, err := svc.RecordPayment(context.Background(), owner.ID, c.ID, dto.RecordPaymentRequest{Amount: amount})
		require.Error(t, err)
		assert.True(t, apperror.Is(err, apperror.KindInvalidAmount))
	}
}

func TestRecordPaymentExactBalance(t *testing.T) {
	repo := newStubCustomerRepo()
	owner := testOwner()
	c := seedCustomerWithBalance(repo, owner, 40)
	svc := NewCustomerService(repo)

	resp, err := svc.RecordPayment(context.Background(), owner.ID, c.ID, dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(40),
	})
	require.NoError(t, err)
	assert.True(t, resp.BalanceAfter.IsZero())
}

func TestDeleteCustomerWithBalanceRejected(t *testing.T) {
	repo := newStubCustomerRepo()
	owner := testOwner()
	c := seedCustomerWithBalance(repo, owner, 10)
	svc := NewCustomerService(repo)

	err := svc.DeleteCustomer(context.Background(), owner.ID, c.ID)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	// Settle, then delete succeeds.
	_, err = svc.RecordPayment(context.Background(), owner.ID, c.ID, dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteCustomer(context.Background(), owner.ID, c.ID))

	_, err = repo.FindByID(context.Background(), owner.ID, c.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCustomerOwnerScoping(t *testing.T) {
	repo := newStubCustomerRepo()
	owner := testOwner()
	other := testOwner()
	c := seedCustomerWithBalance(repo, owner, 10)
	svc := NewCustomerService(repo)

	_, err := svc.GetCustomer(context.Background(), other.ID, c.ID)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestCustomerCRUD(t *testing.T) {
	repo := newStubCustomerRepo()
	owner := testOwner()
	svc := NewCustomerService(repo)

	email := "frank@example.test"
	created, err := svc.CreateCustomer(context.Background(), owner.ID, dto.CreateCustomerRequest{
		Name:  "Frank",
		Email: &email,
	})
	require.NoError(t, err)
	assert.True(t, created.Balance.IsZero())

	newName := "Franklin"
	updated, err := svc.UpdateCustomer(context.Background(), owner.ID, mustID(t, created.ID), dto.UpdateCustomerRequest{
		Name: &newName,
	})
	require.NoError(t, err)
	assert.Equal(t, "Franklin", updated.Name)
	require.NotNil(t, updated.Email)
	assert.Equal(t, email, *updated.Email, "unset fields keep their value")

	list, err := svc.ListCustomers(context.Background(), owner.ID, dto.PartyFilter{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Total)
}
