package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bizzops/internal/apperror"
	"bizzops/internal/config"
	"bizzops/internal/dto"
	"bizzops/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DashboardService assembles the business-overview metrics. All reads, no
// writes: the dashboard never mutates state, so serving a slightly stale
// cached copy is safe.
type DashboardService interface {
	GetDashboard(ctx context.Context, ownerID uuid.UUID, filter dto.DashboardFilter) (*dto.DashboardResponse, error)
}

// Cache is the read-through surface the dashboard needs. Get returns an
// error on a miss; Set stores the value for the given TTL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type dashboardService struct {
	sales     repository.SaleRepository
	inventory repository.InventoryRepository
	customers repository.CustomerRepository
	invoices  repository.InvoiceRepository
	expenses  repository.ExpenseRepository
	crm       repository.CRMRepository
	cache     Cache // nil disables caching
	cfg       *config.Config
}

func NewDashboardService(
	sales repository.SaleRepository,
	inventory repository.InventoryRepository,
	customers repository.CustomerRepository,
	invoices repository.InvoiceRepository,
	expenses repository.ExpenseRepository,
	crm repository.CRMRepository,
	cache Cache,
	cfg *config.Config,
) DashboardService {
	return &dashboardService{
		sales:     sales,
		inventory: inventory,
		customers: customers,
		invoices:  invoices,
		expenses:  expenses,
		crm:       crm,
		cache:     cache,
		cfg:       cfg,
	}
}

func (s *dashboardService) GetDashboard(ctx context.Context, ownerID uuid.UUID, filter dto.DashboardFilter) (*dto.DashboardResponse, error) {
	rng := filter.Range
	if rng == "" {
		rng = dto.RangeMonth
	}

	cacheKey := fmt.Sprintf("dashboard:%s:%s", ownerID, rng)
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, cacheKey); err == nil {
			var cached dto.DashboardResponse
			if json.Unmarshal(raw, &cached) == nil {
				return &cached, nil
			}
		}
	}

	now := time.Now().UTC()
	from, to := resolveRange(rng, now)

	resp, err := s.build(ctx, ownerID, rng, from, to)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(resp); err == nil {
			ttl := time.Duration(s.cfg.DashboardCacheTTL) * time.Second
			if err := s.cache.Set(ctx, cacheKey, raw, ttl); err != nil {
				log.Warn().Err(err).Msg("dashboard cache write failed")
			}
		}
	}
	return resp, nil
}

func (s *dashboardService) build(ctx context.Context, ownerID uuid.UUID, rng string, from, to time.Time) (*dto.DashboardResponse, error) {
	totals, err := s.sales.TotalsInRange(ctx, ownerID, from, to)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "sale totals", err)
	}

	growth := decimal.Zero
	if rng != dto.RangeAllTime {
		prevFrom := from.Add(-to.Sub(from))
		prev, err := s.sales.TotalsInRange(ctx, ownerID, prevFrom, from)
		if err != nil {
			return nil, apperror.Wrap(apperror.KindInternal, "previous sale totals", err)
		}
		growth = growthPercent(prev.TotalSale, totals.TotalSale)
	}

	inv, err := s.inventory.Aggregates(ctx, ownerID, s.cfg.LowStockThreshold)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "inventory aggregates", err)
	}

	custAgg, err := s.customers.Aggregates(ctx, ownerID)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "customer aggregates", err)
	}
	active, returning, err := s.customers.ActiveAndReturning(ctx, ownerID, from, to)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "customer retention", err)
	}
	retention := decimal.Zero
	if active > 0 {
		retention = decimal.NewFromInt(returning).Div(decimal.NewFromInt(active)).Mul(hundred).Round(2)
	}

	invStats, err := s.invoices.Stats(ctx, ownerID, from, to)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "invoice stats", err)
	}

	pipeline, err := s.crm.PipelineCounts(ctx, ownerID)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "pipeline counts", err)
	}
	closed := pipeline.WonDeals + pipeline.LostDeals
	conversion := decimal.Zero
	if closed > 0 {
		conversion = decimal.NewFromInt(pipeline.WonDeals).Div(decimal.NewFromInt(closed)).Mul(hundred).Round(2)
	}
	taskCompletion := decimal.Zero
	if pipeline.TaskTotal > 0 {
		taskCompletion = decimal.NewFromInt(pipeline.TaskDone).Div(decimal.NewFromInt(pipeline.TaskTotal)).Mul(hundred).Round(2)
	}

	expenseSum, err := s.expenses.SumInRange(ctx, ownerID, from, to)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "expense sum", err)
	}

	resp := &dto.DashboardResponse{
		Range: rng,
		From:  from.Format(dateFormat),
		To:    to.Format(dateFormat),
		Sales: dto.SalesMetrics{
			TotalSale:     totals.TotalSale,
			TotalCost:     totals.TotalCost,
			TotalProfit:   totals.TotalProfit,
			SaleCount:     totals.Count,
			GrowthPercent: growth,
		},
		Inventory: dto.InventoryMetrics{
			StockValue:    inv.StockValue,
			ItemCount:     inv.ItemCount,
			LowStockCount: inv.LowStock,
			OutOfStock:    inv.OutOfStock,
		},
		Customers: dto.CustomerMetrics{
			TotalCustomers:   custAgg.TotalCustomers,
			Returning:        returning,
			RetentionPercent: retention,
			TotalReceivable:  custAgg.Receivable,
		},
		Invoices: dto.InvoiceMetrics{
			TotalInvoices: invStats.Total,
			PaidCount:     invStats.Paid,
			UnpaidCount:   invStats.Unpaid,
			UnpaidAmount:  invStats.UnpaidAmount,
		},
		Pipeline: dto.PipelineMetrics{
			OpenDeals:         pipeline.OpenDeals,
			WonDeals:          pipeline.WonDeals,
			LostDeals:         pipeline.LostDeals,
			ConversionPercent: conversion,
			TaskTotal:         pipeline.TaskTotal,
			TaskDone:          pipeline.TaskDone,
			TaskCompletion:    taskCompletion,
		},
		CashFlow: dto.CashFlowMetrics{
			Income:   totals.PaidSale,
			Expenses: expenseSum,
			Net:      totals.PaidSale.Sub(expenseSum),
		},
	}
	resp.Health = healthScore(resp)
	return resp, nil
}

// resolveRange maps a range selector onto a [from, to] window ending now.
// Windows are rolling, not calendar-aligned.
func resolveRange(rng string, now time.Time) (time.Time, time.Time) {
	switch rng {
	case dto.RangeToday:
		return now.Truncate(24 * time.Hour), now
	case dto.RangeWeek:
		return now.AddDate(0, 0, -7), now
	case dto.RangeMonth:
		return now.AddDate(0, -1, 0), now
	case dto.RangeQuarter:
		return now.AddDate(0, -3, 0), now
	case dto.RangeYear:
		return now.AddDate(-1, 0, 0), now
	case dto.RangeAllTime:
		return time.Unix(0, 0).UTC(), now
	default:
		return now.AddDate(0, -1, 0), now
	}
}

// growthPercent compares the current window's revenue against the previous
// one. A previous window with no revenue but current revenue reads as 100%.
func growthPercent(prev, cur decimal.Decimal) decimal.Decimal {
	if prev.IsZero() {
		if cur.IsZero() {
			return decimal.Zero
		}
		return hundred
	}
	return cur.Sub(prev).Div(prev).Mul(hundred).Round(2)
}

// healthScore computes the composite 0–100 score. Each sub-score is capped at
// its weight: sales 30, margin 25, inventory 15, customer 15, cash flow 15.
func healthScore(d *dto.DashboardResponse) dto.HealthScore {
	var h dto.HealthScore

	// Sales (30): baseline for having sales at all, the rest from growth.
	if d.Sales.SaleCount > 0 {
		h.Sales = clampScore(15+int(d.Sales.GrowthPercent.IntPart()/10), 30)
	}

	// Margin (25): a 50% profit margin earns the full weight.
	if d.Sales.TotalSale.IsPositive() {
		margin := d.Sales.TotalProfit.Div(d.Sales.TotalSale).Mul(hundred)
		h.Margin = clampScore(int(margin.IntPart())/2, 25)
	}

	// Inventory (15): penalized by the share of items low or out of stock.
	if d.Inventory.ItemCount > 0 {
		bad := d.Inventory.LowStockCount + d.Inventory.OutOfStock
		h.Inventory = clampScore(15-int(bad*15/d.Inventory.ItemCount), 15)
	}

	// Customer (15): retention scaled to the weight.
	h.Customer = clampScore(int(d.Customers.RetentionPercent.IntPart())*15/100, 15)

	// Cash flow (15): positive net scaled by the income share it represents.
	if d.CashFlow.Income.IsPositive() && d.CashFlow.Net.IsPositive() {
		ratio := d.CashFlow.Net.Div(d.CashFlow.Income)
		h.CashFlow = clampScore(int(ratio.Mul(decimal.NewFromInt(15)).IntPart()), 15)
	}

	h.Score = h.Sales + h.Margin + h.Inventory + h.Customer + h.CashFlow
	return h
}

func clampScore(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
