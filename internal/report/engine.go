package report

import (
	"context"
	"fmt"
	"time"

	"github.com/JonMunkholm/ledgerio/internal/core"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// TrendMonths is the length of the revenue trend window.
const TrendMonths = 12

var (
	tracer  = otel.Tracer("github.com/JonMunkholm/ledgerio/internal/report")
	hundred = decimal.NewFromInt(100)
	paid    = []core.InvoiceStatus{core.InvoicePaid}
	pending = []core.InvoiceStatus{core.InvoiceSent, core.InvoiceOverdue}
)

// Engine computes reports from a store. Calendar grouping and the trend
// window use the engine's location.
type Engine struct {
	store core.Store
	loc   *time.Location
	now   func() time.Time
}

// NewEngine creates an engine. A nil loc means the local zone.
func NewEngine(store core.Store, loc *time.Location) *Engine {
	if loc == nil {
		loc = time.Local
	}
	return &Engine{store: store, loc: loc, now: time.Now}
}

// Location returns the zone used for calendar grouping and date parsing.
func (e *Engine) Location() *time.Location {
	return e.loc
}

func (e *Engine) start(ctx context.Context, name string, f Filter) (context.Context, trace.Span) {
	return tracer.Start(ctx, "report."+name, trace.WithAttributes(
		attribute.String("report.group_by", string(f.GroupBy)),
		attribute.Bool("report.ranged", f.Range != nil),
	))
}

// Sales buckets paid invoice totals. Category grouping is not supported.
func (e *Engine) Sales(ctx context.Context, f Filter) ([]Bucket, error) {
	if f.GroupBy == GroupCategory {
		return nil, fmt.Errorf("%w: sales cannot be grouped by category", ErrInvalidGroupBy)
	}
	ctx, span := e.start(ctx, "Sales", f)
	defer span.End()

	invoices, err := e.store.FindInvoices(ctx, core.InvoiceFilter{
		OwnerID:  f.OwnerID,
		Statuses: paid,
		Dates:    f.Range.Bounds(),
	})
	if err != nil {
		return nil, fmt.Errorf("find invoices: %w", err)
	}

	entries := make([]Entry, len(invoices))
	for i, inv := range invoices {
		entries[i] = Entry{Date: inv.Date, Amount: inv.TotalAmount}
	}
	return Group(entries, f.GroupBy, e.loc), nil
}

// Expenses buckets expense amounts, optionally restricted to one category.
func (e *Engine) Expenses(ctx context.Context, f Filter) ([]Bucket, error) {
	ctx, span := e.start(ctx, "Expenses", f)
	defer span.End()

	expenses, err := e.store.FindExpenses(ctx, core.ExpenseFilter{
		OwnerID:  f.OwnerID,
		Category: f.Category,
		Dates:    f.Range.Bounds(),
	})
	if err != nil {
		return nil, fmt.Errorf("find expenses: %w", err)
	}

	entries := make([]Entry, len(expenses))
	for i, x := range expenses {
		entries[i] = Entry{Date: x.Date, Category: x.Category, Amount: x.Amount}
	}
	return Group(entries, f.GroupBy, e.loc), nil
}

// ProfitLoss nets paid revenue against expenses. The margin is a
// percentage of revenue and zero when there is no revenue.
func (e *Engine) ProfitLoss(ctx context.Context, f Filter) (ProfitLoss, error) {
	ctx, span := e.start(ctx, "ProfitLoss", f)
	defer span.End()

	var revenue, expenses decimal.Decimal
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		revenue, err = e.paidRevenue(gctx, f.OwnerID, f.Range.Bounds())
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = e.expenseTotal(gctx, f.OwnerID, f.Range.Bounds())
		return err
	})
	if err := g.Wait(); err != nil {
		return ProfitLoss{}, err
	}

	return computeProfitLoss(revenue, expenses), nil
}

func computeProfitLoss(revenue, expenses decimal.Decimal) ProfitLoss {
	net := revenue.Sub(expenses)
	margin := decimal.Zero
	if revenue.IsPositive() {
		margin = net.Div(revenue).Mul(hundred).Round(2)
	}
	return ProfitLoss{
		Revenue:      revenue,
		Expenses:     expenses,
		NetProfit:    net,
		ProfitMargin: margin,
	}
}

func (e *Engine) paidRevenue(ctx context.Context, ownerID string, dates core.DateBounds) (decimal.Decimal, error) {
	invoices, err := e.store.FindInvoices(ctx, core.InvoiceFilter{OwnerID: ownerID, Statuses: paid, Dates: dates})
	if err != nil {
		return decimal.Zero, fmt.Errorf("find invoices: %w", err)
	}
	total := decimal.Zero
	for _, inv := range invoices {
		total = total.Add(inv.TotalAmount)
	}
	return total, nil
}

func (e *Engine) expenseTotal(ctx context.Context, ownerID string, dates core.DateBounds) (decimal.Decimal, error) {
	expenses, err := e.store.FindExpenses(ctx, core.ExpenseFilter{OwnerID: ownerID, Dates: dates})
	if err != nil {
		return decimal.Zero, fmt.Errorf("find expenses: %w", err)
	}
	total := decimal.Zero
	for _, x := range expenses {
		total = total.Add(x.Amount)
	}
	return total, nil
}

// Inventory summarises products by category.
func (e *Engine) Inventory(ctx context.Context, f Filter) ([]CategoryStock, error) {
	ctx, span := e.start(ctx, "Inventory", f)
	defer span.End()

	products, err := e.store.FindProducts(ctx, core.ProductFilter{
		OwnerID:  f.OwnerID,
		Category: f.Category,
		LowStock: f.LowStock,
	})
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}

	index := make(map[string]int)
	out := []CategoryStock{}
	for _, p := range products {
		cat := p.Category
		if cat == "" {
			cat = Uncategorized
		}
		i, ok := index[cat]
		if !ok {
			i = len(out)
			index[cat] = i
			out = append(out, CategoryStock{Category: cat, TotalValue: decimal.Zero})
		}
		out[i].TotalValue = out[i].TotalValue.Add(stockValue(p))
		out[i].TotalItems++
		if p.LowStock() {
			out[i].LowStockItems++
		}
	}
	sortCategories(out)
	return out, nil
}

// Dashboard collects the overview counters. The date range applies to
// invoices and expenses; product figures are always current.
func (e *Engine) Dashboard(ctx context.Context, f Filter) (Dashboard, error) {
	ctx, span := e.start(ctx, "Dashboard", f)
	defer span.End()

	var d Dashboard
	dates := f.Range.Bounds()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		d.Revenue, err = e.paidRevenue(gctx, f.OwnerID, dates)
		return err
	})
	g.Go(func() (err error) {
		d.Expenses, err = e.expenseTotal(gctx, f.OwnerID, dates)
		return err
	})
	g.Go(func() (err error) {
		d.Invoices, err = e.store.CountInvoices(gctx, core.InvoiceFilter{OwnerID: f.OwnerID, Dates: dates})
		return err
	})
	g.Go(func() (err error) {
		d.PaidInvoices, err = e.store.CountInvoices(gctx, core.InvoiceFilter{OwnerID: f.OwnerID, Statuses: paid, Dates: dates})
		return err
	})
	g.Go(func() (err error) {
		d.PendingInvoices, err = e.store.CountInvoices(gctx, core.InvoiceFilter{OwnerID: f.OwnerID, Statuses: pending, Dates: dates})
		return err
	})
	g.Go(func() (err error) {
		d.LowStockItems, err = e.store.CountProducts(gctx, core.ProductFilter{OwnerID: f.OwnerID, LowStock: true})
		return err
	})
	g.Go(func() error {
		products, err := e.store.FindProducts(gctx, core.ProductFilter{OwnerID: f.OwnerID})
		if err != nil {
			return fmt.Errorf("find products: %w", err)
		}
		d.Products = len(products)
		d.InventoryValue = decimal.Zero
		for _, p := range products {
			if p.Stock <= 0 {
				d.OutOfStockItems++
			}
			d.InventoryValue = d.InventoryValue.Add(stockValue(p))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return d, nil
}

// RevenueTrend returns paid revenue and sale counts for the twelve months
// ending with the current one. It ignores any requested date range.
func (e *Engine) RevenueTrend(ctx context.Context, ownerID string) (Trend, error) {
	ctx, span := e.start(ctx, "RevenueTrend", Filter{})
	defer span.End()

	now := e.now().In(e.loc)
	first := time.Date(now.Year(), now.Month()-(TrendMonths-1), 1, 0, 0, 0, 0, e.loc)
	last := endOfDay(time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, e.loc))

	invoices, err := e.store.FindInvoices(ctx, core.InvoiceFilter{
		OwnerID:  ownerID,
		Statuses: paid,
		Dates:    core.DateBounds{From: first, To: last},
	})
	if err != nil {
		return Trend{}, fmt.Errorf("find invoices: %w", err)
	}

	t := Trend{
		Months:       make([]string, TrendMonths),
		Revenue:      make([]decimal.Decimal, TrendMonths),
		Sales:        make([]int, TrendMonths),
		TotalRevenue: decimal.Zero,
	}
	slot := make(map[string]int, TrendMonths)
	for i := 0; i < TrendMonths; i++ {
		m := first.AddDate(0, i, 0)
		t.Months[i] = m.Format("Jan 06")
		t.Revenue[i] = decimal.Zero
		slot[m.Format("2006-01")] = i
	}

	for _, inv := range invoices {
		i, ok := slot[inv.Date.In(e.loc).Format("2006-01")]
		if !ok {
			continue
		}
		t.Revenue[i] = t.Revenue[i].Add(inv.TotalAmount)
		t.Sales[i]++
		t.TotalRevenue = t.TotalRevenue.Add(inv.TotalAmount)
		t.TotalSales++
	}
	return t, nil
}

func stockValue(p core.Product) decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Stock)))
}
