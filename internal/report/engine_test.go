package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JonMunkholm/ledgerio/internal/core"
	"github.com/JonMunkholm/ledgerio/internal/store/memory"
	"github.com/shopspring/decimal"
)

const owner = "owner-1"

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 10, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seed(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	st := memory.New()

	acme := core.Customer{OwnerID: owner, Name: "Acme"}
	if err := st.CreateCustomer(ctx, &acme); err != nil {
		t.Fatal(err)
	}

	invoices := []core.Invoice{
		{Number: "A", Date: d(2024, 1, 10), Status: core.InvoicePaid, TotalAmount: dec("1000")},
		{Number: "B", Date: d(2024, 2, 10), Status: core.InvoicePaid, TotalAmount: dec("500")},
		{Number: "C", Date: d(2024, 2, 20), Status: core.InvoiceSent, TotalAmount: dec("300")},
		{Number: "D", Date: d(2024, 3, 5), Status: core.InvoiceOverdue, TotalAmount: dec("200")},
		{Number: "E", Date: d(2024, 3, 15), Status: core.InvoiceDraft, TotalAmount: dec("50")},
	}
	for i := range invoices {
		invoices[i].OwnerID = owner
		invoices[i].CustomerID = acme.ID
		if err := st.CreateInvoice(ctx, &invoices[i]); err != nil {
			t.Fatal(err)
		}
	}
	// Another owner's data must never leak into reports.
	other := core.Invoice{OwnerID: "intruder", Number: "X", Date: d(2024, 1, 1), Status: core.InvoicePaid, TotalAmount: dec("99999")}
	if err := st.CreateInvoice(ctx, &other); err != nil {
		t.Fatal(err)
	}

	expenses := []core.Expense{
		{Category: "Rent", Amount: dec("400"), Date: d(2024, 1, 1), PaymentMethod: "bank_transfer"},
		{Category: "Travel", Amount: dec("150.50"), Date: d(2024, 2, 3), PaymentMethod: "card"},
		{Category: "Rent", Amount: dec("400"), Date: d(2024, 2, 1), PaymentMethod: "bank_transfer"},
	}
	for i := range expenses {
		expenses[i].OwnerID = owner
		if err := st.CreateExpense(ctx, &expenses[i]); err != nil {
			t.Fatal(err)
		}
	}

	products := []core.Product{
		{Name: "Laptop", Category: "Electronics", Price: dec("50000"), Stock: 10, MinStock: 2},
		{Name: "Mouse", Category: "Electronics", Price: dec("500"), Stock: 1, MinStock: 5},
		{Name: "Desk", Category: "Furniture", Price: dec("7000"), Stock: 0, MinStock: 1},
		{Name: "Widget", Price: dec("10"), Stock: 100, MinStock: 5},
	}
	for i := range products {
		products[i].OwnerID = owner
		if err := st.CreateProduct(ctx, &products[i]); err != nil {
			t.Fatal(err)
		}
	}
	return st
}

func TestEngine_SalesByMonth(t *testing.T) {
	e := NewEngine(seed(t), time.UTC)

	got, err := e.Sales(context.Background(), Filter{OwnerID: owner, GroupBy: GroupMonth})
	if err != nil {
		t.Fatal(err)
	}
	// Only paid invoices count as sales.
	if len(got) != 2 {
		t.Fatalf("got %d buckets, want 2: %+v", len(got), got)
	}
	if *got[0].Key != "2024-01" || !got[0].Total.Equal(dec("1000")) {
		t.Errorf("bucket 0 = %s %s, want 2024-01 1000", *got[0].Key, got[0].Total)
	}
	if *got[1].Key != "2024-02" || !got[1].Total.Equal(dec("500")) {
		t.Errorf("bucket 1 = %s %s, want 2024-02 500", *got[1].Key, got[1].Total)
	}
}

func TestEngine_SalesRejectsCategory(t *testing.T) {
	e := NewEngine(memory.New(), time.UTC)
	_, err := e.Sales(context.Background(), Filter{OwnerID: owner, GroupBy: GroupCategory})
	if !errors.Is(err, ErrInvalidGroupBy) {
		t.Errorf("Sales(category) error = %v, want ErrInvalidGroupBy", err)
	}
}

func TestEngine_SalesDateRange(t *testing.T) {
	e := NewEngine(seed(t), time.UTC)
	r, _ := ParseDateRange("2024-02-01", "2024-02-10", time.UTC)

	got, err := e.Sales(context.Background(), Filter{OwnerID: owner, Range: r})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Count != 1 || !got[0].Total.Equal(dec("500")) {
		t.Errorf("Sales(Feb 1-10) = %+v, want one invoice of 500", got)
	}
}

func TestEngine_ExpensesByCategory(t *testing.T) {
	e := NewEngine(seed(t), time.UTC)

	got, err := e.Expenses(context.Background(), Filter{OwnerID: owner, GroupBy: GroupCategory})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d buckets, want 2", len(got))
	}
	if *got[0].Key != "Rent" || !got[0].Total.Equal(dec("800")) || got[0].Count != 2 {
		t.Errorf("Rent bucket = %+v", got[0])
	}
	if *got[1].Key != "Travel" || !got[1].Total.Equal(dec("150.5")) {
		t.Errorf("Travel bucket = %+v", got[1])
	}
}

func TestEngine_ExpensesCategoryFilter(t *testing.T) {
	e := NewEngine(seed(t), time.UTC)

	got, err := e.Expenses(context.Background(), Filter{OwnerID: owner, Category: "Travel"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Count != 1 {
		t.Errorf("Expenses(Travel) = %+v, want a single record", got)
	}
}

func TestEngine_ProfitLoss(t *testing.T) {
	e := NewEngine(seed(t), time.UTC)

	got, err := e.ProfitLoss(context.Background(), Filter{OwnerID: owner})
	if err != nil {
		t.Fatal(err)
	}
	if !got.Revenue.Equal(dec("1500")) {
		t.Errorf("Revenue = %s, want 1500", got.Revenue)
	}
	if !got.Expenses.Equal(dec("950.5")) {
		t.Errorf("Expenses = %s, want 950.5", got.Expenses)
	}
	if !got.NetProfit.Equal(dec("549.5")) {
		t.Errorf("NetProfit = %s, want 549.5", got.NetProfit)
	}
	if !got.ProfitMargin.Equal(dec("36.63")) {
		t.Errorf("ProfitMargin = %s, want 36.63", got.ProfitMargin)
	}
}

func TestComputeProfitLoss(t *testing.T) {
	tests := []struct {
		name              string
		revenue, expenses string
		net, margin       string
	}{
		{"no revenue", "0", "250", "-250", "0"},
		{"break even", "100", "100", "0", "0"},
		{"loss", "100", "150", "-50", "-50"},
		{"profit", "300", "100", "200", "66.67"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computeProfitLoss(dec(tt.revenue), dec(tt.expenses))
			if !got.NetProfit.Equal(dec(tt.net)) {
				t.Errorf("NetProfit = %s, want %s", got.NetProfit, tt.net)
			}
			if !got.ProfitMargin.Equal(dec(tt.margin)) {
				t.Errorf("ProfitMargin = %s, want %s", got.ProfitMargin, tt.margin)
			}
		})
	}
}

func TestEngine_Inventory(t *testing.T) {
	e := NewEngine(seed(t), time.UTC)

	got, err := e.Inventory(context.Background(), Filter{OwnerID: owner})
	if err != nil {
		t.Fatal(err)
	}
	want := []CategoryStock{
		{Category: "Electronics", TotalValue: dec("500500"), TotalItems: 2, LowStockItems: 1},
		{Category: "Furniture", TotalValue: dec("0"), TotalItems: 1, LowStockItems: 1},
		{Category: Uncategorized, TotalValue: dec("1000"), TotalItems: 1, LowStockItems: 0},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d categories, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		g := got[i]
		if g.Category != w.Category || !g.TotalValue.Equal(w.TotalValue) ||
			g.TotalItems != w.TotalItems || g.LowStockItems != w.LowStockItems {
			t.Errorf("category %d = %+v, want %+v", i, g, w)
		}
	}
}

func TestEngine_Dashboard(t *testing.T) {
	e := NewEngine(seed(t), time.UTC)

	got, err := e.Dashboard(context.Background(), Filter{OwnerID: owner})
	if err != nil {
		t.Fatal(err)
	}
	if !got.Revenue.Equal(dec("1500")) || !got.Expenses.Equal(dec("950.5")) {
		t.Errorf("revenue/expenses = %s/%s, want 1500/950.5", got.Revenue, got.Expenses)
	}
	if got.Invoices != 5 || got.PaidInvoices != 2 || got.PendingInvoices != 2 {
		t.Errorf("invoices = %d paid %d pending %d, want 5/2/2", got.Invoices, got.PaidInvoices, got.PendingInvoices)
	}
	if got.Products != 4 || got.LowStockItems != 2 || got.OutOfStockItems != 1 {
		t.Errorf("products = %d low %d out %d, want 4/2/1", got.Products, got.LowStockItems, got.OutOfStockItems)
	}
	if !got.InventoryValue.Equal(dec("501500")) {
		t.Errorf("InventoryValue = %s, want 501500", got.InventoryValue)
	}
}

func TestEngine_RevenueTrend(t *testing.T) {
	e := NewEngine(seed(t), time.UTC)
	e.now = func() time.Time { return time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC) }

	got, err := e.RevenueTrend(context.Background(), owner)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Months) != TrendMonths || len(got.Revenue) != TrendMonths || len(got.Sales) != TrendMonths {
		t.Fatalf("series lengths = %d/%d/%d, want %d", len(got.Months), len(got.Revenue), len(got.Sales), TrendMonths)
	}
	if got.Months[0] != "Apr 23" || got.Months[11] != "Mar 24" {
		t.Errorf("window = %s..%s, want Apr 23..Mar 24", got.Months[0], got.Months[11])
	}

	// Jan and Feb 2024 sit at slots 9 and 10; every other month is zero.
	for i := range got.Revenue {
		want := decimal.Zero
		switch i {
		case 9:
			want = dec("1000")
		case 10:
			want = dec("500")
		}
		if !got.Revenue[i].Equal(want) {
			t.Errorf("Revenue[%d] (%s) = %s, want %s", i, got.Months[i], got.Revenue[i], want)
		}
	}
	if got.TotalSales != 2 || !got.TotalRevenue.Equal(dec("1500")) {
		t.Errorf("totals = %d/%s, want 2/1500", got.TotalSales, got.TotalRevenue)
	}
}

func TestEngine_RevenueTrendEmpty(t *testing.T) {
	e := NewEngine(memory.New(), time.UTC)

	got, err := e.RevenueTrend(context.Background(), owner)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Months) != TrendMonths {
		t.Fatalf("len(Months) = %d, want %d", len(got.Months), TrendMonths)
	}
	for i, r := range got.Revenue {
		if !r.IsZero() || got.Sales[i] != 0 {
			t.Errorf("slot %d = %s/%d, want zero", i, r, got.Sales[i])
		}
	}
}
