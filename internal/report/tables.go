package report

import (
	"context"
	"fmt"
	"sort"

	"github.com/JonMunkholm/ledgerio/internal/core"
	"github.com/JonMunkholm/ledgerio/internal/export"
	"github.com/google/uuid"
)

// Document is a report table ready for rendering.
type Document struct {
	Name  string // attachment base name
	Title string
	Table export.Table
}

type tableBuilder func(e *Engine, ctx context.Context, f Filter) (export.Table, error)

var documents = map[string]struct {
	title string
	build tableBuilder
}{
	"sales":       {"Sales Report", (*Engine).salesTable},
	"expenses":    {"Expenses Report", (*Engine).expensesTable},
	"inventory":   {"Inventory Report", (*Engine).inventoryTable},
	"profit-loss": {"Profit & Loss Report", (*Engine).profitLossTable},
}

// DocumentNames lists the exportable reports.
func DocumentNames() []string {
	names := make([]string, 0, len(documents))
	for name := range documents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Document builds the export table of a named report.
func (e *Engine) Document(ctx context.Context, name string, f Filter) (Document, error) {
	d, ok := documents[name]
	if !ok {
		return Document{}, fmt.Errorf("%w: %s", ErrUnknownReport, name)
	}
	ctx, span := e.start(ctx, "Document."+name, f)
	defer span.End()

	table, err := d.build(e, ctx, f)
	if err != nil {
		return Document{}, err
	}
	return Document{Name: name + "-report", Title: d.title, Table: table}, nil
}

// salesTable lists every invoice in range, newest first, whatever its status.
func (e *Engine) salesTable(ctx context.Context, f Filter) (export.Table, error) {
	invoices, err := e.store.FindInvoices(ctx, core.InvoiceFilter{OwnerID: f.OwnerID, Dates: f.Range.Bounds()})
	if err != nil {
		return export.Table{}, fmt.Errorf("find invoices: %w", err)
	}

	names := make(map[uuid.UUID]string)
	t := export.Table{
		Headers: []string{"Invoice Number", "Date", "Customer", "Total Amount", "Status", "Items Count"},
		Rows:    make([][]any, 0, len(invoices)),
	}
	for _, inv := range invoices {
		name, ok := names[inv.CustomerID]
		if !ok {
			name = "N/A"
			c, err := e.store.GetCustomer(ctx, f.OwnerID, inv.CustomerID)
			if err == nil {
				name = c.Name
			}
			names[inv.CustomerID] = name
		}
		t.Rows = append(t.Rows, []any{
			inv.Number, inv.Date.In(e.loc), name, inv.TotalAmount, string(inv.Status), len(inv.Items),
		})
	}
	return t, nil
}

func (e *Engine) expensesTable(ctx context.Context, f Filter) (export.Table, error) {
	expenses, err := e.store.FindExpenses(ctx, core.ExpenseFilter{
		OwnerID:  f.OwnerID,
		Category: f.Category,
		Dates:    f.Range.Bounds(),
	})
	if err != nil {
		return export.Table{}, fmt.Errorf("find expenses: %w", err)
	}

	t := export.Table{
		Headers: []string{"Date", "Category", "Description", "Amount", "Payment Method", "Created At"},
		Rows:    make([][]any, 0, len(expenses)),
	}
	for _, x := range expenses {
		t.Rows = append(t.Rows, []any{
			x.Date.In(e.loc), x.Category, x.Description, x.Amount, x.PaymentMethod, x.CreatedAt.In(e.loc),
		})
	}
	return t, nil
}

func (e *Engine) inventoryTable(ctx context.Context, f Filter) (export.Table, error) {
	products, err := e.store.FindProducts(ctx, core.ProductFilter{
		OwnerID:  f.OwnerID,
		Category: f.Category,
		LowStock: f.LowStock,
	})
	if err != nil {
		return export.Table{}, fmt.Errorf("find products: %w", err)
	}

	t := export.Table{
		Headers: []string{"Product Name", "Category", "Stock", "Price", "Min Stock", "Status", "Total Value"},
		Rows:    make([][]any, 0, len(products)),
	}
	for _, p := range products {
		t.Rows = append(t.Rows, []any{
			p.Name, p.Category, p.Stock, p.Price, p.MinStock, stockStatus(p), stockValue(p),
		})
	}
	return t, nil
}

func (e *Engine) profitLossTable(ctx context.Context, f Filter) (export.Table, error) {
	pl, err := e.ProfitLoss(ctx, f)
	if err != nil {
		return export.Table{}, err
	}
	return export.Table{
		Headers: []string{"Description", "Amount"},
		Rows: [][]any{
			{"Total Revenue", pl.Revenue},
			{"Total Expenses", pl.Expenses},
			{"Net Profit/Loss", pl.NetProfit},
			{"Profit Margin (%)", pl.ProfitMargin.StringFixed(2) + "%"},
		},
	}, nil
}

func stockStatus(p core.Product) string {
	switch {
	case p.Stock <= 0:
		return "Out of Stock"
	case p.LowStock():
		return "Low Stock"
	default:
		return "In Stock"
	}
}

func sortCategories(cs []CategoryStock) {
	sort.Slice(cs, func(i, j int) bool { return cs[i].Category < cs[j].Category })
}
