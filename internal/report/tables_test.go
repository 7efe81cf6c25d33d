package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JonMunkholm/ledgerio/internal/core"
	"github.com/JonMunkholm/ledgerio/internal/store/memory"
	"github.com/google/uuid"
)

func TestDocument_Unknown(t *testing.T) {
	e := NewEngine(memory.New(), time.UTC)
	if _, err := e.Document(context.Background(), "payroll", Filter{OwnerID: owner}); !errors.Is(err, ErrUnknownReport) {
		t.Errorf("Document(payroll) error = %v, want ErrUnknownReport", err)
	}
}

func TestDocumentNames(t *testing.T) {
	got := DocumentNames()
	want := []string{"expenses", "inventory", "profit-loss", "sales"}
	if len(got) != len(want) {
		t.Fatalf("DocumentNames() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("DocumentNames()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestDocument_Sales(t *testing.T) {
	ctx := context.Background()
	st := seed(t)
	orphan := core.Invoice{OwnerID: owner, Number: "Z", CustomerID: uuid.New(), Date: d(2024, 4, 1), Status: core.InvoiceSent, TotalAmount: dec("1")}
	if err := st.CreateInvoice(ctx, &orphan); err != nil {
		t.Fatal(err)
	}
	e := NewEngine(st, time.UTC)

	doc, err := e.Document(ctx, "sales", Filter{OwnerID: owner})
	if err != nil {
		t.Fatal(err)
	}
	if doc.Title != "Sales Report" || doc.Name != "sales-report" {
		t.Errorf("title/name = %q/%q", doc.Title, doc.Name)
	}
	// Every status is listed, newest first.
	if len(doc.Table.Rows) != 6 {
		t.Fatalf("got %d rows, want 6", len(doc.Table.Rows))
	}
	first := doc.Table.Rows[0]
	if first[0] != "Z" || first[2] != "N/A" {
		t.Errorf("first row = %v, want invoice Z with customer N/A", first)
	}
	if doc.Table.Rows[1][2] != "Acme" {
		t.Errorf("customer = %v, want Acme", doc.Table.Rows[1][2])
	}
	if err := doc.Table.Validate(); err != nil {
		t.Error(err)
	}
}

func TestDocument_Inventory(t *testing.T) {
	e := NewEngine(seed(t), time.UTC)

	doc, err := e.Document(context.Background(), "inventory", Filter{OwnerID: owner})
	if err != nil {
		t.Fatal(err)
	}
	status := make(map[string]string)
	for _, row := range doc.Table.Rows {
		status[row[0].(string)] = row[5].(string)
	}
	want := map[string]string{
		"Laptop": "In Stock",
		"Mouse":  "Low Stock",
		"Desk":   "Out of Stock",
		"Widget": "In Stock",
	}
	for name, w := range want {
		if status[name] != w {
			t.Errorf("%s status = %q, want %q", name, status[name], w)
		}
	}
}

func TestDocument_ProfitLoss(t *testing.T) {
	e := NewEngine(seed(t), time.UTC)

	doc, err := e.Document(context.Background(), "profit-loss", Filter{OwnerID: owner})
	if err != nil {
		t.Fatal(err)
	}
	if doc.Title != "Profit & Loss Report" {
		t.Errorf("Title = %q", doc.Title)
	}
	if len(doc.Table.Rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(doc.Table.Rows))
	}
	if got := doc.Table.Rows[3][1]; got != "36.63%" {
		t.Errorf("margin cell = %v, want 36.63%%", got)
	}
}

func TestDocument_ExpensesEmpty(t *testing.T) {
	e := NewEngine(memory.New(), time.UTC)

	doc, err := e.Document(context.Background(), "expenses", Filter{OwnerID: owner})
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Table.Headers) != 6 || len(doc.Table.Rows) != 0 {
		t.Errorf("table = %d headers %d rows, want 6/0", len(doc.Table.Headers), len(doc.Table.Rows))
	}
}
