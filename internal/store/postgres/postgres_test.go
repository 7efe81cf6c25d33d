package postgres

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/JonMunkholm/ledgerio/internal/core"
	"github.com/shopspring/decimal"
)

func TestWhereBuilder_Empty(t *testing.T) {
	where, args := newWhereBuilder().Build()
	if where != "" || args != nil {
		t.Errorf("Build() = %q, %v; want empty", where, args)
	}
}

func TestWhereBuilder_SkipsEmptyValues(t *testing.T) {
	wb := newWhereBuilder()
	wb.Add("owner_id", "o1")
	wb.Add("category", "")
	wb.AddAny("status", nil)
	wb.Add("name", "Acme")

	where, args := wb.Build()
	if want := " WHERE owner_id = $1 AND name = $2"; where != want {
		t.Errorf("where = %q, want %q", where, want)
	}
	if len(args) != 2 || wb.NextArgIndex() != 3 {
		t.Errorf("args = %v next = %d, want 2 args and next 3", args, wb.NextArgIndex())
	}
}

func TestInvoiceWhere(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)

	tests := []struct {
		name      string
		filter    core.InvoiceFilter
		wantWhere string
		wantArgs  int
	}{
		{
			name:      "owner only",
			filter:    core.InvoiceFilter{OwnerID: "o"},
			wantWhere: " WHERE owner_id = $1",
			wantArgs:  1,
		},
		{
			name:      "statuses and range",
			filter:    core.InvoiceFilter{OwnerID: "o", Statuses: []core.InvoiceStatus{core.InvoiceSent, core.InvoiceOverdue}, Dates: core.DateBounds{From: from, To: to}},
			wantWhere: " WHERE owner_id = $1 AND status = ANY($2) AND date >= $3 AND date <= $4",
			wantArgs:  4,
		},
		{
			name:      "open start",
			filter:    core.InvoiceFilter{OwnerID: "o", Dates: core.DateBounds{To: to}},
			wantWhere: " WHERE owner_id = $1 AND date <= $2",
			wantArgs:  2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := invoiceWhere(tt.filter)
			if where != tt.wantWhere {
				t.Errorf("where = %q, want %q", where, tt.wantWhere)
			}
			if len(args) != tt.wantArgs {
				t.Errorf("len(args) = %d, want %d", len(args), tt.wantArgs)
			}
		})
	}

	_, args := invoiceWhere(tests[1].filter)
	if got := args[1]; !reflect.DeepEqual(got, []string{"sent", "overdue"}) {
		t.Errorf("status arg = %#v", got)
	}
}

func TestProductWhere_LowStock(t *testing.T) {
	where, args := productWhere(core.ProductFilter{OwnerID: "o", Category: "Tools", LowStock: true})
	if want := " WHERE owner_id = $1 AND category = $2 AND stock <= min_stock"; where != want {
		t.Errorf("where = %q, want %q", where, want)
	}
	if len(args) != 2 {
		t.Errorf("len(args) = %d, want 2", len(args))
	}
}

func TestNumericRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "1500", "150.50", "-42.07", "12345678.99"} {
		d := decimal.RequireFromString(s)
		got := fromNumeric(toNumeric(d))
		if !got.Equal(d) {
			t.Errorf("round trip %s = %s", s, got)
		}
	}
}

func TestFromNumeric_Invalid(t *testing.T) {
	var n = toNumeric(decimal.Zero)
	n.Valid = false
	if got := fromNumeric(n); !got.IsZero() {
		t.Errorf("fromNumeric(NULL) = %s, want 0", got)
	}
}

func TestStore_DatabaseRequired(t *testing.T) {
	url := databaseURL(t)
	ctx := context.Background()

	pool, err := Connect(ctx, PoolConfig{URL: url, MaxConns: 2})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer tx.Rollback(ctx)

	s := New(tx)
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatal(err)
	}

	c := core.Customer{OwnerID: "pg-test", Name: "Acme"}
	if err := s.CreateCustomer(ctx, &c); err != nil {
		t.Fatal(err)
	}
	inv := core.Invoice{
		OwnerID:     "pg-test",
		Number:      "INV-1",
		CustomerID:  c.ID,
		Date:        time.Now(),
		DueDate:     time.Now(),
		TotalAmount: decimal.RequireFromString("99.95"),
		Status:      core.InvoicePaid,
		Items:       []core.InvoiceItem{{Description: "Widget", Quantity: 1, Price: decimal.RequireFromString("99.95"), Total: decimal.RequireFromString("99.95")}},
	}
	if err := s.CreateInvoice(ctx, &inv); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetInvoice(ctx, "pg-test", inv.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.TotalAmount.Equal(inv.TotalAmount) || len(got.Items) != 1 {
		t.Errorf("GetInvoice = %+v", got)
	}
	if _, err := s.GetInvoice(ctx, "someone-else", inv.ID); err != core.ErrNotFound {
		t.Errorf("GetInvoice across owners = %v, want ErrNotFound", err)
	}
}
