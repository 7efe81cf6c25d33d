package core

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Get operations when no record matches the id and owner.
var ErrNotFound = errors.New("record not found")

// DateBounds restricts a query to records dated within [From, To].
// A zero bound is open.
type DateBounds struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the bounds (both ends inclusive).
func (b DateBounds) Contains(t time.Time) bool {
	if !b.From.IsZero() && t.Before(b.From) {
		return false
	}
	if !b.To.IsZero() && t.After(b.To) {
		return false
	}
	return true
}

// CustomerFilter selects customers of one owner.
type CustomerFilter struct {
	OwnerID string
	Name    string // exact match when non-empty
}

// InvoiceFilter selects invoices of one owner.
type InvoiceFilter struct {
	OwnerID  string
	Statuses []InvoiceStatus // any of, when non-empty
	Dates    DateBounds
}

// ExpenseFilter selects expenses of one owner.
type ExpenseFilter struct {
	OwnerID  string
	Category string
	Dates    DateBounds
}

// ProductFilter selects products of one owner.
type ProductFilter struct {
	OwnerID  string
	Category string
	LowStock bool // only products with stock <= min stock
}

// CustomerStore persists customers.
type CustomerStore interface {
	FindCustomers(ctx context.Context, f CustomerFilter) ([]Customer, error)
	GetCustomer(ctx context.Context, ownerID string, id uuid.UUID) (Customer, error)
	CreateCustomer(ctx context.Context, c *Customer) error
	CountCustomers(ctx context.Context, f CustomerFilter) (int, error)
}

// InvoiceStore persists invoices. Find returns newest first.
type InvoiceStore interface {
	FindInvoices(ctx context.Context, f InvoiceFilter) ([]Invoice, error)
	GetInvoice(ctx context.Context, ownerID string, id uuid.UUID) (Invoice, error)
	CreateInvoice(ctx context.Context, inv *Invoice) error
	CountInvoices(ctx context.Context, f InvoiceFilter) (int, error)
}

// ExpenseStore persists expenses. Find returns newest first.
type ExpenseStore interface {
	FindExpenses(ctx context.Context, f ExpenseFilter) ([]Expense, error)
	GetExpense(ctx context.Context, ownerID string, id uuid.UUID) (Expense, error)
	CreateExpense(ctx context.Context, e *Expense) error
	CountExpenses(ctx context.Context, f ExpenseFilter) (int, error)
}

// ProductStore persists products. Find returns products ordered by name.
type ProductStore interface {
	FindProducts(ctx context.Context, f ProductFilter) ([]Product, error)
	GetProduct(ctx context.Context, ownerID string, id uuid.UUID) (Product, error)
	CreateProduct(ctx context.Context, p *Product) error
	CountProducts(ctx context.Context, f ProductFilter) (int, error)
}

// Store is the persistence collaborator. Every operation is scoped by owner.
// Create operations assign ID and CreatedAt when they are zero.
type Store interface {
	CustomerStore
	InvoiceStore
	ExpenseStore
	ProductStore
}
