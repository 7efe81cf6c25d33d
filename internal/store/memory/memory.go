// Package memory is an in-process core.Store used for development and tests.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/JonMunkholm/ledgerio/internal/core"
	"github.com/google/uuid"
)

// Store keeps records in maps guarded by one RWMutex.
type Store struct {
	mu        sync.RWMutex
	customers map[uuid.UUID]core.Customer
	invoices  map[uuid.UUID]core.Invoice
	expenses  map[uuid.UUID]core.Expense
	products  map[uuid.UUID]core.Product

	now func() time.Time
}

var _ core.Store = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		customers: make(map[uuid.UUID]core.Customer),
		invoices:  make(map[uuid.UUID]core.Invoice),
		expenses:  make(map[uuid.UUID]core.Expense),
		products:  make(map[uuid.UUID]core.Product),
		now:       time.Now,
	}
}

func (s *Store) stamp(id *uuid.UUID, createdAt *time.Time) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
	if createdAt.IsZero() {
		*createdAt = s.now()
	}
}

// Customers

func (s *Store) FindCustomers(_ context.Context, f core.CustomerFilter) ([]core.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.Customer
	for _, c := range s.customers {
		if matchCustomer(c, f) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) GetCustomer(_ context.Context, ownerID string, id uuid.UUID) (core.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.customers[id]
	if !ok || c.OwnerID != ownerID {
		return core.Customer{}, core.ErrNotFound
	}
	return c, nil
}

func (s *Store) CreateCustomer(_ context.Context, c *core.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stamp(&c.ID, &c.CreatedAt)
	s.customers[c.ID] = *c
	return nil
}

func (s *Store) CountCustomers(ctx context.Context, f core.CustomerFilter) (int, error) {
	found, err := s.FindCustomers(ctx, f)
	return len(found), err
}

func matchCustomer(c core.Customer, f core.CustomerFilter) bool {
	if c.OwnerID != f.OwnerID {
		return false
	}
	return f.Name == "" || c.Name == f.Name
}

// Invoices

func (s *Store) FindInvoices(_ context.Context, f core.InvoiceFilter) ([]core.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.Invoice
	for _, inv := range s.invoices {
		if matchInvoice(inv, f) {
			out = append(out, cloneInvoice(inv))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (s *Store) GetInvoice(_ context.Context, ownerID string, id uuid.UUID) (core.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inv, ok := s.invoices[id]
	if !ok || inv.OwnerID != ownerID {
		return core.Invoice{}, core.ErrNotFound
	}
	return cloneInvoice(inv), nil
}

func (s *Store) CreateInvoice(_ context.Context, inv *core.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stamp(&inv.ID, &inv.CreatedAt)
	s.invoices[inv.ID] = cloneInvoice(*inv)
	return nil
}

func (s *Store) CountInvoices(ctx context.Context, f core.InvoiceFilter) (int, error) {
	found, err := s.FindInvoices(ctx, f)
	return len(found), err
}

func matchInvoice(inv core.Invoice, f core.InvoiceFilter) bool {
	if inv.OwnerID != f.OwnerID {
		return false
	}
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, inv.Status) {
		return false
	}
	return f.Dates.Contains(inv.Date)
}

func cloneInvoice(inv core.Invoice) core.Invoice {
	inv.Items = slices.Clone(inv.Items)
	return inv
}

// Expenses

func (s *Store) FindExpenses(_ context.Context, f core.ExpenseFilter) ([]core.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.Expense
	for _, e := range s.expenses {
		if e.OwnerID != f.OwnerID {
			continue
		}
		if f.Category != "" && e.Category != f.Category {
			continue
		}
		if !f.Dates.Contains(e.Date) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (s *Store) GetExpense(_ context.Context, ownerID string, id uuid.UUID) (core.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.expenses[id]
	if !ok || e.OwnerID != ownerID {
		return core.Expense{}, core.ErrNotFound
	}
	return e, nil
}

func (s *Store) CreateExpense(_ context.Context, e *core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stamp(&e.ID, &e.CreatedAt)
	s.expenses[e.ID] = *e
	return nil
}

func (s *Store) CountExpenses(ctx context.Context, f core.ExpenseFilter) (int, error) {
	found, err := s.FindExpenses(ctx, f)
	return len(found), err
}

// Products

func (s *Store) FindProducts(_ context.Context, f core.ProductFilter) ([]core.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.Product
	for _, p := range s.products {
		if p.OwnerID != f.OwnerID {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.LowStock && !p.LowStock() {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetProduct(_ context.Context, ownerID string, id uuid.UUID) (core.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok || p.OwnerID != ownerID {
		return core.Product{}, core.ErrNotFound
	}
	return p, nil
}

func (s *Store) CreateProduct(_ context.Context, p *core.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stamp(&p.ID, &p.CreatedAt)
	s.products[p.ID] = *p
	return nil
}

func (s *Store) CountProducts(ctx context.Context, f core.ProductFilter) (int, error) {
	found, err := s.FindProducts(ctx, f)
	return len(found), err
}
