package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

// fakeCustomers is a CustomerStore that counts creations and can fail.
type fakeCustomers struct {
	mu       sync.Mutex
	byName   map[string]Customer
	creates  int
	finds    int
	failNext error
	delay    time.Duration
}

func newFakeCustomers() *fakeCustomers {
	return &fakeCustomers{byName: make(map[string]Customer)}
}

func (f *fakeCustomers) FindCustomers(_ context.Context, filter CustomerFilter) ([]Customer, error) {
	time.Sleep(f.delay)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finds++
	if err := f.failNext; err != nil {
		f.failNext = nil
		return nil, err
	}
	if c, ok := f.byName[filter.OwnerID+"/"+filter.Name]; ok {
		return []Customer{c}, nil
	}
	return nil, nil
}

func (f *fakeCustomers) GetCustomer(context.Context, string, uuid.UUID) (Customer, error) {
	return Customer{}, ErrNotFound
}

func (f *fakeCustomers) CreateCustomer(_ context.Context, c *Customer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = uuid.New()
	f.byName[c.OwnerID+"/"+c.Name] = *c
	f.creates++
	return nil
}

func (f *fakeCustomers) CountCustomers(context.Context, CustomerFilter) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byName), nil
}

func TestCustomerResolver_CreatesOncePerName(t *testing.T) {
	store := newFakeCustomers()
	store.delay = 5 * time.Millisecond
	r := NewCustomerResolver(store, "owner-1")

	const n = 20
	ids := make([]uuid.UUID, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := r.Resolve(context.Background(), CustomerRef{Name: "New Customer"})
			if err != nil {
				t.Errorf("Resolve() error = %v", err)
				return
			}
			ids[i] = c.ID
		}(i)
	}
	wg.Wait()

	if store.creates != 1 {
		t.Errorf("creates = %d, want 1", store.creates)
	}
	if r.Created() != 1 {
		t.Errorf("Created() = %d, want 1", r.Created())
	}
	for i := 1; i < n; i++ {
		if ids[i] != ids[0] {
			t.Fatalf("resolution %d returned a different customer", i)
		}
	}
}

func TestCustomerResolver_FindsExisting(t *testing.T) {
	store := newFakeCustomers()
	existing := Customer{OwnerID: "owner-1", Name: "Acme"}
	_ = store.CreateCustomer(context.Background(), &existing)
	store.creates = 0

	r := NewCustomerResolver(store, "owner-1")
	got, err := r.Resolve(context.Background(), CustomerRef{Name: "  Acme "})
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != existing.ID {
		t.Errorf("Resolve() = %v, want existing %v", got.ID, existing.ID)
	}
	if store.creates != 0 {
		t.Errorf("creates = %d, want 0", store.creates)
	}
}

func TestCustomerResolver_MemoisesLookups(t *testing.T) {
	store := newFakeCustomers()
	r := NewCustomerResolver(store, "owner-1")
	for i := 0; i < 3; i++ {
		if _, err := r.Resolve(context.Background(), CustomerRef{Name: "Acme"}); err != nil {
			t.Fatal(err)
		}
	}
	if store.finds != 1 {
		t.Errorf("finds = %d, want 1", store.finds)
	}
}

func TestCustomerResolver_CopiesContactFields(t *testing.T) {
	store := newFakeCustomers()
	r := NewCustomerResolver(store, "owner-1")
	ref := CustomerRef{
		Name:    "Acme",
		Email:   "ap@acme.test",
		Phone:   "555-0100",
		Address: Address{City: "Pune", Country: "India"},
	}
	got, err := r.Resolve(context.Background(), ref)
	if err != nil {
		t.Fatal(err)
	}
	if got.Email != ref.Email || got.Phone != ref.Phone || got.Address != ref.Address || got.OwnerID != "owner-1" {
		t.Errorf("created customer = %+v", got)
	}
}

func TestCustomerResolver_FailureNotMemoised(t *testing.T) {
	store := newFakeCustomers()
	store.failNext = errors.New("connection reset")
	r := NewCustomerResolver(store, "owner-1")

	if _, err := r.Resolve(context.Background(), CustomerRef{Name: "Acme"}); err == nil {
		t.Fatal("expected first Resolve to fail")
	}
	if _, err := r.Resolve(context.Background(), CustomerRef{Name: "Acme"}); err != nil {
		t.Fatalf("retry Resolve() error = %v", err)
	}
	if store.creates != 1 {
		t.Errorf("creates = %d, want 1", store.creates)
	}
}

func TestCustomerResolver_EmptyName(t *testing.T) {
	r := NewCustomerResolver(newFakeCustomers(), "owner-1")
	if _, err := r.Resolve(context.Background(), CustomerRef{Name: "   "}); err == nil {
		t.Error("expected error for blank name")
	}
}
