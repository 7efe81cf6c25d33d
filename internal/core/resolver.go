package core

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// CustomerRef is a customer referenced by name from an import row, with
// whatever denormalised contact fields the row carries.
type CustomerRef struct {
	Name    string
	Email   string
	Phone   string
	Address Address
}

// CustomerResolver finds or creates customers by exact name for one batch.
//
// Resolutions are memoised for the lifetime of the batch, and concurrent
// first lookups of the same name share one store round trip, so a name is
// created at most once per batch. Separate batches do not coordinate: two
// imports racing on the same new name can still both create it.
type CustomerResolver struct {
	store   CustomerStore
	ownerID string

	mu    sync.RWMutex
	memo  map[string]Customer
	group singleflight.Group

	created int
}

// NewCustomerResolver creates a resolver scoped to one owner and batch.
func NewCustomerResolver(store CustomerStore, ownerID string) *CustomerResolver {
	return &CustomerResolver{
		store:   store,
		ownerID: ownerID,
		memo:    make(map[string]Customer),
	}
}

// Resolve returns the customer with ref.Name, creating it if the owner has none.
func (r *CustomerResolver) Resolve(ctx context.Context, ref CustomerRef) (Customer, error) {
	name := strings.TrimSpace(ref.Name)
	if name == "" {
		return Customer{}, fmt.Errorf("missing required field: Customer Name")
	}

	if c, ok := r.cached(name); ok {
		return c, nil
	}

	v, err, _ := r.group.Do(name, func() (any, error) {
		// A concurrent call may have finished between the cache miss and Do.
		if c, ok := r.cached(name); ok {
			return c, nil
		}

		found, err := r.store.FindCustomers(ctx, CustomerFilter{OwnerID: r.ownerID, Name: name})
		if err != nil {
			return Customer{}, fmt.Errorf("find customer %q: %w", name, err)
		}

		var c Customer
		if len(found) > 0 {
			c = found[0]
		} else {
			c = Customer{
				OwnerID: r.ownerID,
				Name:    name,
				Email:   ref.Email,
				Phone:   ref.Phone,
				Address: ref.Address,
			}
			if err := r.store.CreateCustomer(ctx, &c); err != nil {
				return Customer{}, fmt.Errorf("create customer %q: %w", name, err)
			}
		}

		r.mu.Lock()
		r.memo[name] = c
		if len(found) == 0 {
			r.created++
		}
		r.mu.Unlock()
		return c, nil
	})
	if err != nil {
		return Customer{}, err
	}
	return v.(Customer), nil
}

// Created returns how many customers this resolver has created.
func (r *CustomerResolver) Created() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.created
}

func (r *CustomerResolver) cached(name string) (Customer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.memo[name]
	return c, ok
}
