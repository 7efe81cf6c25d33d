package core

// importer.go drives spreadsheet rows through mapping, reference resolution,
// validation and persistence.
//
// Rows are independent: each runs Build then Persist, and any failure is
// recorded as "Row N: reason" (N = index + 2, accounting for the header line
// and 1-based numbering) without stopping the batch. There is no cross-row
// transaction; a failing row never rolls back an earlier success.
//
// Rows are fanned out over a bounded errgroup. Each worker writes into a
// pre-sized slot for its row index and the outcome is folded in row order
// afterwards, so messages and counts do not depend on scheduling.

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultImportWorkers is the default number of rows processed concurrently.
const DefaultImportWorkers = 4

// Importer executes batch imports against a store.
type Importer struct {
	store   Store
	workers int
	loc     *time.Location
	now     func() time.Time
}

// NewImporter creates an importer with at most workers rows in flight.
func NewImporter(store Store, workers int) *Importer {
	if workers <= 0 {
		workers = DefaultImportWorkers
	}
	return &Importer{
		store:   store,
		workers: workers,
		loc:     time.Local,
		now:     time.Now,
	}
}

// SetLocation sets the zone that zone-less and serial dates are read in.
// It should match the report location so imported dates bucket on the
// day they were written.
func (im *Importer) SetLocation(loc *time.Location) {
	if loc != nil {
		im.loc = loc
	}
}

// Run imports rows for one owner. It returns an error only when ctx is
// cancelled; row failures are reported in the outcome.
func (im *Importer) Run(ctx context.Context, def EntityDefinition, ownerID string, rows []RawRow) (ImportOutcome, error) {
	rowErrs := make([]error, len(rows))
	resolver := NewCustomerResolver(im.store, ownerID)
	now := im.now().In(im.loc)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(im.workers)

	for i := range rows {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rc := RowContext{
				Index:     i,
				Row:       rows[i],
				OwnerID:   ownerID,
				Now:       now,
				Customers: resolver,
			}
			rowErrs[i] = im.importRow(gctx, def, rc)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return ImportOutcome{}, err
	}
	if err := ctx.Err(); err != nil {
		return ImportOutcome{}, err
	}

	outcome := ImportOutcome{ErrorMessages: []string{}}
	for i, rowErr := range rowErrs {
		if rowErr == nil {
			outcome.SuccessCount++
			continue
		}
		outcome.ErrorCount++
		outcome.ErrorMessages = append(outcome.ErrorMessages, fmt.Sprintf("Row %d: %s", i+2, rowErr.Error()))
	}
	return outcome, nil
}

func (im *Importer) importRow(ctx context.Context, def EntityDefinition, rc RowContext) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("internal error: %v", p)
		}
	}()

	record, err := def.Build(ctx, rc)
	if err != nil {
		return err
	}
	return def.Persist(ctx, im.store, record)
}
