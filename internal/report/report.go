// Package report aggregates stored records into grouped statistics and
// builds the tables behind document exports.
package report

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/ledgerio/internal/core"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidDateRange is returned for malformed or inverted date bounds.
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInvalidGroupBy is returned for a grouping the report does not support.
	ErrInvalidGroupBy = errors.New("invalid group by")

	// ErrUnknownReport is returned for an unknown report name.
	ErrUnknownReport = errors.New("unknown report")
)

// Uncategorized keys records that carry no category.
const Uncategorized = "Uncategorized"

// GroupBy selects how records are bucketed.
type GroupBy string

const (
	GroupNone     GroupBy = ""
	GroupDay      GroupBy = "day"
	GroupMonth    GroupBy = "month"
	GroupCategory GroupBy = "category"
)

// ParseGroupBy validates a groupBy query value. "none" and "" are ungrouped.
func ParseGroupBy(s string) (GroupBy, error) {
	switch g := GroupBy(strings.ToLower(strings.TrimSpace(s))); g {
	case GroupNone, GroupDay, GroupMonth, GroupCategory:
		return g, nil
	case "none":
		return GroupNone, nil
	default:
		return "", fmt.Errorf("%w: %q (allowed: day, month, category)", ErrInvalidGroupBy, s)
	}
}

// DateRange bounds a query. A zero bound is open; both ends are inclusive.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Bounds converts the range to a store filter.
func (r *DateRange) Bounds() core.DateBounds {
	if r == nil {
		return core.DateBounds{}
	}
	return core.DateBounds{From: r.Start, To: r.End}
}

// ParseDateRange parses ISO start and end dates in loc. The end is widened
// to 23:59:59.999 so the whole final day is included. Either bound may be
// empty; both empty yields nil.
func ParseDateRange(start, end string, loc *time.Location) (*DateRange, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" && end == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.Local
	}

	var r DateRange
	if start != "" {
		t, err := parseISODate(start, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: start date %q", ErrInvalidDateRange, start)
		}
		r.Start = t
	}
	if end != "" {
		t, err := parseISODate(end, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: end date %q", ErrInvalidDateRange, end)
		}
		r.End = endOfDay(t)
	}
	if !r.Start.IsZero() && !r.End.IsZero() && r.End.Before(r.Start) {
		return nil, fmt.Errorf("%w: end date cannot be before start date", ErrInvalidDateRange)
	}
	return &r, nil
}

func parseISODate(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(loc), nil
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// Filter describes one report query.
type Filter struct {
	OwnerID  string
	Range    *DateRange
	GroupBy  GroupBy
	Category string
	LowStock bool
}

// Bucket is one group of an aggregation. Key is nil for the ungrouped bucket.
type Bucket struct {
	Key   *string         `json:"_id"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// ProfitLoss is the revenue and expense summary of a period.
type ProfitLoss struct {
	Revenue      decimal.Decimal `json:"revenue"`
	Expenses     decimal.Decimal `json:"expenses"`
	NetProfit    decimal.Decimal `json:"netProfit"`
	ProfitMargin decimal.Decimal `json:"profitMargin"`
}

// CategoryStock summarises the products of one category.
type CategoryStock struct {
	Category      string          `json:"_id"`
	TotalValue    decimal.Decimal `json:"totalValue"`
	TotalItems    int             `json:"totalItems"`
	LowStockItems int             `json:"lowStockItems"`
}

// Dashboard is the overview shown on the account landing page.
type Dashboard struct {
	Revenue         decimal.Decimal `json:"revenue"`
	Expenses        decimal.Decimal `json:"expenses"`
	Invoices        int             `json:"invoices"`
	PaidInvoices    int             `json:"paidInvoices"`
	PendingInvoices int             `json:"pendingInvoices"`
	Products        int             `json:"products"`
	LowStockItems   int             `json:"lowStockItems"`
	OutOfStockItems int             `json:"outOfStockItems"`
	InventoryValue  decimal.Decimal `json:"inventoryValue"`
}

// Trend is a dense monthly revenue series for charting.
type Trend struct {
	Months       []string          `json:"months"`
	Revenue      []decimal.Decimal `json:"revenue"`
	Sales        []int             `json:"sales"`
	TotalRevenue decimal.Decimal   `json:"totalRevenue"`
	TotalSales   int               `json:"totalSales"`
}
