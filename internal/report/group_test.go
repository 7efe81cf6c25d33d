package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func entry(y int, m time.Month, d int, cat string, amount int64) Entry {
	return Entry{
		Date:     time.Date(y, m, d, 12, 0, 0, 0, time.UTC),
		Category: cat,
		Amount:   decimal.NewFromInt(amount),
	}
}

func TestGroup_ByMonth(t *testing.T) {
	entries := []Entry{
		entry(2024, 3, 2, "", 50),
		entry(2024, 1, 5, "", 100),
		entry(2024, 2, 9, "", 10),
		entry(2024, 1, 20, "", 25),
		entry(2024, 3, 30, "", 5),
	}

	got := Group(entries, GroupMonth, time.UTC)
	want := []struct {
		key   string
		total int64
		count int
	}{
		{"2024-01", 125, 2},
		{"2024-02", 10, 1},
		{"2024-03", 55, 2},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d buckets, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Key == nil || *got[i].Key != w.key {
			t.Errorf("bucket %d key = %v, want %s", i, got[i].Key, w.key)
		}
		if !got[i].Total.Equal(decimal.NewFromInt(w.total)) {
			t.Errorf("bucket %s total = %s, want %d", w.key, got[i].Total, w.total)
		}
		if got[i].Count != w.count {
			t.Errorf("bucket %s count = %d, want %d", w.key, got[i].Count, w.count)
		}
	}
}

func TestGroup_TotalsMatchInput(t *testing.T) {
	entries := []Entry{
		entry(2024, 1, 1, "Rent", 1000),
		entry(2024, 1, 2, "Travel", 120),
		entry(2024, 1, 2, "", 30),
		entry(2024, 1, 3, "Rent", 1000),
	}

	for _, by := range []GroupBy{GroupNone, GroupDay, GroupMonth, GroupCategory} {
		buckets := Group(entries, by, time.UTC)
		sum, n := decimal.Zero, 0
		for _, b := range buckets {
			sum = sum.Add(b.Total)
			n += b.Count
		}
		if !sum.Equal(decimal.NewFromInt(2150)) || n != len(entries) {
			t.Errorf("Group(%q): total %s over %d records, want 2150 over %d", by, sum, n, len(entries))
		}
	}
}

func TestGroup_Category(t *testing.T) {
	got := Group([]Entry{
		entry(2024, 1, 1, "Travel", 1),
		entry(2024, 1, 1, "", 2),
		entry(2024, 1, 1, "Rent", 3),
	}, GroupCategory, time.UTC)

	keys := make([]string, len(got))
	for i, b := range got {
		keys[i] = *b.Key
	}
	want := []string{"Rent", "Travel", Uncategorized}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
	}
}

func TestGroup_None(t *testing.T) {
	got := Group([]Entry{entry(2024, 1, 1, "", 7), entry(2024, 6, 1, "", 3)}, GroupNone, time.UTC)
	if len(got) != 1 {
		t.Fatalf("got %d buckets, want 1", len(got))
	}
	if got[0].Key != nil {
		t.Errorf("ungrouped key = %q, want nil", *got[0].Key)
	}
	if got[0].Count != 2 || !got[0].Total.Equal(decimal.NewFromInt(10)) {
		t.Errorf("bucket = %+v, want total 10 count 2", got[0])
	}
}

func TestGroup_Empty(t *testing.T) {
	got := Group(nil, GroupMonth, time.UTC)
	if got == nil || len(got) != 0 {
		t.Errorf("Group(nil) = %#v, want empty non-nil slice", got)
	}
}

func TestGroup_DayUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	// 02:00 UTC on the 2nd is still the 1st five hours west.
	e := Entry{Date: time.Date(2024, 1, 2, 2, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(1)}

	got := Group([]Entry{e}, GroupDay, loc)
	if *got[0].Key != "2024-01-01" {
		t.Errorf("key = %s, want 2024-01-01", *got[0].Key)
	}
}
