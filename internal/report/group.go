package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Entry is the projection of a record that grouping needs.
type Entry struct {
	Date     time.Time
	Category string
	Amount   decimal.Decimal
}

// Group buckets entries and sorts the buckets by key. Day and month keys
// are formatted in loc. An empty input yields no buckets.
func Group(entries []Entry, by GroupBy, loc *time.Location) []Bucket {
	if len(entries) == 0 {
		return []Bucket{}
	}
	if loc == nil {
		loc = time.Local
	}

	if by == GroupNone {
		b := Bucket{Total: decimal.Zero}
		for _, e := range entries {
			b.Total = b.Total.Add(e.Amount)
			b.Count++
		}
		return []Bucket{b}
	}

	index := make(map[string]int)
	var buckets []Bucket
	for _, e := range entries {
		key := groupKey(e, by, loc)
		i, ok := index[key]
		if !ok {
			k := key
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, Bucket{Key: &k, Total: decimal.Zero})
		}
		buckets[i].Total = buckets[i].Total.Add(e.Amount)
		buckets[i].Count++
	}

	sort.Slice(buckets, func(i, j int) bool { return *buckets[i].Key < *buckets[j].Key })
	return buckets
}

func groupKey(e Entry, by GroupBy, loc *time.Location) string {
	switch by {
	case GroupDay:
		return e.Date.In(loc).Format("2006-01-02")
	case GroupMonth:
		return e.Date.In(loc).Format("2006-01")
	default:
		if e.Category == "" {
			return Uncategorized
		}
		return e.Category
	}
}
