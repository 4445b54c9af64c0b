package chart

import (
	"fmt"
	"sort"
	"strings"
)

// SortKey selects which attribute orders the bars.
type SortKey int

const (
	// SortByCategory orders bars by category name.
	SortByCategory SortKey = iota
	// SortByTotal orders bars by accumulated total.
	SortByTotal
)

// String returns the flag/config spelling of the key.
func (k SortKey) String() string {
	if k == SortByTotal {
		return "total"
	}
	return "category"
}

// ParseSortKey converts a flag/config string to a SortKey.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(s) {
	case "category", "":
		return SortByCategory, nil
	case "total":
		return SortByTotal, nil
	}
	return 0, fmt.Errorf("unknown sort key: %q (must be 'category' or 'total')", s)
}

// SortDirection selects the direction of the bar order.
type SortDirection int

const (
	Ascending SortDirection = iota
	Descending
)

// String returns the flag/config spelling of the direction.
func (d SortDirection) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// ParseSortDirection converts a flag/config string to a SortDirection.
func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToLower(s) {
	case "asc", "ascending", "":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return 0, fmt.Errorf("unknown sort direction: %q (must be 'asc' or 'desc')", s)
}

// Order converts accumulated totals into the bar draw order: index 0 is the
// leftmost bar. The order depends only on the totals, the key, and the
// direction, so re-rendering the same dataset at a new surface size keeps
// the bars in place.
//
// The ordering is a two-step: the entries are first sorted in reverse
// (largest key first), then the once-sorted sequence is flipped when an
// ascending result is needed. Ties under SortByTotal break by category name
// within the same reverse pass, which keeps the output deterministic
// regardless of map iteration order.
func Order(totals Totals, key SortKey, dir SortDirection) []Entry {
	entries := make([]Entry, 0, len(totals))
	for category, total := range totals {
		entries = append(entries, Entry{Category: category, Total: total})
	}

	switch key {
	case SortByTotal:
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].Total != entries[j].Total {
				return entries[i].Total > entries[j].Total
			}
			return entries[i].Category > entries[j].Category
		})
	default:
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Category > entries[j].Category
		})
	}

	if dir == Ascending {
		reverse(entries)
	}
	return entries
}

func reverse(entries []Entry) {
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
}
