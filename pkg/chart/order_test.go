package chart

import "testing"

func categories(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Category
	}
	return out
}

func TestOrder(t *testing.T) {
	totals := Totals{"A": 5, "B": 10, "C": 1}

	tests := []struct {
		name string
		key  SortKey
		dir  SortDirection
		want []string
	}{
		{"total descending", SortByTotal, Descending, []string{"B", "A", "C"}},
		{"total ascending", SortByTotal, Ascending, []string{"C", "A", "B"}},
		{"category ascending", SortByCategory, Ascending, []string{"A", "B", "C"}},
		{"category descending", SortByCategory, Descending, []string{"C", "B", "A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := categories(Order(totals, tt.key, tt.dir))
			if len(got) != len(tt.want) {
				t.Fatalf("Order returned %d entries, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Order()[%d] = %q, want %q (full order %v)", i, got[i], tt.want[i], got)
				}
			}
		})
	}
}

// Ties under SortByTotal break by category name, so the order never depends
// on map iteration.
func TestOrderTotalTiesAreDeterministic(t *testing.T) {
	totals := Totals{"A": 5, "B": 5, "C": 5, "D": 1}

	first := categories(Order(totals, SortByTotal, Descending))
	for i := 0; i < 50; i++ {
		got := categories(Order(totals, SortByTotal, Descending))
		for j := range got {
			if got[j] != first[j] {
				t.Fatalf("run %d produced %v, first run produced %v", i, got, first)
			}
		}
	}

	// Tied categories come out in reverse name order on the descending pass.
	want := []string{"C", "B", "A", "D"}
	for i, w := range want {
		if first[i] != w {
			t.Errorf("tie-break order[%d] = %q, want %q", i, first[i], w)
		}
	}
}

func TestOrderEmpty(t *testing.T) {
	if got := Order(Totals{}, SortByTotal, Descending); len(got) != 0 {
		t.Errorf("Order of empty totals = %v, want empty", got)
	}
}

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		input   string
		want    SortKey
		wantErr bool
	}{
		{"", SortByCategory, false},
		{"category", SortByCategory, false},
		{"total", SortByTotal, false},
		{"Total", SortByTotal, false},
		{"name", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseSortKey(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSortKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseSortKey(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseSortDirection(t *testing.T) {
	tests := []struct {
		input   string
		want    SortDirection
		wantErr bool
	}{
		{"", Ascending, false},
		{"asc", Ascending, false},
		{"ascending", Ascending, false},
		{"desc", Descending, false},
		{"DESC", Descending, false},
		{"down", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseSortDirection(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSortDirection(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseSortDirection(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
