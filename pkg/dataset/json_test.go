package dataset

import (
	"strings"
	"testing"

	"github.com/plotforge/barchart/pkg/errors"
)

const sampleRecordSet = `{
	"Tablename": "inventory",
	"ColNames": ["category", "count"],
	"Records": [
		[
			{"Name": "category", "Type": 3, "Value": "fruit"},
			{"Name": "count", "Type": 4, "Value": "12"}
		],
		[
			{"Name": "category", "Type": 3, "Value": "veg"},
			{"Name": "count", "Type": 4, "Value": "7"}
		]
	]
}`

func TestReadJSON(t *testing.T) {
	ds, err := ReadJSON(strings.NewReader(sampleRecordSet))
	if err != nil {
		t.Fatalf("ReadJSON returned error: %v", err)
	}

	if ds.Title != "inventory" {
		t.Errorf("Title = %q, want %q (table name becomes title)", ds.Title, "inventory")
	}
	if len(ds.ColumnNames) != 2 || ds.ColumnNames[0] != "category" || ds.ColumnNames[1] != "count" {
		t.Errorf("ColumnNames = %v, want [category count]", ds.ColumnNames)
	}
	if len(ds.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(ds.Rows))
	}

	first := ds.Rows[0]
	if len(first) != 2 {
		t.Fatalf("first row has %d fields, want 2", len(first))
	}
	if first[0].Value != "fruit" || first[0].Kind != KindText {
		t.Errorf("first field = %+v, want text %q", first[0], "fruit")
	}
	if first[1].Value != "12" || first[1].Kind != KindInteger {
		t.Errorf("second field = %+v, want integer %q", first[1], "12")
	}
	if ds.Empty() {
		t.Error("Empty() = true for a two-row dataset")
	}
}

func TestReadJSONEmptyRecords(t *testing.T) {
	ds, err := ReadJSON(strings.NewReader(`{"Tablename": "t", "ColNames": [], "Records": []}`))
	if err != nil {
		t.Fatalf("ReadJSON returned error: %v", err)
	}
	if !ds.Empty() {
		t.Error("Empty() = false for a dataset with no records")
	}
}

func TestReadJSONMalformed(t *testing.T) {
	_, err := ReadJSON(strings.NewReader(`{"Records": [`))
	if err == nil {
		t.Fatal("expected error for truncated JSON, got nil")
	}
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error code = %q, want INVALID_INPUT", errors.GetCode(err))
	}
}

func TestImportJSONMissingFile(t *testing.T) {
	_, err := ImportJSON("/nonexistent/dataset.json")
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error code = %q, want INVALID_INPUT", errors.GetCode(err))
	}
}

func TestColumnsMax(t *testing.T) {
	tests := []struct {
		cols Columns
		want int
	}{
		{Columns{Category: 0, Count: 1}, 1},
		{Columns{Category: 3, Count: 1}, 3},
		{Columns{Category: 2, Count: 2}, 2},
	}
	for _, tt := range tests {
		if got := tt.cols.Max(); got != tt.want {
			t.Errorf("Columns%+v.Max() = %d, want %d", tt.cols, got, tt.want)
		}
	}
}

func TestFieldKindString(t *testing.T) {
	tests := []struct {
		kind FieldKind
		want string
	}{
		{KindBinary, "binary"},
		{KindImage, "image"},
		{KindNull, "null"},
		{KindText, "text"},
		{KindInteger, "integer"},
		{KindFloat, "float"},
		{FieldKind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("FieldKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
