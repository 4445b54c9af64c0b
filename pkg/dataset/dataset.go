// Package dataset models the tabular input a chart is rendered from and
// loads it from the record-set JSON shape hosts emit.
//
// The engine in pkg/chart never parses source data itself; everything that
// touches wire formats or I/O lives here.
package dataset

// FieldKind is the logical type of a field value. Values always arrive as
// strings regardless of kind; numeric fields are parsed on demand by the
// consumer, and a parse failure there is an error, never a silent zero.
type FieldKind int

const (
	KindBinary FieldKind = iota
	KindImage
	KindNull
	KindText
	KindInteger
	KindFloat
)

// String returns the kind name used in logs and plan exports.
func (k FieldKind) String() string {
	switch k {
	case KindBinary:
		return "binary"
	case KindImage:
		return "image"
	case KindNull:
		return "null"
	case KindText:
		return "text"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	}
	return "unknown"
}

// Field is one named, typed scalar value within a row.
type Field struct {
	Name  string    `json:"Name"`
	Kind  FieldKind `json:"Type"`
	Value string    `json:"Value"`
}

// Row is an ordered sequence of fields. A fixed column layout is assumed:
// consumers address fields by index, not name.
type Row []Field

// Dataset is the full tabular input for one chart, immutable once handed to
// the engine.
type Dataset struct {
	Title       string   `json:"title,omitempty"`
	XLabel      string   `json:"x_label,omitempty"`
	YLabel      string   `json:"y_label,omitempty"`
	ColumnNames []string `json:"column_names,omitempty"`
	Rows        []Row    `json:"rows"`
}

// Empty reports whether the dataset has no rows. An empty dataset is not an
// error: it renders as an empty plot with axes only.
func (d *Dataset) Empty() bool { return len(d.Rows) == 0 }

// Columns names the fixed column indices the aggregator reads: the category
// label and the item count.
type Columns struct {
	Category int `json:"category" toml:"category"`
	Count    int `json:"count" toml:"count"`
}

// Max returns the highest referenced column index. Every row must have more
// fields than this.
func (c Columns) Max() int {
	if c.Category > c.Count {
		return c.Category
	}
	return c.Count
}
