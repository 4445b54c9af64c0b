package chart

import (
	"strconv"

	"github.com/plotforge/barchart/pkg/dataset"
	"github.com/plotforge/barchart/pkg/errors"
)

// Aggregate reduces raw rows into per-category totals and reports the
// highest accumulated total.
//
// For each row the category name is read from cols.Category and the item
// count from cols.Count; the count is parsed as an unsigned integer and
// added to the category's running total. The reported maximum is the
// maximum of accumulated totals, not of per-row counts.
//
// The first malformed row — a count that does not parse as a non-negative
// integer, or a row with fewer fields than the referenced indices — aborts
// the whole aggregation with a MALFORMED_ROW error. No partial totals are
// returned: a chart is rendered from all of the data or none of it.
//
// Zero rows are valid and yield empty totals with a maximum of 0.
func Aggregate(rows []dataset.Row, cols dataset.Columns) (Totals, uint32, error) {
	if cols.Category < 0 || cols.Count < 0 {
		return nil, 0, errors.New(errors.ErrCodeInvalidColumns,
			"column indices must be non-negative (category=%d, count=%d)", cols.Category, cols.Count)
	}

	totals := make(Totals, len(rows))
	var maxTotal uint32

	for i, row := range rows {
		if len(row) <= cols.Max() {
			return nil, 0, errors.New(errors.ErrCodeMalformedRow,
				"row %d has %d fields, need at least %d", i, len(row), cols.Max()+1)
		}

		category := row[cols.Category].Value
		count, err := strconv.ParseUint(row[cols.Count].Value, 10, 32)
		if err != nil {
			return nil, 0, errors.Wrap(errors.ErrCodeMalformedRow, err,
				"row %d: count field %q is not a non-negative integer", i, row[cols.Count].Value)
		}

		totals[category] += uint32(count)
		if totals[category] > maxTotal {
			maxTotal = totals[category]
		}
	}

	return totals, maxTotal, nil
}

// Sum returns the sum of all accumulated totals. It equals the sum of the
// count fields of every input row.
func (t Totals) Sum() uint64 {
	var sum uint64
	for _, v := range t {
		sum += uint64(v)
	}
	return sum
}
