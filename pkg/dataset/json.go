package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"

	"github.com/plotforge/barchart/pkg/errors"
	"github.com/plotforge/barchart/pkg/httputil"
)

// recordSet is the row-data JSON shape emitted by database web frontends:
// one array of typed fields per row, plus the column names.
type recordSet struct {
	Tablename string   `json:"Tablename"`
	ColNames  []string `json:"ColNames"`
	Records   []Row    `json:"Records"`
}

// ReadJSON decodes a record-set document from r.
//
// The accepted shape is {"Records": [[{"Name", "Type", "Value"}, ...]],
// "ColNames": [...], "Tablename": "..."}. The table name, when present,
// becomes the dataset title; callers override labels afterwards.
func ReadJSON(r io.Reader) (*Dataset, error) {
	var rs recordSet
	dec := json.NewDecoder(r)
	if err := dec.Decode(&rs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode record set")
	}

	return &Dataset{
		Title:       rs.Tablename,
		ColumnNames: rs.ColNames,
		Rows:        rs.Records,
	}, nil
}

// ImportJSON reads a record-set document from a file.
func ImportJSON(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open dataset %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}

// Fetch retrieves a record-set document from a URL, retrying transient
// failures.
func Fetch(ctx context.Context, client *http.Client, url string) (*Dataset, error) {
	body, err := httputil.Fetch(ctx, client, url)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "fetch dataset %s", url)
	}
	return ReadJSON(bytes.NewReader(body))
}
