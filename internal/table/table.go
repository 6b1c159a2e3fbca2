// Package table loads and writes the identity CSV tables the pipeline
// consumes and produces. Unknown columns pass through untouched.
package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"
)

// Required input columns. Matching is case-insensitive and ignores
// surrounding whitespace in the header row.
const (
	ColUsername    = "username"
	ColProfileName = "profile_name"
	ColURL         = "url"
	ColFollowers   = "followers"
)

var requiredColumns = []string{ColUsername, ColProfileName, ColURL, ColFollowers}

// Result columns appended by WithResultColumns.
var resultColumns = []string{"youtube_url", "youtube_score", "twitch_url", "twitch_score"}

// Table is an ordered CSV table with named column access.
type Table struct {
	header []string
	rows   [][]string
	index  map[string]int
}

func newTable(header []string) *Table {
	t := &Table{header: header, index: make(map[string]int, len(header))}
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, ok := t.index[key]; !ok {
			t.index[key] = i
		}
	}
	return t
}

// Load reads a CSV table and validates it against the required input
// schema: all four required columns present, and at least one row with
// a non-empty username.
func Load(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty csv: no header row")
	}

	t := newTable(records[0])
	for _, col := range requiredColumns {
		if _, ok := t.index[col]; !ok {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}

	for _, rec := range records[1:] {
		t.rows = append(t.rows, rec)
	}

	usable := false
	for i := range t.rows {
		if t.Field(i, ColUsername) != "" {
			usable = true
			break
		}
	}
	if !usable {
		return nil, fmt.Errorf("no rows with a non-empty %s", ColUsername)
	}
	return t, nil
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// Header returns the column names in order.
func (t *Table) Header() []string { return t.header }

// Row returns row i as stored. The caller must not mutate it.
func (t *Table) Row(i int) []string { return t.rows[i] }

// Field returns the trimmed value of the named column in row i, or ""
// when the column is absent or the row is short.
func (t *Table) Field(i int, col string) string {
	idx, ok := t.index[col]
	if !ok {
		return ""
	}
	row := t.rows[i]
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// WithResultColumns returns a new empty table whose header is this
// table's header plus the four match result columns.
func (t *Table) WithResultColumns() *Table {
	header := append(append([]string{}, t.header...), resultColumns...)
	return newTable(header)
}

// AppendRow appends a data row. Short rows are padded so every row
// writes out with the full header width.
func (t *Table) AppendRow(row []string) {
	for len(row) < len(t.header) {
		row = append(row, "")
	}
	t.rows = append(t.rows, row)
}

// WriteCSV writes the header and all rows.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range t.rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ResultsFilename returns the timestamped output filename for a run.
func ResultsFilename(now time.Time) string {
	return "youtube_twitch_results_" + now.Format("20060102_150405") + ".csv"
}
