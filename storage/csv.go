package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"vehicle-reconciler/models"
)

// Per-provider result column suffixes. The status column carries the bare
// provider name.
const (
	notesSuffix = " Notes"
	urlSuffix   = " URL"
)

// headerAliases maps historical input column spellings onto their canonical
// field names.
var headerAliases = map[string]string{
	"Tansmission": "Transmission",
}

// ReadRecords loads an ordered sequence of SourceRecords from a CSV file.
// Known columns (including historical misspellings) populate the typed
// fields; every column is preserved verbatim in Raw so the output
// round-trips untouched data. The returned headers keep input order.
func ReadRecords(path string) ([]*models.SourceRecord, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("csv: read %q: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("csv: %q has no header row", path)
	}

	headers := rows[0]
	records := make([]*models.SourceRecord, 0, len(rows)-1)

	for _, row := range rows[1:] {
		rec := &models.SourceRecord{Raw: make(map[string]string, len(headers))}
		for i, h := range headers {
			val := ""
			if i < len(row) {
				val = row[i]
			}
			rec.Raw[h] = val
			setField(rec, h, val)
		}
		records = append(records, rec)
	}

	return records, headers, nil
}

func setField(rec *models.SourceRecord, header, value string) {
	name := strings.TrimSpace(header)
	if canonical, ok := headerAliases[name]; ok {
		name = canonical
	}
	value = strings.TrimSpace(value)

	switch name {
	case "Make":
		rec.Make = value
	case "Model":
		rec.Model = value
	case "Year":
		rec.Year = value
	case "StockNo":
		rec.StockNo = value
	case "Price":
		rec.Price = value
	case "KM":
		rec.KM = value
	case "Transmission":
		if value != "" {
			rec.Transmission = value
		}
	case "Fuel":
		rec.Fuel = value
	case "Seats":
		rec.Seats = value
	case "Doors":
		rec.Doors = value
	}
}

// CSVWriter writes augmented records back out: every input column in its
// original order, plus the per-provider result columns. Rerunning a batch
// over an already-augmented file reproduces identical columns.
type CSVWriter struct {
	path      string
	headers   []string
	providers []string
}

// NewCSVWriter creates a writer targeting path. headers is the input
// column order to preserve; result columns for the given providers are
// appended when not already present.
func NewCSVWriter(path string, headers, providers []string) *CSVWriter {
	return &CSVWriter{path: path, headers: headers, providers: providers}
}

// ResultColumns returns the per-provider output column names in order.
func (w *CSVWriter) ResultColumns() []string {
	cols := make([]string, 0, len(w.providers)*3)
	for _, p := range w.providers {
		cols = append(cols, p, p+notesSuffix, p+urlSuffix)
	}
	return cols
}

// Write emits one row per record. Result columns already present in the
// input keep their position and are overwritten from Results; missing ones
// are appended.
func (w *CSVWriter) Write(records []*models.SourceRecord) error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", w.path, err)
	}
	defer f.Close()

	out := w.outputHeaders()

	cw := csv.NewWriter(f)
	if err := cw.Write(out); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	for _, rec := range records {
		row := make([]string, len(out))
		for i, h := range out {
			if val, ok := resultValue(rec, h, w.providers); ok {
				row[i] = val
			} else {
				row[i] = rec.Raw[h]
			}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Close implements RecordWriter; the file handle is scoped to Write.
func (w *CSVWriter) Close() error { return nil }

func (w *CSVWriter) outputHeaders() []string {
	present := make(map[string]bool, len(w.headers))
	out := make([]string, 0, len(w.headers)+len(w.providers)*3)
	for _, h := range w.headers {
		present[h] = true
		out = append(out, h)
	}
	for _, col := range w.ResultColumns() {
		if !present[col] {
			out = append(out, col)
		}
	}
	return out
}

// resultValue resolves a header against the record's per-provider results.
// The second return is false when the header is not a result column.
func resultValue(rec *models.SourceRecord, header string, providers []string) (string, bool) {
	for _, p := range providers {
		res, ok := rec.Result(p)
		if !ok {
			res = models.ProviderResult{}
		}
		switch header {
		case p:
			return res.Status, true
		case p + notesSuffix:
			return res.Notes, true
		case p + urlSuffix:
			return res.URL, true
		}
	}
	return "", false
}
