package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"vehicle-reconciler/utils"
)

// JSONWriter saves raw provider responses as indented JSON files. Failures
// are reported to the caller but are expected to be treated as non-fatal.
type JSONWriter struct {
	dir    string
	logger *utils.Logger
	now    func() time.Time
}

// NewJSONWriter creates a JSONWriter targeting dir.
func NewJSONWriter(dir string, logger *utils.Logger) *JSONWriter {
	return &JSONWriter{dir: dir, logger: logger, now: time.Now}
}

// SaveRaw writes payload to <provider>_<stockNo>_<timestamp>.json.
func (w *JSONWriter) SaveRaw(provider, stockNo string, payload any) error {
	name := fmt.Sprintf("%s_%s_%s.json",
		strings.ToLower(provider), stockNo, w.now().Format("20060102_150405"))
	return w.save(payload, filepath.Join(w.dir, name))
}

// Save writes payload under a caller-specified filename; when empty, a
// timestamp-derived name is used.
func (w *JSONWriter) Save(payload any, filename string) error {
	if filename == "" {
		filename = fmt.Sprintf("data_%s.json", w.now().Format("20060102_150405"))
	}
	return w.save(payload, filepath.Join(w.dir, filename))
}

func (w *JSONWriter) save(payload any, path string) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		w.logger.Error("Error saving data to file: %v", err)
		return fmt.Errorf("json: marshal payload: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		w.logger.Error("Error saving data to file: %v", err)
		return fmt.Errorf("json: create dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		w.logger.Error("Error saving data to file: %v", err)
		return fmt.Errorf("json: write %q: %w", path, err)
	}

	w.logger.Info("Data successfully saved to %s", path)
	return nil
}
