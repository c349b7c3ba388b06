package render

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/es-debug/nginx-latency-report/internal/domain"
)

// TableMarker is replaced with the JSON report in the HTML template.
const TableMarker = "$table_json"

var ErrNoMarker = errors.New("template has no " + TableMarker + " marker")

//go:embed report.html
var defaultTemplate []byte

func DefaultTemplate() []byte {
	return bytes.Clone(defaultTemplate)
}

// LoadTemplate reads the HTML template at path, or returns the built-in one
// for an empty path.
func LoadTemplate(path string) ([]byte, error) {
	if path == "" {
		return DefaultTemplate(), nil
	}

	tmpl, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}

	if !bytes.Contains(tmpl, []byte(TableMarker)) {
		return nil, fmt.Errorf("%s: %w", path, ErrNoMarker)
	}

	return tmpl, nil
}

func JSON(stats []domain.URLStats) ([]byte, error) {
	if stats == nil {
		stats = []domain.URLStats{}
	}

	data, err := json.Marshal(stats)
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}

	return data, nil
}

// HTML substitutes the JSON encoded stats for the marker in tmpl.
func HTML(tmpl []byte, stats []domain.URLStats) ([]byte, error) {
	if !bytes.Contains(tmpl, []byte(TableMarker)) {
		return nil, ErrNoMarker
	}

	data, err := JSON(stats)
	if err != nil {
		return nil, err
	}

	return bytes.Replace(tmpl, []byte(TableMarker), data, 1), nil
}

// WriteFile atomically replaces path with content, creating the parent
// directory when needed.
func WriteFile(path string, content []byte) error {
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp report: %w", err)
	}

	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()

		return fmt.Errorf("write temp report: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp report: %w", err)
	}

	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp report: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename temp report: %w", err)
	}

	return nil
}
