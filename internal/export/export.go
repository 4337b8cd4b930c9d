package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Veraticus/budget-manager/internal/common"
	"github.com/Veraticus/budget-manager/internal/report"
)

// Format is a file export format.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q (want csv or json)", common.ErrInvalidConfig, s)
	}
}

// Envelope wraps a report with its kind and generation time.
type Envelope struct {
	GeneratedOn time.Time     `json:"generated_on"`
	Report      report.Report `json:"report"`
	Kind        report.Kind   `json:"kind"`
	Title       string        `json:"title"`
}

// Write encodes r to w in the given format.
func Write(w io.Writer, format Format, r report.Report, generatedOn time.Time) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, r)
	case FormatJSON:
		return writeJSON(w, r, generatedOn)
	default:
		return fmt.Errorf("%w: unknown export format %q", common.ErrInvalidConfig, format)
	}
}

// WriteFile writes r to path, creating parent directories as needed.
func WriteFile(path string, format Format, r report.Report, generatedOn time.Time) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("%w: failed to create directory: %w", common.ErrExportFailed, err)
		}
	}

	file, err := os.Create(path) //nolint:gosec // path is chosen by the user
	if err != nil {
		return fmt.Errorf("%w: failed to create file: %w", common.ErrExportFailed, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: failed to close file: %w", common.ErrExportFailed, cerr)
		}
	}()

	if err := Write(file, format, r, generatedOn); err != nil {
		return fmt.Errorf("%w: %w", common.ErrExportFailed, err)
	}
	return nil
}

func writeCSV(w io.Writer, r report.Report) error {
	table, err := Flatten(r)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(table.All()); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

func writeJSON(w io.Writer, r report.Report, generatedOn time.Time) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(Envelope{
		Kind:        r.Kind(),
		Title:       r.Title(),
		GeneratedOn: generatedOn,
		Report:      r,
	}); err != nil {
		return fmt.Errorf("failed to write json: %w", err)
	}
	return nil
}
