// Package csvio reads and writes the record-map CSV files the pipeline
// steps pass between each other.
package csvio

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sharederrors "github.com/DavidOteria/OcculusINT/internal/shared/errors"
)

// Read loads a CSV file with a header row into one map per record, keyed by
// column name. Short rows leave their trailing columns absent.
func Read(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: %w", path, sharederrors.ErrEmptyInput)
	}

	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Write saves rows under the given column order, header first. Missing keys
// become empty cells; extra keys are ignored.
func Write(path string, rows []map[string]string, columns []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return err
	}
	record := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			record[i] = row[col]
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// Outfile derives the next pipeline step's filename from the previous
// one: the stem's last underscore-separated chunk is replaced by suffix.
// "corp_domains_resolved.csv" with suffix "vuln" becomes
// "corp_domains_vuln.csv"; a stem without underscores keeps its whole name.
func Outfile(inputPath, suffix string) string {
	dir := filepath.Dir(inputPath)
	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))

	parts := strings.Split(stem, "_")
	base := stem
	if len(parts) > 1 {
		base = strings.Join(parts[:len(parts)-1], "_")
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%s.csv", base, suffix))
}
