// Package table reads and writes the TSV feature-table artifact: a header
// row of sample IDs under a "#OTU ID" corner cell, then one row per
// feature with its frequency in each sample.
package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/otukit/vclust/internal/types"
)

// headerCorner is the first cell of the header row, kept for compatibility
// with the wider ecosystem's tab-separated table tooling.
const headerCorner = "#OTU ID"

// Read parses a TSV feature table
func Read(r io.Reader) (*types.FeatureTable, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1 // rectangularity checked below for better errors

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("feature table is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read feature table header: %w", err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("feature table header has no sample columns")
	}
	samples := header[1:]
	seen := make(map[string]bool, len(samples))
	for _, s := range samples {
		if s == "" {
			return nil, fmt.Errorf("feature table header has an empty sample ID")
		}
		if seen[s] {
			return nil, fmt.Errorf("duplicate sample ID: %s", s)
		}
		seen[s] = true
	}

	t := types.NewFeatureTable(samples)
	rowNo := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read feature table row %d: %w", rowNo, err)
		}
		rowNo++
		if len(record) != len(samples)+1 {
			return nil, fmt.Errorf("row %d has %d columns, expected %d", rowNo, len(record), len(samples)+1)
		}
		feature := record[0]
		if feature == "" {
			return nil, fmt.Errorf("row %d has an empty feature ID", rowNo)
		}
		if t.Has(feature) {
			return nil, fmt.Errorf("duplicate feature ID: %s", feature)
		}
		for i, cell := range record[1:] {
			freq, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d (%s): invalid frequency %q for sample %s", rowNo, feature, cell, samples[i])
			}
			if freq < 0 {
				return nil, fmt.Errorf("row %d (%s): negative frequency %v for sample %s", rowNo, feature, freq, samples[i])
			}
			t.Set(feature, samples[i], freq)
		}
	}
	return t, nil
}

// ReadFile parses a TSV feature table file
func ReadFile(path string) (*types.FeatureTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feature table: %w", err)
	}
	defer f.Close()
	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Write emits a feature table as TSV, features in row order
func Write(w io.Writer, t *types.FeatureTable) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	samples := t.Samples()
	header := make([]string, 0, len(samples)+1)
	header = append(header, headerCorner)
	header = append(header, samples...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write feature table header: %w", err)
	}

	row := make([]string, len(samples)+1)
	for _, feature := range t.Features() {
		row[0] = feature
		for i, sample := range samples {
			row[i+1] = strconv.FormatFloat(t.Get(feature, sample), 'f', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write feature table row %s: %w", feature, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush feature table: %w", err)
	}
	return nil
}

// WriteFile writes a feature table as a TSV file
func WriteFile(path string, t *types.FeatureTable) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create feature table: %w", err)
	}
	if err := Write(f, t); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
