package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"ev-value-index/models"
)

// ScoredColumns is the output schema: the raw columns followed by every
// derived, segment and score column.
var ScoredColumns = append(append([]string{}, RawColumns...),
	"km_per_kwh", "price_per_km", "price_per_kwh", "km_per_hr_charge",
	"cost_per_km", "full_charge_cost", "price_segment", "range_segment",
	"range_score", "efficiency_score", "affordability_score", "ev_value_index",
)

// CSVWriter writes records to a CSV file. It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewRawCSVWriter creates (or truncates) a raw-records CSV at path.
func NewRawCSVWriter(path string) (*CSVWriter, error) {
	return newCSVWriter(path, RawColumns)
}

// NewScoredCSVWriter creates (or truncates) a scored-records CSV at path.
func NewScoredCSVWriter(path string) (*CSVWriter, error) {
	return newCSVWriter(path, ScoredColumns)
}

// newCSVWriter creates the file and writes the header row.
// Intermediate directories are created automatically.
func newCSVWriter(path string, header []string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// WriteRaw appends raw records. Missing numeric values are written empty.
func (c *CSVWriter) WriteRaw(records []models.RawRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range records {
		if err := c.writer.Write(rawRow(r)); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// WriteScored appends scored records.
func (c *CSVWriter) WriteScored(records []models.ScoredRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range records {
		row := append(rawRow(r.RawRecord),
			formatFloat(r.KmPerKWh),
			formatFloat(r.PricePerKm),
			formatFloat(r.PricePerKWh),
			formatFloat(r.KmPerHrCharge),
			formatFloat(r.CostPerKm),
			formatFloat(r.FullChargeCost),
			string(r.PriceSegment),
			string(r.RangeSegment),
			formatFloat(r.RangeScore),
			formatFloat(r.EfficiencyScore),
			formatFloat(r.AffordabilityScore),
			formatFloat(r.EVValueIndex),
		)
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file. A flush failure is
// reported even when the file itself closes cleanly.
func (c *CSVWriter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writer.Flush()
	return errors.Join(c.writer.Error(), c.file.Close())
}

func rawRow(r models.RawRecord) []string {
	return []string{
		r.Brand,
		r.Model,
		formatFloat(r.BatteryKWh),
		formatFloat(r.RangeKm),
		formatFloat(r.ChargingTimeHr),
		formatFloat(r.PriceINR),
		r.SourceURL,
	}
}

// formatFloat uses the shortest representation that parses back exactly.
func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
