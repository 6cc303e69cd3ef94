package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"ev-value-index/models"
)

// RawColumns is the fixed input schema. Column order in the file is free.
var RawColumns = []string{
	"brand", "model", "battery_kwh", "range_km", "charging_time_hr", "price_inr", "source_url",
}

// ErrMissingColumns is wrapped by StructuralError.
var ErrMissingColumns = errors.New("missing required columns")

// StructuralError reports an input file that does not carry the raw schema.
// It is fatal for the run.
type StructuralError struct {
	Path    string
	Missing []string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("csv: %s: %v: %s", e.Path, ErrMissingColumns, strings.Join(e.Missing, ", "))
}

func (e *StructuralError) Unwrap() error { return ErrMissingColumns }

// ReadRawFile loads raw records from the CSV file at path.
func ReadRawFile(path string) ([]models.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	records, err := ReadRaw(f)
	var se *StructuralError
	if errors.As(err, &se) {
		se.Path = path
	}
	return records, err
}

// ReadRaw parses raw records from r. Empty or unparseable numeric cells
// load as NaN so that validation rejects them.
func ReadRaw(r io.Reader) ([]models.RawRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &StructuralError{Path: "<input>", Missing: RawColumns}
	}
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}

	var missing []string
	for _, col := range RawColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &StructuralError{Path: "<input>", Missing: missing}
	}

	cell := func(row []string, col string) string {
		i := idx[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []models.RawRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read line %d: %w", line, err)
		}

		records = append(records, models.RawRecord{
			Brand:          cell(row, "brand"),
			Model:          cell(row, "model"),
			BatteryKWh:     parseNumber(cell(row, "battery_kwh")),
			RangeKm:        parseNumber(cell(row, "range_km")),
			ChargingTimeHr: parseNumber(cell(row, "charging_time_hr")),
			PriceINR:       parseNumber(cell(row, "price_inr")),
			SourceURL:      cell(row, "source_url"),
		})
	}
	return records, nil
}

func parseNumber(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}
