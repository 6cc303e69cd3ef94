package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source is one vehicle spec page to fetch.
type Source struct {
	Brand string `yaml:"brand"`
	Model string `yaml:"model"`
	URL   string `yaml:"url"`

	// Fallback values are used for any field the page does not yield.
	Fallback SpecValues `yaml:"fallback"`
}

// SpecValues holds optional spec figures. Nil means unknown.
type SpecValues struct {
	BatteryKWh     *float64 `yaml:"battery_kwh"`
	RangeKm        *float64 `yaml:"range_km"`
	ChargingTimeHr *float64 `yaml:"charging_time_hr"`
	PriceINR       *float64 `yaml:"price_inr"`
}

type sourcesFile struct {
	Sources []Source `yaml:"sources"`
}

// LoadSources reads the YAML source list at path.
func LoadSources(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read sources %q: %w", path, err)
	}
	return ParseSources(data)
}

// ParseSources decodes a YAML source list. Every source needs a url.
func ParseSources(data []byte) ([]Source, error) {
	var f sourcesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("config: parse sources: %w", err)
	}

	var errs []error
	for i := range f.Sources {
		s := &f.Sources[i]
		s.Brand = strings.TrimSpace(s.Brand)
		s.Model = strings.TrimSpace(s.Model)
		s.URL = strings.TrimSpace(s.URL)
		if s.URL == "" {
			errs = append(errs, fmt.Errorf("source %d (%s %s): url is required", i, s.Brand, s.Model))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("config: invalid sources: %w", err)
	}
	return f.Sources, nil
}
