package services

import (
	"strings"

	"ev-value-index/models"
	"ev-value-index/utils"
)

// Bounds are the inclusive admission limits for raw spec values.
type Bounds struct {
	MinBatteryKWh     float64
	MaxBatteryKWh     float64
	MinRangeKm        float64
	MaxRangeKm        float64
	MinChargingTimeHr float64
	MaxChargingTimeHr float64
	MinPriceINR       float64
}

// DefaultBounds returns the production admission limits.
func DefaultBounds() Bounds {
	return Bounds{
		MinBatteryKWh:     10,
		MaxBatteryKWh:     200,
		MinRangeKm:        50,
		MaxRangeKm:        1000,
		MinChargingTimeHr: 0.5,
		MaxChargingTimeHr: 48,
		MinPriceINR:       100000,
	}
}

// Validator reduces raw records to well-formed records unique by brand and model.
type Validator struct {
	bounds Bounds
	logger *utils.Logger
	last   models.ValidationSummary
}

// NewValidator creates a Validator enforcing the given bounds.
func NewValidator(bounds Bounds, logger *utils.Logger) *Validator {
	return &Validator{bounds: bounds, logger: logger}
}

// Validate drops records failing any bound or presence check, then keeps
// the first occurrence of each (brand, model) in input order. Surviving
// records are copied through unchanged.
func (v *Validator) Validate(raw []models.RawRecord) []models.ValidRecord {
	summary := models.ValidationSummary{Input: len(raw)}
	filtered := make([]models.RawRecord, 0, len(raw))

	for _, r := range raw {
		if reason, ok := v.check(r); !ok {
			tally(&summary, reason)
			v.logger.Debug("[validator] Dropping %q %q: %s", r.Brand, r.Model, reason)
			continue
		}
		filtered = append(filtered, r)
	}

	seen := make(map[models.VehicleKey]struct{}, len(filtered))
	result := make([]models.ValidRecord, 0, len(filtered))
	for _, r := range filtered {
		key := dedupKey(r)
		if _, dup := seen[key]; dup {
			summary.Duplicates++
			v.logger.Debug("[validator] Duplicate skipped: %s %s", r.Brand, r.Model)
			continue
		}
		seen[key] = struct{}{}
		result = append(result, models.ValidRecord{RawRecord: r})
	}

	summary.Output = len(result)
	v.last = summary

	v.logger.Info("[validator] Validated %d → %d records (dropped %d)",
		summary.Input, summary.Output, summary.Dropped())
	if summary.Dropped() > 0 {
		v.logger.Info("[validator] Drops: missing name=%d battery=%d range=%d charging=%d price=%d duplicate=%d",
			summary.MissingName, summary.BatteryBounds, summary.RangeBounds,
			summary.ChargingBounds, summary.PriceBounds, summary.Duplicates)
	}
	return result
}

// Last returns the summary of the most recent Validate call.
func (v *Validator) Last() models.ValidationSummary {
	return v.last
}

type dropReason string

const (
	reasonMissingName dropReason = "missing brand or model"
	reasonBattery     dropReason = "battery_kwh out of bounds"
	reasonRange       dropReason = "range_km out of bounds"
	reasonCharging    dropReason = "charging_time_hr out of bounds"
	reasonPrice       dropReason = "price_inr below minimum"
)

// check evaluates the presence and bound predicates. NaN fails every
// comparison and is therefore rejected as out of bounds.
func (v *Validator) check(r models.RawRecord) (dropReason, bool) {
	b := v.bounds
	switch {
	case strings.TrimSpace(r.Brand) == "" || strings.TrimSpace(r.Model) == "":
		return reasonMissingName, false
	case !within(r.BatteryKWh, b.MinBatteryKWh, b.MaxBatteryKWh):
		return reasonBattery, false
	case !within(r.RangeKm, b.MinRangeKm, b.MaxRangeKm):
		return reasonRange, false
	case !within(r.ChargingTimeHr, b.MinChargingTimeHr, b.MaxChargingTimeHr):
		return reasonCharging, false
	case !(r.PriceINR >= b.MinPriceINR):
		return reasonPrice, false
	}
	return "", true
}

// dedupKey ignores surrounding whitespace so "Tata " and "Tata" collide.
func dedupKey(r models.RawRecord) models.VehicleKey {
	return models.VehicleKey{
		Brand: strings.TrimSpace(r.Brand),
		Model: strings.TrimSpace(r.Model),
	}
}

func within(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}

func tally(s *models.ValidationSummary, reason dropReason) {
	switch reason {
	case reasonMissingName:
		s.MissingName++
	case reasonBattery:
		s.BatteryBounds++
	case reasonRange:
		s.RangeBounds++
	case reasonCharging:
		s.ChargingBounds++
	case reasonPrice:
		s.PriceBounds++
	}
}
