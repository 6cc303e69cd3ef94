package services

import (
	"fmt"
	"math"

	"ev-value-index/models"
	"ev-value-index/utils"
)

// DefaultElectricityCostPerUnit is the assumed tariff per kWh, in the
// same currency as price_inr.
const DefaultElectricityCostPerUnit = 8.0

// Weights blend the three sub-scores into the composite index.
type Weights struct {
	Range         float64
	Efficiency    float64
	Affordability float64
}

// DefaultWeights returns the production 40/30/30 blend.
func DefaultWeights() Weights {
	return Weights{Range: 0.4, Efficiency: 0.3, Affordability: 0.3}
}

const weightSumTolerance = 1e-9

// Validate checks the weights are finite, non-negative and sum to 1.
func (w Weights) Validate() error {
	for _, x := range []float64{w.Range, w.Efficiency, w.Affordability} {
		if math.IsNaN(x) || math.IsInf(x, 0) || x < 0 {
			return fmt.Errorf("scoring: weights must be finite and non-negative, got %v", x)
		}
	}
	if sum := w.Range + w.Efficiency + w.Affordability; math.Abs(sum-1) > weightSumTolerance {
		return fmt.Errorf("scoring: weights must sum to 1, got %v", sum)
	}
	return nil
}

// ScoringConfig holds the tunable constants of the Engine.
type ScoringConfig struct {
	ElectricityCostPerUnit float64
	Weights                Weights
}

// DefaultScoringConfig returns the production scoring constants.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		ElectricityCostPerUnit: DefaultElectricityCostPerUnit,
		Weights:                DefaultWeights(),
	}
}

// Engine derives metrics, segments and scores from validated records.
type Engine struct {
	cfg    ScoringConfig
	logger *utils.Logger
}

// NewEngine returns an Engine, or an error if cfg is unusable.
func NewEngine(cfg ScoringConfig, logger *utils.Logger) (*Engine, error) {
	if err := cfg.Weights.Validate(); err != nil {
		return nil, err
	}
	if !(cfg.ElectricityCostPerUnit > 0) || math.IsInf(cfg.ElectricityCostPerUnit, 0) {
		return nil, fmt.Errorf("scoring: electricity cost must be a positive finite number, got %v", cfg.ElectricityCostPerUnit)
	}
	return &Engine{cfg: cfg, logger: logger}, nil
}

// Score derives per-record metrics and segments, drops records with any
// non-finite metric, then normalises across the surviving set and computes
// the composite index. Empty input yields empty output.
func (e *Engine) Score(records []models.ValidRecord) []models.ScoredRecord {
	scored := make([]models.ScoredRecord, 0, len(records))

	for _, r := range records {
		m := e.Derive(r.RawRecord)
		if !finite(m) {
			e.logger.Warn("[scoring] Dropping %s %s: non-finite derived metric %+v", r.Brand, r.Model, m)
			continue
		}
		scored = append(scored, models.ScoredRecord{
			ValidRecord:    r,
			DerivedMetrics: m,
			PriceSegment:   PriceSegmentFor(r.PriceINR),
			RangeSegment:   RangeSegmentFor(r.RangeKm),
		})
	}

	if dropped := len(records) - len(scored); dropped > 0 {
		e.logger.Info("[scoring] Dropped %d records with non-finite metrics", dropped)
	}
	if len(scored) == 0 {
		return scored
	}

	rangeKm := make([]float64, len(scored))
	kmPerKWh := make([]float64, len(scored))
	pricePerKm := make([]float64, len(scored))
	for i, s := range scored {
		rangeKm[i] = s.RangeKm
		kmPerKWh[i] = s.KmPerKWh
		pricePerKm[i] = s.PricePerKm
	}

	rangeScores := Normalize(rangeKm)
	efficiencyScores := Normalize(kmPerKWh)
	affordabilityScores := NormalizeInverse(pricePerKm)

	w := e.cfg.Weights
	for i := range scored {
		s := &scored[i]
		s.RangeScore = rangeScores[i]
		s.EfficiencyScore = efficiencyScores[i]
		s.AffordabilityScore = affordabilityScores[i]

		index := 100 * (w.Range*s.RangeScore + w.Efficiency*s.EfficiencyScore + w.Affordability*s.AffordabilityScore)
		s.EVValueIndex = math.Min(100, math.Max(0, index))
	}

	e.logger.Info("[scoring] Scored %d records", len(scored))
	return scored
}

// Derive computes the per-record metrics. It has no cross-record dependency.
func (e *Engine) Derive(r models.RawRecord) models.DerivedMetrics {
	kmPerKWh := r.RangeKm / r.BatteryKWh
	return models.DerivedMetrics{
		KmPerKWh:       kmPerKWh,
		PricePerKm:     r.PriceINR / r.RangeKm,
		PricePerKWh:    r.PriceINR / r.BatteryKWh,
		KmPerHrCharge:  r.RangeKm / r.ChargingTimeHr,
		CostPerKm:      e.cfg.ElectricityCostPerUnit / kmPerKWh,
		FullChargeCost: r.BatteryKWh * e.cfg.ElectricityCostPerUnit,
	}
}

func finite(m models.DerivedMetrics) bool {
	for _, v := range []float64{
		m.KmPerKWh, m.PricePerKm, m.PricePerKWh,
		m.KmPerHrCharge, m.CostPerKm, m.FullChargeCost,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
