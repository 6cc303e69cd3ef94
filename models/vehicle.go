package models

// RawRecord is one vehicle specification exactly as ingested.
// Numeric fields that were missing or unparseable hold NaN.
type RawRecord struct {
	Brand          string
	Model          string
	BatteryKWh     float64
	RangeKm        float64
	ChargingTimeHr float64
	PriceINR       float64
	SourceURL      string
}

// VehicleKey is the (brand, model) identity of a vehicle.
type VehicleKey struct {
	Brand string
	Model string
}

// ValidRecord is a RawRecord that passed every bound check and is unique
// under its VehicleKey.
type ValidRecord struct {
	RawRecord
}

// PriceSegment buckets a vehicle by its sticker price.
type PriceSegment string

const (
	PriceBudget  PriceSegment = "Budget"
	PriceMid     PriceSegment = "Mid"
	PricePremium PriceSegment = "Premium"
	PriceLuxury  PriceSegment = "Luxury"
)

// RangeSegment buckets a vehicle by its rated range.
type RangeSegment string

const (
	RangeShort  RangeSegment = "Short"
	RangeMedium RangeSegment = "Medium"
	RangeLong   RangeSegment = "Long"
	RangeUltra  RangeSegment = "Ultra"
)

// DerivedMetrics are the per-record economic and efficiency figures.
type DerivedMetrics struct {
	KmPerKWh       float64
	PricePerKm     float64
	PricePerKWh    float64
	KmPerHrCharge  float64
	CostPerKm      float64
	FullChargeCost float64
}

// ScoredRecord is the final, persisted row of the pipeline.
type ScoredRecord struct {
	ValidRecord
	DerivedMetrics

	PriceSegment PriceSegment
	RangeSegment RangeSegment

	RangeScore         float64
	EfficiencyScore    float64
	AffordabilityScore float64
	EVValueIndex       float64
}

// ValidationSummary counts why records were excluded during validation.
// A record failing several predicates is tallied under the first one hit.
type ValidationSummary struct {
	Input          int
	Output         int
	MissingName    int
	BatteryBounds  int
	RangeBounds    int
	ChargingBounds int
	PriceBounds    int
	Duplicates     int
}

// Dropped returns the total number of excluded records.
func (s ValidationSummary) Dropped() int {
	return s.Input - s.Output
}

// InsightReport holds summary analytics over the scored dataset.
type InsightReport struct {
	TotalVehicles int

	AverageIndex float64
	MinIndex     float64
	MaxIndex     float64

	TopByIndex     []ScoredRecord
	MostEfficient  *ScoredRecord
	CheapestPerKm  *ScoredRecord
	ByPriceSegment map[PriceSegment]int
	ByRangeSegment map[RangeSegment]int
}
