package storage

import (
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ev-value-index/models"
)

func TestScoredArgsFollowColumnOrder(t *testing.T) {
	r := models.ScoredRecord{
		ValidRecord: models.ValidRecord{RawRecord: models.RawRecord{
			Brand: "Tata", Model: "Nexon EV", BatteryKWh: 1, RangeKm: 2, ChargingTimeHr: 3, PriceINR: 4,
			SourceURL: "https://example.com/nexon",
		}},
		DerivedMetrics: models.DerivedMetrics{
			KmPerKWh: 5, PricePerKm: 6, PricePerKWh: 7, KmPerHrCharge: 8, CostPerKm: 9, FullChargeCost: 10,
		},
		PriceSegment:       models.PriceMid,
		RangeSegment:       models.RangeLong,
		RangeScore:         11,
		EfficiencyScore:    12,
		AffordabilityScore: 13,
		EVValueIndex:       14,
	}
	want := map[string]interface{}{
		"brand": "Tata", "model": "Nexon EV", "battery_kwh": 1.0, "range_km": 2.0,
		"charging_time_hr": 3.0, "price_inr": 4.0, "source_url": "https://example.com/nexon",
		"km_per_kwh": 5.0, "price_per_km": 6.0, "price_per_kwh": 7.0, "km_per_hr_charge": 8.0,
		"cost_per_km": 9.0, "full_charge_cost": 10.0,
		"price_segment": string(models.PriceMid), "range_segment": string(models.RangeLong),
		"range_score": 11.0, "efficiency_score": 12.0, "affordability_score": 13.0, "ev_value_index": 14.0,
	}

	args := scoredArgs(r)
	require.Len(t, ScoredColumns, scoredColumnCount)
	require.Len(t, args, scoredColumnCount)
	for i, col := range ScoredColumns {
		assert.Equal(t, want[col], args[i], col)
	}
}

func TestInsertQueryPlaceholders(t *testing.T) {
	q := insertQuery(3)

	assert.Contains(t, q, "INSERT INTO ev_scores ("+strings.Join(ScoredColumns, ", ")+")")
	assert.Len(t, regexp.MustCompile(`\(\$\d+(?:,\$\d+)*\)`).FindAllString(q, -1), 3)
	assert.Contains(t, q, fmt.Sprintf("$%d)", 3*scoredColumnCount))
	assert.NotContains(t, q, fmt.Sprintf("$%d", 3*scoredColumnCount+1))
}
