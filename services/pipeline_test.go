package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ev-value-index/models"
)

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	return NewPipeline(NewValidator(DefaultBounds(), newTestLogger()), newTestEngine(t))
}

func TestPipelineProcess(t *testing.T) {
	raw := []models.RawRecord{
		nexon(),
		{Brand: "Tata", Model: "Nexon EV", BatteryKWh: 40, RangeKm: 465, ChargingTimeHr: 8, PriceINR: 1700000},
		{Brand: "MG", Model: "Comet EV", BatteryKWh: 0, RangeKm: 230, ChargingTimeHr: 7, PriceINR: 700000},
		{Brand: "Cheap", Model: "Scooter", BatteryKWh: 12, RangeKm: 120, ChargingTimeHr: 4, PriceINR: 50000},
		{Brand: "Tata", Model: "Tiago EV", BatteryKWh: 24, RangeKm: 315, ChargingTimeHr: 3.6, PriceINR: 850000},
		{Brand: "Hyundai", Model: "Ioniq 5", BatteryKWh: 72.6, RangeKm: 631, ChargingTimeHr: 6, PriceINR: 4605000},
	}

	p := newTestPipeline(t)
	out := p.Process(raw)

	require.Len(t, out, 3)
	for i := 1; i < len(out); i++ {
		assert.GreaterOrEqual(t, out[i-1].EVValueIndex, out[i].EVValueIndex)
	}
	for _, r := range out {
		if r.Model == "Nexon EV" {
			assert.Equal(t, 1500000.0, r.PriceINR, "first occurrence should survive")
		}
	}

	s := p.Summary()
	assert.Equal(t, 6, s.Input)
	assert.Equal(t, 3, s.Output)
	assert.Equal(t, 1, s.Duplicates)
	assert.Equal(t, 1, s.BatteryBounds)
	assert.Equal(t, 1, s.PriceBounds)
}

func TestPipelineTieBreaksByName(t *testing.T) {
	twin := func(brand string) models.RawRecord {
		r := nexon()
		r.Brand = brand
		return r
	}

	out := newTestPipeline(t).Process([]models.RawRecord{twin("Zeta"), twin("Alpha"), twin("Mid")})

	require.Len(t, out, 3)
	assert.Equal(t, []string{"Alpha", "Mid", "Zeta"}, []string{out[0].Brand, out[1].Brand, out[2].Brand})
}

func TestPipelineAllInvalid(t *testing.T) {
	bad := nexon()
	bad.PriceINR = 50000

	out := newTestPipeline(t).Process([]models.RawRecord{bad})
	assert.Empty(t, out)
}

func TestPipelineDropsInfinitePriceAfterDerivation(t *testing.T) {
	inf := nexon()
	inf.Model = "Infinite"
	inf.PriceINR = math.Inf(1)

	p := newTestPipeline(t)
	out := p.Process([]models.RawRecord{nexon(), inf})

	assert.Equal(t, 2, p.Summary().Output, "unbounded price passes validation")
	require.Len(t, out, 1)
	assert.Equal(t, "Nexon EV", out[0].Model)
}
