package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ev-value-index/models"
)

func TestNormalize(t *testing.T) {
	got := Normalize([]float64{200, 300, 400})
	assert.InDeltaSlice(t, []float64{0, 0.5, 1}, got, 1e-12)
}

func TestNormalizeInverse(t *testing.T) {
	got := NormalizeInverse([]float64{200, 300, 400})
	assert.InDeltaSlice(t, []float64{1, 0.5, 0}, got, 1e-12)
}

func TestNormalizeDegenerate(t *testing.T) {
	for _, fn := range []func([]float64) []float64{Normalize, NormalizeInverse} {
		assert.Equal(t, []float64{0.5, 0.5, 0.5}, fn([]float64{7, 7, 7}))
		assert.Equal(t, []float64{0.5}, fn([]float64{42}))
		assert.Empty(t, fn(nil))
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	in := []float64{3, 1, 2}
	Normalize(in)
	NormalizeInverse(in)
	assert.Equal(t, []float64{3, 1, 2}, in)
}

func TestPriceSegmentFor(t *testing.T) {
	tests := []struct {
		price float64
		want  models.PriceSegment
	}{
		{100000, models.PriceBudget},
		{999999, models.PriceBudget},
		{1000000, models.PriceMid},
		{1500000, models.PriceMid},
		{2000000, models.PricePremium},
		{3999999, models.PricePremium},
		{4000000, models.PriceLuxury},
		{25000000, models.PriceLuxury},
	}
	for _, tt := range tests {
		if got := PriceSegmentFor(tt.price); got != tt.want {
			t.Errorf("PriceSegmentFor(%.0f) = %s; want %s", tt.price, got, tt.want)
		}
	}
}

func TestRangeSegmentFor(t *testing.T) {
	tests := []struct {
		km   float64
		want models.RangeSegment
	}{
		{50, models.RangeShort},
		{199.9, models.RangeShort},
		{200, models.RangeMedium},
		{349, models.RangeMedium},
		{350, models.RangeLong},
		{465, models.RangeLong},
		{500, models.RangeUltra},
		{1000, models.RangeUltra},
	}
	for _, tt := range tests {
		if got := RangeSegmentFor(tt.km); got != tt.want {
			t.Errorf("RangeSegmentFor(%.1f) = %s; want %s", tt.km, got, tt.want)
		}
	}
}
