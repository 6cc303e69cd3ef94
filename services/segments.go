package services

import "ev-value-index/models"

// PriceSegmentFor buckets a price. Bands are lower-inclusive and
// upper-exclusive; Luxury is open-ended.
func PriceSegmentFor(price float64) models.PriceSegment {
	switch {
	case price < 1_000_000:
		return models.PriceBudget
	case price < 2_000_000:
		return models.PriceMid
	case price < 4_000_000:
		return models.PricePremium
	default:
		return models.PriceLuxury
	}
}

// RangeSegmentFor buckets a range in km. Ultra is open-ended.
func RangeSegmentFor(rangeKm float64) models.RangeSegment {
	switch {
	case rangeKm < 200:
		return models.RangeShort
	case rangeKm < 350:
		return models.RangeMedium
	case rangeKm < 500:
		return models.RangeLong
	default:
		return models.RangeUltra
	}
}
