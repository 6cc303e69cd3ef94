package services

// NeutralScore is assigned to every value of a set with no spread.
const NeutralScore = 0.5

// Normalize min-max scales values to [0,1]. A set whose values are all
// equal maps to NeutralScore. Empty input yields an empty slice.
func Normalize(values []float64) []float64 {
	return scale(values, false)
}

// NormalizeInverse is Normalize with the direction flipped: the minimum
// maps to 1 and the maximum to 0.
func NormalizeInverse(values []float64) []float64 {
	return scale(values, true)
}

func scale(values []float64, inverse bool) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	if hi == lo {
		for i := range out {
			out[i] = NeutralScore
		}
		return out
	}

	span := hi - lo
	for i, v := range values {
		if inverse {
			out[i] = (hi - v) / span
		} else {
			out[i] = (v - lo) / span
		}
	}
	return out
}
