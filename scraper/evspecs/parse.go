package evspecs

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// batteryRegexp prefers a figure labelled as battery capacity.
	batteryRegexp    = regexp.MustCompile(`(?i)battery[^0-9]{0,40}(\d+(?:\.\d+)?)\s*kwh`)
	anyKWhRegexp     = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*kwh\b`)
	rangeRegexp      = regexp.MustCompile(`(?i)range[^0-9]{0,40}(\d[\d,]*(?:\.\d+)?)\s*km\b`)
	chargeHoursRegex = regexp.MustCompile(`(?i)charg[^0-9]{0,60}(\d+(?:\.\d+)?)\s*(?:hours|hour|hrs|hr|h)\b`)
	chargeMinsRegex  = regexp.MustCompile(`(?i)charg[^0-9]{0,60}(\d+(?:\.\d+)?)\s*(?:minutes|minute|mins|min)\b`)
	// priceRegexp matches "₹ 14.99 Lakh", "Rs. 15,00,000", "INR 1.2 crore".
	priceRegexp = regexp.MustCompile(`(?i)(?:₹|\brs\.?|\binr)\s*(\d[\d,]*(?:\.\d+)?)\s*(lakhs?|lacs?|crores?|cr)?\b`)
)

// Specs holds the figures extracted from a spec page. Nil means not found.
type Specs struct {
	BatteryKWh     *float64
	RangeKm        *float64
	ChargingTimeHr *float64
	PriceINR       *float64
}

// ParseSpecs extracts spec figures from the visible text of a page.
func ParseSpecs(text string) Specs {
	var s Specs

	if v, ok := firstNumber(batteryRegexp, text); ok {
		s.BatteryKWh = &v
	} else if v, ok := firstNumber(anyKWhRegexp, text); ok {
		s.BatteryKWh = &v
	}

	if v, ok := firstNumber(rangeRegexp, text); ok {
		s.RangeKm = &v
	}

	if v, ok := firstNumber(chargeHoursRegex, text); ok {
		s.ChargingTimeHr = &v
	} else if v, ok := firstNumber(chargeMinsRegex, text); ok {
		hours := v / 60
		s.ChargingTimeHr = &hours
	}

	if v, ok := parsePrice(text); ok {
		s.PriceINR = &v
	}
	return s
}

func firstNumber(re *regexp.Regexp, text string) (float64, bool) {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return 0, false
	}
	return parseFloat(m[1])
}

func parsePrice(text string) (float64, bool) {
	m := priceRegexp.FindStringSubmatch(text)
	if len(m) < 2 {
		return 0, false
	}
	v, ok := parseFloat(m[1])
	if !ok {
		return 0, false
	}

	unit := strings.ToLower(m[2])
	switch {
	case strings.HasPrefix(unit, "lakh"), strings.HasPrefix(unit, "lac"):
		v *= 1e5
	case strings.HasPrefix(unit, "cr"):
		v *= 1e7
	}
	return v, true
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
