package services

import (
	"fmt"
	"sort"
	"strings"

	"ev-value-index/models"
	"ev-value-index/utils"
)

const topN = 5

var (
	priceSegmentOrder = []models.PriceSegment{models.PriceBudget, models.PriceMid, models.PricePremium, models.PriceLuxury}
	rangeSegmentOrder = []models.RangeSegment{models.RangeShort, models.RangeMedium, models.RangeLong, models.RangeUltra}
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

func (s *InsightService) Generate(records []models.ScoredRecord) *models.InsightReport {
	report := &models.InsightReport{
		ByPriceSegment: make(map[models.PriceSegment]int),
		ByRangeSegment: make(map[models.RangeSegment]int),
	}

	if len(records) == 0 {
		return report
	}

	report.TotalVehicles = len(records)
	report.MinIndex = records[0].EVValueIndex
	report.MaxIndex = records[0].EVValueIndex

	var total float64
	efficient, cheapest := 0, 0
	for i, r := range records {
		total += r.EVValueIndex
		if r.EVValueIndex < report.MinIndex {
			report.MinIndex = r.EVValueIndex
		}
		if r.EVValueIndex > report.MaxIndex {
			report.MaxIndex = r.EVValueIndex
		}
		if r.KmPerKWh > records[efficient].KmPerKWh {
			efficient = i
		}
		if r.PricePerKm < records[cheapest].PricePerKm {
			cheapest = i
		}
		report.ByPriceSegment[r.PriceSegment]++
		report.ByRangeSegment[r.RangeSegment]++
	}
	mostEfficient, cheapestPerKm := records[efficient], records[cheapest]
	report.MostEfficient = &mostEfficient
	report.CheapestPerKm = &cheapestPerKm
	report.AverageIndex = round2(total / float64(len(records)))
	report.MinIndex = round2(report.MinIndex)
	report.MaxIndex = round2(report.MaxIndex)

	ranked := make([]models.ScoredRecord, len(records))
	copy(ranked, records)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].EVValueIndex > ranked[j].EVValueIndex
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	report.TopByIndex = ranked

	s.logger.Debug("[insights] Report built over %d vehicles", report.TotalVehicles)
	return report
}

func (s *InsightService) Print(r *models.InsightReport) {
	sep := strings.Repeat("═", 58)
	thin := strings.Repeat("─", 58)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  ⚡ EV VALUE INDEX\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Vehicles scored : \033[1m%d\033[0m\n", r.TotalVehicles)
	if r.TotalVehicles > 0 {
		fmt.Printf("  Average index   : \033[1;32m%.2f\033[0m\n", r.AverageIndex)
		fmt.Printf("  Index range     : %.2f – %.2f\n", r.MinIndex, r.MaxIndex)
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Top %d by Value Index\033[0m\n", topN)
	fmt.Printf("  %s\n", thin)
	if len(r.TopByIndex) == 0 {
		fmt.Printf("  No vehicles scored\n")
	} else {
		for i, v := range r.TopByIndex {
			name := truncate(v.Brand+" "+v.Model, 34)
			fmt.Printf("  \033[1m%d.\033[0m %-36s %-8s \033[1;32m%6.2f\033[0m\n",
				i+1, name, v.PriceSegment, v.EVValueIndex)
		}
	}
	fmt.Println()

	if r.MostEfficient != nil {
		fmt.Printf("\033[1;33m  Highlights\033[0m\n")
		fmt.Printf("  %s\n", thin)
		fmt.Printf("  Most efficient  : %s %s (%.2f km/kWh)\n",
			r.MostEfficient.Brand, r.MostEfficient.Model, r.MostEfficient.KmPerKWh)
		fmt.Printf("  Cheapest per km : %s %s (₹%.2f/km)\n",
			r.CheapestPerKm.Brand, r.CheapestPerKm.Model, r.CheapestPerKm.PricePerKm)
		fmt.Println()
	}

	fmt.Printf("\033[1;33m  Vehicles by Segment\033[0m\n")
	fmt.Printf("  %s\n", thin)
	for _, seg := range priceSegmentOrder {
		printBar(string(seg), r.ByPriceSegment[seg])
	}
	fmt.Printf("  %s\n", thin)
	for _, seg := range rangeSegmentOrder {
		printBar(string(seg), r.ByRangeSegment[seg])
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func printBar(label string, count int) {
	fmt.Printf("  %-12s %s (%d)\n", label, strings.Repeat("█", count), count)
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

// truncate shortens s to at most max runes.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
