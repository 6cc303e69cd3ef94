package evspecs

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ev-value-index/config"
	"ev-value-index/utils"
)

const nexonPage = `Tata Nexon EV
Ex-showroom price ₹ 14.99 Lakh onwards
Battery Capacity 40.5 kWh
Claimed Range (MIDC) 465 km
Charging Time (AC) 8 hours
Efficiency 11.5 km/kWh`

func ptr(v float64) *float64 { return &v }

func TestParseSpecs(t *testing.T) {
	s := ParseSpecs(nexonPage)

	require.NotNil(t, s.BatteryKWh)
	require.NotNil(t, s.RangeKm)
	require.NotNil(t, s.ChargingTimeHr)
	require.NotNil(t, s.PriceINR)
	assert.Equal(t, 40.5, *s.BatteryKWh)
	assert.Equal(t, 465.0, *s.RangeKm)
	assert.Equal(t, 8.0, *s.ChargingTimeHr)
	assert.InDelta(t, 1499000, *s.PriceINR, 1e-6)
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		text string
		want float64
		ok   bool
	}{
		{"Price: Rs. 15,00,000", 1500000, true},
		{"₹1.2 Crore", 12000000, true},
		{"INR 8.5 lakh", 850000, true},
		{"₹ 2,30,000 (ex-showroom)", 230000, true},
		{"Charging 8 hours", 0, false},
		{"price on request", 0, false},
	}
	for _, tt := range tests {
		got, ok := parsePrice(tt.text)
		if ok != tt.ok {
			t.Errorf("parsePrice(%q) ok = %v; want %v", tt.text, ok, tt.ok)
			continue
		}
		if ok {
			assert.InDelta(t, tt.want, got, 1e-6, tt.text)
		}
	}
}

func TestParseSpecsFallbacks(t *testing.T) {
	s := ParseSpecs("Pack: 30.2 kWh. Fast charging in 56 minutes.")

	require.NotNil(t, s.BatteryKWh)
	assert.Equal(t, 30.2, *s.BatteryKWh)
	require.NotNil(t, s.ChargingTimeHr)
	assert.InDelta(t, 56.0/60, *s.ChargingTimeHr, 1e-12)
	assert.Nil(t, s.RangeKm)
	assert.Nil(t, s.PriceINR)
}

type fakePages struct {
	mu    sync.Mutex
	pages map[string]string
	fail  map[string]int
	calls map[string]int
}

func (f *fakePages) PageText(_ context.Context, url string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[url]++
	if f.calls[url] <= f.fail[url] {
		return "", errors.New("net::ERR_CONNECTION_RESET")
	}
	text, ok := f.pages[url]
	if !ok {
		return "", errors.New("net::ERR_NAME_NOT_RESOLVED")
	}
	return text, nil
}

func testConfig() *config.Config {
	return &config.Config{MaxConcurrency: 2, RateLimitMs: 0, MaxRetries: 2, PageTimeout: time.Second}
}

func newTestScraper(pages PageSource) *Scraper {
	s := New(testConfig(), utils.NewDiscardLogger(), pages)
	s.retry.BaseDelay = time.Millisecond
	return s
}

func TestFetch(t *testing.T) {
	pages := &fakePages{
		pages: map[string]string{
			"https://example.com/nexon": nexonPage,
			"https://example.com/zs":    "MG ZS EV. Range 461 km.",
		},
		fail:  map[string]int{"https://example.com/nexon": 1},
		calls: map[string]int{},
	}
	sources := []config.Source{
		{Brand: "Tata", Model: "Nexon EV", URL: "https://example.com/nexon"},
		{Brand: "MG", Model: "ZS EV", URL: "https://example.com/zs", Fallback: config.SpecValues{
			BatteryKWh: ptr(50.3), RangeKm: ptr(400), ChargingTimeHr: ptr(9), PriceINR: ptr(2300000),
		}},
		{Brand: "Tata", Model: "Nexon EV (dup)", URL: "https://example.com/nexon"},
		{Brand: "Ghost", Model: "Offline", URL: "https://example.com/offline", Fallback: config.SpecValues{
			RangeKm: ptr(300),
		}},
	}

	records, err := newTestScraper(pages).Fetch(context.Background(), sources)
	require.NoError(t, err)
	require.Len(t, records, 3)

	nexon := records[0]
	assert.Equal(t, "Nexon EV", nexon.Model)
	assert.Equal(t, 40.5, nexon.BatteryKWh)
	assert.Equal(t, 465.0, nexon.RangeKm)
	assert.Equal(t, "https://example.com/nexon", nexon.SourceURL)
	assert.Equal(t, 2, pages.calls["https://example.com/nexon"], "one retry expected")

	zs := records[1]
	assert.Equal(t, 461.0, zs.RangeKm, "page value wins over fallback")
	assert.Equal(t, 50.3, zs.BatteryKWh)
	assert.Equal(t, 2300000.0, zs.PriceINR)

	ghost := records[2]
	assert.Equal(t, "Ghost", ghost.Brand)
	assert.Equal(t, 300.0, ghost.RangeKm)
	assert.True(t, math.IsNaN(ghost.BatteryKWh))
	assert.True(t, math.IsNaN(ghost.PriceINR))
}

func TestFetchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pages := &fakePages{pages: map[string]string{}, fail: map[string]int{}, calls: map[string]int{}}
	_, err := newTestScraper(pages).Fetch(ctx, []config.Source{{Brand: "Tata", Model: "Nexon EV", URL: "https://example.com/nexon"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFindChromeBinaryPrefersConfigured(t *testing.T) {
	assert.Equal(t, "/opt/custom/chrome", findChromeBinary("/opt/custom/chrome"))
}
