package evspecs

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"ev-value-index/config"
	"ev-value-index/models"
	"ev-value-index/utils"
)

// settleDelay gives client-rendered spec tables time to appear.
const settleDelay = 3 * time.Second

// PageSource returns the visible text of a page.
type PageSource interface {
	PageText(ctx context.Context, url string) (string, error)
}

// Scraper fetches spec pages and turns them into raw records.
type Scraper struct {
	logger  *utils.Logger
	pages   PageSource
	pool    *utils.WorkerPool
	retry   *utils.RetryConfig
	timeout time.Duration
}

// New creates a Scraper that reads pages through pages.
func New(cfg *config.Config, logger *utils.Logger, pages PageSource) *Scraper {
	return &Scraper{
		logger: logger,
		pages:  pages,
		pool:   utils.NewWorkerPool(cfg.MaxConcurrency, time.Duration(cfg.RateLimitMs)*time.Millisecond),
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			MaxDelay:    30 * time.Second,
			Logger:      logger,
		},
		timeout: cfg.PageTimeout,
	}
}

// Fetch visits each source once and returns one raw record per distinct
// URL, in source order. A page that cannot be loaded still yields a record
// built from the source's fallback values.
func (s *Scraper) Fetch(ctx context.Context, sources []config.Source) ([]models.RawRecord, error) {
	s.logger.Info("[evspecs] Fetching %d sources", len(sources))

	seen := utils.NewSeenSet()
	results := make([]*models.RawRecord, len(sources))
	var mu sync.Mutex
	failures := 0

	for i, src := range sources {
		if !seen.Add(src.URL) {
			s.logger.Debug("[evspecs] Skipping duplicate source: %s", src.URL)
			continue
		}

		i, src := i, src
		s.pool.Submit(func() {
			specs, err := s.fetchSpecs(ctx, src.URL)
			if err != nil {
				s.logger.Warn("[evspecs] %s %s: %v, using fallback values", src.Brand, src.Model, err)
				mu.Lock()
				failures++
				mu.Unlock()
			}
			rec := buildRecord(src, specs)
			results[i] = &rec
		})
	}
	s.pool.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("evspecs: fetch cancelled: %w", err)
	}

	records := make([]models.RawRecord, 0, seen.Len())
	for _, r := range results {
		if r != nil {
			records = append(records, *r)
		}
	}

	s.logger.Info("[evspecs] Fetch complete: %d records, %d pages failed", len(records), failures)
	return records, nil
}

func (s *Scraper) fetchSpecs(ctx context.Context, url string) (Specs, error) {
	var text string
	err := s.retry.Do(ctx, "fetch "+url, func(ctx context.Context) error {
		pageCtx := ctx
		if s.timeout > 0 {
			var cancel context.CancelFunc
			pageCtx, cancel = context.WithTimeout(ctx, s.timeout)
			defer cancel()
		}

		t, err := s.pages.PageText(pageCtx, url)
		if err != nil {
			return err
		}
		text = t
		return nil
	})
	if err != nil {
		return Specs{}, err
	}

	specs := ParseSpecs(text)
	s.logger.Debug("[evspecs] %s: battery=%s range=%s charge=%s price=%s", url,
		show(specs.BatteryKWh), show(specs.RangeKm), show(specs.ChargingTimeHr), show(specs.PriceINR))
	return specs, nil
}

// buildRecord prefers page values and falls back per field to the source
// file. Fields known to neither are NaN.
func buildRecord(src config.Source, page Specs) models.RawRecord {
	return models.RawRecord{
		Brand:          src.Brand,
		Model:          src.Model,
		BatteryKWh:     pick(page.BatteryKWh, src.Fallback.BatteryKWh),
		RangeKm:        pick(page.RangeKm, src.Fallback.RangeKm),
		ChargingTimeHr: pick(page.ChargingTimeHr, src.Fallback.ChargingTimeHr),
		PriceINR:       pick(page.PriceINR, src.Fallback.PriceINR),
		SourceURL:      src.URL,
	}
}

func pick(values ...*float64) float64 {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return math.NaN()
}

func show(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *v)
}

// Browser is a PageSource backed by a headless Chrome instance.
type Browser struct {
	ctx         context.Context
	cancelAlloc context.CancelFunc
	cancelTab   context.CancelFunc
}

// NewBrowser starts headless Chrome. Close must be called to release it.
func NewBrowser(cfg *config.Config, logger *utils.Logger) (*Browser, error) {
	chromeBin := findChromeBinary(cfg.ChromeBin)
	logger.Info("[evspecs] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	// Start the browser now so concurrent tabs share one process.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("evspecs: start browser: %w", err)
	}

	return &Browser{ctx: browserCtx, cancelAlloc: cancelAlloc, cancelTab: cancelTab}, nil
}

// PageText opens url in a new tab and returns document.body.innerText.
func (b *Browser) PageText(ctx context.Context, url string) (string, error) {
	tabCtx, cancel := chromedp.NewContext(b.ctx)
	defer cancel()

	// Tie the tab's lifetime to the caller's deadline.
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var text string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(settleDelay),
		chromedp.Evaluate(`document.body ? document.body.innerText : ""`, &text),
	)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("chromedp page text: %w", ctx.Err())
		}
		return "", fmt.Errorf("chromedp page text: %w", err)
	}
	return text, nil
}

// Close shuts the browser down.
func (b *Browser) Close() {
	b.cancelTab()
	b.cancelAlloc()
}

// findChromeBinary locates a Chrome/Chromium binary, preferring the configured one.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
