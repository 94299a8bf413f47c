package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/williampepple1/fbref-stats/internal/config"
)

// BrowserScraper renders pages in one headless Chrome shared by every fetch.
// Each fetch runs in its own tab, so concurrent fetches are safe.
type BrowserScraper struct {
	Config *config.AppConfig
	Logger *slog.Logger

	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	closeOnce     sync.Once
}

// NewBrowserScraper starts the browser. Callers must Close it.
func NewBrowserScraper(cfg *config.AppConfig, logger *slog.Logger) (*BrowserScraper, error) {
	headless := true
	if cfg.Browser.Headless != nil {
		headless = *cfg.Browser.Headless
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(cfg.Browser.UserAgent),
	)
	if cfg.Browser.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.Browser.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// An empty run launches the browser so later tabs share it
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("error starting browser: %w", err)
	}

	logger.Info("browser.started", "headless", headless, "exec_path", cfg.Browser.ExecPath)
	return &BrowserScraper{
		Config:        cfg,
		Logger:        logger,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}, nil
}

// Fetch loads url in a new tab, waits for scripts to settle and returns
// the rendered document
func (s *BrowserScraper) Fetch(ctx context.Context, url string) (string, error) {
	start := time.Now()

	tabCtx, cancelTab := chromedp.NewContext(s.browserCtx)
	defer cancelTab()

	if s.Config.Scraper.Timeout > 0 {
		var cancelTimeout context.CancelFunc
		tabCtx, cancelTimeout = context.WithTimeout(tabCtx, s.Config.Scraper.Timeout)
		defer cancelTimeout()
	}

	// Stop the tab when the caller gives up
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(s.Config.Browser.WaitTime),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		return "", &FetchError{URL: url, Err: err}
	}

	s.Logger.Info("scraper.fetched", "url", url, "mode", config.ModeBrowser, "bytes", len(html), "duration", time.Since(start))
	return html, nil
}

// Close shuts the browser down
func (s *BrowserScraper) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.Logger.Info("browser.closing")
		err = chromedp.Cancel(s.browserCtx)
		s.browserCancel()
		s.allocCancel()
	})
	return err
}
