package scraper

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/williampepple1/fbref-stats/internal/config"
)

// Scraper fetches the rendered markup of a page
type Scraper interface {
	Fetch(ctx context.Context, url string) (string, error)
	Close() error
}

// FetchError reports a page that could not be retrieved
type FetchError struct {
	URL     string
	Retries int
	Err     error
}

func (e *FetchError) Error() string {
	if e.Retries > 0 {
		return fmt.Sprintf("fetch %s failed after %d retries: %v", e.URL, e.Retries, e.Err)
	}
	return fmt.Sprintf("fetch %s failed: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// New creates a new scraper based on the configuration
func New(cfg *config.AppConfig, logger *slog.Logger) (Scraper, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Scraper.Mode == config.ModeHTTP {
		return NewHTTPScraper(cfg, logger), nil
	}
	return NewBrowserScraper(cfg, logger)
}
