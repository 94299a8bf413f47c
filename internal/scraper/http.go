package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/williampepple1/fbref-stats/internal/config"
	"github.com/williampepple1/fbref-stats/internal/proxy"
)

// HTTPScraper fetches pages with plain HTTP requests
type HTTPScraper struct {
	Config *config.AppConfig
	Proxy  *proxy.Manager
	Logger *slog.Logger
	Client *http.Client
}

// NewHTTPScraper creates a new HTTP scraper
func NewHTTPScraper(cfg *config.AppConfig, logger *slog.Logger) *HTTPScraper {
	manager := proxy.NewManager(&cfg.Proxies)
	transport := &http.Transport{}
	if cfg.Proxies.Enabled {
		transport.Proxy = manager.ProxyFunc()
		logger.Info("scraper.proxies", "proxies", manager.Describe(), "rotate", cfg.Proxies.Rotate)
	}
	return &HTTPScraper{
		Config: cfg,
		Proxy:  manager,
		Logger: logger,
		Client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Scraper.Timeout,
		},
	}
}

// Fetch returns the body of url, retrying with a growing delay
func (s *HTTPScraper) Fetch(ctx context.Context, url string) (string, error) {
	start := time.Now()
	var retries int
	var lastErr error

	for retries <= s.Config.Scraper.MaxRetries {
		if retries > 0 {
			retryWait := s.Config.Scraper.RetryDelay * time.Duration(retries)
			s.Logger.Warn("scraper.retry", "url", url, "wait", retryWait, "attempt", retries, "max", s.Config.Scraper.MaxRetries, "err", lastErr)
			select {
			case <-time.After(retryWait):
			case <-ctx.Done():
				return "", &FetchError{URL: url, Retries: retries, Err: ctx.Err()}
			}
		}

		body, err := s.get(ctx, url)
		if err != nil {
			lastErr = err
			retries++
			continue
		}

		s.Logger.Info("scraper.fetched", "url", url, "mode", config.ModeHTTP, "bytes", len(body), "duration", time.Since(start), "retries", retries)
		return body, nil
	}

	return "", &FetchError{URL: url, Retries: retries - 1, Err: lastErr}
}

func (s *HTTPScraper) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	if len(s.Config.Scraper.UserAgents) > 0 {
		userAgent := s.Config.Scraper.UserAgents[rand.Intn(len(s.Config.Scraper.UserAgents))]
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response body: %w", err)
	}
	return string(body), nil
}

// Close releases idle connections
func (s *HTTPScraper) Close() error {
	s.Client.CloseIdleConnections()
	return nil
}
