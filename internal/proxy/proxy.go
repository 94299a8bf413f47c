package proxy

import (
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/williampepple1/fbref-stats/internal/config"
)

// Manager hands out proxies from the configured list, round robin when
// rotation is on
type Manager struct {
	Config *config.ProxyConfig

	mu   sync.Mutex
	next int
}

// NewManager creates a new proxy manager
func NewManager(cfg *config.ProxyConfig) *Manager {
	return &Manager{Config: cfg}
}

// GetProxyURL returns the next proxy, or nil when proxies are disabled
func (m *Manager) GetProxyURL() (*url.URL, error) {
	if !m.Config.Enabled || len(m.Config.List) == 0 {
		return nil, nil
	}

	m.mu.Lock()
	proxyStr := m.Config.List[m.next%len(m.Config.List)]
	if m.Config.Rotate {
		m.next++
	}
	m.mu.Unlock()

	proxyURL, err := url.Parse(proxyStr)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy %q: %w", proxyStr, err)
	}

	if m.Config.Auth.Username != "" && m.Config.Auth.Password != "" {
		proxyURL.User = url.UserPassword(m.Config.Auth.Username, m.Config.Auth.Password)
	}

	return proxyURL, nil
}

// ProxyFunc picks a proxy for every request. It is safe to install on a
// transport shared by concurrent fetches.
func (m *Manager) ProxyFunc() func(*http.Request) (*url.URL, error) {
	return func(*http.Request) (*url.URL, error) {
		return m.GetProxyURL()
	}
}

// Describe returns the proxies in use without credentials
func (m *Manager) Describe() []string {
	out := make([]string, 0, len(m.Config.List))
	for _, p := range m.Config.List {
		u, err := url.Parse(p)
		if err != nil {
			continue
		}
		out = append(out, u.Redacted())
	}
	return out
}
