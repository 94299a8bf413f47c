package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/williampepple1/fbref-stats/internal/fixtures"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid config")

// AppConfig holds the complete application configuration
type AppConfig struct {
	Table       string            `yaml:"table"`
	Source      SourceConfig      `yaml:"source"`
	Scraper     ScraperConfig     `yaml:"scraper"`
	Browser     BrowserConfig     `yaml:"browser"`
	Proxies     ProxyConfig       `yaml:"proxies"`
	Output      OutputConfig      `yaml:"output"`
	PlayerTable PlayerTableConfig `yaml:"player_table"`
	TeamTable   TeamTableConfig   `yaml:"team_table"`
}

// SourceConfig names the stats page to scrape
type SourceConfig struct {
	URL         string `yaml:"url"`
	BaseURL     string `yaml:"base_url"`
	Competition string `yaml:"competition"`
}

// ScraperConfig holds the page fetching configuration
type ScraperConfig struct {
	Mode       string        `yaml:"mode"`
	Workers    int           `yaml:"workers"`
	RateLimit  time.Duration `yaml:"rate_limit"`
	MaxRetries int           `yaml:"max_retries"`
	RetryDelay time.Duration `yaml:"retry_delay"`
	Timeout    time.Duration `yaml:"timeout"`
	UserAgents []string      `yaml:"user_agents,omitempty"`
}

// ProxyConfig holds the proxy configuration
type ProxyConfig struct {
	Enabled bool     `yaml:"enabled"`
	Rotate  bool     `yaml:"rotate"`
	List    []string `yaml:"list"`
	Auth    struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	} `yaml:"auth"`
}

// BrowserConfig holds the headless browser configuration
type BrowserConfig struct {
	Headless  *bool         `yaml:"headless"`
	UserAgent string        `yaml:"user_agent"`
	WaitTime  time.Duration `yaml:"wait_time"`
	ExecPath  string        `yaml:"exec_path"`
}

// OutputConfig says where results go. Empty SQLitePath or MetricsFile
// disables that sink.
type OutputConfig struct {
	CSVDir      string `yaml:"csv_dir"`
	PlotsDir    string `yaml:"plots_dir"`
	SQLitePath  string `yaml:"sqlite_path"`
	MetricsFile string `yaml:"metrics_file"`
}

// PlayerTableConfig holds the player view options
type PlayerTableConfig struct {
	MinMinutes     float64  `yaml:"min_minutes"`
	MinXGI         float64  `yaml:"min_xGi"`
	Position       string   `yaml:"position"`
	PlayerList     []string `yaml:"player_list"`
	PlayerListFile string   `yaml:"player_list_file"`
	ScatterPlot    *bool    `yaml:"scatter_plot"`
	XAxis          string   `yaml:"x_axis"`
	YAxis          string   `yaml:"y_axis"`
	PlotFileName   string   `yaml:"plot_file_name"`
	SortBy         string   `yaml:"sort_by"`
	SortByOrder    bool     `yaml:"sort_by_order"`
	CSVFileName    string   `yaml:"csv_file_name"`
}

// TeamTableConfig holds the team view options
type TeamTableConfig struct {
	Mode           string   `yaml:"mode"`
	TeamList       []string `yaml:"team_list"`
	TeamListFile   string   `yaml:"team_list_file"`
	FixtureEval    bool     `yaml:"fixture_eval"`
	NumberFixtures int      `yaml:"number_fixtures"`
	ScatterPlot    *bool    `yaml:"scatter_plot"`
	XAxis          string   `yaml:"x_axis"`
	YAxis          string   `yaml:"y_axis"`
	PlotFileName   string   `yaml:"plot_file_name"`
	SortBy         string   `yaml:"sort_by"`
	SortByOrder    bool     `yaml:"sort_by_order"`
	CSVFileName    string   `yaml:"csv_file_name"`
}

// Load loads the configuration from a YAML file and fills in defaults
func Load(filename string) (*AppConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML configuration and fills in defaults
func Parse(data []byte) (*AppConfig, error) {
	var config AppConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// CreateDefault creates a default configuration
func CreateDefault() *AppConfig {
	config := &AppConfig{}
	config.ApplyDefaults()
	return config
}

// ApplyDefaults replaces blank values with their defaults
func (c *AppConfig) ApplyDefaults() {
	setString(&c.Table, DefaultTable)
	setString(&c.Source.URL, DefaultURL)
	setString(&c.Source.BaseURL, DefaultBaseURL)
	setString(&c.Source.Competition, DefaultCompetition)

	setString(&c.Scraper.Mode, ModeBrowser)
	setInt(&c.Scraper.Workers, 1)
	setDuration(&c.Scraper.RateLimit, 3*time.Second)
	setDuration(&c.Scraper.RetryDelay, 2*time.Second)
	setDuration(&c.Scraper.Timeout, 60*time.Second)
	if len(c.Scraper.UserAgents) == 0 {
		c.Scraper.UserAgents = DefaultUserAgents
	}

	if c.Browser.Headless == nil {
		c.Browser.Headless = boolPtr(true)
	}
	setString(&c.Browser.UserAgent, DefaultUserAgents[0])
	setDuration(&c.Browser.WaitTime, 3*time.Second)

	setString(&c.Output.CSVDir, "csv_files")
	setString(&c.Output.PlotsDir, "plot_files")

	p := &c.PlayerTable
	if p.ScatterPlot == nil {
		p.ScatterPlot = boolPtr(true)
	}
	setString(&p.XAxis, "Per 90 Minutes_xG")
	setString(&p.YAxis, "Per 90 Minutes_xAG")
	setString(&p.PlotFileName, "Comparing Attributes for PL Players")
	setString(&p.SortBy, "Per 90 Minutes_xG+xAG")
	setString(&p.CSVFileName, "player_stats")

	t := &c.TeamTable
	setString(&t.Mode, TeamModeFor)
	setInt(&t.NumberFixtures, fixtures.DefaultCount)
	if t.ScatterPlot == nil {
		t.ScatterPlot = boolPtr(true)
	}
	setString(&t.XAxis, "Per 90 Minutes_xG")
	setString(&t.YAxis, "Per 90 Minutes_xAG")
	setString(&t.PlotFileName, "Comparing Attributes for PL teams")
	setString(&t.SortBy, "Per 90 Minutes_xG+xAG")
	setString(&t.CSVFileName, "team_stats")
}

// Validate rejects values the pipeline cannot act on
func (c *AppConfig) Validate() error {
	switch c.Table {
	case TablePlayer, TableTeam:
	default:
		return fmt.Errorf("%w: table must be %q or %q, got %q", ErrInvalidConfig, TablePlayer, TableTeam, c.Table)
	}
	switch c.Scraper.Mode {
	case ModeBrowser, ModeHTTP:
	default:
		return fmt.Errorf("%w: scraper.mode must be %q or %q, got %q", ErrInvalidConfig, ModeBrowser, ModeHTTP, c.Scraper.Mode)
	}
	switch c.TeamTable.Mode {
	case TeamModeFor, TeamModeAgainst:
	default:
		return fmt.Errorf("%w: team_table.mode must be %q or %q, got %q", ErrInvalidConfig, TeamModeFor, TeamModeAgainst, c.TeamTable.Mode)
	}
	if c.Scraper.Workers < 1 {
		return fmt.Errorf("%w: scraper.workers must be at least 1", ErrInvalidConfig)
	}
	return nil
}

// ApplyEnv overrides file values with FBREF_STATS_URL, FBREF_SCRAPER_MODE
// and CHROME_PATH when they are set
func (c *AppConfig) ApplyEnv() {
	if v := os.Getenv(EnvURL); v != "" {
		c.Source.URL = v
	}
	if v := os.Getenv(EnvScraperMode); v != "" {
		c.Scraper.Mode = v
	}
	if v := os.Getenv(EnvChromePath); v != "" {
		c.Browser.ExecPath = v
	}
}

func setString(v *string, def string) {
	if *v == "" {
		*v = def
	}
}

func setInt(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}

func setDuration(v *time.Duration, def time.Duration) {
	if *v == 0 {
		*v = def
	}
}

func boolPtr(b bool) *bool {
	return &b
}
