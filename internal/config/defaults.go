package config

import "github.com/williampepple1/fbref-stats/internal/fixtures"

const (
	TablePlayer = "player"
	TableTeam   = "team"

	ModeBrowser = "browser"
	ModeHTTP    = "http"

	TeamModeFor     = "for"
	TeamModeAgainst = "against"

	EnvURL         = "FBREF_STATS_URL"
	EnvScraperMode = "FBREF_SCRAPER_MODE"
	EnvChromePath  = "CHROME_PATH"
)

// DefaultTable is the view built when the config names none
const DefaultTable = TablePlayer

// DefaultURL is the Premier League standard stats page
const DefaultURL = "https://fbref.com/en/comps/9/stats/Premier-League-Stats"

// DefaultBaseURL resolves the relative links found in fbref tables
const DefaultBaseURL = "https://fbref.com"

// DefaultCompetition filters schedules for fixture evaluation
const DefaultCompetition = fixtures.DefaultCompetition

// DefaultUserAgents provides a list of common user agents
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
}
