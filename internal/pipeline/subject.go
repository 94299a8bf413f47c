package pipeline

import (
	"fmt"

	"github.com/williampepple1/fbref-stats/internal/config"
	"github.com/williampepple1/fbref-stats/internal/enrich"
	"github.com/williampepple1/fbref-stats/internal/extraction"
	"github.com/williampepple1/fbref-stats/internal/output"
	"github.com/williampepple1/fbref-stats/internal/plot"
	"github.com/williampepple1/fbref-stats/internal/table"
)

// fbref table ids
const (
	PlayerTableID        = "stats_standard"
	TeamForTableID       = "stats_squads_standard_for"
	TeamAgainstTableID   = "stats_squads_standard_against"
	ScheduleTableID      = "matchlogs_for"
	againstNamePrefix    = "vs "
	playerNameField      = "Player"
	teamNameField        = "Squad"
	positionField        = "Pos"
	minutesField         = "Playing Time_Min"
	xgiPer90Field        = "Per 90 Minutes_xG+xAG"
	defaultHeaderSkipped = 2
)

// Tables are the raw tables a subject reads from the stats page. Opponents
// is nil for subjects without fixture evaluation.
type Tables struct {
	Subject   *table.RawTable
	Opponents *table.RawTable
}

// Subject knows which tables of a stats page describe its entities and
// where their links sit
type Subject interface {
	RawTables(page *extraction.Page) (Tables, error)
	LinkSpec() table.LinkSpec
}

// FixtureOptions turns on next-fixture evaluation
type FixtureOptions struct {
	Count       int
	Competition string
}

// EntityTableConfig is everything that differs between the player and team
// views once the raw tables are known
type EntityTableConfig struct {
	Name           string
	MergeHeaders   bool
	NumericColumns []string
	NameField      string
	ActualField    string
	ExpectedField  string
	Filter         FilterSpec
	PrintColumns   []string
	CSVFileName    string

	// Plot is nil when plotting is off
	Plot         *plot.Scatter
	PlotFileName string

	// Fixtures is nil when fixture evaluation is off
	Fixtures *FixtureOptions
}

// View pairs a subject with its table configuration
type View struct {
	Subject Subject
	Table   EntityTableConfig
}

// PlayerSubject reads the standard player stats table
type PlayerSubject struct{}

func (PlayerSubject) RawTables(page *extraction.Page) (Tables, error) {
	t, err := page.Table(PlayerTableID)
	if err != nil {
		return Tables{}, err
	}
	return Tables{Subject: t}, nil
}

func (PlayerSubject) LinkSpec() table.LinkSpec {
	return table.LinkSpec{Column: 0, Tag: table.CellData, SkipRows: defaultHeaderSkipped}
}

// TeamSubject reads the squad tables. In "against" mode the defensive table
// is the subject and the attacking table describes the opponents.
type TeamSubject struct {
	Against bool
}

func (s TeamSubject) RawTables(page *extraction.Page) (Tables, error) {
	subjectID, opponentID := TeamForTableID, TeamAgainstTableID
	if s.Against {
		subjectID, opponentID = opponentID, subjectID
	}
	subject, err := page.Table(subjectID)
	if err != nil {
		return Tables{}, err
	}
	opponents, err := page.Table(opponentID)
	if err != nil {
		return Tables{}, err
	}
	return Tables{Subject: subject, Opponents: opponents}, nil
}

func (TeamSubject) LinkSpec() table.LinkSpec {
	return table.LinkSpec{Column: 0, Tag: table.CellHeader, SkipRows: defaultHeaderSkipped}
}

var statColumns = []string{
	"Playing Time_MP", "Playing Time_Min",
	"Performance_Gls", "Performance_Ast",
	"Expected_xG", "Expected_xAG",
	"Per 90 Minutes_Gls", "Per 90 Minutes_Ast",
	"Per 90 Minutes_xG", "Per 90 Minutes_xAG", "Per 90 Minutes_xG+xAG",
}

func numericColumns(extra ...string) []string {
	cols := append([]string{}, statColumns...)
	for _, e := range extra {
		if e != "" {
			cols = append(cols, e)
		}
	}
	return cols
}

func allowList(list []string, file string) ([]string, error) {
	out := append([]string{}, list...)
	if file == "" {
		return out, nil
	}
	more, err := output.ReadNames(file)
	if err != nil {
		return nil, fmt.Errorf("error reading name list %s: %w", file, err)
	}
	return append(out, more...), nil
}

// PlayerView builds the player view from the player_table section
func PlayerView(cfg *config.AppConfig) (View, error) {
	p := cfg.PlayerTable
	allow, err := allowList(p.PlayerList, p.PlayerListFile)
	if err != nil {
		return View{}, err
	}

	tc := EntityTableConfig{
		Name:           config.TablePlayer,
		MergeHeaders:   true,
		NumericColumns: numericColumns(p.XAxis, p.YAxis, p.SortBy),
		NameField:      playerNameField,
		ActualField:    enrich.DefaultActualField,
		ExpectedField:  enrich.DefaultExpectedField,
		Filter: FilterSpec{
			NameField: playerNameField,
			Names:     allow,
			Thresholds: []Threshold{
				{Field: minutesField, Min: p.MinMinutes},
				{Field: xgiPer90Field, Min: p.MinXGI, Inclusive: true},
			},
			CategoryField: positionField,
			Category:      p.Position,
			SortBy:        p.SortBy,
			Ascending:     p.SortByOrder,
		},
		PrintColumns: append([]string{playerNameField}, append(statColumns, enrich.OverperformanceColumn)...),
		CSVFileName:  p.CSVFileName,
		PlotFileName: p.PlotFileName,
	}
	if p.ScatterPlot != nil && *p.ScatterPlot {
		tc.Plot = &plot.Scatter{XAxis: p.XAxis, YAxis: p.YAxis, NameField: playerNameField}
	}
	return View{Subject: PlayerSubject{}, Table: tc}, nil
}

// TeamView builds the team view from the team_table section
func TeamView(cfg *config.AppConfig) (View, error) {
	t := cfg.TeamTable
	allow, err := allowList(t.TeamList, t.TeamListFile)
	if err != nil {
		return View{}, err
	}
	against := t.Mode == config.TeamModeAgainst
	if against {
		for i := range allow {
			allow[i] = againstNamePrefix + allow[i]
		}
	}

	printCols := []string{teamNameField, "Playing Time_MP"}
	printCols = append(printCols, statColumns[2:]...)
	printCols = append(printCols, enrich.OverperformanceColumn)

	tc := EntityTableConfig{
		Name:           config.TableTeam,
		MergeHeaders:   true,
		NumericColumns: numericColumns(t.XAxis, t.YAxis, t.SortBy),
		NameField:      teamNameField,
		ActualField:    enrich.DefaultActualField,
		ExpectedField:  enrich.DefaultExpectedField,
		Filter: FilterSpec{
			NameField: teamNameField,
			Names:     allow,
			SortBy:    t.SortBy,
			Ascending: t.SortByOrder,
		},
		PrintColumns: printCols,
		CSVFileName:  t.CSVFileName,
		PlotFileName: t.PlotFileName,
	}
	if t.ScatterPlot != nil && *t.ScatterPlot {
		tc.Plot = &plot.Scatter{XAxis: t.XAxis, YAxis: t.YAxis, NameField: teamNameField}
	}
	if t.FixtureEval {
		tc.Fixtures = &FixtureOptions{Count: t.NumberFixtures, Competition: cfg.Source.Competition}
	}
	return View{Subject: TeamSubject{Against: against}, Table: tc}, nil
}

// ViewFor picks the view named by table
func ViewFor(cfg *config.AppConfig, name string) (View, error) {
	switch name {
	case config.TablePlayer:
		return PlayerView(cfg)
	case config.TableTeam:
		return TeamView(cfg)
	default:
		return View{}, fmt.Errorf("%w: unknown table %q", config.ErrInvalidConfig, name)
	}
}
