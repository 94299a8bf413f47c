package models

import "strings"

// Venue says where a fixture is played from the entity's point of view
type Venue int

const (
	Away Venue = iota
	Home
)

// ParseVenue maps a schedule cell to a venue. Anything but "Home" is away.
func ParseVenue(s string) Venue {
	if strings.EqualFold(strings.TrimSpace(s), "home") {
		return Home
	}
	return Away
}

func (v Venue) String() string {
	if v == Home {
		return "Home"
	}
	return "Away"
}

// Fixture is one upcoming, unplayed match in the competition of interest
type Fixture struct {
	Opponent string `json:"opponent"`
	Venue    Venue  `json:"venue"`
}

// String renders the fixture as "Opponent (H)" or "Opponent (A)"
func (f Fixture) String() string {
	if f.Venue == Home {
		return f.Opponent + " (H)"
	}
	return f.Opponent + " (A)"
}

// AggregateFigures summarises the opponents of an entity's next fixtures
type AggregateFigures struct {
	Fixtures []Fixture `json:"fixtures"`
	Sum      float64   `json:"sum"`
	Mean     float64   `json:"mean"`
	// Matched counts fixtures whose opponent was found in the stats table
	Matched int `json:"matched"`
}

// FixtureList renders the fixtures comma separated, in schedule order
func (a AggregateFigures) FixtureList() string {
	parts := make([]string, len(a.Fixtures))
	for i, f := range a.Fixtures {
		parts[i] = f.String()
	}
	return strings.Join(parts, ", ")
}
