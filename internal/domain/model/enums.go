// Package model contains the domain entities passed between layers.
package model

// EventType classifies a tournament for multiplier and pressure purposes.
type EventType string

const (
	EventMajor     EventType = "major"
	EventPlayoff   EventType = "playoff"
	EventSignature EventType = "signature"
	EventStandard  EventType = "standard"
)

// PerformanceStatus is a player's final status in a tournament.
type PerformanceStatus string

const (
	StatusActive       PerformanceStatus = "active"
	StatusWithdrawn    PerformanceStatus = "withdrawn"
	StatusDisqualified PerformanceStatus = "disqualified"
)

// Tier buckets an overall manager rating.
type Tier string

const (
	TierElite      Tier = "ELITE"
	TierVeteran    Tier = "VETERAN"
	TierCompetitor Tier = "COMPETITOR"
	TierContender  Tier = "CONTENDER"
	TierDeveloping Tier = "DEVELOPING"
	TierRookie     Tier = "ROOKIE"
	TierUnranked   Tier = "UNRANKED"
)

// Trend describes rating movement against a prior snapshot.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
	TrendNew    Trend = "new"
)

// SeasonSource distinguishes imported history from natively tracked seasons.
type SeasonSource string

const (
	SeasonHistorical SeasonSource = "historical"
	SeasonNative     SeasonSource = "native"
)

// Platform identifies the fantasy provider a season was imported from.
type Platform string

const (
	PlatformESPN    Platform = "espn"
	PlatformYahoo   Platform = "yahoo"
	PlatformSleeper Platform = "sleeper"
)

// PlatformTeamIDs holds the external team identifier per provider. Each
// platform gets a named field and a single accessor; records are never
// addressed by a dynamically built field name.
type PlatformTeamIDs struct {
	ESPN    string `json:"espn,omitempty"`
	Yahoo   string `json:"yahoo,omitempty"`
	Sleeper string `json:"sleeper,omitempty"`
}

// For returns the external team id for the given platform, empty when the
// season was never linked to that provider.
func (ids PlatformTeamIDs) For(p Platform) string {
	switch p {
	case PlatformESPN:
		return ids.ESPN
	case PlatformYahoo:
		return ids.Yahoo
	case PlatformSleeper:
		return ids.Sleeper
	default:
		return ""
	}
}
