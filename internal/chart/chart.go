// Package chart computes the four pillars (사주팔자) for a civil birth
// instant: the year, month, day and hour pillars, the proximity of the birth
// to a solar-term boundary, and the decade-luck timeline (대운).
package chart

import (
	"time"

	"github.com/heeguso/manse-api/internal/cycle"
	"github.com/heeguso/manse-api/internal/solarterm"
)

// Sex is the two-valued biological sex flag that fixes decade-luck
// direction. No other values are accepted.
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

// Valid reports whether s is one of the two accepted values.
func (s Sex) Valid() bool { return s == SexMale || s == SexFemale }

// BoundaryStatus classifies how close the birth instant is to a solar-term
// transition. Near a transition even a minute of error in the term instant
// can flip the month and year pillars, so proximity is always surfaced.
type BoundaryStatus string

const (
	// BoundarySafe means the birth date is not a term date.
	BoundarySafe BoundaryStatus = "safe"

	// BoundaryDate means the birth shares a calendar date with a term but
	// is comfortably away from the instant.
	BoundaryDate BoundaryStatus = "boundary"

	// BoundaryCritical means the birth is within the critical window of
	// the term instant; external verification is recommended.
	BoundaryCritical BoundaryStatus = "critical"
)

// criticalWindow is the proximity threshold for BoundaryCritical.
const criticalWindow = 2 * time.Hour

// LuckEntry is one decade of the luck timeline.
type LuckEntry struct {
	Age    int          `json:"age"`
	Pillar cycle.Pillar `json:"ganji"`
}

// LuckTimeline is the decade-luck progression: eight decades stepping the
// month pillar forward or backward from a starting age in [1, 10].
type LuckTimeline struct {
	StartAge int         `json:"start_age"`
	Forward  bool        `json:"forward"`
	Entries  []LuckEntry `json:"entries"`
}

// Chart is the complete result for one birth instant. Immutable after
// construction; the caller owns it exclusively.
type Chart struct {
	Birth       time.Time `json:"birth"` // normalized, KST
	DSTAdjusted bool      `json:"dst_adjusted"`
	Sex         Sex       `json:"sex"`

	Year  cycle.Pillar `json:"year_pillar"`
	Month cycle.Pillar `json:"month_pillar"`
	Day   cycle.Pillar `json:"day_pillar"`
	Hour  cycle.Pillar `json:"hour_pillar"`

	// DayMaster is the day pillar's stem, the reference for all ten-god
	// relations.
	DayMaster cycle.Stem `json:"-"`

	Boundary       BoundaryStatus `json:"boundary_status"`
	BoundaryDetail string         `json:"boundary_detail,omitempty"`

	// TermName and TermSource identify the prior term that fixed the
	// month pillar and where its instant came from.
	TermName   string           `json:"term_name"`
	TermSource solarterm.Source `json:"term_source"`

	Luck LuckTimeline `json:"luck_timeline"`
}

// Pillars returns the four pillars in year, month, day, hour order.
func (c *Chart) Pillars() [4]cycle.Pillar {
	return [4]cycle.Pillar{c.Year, c.Month, c.Day, c.Hour}
}

// Relations returns the ten-god reading of each pillar against the day
// master, in year, month, day, hour order.
func (c *Chart) Relations() [4]cycle.PillarRelation {
	var out [4]cycle.PillarRelation
	for i, p := range c.Pillars() {
		out[i] = cycle.Relate(c.DayMaster, p)
	}
	return out
}

// PhaseCounts tallies the five phases over the chart's eight characters.
func (c *Chart) PhaseCounts() map[cycle.Phase]int {
	counts := map[cycle.Phase]int{
		cycle.PhaseWood: 0, cycle.PhaseFire: 0, cycle.PhaseEarth: 0,
		cycle.PhaseMetal: 0, cycle.PhaseWater: 0,
	}
	for _, p := range c.Pillars() {
		counts[p.Stem.Phase()]++
		counts[p.Branch.Phase()]++
	}
	return counts
}
