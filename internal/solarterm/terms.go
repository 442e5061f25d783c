// Package solarterm locates the twelve month-boundary solar terms (절기):
// the instants at which the sun's apparent ecliptic longitude crosses each
// multiple of 30 degrees starting from 소한 at 285. Instants come from the
// tabulated KASI reference data when available and otherwise from a
// bisection search against an ephemeris model.
package solarterm

import "time"

// KST is the fixed civil offset for all chart computation. The calendar is
// defined in Korean standard time; arbitrary timezones are not handled.
var KST = time.FixedZone("KST", 9*60*60)

// Degree is a target apparent ecliptic longitude, one of the twelve
// multiples of 30 from 285 that delimit pillar months.
type Degree int

// Degrees lists the twelve term longitudes in within-calendar-year order:
// 소한 (285, early January) first, 대설 (255, December) last.
var Degrees = [12]Degree{285, 315, 345, 15, 45, 75, 105, 135, 165, 195, 225, 255}

// termInfo carries the Korean term name and the pillar-month index the term
// opens. 입춘 (315) opens month 0, the 寅 month.
var termInfo = map[Degree]struct {
	name     string
	monthIdx int
}{
	315: {"입춘", 0},
	345: {"경칩", 1},
	15:  {"청명", 2},
	45:  {"입하", 3},
	75:  {"망종", 4},
	105: {"소서", 5},
	135: {"입추", 6},
	165: {"백로", 7},
	195: {"한로", 8},
	225: {"입동", 9},
	255: {"대설", 10},
	285: {"소한", 11},
}

// Valid reports whether d is one of the twelve supported longitudes.
func (d Degree) Valid() bool {
	_, ok := termInfo[d]
	return ok
}

// Name returns the Korean name of the term, or "?" for an invalid degree.
func (d Degree) Name() string {
	info, ok := termInfo[d]
	if !ok {
		return "?"
	}
	return info.name
}

// MonthIndex returns the pillar-month index (0-11) the term opens.
// 입춘 is 0; the month branch is (MonthIndex + 2) mod 12.
func (d Degree) MonthIndex() int {
	return termInfo[d].monthIdx
}

// Source records where a term instant came from.
type Source string

const (
	// SourceTabulated marks instants taken from the KASI reference table
	// or a previously persisted store.
	SourceTabulated Source = "tabulated"

	// SourceComputed marks instants found by the ephemeris bisection.
	SourceComputed Source = "computed"
)

// Term is a resolved solar-term event: the longitude target, its civil
// instant in KST, and where the instant came from. Immutable once created.
type Term struct {
	Degree     Degree    `json:"degree"`
	Name       string    `json:"name"`
	MonthIndex int       `json:"month_index"`
	Time       time.Time `json:"time"`
	Source     Source    `json:"source"`
}
