package chart

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/heeguso/manse-api/internal/cycle"
	"github.com/heeguso/manse-api/internal/solarterm"
)

// Day-pillar epoch: 1900-01-01 is 갑술, combined-cycle index 10. Day pillars
// are a pure offset from it; no solar-term dependency.
var dayEpoch = time.Date(1900, time.January, 1, 0, 0, 0, 0, solarterm.KST)

const dayEpochIndex = 10

// ErrInvalidSex is returned for a sex flag outside {M, F}.
var ErrInvalidSex = errors.New("sex must be M or F")

// ErrNoPriorTerm is returned when no solar term at or before the birth
// instant could be found, i.e. the birth precedes all available term data.
var ErrNoPriorTerm = errors.New("no solar term found before birth instant")

// TermLocator provides the merged term events around a calendar year.
// *solarterm.Locator satisfies it; tests substitute fixed tables.
type TermLocator interface {
	Window(year int) ([]solarterm.Term, error)
}

// Computer derives charts from birth instants.
type Computer struct {
	terms TermLocator
}

// NewComputer builds a Computer over the given term locator.
func NewComputer(terms TermLocator) *Computer {
	return &Computer{terms: terms}
}

// Compute builds the chart for a birth instant. The instant is interpreted
// in KST and normalized for historical daylight-saving before any term
// comparison. Results are deterministic: the same input always yields the
// same chart.
func (c *Computer) Compute(birth time.Time, sex Sex) (*Chart, error) {
	if !sex.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSex, sex)
	}

	birth = birth.In(solarterm.KST)
	birth, dstAdjusted := NormalizeCivil(birth)

	window, err := c.terms.Window(birth.Year())
	if err != nil {
		return nil, fmt.Errorf("term window for %d: %w", birth.Year(), err)
	}

	prev, next := bracket(window, birth)
	if prev == nil {
		return nil, ErrNoPriorTerm
	}

	status, detail := boundaryStatus(birth, prev, next)

	yearPillar := yearPillarAt(birth, window)
	monthPillar := monthPillar(yearPillar.Stem, prev.MonthIndex)
	dayPillar := DayPillar(birth)
	hourPillar := HourPillar(dayPillar.Stem, birth.Hour())

	luck, err := luckTimeline(yearPillar.Stem, monthPillar, birth, sex, prev, next)
	if err != nil {
		return nil, err
	}

	return &Chart{
		Birth:          birth,
		DSTAdjusted:    dstAdjusted,
		Sex:            sex,
		Year:           yearPillar,
		Month:          monthPillar,
		Day:            dayPillar,
		Hour:           hourPillar,
		DayMaster:      dayPillar.Stem,
		Boundary:       status,
		BoundaryDetail: detail,
		TermName:       prev.Name,
		TermSource:     prev.Source,
		Luck:           luck,
	}, nil
}

// DayPillar returns the day pillar for a civil date: elapsed whole days from
// the 1900-01-01 epoch added to the epoch's cycle index, mod 60.
func DayPillar(t time.Time) cycle.Pillar {
	t = t.In(solarterm.KST)
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, solarterm.KST)
	days := int(midnight.Sub(dayEpoch).Hours() / 24)
	return cycle.Sexagenary(dayEpochIndex + days)
}

// HourSegment maps an hour of day to its two-hour segment index. Segments
// open one hour before each even hour: 23:00 opens segment 0 (자시), so hour
// 23 wraps to the next day's first segment.
func HourSegment(hour int) int {
	if hour == 23 {
		return 0
	}
	return (hour + 1) / 2
}

// HourPillar returns the hour pillar given the day's stem and the birth hour
// of day. The segment index is the hour branch directly; the stem offsets
// from the day-stem start (시두법).
func HourPillar(dayStem cycle.Stem, hour int) cycle.Pillar {
	seg := HourSegment(hour)
	stem := (cycle.HourStemStart(dayStem) + seg) % 10
	return cycle.Pillar{Stem: cycle.Stem(stem), Branch: cycle.Branch(seg % 12)}
}

// bracket finds the latest term at or before birth and the earliest strictly
// after, scanning the time-sorted window.
func bracket(window []solarterm.Term, birth time.Time) (prev, next *solarterm.Term) {
	for i := range window {
		t := &window[i]
		if !t.Time.After(birth) {
			prev = t
		} else {
			next = t
			break
		}
	}
	return prev, next
}

// boundaryStatus classifies the birth's proximity to the bracketing terms.
// Only terms sharing the birth's calendar date matter; within criticalWindow
// of the crossing the chart is flagged for external verification.
func boundaryStatus(birth time.Time, prev, next *solarterm.Term) (BoundaryStatus, string) {
	if sameDate(birth, prev.Time) {
		diff := birth.Sub(prev.Time)
		if diff <= criticalWindow {
			return BoundaryCritical, fmt.Sprintf(
				"born %s after the %s crossing at %s; verify against an external almanac",
				diff.Round(time.Minute), prev.Name, prev.Time.Format("15:04"))
		}
		return BoundaryDate, fmt.Sprintf("born on the %s term date", prev.Name)
	}
	if next != nil && sameDate(birth, next.Time) {
		diff := next.Time.Sub(birth)
		if diff <= criticalWindow {
			return BoundaryCritical, fmt.Sprintf(
				"born %s before the %s crossing at %s; verify against an external almanac",
				diff.Round(time.Minute), next.Name, next.Time.Format("15:04"))
		}
		return BoundaryDate, fmt.Sprintf("born on the %s term date, before the crossing", next.Name)
	}
	return BoundarySafe, ""
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// yearPillarAt resolves the year pillar. The annual cycle turns at 입춘, not
// at the Gregorian new year: a birth before the birth year's 입춘 belongs to
// the preceding cycle year.
func yearPillarAt(birth time.Time, window []solarterm.Term) cycle.Pillar {
	year := birth.Year()
	var ipchun time.Time
	for _, t := range window {
		if t.Degree == 315 && t.Time.Year() == year {
			ipchun = t.Time
			break
		}
	}
	calcYear := year
	if !ipchun.IsZero() && birth.Before(ipchun) {
		calcYear--
	}
	return cycle.YearPillar(calcYear)
}

// monthPillar derives the month pillar from the year stem and the prior
// term's month index: the stem offsets from the year-stem start (월두법); the
// branch rotation is fixed with 입춘 opening the 寅 month.
func monthPillar(yearStem cycle.Stem, monthIdx int) cycle.Pillar {
	stem := (cycle.MonthStemStart(yearStem) + monthIdx) % 10
	branch := (monthIdx + 2) % 12
	return cycle.Pillar{Stem: cycle.Stem(stem), Branch: cycle.Branch(branch)}
}

// luckTimeline computes the decade-luck progression. Direction follows
// year-stem polarity and sex: yang year with male or yin year with female
// runs forward. The starting age is floor(days to the reference term / 3)
// clamped to [1, 10]; this floor-and-clamp rule is the fixed policy here
// (the reference source also contains a ceiling variant, not reproduced).
func luckTimeline(yearStem cycle.Stem, month cycle.Pillar, birth time.Time, sex Sex, prev, next *solarterm.Term) (LuckTimeline, error) {
	forward := (yearStem.Yang() && sex == SexMale) || (!yearStem.Yang() && sex == SexFemale)

	ref := prev
	if forward {
		ref = next
	}
	if ref == nil {
		return LuckTimeline{}, fmt.Errorf("no reference term for decade luck after %s", birth.Format("2006-01-02"))
	}

	days := math.Abs(ref.Time.Sub(birth).Hours()) / 24
	startAge := int(math.Floor(days / 3))
	if startAge < 1 {
		startAge = 1
	}
	if startAge > 10 {
		startAge = 10
	}

	entries := make([]LuckEntry, 0, 8)
	for i := 1; i <= 8; i++ {
		step := i
		if !forward {
			step = -i
		}
		entries = append(entries, LuckEntry{
			Age:    startAge + (i-1)*10,
			Pillar: month.Step(step),
		})
	}

	return LuckTimeline{StartAge: startAge, Forward: forward, Entries: entries}, nil
}
