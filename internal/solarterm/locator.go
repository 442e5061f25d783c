package solarterm

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Computed window bounds. Outside the tabulated years the locator falls back
// to the ephemeris bisection, which the underlying solar theory supports for
// roughly this range.
const (
	ComputedMinYear = 1920
	ComputedMaxYear = 2050
)

const (
	// longitudeTolerance is the convergence bound for the bisection,
	// roughly one minute of time near a term crossing.
	longitudeTolerance = 0.01

	maxBisectIterations = 50
)

// ErrOutOfRange is returned when a year is covered by neither the tabulated
// data nor the computable window. The failure is deterministic; callers must
// not retry.
var ErrOutOfRange = errors.New("year outside supported solar term range")

// ErrNoConvergence is returned when the bisection fails to reach the
// longitude tolerance within its iteration budget. A low-confidence instant
// is never returned silently.
var ErrNoConvergence = errors.New("solar longitude search did not converge")

// searchMonths gives the civil month in which each term approximately falls,
// bounding the bisection bracket.
var searchMonths = map[Degree]int{
	315: 2, 345: 3, 15: 4, 45: 5, 75: 6, 105: 7,
	135: 8, 165: 9, 195: 10, 225: 11, 255: 12, 285: 1,
}

// Locator resolves solar-term instants, preferring tabulated data and
// falling back to the ephemeris. Safe for concurrent use; resolved years are
// memoized per process.
type Locator struct {
	mu    sync.Mutex
	table Table
	eph   Ephemeris
	cache map[int][]Term
}

// NewLocator builds a locator over the given table. eph may be nil for a
// tabulated-only locator, which then only serves years present in the table.
func NewLocator(table Table, eph Ephemeris) *Locator {
	if table == nil {
		table = make(Table)
	}
	return &Locator{
		table: table,
		eph:   eph,
		cache: make(map[int][]Term),
	}
}

// Seed merges a previously persisted instant into the locator's table.
// Built-in tabulated entries are never overridden. Seeding invalidates the
// year's memoized term list.
func (l *Locator) Seed(year int, d Degree, at time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.table.Merge(year, d, at)
	delete(l.cache, year)
}

// Locate returns the civil instant at which the sun crosses the target
// longitude in the given calendar year, with the source of the instant.
func (l *Locator) Locate(d Degree, year int) (time.Time, Source, error) {
	if !d.Valid() {
		return time.Time{}, "", fmt.Errorf("unsupported term longitude %d", d)
	}

	l.mu.Lock()
	at, ok := l.table.Lookup(year, d)
	l.mu.Unlock()
	if ok {
		return at, SourceTabulated, nil
	}

	if l.eph == nil || year < ComputedMinYear || year > ComputedMaxYear {
		return time.Time{}, "", fmt.Errorf("%w: %d", ErrOutOfRange, year)
	}

	at, err := l.solve(d, year)
	if err != nil {
		return time.Time{}, "", err
	}
	return at, SourceComputed, nil
}

// Year returns all twelve term events for a calendar year, sorted by
// instant. Results are memoized.
func (l *Locator) Year(year int) ([]Term, error) {
	l.mu.Lock()
	cached, ok := l.cache[year]
	l.mu.Unlock()
	if ok {
		return cached, nil
	}

	terms := make([]Term, 0, len(Degrees))
	for _, d := range Degrees {
		at, source, err := l.Locate(d, year)
		if err != nil {
			return nil, fmt.Errorf("locate %s %d: %w", d.Name(), year, err)
		}
		terms = append(terms, Term{
			Degree:     d,
			Name:       d.Name(),
			MonthIndex: d.MonthIndex(),
			Time:       at,
			Source:     source,
		})
	}
	sort.Slice(terms, func(i, j int) bool { return terms[i].Time.Before(terms[j].Time) })

	l.mu.Lock()
	l.cache[year] = terms
	l.mu.Unlock()
	return terms, nil
}

// Window returns the merged, time-sorted term events for year-1 through
// year+1. Birth instants near the new year need terms from the neighboring
// calendar years to find their prior and next boundaries. A neighbor year
// past the edge of the supported range is skipped; the center year itself
// must resolve.
func (l *Locator) Window(year int) ([]Term, error) {
	var all []Term
	for y := year - 1; y <= year+1; y++ {
		terms, err := l.Year(y)
		if err != nil {
			if y != year && errors.Is(err, ErrOutOfRange) {
				continue
			}
			return nil, err
		}
		all = append(all, terms...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Time.Before(all[j].Time) })
	return all, nil
}

// solve bisects the sun's apparent longitude over a two-month bracket around
// the term's usual date until the crossing is inside the tolerance.
func (l *Locator) solve(d Degree, year int) (time.Time, error) {
	month := searchMonths[d]
	startMonth := month - 1
	if startMonth < 1 {
		startMonth = 1
	}
	lo := time.Date(year, time.Month(startMonth), 1, 0, 0, 0, 0, time.UTC)
	hi := lo.AddDate(0, 0, 60)

	for i := 0; i < maxBisectIterations; i++ {
		mid := lo.Add(hi.Sub(lo) / 2)
		diff := l.eph.ApparentLongitude(mid) - float64(d)
		if diff > 180 {
			diff -= 360
		}
		if diff < -180 {
			diff += 360
		}

		if diff < 0 {
			if -diff < longitudeTolerance {
				return mid.In(KST), nil
			}
			lo = mid
		} else {
			if diff < longitudeTolerance {
				return mid.In(KST), nil
			}
			hi = mid
		}
	}
	return time.Time{}, fmt.Errorf("%w: %s %d", ErrNoConvergence, d.Name(), year)
}
