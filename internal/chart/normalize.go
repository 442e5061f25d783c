package chart

import "time"

// dstPeriods lists the Korean daylight-saving intervals (1948-1988) during
// which civil clocks ran one hour ahead of standard time. Bounds are dates,
// both inclusive.
var dstPeriods = [][2][3]int{
	{{1948, 6, 1}, {1948, 9, 12}},
	{{1949, 4, 3}, {1949, 9, 10}},
	{{1950, 4, 1}, {1950, 9, 9}},
	{{1951, 5, 6}, {1951, 9, 8}},
	{{1955, 5, 5}, {1955, 9, 8}},
	{{1956, 5, 20}, {1956, 9, 29}},
	{{1957, 5, 5}, {1957, 9, 21}},
	{{1958, 5, 4}, {1958, 9, 20}},
	{{1959, 5, 3}, {1959, 9, 19}},
	{{1960, 5, 1}, {1960, 9, 17}},
	{{1987, 5, 10}, {1987, 10, 10}},
	{{1988, 5, 8}, {1988, 10, 8}},
}

// InDST reports whether t's calendar date falls inside a historical
// daylight-saving interval.
func InDST(t time.Time) bool {
	y, m, d := t.Date()
	date := [3]int{y, int(m), d}
	for _, p := range dstPeriods {
		if !dateLess(date, p[0]) && !dateLess(p[1], date) {
			return true
		}
	}
	return false
}

// NormalizeCivil converts a wall-clock birth instant to standard civil time,
// subtracting the daylight-saving hour when the date falls inside one of the
// historical intervals. Term instants are tabulated in standard time, so
// this must run before any boundary comparison.
func NormalizeCivil(t time.Time) (time.Time, bool) {
	if InDST(t) {
		return t.Add(-time.Hour), true
	}
	return t, false
}

func dateLess(a, b [3]int) bool {
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	if a[1] != b[1] {
		return a[1] < b[1]
	}
	return a[2] < b[2]
}
