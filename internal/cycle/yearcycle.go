package cycle

// AnchorYear is the epoch for year-cycle arithmetic: 1864 is a 갑자 year,
// combined-cycle index 0. Both the chart's year pillar and the annual-forecast
// projection count from it.
const AnchorYear = 1864

// YearEntry pairs a Gregorian calendar year with its sexagenary pillar.
type YearEntry struct {
	Year   int    `json:"year"`
	Pillar Pillar `json:"ganji"`
}

// YearPillar returns the sexagenary pillar for a calendar year.
//
// Note this is plain calendar-year arithmetic. The chart's year pillar
// additionally shifts the year at the 입춘 solar term; annual-forecast
// timelines (세운) deliberately do not.
func YearPillar(year int) Pillar {
	return Sexagenary(year - AnchorYear)
}

// ProjectYears produces the sexagenary pillars for count consecutive years
// starting at start.
func ProjectYears(start, count int) []YearEntry {
	entries := make([]YearEntry, 0, count)
	for i := 0; i < count; i++ {
		year := start + i
		entries = append(entries, YearEntry{Year: year, Pillar: YearPillar(year)})
	}
	return entries
}
