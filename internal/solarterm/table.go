package solarterm

import "time"

// KASI reference solar-term instants, minute precision, Korean standard
// time. Collected from the Korea Astronomy and Space Science Institute
// almanac service. Each entry is {month, day, hour, minute} within the
// keyed calendar year; 소한 (285) falls in January of the same year.
var kasiTable = map[int]map[Degree][4]int{
	2004: {
		285: {1, 6, 8, 19},
		315: {2, 4, 20, 56},
		345: {3, 5, 14, 56},
		15:  {4, 4, 19, 43},
		45:  {5, 5, 13, 2},
		75:  {6, 5, 16, 14},
		105: {7, 7, 0, 31},
		135: {8, 7, 10, 20},
		165: {9, 7, 12, 12},
		195: {10, 8, 2, 49},
		225: {11, 7, 6, 59},
		255: {12, 6, 23, 49},
	},
	2005: {
		285: {1, 5, 14, 3},
		315: {2, 4, 2, 43},
		345: {3, 5, 20, 45},
		15:  {4, 5, 1, 34},
		45:  {5, 5, 18, 52},
		75:  {6, 5, 22, 2},
		105: {7, 7, 6, 17},
		135: {8, 7, 16, 3},
		165: {9, 7, 17, 56},
		195: {10, 8, 8, 34},
		225: {11, 7, 12, 42},
		255: {12, 7, 5, 33},
	},
	2006: {
		285: {1, 5, 19, 47},
		315: {2, 4, 8, 27},
		345: {3, 6, 2, 29},
		15:  {4, 5, 7, 15},
		45:  {5, 6, 0, 31},
		75:  {6, 6, 3, 37},
		105: {7, 7, 11, 51},
		135: {8, 7, 21, 41},
		165: {9, 7, 23, 39},
		195: {10, 8, 14, 17},
		225: {11, 7, 18, 26},
		255: {12, 7, 11, 18},
	},
	2007: {
		285: {1, 6, 1, 40},
		315: {2, 4, 14, 18},
		345: {3, 6, 8, 18},
		15:  {4, 5, 13, 4},
		45:  {5, 6, 6, 20},
		75:  {6, 6, 9, 27},
		105: {7, 7, 17, 42},
		135: {8, 8, 3, 31},
		165: {9, 8, 5, 29},
		195: {10, 8, 20, 6},
		225: {11, 8, 0, 17},
		255: {12, 7, 17, 10},
	},
	2008: {
		285: {1, 6, 7, 25},
		315: {2, 4, 20, 0},
		345: {3, 5, 13, 59},
		15:  {4, 4, 18, 46},
		45:  {5, 5, 12, 3},
		75:  {6, 5, 15, 12},
		105: {7, 6, 23, 27},
		135: {8, 7, 9, 16},
		165: {9, 7, 11, 14},
		195: {10, 8, 1, 57},
		225: {11, 7, 6, 10},
		255: {12, 6, 23, 2},
	},
	2009: {
		285: {1, 5, 13, 14},
		315: {2, 4, 1, 50},
		345: {3, 5, 19, 48},
		15:  {4, 5, 0, 34},
		45:  {5, 5, 17, 51},
		75:  {6, 5, 21, 0},
		105: {7, 7, 5, 13},
		135: {8, 7, 15, 1},
		165: {9, 7, 16, 57},
		195: {10, 8, 7, 40},
		225: {11, 7, 11, 56},
		255: {12, 7, 4, 52},
	},
	2010: {
		285: {1, 5, 19, 9},
		315: {2, 4, 7, 48},
		345: {3, 6, 1, 46},
		15:  {4, 5, 6, 30},
		45:  {5, 5, 23, 44},
		75:  {6, 6, 2, 49},
		105: {7, 7, 11, 2},
		135: {8, 7, 20, 49},
		165: {9, 7, 22, 45},
		195: {10, 8, 13, 26},
		225: {11, 7, 17, 42},
		255: {12, 7, 10, 38},
	},
	2011: {
		285: {1, 6, 0, 55},
		315: {2, 4, 13, 33},
		345: {3, 6, 7, 30},
		15:  {4, 5, 12, 12},
		45:  {5, 6, 5, 23},
		75:  {6, 6, 8, 29},
		105: {7, 7, 16, 42},
		135: {8, 8, 2, 33},
		165: {9, 8, 4, 35},
		195: {10, 8, 19, 19},
		225: {11, 7, 23, 34},
		255: {12, 7, 16, 29},
	},
	2012: {
		285: {1, 6, 6, 44},
		315: {2, 4, 19, 22},
		345: {3, 5, 13, 21},
		15:  {4, 4, 18, 5},
		45:  {5, 5, 11, 20},
		75:  {6, 5, 14, 26},
		105: {7, 6, 22, 41},
		135: {8, 7, 8, 31},
		165: {9, 7, 10, 29},
		195: {10, 8, 1, 12},
		225: {11, 7, 5, 26},
		255: {12, 6, 22, 19},
	},
	2013: {
		285: {1, 5, 12, 34},
		315: {2, 4, 1, 13},
		345: {3, 5, 19, 14},
		15:  {4, 4, 23, 2},
		45:  {5, 5, 17, 18},
		75:  {6, 5, 20, 23},
		105: {7, 7, 4, 35},
		135: {8, 7, 14, 20},
		165: {9, 7, 16, 16},
		195: {10, 8, 6, 59},
		225: {11, 7, 11, 14},
		255: {12, 7, 4, 9},
	},
	2014: {
		285: {1, 5, 18, 24},
		315: {2, 4, 7, 3},
		345: {3, 6, 1, 2},
		15:  {4, 5, 4, 47},
		45:  {5, 5, 22, 59},
		75:  {6, 6, 2, 3},
		105: {7, 7, 10, 15},
		135: {8, 7, 20, 2},
		165: {9, 7, 22, 1},
		195: {10, 8, 12, 47},
		225: {11, 7, 17, 7},
		255: {12, 7, 10, 4},
	},
	2015: {
		285: {1, 6, 0, 21},
		315: {2, 4, 12, 58},
		345: {3, 6, 6, 56},
		15:  {4, 5, 10, 39},
		45:  {5, 6, 4, 53},
		75:  {6, 6, 7, 58},
		105: {7, 7, 16, 12},
		135: {8, 8, 1, 1},
		165: {9, 8, 3, 59},
		195: {10, 8, 18, 43},
		225: {11, 7, 22, 59},
		255: {12, 7, 15, 53},
	},
	2016: {
		285: {1, 6, 6, 8},
		315: {2, 4, 18, 46},
		345: {3, 5, 12, 44},
		15:  {4, 4, 16, 28},
		45:  {5, 5, 10, 42},
		75:  {6, 5, 13, 49},
		105: {7, 6, 22, 3},
		135: {8, 7, 7, 53},
		165: {9, 7, 9, 51},
		195: {10, 8, 0, 33},
		225: {11, 7, 4, 48},
		255: {12, 6, 21, 41},
	},
	2017: {
		285: {1, 5, 11, 56},
		315: {2, 4, 0, 34},
		345: {3, 5, 18, 32},
		15:  {4, 4, 22, 17},
		45:  {5, 5, 16, 31},
		75:  {6, 5, 19, 37},
		105: {7, 7, 3, 51},
		135: {8, 7, 13, 40},
		165: {9, 7, 15, 39},
		195: {10, 8, 6, 22},
		225: {11, 7, 10, 38},
		255: {12, 7, 3, 33},
	},
	2018: {
		285: {1, 5, 17, 49},
		315: {2, 4, 6, 28},
		345: {3, 6, 0, 28},
		15:  {4, 5, 4, 13},
		45:  {5, 5, 22, 25},
		75:  {6, 6, 1, 29},
		105: {7, 7, 9, 42},
		135: {8, 7, 19, 31},
		165: {9, 7, 21, 30},
		195: {10, 8, 12, 15},
		225: {11, 7, 16, 32},
		255: {12, 7, 9, 26},
	},
	2019: {
		285: {1, 5, 23, 39},
		315: {2, 4, 12, 14},
		345: {3, 6, 6, 10},
		15:  {4, 5, 9, 51},
		45:  {5, 6, 4, 3},
		75:  {6, 6, 7, 6},
		105: {7, 7, 15, 21},
		135: {8, 8, 1, 13},
		165: {9, 8, 3, 17},
		195: {10, 8, 18, 6},
		225: {11, 7, 22, 24},
		255: {12, 7, 15, 18},
	},
	2020: {
		285: {1, 6, 5, 30},
		315: {2, 4, 18, 3},
		345: {3, 5, 11, 57},
		15:  {4, 4, 15, 38},
		45:  {5, 5, 9, 51},
		75:  {6, 5, 12, 58},
		105: {7, 6, 21, 14},
		135: {8, 7, 7, 6},
		165: {9, 7, 9, 8},
		195: {10, 8, 3, 55},
		225: {11, 7, 8, 14},
		255: {12, 7, 1, 9},
	},
	2021: {
		285: {1, 5, 11, 23},
		315: {2, 3, 23, 59},
		345: {3, 5, 17, 54},
		15:  {4, 4, 21, 35},
		45:  {5, 5, 15, 47},
		75:  {6, 5, 18, 52},
		105: {7, 7, 3, 5},
		135: {8, 7, 12, 54},
		165: {9, 7, 14, 53},
		195: {10, 8, 5, 39},
		225: {11, 7, 9, 59},
		255: {12, 7, 2, 57},
	},
	2022: {
		285: {1, 5, 17, 14},
		315: {2, 4, 5, 51},
		345: {3, 5, 23, 44},
		15:  {4, 5, 3, 20},
		45:  {5, 5, 21, 26},
		75:  {6, 6, 0, 26},
		105: {7, 7, 8, 38},
		135: {8, 7, 18, 29},
		165: {9, 7, 20, 32},
		195: {10, 8, 11, 22},
		225: {11, 7, 15, 45},
		255: {12, 7, 8, 46},
	},
	2023: {
		285: {1, 5, 23, 5},
		315: {2, 4, 11, 43},
		345: {3, 6, 5, 36},
		15:  {4, 5, 9, 13},
		45:  {5, 6, 3, 19},
		75:  {6, 6, 6, 18},
		105: {7, 7, 14, 31},
		135: {8, 8, 0, 23},
		165: {9, 8, 2, 27},
		195: {10, 8, 17, 16},
		225: {11, 7, 21, 36},
		255: {12, 7, 14, 33},
	},
	2024: {
		285: {1, 6, 5, 49},
		315: {2, 4, 17, 27},
		345: {3, 5, 11, 23},
		15:  {4, 4, 16, 2},
		45:  {5, 5, 9, 10},
		75:  {6, 5, 13, 10},
		105: {7, 6, 23, 20},
		135: {8, 7, 9, 9},
		165: {9, 7, 12, 11},
		195: {10, 8, 4, 0},
		225: {11, 7, 7, 20},
		255: {12, 7, 0, 17},
	},
	2025: {
		285: {1, 5, 11, 33},
		315: {2, 3, 23, 10},
		345: {3, 5, 17, 7},
		15:  {4, 4, 21, 2},
		45:  {5, 5, 14, 57},
		75:  {6, 5, 18, 56},
		105: {7, 7, 4, 5},
		135: {8, 7, 14, 51},
		165: {9, 7, 17, 52},
		195: {10, 8, 8, 41},
		225: {11, 7, 13, 4},
		255: {12, 7, 6, 5},
	},
	2026: {
		285: {1, 5, 17, 23},
		315: {2, 4, 5, 2},
		345: {3, 5, 22, 59},
		15:  {4, 5, 2, 52},
		45:  {5, 5, 20, 49},
		75:  {6, 6, 0, 48},
		105: {7, 7, 9, 57},
		135: {8, 7, 20, 43},
		165: {9, 7, 23, 41},
		195: {10, 8, 14, 29},
		225: {11, 7, 18, 51},
		255: {12, 7, 11, 52},
	},
	2027: {
		285: {1, 5, 23, 10},
		315: {2, 4, 10, 46},
		345: {3, 6, 4, 39},
		15:  {4, 5, 8, 17},
		45:  {5, 6, 2, 11},
		75:  {6, 6, 6, 0},
		105: {7, 7, 15, 5},
		135: {8, 8, 1, 53},
		165: {9, 8, 4, 53},
		195: {10, 8, 19, 44},
		225: {11, 7, 23, 57},
		255: {12, 7, 16, 55},
	},
}

// Table is an in-memory set of resolved term instants keyed by calendar
// year and degree. The built-in KASI data seeds it; stored computed terms
// may be merged in before serving.
type Table map[int]map[Degree]time.Time

// KASITable builds a Table from the built-in KASI reference data.
func KASITable() Table {
	t := make(Table, len(kasiTable))
	for year, degrees := range kasiTable {
		row := make(map[Degree]time.Time, len(degrees))
		for deg, v := range degrees {
			row[deg] = time.Date(year, time.Month(v[0]), v[1], v[2], v[3], 0, 0, KST)
		}
		t[year] = row
	}
	return t
}

// Merge adds an instant for (year, degree), overriding nothing: existing
// entries win so the KASI data always takes precedence over stored values.
func (t Table) Merge(year int, d Degree, at time.Time) {
	row, ok := t[year]
	if !ok {
		row = make(map[Degree]time.Time, 12)
		t[year] = row
	}
	if _, exists := row[d]; !exists {
		row[d] = at
	}
}

// Lookup returns the tabulated instant for (year, degree), if present.
func (t Table) Lookup(year int, d Degree) (time.Time, bool) {
	at, ok := t[year][d]
	return at, ok
}
