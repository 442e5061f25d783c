package database

// migrationsSQL holds forward-only schema migrations keyed by version.
var migrationsSQL = map[int]string{
	1: `
		CREATE TABLE solar_terms (
			year INTEGER NOT NULL,
			degree INTEGER NOT NULL,
			term_time TEXT NOT NULL,     -- RFC 3339, KST offset
			source TEXT NOT NULL,        -- tabulated | computed
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			updated_at TEXT NOT NULL DEFAULT (datetime('now')),
			PRIMARY KEY (year, degree)
		);

		CREATE INDEX idx_solar_terms_year ON solar_terms(year);
	`,
}
