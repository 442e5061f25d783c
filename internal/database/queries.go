package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/heeguso/manse-api/internal/solarterm"
)

// SolarTermRecord is a stored solar-term instant.
type SolarTermRecord struct {
	Year   int              `json:"year"`
	Degree solarterm.Degree `json:"degree"`
	Time   time.Time        `json:"time"`
	Source solarterm.Source `json:"source"`
}

// Term converts the record to a solarterm.Term.
func (r SolarTermRecord) Term() solarterm.Term {
	return solarterm.Term{
		Degree:     r.Degree,
		Name:       r.Degree.Name(),
		MonthIndex: r.Degree.MonthIndex(),
		Time:       r.Time,
		Source:     r.Source,
	}
}

// UpsertSolarTerm stores or replaces the instant for (year, degree).
func (db *DB) UpsertSolarTerm(ctx context.Context, rec SolarTermRecord) error {
	query := `
		INSERT INTO solar_terms (year, degree, term_time, source)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(year, degree) DO UPDATE SET
			term_time = excluded.term_time,
			source = excluded.source,
			updated_at = datetime('now')
	`
	_, err := db.ExecContext(ctx, query,
		rec.Year, int(rec.Degree), rec.Time.Format(time.RFC3339), string(rec.Source))
	if err != nil {
		return fmt.Errorf("upsert solar term %d/%d: %w", rec.Year, rec.Degree, err)
	}
	return nil
}

// GetSolarTerm retrieves the stored instant for (year, degree).
// Returns ErrNotFound when absent.
func (db *DB) GetSolarTerm(ctx context.Context, year int, degree solarterm.Degree) (*SolarTermRecord, error) {
	query := `
		SELECT year, degree, term_time, source
		FROM solar_terms
		WHERE year = ? AND degree = ?
	`
	rec, err := scanTerm(db.QueryRowContext(ctx, query, year, int(degree)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query solar term: %w", err)
	}
	return rec, nil
}

// GetSolarTermsByYear retrieves all stored terms for a year, ordered by
// instant.
func (db *DB) GetSolarTermsByYear(ctx context.Context, year int) ([]SolarTermRecord, error) {
	query := `
		SELECT year, degree, term_time, source
		FROM solar_terms
		WHERE year = ?
		ORDER BY term_time
	`
	rows, err := db.QueryContext(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("query solar terms for %d: %w", year, err)
	}
	defer rows.Close()

	return collectTerms(rows)
}

// ListSolarTerms retrieves every stored term, ordered by instant. Used to
// seed the locator at startup.
func (db *DB) ListSolarTerms(ctx context.Context) ([]SolarTermRecord, error) {
	query := `
		SELECT year, degree, term_time, source
		FROM solar_terms
		ORDER BY term_time
	`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list solar terms: %w", err)
	}
	defer rows.Close()

	return collectTerms(rows)
}

// CountSolarTerms returns the number of stored terms and the distinct years
// covered.
func (db *DB) CountSolarTerms(ctx context.Context) (terms, years int, err error) {
	query := `SELECT COUNT(*), COUNT(DISTINCT year) FROM solar_terms`
	if err := db.QueryRowContext(ctx, query).Scan(&terms, &years); err != nil {
		return 0, 0, fmt.Errorf("count solar terms: %w", err)
	}
	return terms, years, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTerm(row rowScanner) (*SolarTermRecord, error) {
	var rec SolarTermRecord
	var degree int
	var timeStr, source string
	if err := row.Scan(&rec.Year, &degree, &timeStr, &source); err != nil {
		return nil, err
	}
	at, err := time.Parse(time.RFC3339, timeStr)
	if err != nil {
		return nil, fmt.Errorf("parse term time %q: %w", timeStr, err)
	}
	rec.Degree = solarterm.Degree(degree)
	rec.Time = at.In(solarterm.KST)
	rec.Source = solarterm.Source(source)
	return &rec, nil
}

func collectTerms(rows *sql.Rows) ([]SolarTermRecord, error) {
	var records []SolarTermRecord
	for rows.Next() {
		rec, err := scanTerm(rows)
		if err != nil {
			return nil, fmt.Errorf("scan solar term: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate solar terms: %w", err)
	}
	return records, nil
}
