package database

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/heeguso/manse-api/internal/solarterm"
)

// testDB creates a temporary in-memory database for testing.
func testDB(t *testing.T) *DB {
	t.Helper()

	cfg := Config{
		Path:            ":memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	}

	// Quiet logger for tests
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	db, err := Open(cfg, logger)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	ctx := context.Background()
	if _, err := db.Migrate(ctx); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// seedTestTerms inserts a computed year of spring terms for testing.
func seedTestTerms(t *testing.T, db *DB) {
	t.Helper()
	ctx := context.Background()

	records := []SolarTermRecord{
		{Year: 1950, Degree: 315, Time: time.Date(1950, 2, 4, 18, 21, 0, 0, solarterm.KST), Source: solarterm.SourceComputed},
		{Year: 1950, Degree: 345, Time: time.Date(1950, 3, 6, 12, 35, 0, 0, solarterm.KST), Source: solarterm.SourceComputed},
		{Year: 1950, Degree: 15, Time: time.Date(1950, 4, 5, 17, 44, 0, 0, solarterm.KST), Source: solarterm.SourceComputed},
	}
	for _, rec := range records {
		if err := db.UpsertSolarTerm(ctx, rec); err != nil {
			t.Fatalf("seed term %d/%d: %v", rec.Year, rec.Degree, err)
		}
	}
}

func TestOpen(t *testing.T) {
	db := testDB(t)

	ctx := context.Background()
	if err := db.Health(ctx); err != nil {
		t.Errorf("Health() error = %v", err)
	}
}

func TestMigrate(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	// Migrations already ran in testDB; running again should be a no-op.
	count, err := db.Migrate(ctx)
	if err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Migrate() count = %d, want 0 (already applied)", count)
	}
}

func TestUpsertSolarTerm(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	at := time.Date(1950, 2, 4, 18, 21, 0, 0, solarterm.KST)
	rec := SolarTermRecord{Year: 1950, Degree: 315, Time: at, Source: solarterm.SourceComputed}
	if err := db.UpsertSolarTerm(ctx, rec); err != nil {
		t.Fatalf("UpsertSolarTerm() error = %v", err)
	}

	got, err := db.GetSolarTerm(ctx, 1950, 315)
	if err != nil {
		t.Fatalf("GetSolarTerm() error = %v", err)
	}
	if !got.Time.Equal(at) {
		t.Errorf("stored time = %v, want %v", got.Time, at)
	}
	if got.Source != solarterm.SourceComputed {
		t.Errorf("stored source = %q, want %q", got.Source, solarterm.SourceComputed)
	}
}

func TestUpsertSolarTerm_Replaces(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	first := time.Date(1950, 2, 4, 18, 21, 0, 0, solarterm.KST)
	rec := SolarTermRecord{Year: 1950, Degree: 315, Time: first, Source: solarterm.SourceComputed}
	if err := db.UpsertSolarTerm(ctx, rec); err != nil {
		t.Fatalf("first UpsertSolarTerm() error = %v", err)
	}

	// Same (year, degree) with a corrected instant replaces the row.
	corrected := first.Add(3 * time.Minute)
	rec.Time = corrected
	rec.Source = solarterm.SourceTabulated
	if err := db.UpsertSolarTerm(ctx, rec); err != nil {
		t.Fatalf("second UpsertSolarTerm() error = %v", err)
	}

	got, err := db.GetSolarTerm(ctx, 1950, 315)
	if err != nil {
		t.Fatalf("GetSolarTerm() error = %v", err)
	}
	if !got.Time.Equal(corrected) {
		t.Errorf("stored time = %v, want %v", got.Time, corrected)
	}
	if got.Source != solarterm.SourceTabulated {
		t.Errorf("stored source = %q, want %q", got.Source, solarterm.SourceTabulated)
	}

	terms, years, err := db.CountSolarTerms(ctx)
	if err != nil {
		t.Fatalf("CountSolarTerms() error = %v", err)
	}
	if terms != 1 || years != 1 {
		t.Errorf("CountSolarTerms() = (%d, %d), want (1, 1)", terms, years)
	}
}

func TestGetSolarTerm_NotFound(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	_, err := db.GetSolarTerm(ctx, 1950, 315)
	if err != ErrNotFound {
		t.Errorf("GetSolarTerm() error = %v, want ErrNotFound", err)
	}
}

func TestGetSolarTermsByYear(t *testing.T) {
	db := testDB(t)
	seedTestTerms(t, db)
	ctx := context.Background()

	records, err := db.GetSolarTermsByYear(ctx, 1950)
	if err != nil {
		t.Fatalf("GetSolarTermsByYear() error = %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("GetSolarTermsByYear() returned %d records, want 3", len(records))
	}

	// Ordered by instant: 입춘, 경칩, 청명.
	wantDegrees := []solarterm.Degree{315, 345, 15}
	for i, rec := range records {
		if rec.Degree != wantDegrees[i] {
			t.Errorf("record[%d].Degree = %d, want %d", i, rec.Degree, wantDegrees[i])
		}
		if rec.Year != 1950 {
			t.Errorf("record[%d].Year = %d, want 1950", i, rec.Year)
		}
	}

	other, err := db.GetSolarTermsByYear(ctx, 1951)
	if err != nil {
		t.Fatalf("GetSolarTermsByYear(1951) error = %v", err)
	}
	if len(other) != 0 {
		t.Errorf("GetSolarTermsByYear(1951) returned %d records, want 0", len(other))
	}
}

func TestListSolarTerms(t *testing.T) {
	db := testDB(t)
	seedTestTerms(t, db)
	ctx := context.Background()

	if err := db.UpsertSolarTerm(ctx, SolarTermRecord{
		Year:   1949,
		Degree: 255,
		Time:   time.Date(1949, 12, 7, 17, 33, 0, 0, solarterm.KST),
		Source: solarterm.SourceComputed,
	}); err != nil {
		t.Fatalf("upsert 1949 term: %v", err)
	}

	records, err := db.ListSolarTerms(ctx)
	if err != nil {
		t.Fatalf("ListSolarTerms() error = %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("ListSolarTerms() returned %d records, want 4", len(records))
	}
	if records[0].Year != 1949 {
		t.Errorf("first record year = %d, want 1949 (ordered by instant)", records[0].Year)
	}
}

func TestSolarTermRecord_Term(t *testing.T) {
	at := time.Date(1950, 2, 4, 18, 21, 0, 0, solarterm.KST)
	rec := SolarTermRecord{Year: 1950, Degree: 315, Time: at, Source: solarterm.SourceComputed}

	term := rec.Term()
	if term.Name != "입춘" {
		t.Errorf("Term().Name = %q, want 입춘", term.Name)
	}
	if term.MonthIndex != 0 {
		t.Errorf("Term().MonthIndex = %d, want 0", term.MonthIndex)
	}
	if !term.Time.Equal(at) {
		t.Errorf("Term().Time = %v, want %v", term.Time, at)
	}
}

func TestStoredTimeRoundTripsInKST(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	// Store in UTC; retrieval converts to KST without shifting the instant.
	utc := time.Date(1950, 2, 4, 9, 21, 0, 0, time.UTC)
	if err := db.UpsertSolarTerm(ctx, SolarTermRecord{
		Year: 1950, Degree: 315, Time: utc, Source: solarterm.SourceComputed,
	}); err != nil {
		t.Fatalf("UpsertSolarTerm() error = %v", err)
	}

	got, err := db.GetSolarTerm(ctx, 1950, 315)
	if err != nil {
		t.Fatalf("GetSolarTerm() error = %v", err)
	}
	if !got.Time.Equal(utc) {
		t.Errorf("retrieved instant %v != stored instant %v", got.Time, utc)
	}
	if got.Time.Hour() != 18 {
		t.Errorf("retrieved hour = %d, want 18 KST", got.Time.Hour())
	}
}

func TestWithTx(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	err := db.WithTx(ctx, func(tx *Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO solar_terms (year, degree, term_time, source)
			VALUES (?, ?, ?, ?)
		`, 1950, 315, "1950-02-04T18:21:00+09:00", "computed")
		return err
	})
	if err != nil {
		t.Fatalf("WithTx() success case error = %v", err)
	}

	if _, err := db.GetSolarTerm(ctx, 1950, 315); err != nil {
		t.Errorf("term not created: %v", err)
	}
}

func TestWithTx_Rollback(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	err := db.WithTx(ctx, func(tx *Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO solar_terms (year, degree, term_time, source)
			VALUES (?, ?, ?, ?)
		`, 1950, 315, "1950-02-04T18:21:00+09:00", "computed")
		if err != nil {
			return err
		}
		// Force error to trigger rollback
		return ErrNotFound
	})
	if err != ErrNotFound {
		t.Fatalf("WithTx() rollback case error = %v, want ErrNotFound", err)
	}

	if _, err := db.GetSolarTerm(ctx, 1950, 315); err != ErrNotFound {
		t.Errorf("term should not exist after rollback, got error: %v", err)
	}
}
