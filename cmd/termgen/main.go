package main

// termgen resolves the twelve solar terms for a range of years and
// optionally persists them in the SQLite store the API seeds from. Useful
// for pre-computing ephemeris years so the server never has to solve at
// request time, and for eyeballing the data against a published almanac.

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/heeguso/manse-api/internal/database"
	"github.com/heeguso/manse-api/internal/solarterm"
)

func main() {
	from := flag.Int("from", 1950, "First year to resolve")
	to := flag.Int("to", 2050, "Last year to resolve (inclusive)")
	dbPath := flag.String("db", "", "SQLite store path; omit for a dry run")
	verbose := flag.Bool("v", false, "Print every resolved term")
	flag.Parse()

	if *from > *to {
		fmt.Fprintln(os.Stderr, "-from must not exceed -to")
		os.Exit(2)
	}

	locator := solarterm.NewLocator(solarterm.KASITable(), solarterm.MeeusEphemeris{})

	var db *database.DB
	ctx := context.Background()
	if *dbPath != "" {
		var err error
		db, err = database.Open(database.DefaultConfig(*dbPath), slog.Default())
		if err != nil {
			fmt.Fprintf(os.Stderr, "open store: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()
		if _, err := db.Migrate(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "migrate store: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("=== Solar term generator: %d-%d ===\n\n", *from, *to)

	sourceCounts := map[solarterm.Source]int{}
	failed := 0

	for year := *from; year <= *to; year++ {
		terms, err := locator.Year(year)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%d: %v\n", year, err)
			failed++
			continue
		}

		for _, t := range terms {
			sourceCounts[t.Source]++
			if *verbose {
				fmt.Printf("%d  %-4s %3d°  %s  (%s)\n",
					year, t.Name, t.Degree, t.Time.Format("2006-01-02 15:04"), t.Source)
			}
			if db != nil {
				rec := database.SolarTermRecord{
					Year:   year,
					Degree: t.Degree,
					Time:   t.Time,
					Source: t.Source,
				}
				if err := db.UpsertSolarTerm(ctx, rec); err != nil {
					fmt.Fprintf(os.Stderr, "store %d/%d: %v\n", year, t.Degree, err)
					failed++
				}
			}
		}
	}

	fmt.Println("\nSummary:")
	fmt.Printf("  tabulated: %d terms\n", sourceCounts[solarterm.SourceTabulated])
	fmt.Printf("  computed:  %d terms\n", sourceCounts[solarterm.SourceComputed])
	if failed > 0 {
		fmt.Printf("  failures:  %d\n", failed)
		os.Exit(1)
	}
}
