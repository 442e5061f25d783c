package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/heeguso/manse-api/internal/chart"
	"github.com/heeguso/manse-api/internal/config"
	"github.com/heeguso/manse-api/internal/cycle"
	"github.com/heeguso/manse-api/internal/database"
	"github.com/heeguso/manse-api/internal/solarterm"
)

// birthLayouts are the accepted birth query formats. Date and time of day
// are both mandatory: the hour pillar and the term-boundary comparison need
// the time, so a date-only input is rejected rather than defaulted.
var birthLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
}

const maxYearCycleCount = 120

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	db       *database.DB
	locator  *solarterm.Locator
	computer *chart.Computer
	cfg      *config.Config
	logger   *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *database.DB, locator *solarterm.Locator, cfg *config.Config, log *slog.Logger) *Handlers {
	return &Handlers{
		db:       db,
		locator:  locator,
		computer: chart.NewComputer(locator),
		cfg:      cfg,
		logger:   log,
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Health(r.Context()); err != nil {
		h.logger.Warn("health check failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", "HEALTH_CHECK_FAILED")
		return
	}

	WriteSuccess(w, map[string]string{
		"status": "healthy",
	})
}

// GetChart handles GET /api/v1/chart?birth=YYYY-MM-DDTHH:MM&sex=M|F
func (h *Handlers) GetChart(w http.ResponseWriter, r *http.Request) {
	birthStr := r.URL.Query().Get("birth")
	if birthStr == "" {
		WriteBadRequest(w, "birth parameter is required (YYYY-MM-DDTHH:MM, KST)")
		return
	}

	birth, err := parseBirth(birthStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid birth instant %q: date and time of day are both required (YYYY-MM-DDTHH:MM)", birthStr))
		return
	}

	sex := chart.Sex(r.URL.Query().Get("sex"))
	if !sex.Valid() {
		WriteBadRequest(w, "sex parameter must be M or F")
		return
	}

	result, err := h.computer.Compute(birth, sex)
	if err != nil {
		h.writeChartError(w, birthStr, err)
		return
	}

	WriteSuccess(w, newChartResponse(result))
}

// GetYearCycle handles GET /api/v1/yearcycle?start=YYYY&count=N[&daymaster=甲]
func (h *Handlers) GetYearCycle(w http.ResponseWriter, r *http.Request) {
	start, err := strconv.Atoi(r.URL.Query().Get("start"))
	if err != nil {
		WriteBadRequest(w, "start parameter must be a calendar year")
		return
	}

	count := 10
	if countStr := r.URL.Query().Get("count"); countStr != "" {
		count, err = strconv.Atoi(countStr)
		if err != nil || count < 1 || count > maxYearCycleCount {
			WriteBadRequest(w, fmt.Sprintf("count must be between 1 and %d", maxYearCycleCount))
			return
		}
	}

	entries := cycle.ProjectYears(start, count)

	// Annotate with ten gods when a reference day master is supplied.
	var dayMaster *cycle.Stem
	if dm := r.URL.Query().Get("daymaster"); dm != "" {
		runes := []rune(dm)
		if len(runes) != 1 {
			WriteBadRequest(w, "daymaster must be a single stem character")
			return
		}
		stem, ok := cycle.StemFromRune(runes[0])
		if !ok {
			WriteBadRequest(w, fmt.Sprintf("unknown stem character %q", dm))
			return
		}
		dayMaster = &stem
	}

	out := make([]yearCycleEntry, 0, len(entries))
	for _, e := range entries {
		item := yearCycleEntry{Year: e.Year, Ganji: e.Pillar.String()}
		if dayMaster != nil {
			rel := cycle.Relate(*dayMaster, e.Pillar)
			item.StemTenGod = string(rel.Stem)
			item.BranchTenGod = string(rel.Branch)
		}
		out = append(out, item)
	}

	WriteSuccess(w, map[string]any{
		"start":   start,
		"count":   count,
		"entries": out,
	})
}

// GetTerms handles GET /api/v1/terms/{year}
func (h *Handlers) GetTerms(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		WriteBadRequest(w, "year must be an integer")
		return
	}

	terms, err := h.locator.Year(year)
	if err != nil {
		if errors.Is(err, solarterm.ErrOutOfRange) {
			WriteError(w, http.StatusBadRequest,
				fmt.Sprintf("Year %d is outside the supported solar term range", year), "OUT_OF_RANGE")
			return
		}
		h.logger.Error("failed to resolve terms",
			slog.Int("year", year), slog.Any("error", err))
		WriteInternalError(w, "Failed to resolve solar terms")
		return
	}

	WriteSuccess(w, map[string]any{
		"year":  year,
		"terms": terms,
	})
}

// GenerateTerms handles POST /api/v1/admin/terms/{year}: resolves the
// twelve terms for a year and persists them in the store.
func (h *Handlers) GenerateTerms(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		WriteBadRequest(w, "year must be an integer")
		return
	}

	terms, err := h.locator.Year(year)
	if err != nil {
		if errors.Is(err, solarterm.ErrOutOfRange) {
			WriteError(w, http.StatusBadRequest,
				fmt.Sprintf("Year %d is outside the supported solar term range", year), "OUT_OF_RANGE")
			return
		}
		h.logger.Error("failed to resolve terms for generation",
			slog.Int("year", year), slog.Any("error", err))
		WriteInternalError(w, "Failed to resolve solar terms")
		return
	}

	for _, t := range terms {
		rec := database.SolarTermRecord{
			Year:   year,
			Degree: t.Degree,
			Time:   t.Time,
			Source: t.Source,
		}
		if err := h.db.UpsertSolarTerm(ctx, rec); err != nil {
			h.logger.Error("failed to store term",
				slog.Int("year", year), slog.Int("degree", int(t.Degree)), slog.Any("error", err))
			WriteInternalError(w, "Failed to store solar terms")
			return
		}
	}

	WriteSuccess(w, map[string]any{
		"year":   year,
		"stored": len(terms),
	})
}

// writeChartError maps core computation errors to HTTP responses.
func (h *Handlers) writeChartError(w http.ResponseWriter, birth string, err error) {
	switch {
	case errors.Is(err, chart.ErrInvalidSex):
		WriteBadRequest(w, "sex parameter must be M or F")
	case errors.Is(err, solarterm.ErrOutOfRange):
		WriteError(w, http.StatusBadRequest,
			fmt.Sprintf("Birth %s is outside the supported solar term range", birth), "OUT_OF_RANGE")
	case errors.Is(err, chart.ErrNoPriorTerm):
		WriteError(w, http.StatusBadRequest,
			"Birth precedes the earliest available solar term data", "OUT_OF_RANGE")
	default:
		h.logger.Error("failed to compute chart",
			slog.String("birth", birth), slog.Any("error", err))
		WriteInternalError(w, "Failed to compute chart")
	}
}

func parseBirth(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range birthLayouts {
		t, err := time.ParseInLocation(layout, s, solarterm.KST)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// -----------------------------------------------------------------
// Response shapes
// -----------------------------------------------------------------

type pillarJSON struct {
	Ganji        string `json:"ganji"`
	Stem         string `json:"stem"`
	Branch       string `json:"branch"`
	StemTenGod   string `json:"stem_ten_god"`
	BranchTenGod string `json:"branch_ten_god"`
}

type luckEntryJSON struct {
	Age          int    `json:"age"`
	Ganji        string `json:"ganji"`
	StemTenGod   string `json:"stem_ten_god"`
	BranchTenGod string `json:"branch_ten_god"`
}

type luckJSON struct {
	StartAge  int             `json:"start_age"`
	Direction string          `json:"direction"`
	Entries   []luckEntryJSON `json:"entries"`
}

type chartResponse struct {
	Birth          string                `json:"birth"`
	DSTAdjusted    bool                  `json:"dst_adjusted"`
	Sex            string                `json:"sex"`
	Pillars        map[string]pillarJSON `json:"pillars"`
	DayMaster      string                `json:"day_master"`
	BoundaryStatus string                `json:"boundary_status"`
	BoundaryDetail string                `json:"boundary_detail,omitempty"`
	TermName       string                `json:"term_name"`
	TermSource     string                `json:"term_source"`
	PhaseCounts    map[string]int        `json:"phase_counts"`
	Luck           luckJSON              `json:"luck_timeline"`
}

type yearCycleEntry struct {
	Year         int    `json:"year"`
	Ganji        string `json:"ganji"`
	StemTenGod   string `json:"stem_ten_god,omitempty"`
	BranchTenGod string `json:"branch_ten_god,omitempty"`
}

func newPillarJSON(dayMaster cycle.Stem, p cycle.Pillar) pillarJSON {
	rel := cycle.Relate(dayMaster, p)
	return pillarJSON{
		Ganji:        p.String(),
		Stem:         p.Stem.String(),
		Branch:       p.Branch.String(),
		StemTenGod:   string(rel.Stem),
		BranchTenGod: string(rel.Branch),
	}
}

func newChartResponse(c *chart.Chart) chartResponse {
	direction := "backward"
	if c.Luck.Forward {
		direction = "forward"
	}

	luck := luckJSON{
		StartAge:  c.Luck.StartAge,
		Direction: direction,
		Entries:   make([]luckEntryJSON, 0, len(c.Luck.Entries)),
	}
	for _, e := range c.Luck.Entries {
		rel := cycle.Relate(c.DayMaster, e.Pillar)
		luck.Entries = append(luck.Entries, luckEntryJSON{
			Age:          e.Age,
			Ganji:        e.Pillar.String(),
			StemTenGod:   string(rel.Stem),
			BranchTenGod: string(rel.Branch),
		})
	}

	phases := make(map[string]int, 5)
	for phase, n := range c.PhaseCounts() {
		phases[string(phase)] = n
	}

	return chartResponse{
		Birth:       c.Birth.Format("2006-01-02 15:04:05"),
		DSTAdjusted: c.DSTAdjusted,
		Sex:         string(c.Sex),
		Pillars: map[string]pillarJSON{
			"year":  newPillarJSON(c.DayMaster, c.Year),
			"month": newPillarJSON(c.DayMaster, c.Month),
			"day":   newPillarJSON(c.DayMaster, c.Day),
			"hour":  newPillarJSON(c.DayMaster, c.Hour),
		},
		DayMaster:      c.DayMaster.String(),
		BoundaryStatus: string(c.Boundary),
		BoundaryDetail: c.BoundaryDetail,
		TermName:       c.TermName,
		TermSource:     string(c.TermSource),
		PhaseCounts:    phases,
		Luck:           luck,
	}
}
