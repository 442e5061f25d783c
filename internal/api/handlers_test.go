package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/heeguso/manse-api/internal/config"
	"github.com/heeguso/manse-api/internal/database"
	"github.com/heeguso/manse-api/internal/solarterm"
)

// testEnv sets up a complete test environment with database, config,
// handlers and router.
type testEnv struct {
	db       *database.DB
	cfg      *config.Config
	router   http.Handler
	adminKey string
}

// setupTest creates a fresh test environment over the tabulated term data.
func setupTest(t *testing.T) *testEnv {
	t.Helper()

	dbCfg := database.Config{
		Path:            ":memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError, // Quiet during tests
	}))

	db, err := database.Open(dbCfg, logger)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	ctx := context.Background()
	if _, err := db.Migrate(ctx); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	adminKey := "admin-test-key-32-characters-minimum-length"
	cfg := &config.Config{
		Port:         8080,
		Env:          config.EnvDevelopment,
		DatabasePath: ":memory:",
		APIKey:       adminKey,
		LogLevel:     "error",
		LogFormat:    "text",
	}

	// Tabulated-only locator: covered years serve from the KASI data,
	// uncovered ones fail with ErrOutOfRange.
	locator := solarterm.NewLocator(solarterm.KASITable(), nil)
	handlers := NewHandlers(db, locator, cfg, logger)
	router := SetupRoutes(handlers, cfg, logger)

	t.Cleanup(func() {
		db.Close()
	})

	return &testEnv{
		db:       db,
		cfg:      cfg,
		router:   router,
		adminKey: adminKey,
	}
}

// doRequest runs a request through the full router and parses the envelope.
func (env *testEnv) doRequest(t *testing.T, method, path, apiKey string) (*httptest.ResponseRecorder, *Response) {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	var resp Response
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v, body: %s", err, rr.Body.String())
	}
	return rr, &resp
}

// dataAs re-marshals the envelope data into a typed value.
func dataAs(t *testing.T, resp *Response, v any) {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("marshal data: %v", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
}

func TestHealthCheck(t *testing.T) {
	env := setupTest(t)

	rr, resp := env.doRequest(t, http.MethodGet, "/health", "")
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if !resp.Success {
		t.Errorf("success = false, body: %s", rr.Body.String())
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestGetChart(t *testing.T) {
	env := setupTest(t)

	rr, resp := env.doRequest(t, http.MethodGet,
		"/api/v1/chart?birth=2024-06-01T08:00&sex=F", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rr.Code, rr.Body.String())
	}

	var data chartResponse
	dataAs(t, resp, &data)

	wantPillars := map[string]string{
		"year":  "甲辰",
		"month": "己巳",
		"day":   "丙申",
		"hour":  "壬辰",
	}
	for pos, want := range wantPillars {
		if got := data.Pillars[pos].Ganji; got != want {
			t.Errorf("%s pillar = %s, want %s", pos, got, want)
		}
	}

	if data.DayMaster != "丙" {
		t.Errorf("day master = %s, want 丙", data.DayMaster)
	}
	if data.BoundaryStatus != "safe" {
		t.Errorf("boundary status = %s, want safe", data.BoundaryStatus)
	}
	if data.TermSource != "tabulated" {
		t.Errorf("term source = %s, want tabulated", data.TermSource)
	}
	if data.Luck.Direction != "backward" {
		t.Errorf("luck direction = %s, want backward", data.Luck.Direction)
	}
	if data.Luck.StartAge != 8 {
		t.Errorf("luck start age = %d, want 8", data.Luck.StartAge)
	}
	if len(data.Luck.Entries) != 8 {
		t.Errorf("luck entries = %d, want 8", len(data.Luck.Entries))
	}

	// Day pillar reads as the day master itself.
	if got := data.Pillars["day"].StemTenGod; got != "일원" {
		t.Errorf("day stem ten god = %s, want 일원", got)
	}

	total := 0
	for _, n := range data.PhaseCounts {
		total += n
	}
	if total != 8 {
		t.Errorf("phase counts sum to %d, want 8", total)
	}
}

func TestGetChart_BoundaryFlag(t *testing.T) {
	env := setupTest(t)

	// 입춘 2024 crosses at 17:27; a 16:30 birth is inside the critical
	// window and still belongs to the outgoing year.
	_, resp := env.doRequest(t, http.MethodGet,
		"/api/v1/chart?birth=2024-02-04T16:30&sex=M", "")

	var data chartResponse
	dataAs(t, resp, &data)

	if data.BoundaryStatus != "critical" {
		t.Errorf("boundary status = %s, want critical", data.BoundaryStatus)
	}
	if data.BoundaryDetail == "" {
		t.Error("expected boundary detail for a critical chart")
	}
	if got := data.Pillars["year"].Ganji; got != "癸卯" {
		t.Errorf("year pillar = %s, want 癸卯", got)
	}
}

func TestGetChart_Validation(t *testing.T) {
	env := setupTest(t)

	tests := []struct {
		name     string
		path     string
		wantCode string
	}{
		{"missing birth", "/api/v1/chart?sex=M", "BAD_REQUEST"},
		{"date only", "/api/v1/chart?birth=1990-05-15&sex=M", "BAD_REQUEST"},
		{"garbage birth", "/api/v1/chart?birth=notadate&sex=M", "BAD_REQUEST"},
		{"missing sex", "/api/v1/chart?birth=2024-06-01T08:00", "BAD_REQUEST"},
		{"invalid sex", "/api/v1/chart?birth=2024-06-01T08:00&sex=X", "BAD_REQUEST"},
		{"uncovered year", "/api/v1/chart?birth=1950-06-01T08:00&sex=M", "OUT_OF_RANGE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, resp := env.doRequest(t, http.MethodGet, tt.path, "")
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rr.Code, http.StatusBadRequest)
			}
			if resp.Success || resp.Error == nil {
				t.Fatalf("expected error envelope, body: %s", rr.Body.String())
			}
			if resp.Error.Code != tt.wantCode {
				t.Errorf("error code = %s, want %s", resp.Error.Code, tt.wantCode)
			}
		})
	}
}

func TestGetYearCycle(t *testing.T) {
	env := setupTest(t)

	_, resp := env.doRequest(t, http.MethodGet,
		"/api/v1/yearcycle?start=2026&count=3", "")

	var data struct {
		Start   int              `json:"start"`
		Count   int              `json:"count"`
		Entries []yearCycleEntry `json:"entries"`
	}
	dataAs(t, resp, &data)

	if data.Start != 2026 || data.Count != 3 {
		t.Errorf("start/count = %d/%d, want 2026/3", data.Start, data.Count)
	}
	want := []string{"丙午", "丁未", "戊申"}
	if len(data.Entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(data.Entries))
	}
	for i, e := range data.Entries {
		if e.Ganji != want[i] {
			t.Errorf("entry %d ganji = %s, want %s", i, e.Ganji, want[i])
		}
		if e.StemTenGod != "" {
			t.Errorf("entry %d annotated without a day master: %s", i, e.StemTenGod)
		}
	}
}

func TestGetYearCycle_DayMaster(t *testing.T) {
	env := setupTest(t)

	_, resp := env.doRequest(t, http.MethodGet,
		"/api/v1/yearcycle?start=2026&count=1&daymaster=庚", "")

	var data struct {
		Entries []yearCycleEntry `json:"entries"`
	}
	dataAs(t, resp, &data)

	if len(data.Entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(data.Entries))
	}
	e := data.Entries[0]
	if e.Ganji != "丙午" {
		t.Errorf("ganji = %s, want 丙午", e.Ganji)
	}
	if e.StemTenGod != "편관" {
		t.Errorf("stem ten god = %s, want 편관", e.StemTenGod)
	}
	if e.BranchTenGod != "정관" {
		t.Errorf("branch ten god = %s, want 정관", e.BranchTenGod)
	}
}

func TestGetYearCycle_Validation(t *testing.T) {
	env := setupTest(t)

	paths := []string{
		"/api/v1/yearcycle",
		"/api/v1/yearcycle?start=notayear",
		"/api/v1/yearcycle?start=2026&count=0",
		"/api/v1/yearcycle?start=2026&count=9999",
		"/api/v1/yearcycle?start=2026&daymaster=X",
		"/api/v1/yearcycle?start=2026&daymaster=甲乙",
	}

	for _, path := range paths {
		rr, resp := env.doRequest(t, http.MethodGet, path, "")
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, rr.Code)
		}
		if resp.Success {
			t.Errorf("%s: expected error envelope", path)
		}
	}
}

func TestGetTerms(t *testing.T) {
	env := setupTest(t)

	rr, resp := env.doRequest(t, http.MethodGet, "/api/v1/terms/2024", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rr.Code, rr.Body.String())
	}

	var data struct {
		Year  int              `json:"year"`
		Terms []solarterm.Term `json:"terms"`
	}
	dataAs(t, resp, &data)

	if data.Year != 2024 {
		t.Errorf("year = %d, want 2024", data.Year)
	}
	if len(data.Terms) != 12 {
		t.Fatalf("terms = %d, want 12", len(data.Terms))
	}
	if data.Terms[0].Name != "소한" {
		t.Errorf("first term = %s, want 소한", data.Terms[0].Name)
	}
	for _, term := range data.Terms {
		if term.Source != solarterm.SourceTabulated {
			t.Errorf("term %s source = %s, want tabulated", term.Name, term.Source)
		}
	}
}

func TestGetTerms_OutOfRange(t *testing.T) {
	env := setupTest(t)

	rr, resp := env.doRequest(t, http.MethodGet, "/api/v1/terms/1700", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
	if resp.Error == nil || resp.Error.Code != "OUT_OF_RANGE" {
		t.Errorf("error = %+v, want OUT_OF_RANGE", resp.Error)
	}
}

func TestGenerateTerms_RequiresKey(t *testing.T) {
	env := setupTest(t)

	rr, resp := env.doRequest(t, http.MethodPost, "/api/v1/admin/terms/2024", "")
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
	if resp.Error == nil || resp.Error.Code != "UNAUTHORIZED" {
		t.Errorf("error = %+v, want UNAUTHORIZED", resp.Error)
	}

	rr, _ = env.doRequest(t, http.MethodPost, "/api/v1/admin/terms/2024", "wrong-key")
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("wrong key status = %d, want 401", rr.Code)
	}
}

func TestGenerateTerms(t *testing.T) {
	env := setupTest(t)

	rr, resp := env.doRequest(t, http.MethodPost, "/api/v1/admin/terms/2024", env.adminKey)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rr.Code, rr.Body.String())
	}

	var data struct {
		Year   int `json:"year"`
		Stored int `json:"stored"`
	}
	dataAs(t, resp, &data)
	if data.Stored != 12 {
		t.Errorf("stored = %d, want 12", data.Stored)
	}

	terms, years, err := env.db.CountSolarTerms(context.Background())
	if err != nil {
		t.Fatalf("count stored terms: %v", err)
	}
	if terms != 12 || years != 1 {
		t.Errorf("store holds (%d, %d), want (12, 1)", terms, years)
	}
}

func TestGenerateTerms_DevWithoutKeySkipsAuth(t *testing.T) {
	env := setupTest(t)
	env.cfg.APIKey = ""

	rr, _ := env.doRequest(t, http.MethodPost, "/api/v1/admin/terms/2024", "")
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 (open admin in development)", rr.Code)
	}
}

func TestCORSPreflights(t *testing.T) {
	env := setupTest(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/chart", nil)
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusNoContent)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}
