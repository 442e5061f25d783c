package main

// apitest exercises a running manse API server end to end: health, known
// charts, year cycles, term listings, and the input-validation paths.

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// APIResponse mirrors the server's response envelope.
type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type chartData struct {
	Pillars map[string]struct {
		Ganji string `json:"ganji"`
	} `json:"pillars"`
	BoundaryStatus string `json:"boundary_status"`
	Luck           struct {
		StartAge  int    `json:"start_age"`
		Direction string `json:"direction"`
	} `json:"luck_timeline"`
}

type TestRunner struct {
	baseURL      string
	client       *http.Client
	verbose      bool
	successCount int
	errorCount   int
	errors       []string
}

func NewTestRunner(baseURL string, verbose bool) *TestRunner {
	return &TestRunner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		verbose: verbose,
	}
}

func (tr *TestRunner) Run() {
	fmt.Println("==============================================")
	fmt.Println("Manse API Test Suite")
	fmt.Println("==============================================")
	fmt.Printf("Base URL: %s\n\n", tr.baseURL)

	tr.testHealth()
	tr.testKnownCharts()
	tr.testYearCycle()
	tr.testTerms()
	tr.testValidation()

	tr.printSummary()
}

func (tr *TestRunner) testHealth() {
	tr.printSection("Health Check")

	resp, err := tr.get("/health")
	if err != nil {
		tr.recordError("Health", err.Error())
		return
	}
	if !resp.Success {
		tr.recordError("Health", "expected success response")
		return
	}
	tr.recordSuccess("Health", "server healthy")
}

func (tr *TestRunner) testKnownCharts() {
	tr.printSection("Known Charts")

	cases := []struct {
		name       string
		birth, sex string
		year, day  string
	}{
		{"1990-05-15 male", "1990-05-15T14:30", "M", "庚午", "庚辰"},
		{"2024-06-01 female", "2024-06-01T08:00", "F", "甲辰", "丙申"},
	}

	for _, tc := range cases {
		q := url.Values{"birth": {tc.birth}, "sex": {tc.sex}}
		resp, err := tr.get("/api/v1/chart?" + q.Encode())
		if err != nil {
			tr.recordError(tc.name, err.Error())
			continue
		}
		if !resp.Success {
			tr.recordError(tc.name, "expected success response")
			continue
		}

		var data chartData
		if err := json.Unmarshal(resp.Data, &data); err != nil {
			tr.recordError(tc.name, fmt.Sprintf("decode: %v", err))
			continue
		}
		if got := data.Pillars["year"].Ganji; got != tc.year {
			tr.recordError(tc.name, fmt.Sprintf("year pillar = %s, want %s", got, tc.year))
			continue
		}
		if got := data.Pillars["day"].Ganji; got != tc.day {
			tr.recordError(tc.name, fmt.Sprintf("day pillar = %s, want %s", got, tc.day))
			continue
		}
		tr.recordSuccess(tc.name, fmt.Sprintf("pillars ok, start age %d %s",
			data.Luck.StartAge, data.Luck.Direction))
	}
}

func (tr *TestRunner) testYearCycle() {
	tr.printSection("Year Cycle")

	resp, err := tr.get("/api/v1/yearcycle?start=2026&count=1")
	if err != nil {
		tr.recordError("YearCycle 2026", err.Error())
		return
	}
	var data struct {
		Entries []struct {
			Year  int    `json:"year"`
			Ganji string `json:"ganji"`
		} `json:"entries"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		tr.recordError("YearCycle 2026", fmt.Sprintf("decode: %v", err))
		return
	}
	if len(data.Entries) != 1 || data.Entries[0].Ganji != "丙午" {
		tr.recordError("YearCycle 2026", fmt.Sprintf("got %+v, want one 丙午 entry", data.Entries))
		return
	}
	tr.recordSuccess("YearCycle 2026", "丙午")
}

func (tr *TestRunner) testTerms() {
	tr.printSection("Solar Terms")

	resp, err := tr.get("/api/v1/terms/2024")
	if err != nil {
		tr.recordError("Terms 2024", err.Error())
		return
	}
	var data struct {
		Terms []struct {
			Name   string `json:"name"`
			Source string `json:"source"`
		} `json:"terms"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		tr.recordError("Terms 2024", fmt.Sprintf("decode: %v", err))
		return
	}
	if len(data.Terms) != 12 {
		tr.recordError("Terms 2024", fmt.Sprintf("got %d terms, want 12", len(data.Terms)))
		return
	}
	tr.recordSuccess("Terms 2024", fmt.Sprintf("12 terms, first %s (%s)",
		data.Terms[0].Name, data.Terms[0].Source))
}

func (tr *TestRunner) testValidation() {
	tr.printSection("Validation")

	cases := []struct {
		name string
		path string
	}{
		{"missing sex", "/api/v1/chart?birth=1990-05-15T14:30"},
		{"date-only birth", "/api/v1/chart?birth=1990-05-15&sex=M"},
		{"bad year", "/api/v1/terms/1700"},
		{"bad count", "/api/v1/yearcycle?start=2026&count=9999"},
	}

	for _, tc := range cases {
		resp, err := tr.get(tc.path)
		if err != nil {
			tr.recordError(tc.name, err.Error())
			continue
		}
		if resp.Success || resp.Error == nil {
			tr.recordError(tc.name, "expected error response")
			continue
		}
		tr.recordSuccess(tc.name, resp.Error.Code)
	}
}

func (tr *TestRunner) get(path string) (*APIResponse, error) {
	httpResp, err := tr.client.Get(tr.baseURL + path)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	var resp APIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	if tr.verbose {
		fmt.Printf("  %s -> %d\n%s\n", path, httpResp.StatusCode, body)
	}
	return &resp, nil
}

func (tr *TestRunner) printSection(name string) {
	fmt.Printf("\n--- %s ---\n", name)
}

func (tr *TestRunner) recordSuccess(name, detail string) {
	tr.successCount++
	fmt.Printf("  PASS %s: %s\n", name, detail)
}

func (tr *TestRunner) recordError(name, detail string) {
	tr.errorCount++
	tr.errors = append(tr.errors, fmt.Sprintf("%s: %s", name, detail))
	fmt.Printf("  FAIL %s: %s\n", name, detail)
}

func (tr *TestRunner) printSummary() {
	fmt.Println("\n==============================================")
	fmt.Printf("Passed: %d  Failed: %d\n", tr.successCount, tr.errorCount)
	for _, e := range tr.errors {
		fmt.Printf("  - %s\n", e)
	}
	if tr.errorCount > 0 {
		os.Exit(1)
	}
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the running server")
	verbose := flag.Bool("v", false, "Print raw responses")
	flag.Parse()

	NewTestRunner(*baseURL, *verbose).Run()
}
