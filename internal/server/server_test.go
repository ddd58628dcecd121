package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"investcharts/internal/config"
	"investcharts/internal/storage"
)

const testDatasetJSON = `{
  "wallets": [{
    "id": "etf",
    "name": "ETF",
    "currency": "PLN",
    "riskLevel": "High",
    "snapshots": [
      {"date": "2024-01-31", "portfolioValue": "1000", "monthlyDeposit": "1000"},
      {"date": "2024-02-29", "portfolioValue": "2100", "monthlyDeposit": "1000"},
      {"date": "2024-03-31", "portfolioValue": "3300", "monthlyDeposit": "1000"}
    ]
  }],
  "budgetEntries": [
    {"date": "2024-01-10", "category": "Salary", "type": "Income", "value": "8000"},
    {"date": "2024-02-03", "category": "Rent", "type": "Expense", "value": "3000"}
  ],
  "fireTarget": "1000000",
  "monthlySavings": "1500",
  "years": 2,
  "notes": "# Plan"
}`

const testDatasetTOML = `
fire_target = "1000000"
monthly_savings = "1500"
years = 2

[[wallets]]
id = "etf"
name = "ETF"
currency = "PLN"
risk_level = "High"

  [[wallets.snapshots]]
  date = "2024-01-31"
  portfolio_value = "1000"
  monthly_deposit = "1000"

  [[wallets.snapshots]]
  date = "2024-02-29"
  portfolio_value = "2100"
  monthly_deposit = "1000"
`

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	dir := t.TempDir()
	cfg := &config.Config{
		Port:            "0",
		DeploymentMode:  "local",
		LocalOutputDir:  dir,
		FireTarget:      500000,
		Inflation:       0.03,
		ProjectionYears: 5,
		ChartWidth:      600,
		ChartHeight:     300,
	}
	client, err := storage.NewLocalStorageClient(dir)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	s := NewServer(cfg, client)
	s.Now = func() time.Time { return time.Date(2024, time.April, 1, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { s.Close() })
	return s
}

func serve(s *Server, method, target, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)
	rec := serve(s, http.MethodGet, "/health", "", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("Expected healthy status, got %v", body["status"])
	}
	if body["timestamp"] != "2024-04-01T12:00:00Z" {
		t.Errorf("Unexpected timestamp %v", body["timestamp"])
	}
}

func TestHandleScenario(t *testing.T) {
	s := newTestServer(t)
	rec := serve(s, http.MethodPost, "/scenario", "application/json",
		`{"monthlyInvestment": 1000, "monthlySavings": 1100}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp ScenarioResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if resp.Amounts.Plus20.Invested != 1100 || resp.Amounts.Plus20.NotInvested != 0 {
		t.Errorf("Expected clamped +20%% scenario, got %+v", resp.Amounts.Plus20)
	}
	if resp.Amounts.Current.NotInvested != 100 || resp.Amounts.DepositsOnly != 1100 {
		t.Errorf("Unexpected amounts %+v", resp.Amounts)
	}
	if resp.Labels.Plus20 != "+20% (1100 invested, 0 not invested)" {
		t.Errorf("Unexpected label %q", resp.Labels.Plus20)
	}
}

func TestHandleScenarioBadRequest(t *testing.T) {
	s := newTestServer(t)
	for _, body := range []string{`{`, `{"monthlyInvestment": "a lot"}`, `{"unknown": 1}`} {
		rec := serve(s, http.MethodPost, "/scenario", "application/json", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Body %s: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestHandleChart(t *testing.T) {
	s := newTestServer(t)

	t.Run("png", func(t *testing.T) {
		rec := serve(s, http.MethodPost, "/charts/wallet-balance-etf?format=png", "application/json", testDatasetJSON)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
			t.Errorf("Expected image/png, got %s", ct)
		}
		if !bytes.HasPrefix(rec.Body.Bytes(), pngMagic) {
			t.Error("Response is not a PNG image")
		}
	})

	t.Run("html", func(t *testing.T) {
		rec := serve(s, http.MethodPost, "/charts/fire-projection", "application/json", testDatasetJSON)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		body := rec.Body.String()
		for _, want := range []string{"<!DOCTYPE html>", "echarts.init", "Only deposits (1500 saved)"} {
			if !strings.Contains(body, want) {
				t.Errorf("Page missing %q", want)
			}
		}
	})

	t.Run("portfolio range", func(t *testing.T) {
		rec := serve(s, http.MethodPost, "/charts/portfolio-balance?format=png&range=all", "application/json", testDatasetJSON)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !bytes.HasPrefix(rec.Body.Bytes(), pngMagic) {
			t.Error("Response is not a PNG image")
		}
	})

	t.Run("single snapshot", func(t *testing.T) {
		body := `{"wallets": [{"id": "solo", "name": "Solo", "currency": "PLN",
			"snapshots": [{"date": "2024-03-31", "portfolioValue": "500", "monthlyDeposit": "500"}]}]}`
		rec := serve(s, http.MethodPost, "/charts/wallet-balance-solo?format=png", "application/json", body)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !bytes.HasPrefix(rec.Body.Bytes(), pngMagic) {
			t.Error("Response is not a PNG image")
		}
	})

	t.Run("toml", func(t *testing.T) {
		rec := serve(s, http.MethodPost, "/charts/wallet-earnings-etf?format=png", "application/toml", testDatasetTOML)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})
}

func TestHandleChartErrors(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name   string
		target string
		body   string
		status int
	}{
		{"unknown chart", "/charts/nope", testDatasetJSON, http.StatusNotFound},
		{"bad format", "/charts/fire-projection?format=svg", testDatasetJSON, http.StatusBadRequest},
		{"empty body", "/charts/fire-projection", "", http.StatusBadRequest},
		{"malformed body", "/charts/fire-projection", `{"wallets": 3}`, http.StatusBadRequest},
		{"bad range", "/charts/portfolio-balance?range=2W", testDatasetJSON, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(s, http.MethodPost, tt.target, "application/json", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("Expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Expected JSON error body, got %s", ct)
			}
		})
	}
}

func TestHandleDashboardAndFiles(t *testing.T) {
	s := newTestServer(t)

	rec := serve(s, http.MethodGet, "/", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "No dashboards yet") {
		t.Fatalf("Expected initial page, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = serve(s, http.MethodPost, "/dashboard?title=My+plan", "application/json", testDatasetJSON)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp DashboardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	wantFolder := "2024/04/01/Dashboard-2024-04-01-12-00-00"
	if resp.Folder != wantFolder {
		t.Errorf("Expected folder %s, got %s", wantFolder, resp.Folder)
	}
	if resp.URL != "/files/"+wantFolder+"/index.html" {
		t.Errorf("Unexpected URL %s", resp.URL)
	}
	if len(resp.Files) < 3 {
		t.Errorf("Expected page, images and data to be stored, got %v", resp.Files)
	}

	rec = serve(s, http.MethodGet, resp.URL, "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 for stored page, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html" {
		t.Errorf("Expected text/html, got %s", ct)
	}
	if !strings.Contains(rec.Body.String(), "My plan") {
		t.Error("Stored page missing title")
	}

	rec = serve(s, http.MethodGet, "/files/"+wantFolder+"/dashboard.json", "", "")
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Expected dashboard.json, got %d %s", rec.Code, rec.Header().Get("Content-Type"))
	}

	rec = serve(s, http.MethodGet, "/", "", "")
	if rec.Code != http.StatusFound {
		t.Fatalf("Expected redirect, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != resp.URL {
		t.Errorf("Expected redirect to %s, got %s", resp.URL, loc)
	}

	rec = serve(s, http.MethodGet, "/dashboards?limit=500", "", "")
	var list struct {
		Dashboards []string `json:"dashboards"`
		Count      int      `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("Failed to decode list: %v", err)
	}
	if list.Count != 1 || list.Dashboards[0] != wantFolder {
		t.Errorf("Unexpected dashboard list %+v", list)
	}
}

func TestHandleDashboardSameSecond(t *testing.T) {
	s := newTestServer(t)
	base := "2024/04/01/Dashboard-2024-04-01-12-00-00"

	var folders []string
	for i := 0; i < 2; i++ {
		rec := serve(s, http.MethodPost, "/dashboard?range=ytd", "application/json", testDatasetJSON)
		if rec.Code != http.StatusCreated {
			t.Fatalf("request %d: expected 201, got %d: %s", i, rec.Code, rec.Body.String())
		}
		var resp DashboardResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Failed to decode body: %v", err)
		}
		folders = append(folders, resp.Folder)
	}
	if folders[0] != base || folders[1] != base+"-2" {
		t.Fatalf("Expected %s and %s-2, got %v", base, base, folders)
	}

	latest, err := s.latestDashboards(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(latest) != 1 || latest[0] != base+"-2" {
		t.Errorf("Expected the second dashboard first, got %v", latest)
	}
}

func TestHandleDashboardBadRange(t *testing.T) {
	s := newTestServer(t)
	rec := serve(s, http.MethodPost, "/dashboard?range=forever", "application/json", testDatasetJSON)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleDashboardBusy(t *testing.T) {
	s := newTestServer(t)
	s.generateMutex.Lock()
	defer s.generateMutex.Unlock()

	rec := serve(s, http.MethodPost, "/dashboard", "application/json", testDatasetJSON)
	if rec.Code != http.StatusConflict {
		t.Fatalf("Expected 409, got %d", rec.Code)
	}
}

func TestHandleFileProxyErrors(t *testing.T) {
	s := newTestServer(t)

	rec := serve(s, http.MethodGet, "/files/2024/01/01/missing.html", "", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}

	rec = serve(s, http.MethodGet, "/files/a/../../secret", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for traversal, got %d", rec.Code)
	}
}

func TestLatestDashboardsOrder(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	for _, folder := range []string{
		"2024/01/05/Dashboard-2024-01-05-10-00-00",
		"2024/03/01/Dashboard-2024-03-01-09-00-00",
		"2023/12/31/Dashboard-2023-12-31-23-59-59",
	} {
		if err := s.Storage.StoreFile(ctx, folder+"/index.html", []byte("x")); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Storage.StoreFile(ctx, "index.html", []byte("x")); err != nil {
		t.Fatal(err)
	}

	got, err := s.latestDashboards(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"2024/03/01/Dashboard-2024-03-01-09-00-00", "2024/01/05/Dashboard-2024-01-05-10-00-00"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Expected %v, got %v", want, got)
	}
}
