package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/etnz/basket"
	"github.com/etnz/basket/date"
	"github.com/etnz/basket/store"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	ratings := basket.MustRatings(
		basket.AssetRating{Ticker: "A", Name: "Alpha", Rating: 9},
		basket.AssetRating{Ticker: "B", Name: "Beta", Rating: 8},
		basket.AssetRating{Ticker: "C", Name: "Gamma", Rating: 7},
		basket.AssetRating{Ticker: "D", Name: "Delta", Rating: 2},
	)
	dates := []date.Date{date.New(2024, 1, 1), date.New(2024, 1, 8), date.New(2024, 1, 15), date.New(2024, 1, 22)}
	returns, err := basket.NewReturnsMatrix(dates)
	if err != nil {
		t.Fatal(err)
	}
	for _, ticker := range []string{"A", "B", "D"} {
		if err := returns.AddColumn(ticker, []float64{0, 0.05, 0.025, -0.01}); err != nil {
			t.Fatal(err)
		}
	}
	s := New(Config{
		Log:      zerolog.Nop(),
		Snapshot: store.Snapshot{Ratings: ratings, Returns: returns},
		Currency: "USD",
	})
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, data any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(data); err != nil {
		t.Fatalf("cannot decode %s: %v", url, err)
	}
	return resp.StatusCode
}

func postJSON(t *testing.T, url, body string, data any) int {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(data); err != nil {
		t.Fatalf("cannot decode %s: %v", url, err)
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	srv := testServer(t)
	var got map[string]any
	if status := getJSON(t, srv.URL+"/health", &got); status != http.StatusOK {
		t.Fatalf("GET /health = %d", status)
	}
	if got["status"] != "ok" || got["assets"] != 4.0 || got["weeks"] != 4.0 {
		t.Errorf("GET /health = %v", got)
	}
}

func TestAssets(t *testing.T) {
	srv := testServer(t)
	var got assetsResponse
	if status := getJSON(t, srv.URL+"/api/assets", &got); status != http.StatusOK {
		t.Fatalf("GET /api/assets = %d", status)
	}
	if len(got.Assets) != 4 || got.MinRating != 2 || got.MaxRating != 9 {
		t.Errorf("GET /api/assets = %+v", got)
	}
}

func TestStats(t *testing.T) {
	srv := testServer(t)
	var got []basket.Summary
	if status := getJSON(t, srv.URL+"/api/stats", &got); status != http.StatusOK {
		t.Fatalf("GET /api/stats = %d", status)
	}
	if len(got) != 3 || got[0].Ticker != "A" || got[0].Count != 4 {
		t.Errorf("GET /api/stats = %+v", got)
	}
}

func TestEligible(t *testing.T) {
	srv := testServer(t)
	var got eligibleResponse
	if status := getJSON(t, srv.URL+"/api/eligible?min_rating=7", &got); status != http.StatusOK {
		t.Fatalf("GET /api/eligible = %d", status)
	}
	// C is rated 7 but has no returns.
	if diff := cmp.Diff([]string{"A", "B"}, got.Tickers); diff != "" {
		t.Errorf("GET /api/eligible mismatch (-want +got):\n%s", diff)
	}

	var e errorResponse
	if status := getJSON(t, srv.URL+"/api/eligible?min_rating=8.5&size=2", &e); status != http.StatusUnprocessableEntity {
		t.Errorf("GET /api/eligible = %d want 422", status)
	}
	if e.Kind != "insufficient_candidates" {
		t.Errorf("error kind = %q want insufficient_candidates", e.Kind)
	}
}

func TestEligibleRejectsNonFiniteThreshold(t *testing.T) {
	srv := testServer(t)
	for _, v := range []string{"NaN", "Inf", "-Inf"} {
		var e errorResponse
		if status := getJSON(t, srv.URL+"/api/eligible?size=0&min_rating="+v, &e); status != http.StatusBadRequest {
			t.Errorf("GET /api/eligible?min_rating=%s = %d want 400", v, status)
		}
		if e.Error == "" {
			t.Errorf("GET /api/eligible?min_rating=%s has no error message", v)
		}
	}
}

func TestPortfolio(t *testing.T) {
	srv := testServer(t)
	var got portfolioResponse
	status := postJSON(t, srv.URL+"/api/portfolio", `{"investment":1000,"min_rating":8,"size":2}`, &got)
	if status != http.StatusOK {
		t.Fatalf("POST /api/portfolio = %d", status)
	}
	if diff := cmp.Diff([]string{"A", "B"}, got.Result.Selected); diff != "" {
		t.Errorf("selected mismatch (-want +got):\n%s", diff)
	}
	want := []float64{1000, 1050, 1076.25, 1065.4875}
	if diff := cmp.Diff(want, got.Result.Values, cmp.Comparer(func(a, b float64) bool { return a-b < 1e-9 && b-a < 1e-9 })); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
	if len(got.Breakdown) != 2 || !strings.Contains(got.Report, "## Breakdown") {
		t.Errorf("POST /api/portfolio breakdown = %v report = %q", got.Breakdown, got.Report)
	}
}

func TestPortfolioErrors(t *testing.T) {
	srv := testServer(t)
	testCases := []struct {
		name   string
		body   string
		status int
		kind   string
	}{
		{"bad json", `{"investment":`, http.StatusBadRequest, ""},
		{"no investment", `{"size":2}`, http.StatusUnprocessableEntity, "invalid_request"},
		{"no size", `{"investment":100}`, http.StatusUnprocessableEntity, "invalid_request"},
		{"too few", `{"investment":100,"min_rating":9,"size":2}`, http.StatusUnprocessableEntity, "insufficient_candidates"},
		{"unrated", `{"investment":100,"size":1,"candidates":["Z"]}`, http.StatusUnprocessableEntity, "missing_rating"},
		{"only two with returns", `{"investment":100,"min_rating":7,"size":3}`, http.StatusUnprocessableEntity, "insufficient_candidates"},
		{"no returns", `{"investment":100,"size":1,"candidates":["C"]}`, http.StatusUnprocessableEntity, "missing_returns"},
		{"below threshold", `{"investment":100,"min_rating":5,"size":1,"candidates":["D"]}`, http.StatusUnprocessableEntity, "invalid_request"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var e errorResponse
			if status := postJSON(t, srv.URL+"/api/portfolio", tc.body, &e); status != tc.status {
				t.Errorf("POST /api/portfolio = %d want %d (%s)", status, tc.status, e.Error)
			}
			if e.Kind != tc.kind {
				t.Errorf("error kind = %q want %q", e.Kind, tc.kind)
			}
		})
	}
}

func TestCharts(t *testing.T) {
	srv := testServer(t)
	for _, path := range []string{"/api/portfolio/value.png", "/api/portfolio/allocation.png"} {
		resp, err := http.Get(srv.URL + path + "?investment=1000&min_rating=8&size=2")
		if err != nil {
			t.Fatal(err)
		}
		var buf bytes.Buffer
		buf.ReadFrom(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/png" {
			t.Errorf("GET %s = %d %s", path, resp.StatusCode, resp.Header.Get("Content-Type"))
		}
		if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
			t.Errorf("GET %s is not a PNG image", path)
		}
	}
}
