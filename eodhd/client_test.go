package eodhd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/etnz/basket/date"
	"github.com/google/go-cmp/cmp"
)

const weeklyMCD = `[
	{"date":"2024-01-01","open":1,"high":1,"low":1,"close":100,"adjusted_close":100,"volume":10},
	{"date":"2024-01-08","open":1,"high":1,"low":1,"close":110,"adjusted_close":110,"volume":10},
	{"date":"2024-01-17","open":1,"high":1,"low":1,"close":99,"adjusted_close":99,"volume":10}
]`

const fundamentalsMCD = `{"General":{"Code":"MCD","Type":"Common Stock","Name":"McDonald's Corporation","Exchange":"NYSE"}}`

func testClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient("test-key",
		WithBaseURL(srv.URL),
		WithCacheDir(t.TempDir()),
		WithRetry(3, time.Millisecond),
	)
}

func TestFetchWeekly(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/eod/MCD.US" || q.Get("period") != "w" || q.Get("api_token") != "test-key" || q.Get("from") != "2024-01-01" {
			http.Error(w, "unexpected request "+r.URL.String(), http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, weeklyMCD)
	}))

	r, err := date.ParseRange("2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatal(err)
	}
	prices, err := c.FetchWeekly(context.Background(), "MCD.US", r)
	if err != nil {
		t.Fatalf("FetchWeekly() error = %v", err)
	}
	type point struct {
		Day   string
		Value float64
	}
	var got []point
	for day, v := range prices.Values() {
		got = append(got, point{day.String(), v})
	}
	// the last point was on a Wednesday
	want := []point{{"2024-01-01", 100}, {"2024-01-08", 110}, {"2024-01-15", 99}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FetchWeekly() mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchWeeklyIgnoresPointsOutsideRange(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, weeklyMCD)
	}))
	r, err := date.ParseRange("2024-01-02", "2024-01-16")
	if err != nil {
		t.Fatal(err)
	}
	prices, err := c.FetchWeekly(context.Background(), "MCD.US", r)
	if err != nil {
		t.Fatalf("FetchWeekly() error = %v", err)
	}
	var got []string
	for day := range prices.Values() {
		got = append(got, day.String())
	}
	// 2024-01-01 is before the range and 2024-01-17 after it.
	if diff := cmp.Diff([]string{"2024-01-08"}, got); diff != "" {
		t.Errorf("FetchWeekly() days mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchGeneral(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, fundamentalsMCD)
	}))
	got, err := c.FetchGeneral(context.Background(), "MCD.US")
	if err != nil {
		t.Fatalf("FetchGeneral() error = %v", err)
	}
	want := General{Name: "McDonald's Corporation", Category: "Common Stock"}
	if got != want {
		t.Errorf("FetchGeneral() = %+v want %+v", got, want)
	}
}

func TestFetchGeneralWithoutName(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"General":{"Code":"MCD"}}`)
	}))
	if _, err := c.FetchGeneral(context.Background(), "MCD.US"); err == nil {
		t.Error("FetchGeneral() without a name must fail")
	}
}

func TestDailyCache(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, fundamentalsMCD)
	}))
	for range 3 {
		if _, err := c.FetchGeneral(context.Background(), "MCD.US"); err != nil {
			t.Fatalf("FetchGeneral() error = %v", err)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server called %d times want 1", got)
	}
}

func TestRetryTemporaryFailure(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, fundamentalsMCD)
	}))
	if _, err := c.FetchGeneral(context.Background(), "MCD.US"); err != nil {
		t.Fatalf("FetchGeneral() error = %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server called %d times want 3", got)
	}
}

func TestPermanentFailure(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	_, err := c.FetchGeneral(context.Background(), "NOPE.US")
	var status *StatusError
	if !errors.As(err, &status) || status.StatusCode != http.StatusNotFound {
		t.Fatalf("FetchGeneral() error = %v want a 404 StatusError", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server called %d times want 1", got)
	}
}

func TestStatusErrorHidesToken(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	_, err := c.Search(context.Background(), "mcdonalds")
	if err == nil {
		t.Fatal("Search() must fail")
	}
	if got := err.Error(); strings.Contains(got, "test-key") {
		t.Errorf("error message leaks the api token: %s", got)
	}
}
