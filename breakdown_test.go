package basket

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBreakdown(t *testing.T) {
	ratings := scenarioRatings()
	returns := scenarioMatrix(t)
	r, err := Construct(ratings, returns, Request{Investment: 2400, MinRating: 6, Size: 3, Candidates: []string{"A", "B", "C", "D"}})
	if err != nil {
		t.Fatalf("Construct() error = %v", err)
	}

	allocs := Breakdown(ratings, r, "EUR")
	if len(allocs) != 3 {
		t.Fatalf("Breakdown() = %v want 3 allocations", allocs)
	}
	want := []struct {
		ticker, name string
		amount       Money
	}{
		{"A", "Alpha", M(900, "EUR")},
		{"B", "Beta", M(800, "EUR")},
		{"C", "Gamma", M(700, "EUR")},
	}
	total := M(0, "EUR")
	for i, w := range want {
		got := allocs[i]
		if got.Ticker != w.ticker || got.Name != w.name {
			t.Errorf("Breakdown()[%d] = %s %s want %s %s", i, got.Ticker, got.Name, w.ticker, w.name)
		}
		if got.Amount.String() != w.amount.String() {
			t.Errorf("Breakdown()[%d].Amount = %v want %v", i, got.Amount, w.amount)
		}
		total = total.Add(got.Amount)
	}
	if total.String() != M(2400, "EUR").String() {
		t.Errorf("total allocated = %v want 2400", total)
	}
}

func TestBreakdownAmountsSumToInvestment(t *testing.T) {
	ratings := MustRatings(
		AssetRating{Ticker: "A", Rating: 1},
		AssetRating{Ticker: "B", Rating: 1},
		AssetRating{Ticker: "C", Rating: 1},
	)
	r := Result{
		Selected: []string{"A", "B", "C"},
		Weights:  map[string]float64{"A": 1.0 / 3, "B": 1.0 / 3, "C": 1.0 / 3},
		Values:   []float64{100},
	}
	allocs := Breakdown(ratings, r, "USD")
	var got []string
	total := M(0, "USD")
	for _, a := range allocs {
		got = append(got, a.Amount.String())
		total = total.Add(a.Amount)
	}
	if diff := cmp.Diff([]string{"$33.33", "$33.33", "$33.34"}, got); diff != "" {
		t.Errorf("Breakdown() amounts mismatch (-want +got):\n%s", diff)
	}
	if total.String() != "$100.00" {
		t.Errorf("total allocated = %v want $100.00", total)
	}
}

func TestBreakdownEmptyResult(t *testing.T) {
	if got := Breakdown(scenarioRatings(), Result{}, "EUR"); got != nil {
		t.Errorf("Breakdown(Result{}) = %v want nil", got)
	}
}

func TestTotalReturn(t *testing.T) {
	r := Result{Values: []float64{1000, 1100, 1250}}
	if got := r.TotalReturn(); !got.Equal(25) {
		t.Errorf("TotalReturn() = %v want 25%%", got)
	}
	if got := r.Final(); got != 1250 {
		t.Errorf("Final() = %v want 1250", got)
	}
}

func TestMoney(t *testing.T) {
	testCases := []struct {
		m    Money
		want string
	}{
		{M(1234.5, "USD"), "$1,234.50"},
		{M(10, "USD"), "$10.00"},
		{M(0.125, "USD").Scale(2), "$0.25"},
	}
	for _, tc := range testCases {
		if got := tc.m.String(); got != tc.want {
			t.Errorf("Money.String() = %q want %q", got, tc.want)
		}
	}

	data, err := json.Marshal(M(12.345, "EUR"))
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if string(data) != `{"currency":"EUR","amount":"12.35"}` {
		t.Errorf("json.Marshal(Money) = %s", data)
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(12.345).String(); got != "12.35%" {
		t.Errorf("Percent.String() = %q", got)
	}
	if got := Percent(-1.5).SignedString(); got != "-1.50%" {
		t.Errorf("Percent.SignedString() = %q", got)
	}
	if got := Percent(0).SignedString(); got != "-" {
		t.Errorf("Percent(0).SignedString() = %q want -", got)
	}
}
