package basket

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewRatings(t *testing.T) {
	testCases := []struct {
		name    string
		rows    []AssetRating
		wantErr bool
	}{
		{"valid", []AssetRating{{Ticker: "A", Rating: 1}, {Ticker: "B", Rating: 2}}, false},
		{"empty", nil, false},
		{"duplicate", []AssetRating{{Ticker: "A", Rating: 1}, {Ticker: "A", Rating: 2}}, true},
		{"no ticker", []AssetRating{{Rating: 1}}, true},
		{"NaN rating", []AssetRating{{Ticker: "A", Rating: math.NaN()}}, true},
		{"infinite rating", []AssetRating{{Ticker: "A", Rating: math.Inf(1)}}, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRatings(tc.rows)
			if (err != nil) != tc.wantErr {
				t.Errorf("NewRatings() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestRatingsLookup(t *testing.T) {
	r := scenarioRatings()
	row, ok := r.Lookup("C")
	if !ok || row.Name != "Gamma" || row.Rating != 7 {
		t.Errorf("Lookup(C) = %+v, %v", row, ok)
	}
	if _, ok := r.Lookup("Z"); ok {
		t.Error("Lookup(Z) want false")
	}
	if diff := cmp.Diff([]string{"A", "B", "C", "D", "E"}, r.Tickers()); diff != "" {
		t.Errorf("Tickers() mismatch (-want +got):\n%s", diff)
	}
}

func TestRatingsBounds(t *testing.T) {
	lo, hi, ok := scenarioRatings().Bounds()
	if !ok || lo != 5 || hi != 9 {
		t.Errorf("Bounds() = %v, %v, %v want 5, 9, true", lo, hi, ok)
	}
	if _, _, ok := (Ratings{}).Bounds(); ok {
		t.Error("Bounds() of an empty table want false")
	}
}
