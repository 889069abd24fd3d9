package basket

import (
	"fmt"
	"math"
	"slices"

	"github.com/etnz/basket/date"
)

// ReturnsMatrix holds the fractional weekly return of every asset of the universe.
//
// Rows are weeks in chronological order, without duplicates. Columns are
// tickers in universe order. A missing observation is stored as NaN: it is
// reported by At and read as a zero return by Return.
type ReturnsMatrix struct {
	dates   []date.Date
	tickers []string
	columns map[string][]float64
}

// NewReturnsMatrix returns an empty matrix indexed by dates.
//
// Dates must be strictly increasing.
func NewReturnsMatrix(dates []date.Date) (*ReturnsMatrix, error) {
	for i := 1; i < len(dates); i++ {
		if !dates[i-1].Before(dates[i]) {
			return nil, fmt.Errorf("returns dates must be strictly increasing: %v then %v at row %d", dates[i-1], dates[i], i)
		}
	}
	return &ReturnsMatrix{
		dates:   slices.Clone(dates),
		columns: make(map[string][]float64),
	}, nil
}

// AddColumn appends the returns of ticker. There must be one value per row,
// NaN for a missing observation.
func (m *ReturnsMatrix) AddColumn(ticker string, values []float64) error {
	if ticker == "" {
		return fmt.Errorf("returns column has no ticker")
	}
	if _, exists := m.columns[ticker]; exists {
		return fmt.Errorf("duplicate returns column %q", ticker)
	}
	if len(values) != len(m.dates) {
		return fmt.Errorf("returns column %q has %d values, want %d", ticker, len(values), len(m.dates))
	}
	m.tickers = append(m.tickers, ticker)
	m.columns[ticker] = slices.Clone(values)
	return nil
}

// JoinReturns builds a matrix from per-ticker return series by an outer join on dates.
//
// tickers gives the column order, series[ticker] its values. Dates absent from
// a series are missing observations.
func JoinReturns(tickers []string, series map[string]*date.History[float64]) (*ReturnsMatrix, error) {
	histories := make([]*date.History[float64], 0, len(tickers))
	for _, t := range tickers {
		h, ok := series[t]
		if !ok {
			return nil, fmt.Errorf("no returns series for %q", t)
		}
		histories = append(histories, h)
	}
	var dates []date.Date
	for d := range date.Iterate(histories...) {
		dates = append(dates, d)
	}
	m, err := NewReturnsMatrix(dates)
	if err != nil {
		return nil, err
	}
	rows := make(map[date.Date]int, len(dates))
	for i, d := range dates {
		rows[d] = i
	}
	for i, t := range tickers {
		values := make([]float64, len(dates))
		for j := range values {
			values[j] = math.NaN()
		}
		for d, v := range histories[i].Values() {
			values[rows[d]] = v
		}
		if err := m.AddColumn(t, values); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Len returns the number of weeks (rows).
func (m *ReturnsMatrix) Len() int { return len(m.dates) }

// Dates returns a copy of the row index.
func (m *ReturnsMatrix) Dates() []date.Date { return slices.Clone(m.dates) }

// Tickers returns a copy of the column names in universe order.
func (m *ReturnsMatrix) Tickers() []string { return slices.Clone(m.tickers) }

// Has reports whether ticker is a column of the matrix.
func (m *ReturnsMatrix) Has(ticker string) bool {
	_, ok := m.columns[ticker]
	return ok
}

// At returns the observation of ticker at row i, and false if it is missing.
func (m *ReturnsMatrix) At(ticker string, i int) (float64, bool) {
	col, ok := m.columns[ticker]
	if !ok || i < 0 || i >= len(col) || math.IsNaN(col[i]) {
		return 0, false
	}
	return col[i], true
}

// Return returns the return of ticker at row i, a missing observation is a zero return.
func (m *ReturnsMatrix) Return(ticker string, i int) float64 {
	v, _ := m.At(ticker, i)
	return v
}

// Column returns the observed values of ticker, missing observations skipped.
func (m *ReturnsMatrix) Column(ticker string) []float64 {
	col := m.columns[ticker]
	res := make([]float64, 0, len(col))
	for _, v := range col {
		if !math.IsNaN(v) {
			res = append(res, v)
		}
	}
	return res
}
