package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/etnz/basket"
	"github.com/etnz/basket/date"
)

// header maps column names to their position.
type header map[string]int

func newHeader(record []string) header {
	h := make(header, len(record))
	for i, name := range record {
		// spreadsheets like to add a BOM to the first cell.
		name = strings.TrimPrefix(strings.TrimSpace(name), "\ufeff")
		h[name] = i
	}
	return h
}

// get returns the cell of column name, or "" if the column is absent.
func (h header) get(record []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// parseFloat parses a number. An empty cell is NaN.
func parseFloat(cell string) (float64, error) {
	if cell == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(cell, 64)
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ReadRatings decodes a rating table.
func ReadRatings(r io.Reader, s Schema) (basket.Ratings, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	first, err := reader.Read()
	if err != nil {
		return basket.Ratings{}, fmt.Errorf("cannot read ratings header: %w", err)
	}
	h := newHeader(first)
	for _, name := range []string{s.Ticker, s.Rating} {
		if _, ok := h[name]; !ok {
			return basket.Ratings{}, fmt.Errorf("ratings have no %q column", name)
		}
	}

	var rows []basket.AssetRating
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return basket.Ratings{}, fmt.Errorf("cannot read ratings: %w", err)
		}
		ticker := h.get(record, s.Ticker)
		if ticker == "" {
			continue // blank line
		}
		rating, err := parseFloat(h.get(record, s.Rating))
		if err != nil {
			return basket.Ratings{}, fmt.Errorf("ratings line %d: invalid rating for %s: %w", line, ticker, err)
		}
		rows = append(rows, basket.AssetRating{
			Ticker:   ticker,
			Name:     h.get(record, s.Name),
			Category: h.get(record, s.Category),
			Rating:   rating,
		})
	}
	return basket.NewRatings(rows)
}

// WriteRatings encodes a rating table.
func WriteRatings(w io.Writer, s Schema, ratings basket.Ratings) error {
	writer := csv.NewWriter(w)
	columns := []string{s.Ticker, s.Rating}
	if s.Name != "" {
		columns = append(columns, s.Name)
	}
	if s.Category != "" {
		columns = append(columns, s.Category)
	}
	if err := writer.Write(columns); err != nil {
		return err
	}
	for _, row := range ratings.Rows() {
		record := []string{row.Ticker, formatFloat(row.Rating)}
		if s.Name != "" {
			record = append(record, row.Name)
		}
		if s.Category != "" {
			record = append(record, row.Category)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ReadReturns decodes a returns table: one date column and one column per ticker.
//
// Rows are sorted by date. Empty cells are missing observations.
func ReadReturns(r io.Reader, s Schema) (*basket.ReturnsMatrix, error) {
	reader := csv.NewReader(r)
	first, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read returns header: %w", err)
	}
	h := newHeader(first)
	if _, ok := h[s.Date]; !ok {
		return nil, fmt.Errorf("returns have no %q column", s.Date)
	}
	type column struct {
		ticker string
		pos    int
	}
	var columns []column
	for i, name := range first {
		if ticker, ok := s.TickerOf(strings.TrimSpace(name)); ok && i != h[s.Date] {
			columns = append(columns, column{ticker, i})
		}
	}

	type row struct {
		on     date.Date
		values []float64
	}
	var rows []row
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read returns: %w", err)
		}
		on, err := date.Parse(h.get(record, s.Date))
		if err != nil {
			return nil, fmt.Errorf("returns line %d: %w", line, err)
		}
		values := make([]float64, len(columns))
		for j, c := range columns {
			if values[j], err = parseFloat(strings.TrimSpace(record[c.pos])); err != nil {
				return nil, fmt.Errorf("returns line %d: invalid return for %s: %w", line, c.ticker, err)
			}
		}
		rows = append(rows, row{on, values})
	}
	slices.SortStableFunc(rows, func(a, b row) int { return a.on.Compare(b.on) })

	dates := make([]date.Date, len(rows))
	for i, r := range rows {
		dates[i] = r.on
	}
	m, err := basket.NewReturnsMatrix(dates)
	if err != nil {
		return nil, err
	}
	for j, c := range columns {
		values := make([]float64, len(rows))
		for i, r := range rows {
			values[i] = r.values[j]
		}
		if err := m.AddColumn(c.ticker, values); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// WriteReturns encodes a returns table.
func WriteReturns(w io.Writer, s Schema, m *basket.ReturnsMatrix) error {
	writer := csv.NewWriter(w)
	tickers := m.Tickers()
	columns := make([]string, 0, len(tickers)+1)
	columns = append(columns, s.Date)
	for _, ticker := range tickers {
		columns = append(columns, s.Column(ticker))
	}
	if err := writer.Write(columns); err != nil {
		return err
	}
	for i, on := range m.Dates() {
		record := make([]string, 0, len(columns))
		record = append(record, on.String())
		for _, ticker := range tickers {
			v, ok := m.At(ticker, i)
			if !ok {
				v = math.NaN()
			}
			record = append(record, formatFloat(v))
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// CSV stores a snapshot in two CSV files.
type CSV struct {
	RatingsPath string
	ReturnsPath string
	Schema      Schema
}

// NewCSV returns a CSV store of the files "ratings.csv" and "returns.csv" in dir.
func NewCSV(dir string, s Schema) *CSV {
	return &CSV{
		RatingsPath: filepath.Join(dir, "ratings.csv"),
		ReturnsPath: filepath.Join(dir, "returns.csv"),
		Schema:      s,
	}
}

// LoadRatings reads only the rating table, it is the input of an update cycle.
func (c *CSV) LoadRatings() (basket.Ratings, error) {
	f, err := os.Open(c.RatingsPath)
	if err != nil {
		return basket.Ratings{}, err
	}
	defer f.Close()
	ratings, err := ReadRatings(f, c.Schema)
	if err != nil {
		return basket.Ratings{}, fmt.Errorf("%s: %w", c.RatingsPath, err)
	}
	return ratings, nil
}

// Load implements Store.
func (c *CSV) Load(ctx context.Context) (Snapshot, error) {
	ratings, err := c.LoadRatings()
	if err != nil {
		return Snapshot{}, err
	}
	f, err := os.Open(c.ReturnsPath)
	if err != nil {
		return Snapshot{}, err
	}
	defer f.Close()
	returns, err := ReadReturns(f, c.Schema)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%s: %w", c.ReturnsPath, err)
	}
	return Snapshot{Ratings: ratings, Returns: returns}, nil
}

// Save implements Store. Files are replaced atomically.
func (c *CSV) Save(ctx context.Context, s Snapshot) error {
	if s.Returns == nil {
		return errors.New("cannot save a snapshot without returns")
	}
	err := writeFile(c.RatingsPath, func(w io.Writer) error { return WriteRatings(w, c.Schema, s.Ratings) })
	if err != nil {
		return err
	}
	return writeFile(c.ReturnsPath, func(w io.Writer) error { return WriteReturns(w, c.Schema, s.Returns) })
}

// writeFile writes to a temporary file and renames it to name.
func writeFile(name string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(name), filepath.Base(name)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("cannot write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), name)
}
