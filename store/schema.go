// Package store persists the snapshot of an update cycle: the rating table and the returns matrix.
//
// Two stores are available: flat CSV files, compatible with the
// spreadsheets the ratings usually come from, and a single SQLite file.
package store

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/etnz/basket"
)

// Schema names the columns of the rating and returns tables.
//
// Columns are always looked up by name, never by position.
type Schema struct {
	Ticker        string // ratings: ticker column
	Rating        string // ratings: rating column
	Name          string // ratings: optional display name
	Category      string // ratings: optional asset type
	Date          string // returns: date column
	ReturnsSuffix string // returns: column of ticker T is T+ReturnsSuffix
}

// DefaultSchema is the layout of the historical flat files.
var DefaultSchema = Schema{
	Ticker:        "Ticker",
	Rating:        "Note_Environnementale",
	Name:          "Nom",
	Category:      "Type",
	Date:          "Date",
	ReturnsSuffix: "_returns",
}

// EnglishSchema uses plain english column names.
var EnglishSchema = Schema{
	Ticker:        "ticker",
	Rating:        "rating",
	Name:          "name",
	Category:      "category",
	Date:          "date",
	ReturnsSuffix: "",
}

// Column returns the name of the returns column of ticker.
func (s Schema) Column(ticker string) string { return ticker + s.ReturnsSuffix }

// TickerOf returns the ticker of a returns column, and false if the column is not a returns column.
func (s Schema) TickerOf(column string) (string, bool) {
	if column == s.Date {
		return "", false
	}
	ticker, ok := strings.CutSuffix(column, s.ReturnsSuffix)
	return ticker, ok && ticker != ""
}

// Validate checks that mandatory column names are set.
func (s Schema) Validate() error {
	if s.Ticker == "" || s.Rating == "" || s.Date == "" {
		return fmt.Errorf("schema must name the ticker, rating and date columns")
	}
	if s.Ticker == s.Rating {
		return fmt.Errorf("schema ticker and rating columns are the same: %q", s.Ticker)
	}
	return nil
}

// Schemas contains all known schemas by name.
var Schemas = map[string]Schema{
	"default": DefaultSchema,
	"english": EnglishSchema,
}

// Snapshot is the read-only data of one update cycle.
type Snapshot struct {
	Ratings basket.Ratings
	Returns *basket.ReturnsMatrix
}

// Store loads and saves snapshots.
type Store interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, s Snapshot) error
}

// Kinds lists the store kinds accepted by Open.
var Kinds = []string{"csv", "sqlite"}

// Open returns the store of kind in dir. A SQLite store must be closed by the caller.
func Open(kind, dir string, s Schema) (Store, error) {
	switch kind {
	case "csv", "":
		if err := s.Validate(); err != nil {
			return nil, err
		}
		return NewCSV(dir, s), nil
	case "sqlite":
		return OpenSQLite(filepath.Join(dir, "basket.db"))
	default:
		return nil, fmt.Errorf("unknown store %q, want one of %v", kind, Kinds)
	}
}
