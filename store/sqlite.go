package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/etnz/basket"
	"github.com/etnz/basket/date"
	_ "modernc.org/sqlite" // pure Go driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS ratings (
	position INTEGER NOT NULL,
	ticker   TEXT PRIMARY KEY,
	name     TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT '',
	rating   REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS returns_columns (
	position INTEGER NOT NULL,
	ticker   TEXT PRIMARY KEY
);
CREATE TABLE IF NOT EXISTS returns (
	day    TEXT NOT NULL,
	ticker TEXT NOT NULL,
	value  REAL,
	PRIMARY KEY (day, ticker)
);
`

// SQLite stores a snapshot in a single SQLite database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens the database at path, creating it if needed.
func OpenSQLite(path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a memory database exists per connection.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the database.
func (s *SQLite) Close() error { return s.db.Close() }

// Save implements Store. The previous snapshot is replaced.
func (s *SQLite) Save(ctx context.Context, snap Snapshot) (err error) {
	if snap.Returns == nil {
		return errors.New("cannot save a snapshot without returns")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	for _, table := range []string{"ratings", "returns_columns", "returns"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	for i, row := range snap.Ratings.Rows() {
		_, err = tx.ExecContext(ctx, `INSERT INTO ratings(position, ticker, name, category, rating) VALUES(?,?,?,?,?)`,
			i, row.Ticker, row.Name, row.Category, row.Rating)
		if err != nil {
			return fmt.Errorf("cannot save rating of %s: %w", row.Ticker, err)
		}
	}

	dates := snap.Returns.Dates()
	for j, ticker := range snap.Returns.Tickers() {
		if _, err = tx.ExecContext(ctx, `INSERT INTO returns_columns(position, ticker) VALUES(?,?)`, j, ticker); err != nil {
			return err
		}
		for i, on := range dates {
			var value sql.NullFloat64
			if v, ok := snap.Returns.At(ticker, i); ok {
				value = sql.NullFloat64{Float64: v, Valid: true}
			}
			_, err = tx.ExecContext(ctx, `INSERT INTO returns(day, ticker, value) VALUES(?,?,?)`, on.String(), ticker, value)
			if err != nil {
				return fmt.Errorf("cannot save return of %s on %s: %w", ticker, on, err)
			}
		}
	}
	return tx.Commit()
}

// Load implements Store.
func (s *SQLite) Load(ctx context.Context) (Snapshot, error) {
	ratings, err := s.loadRatings(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	returns, err := s.loadReturns(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Ratings: ratings, Returns: returns}, nil
}

func (s *SQLite) loadRatings(ctx context.Context) (basket.Ratings, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT ticker, name, category, rating FROM ratings ORDER BY position`)
	if err != nil {
		return basket.Ratings{}, err
	}
	defer rows.Close()
	var list []basket.AssetRating
	for rows.Next() {
		var r basket.AssetRating
		if err := rows.Scan(&r.Ticker, &r.Name, &r.Category, &r.Rating); err != nil {
			return basket.Ratings{}, err
		}
		list = append(list, r)
	}
	if err := rows.Err(); err != nil {
		return basket.Ratings{}, err
	}
	return basket.NewRatings(list)
}

func (s *SQLite) loadReturns(ctx context.Context) (*basket.ReturnsMatrix, error) {
	var tickers []string
	rows, err := s.db.QueryContext(ctx, `SELECT ticker FROM returns_columns ORDER BY position`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var ticker string
		if err := rows.Scan(&ticker); err != nil {
			rows.Close()
			return nil, err
		}
		tickers = append(tickers, ticker)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(tickers) == 0 {
		return nil, errors.New("no returns saved")
	}

	rows, err = s.db.QueryContext(ctx, `SELECT day, ticker, value FROM returns ORDER BY day`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var dates []date.Date
	series := make(map[string]map[date.Date]float64, len(tickers))
	for rows.Next() {
		var (
			day, ticker string
			value       sql.NullFloat64
		)
		if err := rows.Scan(&day, &ticker, &value); err != nil {
			return nil, err
		}
		on, err := date.Parse(day)
		if err != nil {
			return nil, err
		}
		if len(dates) == 0 || dates[len(dates)-1] != on {
			dates = append(dates, on)
		}
		if series[ticker] == nil {
			series[ticker] = make(map[date.Date]float64)
		}
		if value.Valid {
			series[ticker][on] = value.Float64
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	m, err := basket.NewReturnsMatrix(dates)
	if err != nil {
		return nil, err
	}
	for _, ticker := range tickers {
		values := make([]float64, len(dates))
		for i, on := range dates {
			v, ok := series[ticker][on]
			if !ok {
				v = math.NaN()
			}
			values[i] = v
		}
		if err := m.AddColumn(ticker, values); err != nil {
			return nil, err
		}
	}
	return m, nil
}
