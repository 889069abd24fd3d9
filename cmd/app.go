// Package cmd implements the bsk CLI application to build rating filtered baskets.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/basket/eodhd"
	"github.com/etnz/basket/store"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Register the subcommands.
func Register(c *subcommands.Commander) {
	c.Register(&updateCmd{}, "data")
	c.Register(&searchCmd{}, "data")
	c.Register(&statsCmd{}, "data")

	c.Register(&eligibleCmd{}, "basket")
	c.Register(&buildCmd{}, "basket")

	c.Register(&serveCmd{}, "server")

	c.Register(&topicCmd{}, "help")
	c.Register(c.HelpCommand(), "help")
	c.Register(c.FlagsCommand(), "help")
	c.Register(c.CommandsCommand(), "help")
}

// environment variables
const (
	envAPIKey   = "EODHD_API_KEY"
	envDataDir  = "BASKET_DATA_DIR"
	envLogLevel = "BASKET_LOG_LEVEL"
	envStore    = "BASKET_STORE"
	envAddr     = "BASKET_ADDR"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	dataDir    = flag.String("data-dir", ".basket", "Folder of the snapshot and the http cache. Overrides "+envDataDir+".")
	storeKind  = flag.String("store", "csv", "Snapshot store: "+strings.Join(store.Kinds, ", ")+". Overrides "+envStore+".")
	schemaName = flag.String("schema", "default", "Column names of the CSV files: default (Ticker, Note_Environnementale, Nom, Type, Date, <ticker>_returns) or english.")
	logLevel   = flag.String("log-level", "info", "Log level: debug, info, warn, error. Overrides "+envLogLevel+".")
	apiKey     = flag.String("eodhd-api-key", "", "EODHD API key, you can get one at https://eodhd.com/. Overrides "+envAPIKey+".")
)

// config is the resolved configuration: explicit flag > environment > flag default.
type config struct {
	DataDir  string
	Store    string
	Schema   store.Schema
	LogLevel string
	APIKey   string
	Addr     string
}

// loadConfig resolves the configuration, reading a .env file in the current directory if any.
func loadConfig() (config, error) {
	// a missing .env is ok
	_ = godotenv.Load()

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	pick := func(name, env string, value string) string {
		if !set[name] {
			if v := os.Getenv(env); v != "" {
				return v
			}
		}
		return value
	}

	cfg := config{
		DataDir:  pick("data-dir", envDataDir, *dataDir),
		Store:    pick("store", envStore, *storeKind),
		LogLevel: pick("log-level", envLogLevel, *logLevel),
		APIKey:   pick("eodhd-api-key", envAPIKey, *apiKey),
		Addr:     os.Getenv(envAddr),
	}
	schema, ok := store.Schemas[*schemaName]
	if !ok {
		return cfg, fmt.Errorf("unknown schema %q", *schemaName)
	}
	cfg.Schema = schema
	return cfg, nil
}

// newLogger returns a console logger on stderr.
func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	return zerolog.New(output).Level(lvl).With().Timestamp().Logger()
}

// openStore opens the snapshot store of cfg. The returned function closes it.
func openStore(cfg config) (store.Store, func(), error) {
	s, err := store.Open(cfg.Store, cfg.DataDir, cfg.Schema)
	if err != nil {
		return nil, nil, err
	}
	closer := func() {}
	if db, ok := s.(*store.SQLite); ok {
		closer = func() { db.Close() }
	}
	return s, closer, nil
}

// newClient returns an EODHD client caching responses in the data dir.
func newClient(cfg config, log zerolog.Logger) (*eodhd.Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("EODHD API key is not set. Use -eodhd-api-key flag or %s environment variable", envAPIKey)
	}
	return eodhd.NewClient(cfg.APIKey,
		eodhd.WithCacheDir(filepath.Join(cfg.DataDir, "cache")),
		eodhd.WithLogger(log),
	), nil
}

// printMarkdown renders md for the terminal, or prints it raw if it cannot.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Print(md)
}

// loadSnapshot returns the configuration and the saved snapshot.
func loadSnapshot(ctx context.Context) (config, store.Snapshot, error) {
	cfg, err := loadConfig()
	if err != nil {
		return cfg, store.Snapshot{}, err
	}
	s, closeStore, err := openStore(cfg)
	if err != nil {
		return cfg, store.Snapshot{}, err
	}
	defer closeStore()
	snap, err := s.Load(ctx)
	if err != nil {
		return cfg, store.Snapshot{}, fmt.Errorf("could not load the snapshot, run 'bsk update' first: %w", err)
	}
	return cfg, snap, nil
}
