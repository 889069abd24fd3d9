package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/etnz/basket/server"
	"github.com/google/subcommands"
)

type serveCmd struct {
	addr     string
	currency string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serves the snapshot over an HTTP JSON API" }
func (*serveCmd) Usage() string {
	return `bsk serve [-addr <host:port>]

  Loads the snapshot and serves it:

    GET  /health
    GET  /api/assets
    GET  /api/stats
    GET  /api/eligible?min_rating=<rating>
    POST /api/portfolio {"investment":10000,"min_rating":7,"size":5}
    GET  /api/portfolio/value.png?investment=10000&min_rating=7&size=5
    GET  /api/portfolio/allocation.png?investment=10000&min_rating=7&size=5
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Listen address. Overrides "+envAddr+", defaults to :8080.")
	f.StringVar(&c.currency, "currency", "EUR", "Currency of the investment, for display only.")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, snap, err := loadSnapshot(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	addr := c.addr
	if addr == "" {
		addr = cfg.Addr
	}
	srv := server.New(server.Config{
		Addr:     addr,
		Log:      newLogger(cfg.LogLevel),
		Snapshot: snap,
		Currency: c.currency,
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdown)
	}()

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
