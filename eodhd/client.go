// Package eodhd collects the weekly returns of rated assets from eodhd.com.
//
// It is the only part of the system doing I/O on the market data: the
// basket engine receives the tables it produces already in memory.
package eodhd

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"
)

// DefaultBaseURL is the EODHD API root.
const DefaultBaseURL = "https://eodhd.com/api"

// Client is an EODHD API client. It is safe for concurrent use.
type Client struct {
	key      string
	baseURL  string
	http     *http.Client
	cacheDir string
	log      zerolog.Logger
	maxTries uint
	interval time.Duration // first retry interval
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL replaces the API root, to target a test server.
func WithBaseURL(u string) Option { return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") } }

// WithHTTPClient replaces the daily caching http client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithCacheDir sets the folder of the daily response cache.
func WithCacheDir(dir string) Option {
	return func(c *Client) { c.cacheDir = dir }
}

// WithLogger sets the client logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log.With().Str("component", "eodhd").Logger() }
}

// WithRetry sets how many times a request is tried, and the first retry interval.
func WithRetry(maxTries uint, interval time.Duration) Option {
	return func(c *Client) { c.maxTries, c.interval = maxTries, interval }
}

// NewClient returns a client using key for all requests.
func NewClient(key string, opts ...Option) *Client {
	c := &Client{
		key:      key,
		baseURL:  DefaultBaseURL,
		log:      zerolog.Nop(),
		maxTries: 3,
		interval: time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = newDailyCachingClient(c.cacheDir, c.log)
	}
	return c
}

// endpoint returns the url of path with query, the api token and json format added.
func (c *Client) endpoint(path string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api_token", c.key)
	query.Set("fmt", "json")
	return c.baseURL + path + "?" + query.Encode()
}

// get fetches addr into data, retrying temporary failures with an exponential backoff.
func (c *Client) get(ctx context.Context, addr string, data any) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.interval

	op := func() (struct{}, error) {
		err := jwget(ctx, c.http, addr, data)
		var status *StatusError
		if errors.As(err, &status) && !status.Temporary() {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}
	notify := func(err error, next time.Duration) {
		c.log.Warn().Err(err).Dur("retry_in", next).Msg("request failed")
	}
	_, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(c.maxTries),
		backoff.WithNotify(notify),
	)
	return err
}
