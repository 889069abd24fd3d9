package eodhd

import (
	"context"
	"fmt"
	"net/url"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/basket/date"
)

// FetchWeekly returns the weekly adjusted close of an EODHD ticker ("SYMBOL.EXCHANGE") over r.
//
// Points are dated on the Monday of their week, so that series of different
// exchanges share the same weekly index. Points the API returns outside of r
// are ignored.
func (c *Client) FetchWeekly(ctx context.Context, ticker string, r date.Range) (*date.History[float64], error) {
	// https://eodhd.com/api/eod/MCD.US?api_token=demo&fmt=json&period=w&from=2022-01-01&to=2024-12-31
	// [
	//	{
	//		"date": "2022-01-03",
	//		"open": 268.7,
	//		"high": 270.2,
	//		"low": 259.1,
	//		"close": 262.01,
	//		"adjusted_close": 245.1856,
	//		"volume": 16849300
	//	},
	query := url.Values{}
	query.Set("period", "w")
	query.Set("from", r.From.String())
	query.Set("to", r.To.String())
	addr := c.endpoint("/eod/"+url.PathEscape(ticker), query)

	type Info struct {
		Date          date.Date `json:"date"`
		AdjustedClose float64   `json:"adjusted_close"`
	}
	content := make([]Info, 0)
	if err := c.get(ctx, addr, &content); err != nil {
		return nil, fmt.Errorf("cannot fetch weekly prices of %s: %w", ticker, err)
	}

	prices := new(date.History[float64])
	for _, info := range content {
		if !r.Contains(info.Date) {
			continue
		}
		prices.Append(info.Date.Monday(), info.AdjustedClose)
	}
	return prices, nil
}

// General holds the descriptive fields of a security.
type General struct {
	Name     string
	Category string // EODHD "Type": "Common Stock", "ETF", "FUND" ...
}

// FetchGeneral returns the name and type of an EODHD ticker from the fundamentals API.
func (c *Client) FetchGeneral(ctx context.Context, ticker string) (General, error) {
	addr := c.endpoint("/fundamentals/"+url.PathEscape(ticker), nil)

	var jobj any
	if err := c.get(ctx, addr, &jobj); err != nil {
		return General{}, fmt.Errorf("cannot fetch fundamentals of %s: %w", ticker, err)
	}
	name, err := jsonString("$.General.Name", jobj)
	if err != nil {
		return General{}, fmt.Errorf("fundamentals of %s: %w", ticker, err)
	}
	// the type is optional
	category, _ := jsonString("$.General.Type", jobj)
	return General{Name: name, Category: category}, nil
}

// jsonString extracts a string at path in a decoded json object.
func jsonString(path string, jobj any) (string, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return "", fmt.Errorf("cannot read %q: %w", path, err)
	}
	// jsonpath may return a list of 1 answer, or a single answer
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	s, ok := jval.(string)
	if !ok {
		return "", fmt.Errorf("%q is not a string: %v", path, jval)
	}
	return s, nil
}

// SearchResult is a single item of the EODHD search API response.
type SearchResult struct {
	Code     string `json:"Code"`
	Exchange string `json:"Exchange"`
	Name     string `json:"Name"`
	Type     string `json:"Type"`
	Country  string `json:"Country"`
	Currency string `json:"Currency"`
	ISIN     string `json:"ISIN"`
}

// Ticker returns the EODHD ticker of the result, as used by FetchWeekly.
func (r SearchResult) Ticker() string { return r.Code + "." + r.Exchange }

// Search searches securities by name, ticker or ISIN.
func (c *Client) Search(ctx context.Context, term string) ([]SearchResult, error) {
	addr := c.endpoint("/search/"+url.PathEscape(term), nil)
	var results []SearchResult
	if err := c.get(ctx, addr, &results); err != nil {
		return nil, fmt.Errorf("cannot search %q: %w", term, err)
	}
	return results, nil
}
