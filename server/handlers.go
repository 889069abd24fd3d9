package server

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/etnz/basket"
	"github.com/etnz/basket/renderer"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// writeError maps err to a status code: basket errors are unprocessable requests.
func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	kind := basket.Kind(err)
	if kind != "" {
		status = http.StatusUnprocessableEntity
	}
	if status >= 500 {
		s.log.Error().Err(err).Msg("request failed")
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error(), Kind: kind})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"assets": s.snap.Ratings.Len(),
		"weeks":  s.snap.Returns.Len(),
	})
}

type assetsResponse struct {
	Assets    []basket.AssetRating `json:"assets"`
	MinRating float64              `json:"min_rating"`
	MaxRating float64              `json:"max_rating"`
}

func (s *Server) handleAssets(w http.ResponseWriter, r *http.Request) {
	lo, hi, _ := s.snap.Ratings.Bounds()
	s.writeJSON(w, http.StatusOK, assetsResponse{
		Assets:    s.snap.Ratings.Rows(),
		MinRating: lo,
		MaxRating: hi,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, basket.Describe(s.snap.Returns))
}

type eligibleResponse struct {
	MinRating float64  `json:"min_rating"`
	Tickers   []string `json:"tickers"`
}

func (s *Server) handleEligible(w http.ResponseWriter, r *http.Request) {
	q := portfolioQuery{Size: 1}
	if err := q.parse(r); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	minRating := s.threshold(q.MinRating)
	tickers, err := basket.Eligible(s.snap.Ratings, minRating, s.snap.Returns.Tickers(), q.Size)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(w, http.StatusOK, eligibleResponse{MinRating: minRating, Tickers: tickers})
}

// portfolioQuery is the body of POST /api/portfolio, or the query of the charts.
type portfolioQuery struct {
	Investment float64  `json:"investment"`
	MinRating  *float64 `json:"min_rating"` // lowest rating when absent
	Size       int      `json:"size"`
	Candidates []string `json:"candidates"` // eligible assets when absent
}

// parse reads the url query parameters.
func (q *portfolioQuery) parse(r *http.Request) error {
	values := r.URL.Query()
	if v := values.Get("investment"); v != "" {
		f, err := parseFinite("investment", v)
		if err != nil {
			return err
		}
		q.Investment = f
	}
	if v := values.Get("min_rating"); v != "" {
		f, err := parseFinite("min_rating", v)
		if err != nil {
			return err
		}
		q.MinRating = &f
	}
	if v := values.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid size %q: %w", v, err)
		}
		q.Size = n
	}
	q.Candidates = append(q.Candidates, values["candidate"]...)
	return nil
}

// parseFinite parses a query number, NaN and infinities are rejected.
func parseFinite(name, v string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, v, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid %s %q: not a finite number", name, v)
	}
	return f, nil
}

// threshold returns the threshold of the query, the lowest rating when absent.
func (s *Server) threshold(minRating *float64) float64 {
	if minRating != nil {
		return *minRating
	}
	lo, _, _ := s.snap.Ratings.Bounds()
	return lo
}

// build constructs the basket of q.
func (s *Server) build(q portfolioQuery) (basket.Request, basket.Result, error) {
	req := basket.Request{
		Investment: q.Investment,
		Size:       q.Size,
		Candidates: q.Candidates,
		MinRating:  math.NaN(),
	}
	if q.MinRating != nil {
		req.MinRating = *q.MinRating
	}
	if len(req.Candidates) == 0 {
		req.MinRating = s.threshold(q.MinRating)
		if q.Size <= 0 {
			return req, basket.Result{}, &basket.InvalidRequestError{Field: "size", Reason: fmt.Sprintf("must be positive, got %d", q.Size)}
		}
		candidates, err := basket.Eligible(s.snap.Ratings, req.MinRating, s.snap.Returns.Tickers(), q.Size)
		if err != nil {
			return req, basket.Result{}, err
		}
		req.Candidates = candidates
	}
	r, err := basket.Construct(s.snap.Ratings, s.snap.Returns, req)
	return req, r, err
}

type portfolioResponse struct {
	Request   basket.Request      `json:"request"`
	Result    basket.Result       `json:"result"`
	Breakdown []basket.Allocation `json:"breakdown"`
	Report    string              `json:"report"` // markdown
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	var q portfolioQuery
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	req, res, err := s.build(q)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	view := renderer.NewPortfolio(s.snap.Ratings, req, res, s.currency)
	if math.IsNaN(req.MinRating) {
		req.MinRating = 0 // json cannot encode NaN
	}
	s.writeJSON(w, http.StatusOK, portfolioResponse{
		Request:   req,
		Result:    res,
		Breakdown: view.Allocations,
		Report:    renderer.RenderPortfolio(view),
	})
}

func (s *Server) handleValueChart(w http.ResponseWriter, r *http.Request) {
	s.chart(w, r, func(view *renderer.Portfolio, res basket.Result) ([]byte, error) {
		return renderer.ValueChart(view, res)
	})
}

func (s *Server) handleAllocationChart(w http.ResponseWriter, r *http.Request) {
	s.chart(w, r, func(view *renderer.Portfolio, _ basket.Result) ([]byte, error) {
		return renderer.AllocationChart(view)
	})
}

// chart serves a PNG chart of the basket described by the query parameters.
func (s *Server) chart(w http.ResponseWriter, r *http.Request, draw func(*renderer.Portfolio, basket.Result) ([]byte, error)) {
	var q portfolioQuery
	if err := q.parse(r); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	req, res, err := s.build(q)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	png, err := draw(renderer.NewPortfolio(s.snap.Ratings, req, res, s.currency), res)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
