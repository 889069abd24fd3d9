package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/basket"
	"github.com/vicanso/go-charts/v2"
)

// ValueChart renders the value of the basket over time as a PNG line chart.
func ValueChart(p *Portfolio, r basket.Result) ([]byte, error) {
	if len(r.Values) == 0 {
		return nil, fmt.Errorf("no value to chart")
	}
	labels := make([]string, len(r.Dates))
	for i, d := range r.Dates {
		labels[i] = d.Format("Jan '06")
	}

	minVal, maxVal := r.Values[0], r.Values[0]
	for _, v := range r.Values {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	padding := (maxVal - minVal) * 0.05
	if padding == 0 {
		padding = maxVal * 0.05
	}
	yMin, yMax := minVal-padding, maxVal+padding

	tickers := make([]string, 0, len(p.Allocations))
	for _, a := range p.Allocations {
		tickers = append(tickers, a.Ticker)
	}
	title := fmt.Sprintf("Basket (%s)", strings.Join(tickers, ", "))
	subtitle := fmt.Sprintf("Return: %s | Vol: %s | Ratio: %.2f", p.AnnualReturn, p.Volatility, p.Ratio)

	splitNum := 6
	if len(labels) <= 30 {
		splitNum = max(3, len(labels)/3)
	}

	c, err := charts.LineRender(
		[][]float64{r.Values},
		charts.TitleTextOptionFunc(title, subtitle),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        labels,
			SplitNumber: splitNum,
			BoundaryGap: charts.FalseFlag(),
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{
			Min:         &yMin,
			Max:         &yMax,
			DivideCount: 5,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	buf, err := c.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart bytes: %w", err)
	}
	return buf, nil
}

// AllocationChart renders the weights of the basket as a PNG pie chart.
func AllocationChart(p *Portfolio) ([]byte, error) {
	if len(p.Allocations) == 0 {
		return nil, fmt.Errorf("no allocation to chart")
	}
	values := make([]float64, len(p.Allocations))
	names := make([]string, len(p.Allocations))
	for i, a := range p.Allocations {
		values[i] = a.Weight
		names[i] = fmt.Sprintf("%s (%.1f%%)", a.Ticker, 100*a.Weight)
	}
	c, err := charts.PieRender(
		values,
		charts.TitleTextOptionFunc(fmt.Sprintf("Allocation (weighted rating %.2f)", p.Rating)),
		charts.LegendOptionFunc(charts.LegendOption{
			Data: names,
			Top:  charts.PositionTop,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(800),
		charts.HeightOptionFunc(600),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	buf, err := c.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart bytes: %w", err)
	}
	return buf, nil
}
