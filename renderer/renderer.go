// Package renderer renders baskets and returns statistics as markdown reports and PNG charts.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed templates/*.md
var templates embed.FS

// RenderPortfolio renders a simulated basket to a markdown string.
func RenderPortfolio(p *Portfolio) string {
	partials := map[string]string{
		"portfolio_title":     "portfolio_title.md",
		"portfolio_metrics":   "portfolio_metrics.md",
		"portfolio_breakdown": "portfolio_breakdown.md",
		"portfolio_values":    "portfolio_values.md",
	}
	if len(p.Values) == 0 {
		partials["portfolio_values"] = ""
	}
	return renderTemplate("portfolio", "portfolio.md", partials, p)
}

// RenderStats renders the returns statistics to a markdown string.
func RenderStats(s *Stats) string {
	partials := map[string]string{
		"stats_ratings": "stats_ratings.md",
		"stats_returns": "stats_returns.md",
	}
	return renderTemplate("stats", "stats.md", partials, s)
}

// RenderEligible renders the eligible assets to a markdown string.
func RenderEligible(e *Eligible) string {
	return renderTemplate("eligible", "eligible.md", nil, e)
}

// renderTemplate renders a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name results in an empty template.
		if file != "" {
			content, err = fs.ReadFile(templates, "templates/"+file)
			if err != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, err)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}

var funcs = template.FuncMap{
	"rating": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"weight": func(v float64) string { return fmt.Sprintf("%.2f%%", 100*v) },
	"ratio":  func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"num":    func(v float64) string { return fmt.Sprintf("%.4f", v) },
	"cell":   cell,
}

// cell escapes a string for a markdown table cell.
func cell(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", `\|`)
}
