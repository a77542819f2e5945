// Package catalog narrows and renders the Giftery product list.
package catalog

import (
	"sort"
	"strings"

	"github.com/samvad-hq/giftery-client/pkg/giftery"
	"github.com/shopspring/decimal"
)

// Filter narrows a product list. Zero values match everything.
type Filter struct {
	Query       string
	Category    int
	Face        decimal.Decimal
	DigitalOnly bool
}

// Apply returns the products matching f, sorted by title.
func Apply(products []giftery.Product, f Filter) []giftery.Product {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]giftery.Product, 0, len(products))
	for _, p := range products {
		if query != "" && !matchesQuery(p, query) {
			continue
		}
		if f.Category > 0 && !p.InCategory(f.Category) {
			continue
		}
		if f.Face.IsPositive() && !p.AcceptsFace(f.Face) {
			continue
		}
		if f.DigitalOnly && strings.TrimSpace(p.DigitalAcceptance) == "" {
			continue
		}
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
	})
	return out
}

func matchesQuery(p giftery.Product, query string) bool {
	return strings.Contains(strings.ToLower(p.Title), query) ||
		strings.Contains(strings.ToLower(fullText(p.Brief)), query)
}

// Summary is a display row for a product.
type Summary struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Faces string `json:"faces"`
	Brief string `json:"brief"`
	URL   string `json:"url,omitempty"`
}

// Summaries renders products into display rows with plain-text briefs.
func Summaries(products []giftery.Product) []Summary {
	out := make([]Summary, 0, len(products))
	for _, p := range products {
		out = append(out, Summary{
			ID:    p.ID,
			Title: strings.TrimSpace(p.Title),
			Faces: FacesLabel(p),
			Brief: PlainText(p.Brief),
			URL:   p.URL,
		})
	}
	return out
}

// FacesLabel describes the denominations a product accepts.
func FacesLabel(p giftery.Product) string {
	if len(p.Faces) > 0 {
		parts := make([]string, 0, len(p.Faces))
		for _, f := range p.Faces {
			parts = append(parts, f.String())
		}
		return strings.Join(parts, ", ")
	}
	if p.FaceMin.IsZero() && p.FaceMax.IsZero() {
		return "-"
	}
	label := p.FaceMin.String() + "-" + p.FaceMax.String()
	if p.FaceStep.IsPositive() {
		label += " step " + p.FaceStep.String()
	}
	return label
}
