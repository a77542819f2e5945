package catalog

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxBriefRunes = 280

// PlainText strips markup from an HTML fragment, collapses whitespace and
// shortens the result for display. Product briefs come from the API as HTML.
func PlainText(fragment string) string {
	return truncate(fullText(fragment), maxBriefRunes)
}

// fullText is PlainText without the length limit.
func fullText(fragment string) string {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return collapseSpaces(fragment)
	}

	doc.Find("script, style").Remove()
	doc.Find("br").ReplaceWithHtml(" ")
	doc.Find("p, li, div, td").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml(" ")
	})
	return collapseSpaces(doc.Text())
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit])) + "…"
}
