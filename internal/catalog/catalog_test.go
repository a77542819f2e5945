package catalog

import (
	"strings"
	"testing"

	"github.com/samvad-hq/giftery-client/pkg/giftery"
	"github.com/shopspring/decimal"
)

func sampleProducts() []giftery.Product {
	return []giftery.Product{
		{
			ID:         2,
			Title:      "Cinema Park",
			Brief:      "<p>Movies&nbsp;and <b>popcorn</b></p>",
			FaceMin:    decimal.NewFromInt(300),
			FaceMax:    decimal.NewFromInt(3000),
			FaceStep:   decimal.NewFromInt(100),
			Categories: []int{5},
		},
		{
			ID:                1,
			Title:             "Bookshop",
			Brief:             "<div>Paper<br>books</div>",
			Faces:             []decimal.Decimal{decimal.NewFromInt(500), decimal.NewFromInt(1000)},
			DigitalAcceptance: "screen",
			Categories:        []int{1, 5},
		},
	}
}

func TestPlainTextStripsMarkup(t *testing.T) {
	got := PlainText(`<p>Gift <b>card</b></p><script>alert(1)</script><ul><li>one</li><li>two</li></ul>`)
	if got != "Gift card one two" {
		t.Fatalf("PlainText = %q", got)
	}
	if PlainText("   ") != "" {
		t.Fatalf("expected empty result for blank input")
	}
}

func TestPlainTextTruncatesLongBriefs(t *testing.T) {
	got := PlainText("<p>" + strings.Repeat("слово ", 100) + "</p>")
	if !strings.HasSuffix(got, "…") || len([]rune(got)) > maxBriefRunes+1 {
		t.Fatalf("expected truncated brief, got %d runes", len([]rune(got)))
	}
}

func TestApplyFilters(t *testing.T) {
	products := sampleProducts()

	all := Apply(products, Filter{})
	if len(all) != 2 || all[0].Title != "Bookshop" {
		t.Fatalf("expected both products sorted by title, got %+v", all)
	}

	if got := Apply(products, Filter{Query: "POPCORN"}); len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("query on brief text failed: %+v", got)
	}
	if got := Apply(products, Filter{Category: 1}); len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("category filter failed: %+v", got)
	}
	if got := Apply(products, Filter{Face: decimal.NewFromInt(1000)}); len(got) != 2 {
		t.Fatalf("face filter should match both, got %+v", got)
	}
	if got := Apply(products, Filter{Face: decimal.NewFromInt(350)}); len(got) != 0 {
		t.Fatalf("face 350 should match nothing, got %+v", got)
	}
	if got := Apply(products, Filter{DigitalOnly: true}); len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("digital filter failed: %+v", got)
	}
}

func TestSummaries(t *testing.T) {
	rows := Summaries(sampleProducts())
	if rows[0].Faces != "300-3000 step 100" || rows[0].Brief != "Movies and popcorn" {
		t.Fatalf("unexpected row %+v", rows[0])
	}
	if rows[1].Faces != "500, 1000" || rows[1].Brief != "Paper books" {
		t.Fatalf("unexpected row %+v", rows[1])
	}
}

func TestApplyQueryMatchesPastDisplayLimit(t *testing.T) {
	brief := "<p>" + strings.Repeat("filler ", 60) + "cinema tickets</p>"
	products := []giftery.Product{{ID: 9, Title: "Evening out", Brief: brief}}

	got := Apply(products, Filter{Query: "cinema"})
	if len(got) != 1 {
		t.Fatalf("expected match on brief text past %d runes, got %d products", maxBriefRunes, len(got))
	}
	if strings.Contains(Summaries(got)[0].Brief, "cinema") {
		t.Fatalf("display brief should still be truncated")
	}
}
