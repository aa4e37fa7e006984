package htmlpage

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/poiesic/tradescout/scrape"
)

type element struct {
	sel *goquery.Selection
}

var _ scrape.Element = (*element)(nil)

func wrap(sel *goquery.Selection) []scrape.Element {
	out := make([]scrape.Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, &element{sel: s})
	})
	return out
}

func (e *element) Attr(name string) (string, bool) {
	return e.sel.Attr(name)
}

func (e *element) Text() string {
	return e.sel.Text()
}

// Visible reports false when the element or an ancestor is hidden by the
// hidden attribute, aria-hidden, or an inline display/visibility style.
func (e *element) Visible() bool {
	for s := e.sel; s.Length() > 0; s = s.Parent() {
		if hidden(s) {
			return false
		}
	}
	return true
}

func hidden(s *goquery.Selection) bool {
	if _, ok := s.Attr("hidden"); ok {
		return true
	}
	if v, _ := s.Attr("aria-hidden"); strings.EqualFold(v, "true") {
		return true
	}
	style, _ := s.Attr("style")
	style = strings.ToLower(strings.ReplaceAll(style, " ", ""))
	return strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden")
}

func (e *element) Find(selector string) []scrape.Element {
	return wrap(e.sel.Find(selector))
}

// Click selects the element and deselects its siblings.
func (e *element) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	siblings := e.sel.Siblings()
	siblings.RemoveClass(SelectedClass)
	siblings.Filter("[aria-selected]").SetAttr("aria-selected", "false")

	e.sel.AddClass(SelectedClass)
	if _, ok := e.sel.Attr("aria-selected"); ok {
		e.sel.SetAttr("aria-selected", "true")
	}
	return nil
}
