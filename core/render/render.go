package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"catalog-sync/core/catalog"
	"catalog-sync/core/listing"
	"catalog-sync/core/ordering"

	"github.com/PuerkitoBio/goquery"
)

// ErrNotContainer indicates that content carries no container child list.
var ErrNotContainer = errors.New("content is not a container page")

// Renderer renders catalog artifacts.
type Renderer struct {
	embedBase string
}

// New creates a renderer that links playable resources under embedBase.
func New(embedBase string) *Renderer {
	return &Renderer{embedBase: embedBase}
}

type childView struct {
	ID   string
	Name string
	URL  string
}

type kindCount struct {
	Label string
	Count int
}

// Leaf renders the page of a leaf item.
func (r *Renderer) Leaf(entry catalog.Entry) ([]byte, error) {
	return execute(leafTemplate, struct {
		Entry    catalog.Entry
		EmbedURL string
	}{entry, listing.EmbedURL(r.embedBase, entry.ID)})
}

// Container renders a container page listing children in the given order.
// An empty list renders a "No items" placeholder.
func (r *Renderer) Container(entry catalog.Entry, children []ordering.Child) ([]byte, error) {
	views := make([]childView, 0, len(children))
	for _, c := range children {
		views = append(views, childView{ID: c.ID, Name: c.Name, URL: listing.EmbedURL(r.embedBase, c.ID)})
	}
	return execute(containerTemplate, struct {
		Entry    catalog.Entry
		Children []childView
	}{entry, views})
}

// Index renders the master index. Entries keep their order; the header
// carries a count per kind.
func (r *Renderer) Index(entries []catalog.Entry) ([]byte, error) {
	counts := []kindCount{
		{Label: catalog.Movie.Label()},
		{Label: catalog.Series.Label()},
	}
	for _, e := range entries {
		switch e.Kind {
		case catalog.Movie:
			counts[0].Count++
		case catalog.Series:
			counts[1].Count++
		}
	}
	return execute(indexTemplate, struct {
		Entries []catalog.Entry
		Counts  []kindCount
	}{entries, counts})
}

func execute(tmpl *template.Template, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseChildren returns the child identifiers recorded in a container page,
// in page order.
func ParseChildren(content []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse container page: %w", err)
	}
	list := doc.Find("[data-catalog-container]")
	if list.Length() == 0 {
		return nil, ErrNotContainer
	}
	ids := []string{}
	list.First().Find("[data-child-id]").Each(func(_ int, s *goquery.Selection) {
		if id := strings.TrimSpace(s.AttrOr("data-child-id", "")); id != "" {
			ids = append(ids, id)
		}
	})
	return ids, nil
}
