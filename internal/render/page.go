package render

import (
	"bytes"
	"embed"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

//go:embed templates
var templateFS embed.FS

// Selectors of the display areas inside the page.
const (
	SearchFormSelector   = "#searchForm"
	SearchTermSelector   = "#searchForm-term"
	ShowsListSelector    = "#showsList"
	EpisodesAreaSelector = "#episodesArea"
	EpisodesListSelector = "#episodesList"
	NoticeSelector       = "#notice"

	// EpisodesControlSelector matches the per-show control that requests its episodes.
	EpisodesControlSelector = ".Show-getEpisodes"
)

// Page is the document a session renders into. It is not safe for concurrent use.
type Page struct {
	doc *goquery.Document
}

// NewPage parses a fresh copy of the page skeleton.
func NewPage() (*Page, error) {
	raw, err := templateFS.ReadFile("templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("read page skeleton: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse page skeleton: %w", err)
	}

	p := &Page{doc: doc}
	for _, sel := range []string{SearchFormSelector, SearchTermSelector, ShowsListSelector, EpisodesAreaSelector, EpisodesListSelector, NoticeSelector} {
		if doc.Find(sel).Length() != 1 {
			return nil, fmt.Errorf("page skeleton: expected exactly one %s", sel)
		}
	}
	return p, nil
}

// ShowsList is the area show fragments are rendered into.
func (p *Page) ShowsList() *Region {
	return &Region{sel: p.doc.Find(ShowsListSelector)}
}

// EpisodesArea wraps the episode list and is hidden until episodes are requested.
func (p *Page) EpisodesArea() *Region {
	return &Region{sel: p.doc.Find(EpisodesAreaSelector)}
}

// EpisodesList is the area episode fragments are rendered into.
func (p *Page) EpisodesList() *Region {
	return &Region{sel: p.doc.Find(EpisodesListSelector)}
}

// Find runs a selector against the whole page.
func (p *Page) Find(selector string) *goquery.Selection {
	return p.doc.Find(selector)
}

// SearchTerm returns the value of the search input.
func (p *Page) SearchTerm() string {
	return p.doc.Find(SearchTermSelector).AttrOr("value", "")
}

// SetSearchTerm fills the search input, as if typed by the user.
func (p *Page) SetSearchTerm(term string) {
	p.doc.Find(SearchTermSelector).SetAttr("value", term)
}

// SetNotice shows msg above the search form; an empty msg hides the notice.
func (p *Page) SetNotice(msg string) {
	notice := &Region{sel: p.doc.Find(NoticeSelector)}
	notice.sel.SetText(msg)
	if msg == "" {
		notice.Hide()
	} else {
		notice.Show()
	}
}

// Notice returns the text of the notice, empty when hidden.
func (p *Page) Notice() string {
	notice := &Region{sel: p.doc.Find(NoticeSelector)}
	if !notice.Visible() {
		return ""
	}
	return notice.sel.Text()
}

// HTML serializes the whole page.
func (p *Page) HTML() (string, error) {
	return p.doc.Html()
}
