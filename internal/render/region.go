package render

import "github.com/PuerkitoBio/goquery"

// Region is a display area of a Page.
type Region struct {
	sel *goquery.Selection
}

// Clear removes every fragment rendered into the region.
func (r *Region) Clear() {
	r.sel.Empty()
}

// Append adds one markup fragment at the end of the region.
func (r *Region) Append(fragment string) {
	r.sel.AppendHtml(fragment)
}

// Show reveals the region.
func (r *Region) Show() {
	r.sel.RemoveAttr("hidden")
}

// Hide conceals the region without touching its content.
func (r *Region) Hide() {
	r.sel.SetAttr("hidden", "")
}

// Visible reports whether the region is shown.
func (r *Region) Visible() bool {
	_, hidden := r.sel.Attr("hidden")
	return !hidden
}

// Len counts the fragments currently in the region.
func (r *Region) Len() int {
	return r.sel.Children().Length()
}

// Selection exposes the underlying goquery selection.
func (r *Region) Selection() *goquery.Selection {
	return r.sel
}
