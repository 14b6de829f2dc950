package models

// DefaultImageURL replaces the image of a show the upstream API has no artwork for.
const DefaultImageURL = "https://tinyurl.com/tv-missing"

// Show is the normalized form of one show search result.
type Show struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Summary string `json:"summary"` // upstream markup, sanitized at render time
	Image   string `json:"image"`
}
