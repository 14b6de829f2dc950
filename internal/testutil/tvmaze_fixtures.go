package testutil

import (
	"encoding/json"
	"strconv"
)

// IntPtr is a helper for creating *int values in tests
func IntPtr(v int) *int {
	return &v
}

// StringPtr is a helper for creating *string values in tests
func StringPtr(v string) *string {
	return &v
}

// ShowEntryOptions describes one element of a /search/shows response.
// A nil MediumImage produces "image": null; NoImageField drops the key entirely.
type ShowEntryOptions struct {
	ID           int
	Name         string
	Summary      *string
	MediumImage  *string
	NoImageField bool
	Score        float64
}

// EpisodeOptions describes one element of a /shows/{id}/episodes response.
// A nil Number produces "number": null, as TVmaze does for specials.
type EpisodeOptions struct {
	ID     int
	Name   string
	Season int
	Number *int
}

// GenerateSearchJSON builds a search response body shaped like the real TVmaze API
func GenerateSearchJSON(entries []ShowEntryOptions) string {
	out := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		show := map[string]any{
			"id":       e.ID,
			"url":      "https://www.tvmaze.com/shows/" + strconv.Itoa(e.ID),
			"name":     e.Name,
			"type":     "Scripted",
			"language": "English",
			"genres":   []string{"Drama"},
			"summary":  nil,
		}
		if e.Summary != nil {
			show["summary"] = *e.Summary
		}
		if !e.NoImageField {
			if e.MediumImage != nil {
				show["image"] = map[string]string{
					"medium":   *e.MediumImage,
					"original": *e.MediumImage + "?original",
				}
			} else {
				show["image"] = nil
			}
		}
		score := e.Score
		if score == 0 {
			score = 0.9
		}
		out = append(out, map[string]any{"score": score, "show": show})
	}
	return mustMarshal(out)
}

// GenerateEpisodesJSON builds an episode list body shaped like the real TVmaze API
func GenerateEpisodesJSON(episodes []EpisodeOptions) string {
	out := make([]map[string]any, 0, len(episodes))
	for _, e := range episodes {
		ep := map[string]any{
			"id":      e.ID,
			"url":     "https://www.tvmaze.com/episodes/" + strconv.Itoa(e.ID),
			"name":    e.Name,
			"season":  e.Season,
			"number":  nil,
			"type":    "regular",
			"airdate": "2008-01-20",
			"runtime": 60,
		}
		if e.Number != nil {
			ep["number"] = *e.Number
		}
		out = append(out, ep)
	}
	return mustMarshal(out)
}

// BatmanSearchJSON is the two-result search body used across packages: the first show has artwork, the second has image null.
func BatmanSearchJSON() string {
	return GenerateSearchJSON([]ShowEntryOptions{
		{
			ID:          975,
			Name:        "Batman",
			Summary:     StringPtr("<p>Wealthy entrepreneur <b>Bruce Wayne</b> and his ward fight crime.</p>"),
			MediumImage: StringPtr("https://static.tvmaze.com/uploads/images/medium_portrait/6/16463.jpg"),
		},
		{
			ID:      481,
			Name:    "The Batman",
			Summary: StringPtr("<p>The Caped Crusader in his early years.</p>"),
		},
	})
}

func mustMarshal(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}

