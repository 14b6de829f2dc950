package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Belphemur/ShowFinder/internal/apperrors"
	"github.com/Belphemur/ShowFinder/internal/config"
	"github.com/Belphemur/ShowFinder/internal/models"
)

// searchEntry is one element of the /search/shows response array
type searchEntry struct {
	Score float64      `json:"score"`
	Show  *showPayload `json:"show"`
}

type showPayload struct {
	ID      *int            `json:"id"`
	Name    *string         `json:"name"`
	Summary *string         `json:"summary"`
	Image   json.RawMessage `json:"image"`
}

// ShowSearchParser implements the Parser interface for show search responses
type ShowSearchParser struct {
	defaultImage string
}

// NewShowSearchParser creates a new show search parser instance
func NewShowSearchParser() *ShowSearchParser {
	return &ShowSearchParser{
		defaultImage: models.DefaultImageURL,
	}
}

// Parse decodes a search response and normalizes every entry into a models.Show, keeping upstream order.
func (p *ShowSearchParser) Parse(body io.Reader) ([]models.Show, error) {
	logger := config.GetLogger()

	var entries *[]searchEntry
	if err := json.NewDecoder(body).Decode(&entries); err != nil {
		return nil, apperrors.NewMalformedResponseError("search", "decode", err)
	}
	if entries == nil {
		return nil, apperrors.NewMalformedResponseError("search", "expected an array, got null", nil)
	}

	shows := make([]models.Show, 0, len(*entries))
	for i, entry := range *entries {
		if entry.Show == nil {
			return nil, apperrors.NewMalformedResponseError("search", fmt.Sprintf("entry %d has no show", i), nil)
		}
		if entry.Show.ID == nil {
			return nil, apperrors.NewMalformedResponseError("search", fmt.Sprintf("entry %d has no show id", i), nil)
		}

		shows = append(shows, models.Show{
			ID:      *entry.Show.ID,
			Name:    stringValue(entry.Show.Name),
			Summary: stringValue(entry.Show.Summary),
			Image:   p.extractImage(entry.Show.Image),
		})
	}

	logger.Debug().Int("count", len(shows)).Msg("Parsed show search response")
	return shows, nil
}

// extractImage returns image.medium when image is an object holding a string medium URL,
// and the default image for anything else (missing, null, or a different shape).
func (p *ShowSearchParser) extractImage(raw json.RawMessage) string {
	if isNull(raw) {
		return p.defaultImage
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return p.defaultImage
	}

	medium, ok := fields["medium"]
	if !ok || isNull(medium) {
		return p.defaultImage
	}

	var url string
	if err := json.Unmarshal(medium, &url); err != nil {
		return p.defaultImage
	}
	return url
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
