package parser

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Belphemur/ShowFinder/internal/apperrors"
	"github.com/Belphemur/ShowFinder/internal/config"
	"github.com/Belphemur/ShowFinder/internal/models"
)

type episodePayload struct {
	ID     *int    `json:"id"`
	Name   *string `json:"name"`
	Season *int    `json:"season"`
	Number *int    `json:"number"`
}

// EpisodeParser implements the Parser interface for episode list responses
type EpisodeParser struct{}

// NewEpisodeParser creates a new episode parser instance
func NewEpisodeParser() *EpisodeParser {
	return &EpisodeParser{}
}

// Parse decodes an episode list and passes id, name, season and number through unchanged.
// A JSON null name, season or number becomes the Go zero value (TVmaze specials have no number).
func (p *EpisodeParser) Parse(body io.Reader) ([]models.Episode, error) {
	logger := config.GetLogger()

	var payloads *[]episodePayload
	if err := json.NewDecoder(body).Decode(&payloads); err != nil {
		return nil, apperrors.NewMalformedResponseError("episodes", "decode", err)
	}
	if payloads == nil {
		return nil, apperrors.NewMalformedResponseError("episodes", "expected an array, got null", nil)
	}

	episodes := make([]models.Episode, 0, len(*payloads))
	for i, payload := range *payloads {
		if payload.ID == nil {
			return nil, apperrors.NewMalformedResponseError("episodes", fmt.Sprintf("entry %d has no id", i), nil)
		}

		episodes = append(episodes, models.Episode{
			ID:     *payload.ID,
			Name:   stringValue(payload.Name),
			Season: intValue(payload.Season),
			Number: intValue(payload.Number),
		})
	}

	logger.Debug().Int("count", len(episodes)).Msg("Parsed episode list response")
	return episodes, nil
}

func intValue(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
