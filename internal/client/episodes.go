package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/Belphemur/ShowFinder/internal/apperrors"
	"github.com/Belphemur/ShowFinder/internal/config"
	"github.com/Belphemur/ShowFinder/internal/metrics"
	"github.com/Belphemur/ShowFinder/internal/models"
)

// GetEpisodes queries /shows/{id}/episodes. An unknown show yields *apperrors.ErrNotFound.
func (c *client) GetEpisodes(ctx context.Context, showID int) ([]models.Episode, error) {
	logger := config.GetLogger()
	requestURL := fmt.Sprintf("%s/shows/%d/episodes", c.baseURL, showID)
	logger.Info().Int("show_id", showID).Msg("Fetching episodes")

	episodes, err := fetchRecords(ctx, c, metrics.PipelineEpisodes, requestURL, c.episodeParser)
	if errors.Is(err, errUpstreamNotFound) {
		err = apperrors.NewShowNotFoundError(showID)
	}
	if err != nil {
		return nil, fmt.Errorf("get episodes of show %d: %w", showID, err)
	}

	logger.Info().Int("show_id", showID).Int("count", len(episodes)).Msg("Episodes fetched")
	return episodes, nil
}
