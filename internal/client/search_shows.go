package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Belphemur/ShowFinder/internal/apperrors"
	"github.com/Belphemur/ShowFinder/internal/config"
	"github.com/Belphemur/ShowFinder/internal/metrics"
	"github.com/Belphemur/ShowFinder/internal/models"
)

// SearchShows queries /search/shows?q=term
func (c *client) SearchShows(ctx context.Context, term string) ([]models.Show, error) {
	logger := config.GetLogger()
	requestURL := c.searchURL(term)
	logger.Info().Str("term", term).Msg("Searching shows")

	shows, err := fetchRecords(ctx, c, metrics.PipelineSearch, requestURL, c.showParser)
	if errors.Is(err, errUpstreamNotFound) {
		// The search endpoint answers an empty array for no match; a 404 means the API root is wrong.
		err = &apperrors.ErrNetworkFailure{URL: requestURL, StatusCode: http.StatusNotFound}
	}
	if err != nil {
		return nil, fmt.Errorf("search shows %q: %w", term, err)
	}

	logger.Info().Str("term", term).Int("count", len(shows)).Msg("Show search completed")
	return shows, nil
}

func (c *client) searchURL(term string) string {
	return c.baseURL + "/search/shows?" + url.Values{"q": {term}}.Encode()
}
