package services

import (
	"context"

	"github.com/Belphemur/ShowFinder/internal/apperrors"
	"github.com/Belphemur/ShowFinder/internal/client"
	"github.com/Belphemur/ShowFinder/internal/metrics"
	"github.com/Belphemur/ShowFinder/internal/models"
)

// SearchShows runs the query pipeline: one upstream search, normalized into show records.
func SearchShows(ctx context.Context, c client.Client, term string) models.Result[models.Show] {
	shows, err := c.SearchShows(ctx, term)
	recordRun(metrics.PipelineSearch, err)
	return models.Result[models.Show]{Records: shows, Err: err}
}

// GetEpisodes runs the episode pipeline for one show.
func GetEpisodes(ctx context.Context, c client.Client, showID int) models.Result[models.Episode] {
	episodes, err := c.GetEpisodes(ctx, showID)
	recordRun(metrics.PipelineEpisodes, err)
	return models.Result[models.Episode]{Records: episodes, Err: err}
}

func recordRun(pipeline string, err error) {
	result := "ok"
	if err != nil {
		result = string(apperrors.KindOf(err))
	}
	metrics.PipelineRunsTotal.WithLabelValues(pipeline, result).Inc()
}

// FailureMessage is the one-line notice shown to the user when a pipeline fails.
func FailureMessage(err error) string {
	switch apperrors.KindOf(err) {
	case apperrors.KindNone:
		return ""
	case apperrors.KindNotFound:
		return "That show could not be found."
	case apperrors.KindNetworkFailure:
		return "TVmaze could not be reached. Please try again."
	case apperrors.KindMalformedResponse:
		return "TVmaze sent a response ShowFinder could not read."
	default:
		return "Something went wrong."
	}
}
