package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/Belphemur/ShowFinder/internal/apperrors"
	"github.com/Belphemur/ShowFinder/internal/client"
	"github.com/Belphemur/ShowFinder/internal/config"
	"github.com/Belphemur/ShowFinder/internal/metrics"
	"github.com/Belphemur/ShowFinder/internal/models"
	"github.com/Belphemur/ShowFinder/internal/render"
)

// FailureReporter receives pipeline failures, e.g. to forward them to Sentry.
type FailureReporter interface {
	ReportFailure(pipeline string, err error)
}

// Session owns one page and drives both pipelines into it.
//
// Network calls run without holding the page lock. Each pipeline keeps a
// generation counter; a response whose generation is no longer current is
// discarded, so the most recently started run of a pipeline always wins.
type Session struct {
	ID string

	client   client.Client
	reporter FailureReporter

	mu          sync.Mutex
	page        *render.Page
	searchGen   uint64
	episodesGen uint64
}

// NewSession creates a session with a fresh page. reporter may be nil.
func NewSession(id string, c client.Client, reporter FailureReporter) (*Session, error) {
	page, err := render.NewPage()
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:       id,
		client:   c,
		reporter: reporter,
		page:     page,
	}, nil
}

// SubmitSearch handles a search form submission: it looks term up, hides the
// episodes area and renders the shows. On failure the shows list is left as it was.
func (s *Session) SubmitSearch(ctx context.Context, term string) models.Result[models.Show] {
	logger := config.GetLogger()

	s.mu.Lock()
	s.page.SetSearchTerm(term)
	s.searchGen++
	gen := s.searchGen
	s.mu.Unlock()

	res := SearchShows(ctx, s.client, term)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.searchGen {
		metrics.StaleResponsesTotal.WithLabelValues(metrics.PipelineSearch).Inc()
		logger.Debug().Str("session", s.ID).Str("term", term).Uint64("generation", gen).Msg("Discarding stale search response")
		return res
	}
	if !res.OK() {
		s.fail(metrics.PipelineSearch, res.Err)
		return res
	}

	s.page.EpisodesArea().Hide()
	if err := render.DisplayShows(s.page.ShowsList(), res.Records); err != nil {
		res.Err = err
		s.fail(metrics.PipelineSearch, err)
		return res
	}
	s.page.SetNotice("")

	logger.Debug().Str("session", s.ID).Str("term", term).Int("count", len(res.Records)).Msg("Shows displayed")
	return res
}

// ActivateEpisodes handles activation of an episodes control. The show id is
// read from the enclosing show fragment. control must belong to this session's page.
func (s *Session) ActivateEpisodes(ctx context.Context, control *goquery.Selection) models.Result[models.Episode] {
	s.mu.Lock()
	showID, err := showIDOf(control)
	s.mu.Unlock()

	if err != nil {
		return models.Result[models.Episode]{Err: err}
	}
	return s.runEpisodes(ctx, showID)
}

// RequestEpisodes activates the episodes control of the listed show showID.
// A show that is not currently listed yields an *apperrors.ErrNotFound without any upstream call.
func (s *Session) RequestEpisodes(ctx context.Context, showID int) models.Result[models.Episode] {
	selector := fmt.Sprintf(`.Show[data-show-id="%d"] %s`, showID, render.EpisodesControlSelector)

	s.mu.Lock()
	control := s.page.Find(selector).First()
	s.mu.Unlock()

	if control.Length() == 0 {
		err := apperrors.NewNotFoundError("listed show", showID)
		s.mu.Lock()
		s.page.SetNotice(FailureMessage(err))
		s.mu.Unlock()
		return models.Result[models.Episode]{Err: err}
	}
	return s.ActivateEpisodes(ctx, control)
}

func (s *Session) runEpisodes(ctx context.Context, showID int) models.Result[models.Episode] {
	logger := config.GetLogger()

	s.mu.Lock()
	s.episodesGen++
	gen := s.episodesGen
	s.mu.Unlock()

	res := GetEpisodes(ctx, s.client, showID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.episodesGen {
		metrics.StaleResponsesTotal.WithLabelValues(metrics.PipelineEpisodes).Inc()
		logger.Debug().Str("session", s.ID).Int("show_id", showID).Uint64("generation", gen).Msg("Discarding stale episodes response")
		return res
	}
	if !res.OK() {
		s.fail(metrics.PipelineEpisodes, res.Err)
		return res
	}

	if err := render.DisplayEpisodes(s.page.EpisodesList(), res.Records); err != nil {
		res.Err = err
		s.fail(metrics.PipelineEpisodes, err)
		return res
	}
	s.page.EpisodesArea().Show()
	s.page.SetNotice("")

	logger.Debug().Str("session", s.ID).Int("show_id", showID).Int("count", len(res.Records)).Msg("Episodes displayed")
	return res
}

// fail surfaces err on the page and reports it. Callers hold s.mu.
func (s *Session) fail(pipeline string, err error) {
	logger := config.GetLogger()
	logger.Warn().Err(err).Str("session", s.ID).Str("pipeline", pipeline).Str("kind", string(apperrors.KindOf(err))).Msg("Pipeline failed")

	s.page.SetNotice(FailureMessage(err))
	if s.reporter != nil {
		s.reporter.ReportFailure(pipeline, err)
	}
}

// HTML serializes the session's page.
func (s *Session) HTML() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page.HTML()
}

// view runs fn with exclusive access to the page. fn must not retain the page.
func (s *Session) view(fn func(page *render.Page)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.page)
}

func showIDOf(control *goquery.Selection) (int, error) {
	raw, ok := control.Closest(".Show").Attr("data-show-id")
	if !ok {
		return 0, fmt.Errorf("episodes control is not inside a show fragment")
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid show id %q: %w", raw, err)
	}
	return id, nil
}
