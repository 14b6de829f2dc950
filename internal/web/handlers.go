package web

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Belphemur/ShowFinder/internal/apperrors"
	"github.com/Belphemur/ShowFinder/internal/metrics"
	"github.com/Belphemur/ShowFinder/internal/services"
)

// errorResponse is the JSON body of a failed API call.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) index(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	page, err := sess.HTML()
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return c.HTML(http.StatusOK, page)
}

// submitSearch runs the query pipeline into the caller's page. Failures are
// shown on the page itself, so the response is always a redirect.
func (s *Server) submitSearch(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	sess.SubmitSearch(c.Request().Context(), c.FormValue("term"))
	return c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) requestEpisodes(c echo.Context) error {
	showID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid show id")
	}
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	sess.RequestEpisodes(c.Request().Context(), showID)
	return c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) apiSearchShows(c echo.Context) error {
	res := services.SearchShows(c.Request().Context(), s.client, c.QueryParam("q"))
	if !res.OK() {
		return s.apiError(c, metrics.PipelineSearch, res.Err)
	}
	return c.JSON(http.StatusOK, res.Records)
}

func (s *Server) apiGetEpisodes(c echo.Context) error {
	showID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid show id", Kind: string(apperrors.KindUnknown)})
	}
	res := services.GetEpisodes(c.Request().Context(), s.client, showID)
	if !res.OK() {
		return s.apiError(c, metrics.PipelineEpisodes, res.Err)
	}
	return c.JSON(http.StatusOK, res.Records)
}

func (s *Server) apiError(c echo.Context, pipeline string, err error) error {
	if s.reporter != nil {
		s.reporter.ReportFailure(pipeline, err)
	}
	kind := apperrors.KindOf(err)
	return c.JSON(statusFor(kind), errorResponse{Error: services.FailureMessage(err), Kind: string(kind)})
}

func statusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindNetworkFailure, apperrors.KindMalformedResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
