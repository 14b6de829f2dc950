package web

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Belphemur/ShowFinder/internal/services"
)

// SessionCookie names the cookie holding the session id.
const SessionCookie = "showfinder_session"

// session returns the caller's session, starting one and setting the cookie when needed.
func (s *Server) session(c echo.Context) (*services.Session, error) {
	var id string
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		id = cookie.Value
	}

	sess, created, err := s.sessions.GetOrCreate(id)
	if err != nil {
		return nil, err
	}
	if created {
		c.SetCookie(&http.Cookie{
			Name:     SessionCookie,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		s.logger.Debug().Str("session", sess.ID).Msg("Session started")
	}
	return sess, nil
}
