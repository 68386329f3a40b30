package server

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"

	"github.com/wfunc/improvbattle/logger"
	"github.com/wfunc/improvbattle/monitor"
	"github.com/wfunc/improvbattle/navigation"
	"github.com/wfunc/improvbattle/pages"
	"github.com/wfunc/improvbattle/player"
)

func (s *GameServer) render(c *gin.Context, status int, component templ.Component) {
	templ.Handler(component,
		templ.WithStatus(status),
		templ.WithErrorHandler(renderError),
	).ServeHTTP(c.Writer, c.Request)
}

func renderError(r *http.Request, err error) http.Handler {
	logger.Log.Errorw("render page", "path", r.URL.Path, "error", err)
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	})
}

func (s *GameServer) landingView(name string) pages.LandingView {
	return pages.LandingView{
		Title:        s.cfg.Pages.Title,
		Name:         name,
		NoticeMode:   s.cfg.Pages.NoticeMode,
		EmptyMessage: s.cfg.Pages.EmptyNameMessage,
		StartPath:    navigation.StartPath,
	}
}

func (s *GameServer) handleLanding(c *gin.Context) {
	s.monitor.IncPageView("landing")
	s.render(c, http.StatusOK, pages.Landing(s.landingView("")))
}

// handleStart is the landing page's start action: an empty name re-renders
// the form with the entered text and a notice, anything else moves on to the
// game page.
func (s *GameServer) handleStart(c *gin.Context) {
	raw := c.PostForm(player.QueryKey)

	name, err := player.Validate(raw)
	if err != nil {
		s.monitor.IncStart(monitor.OutcomeRejected)
		view := s.landingView(raw)
		view.Notice = &pages.Notice{Message: s.cfg.Pages.EmptyNameMessage}
		s.render(c, http.StatusUnprocessableEntity, pages.Landing(view))
		return
	}

	s.monitor.IncStart(monitor.OutcomeAccepted)
	c.Redirect(http.StatusSeeOther, navigation.Target(name))
}

func (s *GameServer) handleGame(c *gin.Context) {
	s.monitor.IncPageView("game")
	name := player.FromQuery(c.Request.URL.Query())

	view := pages.GameView{
		Title:       s.cfg.Pages.Title,
		PlayerName:  name.String(),
		DefaultName: player.DefaultName.String(),
		Element:     s.cfg.Widget.Element,
		Widget:      s.agent.Mount(name.String()),
	}
	if s.cfg.Presence.Enabled {
		view.PresencePath = PresencePath
		view.HeartbeatMillis = s.cfg.Presence.HeartbeatInterval.Milliseconds()
	}
	s.render(c, http.StatusOK, pages.Game(view))
}
