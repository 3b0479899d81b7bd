package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/songperch/songperch/internal/middleware"
	"github.com/songperch/songperch/internal/service"
	"go.uber.org/zap"
)

// ActivityHandler serves the notification feed and the lightweight
// new-activity poll.
type ActivityHandler struct {
	activity *service.ActivityService
	logger   *zap.Logger
}

func NewActivityHandler(activity *service.ActivityService, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{activity: activity, logger: logger}
}

func (h *ActivityHandler) RegisterActivityRoutes(g *echo.Group) {
	g.GET("/activity", h.Feed)
	g.GET("/new-activity", h.NewActivity)
}

// Feed returns the caller's activity entries and marks the feed as viewed.
func (h *ActivityHandler) Feed(c echo.Context) error {
	entries, err := h.activity.Feed(middleware.UserID(c))
	if err != nil {
		h.logger.Error("failed to build activity feed", zap.Error(err))
		return httpError(err)
	}
	if entries == nil {
		entries = []service.ActivityEntry{}
	}
	return c.JSON(http.StatusOK, entries)
}

// NewActivity reports whether unseen notifications exist, without marking
// anything viewed.
func (h *ActivityHandler) NewActivity(c echo.Context) error {
	hasNew, err := h.activity.HasNewActivity(middleware.UserID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"new_activity": hasNew})
}
