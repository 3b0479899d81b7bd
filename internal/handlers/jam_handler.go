package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/songperch/songperch/internal/middleware"
	"github.com/songperch/songperch/internal/models"
	"github.com/songperch/songperch/internal/service"
	"go.uber.org/zap"
)

type JamHandler struct {
	content  *service.ContentService
	comments *service.CommentService
	logger   *zap.Logger
}

func NewJamHandler(content *service.ContentService, comments *service.CommentService, logger *zap.Logger) *JamHandler {
	return &JamHandler{content: content, comments: comments, logger: logger}
}

func (h *JamHandler) RegisterJamRoutes(private *echo.Group) {
	private.POST("/jams", h.CreateJam)
	private.POST("/jams/:id/events", h.CreateJamEvent)
	private.DELETE("/jam-events/:id", h.DeleteJamEvent)
}

func (h *JamHandler) CreateJam(c echo.Context) error {
	req := new(models.CreateJamRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	jam, err := h.content.CreateJam(middleware.UserID(c), *req)
	if err != nil {
		h.logger.Error("failed to create jam", zap.Error(err))
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, jam)
}

func (h *JamHandler) CreateJamEvent(c echo.Context) error {
	jamID, _, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	req := new(models.CreateJamEventRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	event, err := h.content.CreateJamEvent(jamID, middleware.UserID(c), *req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, event)
}

func (h *JamHandler) DeleteJamEvent(c echo.Context) error {
	id, _, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	if err := h.content.DeleteJamEvent(id, middleware.UserID(c)); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
