package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/songperch/songperch/internal/middleware"
	"github.com/songperch/songperch/internal/models"
	"github.com/songperch/songperch/internal/service"
	"go.uber.org/zap"
)

type SongHandler struct {
	content  *service.ContentService
	comments *service.CommentService
	logger   *zap.Logger
}

func NewSongHandler(content *service.ContentService, comments *service.CommentService, logger *zap.Logger) *SongHandler {
	return &SongHandler{content: content, comments: comments, logger: logger}
}

func (h *SongHandler) RegisterSongRoutes(public, private *echo.Group) {
	public.GET("/songs/:id", h.GetSong)
	private.POST("/songs", h.CreateSong)
	private.DELETE("/songs/:id", h.DeleteSong)
}

func (h *SongHandler) CreateSong(c echo.Context) error {
	req := new(models.CreateSongRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	song, err := h.content.CreateSong(middleware.UserID(c), *req)
	if err != nil {
		h.logger.Error("failed to create song", zap.Error(err))
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, song)
}

// GetSong returns the song together with its comment thread.
func (h *SongHandler) GetSong(c echo.Context) error {
	id, _, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	song, err := h.content.GetSong(id)
	if err != nil {
		return httpError(err)
	}
	comments, err := h.comments.ListForThread(song.ThreadID)
	if err != nil {
		return httpError(err)
	}
	if comments == nil {
		comments = []models.CommentNode{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"song":     song,
		"comments": comments,
	})
}

func (h *SongHandler) DeleteSong(c echo.Context) error {
	id, _, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	if err := h.content.DeleteSong(id, middleware.UserID(c)); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
