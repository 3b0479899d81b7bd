package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/songperch/songperch/internal/middleware"
	"github.com/songperch/songperch/internal/models"
	"github.com/songperch/songperch/internal/service"
	"go.uber.org/zap"
)

type PlaylistHandler struct {
	content  *service.ContentService
	comments *service.CommentService
	logger   *zap.Logger
}

func NewPlaylistHandler(content *service.ContentService, comments *service.CommentService, logger *zap.Logger) *PlaylistHandler {
	return &PlaylistHandler{content: content, comments: comments, logger: logger}
}

func (h *PlaylistHandler) RegisterPlaylistRoutes(public, private *echo.Group) {
	public.GET("/playlists/:id", h.GetPlaylist)
	private.POST("/playlists", h.CreatePlaylist)
	private.POST("/playlists/:id/songs", h.AddSong)
	private.DELETE("/playlists/:id", h.DeletePlaylist)
}

func (h *PlaylistHandler) CreatePlaylist(c echo.Context) error {
	req := new(models.CreatePlaylistRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	playlist, err := h.content.CreatePlaylist(middleware.UserID(c), *req)
	if err != nil {
		h.logger.Error("failed to create playlist", zap.Error(err))
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, playlist)
}

func (h *PlaylistHandler) GetPlaylist(c echo.Context) error {
	id, _, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	playlist, err := h.content.GetPlaylist(id)
	if err != nil {
		return httpError(err)
	}
	comments, err := h.comments.ListForThread(playlist.ThreadID)
	if err != nil {
		return httpError(err)
	}
	if comments == nil {
		comments = []models.CommentNode{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"playlist": playlist,
		"comments": comments,
	})
}

func (h *PlaylistHandler) AddSong(c echo.Context) error {
	playlistID, _, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	songID, ok, err := queryUint(c, "songid")
	if err != nil {
		return err
	}
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "songid is required")
	}
	if err := h.content.AddSongToPlaylist(playlistID, songID, middleware.UserID(c)); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PlaylistHandler) DeletePlaylist(c echo.Context) error {
	id, _, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	if err := h.content.DeletePlaylist(id, middleware.UserID(c)); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
