package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/songperch/songperch/internal/models"
	"github.com/songperch/songperch/internal/repositories"
	"github.com/songperch/songperch/internal/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProfileHandler serves public profile pages: the user, their songs, and the
// profile thread's comments.
type ProfileHandler struct {
	users    repositories.UserRepository
	songs    repositories.SongRepository
	comments *service.CommentService
	logger   *zap.Logger
}

func NewProfileHandler(users repositories.UserRepository, songs repositories.SongRepository, comments *service.CommentService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{users: users, songs: songs, comments: comments, logger: logger}
}

func (h *ProfileHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/users/:username", h.GetProfile)
}

func (h *ProfileHandler) GetProfile(c echo.Context) error {
	user, err := h.users.GetUserByUsername(c.Param("username"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return httpError(err)
	}

	songs, err := h.songs.GetSongsByUserID(user.ID)
	if err != nil {
		return httpError(err)
	}
	if songs == nil {
		songs = []models.Song{}
	}

	comments, err := h.comments.ListForThread(user.ThreadID)
	if err != nil {
		return httpError(err)
	}
	if comments == nil {
		comments = []models.CommentNode{}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"user":     user,
		"songs":    songs,
		"comments": comments,
	})
}
