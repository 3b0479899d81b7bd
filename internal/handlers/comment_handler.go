package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/songperch/songperch/internal/middleware"
	"github.com/songperch/songperch/internal/models"
	"github.com/songperch/songperch/internal/service"
	"go.uber.org/zap"
)

// CommentHandler exposes the comment form endpoint and thread listings. The
// form endpoint mirrors a classic server-rendered flow: it reads its targets
// from query parameters and redirects back to the page the form was on.
type CommentHandler struct {
	comments *service.CommentService
	logger   *zap.Logger
}

func NewCommentHandler(comments *service.CommentService, logger *zap.Logger) *CommentHandler {
	return &CommentHandler{comments: comments, logger: logger}
}

func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/comment", h.PostComment)
	g.GET("/delete-comment/:id", h.DeleteComment)
}

func (h *CommentHandler) RegisterThreadRoutes(g *echo.Group) {
	g.GET("/threads/:id/comments", h.ListComments)
}

// PostComment creates, replies to, or edits a comment depending on which of
// the replytoid and commentid query parameters are present.
func (h *CommentHandler) PostComment(c echo.Context) error {
	userID := middleware.UserID(c)

	req := new(models.PostCommentRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	if editID, ok, err := queryUint(c, "commentid"); err != nil {
		return err
	} else if ok {
		if err := h.comments.EditComment(editID, userID, req.Content); err != nil {
			return httpError(err)
		}
		return redirectBack(c)
	}

	threadID, ok, err := queryUint(c, "threadid")
	if err != nil {
		return err
	}
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "threadid is required")
	}

	var replyToID *uint
	if id, ok, err := queryUint(c, "replytoid"); err != nil {
		return err
	} else if ok {
		replyToID = &id
	}

	if _, err := h.comments.PostComment(threadID, userID, req.Content, replyToID); err != nil {
		return httpError(err)
	}
	return redirectBack(c)
}

func (h *CommentHandler) DeleteComment(c echo.Context) error {
	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid comment ID")
	}
	if err := h.comments.DeleteComment(uint(commentID), middleware.UserID(c)); err != nil {
		return httpError(err)
	}
	return redirectBack(c)
}

func (h *CommentHandler) ListComments(c echo.Context) error {
	threadID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid thread ID")
	}
	nodes, err := h.comments.ListForThread(uint(threadID))
	if err != nil {
		return httpError(err)
	}
	if nodes == nil {
		nodes = []models.CommentNode{}
	}
	return c.JSON(http.StatusOK, nodes)
}

// queryUint parses an optional numeric query parameter. The middle return
// reports whether the parameter was present.
func queryUint(c echo.Context, name string) (uint, bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, false, nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(id), true, nil
}

// paramUint parses a numeric path parameter.
func paramUint(c echo.Context, name string) (uint, bool, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, false, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(id), true, nil
}

// redirectBack sends the browser to the page the form was submitted from.
func redirectBack(c echo.Context) error {
	target := c.Request().Referer()
	if target == "" {
		target = "/"
	}
	return c.Redirect(http.StatusFound, target)
}
