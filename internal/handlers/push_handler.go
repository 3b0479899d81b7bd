package handlers

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/songperch/songperch/internal/middleware"
	"github.com/songperch/songperch/internal/models"
	"github.com/songperch/songperch/internal/service"
	"go.uber.org/zap"
)

// maxSubscriptionBytes bounds the stored endpoint blob; real browser
// subscriptions are well under 1 KiB.
const maxSubscriptionBytes = 8 * 1024

// PushHandler manages browser push subscriptions and their per-category
// settings.
type PushHandler struct {
	subscriptions  *service.SubscriptionService
	vapidPublicKey string
	logger         *zap.Logger
}

func NewPushHandler(subscriptions *service.SubscriptionService, vapidPublicKey string, logger *zap.Logger) *PushHandler {
	return &PushHandler{subscriptions: subscriptions, vapidPublicKey: vapidPublicKey, logger: logger}
}

func (h *PushHandler) RegisterPushRoutes(g *echo.Group) {
	g.GET("/push-notifications/vapid-public-key", h.VAPIDPublicKey)
	g.GET("/push-notifications", h.List)
	g.POST("/push-notifications/subscribe", h.Subscribe)
	g.POST("/push-notifications/settings", h.UpdateSettings)
	g.DELETE("/push-notifications/:id", h.Revoke)
}

// VAPIDPublicKey hands the client the key it needs to register with the
// browser's push service.
func (h *PushHandler) VAPIDPublicKey(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"public_key": h.vapidPublicKey})
}

func (h *PushHandler) List(c echo.Context) error {
	subs, err := h.subscriptions.SubscriptionsFor(middleware.UserID(c))
	if err != nil {
		return httpError(err)
	}
	if subs == nil {
		subs = []models.PushSubscription{}
	}
	return c.JSON(http.StatusOK, subs)
}

// Subscribe stores the raw subscription JSON produced by the browser's
// PushManager.
func (h *PushHandler) Subscribe(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxSubscriptionBytes))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	sub, err := h.subscriptions.Subscribe(middleware.UserID(c), body)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, sub)
}

func (h *PushHandler) UpdateSettings(c echo.Context) error {
	req := new(models.UpdateSettingsRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	if err := h.subscriptions.UpdateSettings(req.SubscriptionID, middleware.UserID(c), req.Comments, req.Songs); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PushHandler) Revoke(c echo.Context) error {
	id, ok, err := paramUint(c, "id")
	if err != nil || !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid subscription ID")
	}
	sub, err := h.subscriptions.SubscriptionsFor(middleware.UserID(c))
	if err != nil {
		return httpError(err)
	}
	for _, s := range sub {
		if s.ID == id {
			if err := h.subscriptions.Revoke(id); err != nil {
				return httpError(err)
			}
			break
		}
	}
	return c.NoContent(http.StatusNoContent)
}
