package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/songperch/songperch/internal/handlers"
	"github.com/songperch/songperch/internal/middleware"
	"github.com/songperch/songperch/internal/models"
	"github.com/songperch/songperch/internal/push"
	"github.com/songperch/songperch/internal/repositories"
	"github.com/songperch/songperch/internal/service"
	"github.com/songperch/songperch/internal/threads"
	"github.com/songperch/songperch/internal/validators"
	"github.com/songperch/songperch/pkg/config"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// New wires repositories, services and handlers into an echo instance. The
// notifier is built by the caller so the server and the digest job can share
// the same delivery engine.
func New(db *gorm.DB, notifier push.Notifier, vapidPublicKey string, cfg *config.Config, logger *zap.Logger) (*echo.Echo, error) {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Thread{},
		&models.Comment{},
		&models.Notification{},
		&models.PushSubscription{},
		&models.Song{},
		&models.Playlist{},
		&models.PlaylistSong{},
		&models.Jam{},
		&models.JamEvent{},
	); err != nil {
		return nil, err
	}

	registry := NewRegistry(db)

	userService := service.NewUserService(db, logger)
	commentService := service.NewCommentService(db, registry, notifier, logger)
	activityService := service.NewActivityService(db, registry, logger)
	subscriptionService := service.NewSubscriptionService(db, logger)
	contentService := service.NewContentService(db, logger)

	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	e.Use(echomw.Recover())

	public := e.Group("")
	private := e.Group("", middleware.JWTAuth(cfg.JWTSecret))

	authHandler := handlers.NewAuthHandler(userService, cfg.JWTSecret, logger)
	authHandler.RegisterAuthRoutes(public)

	commentHandler := handlers.NewCommentHandler(commentService, logger)
	commentHandler.RegisterCommentRoutes(private)
	commentHandler.RegisterThreadRoutes(public)

	activityHandler := handlers.NewActivityHandler(activityService, logger)
	activityHandler.RegisterActivityRoutes(private)

	pushHandler := handlers.NewPushHandler(subscriptionService, vapidPublicKey, logger)
	pushHandler.RegisterPushRoutes(private)

	songHandler := handlers.NewSongHandler(contentService, commentService, logger)
	songHandler.RegisterSongRoutes(public, private)

	playlistHandler := handlers.NewPlaylistHandler(contentService, commentService, logger)
	playlistHandler.RegisterPlaylistRoutes(public, private)

	jamHandler := handlers.NewJamHandler(contentService, commentService, logger)
	jamHandler.RegisterJamRoutes(private)

	profileHandler := handlers.NewProfileHandler(
		repositories.NewPostgresUserRepository(db),
		repositories.NewPostgresSongRepository(db),
		commentService,
		logger,
	)
	profileHandler.RegisterProfileRoutes(public)

	handlers.NewHealthHandler(db).RegisterHealthRoutes(e)

	return e, nil
}

// NewRegistry builds the thread registry with a resolver per commentable
// content kind.
func NewRegistry(db *gorm.DB) *threads.Registry {
	registry := threads.NewRegistry()
	registry.Register(models.ThreadKindSong, repositories.NewPostgresSongRepository(db))
	registry.Register(models.ThreadKindProfile, repositories.NewPostgresUserRepository(db))
	registry.Register(models.ThreadKindPlaylist, repositories.NewPostgresPlaylistRepository(db))
	registry.Register(models.ThreadKindJamEvent, repositories.NewPostgresJamRepository(db))
	return registry
}
