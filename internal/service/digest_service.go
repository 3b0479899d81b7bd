package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/songperch/songperch/internal/models"
	"github.com/songperch/songperch/internal/push"
	"github.com/songperch/songperch/internal/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DigestService sends the periodic new-songs push digest: one notification
// per run summarizing every song uploaded inside the lookback window, to all
// users whose subscriptions opted into song notifications. Digests are push
// only; they never create notification rows.
type DigestService struct {
	db       *gorm.DB
	notifier push.Notifier
	logger   *zap.Logger
	lookback time.Duration
}

func NewDigestService(db *gorm.DB, notifier push.Notifier, logger *zap.Logger, lookback time.Duration) *DigestService {
	return &DigestService{db: db, notifier: notifier, logger: logger, lookback: lookback}
}

// Run builds and dispatches the digest for uploads since now minus the
// lookback window. When every song in the window came from a single uploader,
// that uploader is left out of the audience.
func (s *DigestService) Run(now time.Time) error {
	songRepo := repositories.NewPostgresSongRepository(s.db)
	userRepo := repositories.NewPostgresUserRepository(s.db)

	since := now.Add(-s.lookback)
	songs, err := songRepo.GetSongsCreatedSince(since)
	if err != nil {
		return err
	}
	if len(songs) == 0 {
		s.logger.Info("no new songs in window, skipping digest", zap.Time("since", since))
		return nil
	}

	// Uploaders in upload order, deduplicated.
	var uploaderIDs []uint
	seen := make(map[uint]struct{})
	for _, song := range songs {
		if _, ok := seen[song.UserID]; ok {
			continue
		}
		seen[song.UserID] = struct{}{}
		uploaderIDs = append(uploaderIDs, song.UserID)
	}

	uploaderNames := make([]string, 0, len(uploaderIDs))
	for _, id := range uploaderIDs {
		user, err := userRepo.GetUserByID(id)
		if err != nil {
			return err
		}
		uploaderNames = append(uploaderNames, user.Username)
	}

	var title string
	if len(songs) == 1 {
		title = fmt.Sprintf("New song from %s", uploaderNames[0])
	} else {
		title = fmt.Sprintf("New songs from %s", strings.Join(uploaderNames, ", "))
	}

	titles := make([]string, 0, len(songs))
	for _, song := range songs {
		titles = append(titles, song.Title)
	}
	body := strings.Join(titles, ", ")

	targets, err := userRepo.GetAllUserIDs()
	if err != nil {
		return err
	}
	if len(uploaderIDs) == 1 {
		filtered := targets[:0]
		for _, id := range targets {
			if id != uploaderIDs[0] {
				filtered = append(filtered, id)
			}
		}
		targets = filtered
	}

	s.logger.Info("dispatching new-songs digest",
		zap.Int("songs", len(songs)),
		zap.Int("uploaders", len(uploaderIDs)),
		zap.Int("targets", len(targets)))
	s.notifier.Notify(targets, title, body, "/", models.NotifySongs)
	return nil
}
