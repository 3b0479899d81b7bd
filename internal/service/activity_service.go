package service

import (
	"time"

	"github.com/songperch/songperch/internal/models"
	"github.com/songperch/songperch/internal/repositories"
	"github.com/songperch/songperch/internal/sanitize"
	"github.com/songperch/songperch/internal/threads"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ActivityEntry is one row of a user's activity feed: a notification joined
// with the comment that produced it and the thread the comment lives on.
type ActivityEntry struct {
	NotificationID uint                `json:"notification_id"`
	CommentID      uint                `json:"comment_id"`
	Content        string              `json:"content"`
	AuthorName     string              `json:"author_name"`
	ReplyToContent string              `json:"reply_to_content,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	Thread         threads.DisplayInfo `json:"thread"`
}

// ActivityService builds activity feeds from stored notifications and tracks
// each user's last-viewed watermark.
type ActivityService struct {
	db       *gorm.DB
	registry *threads.Registry
	logger   *zap.Logger
}

func NewActivityService(db *gorm.DB, registry *threads.Registry, logger *zap.Logger) *ActivityService {
	return &ActivityService{db: db, registry: registry, logger: logger}
}

// Feed returns the user's notifications newest-first, each enriched with the
// originating comment and its thread, and advances the user's last-viewed
// watermark so the new-activity flag clears. Notifications whose comment or
// thread can no longer be resolved are skipped.
func (s *ActivityService) Feed(userID uint) ([]ActivityEntry, error) {
	var entries []ActivityEntry
	err := s.db.Transaction(func(tx *gorm.DB) error {
		notificationRepo := repositories.NewPostgresNotificationRepository(tx)
		commentRepo := repositories.NewPostgresCommentRepository(tx)
		threadRepo := repositories.NewPostgresThreadRepository(tx)
		userRepo := repositories.NewPostgresUserRepository(tx)

		notifications, err := notificationRepo.GetByTargetUserID(userID)
		if err != nil {
			return err
		}

		usernames := make(map[uint]string)
		authorName := func(id uint) string {
			if name, ok := usernames[id]; ok {
				return name
			}
			name := ""
			if user, err := userRepo.GetUserByID(id); err == nil {
				name = user.Username
			}
			usernames[id] = name
			return name
		}

		entries = make([]ActivityEntry, 0, len(notifications))
		for _, n := range notifications {
			if n.ObjectKind != models.ObjectKindComment {
				continue
			}
			comment, err := commentRepo.GetCommentByID(n.ObjectID)
			if err != nil {
				s.logger.Warn("skipping notification with missing comment",
					zap.Uint("notification_id", n.ID), zap.Uint("comment_id", n.ObjectID))
				continue
			}
			thread, err := threadRepo.GetThreadByID(comment.ThreadID)
			if err != nil {
				continue
			}
			info, err := s.registry.Resolve(thread.Kind, thread.ID)
			if err != nil {
				s.logger.Warn("skipping notification on unresolvable thread",
					zap.Uint("thread_id", thread.ID), zap.Error(err))
				continue
			}

			entry := ActivityEntry{
				NotificationID: n.ID,
				CommentID:      comment.ID,
				Content:        sanitize.UserText(comment.Content),
				AuthorName:     authorName(comment.AuthorID),
				CreatedAt:      n.CreatedAt,
				Thread:         *info,
			}
			if comment.ReplyToID != nil {
				if parent, err := commentRepo.GetCommentByID(*comment.ReplyToID); err == nil {
					entry.ReplyToContent = sanitize.UserText(parent.Content)
				}
			}
			entries = append(entries, entry)
		}

		return userRepo.UpdateActivityTime(userID, time.Now().UTC())
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// HasNewActivity reports whether the user has notifications newer than their
// last feed view. A user who has never viewed the feed has new activity as
// soon as any notification exists.
func (s *ActivityService) HasNewActivity(userID uint) (bool, error) {
	notificationRepo := repositories.NewPostgresNotificationRepository(s.db)
	userRepo := repositories.NewPostgresUserRepository(s.db)

	latest, err := notificationRepo.GetLatestForUser(userID)
	if err != nil {
		return false, err
	}
	if latest == nil {
		return false, nil
	}
	user, err := userRepo.GetUserByID(userID)
	if err != nil {
		return false, notFoundIfMissing(err)
	}
	return user.ActivityTime == nil || user.ActivityTime.Before(latest.CreatedAt), nil
}
