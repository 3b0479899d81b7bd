package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/songperch/songperch/internal/models"
	"github.com/songperch/songperch/internal/push"
	"github.com/songperch/songperch/internal/repositories"
	"github.com/songperch/songperch/internal/sanitize"
	"github.com/songperch/songperch/internal/threads"
	"github.com/songperch/songperch/pkg/metrics"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CommentService implements the comment store and the notification fan-out.
// Posting a comment and writing its notification rows happen in one
// transaction; push delivery is handed off to the dispatcher after commit.
type CommentService struct {
	db       *gorm.DB
	registry *threads.Registry
	notifier push.Notifier
	logger   *zap.Logger
}

func NewCommentService(db *gorm.DB, registry *threads.Registry, notifier push.Notifier, logger *zap.Logger) *CommentService {
	return &CommentService{db: db, registry: registry, notifier: notifier, logger: logger}
}

// PostComment creates a comment on a thread and notifies the thread owner
// plus, for replies, everyone else in the sub-thread. The poster is never
// notified. replyToID may name any comment on the thread; replies to replies
// are normalized to the top-level ancestor so observed depth never exceeds
// one level.
func (s *CommentService) PostComment(threadID, authorID uint, content string, replyToID *uint) (*models.Comment, error) {
	var (
		comment *models.Comment
		targets []uint
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		threadRepo := repositories.NewPostgresThreadRepository(tx)
		commentRepo := repositories.NewPostgresCommentRepository(tx)
		notificationRepo := repositories.NewPostgresNotificationRepository(tx)

		thread, err := threadRepo.GetThreadByID(threadID)
		if err != nil {
			return notFoundIfMissing(err)
		}

		var replyTo *models.Comment
		if replyToID != nil {
			replyTo, err = commentRepo.GetCommentByID(*replyToID)
			if err != nil {
				return notFoundIfMissing(err)
			}
			if replyTo.ThreadID != threadID {
				return ErrNotFound
			}
			if replyTo.ReplyToID != nil {
				// Reply to a reply: record it against the top-level ancestor.
				replyTo, err = commentRepo.GetCommentByID(*replyTo.ReplyToID)
				if err != nil {
					return notFoundIfMissing(err)
				}
			}
		}

		now := time.Now().UTC()
		comment = &models.Comment{
			ThreadID:  threadID,
			AuthorID:  authorID,
			Content:   content,
			CreatedAt: now,
		}
		if replyTo != nil {
			parentID := replyTo.ID
			comment.ReplyToID = &parentID
		}
		if err := commentRepo.CreateComment(comment); err != nil {
			return err
		}

		targets, err = s.fanOutTargets(commentRepo, thread, comment, replyTo)
		if err != nil {
			return err
		}
		for _, target := range targets {
			n := &models.Notification{
				ObjectID:     comment.ID,
				ObjectKind:   models.ObjectKindComment,
				TargetUserID: target,
				CreatedAt:    now,
			}
			if err := notificationRepo.CreateNotification(n); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.CommentsPosted.Inc()
	metrics.NotificationsCreated.Add(float64(len(targets)))
	s.pushComment(comment, targets)
	return comment, nil
}

// fanOutTargets computes the set of users to notify for a new comment:
// {thread owner} plus, for a reply, the sub-thread's other participants,
// minus the poster. Set semantics: a user qualifying several ways is notified
// once.
func (s *CommentService) fanOutTargets(commentRepo repositories.CommentRepository, thread *models.Thread, comment *models.Comment, replyTo *models.Comment) ([]uint, error) {
	targetSet := map[uint]struct{}{thread.OwnerID: {}}
	if replyTo != nil {
		targetSet[replyTo.AuthorID] = struct{}{}
		siblings, err := commentRepo.GetRepliesByCommentID(replyTo.ID)
		if err != nil {
			return nil, err
		}
		for _, sibling := range siblings {
			if sibling.ID == comment.ID {
				continue
			}
			targetSet[sibling.AuthorID] = struct{}{}
		}
	}
	delete(targetSet, comment.AuthorID)

	targets := make([]uint, 0, len(targetSet))
	for target := range targetSet {
		targets = append(targets, target)
	}
	return targets, nil
}

// pushComment renders the push message for a freshly committed comment and
// hands it to the delivery engine. Push is a convenience layer on top of the
// durable notification rows; failures here are logged and swallowed.
func (s *CommentService) pushComment(comment *models.Comment, targets []uint) {
	if len(targets) == 0 {
		return
	}

	authorName := "Someone"
	if author, err := repositories.NewPostgresUserRepository(s.db).GetUserByID(comment.AuthorID); err == nil {
		authorName = author.Username
	}

	title := fmt.Sprintf("New comment from %s", authorName)
	url := "/activity"
	thread, err := repositories.NewPostgresThreadRepository(s.db).GetThreadByID(comment.ThreadID)
	if err == nil {
		if info, resolveErr := s.registry.Resolve(thread.Kind, thread.ID); resolveErr == nil {
			title = fmt.Sprintf("%s commented on %s", authorName, info.Title)
			url = info.URL
		} else {
			s.logger.Warn("failed to resolve thread for push rendering",
				zap.Uint("thread_id", comment.ThreadID), zap.Error(resolveErr))
		}
	}

	s.notifier.Notify(targets, title, comment.Content, url, models.NotifyComments)
}

// EditComment replaces a comment's content. Only the author may edit, and the
// creation timestamp is untouched; edits never generate notifications.
func (s *CommentService) EditComment(commentID, editorID uint, content string) error {
	commentRepo := repositories.NewPostgresCommentRepository(s.db)
	comment, err := commentRepo.GetCommentByID(commentID)
	if err != nil {
		return notFoundIfMissing(err)
	}
	if comment.AuthorID != editorID {
		return ErrForbidden
	}
	return commentRepo.UpdateCommentContent(commentID, content)
}

// DeleteComment removes a comment. Both the comment's author and the thread's
// owner may delete; replies to the comment and every notification referencing
// any deleted comment go with it.
func (s *CommentService) DeleteComment(commentID, requesterID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		commentRepo := repositories.NewPostgresCommentRepository(tx)
		threadRepo := repositories.NewPostgresThreadRepository(tx)
		notificationRepo := repositories.NewPostgresNotificationRepository(tx)

		comment, err := commentRepo.GetCommentByID(commentID)
		if err != nil {
			return notFoundIfMissing(err)
		}
		thread, err := threadRepo.GetThreadByID(comment.ThreadID)
		if err != nil {
			return notFoundIfMissing(err)
		}
		if requesterID != comment.AuthorID && requesterID != thread.OwnerID {
			return ErrForbidden
		}

		replyIDs, err := commentRepo.GetReplyIDsByCommentID(commentID)
		if err != nil {
			return err
		}
		doomed := append([]uint{commentID}, replyIDs...)
		if err := commentRepo.DeleteCommentsByIDs(doomed); err != nil {
			return err
		}
		return notificationRepo.DeleteByObjectIDs(models.ObjectKindComment, doomed)
	})
}

// ListForThread returns the thread's comments as an ordered tree: top-level
// comments newest-first, each with its replies oldest-first. Content is
// sanitized here, at render time.
func (s *CommentService) ListForThread(threadID uint) ([]models.CommentNode, error) {
	threadRepo := repositories.NewPostgresThreadRepository(s.db)
	commentRepo := repositories.NewPostgresCommentRepository(s.db)
	userRepo := repositories.NewPostgresUserRepository(s.db)

	if _, err := threadRepo.GetThreadByID(threadID); err != nil {
		return nil, notFoundIfMissing(err)
	}
	comments, err := commentRepo.GetCommentsByThreadID(threadID)
	if err != nil {
		return nil, err
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

	var nodes []models.CommentNode
	for _, c := range comments {
		if c.ReplyToID != nil {
			continue
		}
		c.Content = sanitize.UserText(c.Content)
		node := models.CommentNode{Comment: c, AuthorName: authorName(c.AuthorID), Replies: []models.Comment{}}
		for _, reply := range comments {
			if reply.ReplyToID != nil && *reply.ReplyToID == c.ID {
				reply.Content = sanitize.UserText(reply.Content)
				node.Replies = append(node.Replies, reply)
			}
		}
		sort.Slice(node.Replies, func(i, j int) bool {
			a, b := node.Replies[i], node.Replies[j]
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.ID < b.ID
		})
		nodes = append(nodes, node)
	}
	sort.Slice(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return nodes, nil
}

// deleteThreadCascade removes a thread together with its comments and their
// notifications. Content deletion runs this inside the same transaction that
// removes the content row.
func deleteThreadCascade(tx *gorm.DB, threadID uint) error {
	commentRepo := repositories.NewPostgresCommentRepository(tx)
	notificationRepo := repositories.NewPostgresNotificationRepository(tx)
	threadRepo := repositories.NewPostgresThreadRepository(tx)

	ids, err := commentRepo.GetCommentIDsByThreadID(threadID)
	if err != nil {
		return err
	}
	if err := commentRepo.DeleteCommentsByIDs(ids); err != nil {
		return err
	}
	if err := notificationRepo.DeleteByObjectIDs(models.ObjectKindComment, ids); err != nil {
		return err
	}
	return threadRepo.DeleteThread(threadID)
}
