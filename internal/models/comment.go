package models

import "time"

// Comment is a comment on a thread. ReplyToID, when set, always names a
// top-level comment: the store normalizes reply depth to one level at write
// time, so a reply to a reply is recorded against the original top-level
// comment. Content is stored raw and sanitized at render time.
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ThreadID  uint      `json:"thread_id" gorm:"index"`
	AuthorID  uint      `json:"author_id" gorm:"index"`
	ReplyToID *uint     `json:"reply_to_id" gorm:"index"`
	Content   string    `json:"content" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentNode is a top-level comment with its replies, as rendered on content
// pages: top-level comments newest-first, replies within each oldest-first.
type CommentNode struct {
	Comment
	AuthorName string    `json:"author_name"`
	Replies    []Comment `json:"replies"`
}

// PostCommentRequest is the form payload for posting or editing a comment.
type PostCommentRequest struct {
	Content string `json:"content" form:"content" validate:"required,max=10000"`
}
