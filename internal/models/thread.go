package models

import "time"

// ThreadKind identifies which content type a comment thread is attached to.
type ThreadKind int

const (
	ThreadKindSong ThreadKind = iota
	ThreadKindProfile
	ThreadKindPlaylist
	ThreadKindJamEvent
)

func (k ThreadKind) String() string {
	switch k {
	case ThreadKindSong:
		return "song"
	case ThreadKindProfile:
		return "profile"
	case ThreadKindPlaylist:
		return "playlist"
	case ThreadKindJamEvent:
		return "jam_event"
	}
	return "unknown"
}

// Thread is the conversation handle attached to exactly one content item.
// It never changes kind or owner; it is deleted when its content item is.
type Thread struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Kind      ThreadKind `json:"kind" gorm:"index"`
	OwnerID   uint       `json:"owner_id" gorm:"index"`
	CreatedAt time.Time  `json:"created_at"`
}
