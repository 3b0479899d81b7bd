package models

import "time"

// Playlist is a named, optionally private list of songs with its own comment
// thread.
type Playlist struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index"`
	ThreadID  uint      `json:"thread_id" gorm:"index"`
	Name      string    `json:"name"`
	Private   bool      `json:"private"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PlaylistSong orders songs within a playlist.
type PlaylistSong struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	PlaylistID uint `json:"playlist_id" gorm:"index"`
	SongID     uint `json:"song_id" gorm:"index"`
	Position   int  `json:"position"`
}

type CreatePlaylistRequest struct {
	Name    string `json:"name" form:"name" validate:"required,max=200"`
	Private bool   `json:"private" form:"private"`
}
