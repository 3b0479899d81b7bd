package service

import (
	"github.com/songperch/songperch/internal/models"
	"github.com/songperch/songperch/internal/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ContentService owns the commentable content: songs, playlists, jams and
// their events. Creating a piece of content creates its thread in the same
// transaction; deleting it cascades through the thread's comments and their
// notifications.
type ContentService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewContentService(db *gorm.DB, logger *zap.Logger) *ContentService {
	return &ContentService{db: db, logger: logger}
}

func (s *ContentService) CreateSong(userID uint, req models.CreateSongRequest) (*models.Song, error) {
	var song *models.Song
	err := s.db.Transaction(func(tx *gorm.DB) error {
		thread, err := repositories.NewPostgresThreadRepository(tx).CreateThread(models.ThreadKindSong, userID)
		if err != nil {
			return err
		}
		song = &models.Song{
			UserID:      userID,
			ThreadID:    thread.ID,
			Title:       req.Title,
			Description: req.Description,
		}
		return repositories.NewPostgresSongRepository(tx).CreateSong(song)
	})
	if err != nil {
		return nil, err
	}
	return song, nil
}

func (s *ContentService) GetSong(songID uint) (*models.Song, error) {
	song, err := repositories.NewPostgresSongRepository(s.db).GetSongByID(songID)
	if err != nil {
		return nil, notFoundIfMissing(err)
	}
	return song, nil
}

// DeleteSong removes a song together with its thread, comments and
// notifications. Only the uploader may delete.
func (s *ContentService) DeleteSong(songID, requesterID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		songRepo := repositories.NewPostgresSongRepository(tx)
		song, err := songRepo.GetSongByID(songID)
		if err != nil {
			return notFoundIfMissing(err)
		}
		if song.UserID != requesterID {
			return ErrForbidden
		}
		if err := deleteThreadCascade(tx, song.ThreadID); err != nil {
			return err
		}
		return songRepo.DeleteSong(songID)
	})
}

func (s *ContentService) CreatePlaylist(userID uint, req models.CreatePlaylistRequest) (*models.Playlist, error) {
	var playlist *models.Playlist
	err := s.db.Transaction(func(tx *gorm.DB) error {
		thread, err := repositories.NewPostgresThreadRepository(tx).CreateThread(models.ThreadKindPlaylist, userID)
		if err != nil {
			return err
		}
		playlist = &models.Playlist{
			UserID:   userID,
			ThreadID: thread.ID,
			Name:     req.Name,
			Private:  req.Private,
		}
		return repositories.NewPostgresPlaylistRepository(tx).CreatePlaylist(playlist)
	})
	if err != nil {
		return nil, err
	}
	return playlist, nil
}

func (s *ContentService) GetPlaylist(playlistID uint) (*models.Playlist, error) {
	playlist, err := repositories.NewPostgresPlaylistRepository(s.db).GetPlaylistByID(playlistID)
	if err != nil {
		return nil, notFoundIfMissing(err)
	}
	return playlist, nil
}

// AddSongToPlaylist appends a song to a playlist owned by the requester.
func (s *ContentService) AddSongToPlaylist(playlistID, songID, requesterID uint) error {
	playlistRepo := repositories.NewPostgresPlaylistRepository(s.db)
	playlist, err := playlistRepo.GetPlaylistByID(playlistID)
	if err != nil {
		return notFoundIfMissing(err)
	}
	if playlist.UserID != requesterID {
		return ErrForbidden
	}
	if _, err := repositories.NewPostgresSongRepository(s.db).GetSongByID(songID); err != nil {
		return notFoundIfMissing(err)
	}
	return playlistRepo.AppendSong(playlistID, songID)
}

func (s *ContentService) DeletePlaylist(playlistID, requesterID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		playlistRepo := repositories.NewPostgresPlaylistRepository(tx)
		playlist, err := playlistRepo.GetPlaylistByID(playlistID)
		if err != nil {
			return notFoundIfMissing(err)
		}
		if playlist.UserID != requesterID {
			return ErrForbidden
		}
		if err := deleteThreadCascade(tx, playlist.ThreadID); err != nil {
			return err
		}
		return playlistRepo.DeletePlaylist(playlistID)
	})
}

func (s *ContentService) CreateJam(ownerID uint, req models.CreateJamRequest) (*models.Jam, error) {
	jam := &models.Jam{
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
	}
	if err := repositories.NewPostgresJamRepository(s.db).CreateJam(jam); err != nil {
		return nil, err
	}
	return jam, nil
}

// CreateJamEvent adds an event to a jam. Only the jam's owner may add events;
// the event's thread is owned by the jam owner.
func (s *ContentService) CreateJamEvent(jamID, requesterID uint, req models.CreateJamEventRequest) (*models.JamEvent, error) {
	var event *models.JamEvent
	err := s.db.Transaction(func(tx *gorm.DB) error {
		jamRepo := repositories.NewPostgresJamRepository(tx)
		jam, err := jamRepo.GetJamByID(jamID)
		if err != nil {
			return notFoundIfMissing(err)
		}
		if jam.OwnerID != requesterID {
			return ErrForbidden
		}
		thread, err := repositories.NewPostgresThreadRepository(tx).CreateThread(models.ThreadKindJamEvent, jam.OwnerID)
		if err != nil {
			return err
		}
		event = &models.JamEvent{
			JamID:       jamID,
			ThreadID:    thread.ID,
			Title:       req.Title,
			Description: req.Description,
			StartDate:   req.StartDate,
			EndDate:     req.EndDate,
		}
		return jamRepo.CreateJamEvent(event)
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (s *ContentService) DeleteJamEvent(eventID, requesterID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		jamRepo := repositories.NewPostgresJamRepository(tx)
		event, err := jamRepo.GetJamEventByID(eventID)
		if err != nil {
			return notFoundIfMissing(err)
		}
		jam, err := jamRepo.GetJamByID(event.JamID)
		if err != nil {
			return notFoundIfMissing(err)
		}
		if jam.OwnerID != requesterID {
			return ErrForbidden
		}
		if err := deleteThreadCascade(tx, event.ThreadID); err != nil {
			return err
		}
		return jamRepo.DeleteJamEvent(eventID)
	})
}
