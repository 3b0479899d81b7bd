package repositories

import (
	"fmt"

	"github.com/songperch/songperch/internal/models"
	"github.com/songperch/songperch/internal/threads"
	"gorm.io/gorm"
)

// JamRepository defines the interface for jam and jam-event data operations
type JamRepository interface {
	CreateJam(jam *models.Jam) error
	GetJamByID(id uint) (*models.Jam, error)
	CreateJamEvent(event *models.JamEvent) error
	GetJamEventByID(id uint) (*models.JamEvent, error)
	GetEventsByJamID(jamID uint) ([]models.JamEvent, error)
	DeleteJamEvent(id uint) error
	ResolveThread(threadID uint) (*threads.DisplayInfo, error)
}

// PostgresJamRepository implements JamRepository for PostgreSQL
type PostgresJamRepository struct {
	db *gorm.DB
}

// NewPostgresJamRepository creates a new PostgresJamRepository
func NewPostgresJamRepository(db *gorm.DB) *PostgresJamRepository {
	return &PostgresJamRepository{db: db}
}

// CreateJam creates a new jam
func (r *PostgresJamRepository) CreateJam(jam *models.Jam) error {
	return r.db.Create(jam).Error
}

// GetJamByID retrieves a jam by ID
func (r *PostgresJamRepository) GetJamByID(id uint) (*models.Jam, error) {
	var jam models.Jam
	if err := r.db.First(&jam, id).Error; err != nil {
		return nil, err
	}
	return &jam, nil
}

// CreateJamEvent creates a new event within a jam
func (r *PostgresJamRepository) CreateJamEvent(event *models.JamEvent) error {
	return r.db.Create(event).Error
}

// GetJamEventByID retrieves a jam event by ID
func (r *PostgresJamRepository) GetJamEventByID(id uint) (*models.JamEvent, error) {
	var event models.JamEvent
	if err := r.db.First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// GetEventsByJamID retrieves all events for a jam
func (r *PostgresJamRepository) GetEventsByJamID(jamID uint) ([]models.JamEvent, error) {
	var events []models.JamEvent
	err := r.db.Where("jam_id = ?", jamID).Order("start_date ASC").Find(&events).Error
	return events, err
}

// DeleteJamEvent deletes an event row; thread cascades are the caller's
// responsibility
func (r *PostgresJamRepository) DeleteJamEvent(id uint) error {
	return r.db.Delete(&models.JamEvent{}, id).Error
}

// ResolveThread maps a jam-event thread back to the event and the jam's owner
func (r *PostgresJamRepository) ResolveThread(threadID uint) (*threads.DisplayInfo, error) {
	var row struct {
		ID       uint
		JamID    uint
		Title    string
		OwnerID  uint
		Username string
	}
	err := r.db.Table("jam_events").
		Select("jam_events.id, jam_events.jam_id, jam_events.title, jams.owner_id, users.username").
		Joins("INNER JOIN jams ON jams.id = jam_events.jam_id").
		Joins("INNER JOIN users ON users.id = jams.owner_id").
		Where("jam_events.thread_id = ?", threadID).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &threads.DisplayInfo{
		Kind:      models.ThreadKindJamEvent,
		Title:     row.Title,
		OwnerID:   row.OwnerID,
		OwnerName: row.Username,
		URL:       fmt.Sprintf("/jams/%d/events/%d", row.JamID, row.ID),
	}, nil
}
