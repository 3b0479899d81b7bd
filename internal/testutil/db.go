package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/songperch/songperch/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens an isolated in-memory database migrated with the full
// schema. Each test gets its own database keyed by the test name.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
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
	))
	return db
}
