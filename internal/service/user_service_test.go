package service_test

import (
	"testing"

	"github.com/songperch/songperch/internal/models"
	"github.com/songperch/songperch/internal/service"
	"github.com/songperch/songperch/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegisterCreatesProfileThread(t *testing.T) {
	db := testutil.NewTestDB(t)
	users := service.NewUserService(db, zap.NewNop())

	alice, err := users.Register("alice", "password123")
	require.NoError(t, err)
	require.NotZero(t, alice.ThreadID)

	var thread models.Thread
	require.NoError(t, db.First(&thread, alice.ThreadID).Error)
	assert.Equal(t, models.ThreadKindProfile, thread.Kind)
	assert.Equal(t, alice.ID, thread.OwnerID)

	// The password is stored hashed.
	assert.NotEqual(t, "password123", alice.PasswordHash)
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	db := testutil.NewTestDB(t)
	users := service.NewUserService(db, zap.NewNop())

	_, err := users.Register("alice", "password123")
	require.NoError(t, err)

	_, err = users.Register("alice", "different")
	assert.ErrorIs(t, err, service.ErrUsernameTaken)
}

func TestAuthenticate(t *testing.T) {
	db := testutil.NewTestDB(t)
	users := service.NewUserService(db, zap.NewNop())

	registered, err := users.Register("alice", "password123")
	require.NoError(t, err)

	user, err := users.Authenticate("alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = users.Authenticate("alice", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = users.Authenticate("nobody", "password123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}
