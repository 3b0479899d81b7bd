package service

import (
	"errors"

	"github.com/songperch/songperch/internal/models"
	"github.com/songperch/songperch/internal/repositories"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrUsernameTaken is returned by Register when the requested username
// already exists.
var ErrUsernameTaken = errors.New("username already taken")

// ErrInvalidCredentials is returned by Authenticate for an unknown username
// or a wrong password; callers cannot distinguish the two.
var ErrInvalidCredentials = errors.New("invalid username or password")

// UserService handles account registration and credential checks. Every user
// gets a profile thread at registration so their profile page is commentable
// from the start.
type UserService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewUserService(db *gorm.DB, logger *zap.Logger) *UserService {
	return &UserService{db: db, logger: logger}
}

// Register creates a user with a bcrypt-hashed password and their profile
// thread in one transaction.
func (s *UserService) Register(username, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var user *models.User
	err = s.db.Transaction(func(tx *gorm.DB) error {
		userRepo := repositories.NewPostgresUserRepository(tx)
		threadRepo := repositories.NewPostgresThreadRepository(tx)

		if _, err := userRepo.GetUserByUsername(username); err == nil {
			return ErrUsernameTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		user = &models.User{Username: username, PasswordHash: string(hash)}
		if err := userRepo.CreateUser(user); err != nil {
			return err
		}
		thread, err := threadRepo.CreateThread(models.ThreadKindProfile, user.ID)
		if err != nil {
			return err
		}
		user.ThreadID = thread.ID
		return userRepo.UpdateUser(user)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("user registered", zap.String("username", username), zap.Uint("user_id", user.ID))
	return user, nil
}

// Authenticate verifies a username/password pair and returns the user.
func (s *UserService) Authenticate(username, password string) (*models.User, error) {
	user, err := repositories.NewPostgresUserRepository(s.db).GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
