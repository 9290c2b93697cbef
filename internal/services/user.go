package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/fmtlab/fmtlab/internal/models"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmptyUsername = errors.New("username must not be empty")
)

// UserStore is the store surface the user administration path needs.
type UserStore interface {
	GetUserByID(id uint) (*models.User, error)
	UpsertUser(user *models.User) error
}

// UserInput describes one user row in an administrative import.
type UserInput struct {
	Username string
	FullName string
	Email    string
}

// UserService handles administrative user management. Accounts created here
// start active with local auth type and no password material; credentials
// are provisioned out of band.
type UserService struct {
	store UserStore
}

// NewUserService creates a new user administration service
func NewUserService(s UserStore) *UserService {
	return &UserService{store: s}
}

// ImportUsers inserts or updates the given user records. It stops at the
// first failure and reports how many records were applied.
func (s *UserService) ImportUsers(inputs []UserInput) (int, error) {
	for i, input := range inputs {
		if input.Username == "" {
			return i, fmt.Errorf("record %d: %w", i, ErrEmptyUsername)
		}
		user := &models.User{
			Username: input.Username,
			FullName: input.FullName,
			Email:    input.Email,
			IsActive: true,
			AuthType: models.AuthTypeLocal,
		}
		if err := s.store.UpsertUser(user); err != nil {
			log.Printf("[Users] Import failed at record %d (user=%s): %v", i, input.Username, err)
			return i, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return len(inputs), nil
}

// GetUserByID looks up a single user by primary key.
func (s *UserService) GetUserByID(id uint) (*models.User, error) {
	user, err := s.store.GetUserByID(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
