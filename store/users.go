// Package store wraps all access to the users table.
package store

import (
	"errors"
	"fmt"

	"github.com/accounthub/backend/models"
	"gorm.io/gorm"
)

var (
	// ErrDuplicateEmail is returned when the unique index on email rejects
	// a create. The index, not the handler pre-check, is the source of
	// truth for concurrent registrations.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
)

// Users provides create/find/update access to user records.
type Users struct {
	db *gorm.DB
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

// Create inserts a new user with the default role and active flag.
func (s *Users) Create(email, hashedPassword, fullName string) (*models.User, error) {
	user := models.User{
		Email:          email,
		HashedPassword: hashedPassword,
		FullName:       fullName,
		Role:           models.RoleUser,
		IsActive:       true,
	}

	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// FindByEmail looks a user up by their email address.
func (s *Users) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// Update overwrites the user's full name and password hash and persists
// immediately. UpdatedAt is refreshed by gorm.
func (s *Users) Update(user *models.User, fullName, hashedPassword string) error {
	updates := map[string]interface{}{
		"full_name":       fullName,
		"hashed_password": hashedPassword,
	}
	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}
