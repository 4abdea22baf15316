package services

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/crypto/bcrypt"

	apperrors "grantledger/internal/errors"
	"grantledger/internal/models"
	"grantledger/internal/validator"
)

// userService authenticates against a preloaded user directory.
type userService struct {
	byUsername map[string]models.User
	byID       map[string]models.User
}

// NewUserService creates a new UserServicer over users.
func NewUserService(users []models.User) UserServicer {
	s := &userService{
		byUsername: make(map[string]models.User, len(users)),
		byID:       make(map[string]models.User, len(users)),
	}
	for _, u := range users {
		s.byUsername[u.Username] = u
		s.byID[u.ID] = u
	}
	return s
}

// userDirectory is the on-disk layout of USERS_FILE:
//
//	[[users]]
//	id = "u-keu-1"
//	username = "user_1"
//	role = "finance"
//	secret = "$2a$10$..."
//	assigned_project_id = "proj-1"
type userDirectory struct {
	Users []models.User `toml:"users"`
}

// LoadUserDirectory reads and validates a TOML user directory.
func LoadUserDirectory(path string) ([]models.User, error) {
	var dir userDirectory
	if _, err := toml.DecodeFile(path, &dir); err != nil {
		return nil, fmt.Errorf("failed to read user directory %s: %w", path, err)
	}
	if err := ValidateUsers(dir.Users); err != nil {
		return nil, fmt.Errorf("invalid user directory %s: %w", path, err)
	}
	return dir.Users, nil
}

// ValidateUsers checks that IDs and usernames are unique and that role
// assignments are consistent.
func ValidateUsers(users []models.User) error {
	ids := make(map[string]bool, len(users))
	names := make(map[string]bool, len(users))
	for i, u := range users {
		if err := validator.Struct(u); err != nil {
			return fmt.Errorf("user %d: %w", i, err)
		}
		switch {
		case ids[u.ID]:
			return fmt.Errorf("duplicate user id %q", u.ID)
		case names[u.Username]:
			return fmt.Errorf("duplicate username %q", u.Username)
		case u.Role.Scoped() && u.AssignedProjectID == "":
			return fmt.Errorf("user %q: role %s requires assigned_project_id", u.Username, u.Role)
		case !u.Role.Scoped() && u.AssignedProjectID != "":
			return fmt.Errorf("user %q: role %s must not have an assigned project", u.Username, u.Role)
		}
		ids[u.ID] = true
		names[u.Username] = true
	}
	return nil
}

// Authenticate returns the user whose username and secret match. Stored
// secrets starting with "$2" are bcrypt hashes; anything else is compared
// as plaintext in constant time.
func (s *userService) Authenticate(username, secret string) (*models.User, error) {
	u, ok := s.byUsername[strings.TrimSpace(username)]
	if !ok || !secretMatches(u.Secret, secret) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return &u, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(id string) (*models.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return &u, nil
}

func secretMatches(stored, given string) bool {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}
