package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"chirper/app/models"
	"chirper/app/repositories"
)

// UserService handles user profile management. Credential issuance and
// verification happen outside this service.
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// CreateUser registers a user profile and returns its public projection.
func (s *UserService) CreateUser(name, email, image string) (*models.Profile, error) {
	user := &models.User{
		ID:    uuid.NewString(),
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(email),
		Image: strings.TrimSpace(image),
	}
	user.BeforeCreate()
	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("%w: email already registered", ErrValidation)
		}
		return nil, err
	}

	profile := user.Profile()
	return &profile, nil
}

// GetProfile returns the public projection of a user.
func (s *UserService) GetProfile(id string) (*models.Profile, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, storageError(err)
	}
	profile := user.Profile()
	return &profile, nil
}

// GetByEmail returns the public projection of the user registered
// under email. Used by the session login flow.
func (s *UserService) GetByEmail(email string) (*models.Profile, error) {
	user, err := s.userRepo.GetByEmail(strings.TrimSpace(email))
	if err != nil {
		return nil, storageError(err)
	}
	profile := user.Profile()
	return &profile, nil
}

// UpdateImage replaces a user's profile image. Users may only change
// their own image.
func (s *UserService) UpdateImage(userID, callerID, image string) (*models.Profile, error) {
	if callerID == "" {
		return nil, ErrUnauthorized
	}
	if callerID != userID {
		return nil, ErrForbidden
	}

	image = strings.TrimSpace(image)
	if image == "" {
		return nil, fmt.Errorf("%w: image URL cannot be empty", ErrValidation)
	}

	user, err := s.userRepo.UpdateImage(userID, image)
	if err != nil {
		return nil, storageError(err)
	}
	profile := user.Profile()
	return &profile, nil
}
