package service

import (
	"context"
	"fmt"
	"strings"

	"registrar/models"
)

// registrationService implements the RegistrationService interface
type registrationService struct {
	repo RegistrationRepository
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(repo RegistrationRepository) RegistrationService {
	return &registrationService{repo: repo}
}

// Register stores a registration; name and age are kept as free text
func (s *registrationService) Register(ctx context.Context, guildID, userID int64, name, age string) (*models.Registration, error) {
	name = strings.TrimSpace(name)
	age = strings.TrimSpace(age)
	if name == "" || age == "" {
		return nil, fmt.Errorf("%w: name and age are required", ErrInvalidRegistration)
	}

	registration := &models.Registration{
		GuildID: guildID,
		UserID:  userID,
		Name:    name,
		Age:     age,
	}

	if err := s.repo.Save(ctx, registration); err != nil {
		return nil, fmt.Errorf("failed to save registration: %w", err)
	}

	return registration, nil
}
