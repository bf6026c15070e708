package services

import (
	"context"
	"strings"

	"github.com/pratik-mahalle/arcgate/internal/domain/user"
	"github.com/pratik-mahalle/arcgate/internal/pkg/errors"
	"github.com/pratik-mahalle/arcgate/internal/pkg/logger"
	"github.com/pratik-mahalle/arcgate/internal/pkg/metrics"
)

// UserService implements user.Service
type UserService struct {
	repo   user.Repository
	logger *logger.Logger
}

// NewUserService creates a new user service
func NewUserService(repo user.Repository, log *logger.Logger) *UserService {
	return &UserService{
		repo:   repo,
		logger: log,
	}
}

var _ user.Service = (*UserService)(nil)

// Login looks the user up by email and creates it on first sight. Two
// logins racing on a new email both end up with the same record: the
// loser of the insert gets DUPLICATE_KEY and re-reads.
func (s *UserService) Login(ctx context.Context, email string) (*user.User, bool, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, false, errors.ValidationError("Email is required", nil)
	}

	u, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		metrics.RecordLogin("existing")
		return u, false, nil
	}
	if !errors.IsNotFound(err) {
		metrics.RecordLogin("failed")
		s.logger.ErrorWithErr(err, "Failed to look up user")
		return nil, false, err
	}

	u, err = s.repo.Create(ctx, email)
	if errors.IsDuplicateKey(err) {
		s.logger.WithFields(map[string]interface{}{
			"email": email,
		}).Debug("Concurrent user creation, re-reading")

		u, err = s.repo.FindByEmail(ctx, email)
		if err != nil {
			metrics.RecordLogin("failed")
			s.logger.ErrorWithErr(err, "Failed to re-read user after duplicate insert")
			return nil, false, err
		}
		metrics.RecordLogin("existing")
		return u, false, nil
	}
	if err != nil {
		metrics.RecordLogin("failed")
		s.logger.ErrorWithErr(err, "Failed to create user")
		return nil, false, err
	}

	metrics.RecordLogin("created")
	s.logger.WithFields(map[string]interface{}{
		"user_id": u.ID,
		"email":   u.Email,
	}).Info("User created")

	return u, true, nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id string) (*user.User, error) {
	return s.repo.FindByID(ctx, id)
}
