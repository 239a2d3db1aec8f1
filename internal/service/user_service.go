package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/eduverse-labs/eduverse-api/internal/models"
	"github.com/eduverse-labs/eduverse-api/internal/policy"
	appErrors "github.com/eduverse-labs/eduverse-api/pkg/errors"
)

type profileRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, id, name string, bio, image *string) (*models.User, error)
}

// UpdateProfileRequest carries the self-editable profile fields.
type UpdateProfileRequest struct {
	Name  string `json:"name" validate:"required,min=2"`
	Bio   string `json:"bio"`
	Image string `json:"image"`
}

// UserService handles profile workflows.
type UserService struct {
	repo      profileRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService creates an instance of UserService.
func NewUserService(repo profileRepository, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, validator: newValidator(), logger: logger}
}

// GetProfile returns the subject's own sanitized record.
func (s *UserService) GetProfile(ctx context.Context, subject policy.Subject) (*models.User, error) {
	if !subject.Authenticated {
		return nil, appErrors.ErrUnauthorized
	}

	user, err := s.repo.FindByID(ctx, subject.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return user, nil
}

// UpdateProfile updates name/bio/image for the subject. Profile edits
// are always self-scoped.
func (s *UserService) UpdateProfile(ctx context.Context, subject policy.Subject, req UpdateProfileRequest) (*models.User, error) {
	if err := policy.Decide(subject, policy.ActionEditOwnProfile, subject.ID); err != nil {
		return nil, err
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Bio = strings.TrimSpace(req.Bio)
	req.Image = strings.TrimSpace(req.Image)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	user, err := s.repo.UpdateProfile(ctx, subject.ID, req.Name, optional(req.Bio), optional(req.Image))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update profile")
	}
	return user, nil
}
