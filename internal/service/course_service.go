package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/eduverse-labs/eduverse-api/internal/models"
	"github.com/eduverse-labs/eduverse-api/internal/policy"
	"github.com/eduverse-labs/eduverse-api/internal/slug"
	appErrors "github.com/eduverse-labs/eduverse-api/pkg/errors"
)

const publishedCoursesCacheKey = "courses:published"

type courseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	FindBySlug(ctx context.Context, slug string) (*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	List(ctx context.Context, publishedOnly bool) ([]models.Course, error)
	ListByInstructor(ctx context.Context, instructorID string) ([]models.Course, error)
}

// CourseRequest carries the client-settable course fields for both
// create and update.
type CourseRequest struct {
	Title            string             `json:"title" validate:"required,min=5"`
	ShortDescription string             `json:"shortDescription" validate:"required,min=10"`
	Description      string             `json:"description" validate:"required,min=50"`
	Level            models.CourseLevel `json:"level" validate:"required,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	Price            float64            `json:"price" validate:"gte=0"`
	Duration         int                `json:"duration" validate:"gte=1"`
	Image            string             `json:"image"`
}

// CourseService orchestrates course mutation workflows: policy decision,
// validation, slug resolution, persistence.
type CourseService struct {
	repo      courseRepository
	cache     *redis.Client
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService creates an instance of CourseService. The cache
// client is optional; a nil client disables catalog caching.
func NewCourseService(repo courseRepository, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, cache: cache, cacheTTL: cacheTTL, validator: newValidator(), logger: logger}
}

// Create validates the payload and persists a new course owned by the
// subject. Requires course creation privileges.
func (s *CourseService) Create(ctx context.Context, subject policy.Subject, req CourseRequest) (*models.Course, error) {
	if err := policy.Decide(subject, policy.ActionCreateCourse, ""); err != nil {
		return nil, err
	}

	normalizeCourseRequest(&req)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	course := &models.Course{
		Title:            req.Title,
		Slug:             slug.Derive(req.Title),
		Description:      req.Description,
		ShortDescription: optional(req.ShortDescription),
		Image:            optional(req.Image),
		Level:            req.Level,
		Price:            req.Price,
		Duration:         req.Duration,
		InstructorID:     subject.ID,
	}

	if err := s.repo.Create(ctx, course); err != nil {
		if appErr := appErrors.FromError(err); appErr.Code == appErrors.ErrDuplicateSlug.Code {
			return nil, appErr
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}

	s.invalidateCatalog(ctx)
	return course, nil
}

// Update loads the course by slug, checks edit rights against the owner
// and persists the changes. The slug is re-derived only when the title
// actually changed.
func (s *CourseService) Update(ctx context.Context, subject policy.Subject, courseSlug string, req CourseRequest) (*models.Course, error) {
	course, err := s.repo.FindBySlug(ctx, courseSlug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	if err := policy.Decide(subject, policy.ActionEditCourse, course.InstructorID); err != nil {
		return nil, err
	}

	normalizeCourseRequest(&req)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	course.Slug = slug.Resolve(req.Title, course.Title, course.Slug)
	course.Title = req.Title
	course.Description = req.Description
	course.ShortDescription = optional(req.ShortDescription)
	course.Image = optional(req.Image)
	course.Level = req.Level
	course.Price = req.Price
	course.Duration = req.Duration

	if err := s.repo.Update(ctx, course); err != nil {
		if appErr := appErrors.FromError(err); appErr.Code == appErrors.ErrDuplicateSlug.Code {
			return nil, appErr
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}

	s.invalidateCatalog(ctx)
	return course, nil
}

// GetBySlug returns a course with its instructor fields. Public.
func (s *CourseService) GetBySlug(ctx context.Context, courseSlug string) (*models.Course, error) {
	course, err := s.repo.FindBySlug(ctx, courseSlug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// List returns courses newest first. The published catalog is served
// read-through from Redis when a cache client is configured; cache
// failures fall back to the store.
func (s *CourseService) List(ctx context.Context, publishedOnly bool) ([]models.Course, error) {
	if publishedOnly && s.cache != nil {
		if cached, err := s.cache.Get(ctx, publishedCoursesCacheKey).Bytes(); err == nil {
			var courses []models.Course
			if err := json.Unmarshal(cached, &courses); err == nil {
				return courses, nil
			}
			s.logger.Warn("discarding malformed course cache entry", zap.Error(err))
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("course cache read failed", zap.Error(err))
		}
	}

	courses, err := s.repo.List(ctx, publishedOnly)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}

	if publishedOnly && s.cache != nil {
		if payload, err := json.Marshal(courses); err == nil {
			if err := s.cache.Set(ctx, publishedCoursesCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn("course cache write failed", zap.Error(err))
			}
		}
	}

	return courses, nil
}

// ListOwn returns every course owned by the subject, drafts included.
func (s *CourseService) ListOwn(ctx context.Context, subject policy.Subject) ([]models.Course, error) {
	if !subject.Authenticated {
		return nil, appErrors.ErrUnauthorized
	}

	courses, err := s.repo.ListByInstructor(ctx, subject.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list own courses")
	}
	return courses, nil
}

func (s *CourseService) invalidateCatalog(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, publishedCoursesCacheKey).Err(); err != nil {
		s.logger.Warn("course cache invalidation failed", zap.Error(err))
	}
}

func normalizeCourseRequest(req *CourseRequest) {
	req.Title = strings.TrimSpace(req.Title)
	req.ShortDescription = strings.TrimSpace(req.ShortDescription)
	req.Description = strings.TrimSpace(req.Description)
	req.Image = strings.TrimSpace(req.Image)
	if req.Duration == 0 {
		req.Duration = 1
	}
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
