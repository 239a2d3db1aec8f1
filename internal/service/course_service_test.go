package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eduverse-labs/eduverse-api/internal/models"
	"github.com/eduverse-labs/eduverse-api/internal/policy"
	"github.com/eduverse-labs/eduverse-api/internal/slug"
	appErrors "github.com/eduverse-labs/eduverse-api/pkg/errors"
)

type mockCourseRepo struct {
	bySlug     map[string]*models.Course
	created    *models.Course
	updated    *models.Course
	createErr  error
	updateErr  error
	listResult []models.Course
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{bySlug: make(map[string]*models.Course)}
}

func (m *mockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	if m.createErr != nil {
		return m.createErr
	}
	if course.ID == "" {
		course.ID = "course-id"
	}
	m.created = course
	return nil
}

func (m *mockCourseRepo) FindBySlug(ctx context.Context, courseSlug string) (*models.Course, error) {
	if course, ok := m.bySlug[courseSlug]; ok {
		copied := *course
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCourseRepo) Update(ctx context.Context, course *models.Course) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated = course
	return nil
}

func (m *mockCourseRepo) List(ctx context.Context, publishedOnly bool) ([]models.Course, error) {
	return m.listResult, nil
}

func (m *mockCourseRepo) ListByInstructor(ctx context.Context, instructorID string) ([]models.Course, error) {
	owned := make([]models.Course, 0)
	for _, course := range m.listResult {
		if course.InstructorID == instructorID {
			owned = append(owned, course)
		}
	}
	return owned, nil
}

func newCourseService(repo *mockCourseRepo) *CourseService {
	return NewCourseService(repo, nil, 0, zap.NewNop())
}

func validCourseRequest() CourseRequest {
	return CourseRequest{
		Title:            "Learn Go Basics",
		ShortDescription: "A compact introduction",
		Description:      "A thorough walk through the Go language covering syntax, tooling and idioms.",
		Level:            models.LevelBeginner,
		Price:            0,
		Duration:         10,
	}
}

func instructor(id string) policy.Subject {
	return policy.Subject{ID: id, Role: models.RoleInstructor, Authenticated: true}
}

func TestCreateCourseForbiddenForStudent(t *testing.T) {
	svc := newCourseService(newMockCourseRepo())

	student := policy.Subject{ID: "u1", Role: models.RoleStudent, Authenticated: true}
	_, err := svc.Create(context.Background(), student, validCourseRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestCreateCourseDerivesSlug(t *testing.T) {
	repo := newMockCourseRepo()
	svc := newCourseService(repo)

	req := validCourseRequest()
	course, err := svc.Create(context.Background(), instructor("u1"), req)
	require.NoError(t, err)
	assert.Equal(t, slug.Derive(req.Title), course.Slug)
	assert.Equal(t, "u1", course.InstructorID)
	require.NotNil(t, repo.created)
	assert.Equal(t, course.Slug, repo.created.Slug)
}

func TestCreateCourseTitleLengthBoundary(t *testing.T) {
	svc := newCourseService(newMockCourseRepo())

	req := validCourseRequest()
	req.Title = "1234"
	_, err := svc.Create(context.Background(), instructor("u1"), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "title", appErr.Field)

	req.Title = "12345"
	_, err = svc.Create(context.Background(), instructor("u1"), req)
	require.NoError(t, err)
}

func TestCreateCourseDuplicateSlug(t *testing.T) {
	repo := newMockCourseRepo()
	repo.createErr = appErrors.ErrDuplicateSlug
	svc := newCourseService(repo)

	_, err := svc.Create(context.Background(), instructor("u1"), validCourseRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateSlug.Code, appErrors.FromError(err).Code)
}

func TestUpdateCourseNotFound(t *testing.T) {
	svc := newCourseService(newMockCourseRepo())

	_, err := svc.Update(context.Background(), instructor("u1"), "missing", validCourseRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestUpdateCourseOwnership(t *testing.T) {
	repo := newMockCourseRepo()
	repo.bySlug["learn-go-basics"] = &models.Course{
		ID: "c1", Title: "Learn Go Basics", Slug: "learn-go-basics", InstructorID: "owner",
	}
	svc := newCourseService(repo)

	_, err := svc.Update(context.Background(), instructor("intruder"), "learn-go-basics", validCourseRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	_, err = svc.Update(context.Background(), instructor("owner"), "learn-go-basics", validCourseRequest())
	assert.NoError(t, err)

	admin := policy.Subject{ID: "admin", Role: models.RoleAdmin, Authenticated: true}
	_, err = svc.Update(context.Background(), admin, "learn-go-basics", validCourseRequest())
	assert.NoError(t, err)
}

func TestUpdateCourseKeepsSlugWhenTitleUnchanged(t *testing.T) {
	repo := newMockCourseRepo()
	repo.bySlug["custom-slug"] = &models.Course{
		ID: "c1", Title: "Learn Go Basics", Slug: "custom-slug", InstructorID: "owner",
	}
	svc := newCourseService(repo)

	course, err := svc.Update(context.Background(), instructor("owner"), "custom-slug", validCourseRequest())
	require.NoError(t, err)
	assert.Equal(t, "custom-slug", course.Slug)
}

func TestUpdateCourseRederivesSlugOnRename(t *testing.T) {
	repo := newMockCourseRepo()
	repo.bySlug["learn-go-basics"] = &models.Course{
		ID: "c1", Title: "Learn Go Basics", Slug: "learn-go-basics", InstructorID: "owner",
	}
	svc := newCourseService(repo)

	req := validCourseRequest()
	req.Title = "Advanced Go Patterns"
	course, err := svc.Update(context.Background(), instructor("owner"), "learn-go-basics", req)
	require.NoError(t, err)
	assert.Equal(t, "advanced-go-patterns", course.Slug)
	assert.Equal(t, "c1", course.ID)
}

func TestUpdateCourseDuplicateSlug(t *testing.T) {
	repo := newMockCourseRepo()
	repo.bySlug["learn-go-basics"] = &models.Course{
		ID: "c1", Title: "Learn Go Basics", Slug: "learn-go-basics", InstructorID: "owner",
	}
	repo.updateErr = appErrors.ErrDuplicateSlug
	svc := newCourseService(repo)

	req := validCourseRequest()
	req.Title = "Colliding Title"
	_, err := svc.Update(context.Background(), instructor("owner"), "learn-go-basics", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateSlug.Code, appErrors.FromError(err).Code)
}

func TestListOwnCourses(t *testing.T) {
	repo := newMockCourseRepo()
	repo.listResult = []models.Course{
		{ID: "c1", Slug: "learn-go", InstructorID: "u1", Published: true},
		{ID: "c2", Slug: "draft-course", InstructorID: "u1"},
		{ID: "c3", Slug: "other", InstructorID: "u2", Published: true},
	}
	svc := newCourseService(repo)

	_, err := svc.ListOwn(context.Background(), policy.Subject{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)

	courses, err := svc.ListOwn(context.Background(), instructor("u1"))
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "draft-course", courses[1].Slug)
}

func TestListCoursesWithoutCache(t *testing.T) {
	repo := newMockCourseRepo()
	repo.listResult = []models.Course{{ID: "c1", Slug: "learn-go", Published: true}}
	svc := newCourseService(repo)

	courses, err := svc.List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "learn-go", courses[0].Slug)
}
