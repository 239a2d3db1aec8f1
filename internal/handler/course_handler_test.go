package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eduverse-labs/eduverse-api/internal/middleware"
	"github.com/eduverse-labs/eduverse-api/internal/models"
	"github.com/eduverse-labs/eduverse-api/internal/service"
	"github.com/eduverse-labs/eduverse-api/pkg/response"
)

type courseRepoStub struct {
	bySlug map[string]*models.Course
}

func (s *courseRepoStub) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = "course-id"
	}
	return nil
}

func (s *courseRepoStub) FindBySlug(ctx context.Context, slug string) (*models.Course, error) {
	if course, ok := s.bySlug[slug]; ok {
		return course, nil
	}
	return nil, sql.ErrNoRows
}

func (s *courseRepoStub) Update(ctx context.Context, course *models.Course) error {
	return nil
}

func (s *courseRepoStub) List(ctx context.Context, publishedOnly bool) ([]models.Course, error) {
	return []models.Course{}, nil
}

func (s *courseRepoStub) ListByInstructor(ctx context.Context, instructorID string) ([]models.Course, error) {
	return []models.Course{}, nil
}

func newCourseTestHandler(repo *courseRepoStub) *CourseHandler {
	svc := service.NewCourseService(repo, nil, 0, zap.NewNop())
	return NewCourseHandler(svc)
}

func courseBody() []byte {
	body, _ := json.Marshal(service.CourseRequest{
		Title:            "Learn Go Basics",
		ShortDescription: "A compact introduction",
		Description:      "A thorough walk through the Go language covering syntax, tooling and idioms.",
		Level:            models.LevelBeginner,
		Duration:         10,
	})
	return body
}

func TestCourseHandlerCreateForbiddenForStudent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newCourseTestHandler(&courseRepoStub{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/courses", bytes.NewReader(courseBody()))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u1", Role: models.RoleStudent})

	handler.Create(c)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestCourseHandlerCreateByInstructor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newCourseTestHandler(&courseRepoStub{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/courses", bytes.NewReader(courseBody()))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u1", Role: models.RoleInstructor})

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "learn-go-basics", data["slug"])
}

func TestCourseHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newCourseTestHandler(&courseRepoStub{bySlug: map[string]*models.Course{}})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/courses/missing", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "slug", Value: "missing"}}

	handler.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
