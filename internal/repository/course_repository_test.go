package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduverse-labs/eduverse-api/internal/models"
	appErrors "github.com/eduverse-labs/eduverse-api/pkg/errors"
)

func courseColumns() []string {
	return []string{"id", "title", "slug", "description", "shortDescription", "image", "level", "price", "duration", "instructorId", "published", "createdAt", "updatedAt"}
}

func TestCourseCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec("INSERT INTO courses").WillReturnResult(sqlmock.NewResult(1, 1))

	course := &models.Course{Title: "Learn Go", Slug: "learn-go", Description: "desc", Level: models.LevelBeginner, Duration: 10, InstructorID: "u1"}
	err := repo.Create(context.Background(), course)
	require.NoError(t, err)
	assert.NotEmpty(t, course.ID)
	assert.False(t, course.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseCreateDuplicateSlug(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec("INSERT INTO courses").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "courses_slug_key"})

	err := repo.Create(context.Background(), &models.Course{Title: "Learn Go", Slug: "learn-go", InstructorID: "u1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateSlug.Code, appErrors.FromError(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseFindBySlug(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	now := time.Now()
	columns := append(courseColumns(), "instructor_name", "instructor_bio", "instructor_image")
	rows := sqlmock.NewRows(columns).
		AddRow("c1", "Learn Go", "learn-go", "desc", nil, nil, string(models.LevelBeginner), 49.0, 10, "u1", true, now, now, "Ann", "Go teacher", nil)
	mock.ExpectQuery("SELECT c.id, c.title, c.slug").
		WithArgs("learn-go").
		WillReturnRows(rows)

	course, err := repo.FindBySlug(context.Background(), "learn-go")
	require.NoError(t, err)
	assert.Equal(t, "learn-go", course.Slug)
	require.NotNil(t, course.InstructorName)
	assert.Equal(t, "Ann", *course.InstructorName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseUpdateDuplicateSlug(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec("UPDATE courses SET title").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "courses_slug_key"})

	err := repo.Update(context.Background(), &models.Course{ID: "c1", Title: "Learn Go", Slug: "learn-go"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateSlug.Code, appErrors.FromError(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseListPublishedOnly(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	now := time.Now()
	columns := append(courseColumns(), "instructor_name")
	rows := sqlmock.NewRows(columns).
		AddRow("c1", "Learn Go", "learn-go", "desc", nil, nil, string(models.LevelBeginner), 0.0, 10, "u1", true, now, now, "Ann")
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE c.published = TRUE ORDER BY c."createdAt" DESC`)).
		WillReturnRows(rows)

	courses, err := repo.List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.True(t, courses[0].Published)
	assert.NoError(t, mock.ExpectationsWereMet())
}
