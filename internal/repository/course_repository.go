package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/eduverse-labs/eduverse-api/internal/models"
)

// CourseRepository provides database access for course records.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository creates a new instance of CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// Create inserts a new course. A duplicate slug surfaces as a typed
// conflict.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now

	const query = `INSERT INTO courses (id, title, slug, description, "shortDescription", image, level, price, duration, "instructorId", published, "createdAt", "updatedAt") VALUES (:id, :title, :slug, :description, :shortDescription, :image, :level, :price, :duration, :instructorId, :published, :createdAt, :updatedAt)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		if conflict := translateUniqueViolation(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// FindBySlug returns a course by slug with the owning instructor's
// public fields joined in.
func (r *CourseRepository) FindBySlug(ctx context.Context, slug string) (*models.Course, error) {
	const query = `SELECT c.id, c.title, c.slug, c.description, c."shortDescription", c.image, c.level, c.price, c.duration, c."instructorId", c.published, c."createdAt", c."updatedAt", u.name AS instructor_name, u.bio AS instructor_bio, u.image AS instructor_image FROM courses c JOIN users u ON c."instructorId" = u.id WHERE c.slug = $1 LIMIT 1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, slug); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find course by slug: %w", err)
	}
	return &course, nil
}

// Update performs a full-row update keyed by id. Concurrent editors are
// last-write-wins at the row level.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	course.UpdatedAt = time.Now().UTC()
	const query = `UPDATE courses SET title = :title, slug = :slug, description = :description, "shortDescription" = :shortDescription, image = :image, level = :level, price = :price, duration = :duration, "updatedAt" = :updatedAt WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		if conflict := translateUniqueViolation(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("update course: %w", err)
	}
	return nil
}

// List returns courses newest first with instructor names joined. When
// publishedOnly is set, unpublished courses are excluded.
func (r *CourseRepository) List(ctx context.Context, publishedOnly bool) ([]models.Course, error) {
	query := `SELECT c.id, c.title, c.slug, c.description, c."shortDescription", c.image, c.level, c.price, c.duration, c."instructorId", c.published, c."createdAt", c."updatedAt", u.name AS instructor_name FROM courses c JOIN users u ON c."instructorId" = u.id`
	if publishedOnly {
		query += ` WHERE c.published = TRUE`
	}
	query += ` ORDER BY c."createdAt" DESC`

	courses := make([]models.Course, 0)
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// ListByInstructor returns all courses owned by the given instructor,
// newest first.
func (r *CourseRepository) ListByInstructor(ctx context.Context, instructorID string) ([]models.Course, error) {
	const query = `SELECT id, title, slug, description, "shortDescription", image, level, price, duration, "instructorId", published, "createdAt", "updatedAt" FROM courses WHERE "instructorId" = $1 ORDER BY "createdAt" DESC`
	courses := make([]models.Course, 0)
	if err := r.db.SelectContext(ctx, &courses, query, instructorID); err != nil {
		return nil, fmt.Errorf("list courses by instructor: %w", err)
	}
	return courses, nil
}
