package models

import "time"

// CourseLevel enumerates the difficulty levels a course can declare.
type CourseLevel string

const (
	LevelBeginner     CourseLevel = "BEGINNER"
	LevelIntermediate CourseLevel = "INTERMEDIATE"
	LevelAdvanced     CourseLevel = "ADVANCED"
)

// Course represents a course stored in the courses table. Instructor
// fields are populated by the joined read paths only.
type Course struct {
	ID               string      `db:"id" json:"id"`
	Title            string      `db:"title" json:"title"`
	Slug             string      `db:"slug" json:"slug"`
	Description      string      `db:"description" json:"description"`
	ShortDescription *string     `db:"shortDescription" json:"shortDescription,omitempty"`
	Image            *string     `db:"image" json:"image,omitempty"`
	Level            CourseLevel `db:"level" json:"level"`
	Price            float64     `db:"price" json:"price"`
	Duration         int         `db:"duration" json:"duration"`
	InstructorID     string      `db:"instructorId" json:"instructorId"`
	Published        bool        `db:"published" json:"published"`
	CreatedAt        time.Time   `db:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time   `db:"updatedAt" json:"updatedAt"`

	InstructorName  *string `db:"instructor_name" json:"instructorName,omitempty"`
	InstructorBio   *string `db:"instructor_bio" json:"instructorBio,omitempty"`
	InstructorImage *string `db:"instructor_image" json:"instructorImage,omitempty"`
}
