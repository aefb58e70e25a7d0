package models

import "time"

// CourseStatus enumerates the publication states of a course.
type CourseStatus string

const (
	CourseStatusDraft    CourseStatus = "draft"
	CourseStatusActive   CourseStatus = "active"
	CourseStatusArchived CourseStatus = "archived"
)

// Course represents a taught course owned by a single teacher.
type Course struct {
	ID          int64        `db:"id" json:"id"`
	Code        string       `db:"code" json:"code"`
	Name        string       `db:"name" json:"name"`
	Description *string      `db:"description" json:"description,omitempty"`
	TeacherID   int64        `db:"teacher_id" json:"teacher_id"`
	Credits     float64      `db:"credits" json:"credits"`
	Level       string       `db:"level" json:"level"`
	Subject     string       `db:"subject" json:"subject"`
	StartDate   time.Time    `db:"start_date" json:"start_date"`
	EndDate     time.Time    `db:"end_date" json:"end_date"`
	Status      CourseStatus `db:"status" json:"status"`
	MaxStudents *int         `db:"max_students" json:"max_students,omitempty"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updated_at"`
}

// CourseDetail contains course information with the joined teacher name.
type CourseDetail struct {
	Course
	TeacherName string `db:"teacher_name" json:"teacher_name"`
}

// CoursePatch spans every column except id. Course updates are intentionally
// permissive, unlike the sibling entities; flagged to stakeholders rather
// than unified.
type CoursePatch struct {
	Code        *string       `json:"code"`
	Name        *string       `json:"name"`
	Description *string       `json:"description"`
	TeacherID   *int64        `json:"teacher_id"`
	Credits     *float64      `json:"credits"`
	Level       *string       `json:"level"`
	Subject     *string       `json:"subject"`
	StartDate   *time.Time    `json:"start_date"`
	EndDate     *time.Time    `json:"end_date"`
	Status      *CourseStatus `json:"status"`
	MaxStudents *int          `json:"max_students"`
}
