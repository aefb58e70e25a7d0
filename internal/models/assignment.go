package models

import "time"

// AssignmentType enumerates the kinds of graded work.
type AssignmentType string

const (
	AssignmentTypeHomework AssignmentType = "homework"
	AssignmentTypeQuiz     AssignmentType = "quiz"
	AssignmentTypeExam     AssignmentType = "exam"
	AssignmentTypeProject  AssignmentType = "project"
)

// AssignmentStatus enumerates the publication states of an assignment.
type AssignmentStatus string

const (
	AssignmentStatusDraft     AssignmentStatus = "draft"
	AssignmentStatusPublished AssignmentStatus = "published"
	AssignmentStatusClosed    AssignmentStatus = "closed"
)

// Assignment represents graded work belonging to a course.
type Assignment struct {
	ID          int64            `db:"id" json:"id"`
	CourseID    int64            `db:"course_id" json:"course_id"`
	Title       string           `db:"title" json:"title"`
	Description *string          `db:"description" json:"description,omitempty"`
	DueDate     time.Time        `db:"due_date" json:"due_date"`
	MaxPoints   float64          `db:"max_points" json:"max_points"`
	Type        AssignmentType   `db:"type" json:"type"`
	Status      AssignmentStatus `db:"status" json:"status"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updated_at"`
}

// AssignmentDetail joins in the owning course name for listings.
type AssignmentDetail struct {
	Assignment
	CourseName string `db:"course_name" json:"course_name"`
}

// AssignmentPatch carries the updatable subset of assignment columns. The
// course_id ownership reference is deliberately absent.
type AssignmentPatch struct {
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	DueDate     *time.Time        `json:"due_date"`
	MaxPoints   *float64          `json:"max_points"`
	Type        *AssignmentType   `json:"type"`
	Status      *AssignmentStatus `json:"status"`
}
