package models

import "time"

// EnrollmentStatus enumerates the lifecycle states of an enrollment.
type EnrollmentStatus string

const (
	EnrollmentStatusEnrolled  EnrollmentStatus = "enrolled"
	EnrollmentStatusCompleted EnrollmentStatus = "completed"
	EnrollmentStatusDropped   EnrollmentStatus = "dropped"
	EnrollmentStatusFailed    EnrollmentStatus = "failed"
)

// Enrollment links a student to a course. One row per (student, course)
// pair, enforced by a unique constraint.
type Enrollment struct {
	ID             int64            `db:"id" json:"id"`
	StudentID      int64            `db:"student_id" json:"student_id"`
	CourseID       int64            `db:"course_id" json:"course_id"`
	EnrollmentDate time.Time        `db:"enrollment_date" json:"enrollment_date"`
	Status         EnrollmentStatus `db:"status" json:"status"`
	Grade          *string          `db:"grade" json:"grade,omitempty"`
	FinalScore     *float64         `db:"final_score" json:"final_score,omitempty"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time        `db:"updated_at" json:"updated_at"`
}

// EnrollmentWithCourse joins in course context for student-centric listings.
type EnrollmentWithCourse struct {
	Enrollment
	CourseName string `db:"course_name" json:"course_name"`
	CourseCode string `db:"course_code" json:"course_code"`
}

// EnrollmentWithStudent joins in student identity for course rosters.
type EnrollmentWithStudent struct {
	Enrollment
	FirstName     string `db:"first_name" json:"first_name"`
	LastName      string `db:"last_name" json:"last_name"`
	StudentNumber string `db:"student_number" json:"student_number"`
}

// EnrollmentPatch carries the updatable subset of enrollment columns. The
// (student_id, course_id) pair is immutable through the update path.
type EnrollmentPatch struct {
	EnrollmentDate *time.Time        `json:"enrollment_date"`
	Status         *EnrollmentStatus `json:"status"`
	Grade          *string           `json:"grade"`
	FinalScore     *float64          `json:"final_score"`
}
