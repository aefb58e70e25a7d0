package models

import "time"

// Grade represents a single graded item for a student in a course,
// optionally linked to an assignment. Weight defaults to 1.0 when the
// creation request omits it.
type Grade struct {
	ID           int64     `db:"id" json:"id"`
	StudentID    int64     `db:"student_id" json:"student_id"`
	CourseID     int64     `db:"course_id" json:"course_id"`
	AssignmentID *int64    `db:"assignment_id" json:"assignment_id,omitempty"`
	GradeValue   float64   `db:"grade_value" json:"grade_value"`
	GradeLetter  *string   `db:"grade_letter" json:"grade_letter,omitempty"`
	Weight       float64   `db:"weight" json:"weight"`
	GradedBy     int64     `db:"graded_by" json:"graded_by"`
	GradedAt     time.Time `db:"graded_at" json:"graded_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// GradeWithCourse joins in course context for a student's grade history.
type GradeWithCourse struct {
	Grade
	CourseName string `db:"course_name" json:"course_name"`
	CourseCode string `db:"course_code" json:"course_code"`
}

// GradeWithAssignment joins in the optional assignment title.
type GradeWithAssignment struct {
	Grade
	AssignmentTitle *string `db:"assignment_title" json:"assignment_title,omitempty"`
}

// GradeWithStudent joins in student identity for course grade books.
type GradeWithStudent struct {
	Grade
	FirstName     string `db:"first_name" json:"first_name"`
	LastName      string `db:"last_name" json:"last_name"`
	StudentNumber string `db:"student_number" json:"student_number"`
}

// GradePatch carries the updatable subset of grade columns. The student,
// course and grader references cannot be reassigned after creation.
type GradePatch struct {
	GradeValue  *float64 `json:"grade_value"`
	GradeLetter *string  `json:"grade_letter"`
	Weight      *float64 `json:"weight"`
}
