package models

import "time"

// AttendanceStatus enumerates per-day attendance outcomes.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "present"
	AttendanceStatusAbsent  AttendanceStatus = "absent"
	AttendanceStatusLate    AttendanceStatus = "late"
	AttendanceStatusExcused AttendanceStatus = "excused"
)

// Attendance records a student's presence in a course on a given date.
type Attendance struct {
	ID        int64            `db:"id" json:"id"`
	StudentID int64            `db:"student_id" json:"student_id"`
	CourseID  int64            `db:"course_id" json:"course_id"`
	Date      time.Time        `db:"date" json:"date"`
	Status    AttendanceStatus `db:"status" json:"status"`
	Notes     *string          `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt time.Time        `db:"updated_at" json:"updated_at"`
}

// AttendanceWithStudent joins in student identity for course/date listings.
type AttendanceWithStudent struct {
	Attendance
	FirstName     string `db:"first_name" json:"first_name"`
	LastName      string `db:"last_name" json:"last_name"`
	StudentNumber string `db:"student_number" json:"student_number"`
}

// AttendancePatch carries the updatable subset of attendance columns.
type AttendancePatch struct {
	Date   *time.Time        `json:"date"`
	Status *AttendanceStatus `json:"status"`
	Notes  *string           `json:"notes"`
}
