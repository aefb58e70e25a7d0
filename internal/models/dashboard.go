package models

import "time"

// DashboardSummary aggregates headline counts for the admin dashboard.
type DashboardSummary struct {
	ActiveStudents   int       `db:"active_students" json:"active_students"`
	ActiveCourses    int       `db:"active_courses" json:"active_courses"`
	TotalEnrollments int       `db:"total_enrollments" json:"total_enrollments"`
	PresentToday     int       `db:"present_today" json:"present_today"`
	RecordedToday    int       `db:"recorded_today" json:"recorded_today"`
	GeneratedAt      time.Time `json:"generated_at"`
	AttendanceRate   *float64  `json:"attendance_rate,omitempty"`
}
