package models

import "time"

// StudentStatus enumerates the lifecycle states of a student record.
type StudentStatus string

const (
	StudentStatusActive    StudentStatus = "active"
	StudentStatusInactive  StudentStatus = "inactive"
	StudentStatusGraduated StudentStatus = "graduated"
	StudentStatusSuspended StudentStatus = "suspended"
)

// Student represents a learner registered in the institution. Each student
// references exactly one user account.
type Student struct {
	ID             int64         `db:"id" json:"id"`
	UserID         int64         `db:"user_id" json:"user_id"`
	StudentNumber  string        `db:"student_number" json:"student_number"`
	DateOfBirth    time.Time     `db:"date_of_birth" json:"date_of_birth"`
	Gender         string        `db:"gender" json:"gender"`
	Address        *string       `db:"address" json:"address,omitempty"`
	ParentName     *string       `db:"parent_name" json:"parent_name,omitempty"`
	ParentPhone    *string       `db:"parent_phone" json:"parent_phone,omitempty"`
	ParentEmail    *string       `db:"parent_email" json:"parent_email,omitempty"`
	EnrollmentDate time.Time     `db:"enrollment_date" json:"enrollment_date"`
	Status         StudentStatus `db:"status" json:"status"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at" json:"updated_at"`
}

// StudentDetail contains student information with the joined user identity.
type StudentDetail struct {
	Student
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	Email     string `db:"email" json:"email"`
}

// StudentPatch carries the updatable subset of student columns. The user_id
// ownership reference is deliberately absent.
type StudentPatch struct {
	StudentNumber  *string        `json:"student_number"`
	DateOfBirth    *time.Time     `json:"date_of_birth"`
	Gender         *string        `json:"gender"`
	Address        *string        `json:"address"`
	ParentName     *string        `json:"parent_name"`
	ParentPhone    *string        `json:"parent_phone"`
	ParentEmail    *string        `json:"parent_email"`
	EnrollmentDate *time.Time     `json:"enrollment_date"`
	Status         *StudentStatus `json:"status"`
}
