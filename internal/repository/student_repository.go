package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/akili-edu/school-api/internal/models"
	appErrors "github.com/akili-edu/school-api/pkg/errors"
)

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	const query = `INSERT INTO students (user_id, student_number, date_of_birth, gender, address, parent_name, parent_phone, parent_email, enrollment_date, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id, created_at, updated_at`
	if err := r.db.QueryRowxContext(ctx, query,
		student.UserID, student.StudentNumber, student.DateOfBirth, student.Gender, student.Address,
		student.ParentName, student.ParentPhone, student.ParentEmail, student.EnrollmentDate, student.Status,
	).Scan(&student.ID, &student.CreatedAt, &student.UpdatedAt); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// CreateWithUser creates the user account and the student row inside a
// single transaction. A failure on either insert rolls back both.
func (r *StudentRepository) CreateWithUser(ctx context.Context, user *models.User, student *models.Student) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin student create: %w", err)
	}

	const userQuery = `INSERT INTO users (username, email, password_hash, role, first_name, last_name, phone)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`
	if err := tx.QueryRowxContext(ctx, userQuery,
		user.Username, user.Email, user.PasswordHash, user.Role, user.FirstName, user.LastName, user.Phone,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("create student user: %w", err)
	}

	student.UserID = user.ID
	const studentQuery = `INSERT INTO students (user_id, student_number, date_of_birth, gender, address, parent_name, parent_phone, parent_email, enrollment_date, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id, created_at, updated_at`
	if err := tx.QueryRowxContext(ctx, studentQuery,
		student.UserID, student.StudentNumber, student.DateOfBirth, student.Gender, student.Address,
		student.ParentName, student.ParentPhone, student.ParentEmail, student.EnrollmentDate, student.Status,
	).Scan(&student.ID, &student.CreatedAt, &student.UpdatedAt); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("create student: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit student create: %w", err)
	}
	return nil
}

// FindByID fetches a student by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	const query = `SELECT id, user_id, student_number, date_of_birth, gender, address, parent_name, parent_phone, parent_email, enrollment_date, status, created_at, updated_at FROM students WHERE id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByUserID fetches the student row linked to a user account.
func (r *StudentRepository) FindByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	const query = `SELECT id, user_id, student_number, date_of_birth, gender, address, parent_name, parent_phone, parent_email, enrollment_date, status, created_at, updated_at FROM students WHERE user_id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, userID); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByStudentNumber fetches a student by its unique student number.
func (r *StudentRepository) FindByStudentNumber(ctx context.Context, number string) (*models.Student, error) {
	const query = `SELECT id, user_id, student_number, date_of_birth, gender, address, parent_name, parent_phone, parent_email, enrollment_date, status, created_at, updated_at FROM students WHERE student_number = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, number); err != nil {
		return nil, err
	}
	return &student, nil
}

// List returns students with their joined user identity.
func (r *StudentRepository) List(ctx context.Context, limit, offset int) ([]models.StudentDetail, error) {
	const query = `SELECT s.id, s.user_id, s.student_number, s.date_of_birth, s.gender, s.address, s.parent_name, s.parent_phone, s.parent_email, s.enrollment_date, s.status, s.created_at, s.updated_at,
        u.first_name, u.last_name, u.email
        FROM students s
        JOIN users u ON u.id = s.user_id
        ORDER BY s.created_at DESC LIMIT $1 OFFSET $2`
	var students []models.StudentDetail
	if err := r.db.SelectContext(ctx, &students, query, limit, offset); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// Update writes the non-nil patch fields and returns the stored record.
func (r *StudentRepository) Update(ctx context.Context, id int64, patch models.StudentPatch) (*models.Student, error) {
	var sets []string
	var args []interface{}

	if patch.StudentNumber != nil {
		sets = append(sets, fmt.Sprintf("student_number = $%d", len(args)+1))
		args = append(args, *patch.StudentNumber)
	}
	if patch.DateOfBirth != nil {
		sets = append(sets, fmt.Sprintf("date_of_birth = $%d", len(args)+1))
		args = append(args, *patch.DateOfBirth)
	}
	if patch.Gender != nil {
		sets = append(sets, fmt.Sprintf("gender = $%d", len(args)+1))
		args = append(args, *patch.Gender)
	}
	if patch.Address != nil {
		sets = append(sets, fmt.Sprintf("address = $%d", len(args)+1))
		args = append(args, *patch.Address)
	}
	if patch.ParentName != nil {
		sets = append(sets, fmt.Sprintf("parent_name = $%d", len(args)+1))
		args = append(args, *patch.ParentName)
	}
	if patch.ParentPhone != nil {
		sets = append(sets, fmt.Sprintf("parent_phone = $%d", len(args)+1))
		args = append(args, *patch.ParentPhone)
	}
	if patch.ParentEmail != nil {
		sets = append(sets, fmt.Sprintf("parent_email = $%d", len(args)+1))
		args = append(args, *patch.ParentEmail)
	}
	if patch.EnrollmentDate != nil {
		sets = append(sets, fmt.Sprintf("enrollment_date = $%d", len(args)+1))
		args = append(args, *patch.EnrollmentDate)
	}
	if patch.Status != nil {
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *patch.Status)
	}

	if len(sets) == 0 {
		return nil, appErrors.ErrNoFieldsToUpdate
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE students SET %s, updated_at = NOW() WHERE id = $%d
        RETURNING id, user_id, student_number, date_of_birth, gender, address, parent_name, parent_phone, parent_email, enrollment_date, status, created_at, updated_at`,
		strings.Join(sets, ", "), len(args))

	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, args...); err != nil {
		return nil, err
	}
	return &student, nil
}

// Delete removes a student by id and reports whether a row was deleted.
func (r *StudentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete student: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete student: %w", err)
	}
	return affected > 0, nil
}
