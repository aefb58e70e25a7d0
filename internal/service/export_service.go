package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/akili-edu/school-api/internal/models"
	appErrors "github.com/akili-edu/school-api/pkg/errors"
	"github.com/akili-edu/school-api/pkg/export"
)

type exportStudentRepo interface {
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	FindByUserID(ctx context.Context, userID int64) (*models.Student, error)
}

type exportGradeRepo interface {
	FindByCourse(ctx context.Context, courseID int64) ([]models.GradeWithStudent, error)
	FindByStudent(ctx context.Context, studentID int64) ([]models.GradeWithCourse, error)
}

// ExportService renders grade books and report cards as CSV or PDF.
type ExportService struct {
	grades   exportGradeRepo
	students exportStudentRepo
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
}

// NewExportService constructs ExportService.
func NewExportService(grades exportGradeRepo, students exportStudentRepo, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		grades:   grades,
		students: students,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
	}
}

// CourseGradeBookCSV renders every grade in a course as CSV.
func (s *ExportService) CourseGradeBookCSV(ctx context.Context, courseID int64) ([]byte, string, error) {
	grades, err := s.grades.FindByCourse(ctx, courseID)
	if err != nil {
		return nil, "", mapStoreError(err, "grades not found")
	}

	headers := []string{"Student Number", "First Name", "Last Name", "Grade", "Letter", "Weight", "Graded At"}
	rows := make([]map[string]string, 0, len(grades))
	for _, g := range grades {
		letter := ""
		if g.GradeLetter != nil {
			letter = *g.GradeLetter
		}
		rows = append(rows, map[string]string{
			"Student Number": g.StudentNumber,
			"First Name":     g.FirstName,
			"Last Name":      g.LastName,
			"Grade":          strconv.FormatFloat(g.GradeValue, 'f', 2, 64),
			"Letter":         letter,
			"Weight":         strconv.FormatFloat(g.Weight, 'f', 2, 64),
			"Graded At":      g.GradedAt.Format("2006-01-02"),
		})
	}

	payload, err := s.csv.Render(export.Dataset{Headers: headers, Rows: rows})
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render grade book")
	}
	filename := fmt.Sprintf("course-%d-grades.csv", courseID)
	return payload, filename, nil
}

// StudentReportCardPDF renders a student's per-course weighted averages
// as a PDF report card. Student callers may only export their own.
func (s *ExportService) StudentReportCardPDF(ctx context.Context, caller *models.JWTClaims, studentID int64) ([]byte, string, error) {
	if err := s.checkOwnership(ctx, caller, studentID); err != nil {
		return nil, "", err
	}

	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, "", mapStoreError(err, "student not found")
	}

	grades, err := s.grades.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, "", mapStoreError(err, "grades not found")
	}

	type courseAgg struct {
		name   string
		code   string
		values []weightedValue
	}
	order := make([]int64, 0)
	byCourse := make(map[int64]*courseAgg)
	for _, g := range grades {
		agg, ok := byCourse[g.CourseID]
		if !ok {
			agg = &courseAgg{name: g.CourseName, code: g.CourseCode}
			byCourse[g.CourseID] = agg
			order = append(order, g.CourseID)
		}
		agg.values = append(agg.values, weightedValue{Value: g.GradeValue, Weight: g.Weight})
	}

	headers := []string{"Course Code", "Course", "Grades", "Average"}
	rows := make([]map[string]string, 0, len(order))
	for _, courseID := range order {
		agg := byCourse[courseID]
		avgText := "-"
		if avg := weightedAverage(agg.values); avg != nil {
			avgText = strconv.FormatFloat(*avg, 'f', 2, 64)
		}
		rows = append(rows, map[string]string{
			"Course Code": agg.code,
			"Course":      agg.name,
			"Grades":      strconv.Itoa(len(agg.values)),
			"Average":     avgText,
		})
	}

	title := fmt.Sprintf("Report Card %s", student.StudentNumber)
	payload, err := s.pdf.Render(export.Dataset{Headers: headers, Rows: rows}, title)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report card")
	}
	filename := fmt.Sprintf("student-%s-report.pdf", student.StudentNumber)
	return payload, filename, nil
}

func (s *ExportService) checkOwnership(ctx context.Context, caller *models.JWTClaims, studentID int64) error {
	if caller == nil || caller.Role != models.RoleStudent {
		return nil
	}
	own, err := s.students.FindByUserID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrForbidden, "no student record linked to caller")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve caller student")
	}
	if own.ID != studentID {
		return appErrors.Clone(appErrors.ErrForbidden, "students may only access their own records")
	}
	return nil
}
