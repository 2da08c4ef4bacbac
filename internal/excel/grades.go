package excel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/campusops/registrar-back/internal/db"
	"github.com/campusops/registrar-back/internal/grading"
	"github.com/campusops/registrar-back/internal/models"
)

// Upload types for grade sheets.
const (
	UploadRegular = "regular"
	UploadResit   = "resit"
)

// GradeStore is the persistence slice grade imports need. Lookups
// report db.ErrNotFound for unknown keys.
type GradeStore interface {
	StudentByEmail(ctx context.Context, email string) (*models.StudentProfile, error)
	GradeFor(ctx context.Context, studentID, courseID uint) (*models.Grade, error)
	UpsertGrade(ctx context.Context, g *models.Grade) (bool, error)
	SaveGrade(ctx context.Context, g *models.Grade) error
}

// ImportGrades reads a grade sheet for one course. The regular variant
// carries email, midterm, final_exam and an optional absences column;
// the resit variant carries email and resit_grade and touches nothing
// but the resit fields. Unlike the schedule import, a bad row aborts
// the whole upload: instructors fix the file and re-run, relying on
// upsert idempotency.
func ImportGrades(ctx context.Context, store GradeStore, course *models.Course, r io.Reader, uploadType string) (int, error) {
	rows, err := Rows(r)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, validationErrorf("Excel file is empty")
	}

	if uploadType == UploadResit {
		return importResitGrades(ctx, store, course, rows)
	}
	return importRegularGrades(ctx, store, course, rows)
}

func importRegularGrades(ctx context.Context, store GradeStore, course *models.Course, rows [][]string) (int, error) {
	cols, ok := ResolveColumns(rows[0], "email", "midterm", "final_exam")
	if !ok {
		return 0, validationErrorf("Excel file must contain columns: Email, Midterm, Final_Exam.")
	}
	absCol, hasAbsences := ResolveColumns(rows[0], "absences")

	count := 0
	for i, row := range rows[1:] {
		rowNum := i + 2
		if blankRow(row) {
			continue
		}

		email := cell(row, cols["email"])
		midterm, err := strconv.ParseFloat(cell(row, cols["midterm"]), 64)
		if err != nil {
			return count, validationErrorf("Row %d: invalid midterm value: %s", rowNum, cell(row, cols["midterm"]))
		}
		finalExam, err := strconv.ParseFloat(cell(row, cols["final_exam"]), 64)
		if err != nil {
			return count, validationErrorf("Row %d: invalid final_exam value: %s", rowNum, cell(row, cols["final_exam"]))
		}

		absences := 0
		if hasAbsences {
			if v := cell(row, absCol["absences"]); v != "" {
				absences, err = strconv.Atoi(v)
				if err != nil {
					return count, validationErrorf("Row %d: invalid absences value: %s", rowNum, v)
				}
			}
		}

		student, err := store.StudentByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return count, validationErrorf("Row %d: StudentProfile not found for email: %s", rowNum, email)
			}
			return count, fmt.Errorf("row %d: resolve student %s: %w", rowNum, email, err)
		}

		res := grading.Compute(midterm, finalExam, absences)
		letter := string(res.Letter)
		grade := models.Grade{
			StudentID:      student.ID,
			CourseID:       course.ID,
			MidtermGrade:   &midterm,
			FinalExamGrade: &finalExam,
			FinalGrade:     &res.Score,
			LetterGrade:    &letter,
			Eligibility:    res.Eligibility,
			Absences:       absences,
		}
		if _, err := store.UpsertGrade(ctx, &grade); err != nil {
			return count, fmt.Errorf("row %d: save grade for %s: %w", rowNum, email, err)
		}
		count++
	}

	return count, nil
}

func importResitGrades(ctx context.Context, store GradeStore, course *models.Course, rows [][]string) (int, error) {
	cols, ok := ResolveColumns(rows[0], "email", "resit_grade")
	if !ok {
		return 0, validationErrorf("Excel file must contain columns: Email, Resit_Grade.")
	}

	count := 0
	for i, row := range rows[1:] {
		rowNum := i + 2
		if blankRow(row) {
			continue
		}

		email := cell(row, cols["email"])
		resitGrade, err := strconv.ParseFloat(cell(row, cols["resit_grade"]), 64)
		if err != nil {
			return count, validationErrorf("Row %d: invalid resit_grade value: %s", rowNum, cell(row, cols["resit_grade"]))
		}

		student, err := store.StudentByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return count, validationErrorf("Row %d: StudentProfile not found for email: %s", rowNum, email)
			}
			return count, fmt.Errorf("row %d: resolve student %s: %w", rowNum, email, err)
		}

		grade, err := store.GradeFor(ctx, student.ID, course.ID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return count, validationErrorf("Row %d: Grade record not found for %s in course %s", rowNum, email, course.Name)
			}
			return count, fmt.Errorf("row %d: load grade for %s: %w", rowNum, email, err)
		}

		grade.ResitExamGrade = &resitGrade
		grading.Sync(grade)
		if err := store.SaveGrade(ctx, grade); err != nil {
			return count, fmt.Errorf("row %d: save resit grade for %s: %w", rowNum, email, err)
		}
		count++
	}

	return count, nil
}
