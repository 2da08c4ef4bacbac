package db

import (
	"context"

	"github.com/campusops/registrar-back/internal/models"
)

func CourseByID(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	if err := DB.WithContext(ctx).First(&course, id).Error; err != nil {
		return nil, translate(err)
	}
	return &course, nil
}

func CourseByCode(ctx context.Context, code string) (*models.Course, error) {
	var course models.Course
	if err := DB.WithContext(ctx).Where("code = ?", code).First(&course).Error; err != nil {
		return nil, translate(err)
	}
	return &course, nil
}

func ListCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := DB.WithContext(ctx).Order("code").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func GradeFor(ctx context.Context, studentID, courseID uint) (*models.Grade, error) {
	var grade models.Grade
	err := DB.WithContext(ctx).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&grade).Error
	if err != nil {
		return nil, translate(err)
	}
	return &grade, nil
}

// UpsertGrade writes the original-attempt fields keyed by
// (student, course). Resit fields and the declared-resit flag survive an
// update: a grade re-upload must not undo a student's declaration.
func UpsertGrade(ctx context.Context, g *models.Grade) (created bool, err error) {
	existing, err := GradeFor(ctx, g.StudentID, g.CourseID)
	if err == ErrNotFound {
		return true, DB.WithContext(ctx).Create(g).Error
	}
	if err != nil {
		return false, err
	}

	existing.MidtermGrade = g.MidtermGrade
	existing.FinalExamGrade = g.FinalExamGrade
	existing.FinalGrade = g.FinalGrade
	existing.LetterGrade = g.LetterGrade
	existing.Eligibility = g.Eligibility
	existing.Absences = g.Absences
	if err := DB.WithContext(ctx).Save(existing).Error; err != nil {
		return false, err
	}
	*g = *existing
	return false, nil
}

func SaveGrade(ctx context.Context, g *models.Grade) error {
	return DB.WithContext(ctx).Save(g).Error
}

func DeleteGrade(ctx context.Context, id uint) error {
	res := DB.WithContext(ctx).Delete(&models.Grade{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func GradesForStudent(ctx context.Context, studentID uint) ([]models.Grade, error) {
	var grades []models.Grade
	err := DB.WithContext(ctx).
		Preload("Course").
		Where("student_id = ?", studentID).
		Order("id").
		Find(&grades).Error
	if err != nil {
		return nil, err
	}
	return grades, nil
}

// GradeFilter narrows the secretariat grade listing. Zero values mean
// "no filter", mirroring the query parameters.
type GradeFilter struct {
	CourseCode    string
	Eligibility   string
	DeclaredResit bool
}

func GradesFiltered(ctx context.Context, filter GradeFilter) ([]models.Grade, error) {
	tx := DB.WithContext(ctx).
		Preload("Course").
		Preload("Student.User").
		Joins("JOIN courses ON courses.id = grades.course_id").
		Order("grades.id")

	if filter.CourseCode != "" {
		tx = tx.Where("courses.code = ?", filter.CourseCode)
	}
	if filter.Eligibility != "" {
		tx = tx.Where("grades.eligibility = ?", filter.Eligibility)
	}
	if filter.DeclaredResit {
		tx = tx.Where("grades.declared_resit = ?", true)
	}

	var grades []models.Grade
	if err := tx.Find(&grades).Error; err != nil {
		return nil, err
	}
	return grades, nil
}

// SetDeclaredResit flips the flag on the student's grade for the course.
// The student must already hold a grade row there.
func SetDeclaredResit(ctx context.Context, studentID uint, courseCode string) error {
	course, err := CourseByCode(ctx, courseCode)
	if err != nil {
		return err
	}

	res := DB.WithContext(ctx).Model(&models.Grade{}).
		Where("student_id = ? AND course_id = ?", studentID, course.ID).
		Update("declared_resit", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func DeclaredResitEmails(ctx context.Context, courseCode string) ([]string, error) {
	var grades []models.Grade
	err := DB.WithContext(ctx).
		Preload("Student.User").
		Joins("JOIN courses ON courses.id = grades.course_id").
		Where("courses.code = ? AND grades.declared_resit = ?", courseCode, true).
		Order("grades.id").
		Find(&grades).Error
	if err != nil {
		return nil, err
	}

	emails := make([]string, 0, len(grades))
	for _, g := range grades {
		emails = append(emails, g.Student.User.Email)
	}
	return emails, nil
}
