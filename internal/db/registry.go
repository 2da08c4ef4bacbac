package db

import (
	"context"

	"github.com/campusops/registrar-back/internal/models"
)

// Registry adapts the package-level query functions to the narrow store
// interfaces that the excel and account packages accept, so those
// pipelines can be tested against fakes.
type Registry struct{}

func (Registry) CourseByCode(ctx context.Context, code string) (*models.Course, error) {
	return CourseByCode(ctx, code)
}

func (Registry) StudentByEmail(ctx context.Context, email string) (*models.StudentProfile, error) {
	return StudentByEmail(ctx, email)
}

func (Registry) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	return UserByEmail(ctx, email)
}

func (Registry) CreateStudent(ctx context.Context, user *models.User, profile *models.StudentProfile) error {
	return CreateStudent(ctx, user, profile)
}

func (Registry) GradeFor(ctx context.Context, studentID, courseID uint) (*models.Grade, error) {
	return GradeFor(ctx, studentID, courseID)
}

func (Registry) UpsertGrade(ctx context.Context, g *models.Grade) (bool, error) {
	return UpsertGrade(ctx, g)
}

func (Registry) SaveGrade(ctx context.Context, g *models.Grade) error {
	return SaveGrade(ctx, g)
}

func (Registry) UpsertResitSchedule(ctx context.Context, courseID uint, place, date string) (bool, error) {
	return UpsertResitSchedule(ctx, courseID, place, date)
}

func (Registry) UpsertResitContent(ctx context.Context, content *models.ResitExamContent) (bool, error) {
	return UpsertResitContent(ctx, content)
}

func (Registry) CourseByID(ctx context.Context, id uint) (*models.Course, error) {
	return CourseByID(ctx, id)
}

func (Registry) ListCourses(ctx context.Context) ([]models.Course, error) {
	return ListCourses(ctx)
}

func (Registry) SetDeclaredResit(ctx context.Context, studentID uint, courseCode string) error {
	return SetDeclaredResit(ctx, studentID, courseCode)
}

func (Registry) DeleteGrade(ctx context.Context, id uint) error {
	return DeleteGrade(ctx, id)
}

func (Registry) DeclaredResitEmails(ctx context.Context, courseCode string) ([]string, error) {
	return DeclaredResitEmails(ctx, courseCode)
}

func (Registry) GradesForStudent(ctx context.Context, studentID uint) ([]models.Grade, error) {
	return GradesForStudent(ctx, studentID)
}

func (Registry) GradesFiltered(ctx context.Context, filter GradeFilter) ([]models.Grade, error) {
	return GradesFiltered(ctx, filter)
}

func (Registry) CreateAnnouncement(ctx context.Context, a *models.Announcement) error {
	return CreateAnnouncement(ctx, a)
}

func (Registry) ListAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	return ListAnnouncements(ctx)
}

func (Registry) ListFacultyAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	return ListFacultyAnnouncements(ctx)
}

func (Registry) ResitDetailsForStudent(ctx context.Context, studentID uint) ([]ResitDetails, error) {
	return ResitDetailsForStudent(ctx, studentID)
}

func (Registry) DeleteUserByEmail(ctx context.Context, email string) error {
	return DeleteUserByEmail(ctx, email)
}
