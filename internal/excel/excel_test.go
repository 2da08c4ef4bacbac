package excel

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/campusops/registrar-back/internal/db"
	"github.com/campusops/registrar-back/internal/models"
)

// workbook builds an in-memory xlsx with the given rows on the first
// sheet, the way an instructor's upload would arrive.
func workbook(t *testing.T, rows [][]any) *bytes.Reader {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		for j, v := range row {
			axis, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", axis, v))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

type fakeGradeStore struct {
	students map[string]*models.StudentProfile
	grades   map[[2]uint]*models.Grade
	nextID   uint
}

func newFakeGradeStore() *fakeGradeStore {
	return &fakeGradeStore{
		students: map[string]*models.StudentProfile{},
		grades:   map[[2]uint]*models.Grade{},
	}
}

func (f *fakeGradeStore) addStudent(email string, id uint) {
	f.students[email] = &models.StudentProfile{ID: id, User: models.User{Email: email}}
}

func (f *fakeGradeStore) StudentByEmail(_ context.Context, email string) (*models.StudentProfile, error) {
	s, ok := f.students[email]
	if !ok {
		return nil, db.ErrNotFound
	}
	return s, nil
}

func (f *fakeGradeStore) GradeFor(_ context.Context, studentID, courseID uint) (*models.Grade, error) {
	g, ok := f.grades[[2]uint{studentID, courseID}]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (f *fakeGradeStore) UpsertGrade(_ context.Context, g *models.Grade) (bool, error) {
	key := [2]uint{g.StudentID, g.CourseID}
	if existing, ok := f.grades[key]; ok {
		existing.MidtermGrade = g.MidtermGrade
		existing.FinalExamGrade = g.FinalExamGrade
		existing.FinalGrade = g.FinalGrade
		existing.LetterGrade = g.LetterGrade
		existing.Eligibility = g.Eligibility
		existing.Absences = g.Absences
		return false, nil
	}
	f.nextID++
	g.ID = f.nextID
	cp := *g
	f.grades[key] = &cp
	return true, nil
}

func (f *fakeGradeStore) SaveGrade(_ context.Context, g *models.Grade) error {
	cp := *g
	f.grades[[2]uint{g.StudentID, g.CourseID}] = &cp
	return nil
}

type fakeScheduleStore struct {
	courses   map[string]*models.Course
	schedules map[uint]models.ResitExamSchedule
	created   int
	updated   int
}

func newFakeScheduleStore(courses ...models.Course) *fakeScheduleStore {
	s := &fakeScheduleStore{
		courses:   map[string]*models.Course{},
		schedules: map[uint]models.ResitExamSchedule{},
	}
	for i := range courses {
		s.courses[courses[i].Code] = &courses[i]
	}
	return s
}

func (f *fakeScheduleStore) CourseByCode(_ context.Context, code string) (*models.Course, error) {
	c, ok := f.courses[code]
	if !ok {
		return nil, db.ErrNotFound
	}
	return c, nil
}

func (f *fakeScheduleStore) UpsertResitSchedule(_ context.Context, courseID uint, place, date string) (bool, error) {
	_, exists := f.schedules[courseID]
	f.schedules[courseID] = models.ResitExamSchedule{CourseID: courseID, Place: place, Date: date}
	if exists {
		f.updated++
		return false, nil
	}
	f.created++
	return true, nil
}

type fakeContentStore struct {
	contents map[uint]models.ResitExamContent
}

func newFakeContentStore() *fakeContentStore {
	return &fakeContentStore{contents: map[uint]models.ResitExamContent{}}
}

func (f *fakeContentStore) UpsertResitContent(_ context.Context, content *models.ResitExamContent) (bool, error) {
	_, exists := f.contents[content.CourseID]
	f.contents[content.CourseID] = *content
	return !exists, nil
}
