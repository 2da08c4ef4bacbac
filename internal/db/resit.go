package db

import (
	"context"

	"github.com/campusops/registrar-back/internal/models"
)

// UpsertResitSchedule writes the schedule keyed by course. The created
// return makes the create-or-update branch visible to callers and tests.
func UpsertResitSchedule(ctx context.Context, courseID uint, place, date string) (created bool, err error) {
	var existing models.ResitExamSchedule
	err = DB.WithContext(ctx).Where("course_id = ?", courseID).First(&existing).Error
	if translate(err) == ErrNotFound {
		sched := models.ResitExamSchedule{CourseID: courseID, Place: place, Date: date}
		return true, DB.WithContext(ctx).Create(&sched).Error
	}
	if err != nil {
		return false, err
	}

	existing.Place = place
	existing.Date = date
	return false, DB.WithContext(ctx).Save(&existing).Error
}

func UpsertResitContent(ctx context.Context, content *models.ResitExamContent) (created bool, err error) {
	var existing models.ResitExamContent
	err = DB.WithContext(ctx).Where("course_id = ?", content.CourseID).First(&existing).Error
	if translate(err) == ErrNotFound {
		return true, DB.WithContext(ctx).Create(content).Error
	}
	if err != nil {
		return false, err
	}

	existing.ExamType = content.ExamType
	existing.NumQuestions = content.NumQuestions
	existing.CalculatorAllowed = content.CalculatorAllowed
	existing.AdditionalNotes = content.AdditionalNotes
	if err := DB.WithContext(ctx).Save(&existing).Error; err != nil {
		return false, err
	}
	*content = existing
	return false, nil
}

// ResitDetails bundles what a declared student sees for one course.
type ResitDetails struct {
	Course   models.Course             `json:"course"`
	Schedule *models.ResitExamSchedule `json:"schedule,omitempty"`
	Content  *models.ResitExamContent  `json:"content,omitempty"`
}

// ResitDetailsForStudent collects schedule and content for every course
// the student declared a resit in.
func ResitDetailsForStudent(ctx context.Context, studentID uint) ([]ResitDetails, error) {
	var grades []models.Grade
	err := DB.WithContext(ctx).
		Preload("Course").
		Where("student_id = ? AND declared_resit = ?", studentID, true).
		Order("id").
		Find(&grades).Error
	if err != nil {
		return nil, err
	}

	details := make([]ResitDetails, 0, len(grades))
	for _, g := range grades {
		d := ResitDetails{Course: g.Course}

		var sched models.ResitExamSchedule
		if err := DB.WithContext(ctx).Where("course_id = ?", g.CourseID).First(&sched).Error; err == nil {
			d.Schedule = &sched
		} else if translate(err) != ErrNotFound {
			return nil, err
		}

		var content models.ResitExamContent
		if err := DB.WithContext(ctx).Where("course_id = ?", g.CourseID).First(&content).Error; err == nil {
			d.Content = &content
		} else if translate(err) != ErrNotFound {
			return nil, err
		}

		details = append(details, d)
	}
	return details, nil
}
