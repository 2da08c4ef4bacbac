package excel

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/campusops/registrar-back/internal/db"
	"github.com/campusops/registrar-back/internal/models"
)

// ScheduleStore is what the schedule import needs from persistence.
type ScheduleStore interface {
	CourseByCode(ctx context.Context, code string) (*models.Course, error)
	UpsertResitSchedule(ctx context.Context, courseID uint, place, date string) (bool, error)
}

// Combined place+date must fit the printed announcement column.
const maxPlaceDateLen = 100

// ImportResitSchedule upserts one schedule per course from a sheet with
// Course ID, Course Name, Place and Date columns. Row failures
// accumulate and do not stop the batch: every valid row is upserted
// even when the overall result is an error. Only a bad header aborts
// before any row is processed.
func ImportResitSchedule(ctx context.Context, store ScheduleStore, r io.Reader) (int, error) {
	rows, err := Rows(r)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, validationErrorf("Excel file must contain columns: Course ID, Course Name, Place, Date.")
	}

	cols, ok := ResolveColumns(rows[0], "course id", "course name", "place", "date")
	if !ok {
		return 0, validationErrorf("Excel file must contain columns: Course ID, Course Name, Place, Date.")
	}

	var rowErrs RowErrors
	count := 0
	for i, row := range rows[1:] {
		rowNum := i + 2
		if blankRow(row) {
			continue
		}

		code := cell(row, cols["course id"])
		courseName := cell(row, cols["course name"])
		place := cell(row, cols["place"])
		date := cell(row, cols["date"])

		course, err := store.CourseByCode(ctx, code)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				rowErrs.Addf(rowNum, "Course with ID %s not found.", code)
			} else {
				rowErrs.Addf(rowNum, "Error processing data: %v", err)
			}
			continue
		}

		if courseName != "" && !strings.EqualFold(courseName, course.Name) {
			rowErrs.Addf(rowNum, "Course name '%s' does not match Course ID %s.", courseName, code)
			continue
		}

		if place == "" || date == "" {
			rowErrs.Addf(rowNum, "Place and Date are required.")
			continue
		}
		if len(place)+len(date)+2 > maxPlaceDateLen {
			rowErrs.Addf(rowNum, "Combined Place and Date exceed %d characters.", maxPlaceDateLen)
			continue
		}

		if _, err := store.UpsertResitSchedule(ctx, course.ID, place, date); err != nil {
			rowErrs.Addf(rowNum, "Error processing data: %v", err)
			continue
		}
		count++
	}

	return count, rowErrs.Err()
}
