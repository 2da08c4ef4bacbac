package excel

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/campusops/registrar-back/internal/models"
)

// ContentStore is what the content import needs from persistence.
type ContentStore interface {
	UpsertResitContent(ctx context.Context, content *models.ResitExamContent) (bool, error)
}

// ImportResitContent reads exam details for one course. Columns are
// positional, not named: num_questions, exam_type, calculator_allowed,
// additional_notes as the first four cells of each data row. The first
// bad row aborts the whole upload. Sheets in circulation rely on both
// behaviors; do not unify with the schedule import (see DESIGN.md).
func ImportResitContent(ctx context.Context, store ContentStore, courseID uint, r io.Reader) (int, error) {
	rows, err := Rows(r)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, validationErrorf("Excel file is empty")
	}

	count := 0
	for i, row := range rows[1:] {
		rowNum := i + 2
		if blankRow(row) {
			continue
		}
		if len(row) < 4 {
			return count, validationErrorf("Incomplete data in row %d", rowNum)
		}

		numRaw := cell(row, 0)
		numQuestions, err := strconv.ParseFloat(numRaw, 64)
		if err != nil || numQuestions < 0 {
			return count, validationErrorf("Invalid 'num_questions' value: %s", numRaw)
		}

		calcRaw := cell(row, 2)
		var calculatorAllowed bool
		switch strings.ToLower(calcRaw) {
		case "yes":
			calculatorAllowed = true
		case "no":
			calculatorAllowed = false
		default:
			return count, validationErrorf("Invalid 'calculator_allowed' value: %s", calcRaw)
		}

		content := models.ResitExamContent{
			CourseID:          courseID,
			ExamType:          cell(row, 1),
			NumQuestions:      int(numQuestions),
			CalculatorAllowed: calculatorAllowed,
			AdditionalNotes:   cell(row, 3),
		}
		if _, err := store.UpsertResitContent(ctx, &content); err != nil {
			return count, fmt.Errorf("row %d: save exam content: %w", rowNum, err)
		}
		count++
	}

	return count, nil
}
