package excel

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ResitRosterWorkbook builds the downloadable roster of students who
// declared a resit for the course: a single sheet with a Student Email
// header and one row per declaration. Returns the workbook bytes and
// the attachment filename.
func ResitRosterWorkbook(courseCode string, emails []string) (*bytes.Buffer, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := fmt.Sprintf("%s Resits", courseCode)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, "", fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetCellValue(sheet, "A1", "Student Email"); err != nil {
		return nil, "", err
	}
	for i, email := range emails {
		axis := fmt.Sprintf("A%d", i+2)
		if err := f.SetCellValue(sheet, axis, email); err != nil {
			return nil, "", err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("write workbook: %w", err)
	}

	filename := fmt.Sprintf("%s_resit_students.xlsx", courseCode)
	return buf, filename, nil
}
