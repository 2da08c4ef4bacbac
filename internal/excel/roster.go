package excel

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/campusops/registrar-back/internal/account"
)

// Provisioner creates one student account; satisfied by account.Service.
type Provisioner interface {
	Provision(ctx context.Context, email, name, program string) (*account.Created, error)
}

// ImportRoster provisions an account per data row of an email, name,
// program sheet and returns only the newly created ones. Rows whose
// email already has an account are skipped without being reported: a
// re-run of the same roster is a no-op that leaves every existing
// credential untouched.
func ImportRoster(ctx context.Context, p Provisioner, r io.Reader) ([]account.Created, error) {
	rows, err := Rows(r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, validationErrorf("Excel file must contain columns: Email, Name, Program.")
	}

	cols, ok := ResolveColumns(rows[0], "email", "name", "program")
	if !ok {
		return nil, validationErrorf("Excel file must contain columns: Email, Name, Program.")
	}

	created := make([]account.Created, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rowNum := i + 2
		if blankRow(row) {
			continue
		}

		email := cell(row, cols["email"])
		name := cell(row, cols["name"])
		program := cell(row, cols["program"])

		student, err := p.Provision(ctx, email, name, program)
		if err != nil {
			if errors.Is(err, account.ErrAlreadyExists) {
				continue
			}
			log.Printf("roster row %d: provision %s failed: %v", rowNum, email, err)
			continue
		}
		created = append(created, *student)
	}

	return created, nil
}
