package excel

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusops/registrar-back/internal/account"
)

type fakeProvisioner struct {
	passwords map[string]string
	failFor   map[string]error
	calls     int
}

func newFakeProvisioner() *fakeProvisioner {
	return &fakeProvisioner{passwords: map[string]string{}}
}

func (f *fakeProvisioner) Provision(_ context.Context, email, name, program string) (*account.Created, error) {
	f.calls++
	if err, ok := f.failFor[email]; ok {
		return nil, err
	}
	if _, ok := f.passwords[email]; ok {
		return nil, account.ErrAlreadyExists
	}
	password := account.GeneratePassword(account.DefaultPasswordLength)
	f.passwords[email] = password
	return &account.Created{Email: email, Name: name, Program: program, Password: password}, nil
}

func rosterSheet(t *testing.T) [][]any {
	t.Helper()
	return [][]any{
		{"Email", "Name", "Program"},
		{"ada@uni.edu", "Ada Lovelace", "Mathematics"},
		{"bob@uni.edu", "Bob Doe", "Physics"},
	}
}

func TestImportRoster(t *testing.T) {
	p := newFakeProvisioner()

	created, err := ImportRoster(context.Background(), p, workbook(t, rosterSheet(t)))
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, "ada@uni.edu", created[0].Email)
	assert.Equal(t, "Mathematics", created[0].Program)
	assert.NotEmpty(t, created[0].Password)
}

func TestImportRoster_MissingColumnFailsFast(t *testing.T) {
	p := newFakeProvisioner()
	sheet := workbook(t, [][]any{
		{"email", "name"},
		{"ada@uni.edu", "Ada Lovelace"},
	})

	_, err := ImportRoster(context.Background(), p, sheet)
	require.Error(t, err)
	assert.Equal(t, "Excel file must contain columns: Email, Name, Program.", err.Error())
	assert.Equal(t, 0, p.calls)
}

// Re-running the same roster creates nothing new and leaves the first
// run's credentials alone; duplicates are skipped, not reported.
func TestImportRoster_SecondRunSkipsDuplicatesSilently(t *testing.T) {
	p := newFakeProvisioner()

	first, err := ImportRoster(context.Background(), p, workbook(t, rosterSheet(t)))
	require.NoError(t, err)
	require.Len(t, first, 2)
	adaPassword := p.passwords["ada@uni.edu"]

	second, err := ImportRoster(context.Background(), p, workbook(t, rosterSheet(t)))
	require.NoError(t, err)
	assert.Empty(t, second)
	assert.Equal(t, adaPassword, p.passwords["ada@uni.edu"])
}

// A row that fails to provision for any other reason is skipped too;
// the upload still reports the accounts it did create.
func TestImportRoster_ProvisionFailureSkipsRow(t *testing.T) {
	p := newFakeProvisioner()
	p.failFor = map[string]error{"ada@uni.edu": errors.New("store unavailable")}

	created, err := ImportRoster(context.Background(), p, workbook(t, rosterSheet(t)))
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "bob@uni.edu", created[0].Email)
}

func TestImportRoster_PartialOverlap(t *testing.T) {
	p := newFakeProvisioner()
	_, err := ImportRoster(context.Background(), p, workbook(t, rosterSheet(t)))
	require.NoError(t, err)

	sheet := workbook(t, [][]any{
		{"email", "name", "program"},
		{"ada@uni.edu", "Ada Lovelace", "Mathematics"},
		{"eve@uni.edu", "Eve Short", "Chemistry"},
	})
	created, err := ImportRoster(context.Background(), p, sheet)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "eve@uni.edu", created[0].Email)
}
