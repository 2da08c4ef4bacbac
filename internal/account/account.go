package account

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/campusops/registrar-back/internal/db"
	"github.com/campusops/registrar-back/internal/models"
)

// ErrAlreadyExists is returned when an account with the email is already
// registered. Provisioning never updates in place.
var ErrAlreadyExists = errors.New("student already exists")

const passwordChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// DefaultPasswordLength matches the credential slips the secretariat
// prints out.
const DefaultPasswordLength = 8

// GeneratePassword returns an alphanumeric credential with every letter
// and digit equally likely.
func GeneratePassword(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = passwordChars[rand.Intn(len(passwordChars))]
	}
	return string(b)
}

// Store is the slice of persistence the provisioning service needs.
// UserByEmail reports db.ErrNotFound for unknown emails.
type Store interface {
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateStudent(ctx context.Context, user *models.User, profile *models.StudentProfile) error
}

// Created is what the secretariat gets back for a new account, generated
// credential included.
type Created struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Program  string `json:"program"`
	Password string `json:"password"`
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Provision creates identity, student-group membership and profile as a
// single unit. The generated credential is stored in cleartext on the
// profile; this copy is the only one the system keeps.
func (s *Service) Provision(ctx context.Context, email, name, program string) (*Created, error) {
	_, err := s.store.UserByEmail(ctx, email)
	if err == nil {
		return nil, ErrAlreadyExists
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("lookup %s: %w", email, err)
	}

	password := GeneratePassword(DefaultPasswordLength)

	firstName, lastName := splitName(name)
	user := models.User{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Password:  password,
	}
	profile := models.StudentProfile{
		Program:           program,
		GeneratedPassword: password,
	}

	if err := s.store.CreateStudent(ctx, &user, &profile); err != nil {
		return nil, fmt.Errorf("create student %s: %w", email, err)
	}

	return &Created{
		Email:    email,
		Name:     name,
		Program:  program,
		Password: password,
	}, nil
}

// splitName takes the first token as the first name and joins the rest
// as the last name, empty if there is none.
func splitName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
