package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned on a unique-key conflict other than email.
	ErrDuplicate = errors.New("duplicate key")
	// ErrDuplicateEmail is returned when the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidCredentials is returned when sign-in fails verification.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type PatientRepository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetByEmail(ctx context.Context, email string) (*Patient, error)
}

type DetailsRepository interface {
	Create(ctx context.Context, d *PatientDetails) error
	GetByPatient(ctx context.Context, patientID uuid.UUID) (*PatientDetails, error)
}

type SessionRepository interface {
	Create(ctx context.Context, s *Session) error
	Active(ctx context.Context, id uuid.UUID) (bool, error)
	Revoke(ctx context.Context, id uuid.UUID) error
	RevokeAllForPatient(ctx context.Context, patientID uuid.UUID) error
}
