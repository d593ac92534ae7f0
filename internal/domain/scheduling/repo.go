package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ClinicRepository interface {
	List(ctx context.Context) ([]*Clinic, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Clinic, error)
}

type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, patientID, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	// Delete returns identity.ErrNotFound when no row was removed, so
	// callers only treat the appointment as gone once the database
	// confirms it.
	Delete(ctx context.Context, patientID, id uuid.UUID) error
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error)
	ListUpcoming(ctx context.Context, patientID uuid.UUID, limit int) ([]*Appointment, error)
	ListBetween(ctx context.Context, patientID uuid.UUID, from, to time.Time) ([]*Appointment, error)
}
