package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultUpcomingLimit bounds the dashboard's upcoming-appointments view.
const DefaultUpcomingLimit = 5

type Service struct {
	clinics      ClinicRepository
	appointments AppointmentRepository
	logger       zerolog.Logger
}

func NewService(clinics ClinicRepository, appointments AppointmentRepository, logger zerolog.Logger) *Service {
	return &Service{clinics: clinics, appointments: appointments, logger: logger}
}

func (s *Service) ListClinics(ctx context.Context) ([]*Clinic, error) {
	return s.clinics.List(ctx)
}

type AppointmentInput struct {
	ClinicID    uuid.UUID `json:"clinic_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

func (in *AppointmentInput) validate() error {
	if in.ClinicID == uuid.Nil {
		return fmt.Errorf("clinic_id is required")
	}
	if in.Title == "" {
		return fmt.Errorf("title is required")
	}
	if in.ScheduledAt.IsZero() {
		return fmt.Errorf("scheduled_at is required")
	}
	return nil
}

// Create resolves the clinic and copies its address into the appointment's
// location field. The location is a snapshot taken now, so editing the clinic
// afterwards never rewrites existing appointments.
func (s *Service) Create(ctx context.Context, patientID uuid.UUID, in *AppointmentInput) (*Appointment, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	clinic, err := s.clinics.GetByID(ctx, in.ClinicID)
	if err != nil {
		return nil, fmt.Errorf("resolve clinic: %w", err)
	}

	a := &Appointment{
		PatientID:   patientID,
		ClinicID:    clinic.ID,
		Title:       in.Title,
		Description: in.Description,
		ScheduledAt: in.ScheduledAt,
		Location:    clinic.Address,
	}
	if err := s.appointments.Create(ctx, a); err != nil {
		return nil, err
	}
	a.ClinicName = clinic.Name
	a.ClinicAddress = clinic.Address
	a.ClinicPhone = clinic.Phone
	return a, nil
}

// Update re-resolves the clinic and refreshes the location snapshot.
func (s *Service) Update(ctx context.Context, patientID, id uuid.UUID, in *AppointmentInput) (*Appointment, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	clinic, err := s.clinics.GetByID(ctx, in.ClinicID)
	if err != nil {
		return nil, fmt.Errorf("resolve clinic: %w", err)
	}

	a := &Appointment{
		ID:          id,
		PatientID:   patientID,
		ClinicID:    clinic.ID,
		Title:       in.Title,
		Description: in.Description,
		ScheduledAt: in.ScheduledAt,
		Location:    clinic.Address,
	}
	if err := s.appointments.Update(ctx, a); err != nil {
		return nil, err
	}
	return s.appointments.GetByID(ctx, patientID, id)
}

// Delete only succeeds once the database confirms a row was removed.
// Callers keep the appointment in any cached view until then.
func (s *Service) Delete(ctx context.Context, patientID, id uuid.UUID) error {
	return s.appointments.Delete(ctx, patientID, id)
}

func (s *Service) Get(ctx context.Context, patientID, id uuid.UUID) (*Appointment, error) {
	return s.appointments.GetByID(ctx, patientID, id)
}

func (s *Service) ListAll(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error) {
	return s.appointments.ListByPatient(ctx, patientID)
}

func (s *Service) ListUpcoming(ctx context.Context, patientID uuid.UUID, limit int) ([]*Appointment, error) {
	if limit <= 0 {
		limit = DefaultUpcomingLimit
	}
	return s.appointments.ListUpcoming(ctx, patientID, limit)
}

// Calendar projects appointments in [from, to) onto fixed one-hour entries.
func (s *Service) Calendar(ctx context.Context, patientID uuid.UUID, from, to time.Time) ([]CalendarEntry, error) {
	items, err := s.appointments.ListBetween(ctx, patientID, from, to)
	if err != nil {
		return nil, err
	}
	entries := make([]CalendarEntry, 0, len(items))
	for _, a := range items {
		entries = append(entries, a.CalendarEntry())
	}
	return entries, nil
}
