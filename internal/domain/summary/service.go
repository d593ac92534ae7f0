package summary

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medibloom/api/internal/domain/identity"
	"github.com/medibloom/api/internal/domain/records"
	"github.com/medibloom/api/internal/domain/scheduling"
)

const upcomingLimit = 5

// VitalReader and friends are the slices of the domain services the
// dashboard aggregates.
type VitalReader interface {
	LatestVital(ctx context.Context, patientID uuid.UUID) (*records.VitalRecord, error)
	AllMedications(ctx context.Context, patientID uuid.UUID) ([]*records.Medication, error)
}

type AppointmentReader interface {
	ListUpcoming(ctx context.Context, patientID uuid.UUID, limit int) ([]*scheduling.Appointment, error)
}

// Dashboard is the single payload backing the landing view: the most recent
// vitals reading, current medications and the next few appointments.
type Dashboard struct {
	LatestVital          *records.VitalRecord      `json:"latest_vital"`
	Medications          []*records.Medication     `json:"medications"`
	UpcomingAppointments []*scheduling.Appointment `json:"upcoming_appointments"`
}

type Service struct {
	records      VitalReader
	appointments AppointmentReader
	logger       zerolog.Logger
}

func NewService(recordSvc VitalReader, appointments AppointmentReader, logger zerolog.Logger) *Service {
	return &Service{records: recordSvc, appointments: appointments, logger: logger}
}

// Get builds the dashboard. Each section degrades independently: a failed
// lookup is logged and leaves that section empty rather than failing the
// whole payload.
func (s *Service) Get(ctx context.Context, patientID uuid.UUID) *Dashboard {
	d := &Dashboard{
		Medications:          []*records.Medication{},
		UpcomingAppointments: []*scheduling.Appointment{},
	}

	latest, err := s.records.LatestVital(ctx, patientID)
	switch {
	case err == nil:
		d.LatestVital = latest
	case errors.Is(err, identity.ErrNotFound):
		// no readings yet
	default:
		s.logger.Warn().Err(err).Str("patient_id", patientID.String()).Msg("dashboard: latest vital lookup failed")
	}

	meds, err := s.records.AllMedications(ctx, patientID)
	if err != nil {
		s.logger.Warn().Err(err).Str("patient_id", patientID.String()).Msg("dashboard: medications lookup failed")
	} else if meds != nil {
		d.Medications = meds
	}

	upcoming, err := s.appointments.ListUpcoming(ctx, patientID, upcomingLimit)
	if err != nil {
		s.logger.Warn().Err(err).Str("patient_id", patientID.String()).Msg("dashboard: upcoming appointments lookup failed")
	} else if upcoming != nil {
		d.UpcomingAppointments = upcoming
	}

	return d
}
