package records

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Severity bounds for symptom entries.
const (
	MinSeverity = 1
	MaxSeverity = 10
)

// ErrValidation marks input the caller can correct. Handlers map it to a
// 400; anything else from an Add is a storage failure and surfaces as 500.
var ErrValidation = errors.New("invalid input")

type Service struct {
	vitals      VitalRepository
	symptoms    SymptomRepository
	medications MedicationRepository
}

func NewService(vitals VitalRepository, symptoms SymptomRepository, medications MedicationRepository) *Service {
	return &Service{vitals: vitals, symptoms: symptoms, medications: medications}
}

// -- Vitals --

// AddVital validates and stores a vitals reading. Validation failures happen
// before any insert, so no partial record is ever written.
func (s *Service) AddVital(ctx context.Context, patientID uuid.UUID, v *VitalRecord) error {
	if v.BloodPressureSystolic <= 0 {
		return fmt.Errorf("%w: blood_pressure_systolic must be a positive number", ErrValidation)
	}
	if v.BloodPressureDiastolic <= 0 {
		return fmt.Errorf("%w: blood_pressure_diastolic must be a positive number", ErrValidation)
	}
	if v.BloodPressureDiastolic >= v.BloodPressureSystolic {
		return fmt.Errorf("%w: blood_pressure_diastolic must be below blood_pressure_systolic", ErrValidation)
	}
	if v.HeartRate <= 0 {
		return fmt.Errorf("%w: heart_rate must be a positive number", ErrValidation)
	}
	if v.Temperature <= 0 {
		return fmt.Errorf("%w: temperature must be a positive number", ErrValidation)
	}
	if v.RecordedAt.IsZero() {
		v.RecordedAt = time.Now()
	}

	v.PatientID = patientID
	return s.vitals.Create(ctx, v)
}

func (s *Service) ListVitals(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*VitalRecord, int, error) {
	return s.vitals.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) AllVitals(ctx context.Context, patientID uuid.UUID) ([]*VitalRecord, error) {
	return s.vitals.ListAllByPatient(ctx, patientID)
}

func (s *Service) LatestVital(ctx context.Context, patientID uuid.UUID) (*VitalRecord, error) {
	return s.vitals.LatestByPatient(ctx, patientID)
}

// -- Symptoms --

func (s *Service) AddSymptom(ctx context.Context, patientID uuid.UUID, sym *Symptom) error {
	if sym.Symptom == "" {
		return fmt.Errorf("%w: symptom is required", ErrValidation)
	}
	if sym.Severity < MinSeverity || sym.Severity > MaxSeverity {
		return fmt.Errorf("%w: severity must be between %d and %d", ErrValidation, MinSeverity, MaxSeverity)
	}
	if sym.RecordedAt.IsZero() {
		sym.RecordedAt = time.Now()
	}

	sym.PatientID = patientID
	return s.symptoms.Create(ctx, sym)
}

func (s *Service) ListSymptoms(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Symptom, int, error) {
	return s.symptoms.ListByPatient(ctx, patientID, limit, offset)
}

// -- Medications --

func (s *Service) AddMedication(ctx context.Context, patientID uuid.UUID, m *Medication) error {
	if m.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if m.Dosage == "" {
		return fmt.Errorf("%w: dosage is required", ErrValidation)
	}
	if m.Frequency == "" {
		return fmt.Errorf("%w: frequency is required", ErrValidation)
	}

	m.PatientID = patientID
	return s.medications.Create(ctx, m)
}

func (s *Service) ListMedications(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Medication, int, error) {
	return s.medications.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) AllMedications(ctx context.Context, patientID uuid.UUID) ([]*Medication, error) {
	return s.medications.ListAllByPatient(ctx, patientID)
}
