package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medibloom/api/internal/domain/identity"
	"github.com/medibloom/api/internal/domain/records"
)

// PatientReader is the slice of the identity service the report needs.
type PatientReader interface {
	GetPatient(ctx context.Context, id uuid.UUID) (*identity.Patient, error)
	GetDetails(ctx context.Context, patientID uuid.UUID) (*identity.PatientDetails, error)
}

// RecordReader is the slice of the records service the report needs.
type RecordReader interface {
	AllVitals(ctx context.Context, patientID uuid.UUID) ([]*records.VitalRecord, error)
	AllMedications(ctx context.Context, patientID uuid.UUID) ([]*records.Medication, error)
}

type Service struct {
	patients PatientReader
	records  RecordReader
	now      func() time.Time
}

func NewService(patients PatientReader, recordSvc RecordReader) *Service {
	return &Service{patients: patients, records: recordSvc, now: time.Now}
}

// Generate assembles a patient's full history and renders it, returning the
// document together with its generation time so callers can name the file
// after the same instant the document shows. A patient with no vitals or
// medications still gets a valid document. Missing onboarding details only
// drop the details block.
func (s *Service) Generate(ctx context.Context, patientID uuid.UUID) ([]byte, time.Time, error) {
	patient, err := s.patients.GetPatient(ctx, patientID)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("load patient: %w", err)
	}

	details, err := s.patients.GetDetails(ctx, patientID)
	if err != nil && !errors.Is(err, identity.ErrNotFound) {
		return nil, time.Time{}, fmt.Errorf("load details: %w", err)
	}

	vitals, err := s.records.AllVitals(ctx, patientID)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("load vitals: %w", err)
	}
	medications, err := s.records.AllMedications(ctx, patientID)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("load medications: %w", err)
	}

	generatedAt := s.now()
	doc, err := Build(&HealthReport{
		Patient:     patient,
		Details:     details,
		Vitals:      vitals,
		Medications: medications,
		GeneratedAt: generatedAt,
	})
	if err != nil {
		return nil, time.Time{}, err
	}
	return doc, generatedAt, nil
}
