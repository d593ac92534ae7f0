package records

import (
	"context"

	"github.com/google/uuid"
)

type VitalRepository interface {
	Create(ctx context.Context, v *VitalRecord) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*VitalRecord, int, error)
	ListAllByPatient(ctx context.Context, patientID uuid.UUID) ([]*VitalRecord, error)
	LatestByPatient(ctx context.Context, patientID uuid.UUID) (*VitalRecord, error)
}

type SymptomRepository interface {
	Create(ctx context.Context, s *Symptom) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Symptom, int, error)
}

type MedicationRepository interface {
	Create(ctx context.Context, m *Medication) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Medication, int, error)
	ListAllByPatient(ctx context.Context, patientID uuid.UUID) ([]*Medication, error)
}
