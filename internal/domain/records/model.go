package records

import (
	"time"

	"github.com/google/uuid"
)

// VitalRecord maps to the vital_records table. Records are append-only and
// always scoped to the owning patient.
type VitalRecord struct {
	ID                     uuid.UUID `db:"id" json:"id"`
	PatientID              uuid.UUID `db:"patient_id" json:"patient_id"`
	BloodPressureSystolic  int       `db:"blood_pressure_systolic" json:"blood_pressure_systolic"`
	BloodPressureDiastolic int       `db:"blood_pressure_diastolic" json:"blood_pressure_diastolic"`
	HeartRate              int       `db:"heart_rate" json:"heart_rate"`
	Temperature            float64   `db:"temperature" json:"temperature"`
	RecordedAt             time.Time `db:"recorded_at" json:"recorded_at"`
	CreatedAt              time.Time `db:"created_at" json:"created_at"`
}

// Symptom maps to the symptoms table.
type Symptom struct {
	ID         uuid.UUID `db:"id" json:"id"`
	PatientID  uuid.UUID `db:"patient_id" json:"patient_id"`
	Symptom    string    `db:"symptom" json:"symptom"`
	Severity   int       `db:"severity" json:"severity"`
	Notes      *string   `db:"notes" json:"notes,omitempty"`
	RecordedAt time.Time `db:"recorded_at" json:"recorded_at"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Medication maps to the medications table.
type Medication struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	PatientID uuid.UUID  `db:"patient_id" json:"patient_id"`
	Name      string     `db:"name" json:"name"`
	Dosage    string     `db:"dosage" json:"dosage"`
	Frequency string     `db:"frequency" json:"frequency"`
	StartDate *time.Time `db:"start_date" json:"start_date,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}
