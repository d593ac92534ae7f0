package records

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medibloom/api/internal/domain/identity"
)

// =========== Vital Repository ===========

type vitalRepoPG struct{ pool *pgxpool.Pool }

func NewVitalRepoPG(pool *pgxpool.Pool) VitalRepository { return &vitalRepoPG{pool: pool} }

const vitalCols = `id, patient_id, blood_pressure_systolic, blood_pressure_diastolic,
	heart_rate, temperature, recorded_at, created_at`

func scanVital(row pgx.Row) (*VitalRecord, error) {
	var v VitalRecord
	err := row.Scan(&v.ID, &v.PatientID, &v.BloodPressureSystolic, &v.BloodPressureDiastolic,
		&v.HeartRate, &v.Temperature, &v.RecordedAt, &v.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, identity.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *vitalRepoPG) Create(ctx context.Context, v *VitalRecord) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO vital_records (id, patient_id, blood_pressure_systolic,
			blood_pressure_diastolic, heart_rate, temperature, recorded_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		v.ID, v.PatientID, v.BloodPressureSystolic, v.BloodPressureDiastolic,
		v.HeartRate, v.Temperature, v.RecordedAt)
	return err
}

func (r *vitalRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*VitalRecord, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM vital_records WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+vitalCols+` FROM vital_records
		WHERE patient_id = $1 ORDER BY recorded_at ASC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*VitalRecord
	for rows.Next() {
		v, err := scanVital(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, v)
	}
	return items, total, rows.Err()
}

func (r *vitalRepoPG) ListAllByPatient(ctx context.Context, patientID uuid.UUID) ([]*VitalRecord, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+vitalCols+` FROM vital_records
		WHERE patient_id = $1 ORDER BY recorded_at ASC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*VitalRecord
	for rows.Next() {
		v, err := scanVital(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, rows.Err()
}

func (r *vitalRepoPG) LatestByPatient(ctx context.Context, patientID uuid.UUID) (*VitalRecord, error) {
	return scanVital(r.pool.QueryRow(ctx, `SELECT `+vitalCols+` FROM vital_records
		WHERE patient_id = $1 ORDER BY recorded_at DESC LIMIT 1`, patientID))
}

// =========== Symptom Repository ===========

type symptomRepoPG struct{ pool *pgxpool.Pool }

func NewSymptomRepoPG(pool *pgxpool.Pool) SymptomRepository { return &symptomRepoPG{pool: pool} }

const symptomCols = `id, patient_id, symptom, severity, notes, recorded_at, created_at`

func scanSymptom(row pgx.Row) (*Symptom, error) {
	var s Symptom
	err := row.Scan(&s.ID, &s.PatientID, &s.Symptom, &s.Severity, &s.Notes, &s.RecordedAt, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *symptomRepoPG) Create(ctx context.Context, s *Symptom) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO symptoms (id, patient_id, symptom, severity, notes, recorded_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		s.ID, s.PatientID, s.Symptom, s.Severity, s.Notes, s.RecordedAt)
	return err
}

func (r *symptomRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Symptom, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM symptoms WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+symptomCols+` FROM symptoms
		WHERE patient_id = $1 ORDER BY recorded_at ASC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Symptom
	for rows.Next() {
		s, err := scanSymptom(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	return items, total, rows.Err()
}

// =========== Medication Repository ===========

type medicationRepoPG struct{ pool *pgxpool.Pool }

func NewMedicationRepoPG(pool *pgxpool.Pool) MedicationRepository { return &medicationRepoPG{pool: pool} }

const medicationCols = `id, patient_id, name, dosage, frequency, start_date, created_at`

func scanMedication(row pgx.Row) (*Medication, error) {
	var m Medication
	err := row.Scan(&m.ID, &m.PatientID, &m.Name, &m.Dosage, &m.Frequency, &m.StartDate, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *medicationRepoPG) Create(ctx context.Context, m *Medication) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO medications (id, patient_id, name, dosage, frequency, start_date)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		m.ID, m.PatientID, m.Name, m.Dosage, m.Frequency, m.StartDate)
	return err
}

func (r *medicationRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Medication, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM medications WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+medicationCols+` FROM medications
		WHERE patient_id = $1 ORDER BY created_at ASC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Medication
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, m)
	}
	return items, total, rows.Err()
}

func (r *medicationRepoPG) ListAllByPatient(ctx context.Context, patientID uuid.UUID) ([]*Medication, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+medicationCols+` FROM medications
		WHERE patient_id = $1 ORDER BY created_at ASC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Medication
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}
