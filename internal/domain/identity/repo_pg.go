package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

// mapPgError translates low-level pgx errors to package sentinels.
func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		if strings.Contains(pgErr.ConstraintName, "email") {
			return ErrDuplicateEmail
		}
		return ErrDuplicate
	}
	return err
}

// =========== Patient Repository ===========

type patientRepoPG struct{ pool *pgxpool.Pool }

func NewPatientRepoPG(pool *pgxpool.Pool) PatientRepository { return &patientRepoPG{pool: pool} }

const patientCols = `id, email, full_name, date_of_birth, password_hash, created_at, updated_at`

func (r *patientRepoPG) scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.DateOfBirth, &p.PasswordHash,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, mapPgError(err)
	}
	return &p, nil
}

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO patients (id, email, full_name, date_of_birth, password_hash)
		VALUES ($1,$2,$3,$4,$5)`,
		p.ID, p.Email, p.FullName, p.DateOfBirth, p.PasswordHash)
	return mapPgError(err)
}

func (r *patientRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return r.scanPatient(r.pool.QueryRow(ctx, `SELECT `+patientCols+` FROM patients WHERE id = $1`, id))
}

func (r *patientRepoPG) GetByEmail(ctx context.Context, email string) (*Patient, error) {
	return r.scanPatient(r.pool.QueryRow(ctx, `SELECT `+patientCols+` FROM patients WHERE lower(email) = lower($1)`, email))
}

// =========== Details Repository ===========

type detailsRepoPG struct{ pool *pgxpool.Pool }

func NewDetailsRepoPG(pool *pgxpool.Pool) DetailsRepository { return &detailsRepoPG{pool: pool} }

const detailsCols = `id, patient_id, condition, height_cm, weight_kg, blood_type, allergies,
	surgery_date, emergency_contact, emergency_phone, created_at, updated_at`

func (r *detailsRepoPG) scanDetails(row pgx.Row) (*PatientDetails, error) {
	var d PatientDetails
	err := row.Scan(&d.ID, &d.PatientID, &d.Condition, &d.HeightCm, &d.WeightKg,
		&d.BloodType, &d.Allergies, &d.SurgeryDate, &d.EmergencyContact, &d.EmergencyPhone,
		&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, mapPgError(err)
	}
	return &d, nil
}

func (r *detailsRepoPG) Create(ctx context.Context, d *PatientDetails) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO patient_details (id, patient_id, condition, height_cm, weight_kg,
			blood_type, allergies, surgery_date, emergency_contact, emergency_phone)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		d.ID, d.PatientID, d.Condition, d.HeightCm, d.WeightKg,
		d.BloodType, d.Allergies, d.SurgeryDate, d.EmergencyContact, d.EmergencyPhone)
	return mapPgError(err)
}

func (r *detailsRepoPG) GetByPatient(ctx context.Context, patientID uuid.UUID) (*PatientDetails, error) {
	return r.scanDetails(r.pool.QueryRow(ctx, `SELECT `+detailsCols+` FROM patient_details WHERE patient_id = $1`, patientID))
}

// =========== Session Repository ===========

type sessionRepoPG struct{ pool *pgxpool.Pool }

func NewSessionRepoPG(pool *pgxpool.Pool) SessionRepository { return &sessionRepoPG{pool: pool} }

func (r *sessionRepoPG) Create(ctx context.Context, s *Session) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO sessions (id, patient_id, expires_at)
		VALUES ($1,$2,$3)`,
		s.ID, s.PatientID, s.ExpiresAt)
	return mapPgError(err)
}

func (r *sessionRepoPG) Active(ctx context.Context, id uuid.UUID) (bool, error) {
	var active bool
	err := r.pool.QueryRow(ctx, `
		SELECT revoked_at IS NULL AND expires_at > NOW()
		FROM sessions WHERE id = $1`, id).Scan(&active)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, mapPgError(err)
	}
	return active, nil
}

func (r *sessionRepoPG) Revoke(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE sessions SET revoked_at = NOW() WHERE id = $1 AND revoked_at IS NULL`, id)
	return mapPgError(err)
}

func (r *sessionRepoPG) RevokeAllForPatient(ctx context.Context, patientID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE sessions SET revoked_at = NOW() WHERE patient_id = $1 AND revoked_at IS NULL`, patientID)
	return mapPgError(err)
}
