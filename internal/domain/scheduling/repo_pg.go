package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medibloom/api/internal/domain/identity"
)

// =========== Clinic Repository ===========

type clinicRepoPG struct{ pool *pgxpool.Pool }

func NewClinicRepoPG(pool *pgxpool.Pool) ClinicRepository { return &clinicRepoPG{pool: pool} }

const clinicCols = `id, name, address, phone, created_at`

func scanClinic(row pgx.Row) (*Clinic, error) {
	var c Clinic
	err := row.Scan(&c.ID, &c.Name, &c.Address, &c.Phone, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, identity.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *clinicRepoPG) List(ctx context.Context) ([]*Clinic, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+clinicCols+` FROM clinics ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Clinic
	for rows.Next() {
		c, err := scanClinic(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (r *clinicRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Clinic, error) {
	return scanClinic(r.pool.QueryRow(ctx, `SELECT `+clinicCols+` FROM clinics WHERE id = $1`, id))
}

// =========== Appointment Repository ===========

type appointmentRepoPG struct{ pool *pgxpool.Pool }

func NewAppointmentRepoPG(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepoPG{pool: pool}
}

// Appointment reads always carry the clinic join so list views can show the
// clinic's current name and contact details next to the snapshotted location.
const appointmentCols = `a.id, a.patient_id, a.clinic_id, a.title, a.description,
	a.scheduled_at, a.location, a.created_at, a.updated_at,
	c.name, c.address, c.phone`

const appointmentFrom = ` FROM appointments a JOIN clinics c ON c.id = a.clinic_id`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.ClinicID, &a.Title, &a.Description,
		&a.ScheduledAt, &a.Location, &a.CreatedAt, &a.UpdatedAt,
		&a.ClinicName, &a.ClinicAddress, &a.ClinicPhone)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, identity.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *appointmentRepoPG) Create(ctx context.Context, a *Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO appointments (id, patient_id, clinic_id, title, description, scheduled_at, location)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at`,
		a.ID, a.PatientID, a.ClinicID, a.Title, a.Description, a.ScheduledAt, a.Location).
		Scan(&a.CreatedAt, &a.UpdatedAt)
}

func (r *appointmentRepoPG) GetByID(ctx context.Context, patientID, id uuid.UUID) (*Appointment, error) {
	return scanAppointment(r.pool.QueryRow(ctx, `SELECT `+appointmentCols+appointmentFrom+`
		WHERE a.id = $1 AND a.patient_id = $2`, id, patientID))
}

func (r *appointmentRepoPG) Update(ctx context.Context, a *Appointment) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointments
		SET clinic_id = $1, title = $2, description = $3, scheduled_at = $4,
			location = $5, updated_at = NOW()
		WHERE id = $6 AND patient_id = $7`,
		a.ClinicID, a.Title, a.Description, a.ScheduledAt, a.Location, a.ID, a.PatientID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return identity.ErrNotFound
	}
	return nil
}

func (r *appointmentRepoPG) Delete(ctx context.Context, patientID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1 AND patient_id = $2`, id, patientID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return identity.ErrNotFound
	}
	return nil
}

func (r *appointmentRepoPG) listQuery(ctx context.Context, query string, args ...any) ([]*Appointment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *appointmentRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error) {
	return r.listQuery(ctx, `SELECT `+appointmentCols+appointmentFrom+`
		WHERE a.patient_id = $1 ORDER BY a.scheduled_at ASC`, patientID)
}

func (r *appointmentRepoPG) ListUpcoming(ctx context.Context, patientID uuid.UUID, limit int) ([]*Appointment, error) {
	return r.listQuery(ctx, `SELECT `+appointmentCols+appointmentFrom+`
		WHERE a.patient_id = $1 AND a.scheduled_at >= NOW()
		ORDER BY a.scheduled_at ASC LIMIT $2`, patientID, limit)
}

func (r *appointmentRepoPG) ListBetween(ctx context.Context, patientID uuid.UUID, from, to time.Time) ([]*Appointment, error) {
	return r.listQuery(ctx, `SELECT `+appointmentCols+appointmentFrom+`
		WHERE a.patient_id = $1 AND a.scheduled_at >= $2 AND a.scheduled_at < $3
		ORDER BY a.scheduled_at ASC`, patientID, from, to)
}
