package identity

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patients table. The row doubles as the credential
// record: PasswordHash is never serialized.
type Patient struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	FullName     string     `db:"full_name" json:"full_name"`
	DateOfBirth  *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	PasswordHash string     `db:"password_hash" json:"-"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// PatientDetails maps to the patient_details table. At most one row exists
// per patient; its existence marks onboarding as complete.
type PatientDetails struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	PatientID        uuid.UUID  `db:"patient_id" json:"patient_id"`
	Condition        string     `db:"condition" json:"condition"`
	HeightCm         float64    `db:"height_cm" json:"height_cm"`
	WeightKg         float64    `db:"weight_kg" json:"weight_kg"`
	BloodType        *string    `db:"blood_type" json:"blood_type,omitempty"`
	Allergies        *string    `db:"allergies" json:"allergies,omitempty"`
	SurgeryDate      *time.Time `db:"surgery_date" json:"surgery_date,omitempty"`
	EmergencyContact string     `db:"emergency_contact" json:"emergency_contact"`
	EmergencyPhone   string     `db:"emergency_phone" json:"emergency_phone"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// Session maps to the sessions table. A session is active while it is
// neither revoked nor past its expiry.
type Session struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	PatientID uuid.UUID  `db:"patient_id" json:"patient_id"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	ExpiresAt time.Time  `db:"expires_at" json:"expires_at"`
	RevokedAt *time.Time `db:"revoked_at" json:"revoked_at,omitempty"`
}
