package scheduling

import (
	"time"

	"github.com/google/uuid"
)

// Clinic is read-only reference data. Appointments point at a clinic but
// snapshot its address at write time.
type Clinic struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

type Appointment struct {
	ID          uuid.UUID `json:"id"`
	PatientID   uuid.UUID `json:"patient_id"`
	ClinicID    uuid.UUID `json:"clinic_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	ScheduledAt time.Time `json:"scheduled_at"`
	// Location is a point-in-time copy of the clinic's address taken when
	// the appointment is created or updated. Later clinic edits do not
	// change it.
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Joined clinic fields, populated on reads only.
	ClinicName    string `json:"clinic_name,omitempty"`
	ClinicAddress string `json:"clinic_address,omitempty"`
	ClinicPhone   string `json:"clinic_phone,omitempty"`
}

// CalendarDuration is the implicit display length of an appointment. It is
// synthesized for calendar rendering and never stored.
const CalendarDuration = 60 * time.Minute

type CalendarEntry struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (a *Appointment) CalendarEntry() CalendarEntry {
	return CalendarEntry{
		ID:    a.ID,
		Title: a.Title,
		Start: a.ScheduledAt,
		End:   a.ScheduledAt.Add(CalendarDuration),
	}
}
