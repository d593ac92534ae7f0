package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/medibloom/api/internal/domain/identity"
	"github.com/medibloom/api/internal/domain/records"
)

func testPatient() *identity.Patient {
	dob := time.Date(1984, 6, 2, 0, 0, 0, 0, time.UTC)
	return &identity.Patient{
		ID:          uuid.New(),
		Email:       "jordan@example.com",
		FullName:    "Jordan Reyes",
		DateOfBirth: &dob,
	}
}

func TestBuild_EmptyHistoryStillRenders(t *testing.T) {
	doc, err := Build(&HealthReport{
		Patient:     testPatient(),
		GeneratedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if len(doc) == 0 {
		t.Fatal("expected non-empty document")
	}
	if !bytes.HasPrefix(doc, []byte("%PDF")) {
		t.Error("expected a PDF document")
	}
}

func TestBuild_FullHistory(t *testing.T) {
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	doc, err := Build(&HealthReport{
		Patient: testPatient(),
		Details: &identity.PatientDetails{Condition: "Hypertension", HeightCm: 178, WeightKg: 74.5},
		Vitals: []*records.VitalRecord{
			{BloodPressureSystolic: 120, BloodPressureDiastolic: 80, HeartRate: 72, Temperature: 98.6, RecordedAt: start},
			{BloodPressureSystolic: 118, BloodPressureDiastolic: 76, HeartRate: 68, Temperature: 98.2},
		},
		Medications: []*records.Medication{
			{Name: "Lisinopril", Dosage: "10mg", Frequency: "daily", StartDate: &start},
			{Name: "Metformin", Dosage: "500mg", Frequency: "twice daily"},
		},
		GeneratedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if !bytes.HasPrefix(doc, []byte("%PDF")) {
		t.Error("expected a PDF document")
	}
}

func TestFormatDatePtr_NilAndZero(t *testing.T) {
	if got := formatDatePtr(nil); got != "N/A" {
		t.Errorf("nil date: got %q, want N/A", got)
	}
	var zero time.Time
	if got := formatDatePtr(&zero); got != "N/A" {
		t.Errorf("zero date: got %q, want N/A", got)
	}
	d := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	if got := formatDatePtr(&d); got != "Feb 14, 2026" {
		t.Errorf("got %q", got)
	}
}
