package records

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/medibloom/api/internal/domain/identity"
)

// ---- fakes ----

type fakeVitalRepo struct {
	items []*VitalRecord
}

func (f *fakeVitalRepo) Create(_ context.Context, v *VitalRecord) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	f.items = append(f.items, v)
	return nil
}

func (f *fakeVitalRepo) forPatient(patientID uuid.UUID) []*VitalRecord {
	var out []*VitalRecord
	for _, v := range f.items {
		if v.PatientID == patientID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordedAt.Before(out[j].RecordedAt) })
	return out
}

func (f *fakeVitalRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*VitalRecord, int, error) {
	all := f.forPatient(patientID)
	total := len(all)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (f *fakeVitalRepo) ListAllByPatient(_ context.Context, patientID uuid.UUID) ([]*VitalRecord, error) {
	return f.forPatient(patientID), nil
}

func (f *fakeVitalRepo) LatestByPatient(_ context.Context, patientID uuid.UUID) (*VitalRecord, error) {
	all := f.forPatient(patientID)
	if len(all) == 0 {
		return nil, identity.ErrNotFound
	}
	return all[len(all)-1], nil
}

type fakeSymptomRepo struct {
	items []*Symptom
}

func (f *fakeSymptomRepo) Create(_ context.Context, s *Symptom) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	f.items = append(f.items, s)
	return nil
}

func (f *fakeSymptomRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*Symptom, int, error) {
	var all []*Symptom
	for _, s := range f.items {
		if s.PatientID == patientID {
			all = append(all, s)
		}
	}
	return all, len(all), nil
}

type fakeMedicationRepo struct {
	items []*Medication
}

func (f *fakeMedicationRepo) Create(_ context.Context, m *Medication) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	f.items = append(f.items, m)
	return nil
}

func (f *fakeMedicationRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*Medication, int, error) {
	all, _ := f.ListAllByPatient(context.Background(), patientID)
	return all, len(all), nil
}

func (f *fakeMedicationRepo) ListAllByPatient(_ context.Context, patientID uuid.UUID) ([]*Medication, error) {
	var all []*Medication
	for _, m := range f.items {
		if m.PatientID == patientID {
			all = append(all, m)
		}
	}
	return all, nil
}

func newRecordsService() (*Service, *fakeVitalRepo, *fakeSymptomRepo, *fakeMedicationRepo) {
	vitals := &fakeVitalRepo{}
	symptoms := &fakeSymptomRepo{}
	medications := &fakeMedicationRepo{}
	return NewService(vitals, symptoms, medications), vitals, symptoms, medications
}

func validVital() *VitalRecord {
	return &VitalRecord{
		BloodPressureSystolic:  120,
		BloodPressureDiastolic: 80,
		HeartRate:              72,
		Temperature:            98.6,
	}
}

// ---- vitals ----

func TestAddVital_Success(t *testing.T) {
	svc, vitals, _, _ := newRecordsService()
	patientID := uuid.New()

	v := validVital()
	if err := svc.AddVital(context.Background(), patientID, v); err != nil {
		t.Fatalf("AddVital() error: %v", err)
	}

	if v.PatientID != patientID {
		t.Error("expected the record to be scoped to the caller's patient ID")
	}
	if v.RecordedAt.IsZero() {
		t.Error("expected recorded_at to default to now")
	}
	if len(vitals.items) != 1 {
		t.Errorf("expected 1 stored record, got %d", len(vitals.items))
	}
}

func TestAddVital_OwnerOverridesClientValue(t *testing.T) {
	svc, _, _, _ := newRecordsService()
	patientID := uuid.New()

	v := validVital()
	v.PatientID = uuid.New() // client-supplied value must be ignored
	if err := svc.AddVital(context.Background(), patientID, v); err != nil {
		t.Fatalf("AddVital() error: %v", err)
	}
	if v.PatientID != patientID {
		t.Error("expected client-supplied patient_id to be overridden")
	}
}

func TestAddVital_Validation(t *testing.T) {
	svc, vitals, _, _ := newRecordsService()
	patientID := uuid.New()

	tests := []struct {
		name   string
		mutate func(*VitalRecord)
	}{
		{"zero systolic", func(v *VitalRecord) { v.BloodPressureSystolic = 0 }},
		{"zero diastolic", func(v *VitalRecord) { v.BloodPressureDiastolic = 0 }},
		{"diastolic above systolic", func(v *VitalRecord) { v.BloodPressureDiastolic = 130 }},
		{"zero heart rate", func(v *VitalRecord) { v.HeartRate = 0 }},
		{"negative temperature", func(v *VitalRecord) { v.Temperature = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validVital()
			tt.mutate(v)
			err := svc.AddVital(context.Background(), patientID, v)
			if err == nil {
				t.Error("expected validation error")
			} else if !errors.Is(err, ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}

	if len(vitals.items) != 0 {
		t.Errorf("expected no partial records after validation failures, got %d", len(vitals.items))
	}
}

func TestListVitals_AscendingByRecordedAt(t *testing.T) {
	svc, _, _, _ := newRecordsService()
	patientID := uuid.New()

	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	for _, offset := range []time.Duration{2 * time.Hour, 0, time.Hour} {
		v := validVital()
		v.RecordedAt = base.Add(offset)
		if err := svc.AddVital(context.Background(), patientID, v); err != nil {
			t.Fatalf("AddVital() error: %v", err)
		}
	}

	items, total, err := svc.ListVitals(context.Background(), patientID, 10, 0)
	if err != nil {
		t.Fatalf("ListVitals() error: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected total 3, got %d", total)
	}
	for i := 1; i < len(items); i++ {
		if items[i].RecordedAt.Before(items[i-1].RecordedAt) {
			t.Fatal("expected vitals ordered ascending by recorded_at")
		}
	}
}

// ---- symptoms ----

func TestAddSymptom_SeverityBounds(t *testing.T) {
	svc, _, symptoms, _ := newRecordsService()
	patientID := uuid.New()

	for _, severity := range []int{0, -3, 11, 100} {
		s := &Symptom{Symptom: "Headache", Severity: severity}
		if err := svc.AddSymptom(context.Background(), patientID, s); err == nil {
			t.Errorf("expected error for severity %d", severity)
		}
	}
	if len(symptoms.items) != 0 {
		t.Errorf("expected no stored symptoms, got %d", len(symptoms.items))
	}

	for _, severity := range []int{MinSeverity, 5, MaxSeverity} {
		s := &Symptom{Symptom: "Headache", Severity: severity}
		if err := svc.AddSymptom(context.Background(), patientID, s); err != nil {
			t.Errorf("unexpected error for severity %d: %v", severity, err)
		}
	}
}

func TestAddSymptom_RequiresName(t *testing.T) {
	svc, _, _, _ := newRecordsService()
	s := &Symptom{Severity: 5}
	if err := svc.AddSymptom(context.Background(), uuid.New(), s); err == nil {
		t.Error("expected error for missing symptom name")
	}
}

// ---- medications ----

func TestAddMedication_Success(t *testing.T) {
	svc, _, _, medications := newRecordsService()
	patientID := uuid.New()

	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	m := &Medication{Name: "Lisinopril", Dosage: "10mg", Frequency: "daily", StartDate: &start}
	if err := svc.AddMedication(context.Background(), patientID, m); err != nil {
		t.Fatalf("AddMedication() error: %v", err)
	}
	if len(medications.items) != 1 {
		t.Errorf("expected 1 stored medication, got %d", len(medications.items))
	}
	if medications.items[0].PatientID != patientID {
		t.Error("expected medication scoped to patient")
	}
}

func TestAddMedication_Validation(t *testing.T) {
	svc, _, _, _ := newRecordsService()

	tests := []struct {
		name string
		med  *Medication
	}{
		{"missing name", &Medication{Dosage: "10mg", Frequency: "daily"}},
		{"missing dosage", &Medication{Name: "Lisinopril", Frequency: "daily"}},
		{"missing frequency", &Medication{Name: "Lisinopril", Dosage: "10mg"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.AddMedication(context.Background(), uuid.New(), tt.med); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
