package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/medibloom/api/internal/domain/identity"
	"github.com/medibloom/api/internal/domain/records"
)

const (
	reportTitle = "MediBloom Health Report"
	dateLayout  = "Jan 2, 2006"
)

// HealthReport carries everything the PDF renders. Empty slices are valid
// and render as headed tables with no rows.
type HealthReport struct {
	Patient     *identity.Patient
	Details     *identity.PatientDetails
	Vitals      []*records.VitalRecord
	Medications []*records.Medication
	GeneratedAt time.Time
}

// Build renders the report into a PDF document.
func Build(r *HealthReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(reportTitle, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, reportTitle, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Report Generated: "+r.GeneratedAt.Format(dateLayout), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	writePatientBlock(pdf, r)
	writeVitalsTable(pdf, r.Vitals)
	writeMedicationsTable(pdf, r.Medications)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writePatientBlock(pdf *gofpdf.Fpdf, r *HealthReport) {
	sectionHeader(pdf, "Patient Information")

	pdf.SetFont("Helvetica", "", 11)
	labelled(pdf, "Name", r.Patient.FullName)
	labelled(pdf, "Email", r.Patient.Email)
	labelled(pdf, "Date of Birth", formatDatePtr(r.Patient.DateOfBirth))
	if r.Details != nil {
		labelled(pdf, "Condition", r.Details.Condition)
		labelled(pdf, "Height", fmt.Sprintf("%.1f cm", r.Details.HeightCm))
		labelled(pdf, "Weight", fmt.Sprintf("%.1f kg", r.Details.WeightKg))
	}
	pdf.Ln(4)
}

func writeVitalsTable(pdf *gofpdf.Fpdf, vitals []*records.VitalRecord) {
	sectionHeader(pdf, "Vitals History")

	headers := []string{"Date", "Blood Pressure", "Heart Rate", "Temperature"}
	widths := []float64{50, 45, 45, 45}
	tableHeader(pdf, headers, widths)

	pdf.SetFont("Helvetica", "", 10)
	for _, v := range vitals {
		pdf.CellFormat(widths[0], 7, formatDate(v.RecordedAt), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, fmt.Sprintf("%d/%d", v.BloodPressureSystolic, v.BloodPressureDiastolic), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 7, fmt.Sprintf("%d bpm", v.HeartRate), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 7, fmt.Sprintf("%.1f°F", v.Temperature), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func writeMedicationsTable(pdf *gofpdf.Fpdf, medications []*records.Medication) {
	sectionHeader(pdf, "Current Medications")

	headers := []string{"Name", "Dosage", "Frequency", "Start Date"}
	widths := []float64{60, 40, 45, 40}
	tableHeader(pdf, headers, widths)

	pdf.SetFont("Helvetica", "", 10)
	for _, m := range medications {
		pdf.CellFormat(widths[0], 7, m.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, m.Dosage, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 7, m.Frequency, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 7, formatDatePtr(m.StartDate), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func sectionHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 9, title, "", 1, "L", false, 0, "")
}

func tableHeader(pdf *gofpdf.Fpdf, headers []string, widths []float64) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		last := i == len(headers)-1
		ln := 0
		if last {
			ln = 1
		}
		pdf.CellFormat(widths[i], 7, h, "1", ln, "L", true, 0, "")
	}
}

func labelled(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(40, 7, label+":", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, value, "", 1, "L", false, 0, "")
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format(dateLayout)
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return formatDate(*t)
}
