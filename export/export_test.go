// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/humaidq/carewheels/clinical"
	"github.com/humaidq/carewheels/visit"
)

var reportTime = time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)

func completedVisit() visit.Visit {
	th := clinical.DefaultThresholds()
	created := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	v := visit.Visit{
		ID:       "visit-1",
		DoctorID: "1",
		Patient: clinical.Patient{
			FullName:    "Maria  Elena Santos",
			Age:         52,
			Gender:      clinical.GenderFemale,
			PatientID:   "P-100",
			ContactInfo: "+63 912 000 0000",
			Address:     "Barangay 4, Iloilo",
		},
		Vitals: &clinical.Vitals{
			SystolicBP:  clinical.Float(185),
			DiastolicBP: clinical.Float(95),
			HeartRate:   clinical.Float(72),
			Temperature: clinical.Float(36.8),
			SpO2:        clinical.Float(97),
		},
		BloodTest: &clinical.BloodTest{
			Hemoglobin: clinical.Float(12.5),
			BloodSugar: clinical.Float(110),
			LDL:        clinical.Float(140),
		},
		BMI: &clinical.BMIData{Height: clinical.Float(160), Weight: clinical.Float(70)},
		ECG: &clinical.ECGData{
			HeartRate:   clinical.Float(45),
			QRSDuration: clinical.Float(90),
			QTInterval:  clinical.Float(400),
		},
		Ultrasound:  &clinical.UltrasoundData{Observations: "Liver normal in size."},
		Status:      visit.StatusCompleted,
		CurrentStep: int(visit.StageSummary),
		CreatedAt:   created,
		UpdatedAt:   created,
	}

	clinical.RecomputeVitals(v.Vitals, th)
	clinical.RecomputeBloodTest(v.BloodTest, v.Patient.Gender, th)
	clinical.RecomputeBMI(v.BMI, th)
	clinical.RecomputeECG(v.ECG, th)

	summary := clinical.Assess(v.Records(), th, created)
	v.HealthSummary = &summary

	return v
}

func sectionTitles(r Report) []string {
	titles := make([]string, 0, len(r.Sections))
	for _, s := range r.Sections {
		titles = append(titles, s.Title)
	}

	return titles
}

func TestBuildSectionOrder(t *testing.T) {
	t.Parallel()

	r := Build(completedVisit(), reportTime)

	want := []string{
		"Patient Information",
		"Health Summary",
		"Vital Signs",
		"Blood Test Results",
		"BMI Assessment",
		"ECG Analysis",
		"Ultrasound",
		"Recommendations",
		"Critical Alerts",
	}

	if got := sectionTitles(r); !slices.Equal(got, want) {
		t.Fatalf("section order = %v, want %v", got, want)
	}

	alerts := r.Sections[len(r.Sections)-1]
	if !alerts.Alert || len(alerts.Items) == 0 {
		t.Fatalf("expected critical alerts section, got %+v", alerts)
	}
}

func TestBuildOmitsMissingRecords(t *testing.T) {
	t.Parallel()

	v := visit.Visit{ID: "v", Patient: clinical.Patient{FullName: "Ali"}}
	r := Build(v, reportTime)

	if got := sectionTitles(r); !slices.Equal(got, []string{"Patient Information"}) {
		t.Fatalf("expected only patient section, got %v", got)
	}

	v.Vitals = &clinical.Vitals{HeartRate: clinical.Float(80)}
	r = Build(v, reportTime)

	vitals := r.Sections[1]
	if vitals.Rows[0].Value != notRecorded {
		t.Fatalf("expected blood pressure to be not recorded, got %q", vitals.Rows[0].Value)
	}

	if vitals.Rows[1].Value != "80 bpm" {
		t.Fatalf("expected heart rate row, got %q", vitals.Rows[1].Value)
	}
}

func TestBuildCarriesStatuses(t *testing.T) {
	t.Parallel()

	r := Build(completedVisit(), reportTime)

	bp := r.Sections[2].Rows[0]
	if bp.Value != "185/95 mmHg" || bp.Status != clinical.StatusCritical {
		t.Fatalf("unexpected blood pressure row: %+v", bp)
	}

	ecg := r.Sections[5]
	risk := ecg.Rows[len(ecg.Rows)-1]
	if risk.Value != string(clinical.ECGRiskCritical) || risk.Status != clinical.StatusCritical {
		t.Fatalf("unexpected ECG risk row: %+v", risk)
	}
}

func TestFileName(t *testing.T) {
	t.Parallel()

	v := completedVisit()

	if got := FileName(v, FormatPDF, reportTime); got != "Health_Report_Maria_Elena_Santos_2025-06-02.pdf" {
		t.Fatalf("unexpected file name %q", got)
	}

	if got := FileName(visit.Visit{}, FormatCSV, reportTime); got != "Health_Report_Patient_2025-06-02.csv" {
		t.Fatalf("unexpected file name %q", got)
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for _, ext := range []string{"pdf", ".CSV", "html"} {
		if _, err := ParseFormat(ext); err != nil {
			t.Fatalf("ParseFormat(%q) failed: %v", ext, err)
		}
	}

	if _, err := ParseFormat("docx"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := CSV(&buf, completedVisit(), reportTime); err != nil {
		t.Fatalf("CSV failed: %v", err)
	}

	reader := csv.NewReader(&buf)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("failed to parse csv output: %v", err)
	}

	if records[0][0] != ReportTitle {
		t.Fatalf("expected title row, got %v", records[0])
	}

	if records[len(records)-1][0] != ReportFooter {
		t.Fatalf("expected footer row, got %v", records[len(records)-1])
	}

	var sawName, sawAlert bool

	for _, rec := range records {
		if len(rec) == 2 && rec[0] == "Name" && rec[1] == "Maria  Elena Santos" {
			sawName = true
		}

		if len(rec) == 2 && rec[0] == "" && strings.Contains(rec[1], "Critical") {
			sawAlert = true
		}
	}

	if !sawName || !sawAlert {
		t.Fatalf("expected patient and alert rows, got %v", records)
	}
}

func TestCSVQuotesFormulaCells(t *testing.T) {
	t.Parallel()

	v := completedVisit()
	v.Patient.FullName = "=HYPERLINK(\"http://example.com\")"
	v.Ultrasound.Observations = "@SUM(A1:A2)"

	var buf bytes.Buffer
	if err := CSV(&buf, v, reportTime); err != nil {
		t.Fatalf("CSV failed: %v", err)
	}

	reader := csv.NewReader(&buf)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("failed to parse csv output: %v", err)
	}

	want := map[string]string{
		"Name":         "'=HYPERLINK(\"http://example.com\")",
		"Observations": "'@SUM(A1:A2)",
		"Contact":      "'+63 912 000 0000",
		"Patient ID":   "P-100",
	}

	for _, rec := range records {
		if len(rec) != 2 {
			continue
		}

		if expected, ok := want[rec[0]]; ok {
			if rec[1] != expected {
				t.Fatalf("%s = %q, want %q", rec[0], rec[1], expected)
			}

			delete(want, rec[0])
		}
	}

	if len(want) != 0 {
		t.Fatalf("missing rows: %v", want)
	}
}

func TestNeutralizeFormula(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"72 bpm", "72 bpm"},
		{"-1", "'-1"},
		{"+1", "'+1"},
		{"=1+1", "'=1+1"},
		{"@A1", "'@A1"},
		{"\tx", "'\tx"},
		{"a=b", "a=b"},
	}

	for _, tt := range tests {
		if got := neutralizeFormula(tt.in); got != tt.want {
			t.Fatalf("neutralizeFormula(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPDF(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := PDF(&buf, completedVisit(), Options{Now: reportTime, BaseURL: "https://clinic.example"}); err != nil {
		t.Fatalf("PDF failed: %v", err)
	}

	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatal("expected PDF header")
	}
}

func TestHTML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := HTML(&buf, completedVisit(), Options{Now: reportTime}); err != nil {
		t.Fatalf("HTML failed: %v", err)
	}

	out := buf.String()

	for _, want := range []string{
		"Maria  Elena Santos",
		"data:image/png;base64,",
		"ecg-graph-container",
		ReportFooter,
		"status-critical",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in html report", want)
		}
	}
}

func TestHTMLWithoutECG(t *testing.T) {
	t.Parallel()

	v := completedVisit()
	v.ECG = nil

	var buf bytes.Buffer
	if err := HTML(&buf, v, Options{Now: reportTime}); err != nil {
		t.Fatalf("HTML failed: %v", err)
	}

	if strings.Contains(buf.String(), "ecg-graph-container") {
		t.Fatal("expected no ECG chart without an ECG record")
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	t.Parallel()

	if err := Write(&bytes.Buffer{}, Format("xml"), completedVisit(), Options{}); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}
