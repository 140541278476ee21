/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package export

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/humaidq/carewheels/clinical"
	"github.com/humaidq/carewheels/visit"
)

const (
	ReportTitle  = "Healthcare Diagnostic Report"
	ReportFooter = "Generated by Healthcare on Wheels"

	notRecorded = "Not recorded"
)

// Format is a downloadable report encoding.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatCSV  Format = "csv"
	FormatHTML Format = "html"
)

// ParseFormat maps a file extension to a Format.
func ParseFormat(ext string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(ext, "."))); f {
	case FormatPDF, FormatCSV, FormatHTML:
		return f, nil
	}

	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, ext)
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	default:
		return "text/html; charset=utf-8"
	}
}

// Row is one labelled value in a report section.
type Row struct {
	Label  string
	Value  string
	Status clinical.Status
	Note   string
}

// Section is a titled block of the report. Sections hold either rows or
// bullet items.
type Section struct {
	Title string
	Rows  []Row
	Items []string
	Alert bool
}

// Report is the format-neutral layout shared by every exporter.
type Report struct {
	Title       string
	VisitID     string
	PatientName string
	GeneratedAt time.Time
	Sections    []Section
	Footer      string
}

var whitespace = regexp.MustCompile(`\s+`)

// FileName returns Health_Report_<Name>_<YYYY-MM-DD>.<ext>.
func FileName(v visit.Visit, f Format, now time.Time) string {
	name := whitespace.ReplaceAllString(strings.TrimSpace(v.Patient.FullName), "_")
	if name == "" {
		name = "Patient"
	}

	return fmt.Sprintf("Health_Report_%s_%s.%s", name, now.UTC().Format(time.DateOnly), f)
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func measure(v *float64, unit string) string {
	if v == nil {
		return notRecorded
	}

	if unit == "" {
		return number(*v)
	}

	return number(*v) + " " + unit
}

func readingRow(label, value string, r *clinical.Reading) Row {
	row := Row{Label: label, Value: value}
	if r != nil {
		row.Status = r.Status
		row.Note = r.Message
	}

	return row
}

// Build lays out a visit as report sections: patient, summary, vitals,
// blood test, BMI, ECG, ultrasound, recommendations, critical alerts.
// Absent records are left out.
func Build(v visit.Visit, now time.Time) Report {
	r := Report{
		Title:       ReportTitle,
		VisitID:     v.ID,
		PatientName: v.DisplayName(),
		GeneratedAt: now,
		Footer:      ReportFooter,
	}

	p := v.Patient
	r.Sections = append(r.Sections, Section{
		Title: "Patient Information",
		Rows: []Row{
			{Label: "Name", Value: p.FullName},
			{Label: "Age", Value: fmt.Sprintf("%d years", p.Age)},
			{Label: "Gender", Value: string(p.Gender)},
			{Label: "Patient ID", Value: p.PatientID},
			{Label: "Contact", Value: p.ContactInfo},
			{Label: "Address", Value: p.Address},
			{Label: "Visit Date", Value: v.CreatedAt.Format(time.DateOnly)},
		},
	})

	hs := v.HealthSummary
	if hs != nil {
		r.Sections = append(r.Sections, Section{
			Title: "Health Summary",
			Rows: []Row{
				{Label: "Overall Risk Score", Value: fmt.Sprintf("%d/100", hs.OverallRiskScore)},
				{Label: "Risk Level", Value: string(hs.RiskLevel)},
				{Label: "Summary", Value: hs.Summary},
			},
		})
	}

	if vt := v.Vitals; vt != nil {
		bp := notRecorded
		if vt.SystolicBP != nil && vt.DiastolicBP != nil {
			bp = number(*vt.SystolicBP) + "/" + number(*vt.DiastolicBP) + " mmHg"
		}

		r.Sections = append(r.Sections, Section{
			Title: "Vital Signs",
			Rows: []Row{
				readingRow("Blood Pressure", bp, vt.BloodPressure),
				readingRow("Heart Rate", measure(vt.HeartRate, "bpm"), vt.HeartRateStatus),
				readingRow("Temperature", measure(vt.Temperature, "°C"), vt.TemperatureStatus),
				readingRow("SpO2", measure(vt.SpO2, "%"), vt.SpO2Status),
			},
		})
	}

	if bt := v.BloodTest; bt != nil {
		r.Sections = append(r.Sections, Section{
			Title: "Blood Test Results",
			Rows: []Row{
				readingRow("Hemoglobin", measure(bt.Hemoglobin, "g/dL"), bt.HemoglobinStatus),
				readingRow("Blood Sugar", measure(bt.BloodSugar, "mg/dL"), bt.BloodSugarStatus),
				readingRow("HDL Cholesterol", measure(bt.HDL, "mg/dL"), bt.HDLStatus),
				readingRow("LDL Cholesterol", measure(bt.LDL, "mg/dL"), bt.LDLStatus),
				readingRow("Total Cholesterol", measure(bt.TotalCholesterol, "mg/dL"), bt.TotalCholesterolStatus),
				readingRow("Triglycerides", measure(bt.Triglycerides, "mg/dL"), bt.TriglyceridesStatus),
			},
		})
	}

	if b := v.BMI; b != nil {
		category := notRecorded
		if b.Category != "" {
			category = string(b.Category)
		}

		r.Sections = append(r.Sections, Section{
			Title: "BMI Assessment",
			Rows: []Row{
				{Label: "Height", Value: measure(b.Height, "cm")},
				{Label: "Weight", Value: measure(b.Weight, "kg")},
				readingRow("BMI", measure(b.BMI, ""), b.Reading),
				{Label: "Category", Value: category},
			},
		})
	}

	if e := v.ECG; e != nil {
		rows := []Row{
			{Label: "Heart Rate", Value: measure(e.HeartRate, "bpm")},
			{Label: "QRS Duration", Value: measure(e.QRSDuration, "ms")},
			{Label: "QT Interval", Value: measure(e.QTInterval, "ms")},
		}

		if e.CorrectedQT != nil {
			rows = append(rows, Row{Label: "QTc", Value: measure(e.CorrectedQT, "ms")})
		}

		rows = append(rows,
			Row{Label: "Interpretation", Value: e.Interpretation},
			Row{Label: "Risk Level", Value: string(e.RiskLevel), Status: ecgStatus(e.RiskLevel)},
		)

		r.Sections = append(r.Sections, Section{Title: "ECG Analysis", Rows: rows})
	}

	if u := v.Ultrasound; u != nil && strings.TrimSpace(u.Observations) != "" {
		r.Sections = append(r.Sections, Section{
			Title: "Ultrasound",
			Rows:  []Row{{Label: "Observations", Value: strings.TrimSpace(u.Observations)}},
		})
	}

	if hs != nil && len(hs.Recommendations) > 0 {
		r.Sections = append(r.Sections, Section{Title: "Recommendations", Items: hs.Recommendations})
	}

	if hs != nil && len(hs.CriticalAlerts) > 0 {
		r.Sections = append(r.Sections, Section{Title: "Critical Alerts", Items: hs.CriticalAlerts, Alert: true})
	}

	return r
}

func ecgStatus(risk clinical.ECGRisk) clinical.Status {
	switch risk {
	case clinical.ECGRiskCritical:
		return clinical.StatusCritical
	case clinical.ECGRiskAbnormal:
		return clinical.StatusWarning
	case clinical.ECGRiskNormal:
		return clinical.StatusNormal
	}

	return ""
}
