/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package clinical

import "time"

// Gender represents the patient's recorded gender.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// ParseGender maps free-form input to a Gender. Unknown values map to Other.
func ParseGender(value string) Gender {
	switch Gender(value) {
	case GenderMale, GenderFemale, GenderOther:
		return Gender(value)
	}

	switch value {
	case "Male", "M", "m":
		return GenderMale
	case "Female", "F", "f":
		return GenderFemale
	}

	return GenderOther
}

// Status is the severity assigned to a single reading.
type Status string

const (
	StatusNormal   Status = "normal"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
)

// Reading is the output of a classifier.
type Reading struct {
	Value   float64 `json:"value"`
	Status  Status  `json:"status"`
	Message string  `json:"message"`
}

// IsCritical reports whether the reading is present and critical.
func (r *Reading) IsCritical() bool {
	return r != nil && r.Status == StatusCritical
}

// Patient holds registration details for a visit.
type Patient struct {
	ID            string    `json:"id"`
	FullName      string    `json:"fullName"`
	Age           int       `json:"age"`
	Gender        Gender    `json:"gender"`
	PatientID     string    `json:"patientId"`
	ContactInfo   string    `json:"contactInfo"`
	Address       string    `json:"address"`
	GeoCode       string    `json:"geoCode,omitempty"`
	Symptoms      []string  `json:"symptoms"`
	FamilyHistory []string  `json:"familyHistory"`
	ConsentGiven  bool      `json:"consentGiven"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Vitals holds raw vital sign inputs and their derived classifications.
type Vitals struct {
	SystolicBP  *float64 `json:"systolicBP,omitempty"`
	DiastolicBP *float64 `json:"diastolicBP,omitempty"`
	HeartRate   *float64 `json:"heartRate,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	SpO2        *float64 `json:"spO2,omitempty"`

	BloodPressure     *Reading `json:"bloodPressure,omitempty"`
	HeartRateStatus   *Reading `json:"heartRateStatus,omitempty"`
	TemperatureStatus *Reading `json:"temperatureStatus,omitempty"`
	SpO2Status        *Reading `json:"spO2Status,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// BloodTest holds the blood panel and lipid profile.
type BloodTest struct {
	Hemoglobin       *float64 `json:"hemoglobin,omitempty"`
	BloodSugar       *float64 `json:"bloodSugar,omitempty"`
	HDL              *float64 `json:"hdl,omitempty"`
	LDL              *float64 `json:"ldl,omitempty"`
	TotalCholesterol *float64 `json:"totalCholesterol,omitempty"`
	Triglycerides    *float64 `json:"triglycerides,omitempty"`

	HemoglobinStatus       *Reading `json:"hemoglobinStatus,omitempty"`
	BloodSugarStatus       *Reading `json:"bloodSugarStatus,omitempty"`
	HDLStatus              *Reading `json:"hdlStatus,omitempty"`
	LDLStatus              *Reading `json:"ldlStatus,omitempty"`
	TotalCholesterolStatus *Reading `json:"totalCholesterolStatus,omitempty"`
	TriglyceridesStatus    *Reading `json:"triglyceridesStatus,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// BMICategory is the WHO body mass index band.
type BMICategory string

const (
	BMIUnderweight BMICategory = "Underweight"
	BMINormal      BMICategory = "Normal"
	BMIOverweight  BMICategory = "Overweight"
	BMIObese       BMICategory = "Obese"
)

// BMIData holds height and weight and the derived index.
type BMIData struct {
	Height *float64 `json:"height,omitempty"`
	Weight *float64 `json:"weight,omitempty"`

	BMI      *float64    `json:"bmi,omitempty"`
	Category BMICategory `json:"category,omitempty"`
	Reading  *Reading    `json:"status,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// ECGRisk is the risk tier derived from ECG parameters.
type ECGRisk string

const (
	ECGRiskNormal   ECGRisk = "Normal"
	ECGRiskAbnormal ECGRisk = "Abnormal"
	ECGRiskCritical ECGRisk = "Critical"
)

// ECGData holds ECG parameters and the derived interpretation.
type ECGData struct {
	HeartRate   *float64 `json:"heartRate,omitempty"`
	QRSDuration *float64 `json:"qrsDuration,omitempty"`
	QTInterval  *float64 `json:"qtInterval,omitempty"`

	CorrectedQT    *float64 `json:"correctedQT,omitempty"`
	Interpretation string   `json:"interpretation,omitempty"`
	RiskLevel      ECGRisk  `json:"riskLevel,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// UltrasoundData holds an image reference and free-text observations.
type UltrasoundData struct {
	ImageURL     string    `json:"imageUrl,omitempty"`
	Observations string    `json:"observations"`
	Timestamp    time.Time `json:"timestamp"`
}

// RiskLevel is the overall visit risk tier.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Contribution records one scoring factor that fired.
type Contribution struct {
	Factor string `json:"factor"`
	Points int    `json:"points"`
}

// HealthSummary is the aggregated assessment of a visit.
type HealthSummary struct {
	OverallRiskScore int            `json:"overallRiskScore"`
	RiskLevel        RiskLevel      `json:"riskLevel"`
	Summary          string         `json:"summary"`
	Recommendations  []string       `json:"recommendations"`
	CriticalAlerts   []string       `json:"criticalAlerts"`
	Contributions    []Contribution `json:"contributions,omitempty"`
	Timestamp        time.Time      `json:"timestamp"`
}

// Records is the read-only view of a visit used by the aggregator and exporters.
type Records struct {
	Patient    Patient
	Vitals     *Vitals
	BloodTest  *BloodTest
	BMI        *BMIData
	ECG        *ECGData
	Ultrasound *UltrasoundData
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}

	out := *v

	return &out
}

func cloneReading(r *Reading) *Reading {
	if r == nil {
		return nil
	}

	out := *r

	return &out
}

// Clone returns a deep copy of the patient.
func (p Patient) Clone() Patient {
	out := p
	out.Symptoms = append([]string(nil), p.Symptoms...)
	out.FamilyHistory = append([]string(nil), p.FamilyHistory...)

	return out
}

// Clone returns a deep copy of the vitals.
func (v *Vitals) Clone() *Vitals {
	if v == nil {
		return nil
	}

	return &Vitals{
		SystolicBP:        cloneFloat(v.SystolicBP),
		DiastolicBP:       cloneFloat(v.DiastolicBP),
		HeartRate:         cloneFloat(v.HeartRate),
		Temperature:       cloneFloat(v.Temperature),
		SpO2:              cloneFloat(v.SpO2),
		BloodPressure:     cloneReading(v.BloodPressure),
		HeartRateStatus:   cloneReading(v.HeartRateStatus),
		TemperatureStatus: cloneReading(v.TemperatureStatus),
		SpO2Status:        cloneReading(v.SpO2Status),
		Timestamp:         v.Timestamp,
	}
}

// Clone returns a deep copy of the blood test.
func (b *BloodTest) Clone() *BloodTest {
	if b == nil {
		return nil
	}

	return &BloodTest{
		Hemoglobin:             cloneFloat(b.Hemoglobin),
		BloodSugar:             cloneFloat(b.BloodSugar),
		HDL:                    cloneFloat(b.HDL),
		LDL:                    cloneFloat(b.LDL),
		TotalCholesterol:       cloneFloat(b.TotalCholesterol),
		Triglycerides:          cloneFloat(b.Triglycerides),
		HemoglobinStatus:       cloneReading(b.HemoglobinStatus),
		BloodSugarStatus:       cloneReading(b.BloodSugarStatus),
		HDLStatus:              cloneReading(b.HDLStatus),
		LDLStatus:              cloneReading(b.LDLStatus),
		TotalCholesterolStatus: cloneReading(b.TotalCholesterolStatus),
		TriglyceridesStatus:    cloneReading(b.TriglyceridesStatus),
		Timestamp:              b.Timestamp,
	}
}

// Clone returns a deep copy of the BMI data.
func (b *BMIData) Clone() *BMIData {
	if b == nil {
		return nil
	}

	return &BMIData{
		Height:    cloneFloat(b.Height),
		Weight:    cloneFloat(b.Weight),
		BMI:       cloneFloat(b.BMI),
		Category:  b.Category,
		Reading:   cloneReading(b.Reading),
		Timestamp: b.Timestamp,
	}
}

// Clone returns a deep copy of the ECG data.
func (e *ECGData) Clone() *ECGData {
	if e == nil {
		return nil
	}

	return &ECGData{
		HeartRate:      cloneFloat(e.HeartRate),
		QRSDuration:    cloneFloat(e.QRSDuration),
		QTInterval:     cloneFloat(e.QTInterval),
		CorrectedQT:    cloneFloat(e.CorrectedQT),
		Interpretation: e.Interpretation,
		RiskLevel:      e.RiskLevel,
		Timestamp:      e.Timestamp,
	}
}

// Clone returns a copy of the ultrasound data.
func (u *UltrasoundData) Clone() *UltrasoundData {
	if u == nil {
		return nil
	}

	out := *u

	return &out
}

// Clone returns a deep copy of the summary.
func (h *HealthSummary) Clone() *HealthSummary {
	if h == nil {
		return nil
	}

	out := *h
	out.Recommendations = append([]string(nil), h.Recommendations...)
	out.CriticalAlerts = append([]string(nil), h.CriticalAlerts...)
	out.Contributions = append([]Contribution(nil), h.Contributions...)

	return &out
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}
