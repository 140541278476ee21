/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package clinical

import "strings"

// Partial updates carry only the fields that changed. Nil fields are left
// untouched when merged into a record.

// PatientUpdate is a partial update to a Patient.
type PatientUpdate struct {
	FullName      *string
	Age           *int
	Gender        *Gender
	PatientID     *string
	ContactInfo   *string
	Address       *string
	GeoCode       *string
	Symptoms      []string
	FamilyHistory []string
	ConsentGiven  *bool
}

// VitalsUpdate is a partial update to Vitals.
type VitalsUpdate struct {
	SystolicBP  *float64
	DiastolicBP *float64
	HeartRate   *float64
	Temperature *float64
	SpO2        *float64
}

// BloodTestUpdate is a partial update to a BloodTest.
type BloodTestUpdate struct {
	Hemoglobin       *float64
	BloodSugar       *float64
	HDL              *float64
	LDL              *float64
	TotalCholesterol *float64
	Triglycerides    *float64
}

// BMIUpdate is a partial update to BMIData.
type BMIUpdate struct {
	Height *float64
	Weight *float64
}

// ECGUpdate is a partial update to ECGData.
type ECGUpdate struct {
	HeartRate   *float64
	QRSDuration *float64
	QTInterval  *float64
}

// UltrasoundUpdate is a partial update to UltrasoundData.
type UltrasoundUpdate struct {
	ImageURL     *string
	Observations *string
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func setFloat(dst **float64, src *float64) {
	if src != nil {
		*dst = cloneFloat(src)
	}
}

// Apply merges the update into p.
func (u PatientUpdate) Apply(p *Patient) {
	setString(&p.FullName, u.FullName)
	setString(&p.PatientID, u.PatientID)
	setString(&p.ContactInfo, u.ContactInfo)
	setString(&p.Address, u.Address)
	setString(&p.GeoCode, u.GeoCode)

	if u.Age != nil {
		p.Age = *u.Age
	}

	if u.Gender != nil {
		p.Gender = *u.Gender
	}

	if u.Symptoms != nil {
		p.Symptoms = append([]string(nil), u.Symptoms...)
	}

	if u.FamilyHistory != nil {
		p.FamilyHistory = append([]string(nil), u.FamilyHistory...)
	}

	if u.ConsentGiven != nil {
		p.ConsentGiven = *u.ConsentGiven
	}
}

// Apply merges the update into v.
func (u VitalsUpdate) Apply(v *Vitals) {
	setFloat(&v.SystolicBP, u.SystolicBP)
	setFloat(&v.DiastolicBP, u.DiastolicBP)
	setFloat(&v.HeartRate, u.HeartRate)
	setFloat(&v.Temperature, u.Temperature)
	setFloat(&v.SpO2, u.SpO2)
}

// Apply merges the update into b.
func (u BloodTestUpdate) Apply(b *BloodTest) {
	setFloat(&b.Hemoglobin, u.Hemoglobin)
	setFloat(&b.BloodSugar, u.BloodSugar)
	setFloat(&b.HDL, u.HDL)
	setFloat(&b.LDL, u.LDL)
	setFloat(&b.TotalCholesterol, u.TotalCholesterol)
	setFloat(&b.Triglycerides, u.Triglycerides)
}

// Apply merges the update into b.
func (u BMIUpdate) Apply(b *BMIData) {
	setFloat(&b.Height, u.Height)
	setFloat(&b.Weight, u.Weight)
}

// Apply merges the update into e.
func (u ECGUpdate) Apply(e *ECGData) {
	setFloat(&e.HeartRate, u.HeartRate)
	setFloat(&e.QRSDuration, u.QRSDuration)
	setFloat(&e.QTInterval, u.QTInterval)
}

// Apply merges the update into us.
func (u UltrasoundUpdate) Apply(us *UltrasoundData) {
	setString(&us.ImageURL, u.ImageURL)

	if u.Observations != nil {
		us.Observations = *u.Observations
	}
}

func classify(v *float64, fn func(float64) Reading) *Reading {
	if v == nil {
		return nil
	}

	r := fn(*v)

	return &r
}

// RecomputeVitals refreshes the derived readings of v from its raw values.
// Blood pressure needs both systolic and diastolic values.
func RecomputeVitals(v *Vitals, t Thresholds) {
	v.BloodPressure = nil
	if v.SystolicBP != nil && v.DiastolicBP != nil {
		r := ClassifyBloodPressure(*v.SystolicBP, *v.DiastolicBP, t)
		v.BloodPressure = &r
	}

	v.HeartRateStatus = classify(v.HeartRate, func(x float64) Reading { return ClassifyHeartRate(x, t) })
	v.TemperatureStatus = classify(v.Temperature, func(x float64) Reading { return ClassifyTemperature(x, t) })
	v.SpO2Status = classify(v.SpO2, func(x float64) Reading { return ClassifySpO2(x, t) })
}

// RecomputeBloodTest refreshes the derived readings of b. Hemoglobin is
// classified against the table for the patient's gender.
func RecomputeBloodTest(b *BloodTest, gender Gender, t Thresholds) {
	b.HemoglobinStatus = classify(b.Hemoglobin, func(x float64) Reading { return ClassifyHemoglobin(x, gender, t) })
	b.BloodSugarStatus = classify(b.BloodSugar, func(x float64) Reading { return ClassifyBloodSugar(x, t) })
	b.HDLStatus = classify(b.HDL, func(x float64) Reading { return ClassifyHDL(x, t) })
	b.LDLStatus = classify(b.LDL, func(x float64) Reading { return ClassifyLDL(x, t) })
	b.TotalCholesterolStatus = classify(b.TotalCholesterol, func(x float64) Reading { return ClassifyTotalCholesterol(x, t) })
	b.TriglyceridesStatus = classify(b.Triglycerides, func(x float64) Reading { return ClassifyTriglycerides(x, t) })
}

// RecomputeBMI refreshes the index, category and reading of b. They stay
// empty until both height and weight are positive.
func RecomputeBMI(b *BMIData, t Thresholds) {
	b.BMI, b.Category, b.Reading = nil, "", nil

	if b.Height == nil || b.Weight == nil {
		return
	}

	bmi, ok := CalculateBMI(*b.Height, *b.Weight)
	if !ok {
		return
	}

	r := ClassifyBMI(bmi, t)
	b.BMI = &bmi
	b.Category = CategorizeBMI(bmi, t)
	b.Reading = &r
}

// RecomputeECG refreshes the corrected QT, interpretation and risk tier of e.
func RecomputeECG(e *ECGData, t Thresholds) {
	e.CorrectedQT, e.Interpretation, e.RiskLevel = nil, "", ""

	in := ECGInput{HeartRate: e.HeartRate, QRSDuration: e.QRSDuration, QTInterval: e.QTInterval}

	interpretation, ok := InterpretECG(in, t)
	if !ok {
		return
	}

	risk, _ := ECGRiskLevel(in, t)
	e.Interpretation = interpretation
	e.RiskLevel = risk

	if e.QTInterval != nil {
		if qtc, ok := CorrectedQT(*e.QTInterval, *e.HeartRate); ok {
			e.CorrectedQT = &qtc
		}
	}
}
