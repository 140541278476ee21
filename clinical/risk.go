/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package clinical

import (
	"fmt"
	"strings"
	"time"
)

const maxRiskScore = 100

// Score weights.
const (
	pointsBloodPressure = 15
	pointsHeartRate     = 10
	pointsTemperature   = 10
	pointsSpO2          = 20
	pointsBloodSugar    = 15
	pointsHDL           = 10
	pointsLDL           = 10
	pointsObese         = 15
	pointsOverweight    = 8
	pointsECGCritical   = 25
	pointsECGAbnormal   = 15
)

// RiskLevelForScore maps a 0–100 score to a tier.
func RiskLevelForScore(score int) RiskLevel {
	switch {
	case score < 30:
		return RiskLow
	case score < 60:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// has reports whether v is set and satisfies cond.
func has(v *float64, cond func(float64) bool) bool {
	return v != nil && cond(*v)
}

// ScoreContributions lists each scoring factor that fires for the records.
// Absent values never contribute.
func ScoreContributions(r Records, t Thresholds) []Contribution {
	var out []Contribution

	add := func(factor string, points int) {
		out = append(out, Contribution{Factor: factor, Points: points})
	}

	if v := r.Vitals; v != nil {
		if has(v.SystolicBP, func(x float64) bool { return x > t.Systolic.High.Min }) ||
			has(v.DiastolicBP, func(x float64) bool { return x > t.Diastolic.High.Min }) {
			add("Blood pressure", pointsBloodPressure)
		}

		if has(v.HeartRate, func(x float64) bool { return !t.HeartRate.Normal.Contains(x) }) {
			add("Heart rate", pointsHeartRate)
		}

		if has(v.Temperature, func(x float64) bool { return x >= t.Temperature.Fever }) {
			add("Temperature", pointsTemperature)
		}

		if has(v.SpO2, func(x float64) bool { return x < t.SpO2.Normal }) {
			add("Oxygen saturation", pointsSpO2)
		}
	}

	if b := r.BloodTest; b != nil {
		if has(b.BloodSugar, func(x float64) bool { return x > t.BloodSugar.Diabetic }) {
			add("Blood sugar", pointsBloodSugar)
		}

		if has(b.HDL, func(x float64) bool { return x < t.HDL.Good }) {
			add("HDL cholesterol", pointsHDL)
		}

		if has(b.LDL, func(x float64) bool { return x > t.LDL.High }) {
			add("LDL cholesterol", pointsLDL)
		}
	}

	if r.BMI != nil {
		switch r.BMI.Category {
		case BMIObese:
			add("BMI (Obese)", pointsObese)
		case BMIOverweight:
			add("BMI (Overweight)", pointsOverweight)
		}
	}

	if r.ECG != nil {
		switch r.ECG.RiskLevel {
		case ECGRiskCritical:
			add("ECG (Critical)", pointsECGCritical)
		case ECGRiskAbnormal:
			add("ECG (Abnormal)", pointsECGAbnormal)
		}
	}

	return out
}

// RiskScore sums the contributions and clamps the result to 100.
func RiskScore(r Records, t Thresholds) int {
	score := 0
	for _, c := range ScoreContributions(r, t) {
		score += c.Points
	}

	return min(score, maxRiskScore)
}

// Recommendations derives follow-up advice from milder excursions.
func Recommendations(r Records, t Thresholds) []string {
	var out []string

	if r.Vitals != nil && has(r.Vitals.SystolicBP, func(x float64) bool { return x > t.Systolic.Elevated }) {
		out = append(out, "Monitor blood pressure regularly")
	}

	if r.Vitals != nil && has(r.Vitals.SpO2, func(x float64) bool { return x < t.SpO2.Normal }) {
		out = append(out, "Evaluate respiratory function")
	}

	if r.BMI != nil && (r.BMI.Category == BMIOverweight || r.BMI.Category == BMIObese) {
		out = append(out, "Implement weight management program")
	}

	if r.BloodTest != nil {
		if has(r.BloodTest.BloodSugar, func(x float64) bool { return x > t.BloodSugar.Normal.Max }) {
			out = append(out, "Follow up on glucose levels")
		}

		if has(r.BloodTest.LDL, func(x float64) bool { return x >= t.LDL.Borderline.Max }) {
			out = append(out, "Review lipid profile and dietary fat intake")
		}
	}

	if r.ECG != nil && r.ECG.RiskLevel == ECGRiskAbnormal {
		out = append(out, "Schedule cardiology follow-up")
	}

	return out
}

// CriticalAlerts derives alerts that only fire on severe excursions.
func CriticalAlerts(r Records, t Thresholds) []string {
	var out []string

	if r.Vitals != nil && has(r.Vitals.SystolicBP, func(x float64) bool { return x > t.Systolic.High.Max }) {
		out = append(out, "Hypertensive crisis - immediate attention required")
	}

	if r.ECG != nil && r.ECG.RiskLevel == ECGRiskCritical {
		out = append(out, "Critical ECG findings detected")
	}

	return out
}

// Assess aggregates the records into a health summary.
func Assess(r Records, t Thresholds, now time.Time) HealthSummary {
	contributions := ScoreContributions(r, t)
	score := RiskScore(r, t)
	level := RiskLevelForScore(score)

	return HealthSummary{
		OverallRiskScore: score,
		RiskLevel:        level,
		Summary:          Narrative(r, score, level),
		Recommendations:  Recommendations(r, t),
		CriticalAlerts:   CriticalAlerts(r, t),
		Contributions:    contributions,
		Timestamp:        now,
	}
}

// Narrative renders the templated free-text summary.
func Narrative(r Records, score int, level RiskLevel) string {
	var sb strings.Builder

	name := r.Patient.FullName
	if name == "" {
		name = "Unnamed patient"
	}

	fmt.Fprintf(&sb, "Patient %s, %d years old, %s, presents with an overall health risk score of %d/100 (%s risk).",
		name, r.Patient.Age, genderNoun(r.Patient.Gender), score, level)

	sb.WriteString(" Vital signs: " + vitalsClause(r.Vitals) + ".")
	sb.WriteString(" Blood work: " + bloodClause(r.BloodTest) + ".")
	sb.WriteString(" Body mass: " + bmiClause(r.BMI) + ".")
	sb.WriteString(" ECG: " + ecgClause(r.ECG) + ".")
	sb.WriteString(" Ultrasound: " + ultrasoundClause(r.Ultrasound) + ".")
	sb.WriteString(" Continued monitoring and follow-up with a healthcare provider are recommended as indicated by the diagnostic assessments.")

	return sb.String()
}

func genderNoun(g Gender) string {
	switch g {
	case GenderMale:
		return "male"
	case GenderFemale:
		return "female"
	default:
		return "gender unspecified"
	}
}

func abnormal(readings ...*Reading) []string {
	var out []string

	for _, r := range readings {
		if r != nil && r.Status != StatusNormal {
			out = append(out, r.Message)
		}
	}

	return out
}

func vitalsClause(v *Vitals) string {
	if v == nil {
		return "not recorded"
	}

	findings := abnormal(v.BloodPressure, v.HeartRateStatus, v.TemperatureStatus, v.SpO2Status)
	if len(findings) == 0 {
		return "within normal ranges"
	}

	return strings.Join(findings, "; ")
}

func bloodClause(b *BloodTest) string {
	if b == nil {
		return "not recorded"
	}

	findings := abnormal(b.HemoglobinStatus, b.BloodSugarStatus, b.HDLStatus, b.LDLStatus,
		b.TotalCholesterolStatus, b.TriglyceridesStatus)
	if len(findings) == 0 {
		return "within normal ranges"
	}

	return strings.Join(findings, "; ")
}

func bmiClause(b *BMIData) string {
	if b == nil || b.BMI == nil {
		return "not recorded"
	}

	if b.Category == BMINormal {
		return fmt.Sprintf("BMI %.1f within the healthy weight range", *b.BMI)
	}

	return fmt.Sprintf("BMI %.1f (%s)", *b.BMI, strings.ToLower(string(b.Category)))
}

func ecgClause(e *ECGData) string {
	if e == nil || e.Interpretation == "" {
		return "not recorded"
	}

	if e.RiskLevel == ECGRiskNormal {
		return "normal tracing (" + e.Interpretation + ")"
	}

	return strings.ToLower(string(e.RiskLevel)) + " tracing (" + e.Interpretation + ")"
}

func ultrasoundClause(u *UltrasoundData) string {
	if u == nil || strings.TrimSpace(u.Observations) == "" {
		return "not recorded"
	}

	return strings.TrimRight(strings.TrimSpace(u.Observations), ".")
}
