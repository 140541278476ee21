/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package clinical

// Classifiers check critical conditions before warning ones, so a value
// matching several rules always receives the most severe status.

// ClassifyBloodPressure classifies a systolic/diastolic pair. The reading's
// value is the systolic pressure.
func ClassifyBloodPressure(systolic, diastolic float64, t Thresholds) Reading {
	r := Reading{Value: systolic}

	switch {
	case systolic >= t.Systolic.High.Max || diastolic >= t.Diastolic.High.Max:
		r.Status, r.Message = StatusCritical, "Hypertensive Crisis - Immediate attention required"
	case systolic >= t.Systolic.High.Min || diastolic >= t.Diastolic.High.Min:
		r.Status, r.Message = StatusWarning, "High Blood Pressure (Stage 2)"
	case systolic >= t.Systolic.Elevated || diastolic >= t.Diastolic.Elevated:
		r.Status, r.Message = StatusWarning, "High Blood Pressure (Stage 1)"
	case systolic >= t.Systolic.Normal.Min && diastolic >= t.Diastolic.Normal.Min:
		r.Status, r.Message = StatusNormal, "Normal Blood Pressure"
	default:
		r.Status, r.Message = StatusWarning, "Low Blood Pressure"
	}

	return r
}

// ClassifyHeartRate classifies a resting heart rate in bpm.
func ClassifyHeartRate(bpm float64, t Thresholds) Reading {
	r := Reading{Value: bpm}

	switch {
	case bpm < t.HeartRate.SevereLow:
		r.Status, r.Message = StatusCritical, "Severe Bradycardia"
	case bpm < t.HeartRate.Normal.Min:
		r.Status, r.Message = StatusWarning, "Bradycardia"
	case bpm > t.HeartRate.SevereHigh:
		r.Status, r.Message = StatusCritical, "Severe Tachycardia"
	case bpm > t.HeartRate.Normal.Max:
		r.Status, r.Message = StatusWarning, "Tachycardia"
	default:
		r.Status, r.Message = StatusNormal, "Normal Heart Rate"
	}

	return r
}

// ClassifyTemperature classifies a body temperature in °C.
func ClassifyTemperature(celsius float64, t Thresholds) Reading {
	r := Reading{Value: celsius}

	switch {
	case celsius >= t.Temperature.HighFever:
		r.Status, r.Message = StatusCritical, "High Fever"
	case celsius >= t.Temperature.Fever:
		r.Status, r.Message = StatusWarning, "Fever"
	case t.Temperature.Normal.Contains(celsius):
		r.Status, r.Message = StatusNormal, "Normal Temperature"
	default:
		r.Status, r.Message = StatusWarning, "Low Temperature"
	}

	return r
}

// ClassifySpO2 classifies an oxygen saturation percentage.
func ClassifySpO2(percent float64, t Thresholds) Reading {
	r := Reading{Value: percent}

	switch {
	case percent < t.SpO2.Low:
		r.Status, r.Message = StatusCritical, "Severe Hypoxemia"
	case percent < t.SpO2.Normal:
		r.Status, r.Message = StatusWarning, "Mild Hypoxemia"
	default:
		r.Status, r.Message = StatusNormal, "Normal Oxygen Saturation"
	}

	return r
}

// ClassifyHemoglobin classifies hemoglobin in g/dL against the gender table.
func ClassifyHemoglobin(gdl float64, gender Gender, t Thresholds) Reading {
	r := Reading{Value: gdl}
	ref := t.Hemoglobin(gender)

	switch {
	case gdl < ref.Low:
		r.Status, r.Message = StatusCritical, "Anemia detected"
	case gdl < ref.Normal.Min:
		r.Status, r.Message = StatusWarning, "Low hemoglobin"
	case gdl <= ref.Normal.Max:
		r.Status, r.Message = StatusNormal, "Normal hemoglobin"
	default:
		r.Status, r.Message = StatusWarning, "High hemoglobin"
	}

	return r
}

// ClassifyBloodSugar classifies fasting glucose in mg/dL.
func ClassifyBloodSugar(mgdl float64, t Thresholds) Reading {
	r := Reading{Value: mgdl}

	switch {
	case mgdl >= t.BloodSugar.Diabetic:
		r.Status, r.Message = StatusCritical, "Diabetic range"
	case mgdl >= t.BloodSugar.Prediabetic.Min:
		r.Status, r.Message = StatusWarning, "Prediabetic range"
	case t.BloodSugar.Normal.Contains(mgdl):
		r.Status, r.Message = StatusNormal, "Normal blood sugar"
	default:
		r.Status, r.Message = StatusWarning, "Low blood sugar"
	}

	return r
}

// ClassifyHDL classifies HDL cholesterol in mg/dL. Higher is better.
func ClassifyHDL(mgdl float64, t Thresholds) Reading {
	r := Reading{Value: mgdl}

	switch {
	case mgdl >= t.HDL.Borderline:
		r.Status, r.Message = StatusNormal, "Good HDL cholesterol"
	case mgdl >= t.HDL.Good:
		r.Status, r.Message = StatusWarning, "Borderline HDL"
	default:
		r.Status, r.Message = StatusCritical, "Low HDL cholesterol"
	}

	return r
}

// ClassifyLDL classifies LDL cholesterol in mg/dL.
func ClassifyLDL(mgdl float64, t Thresholds) Reading {
	r := Reading{Value: mgdl}

	switch {
	case mgdl >= t.LDL.High:
		r.Status, r.Message = StatusCritical, "High LDL cholesterol"
	case mgdl >= t.LDL.Borderline.Min:
		r.Status, r.Message = StatusWarning, "Borderline high LDL"
	default:
		r.Status, r.Message = StatusNormal, "Optimal LDL cholesterol"
	}

	return r
}

// ClassifyTotalCholesterol classifies total cholesterol in mg/dL.
func ClassifyTotalCholesterol(mgdl float64, t Thresholds) Reading {
	r := Reading{Value: mgdl}

	switch {
	case mgdl >= t.TotalCholesterol.High:
		r.Status, r.Message = StatusCritical, "High total cholesterol"
	case mgdl >= t.TotalCholesterol.Borderline.Min:
		r.Status, r.Message = StatusWarning, "Borderline high cholesterol"
	default:
		r.Status, r.Message = StatusNormal, "Desirable cholesterol"
	}

	return r
}

// ClassifyTriglycerides classifies triglycerides in mg/dL.
func ClassifyTriglycerides(mgdl float64, t Thresholds) Reading {
	r := Reading{Value: mgdl}

	switch {
	case mgdl >= t.Triglycerides.High:
		r.Status, r.Message = StatusCritical, "High triglycerides"
	case mgdl >= t.Triglycerides.Borderline.Min:
		r.Status, r.Message = StatusWarning, "Borderline high triglycerides"
	default:
		r.Status, r.Message = StatusNormal, "Normal triglycerides"
	}

	return r
}

// CriticalReadings returns the messages of every critical derived reading
// across the vitals and blood panel.
func CriticalReadings(v *Vitals, b *BloodTest) []string {
	var out []string

	collect := func(readings ...*Reading) {
		for _, r := range readings {
			if r.IsCritical() {
				out = append(out, r.Message)
			}
		}
	}

	if v != nil {
		collect(v.BloodPressure, v.HeartRateStatus, v.TemperatureStatus, v.SpO2Status)
	}

	if b != nil {
		collect(b.HemoglobinStatus, b.BloodSugarStatus, b.HDLStatus, b.LDLStatus,
			b.TotalCholesterolStatus, b.TriglyceridesStatus)
	}

	return out
}
