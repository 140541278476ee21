/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package clinical

// Range is an inclusive numeric interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies within the inclusive range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// BloodPressureThresholds holds systolic or diastolic cutoffs in mmHg.
type BloodPressureThresholds struct {
	Normal   Range   `json:"normal"`
	Elevated float64 `json:"elevated"`
	High     Range   `json:"high"`
}

// HeartRateThresholds holds cutoffs in beats per minute.
type HeartRateThresholds struct {
	Normal     Range   `json:"normal"`
	SevereLow  float64 `json:"severeLow"`
	SevereHigh float64 `json:"severeHigh"`
}

// TemperatureThresholds holds cutoffs in degrees Celsius.
type TemperatureThresholds struct {
	Normal    Range   `json:"normal"`
	Fever     float64 `json:"fever"`
	HighFever float64 `json:"highFever"`
}

// SpO2Thresholds holds oxygen saturation cutoffs in percent.
type SpO2Thresholds struct {
	Normal float64 `json:"normal"`
	Low    float64 `json:"low"`
}

// HemoglobinThresholds holds cutoffs in g/dL for one gender.
type HemoglobinThresholds struct {
	Normal Range   `json:"normal"`
	Low    float64 `json:"low"`
}

// BloodSugarThresholds holds fasting glucose cutoffs in mg/dL.
type BloodSugarThresholds struct {
	Normal      Range   `json:"normal"`
	Prediabetic Range   `json:"prediabetic"`
	Diabetic    float64 `json:"diabetic"`
}

// HDLThresholds holds HDL cutoffs in mg/dL.
type HDLThresholds struct {
	Good       float64 `json:"good"`
	Borderline float64 `json:"borderline"`
}

// LDLThresholds holds LDL cutoffs in mg/dL.
type LDLThresholds struct {
	Optimal    float64 `json:"optimal"`
	Borderline Range   `json:"borderline"`
	High       float64 `json:"high"`
}

// TotalCholesterolThresholds holds total cholesterol cutoffs in mg/dL.
type TotalCholesterolThresholds struct {
	Desirable  float64 `json:"desirable"`
	Borderline Range   `json:"borderline"`
	High       float64 `json:"high"`
}

// TriglyceridesThresholds holds triglyceride cutoffs in mg/dL.
type TriglyceridesThresholds struct {
	Normal     float64 `json:"normal"`
	Borderline Range   `json:"borderline"`
	High       float64 `json:"high"`
}

// BMIThresholds holds the band boundaries. Bands are half-open [lower, upper).
type BMIThresholds struct {
	Underweight float64 `json:"underweight"`
	Overweight  float64 `json:"overweight"`
	Obese       float64 `json:"obese"`
}

// ECGThresholds holds rate, QRS and QTc cutoffs.
type ECGThresholds struct {
	SevereBradycardia float64 `json:"severeBradycardia"`
	Bradycardia       float64 `json:"bradycardia"`
	Tachycardia       float64 `json:"tachycardia"`
	SevereTachycardia float64 `json:"severeTachycardia"`
	QRSNormal         Range   `json:"qrsNormal"`
	QTcShort          float64 `json:"qtcShort"`
	QTcProlonged      float64 `json:"qtcProlonged"`
}

// Thresholds is the reference table consulted by every classifier.
type Thresholds struct {
	Systolic         BloodPressureThresholds    `json:"systolic"`
	Diastolic        BloodPressureThresholds    `json:"diastolic"`
	HeartRate        HeartRateThresholds        `json:"heartRate"`
	Temperature      TemperatureThresholds      `json:"temperature"`
	SpO2             SpO2Thresholds             `json:"spO2"`
	HemoglobinMale   HemoglobinThresholds       `json:"hemoglobinMale"`
	HemoglobinFemale HemoglobinThresholds       `json:"hemoglobinFemale"`
	BloodSugar       BloodSugarThresholds       `json:"bloodSugar"`
	HDL              HDLThresholds              `json:"hdl"`
	LDL              LDLThresholds              `json:"ldl"`
	TotalCholesterol TotalCholesterolThresholds `json:"totalCholesterol"`
	Triglycerides    TriglyceridesThresholds    `json:"triglycerides"`
	BMI              BMIThresholds              `json:"bmi"`
	ECG              ECGThresholds              `json:"ecg"`
}

// DefaultThresholds returns the WHO-derived reference values.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Systolic: BloodPressureThresholds{
			Normal:   Range{Min: 90, Max: 120},
			Elevated: 130,
			High:     Range{Min: 140, Max: 180},
		},
		Diastolic: BloodPressureThresholds{
			Normal:   Range{Min: 60, Max: 80},
			Elevated: 80,
			High:     Range{Min: 90, Max: 110},
		},
		HeartRate: HeartRateThresholds{
			Normal:     Range{Min: 60, Max: 100},
			SevereLow:  50,
			SevereHigh: 120,
		},
		Temperature: TemperatureThresholds{
			Normal:    Range{Min: 36.1, Max: 37.2},
			Fever:     38.0,
			HighFever: 39.0,
		},
		SpO2: SpO2Thresholds{
			Normal: 95,
			Low:    90,
		},
		HemoglobinMale: HemoglobinThresholds{
			Normal: Range{Min: 13.8, Max: 17.2},
			Low:    13.8,
		},
		HemoglobinFemale: HemoglobinThresholds{
			Normal: Range{Min: 12.1, Max: 15.1},
			Low:    12.1,
		},
		BloodSugar: BloodSugarThresholds{
			Normal:      Range{Min: 70, Max: 100},
			Prediabetic: Range{Min: 100, Max: 126},
			Diabetic:    126,
		},
		HDL: HDLThresholds{
			Good:       40,
			Borderline: 60,
		},
		LDL: LDLThresholds{
			Optimal:    100,
			Borderline: Range{Min: 100, Max: 130},
			High:       160,
		},
		TotalCholesterol: TotalCholesterolThresholds{
			Desirable:  200,
			Borderline: Range{Min: 200, Max: 240},
			High:       240,
		},
		Triglycerides: TriglyceridesThresholds{
			Normal:     150,
			Borderline: Range{Min: 150, Max: 200},
			High:       200,
		},
		BMI: BMIThresholds{
			Underweight: 18.5,
			Overweight:  25,
			Obese:       30,
		},
		ECG: ECGThresholds{
			SevereBradycardia: 50,
			Bradycardia:       60,
			Tachycardia:       100,
			SevereTachycardia: 120,
			QRSNormal:         Range{Min: 80, Max: 120},
			QTcShort:          350,
			QTcProlonged:      470,
		},
	}
}

// Hemoglobin returns the hemoglobin table for the given gender.
// Male and unset genders use the male table.
func (t Thresholds) Hemoglobin(g Gender) HemoglobinThresholds {
	if g == GenderMale || g == "" {
		return t.HemoglobinMale
	}

	return t.HemoglobinFemale
}
