/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package clinical

import (
	"math"
	"strings"
)

// ECGInput carries the optional measured ECG parameters.
type ECGInput struct {
	HeartRate   *float64
	QRSDuration *float64
	QTInterval  *float64
}

// SampleECG returns demo parameters for a healthy adult recording.
func SampleECG() ECGInput {
	return ECGInput{
		HeartRate:   Float(75),
		QRSDuration: Float(95),
		QTInterval:  Float(400),
	}
}

// CorrectedQT applies Bazett's formula: QT / sqrt(RR) with RR = 60/HR seconds.
func CorrectedQT(qtMs, heartRate float64) (float64, bool) {
	if heartRate <= 0 {
		return 0, false
	}

	return qtMs / math.Sqrt(60/heartRate), true
}

// InterpretECG returns the comma-joined findings for the heart rate, QRS
// and QTc rules. Heart rate is required.
func InterpretECG(in ECGInput, t Thresholds) (string, bool) {
	if in.HeartRate == nil || *in.HeartRate <= 0 {
		return "", false
	}

	hr := *in.HeartRate
	e := t.ECG

	var findings []string

	switch {
	case hr < e.SevereBradycardia:
		findings = append(findings, "Severe Bradycardia")
	case hr < e.Bradycardia:
		findings = append(findings, "Bradycardia")
	case hr > e.SevereTachycardia:
		findings = append(findings, "Severe Tachycardia")
	case hr > e.Tachycardia:
		findings = append(findings, "Tachycardia")
	default:
		findings = append(findings, "Normal Sinus Rhythm")
	}

	if in.QRSDuration != nil {
		switch qrs := *in.QRSDuration; {
		case qrs > e.QRSNormal.Max:
			findings = append(findings, "Wide QRS Complex (Bundle Branch Block)")
		case qrs >= e.QRSNormal.Min:
			findings = append(findings, "Normal QRS Duration")
		}
	}

	if in.QTInterval != nil {
		qtc, _ := CorrectedQT(*in.QTInterval, hr)

		switch {
		case qtc > e.QTcProlonged:
			findings = append(findings, "Prolonged QTc (Risk of Arrhythmia)")
		case qtc < e.QTcShort:
			findings = append(findings, "Short QTc")
		default:
			findings = append(findings, "Normal QT Interval")
		}
	}

	return strings.Join(findings, ", "), true
}

// ECGRiskLevel derives the ECG risk tier. Heart rate is required.
func ECGRiskLevel(in ECGInput, t Thresholds) (ECGRisk, bool) {
	if in.HeartRate == nil || *in.HeartRate <= 0 {
		return "", false
	}

	hr := *in.HeartRate
	e := t.ECG

	if hr < e.SevereBradycardia || hr > e.SevereTachycardia {
		return ECGRiskCritical, true
	}

	if in.QRSDuration != nil && *in.QRSDuration > e.QRSNormal.Max {
		return ECGRiskCritical, true
	}

	if hr < e.Bradycardia || hr > e.Tachycardia {
		return ECGRiskAbnormal, true
	}

	if in.QTInterval != nil {
		if qtc, ok := CorrectedQT(*in.QTInterval, hr); ok && qtc > e.QTcProlonged {
			return ECGRiskAbnormal, true
		}
	}

	return ECGRiskNormal, true
}
