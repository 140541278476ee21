/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package visit

import (
	"time"

	"github.com/humaidq/carewheels/clinical"
)

// Status is the lifecycle state of a visit.
type Status string

const (
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
	StatusDraft      Status = "Draft"
)

// Visit is one assessment encounter. It exclusively owns its patient and
// measurement records.
type Visit struct {
	ID            string                   `json:"id"`
	PatientID     string                   `json:"patientId"`
	DoctorID      string                   `json:"doctorId"`
	Patient       clinical.Patient         `json:"patient"`
	Vitals        *clinical.Vitals         `json:"vitals,omitempty"`
	BloodTest     *clinical.BloodTest      `json:"bloodTest,omitempty"`
	BMI           *clinical.BMIData        `json:"bmi,omitempty"`
	ECG           *clinical.ECGData        `json:"ecg,omitempty"`
	Ultrasound    *clinical.UltrasoundData `json:"ultrasound,omitempty"`
	HealthSummary *clinical.HealthSummary  `json:"healthSummary,omitempty"`
	Status        Status                   `json:"status"`
	CurrentStep   int                      `json:"currentStep"`
	CreatedAt     time.Time                `json:"createdAt"`
	UpdatedAt     time.Time                `json:"updatedAt"`
}

// Clone returns a deep copy of the visit.
func (v Visit) Clone() Visit {
	out := v
	out.Patient = v.Patient.Clone()
	out.Vitals = v.Vitals.Clone()
	out.BloodTest = v.BloodTest.Clone()
	out.BMI = v.BMI.Clone()
	out.ECG = v.ECG.Clone()
	out.Ultrasound = v.Ultrasound.Clone()
	out.HealthSummary = v.HealthSummary.Clone()

	return out
}

// Records returns the read-only view used by the aggregator and exporters.
func (v Visit) Records() clinical.Records {
	return clinical.Records{
		Patient:    v.Patient,
		Vitals:     v.Vitals,
		BloodTest:  v.BloodTest,
		BMI:        v.BMI,
		ECG:        v.ECG,
		Ultrasound: v.Ultrasound,
	}
}

// Stage returns the stored step clamped to the wizard bounds.
func (v Visit) Stage() Stage {
	return Clamp(Stage(v.CurrentStep))
}

// DisplayName returns the patient name or a placeholder.
func (v Visit) DisplayName() string {
	if v.Patient.FullName == "" {
		return "Unnamed patient"
	}

	return v.Patient.FullName
}
