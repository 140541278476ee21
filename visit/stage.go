/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package visit

// Stage is a step of the assessment wizard, numbered from 1.
type Stage int

const (
	StageRegistration Stage = iota + 1
	StageVitals
	StageBloodTest
	StageBMI
	StageECG
	StageUltrasound
	StageSummary
)

const (
	FirstStage = StageRegistration
	LastStage  = StageSummary
)

var stageTitles = map[Stage]string{
	StageRegistration: "Patient Registration",
	StageVitals:       "Vital Signs",
	StageBloodTest:    "Blood Tests",
	StageBMI:          "BMI Assessment",
	StageECG:          "ECG Analysis",
	StageUltrasound:   "Ultrasound",
	StageSummary:      "Health Summary",
}

var stageSlugs = map[Stage]string{
	StageRegistration: "registration",
	StageVitals:       "vitals",
	StageBloodTest:    "blood-test",
	StageBMI:          "bmi",
	StageECG:          "ecg",
	StageUltrasound:   "ultrasound",
	StageSummary:      "summary",
}

// Title returns the human-readable stage title.
func (s Stage) Title() string {
	return stageTitles[s]
}

// Slug returns the URL-safe stage name.
func (s Stage) Slug() string {
	return stageSlugs[s]
}

// Valid reports whether s lies within the wizard.
func (s Stage) Valid() bool {
	return s >= FirstStage && s <= LastStage
}

// Progress returns completion of the wizard in percent.
func (s Stage) Progress() int {
	return int(Clamp(s)) * 100 / int(LastStage)
}

// Clamp bounds s to [FirstStage, LastStage].
func Clamp(s Stage) Stage {
	return min(max(s, FirstStage), LastStage)
}

// StageFromSlug looks up a stage by its slug.
func StageFromSlug(slug string) (Stage, bool) {
	for stage, s := range stageSlugs {
		if s == slug {
			return stage, true
		}
	}

	return 0, false
}

// Stages returns every stage in order.
func Stages() []Stage {
	out := make([]Stage, 0, int(LastStage))
	for s := FirstStage; s <= LastStage; s++ {
		out = append(out, s)
	}

	return out
}
