/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"errors"
	htmltemplate "html/template"
	"net/http"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"

	"github.com/humaidq/carewheels/clinical"
	"github.com/humaidq/carewheels/export"
	"github.com/humaidq/carewheels/visit"
)

const assessmentPath = "/assessment"

// openSession returns the assessment session bound to the browser session.
func openSession(s session.Session, reg *visit.Registry) (*visit.Session, error) {
	operatorID, ok := sessionOperatorID(s)
	if !ok {
		return nil, errSessionUserMissing
	}

	return reg.Open(s.ID(), operatorID)
}

// withVisit resolves the assessment session and requires a current visit.
// It redirects and returns nil when either is missing.
func withVisit(c flamego.Context, s session.Session, reg *visit.Registry) *visit.Session {
	vs, err := openSession(s, reg)
	if err != nil {
		logger.Error("Failed to open assessment session", "error", err)
		SetErrorFlash(s, "Your session has expired, please sign in again")
		c.Redirect("/login", http.StatusSeeOther)

		return nil
	}

	if !vs.HasVisit() {
		SetInfoFlash(s, "Start a new visit or load an existing one")
		c.Redirect("/visits", http.StatusSeeOther)

		return nil
	}

	return vs
}

// Assessment renders the wizard at the session's current stage.
func Assessment(c flamego.Context, s session.Session, reg *visit.Registry, t template.Template, data template.Data) {
	vs := withVisit(c, s, reg)
	if vs == nil {
		return
	}

	stage := vs.Stage()
	if stage == visit.StageSummary {
		vs.GenerateSummary()
	}

	v, _ := vs.Current()

	data["Visit"] = v
	data["Stage"] = stage
	data["StageSlug"] = stage.Slug()
	data["Stages"] = visit.Stages()
	data["Progress"] = stage.Progress()
	data["IsFirstStage"] = stage == visit.FirstStage
	data["IsLastStage"] = stage == visit.LastStage
	data["CriticalReadings"] = clinical.CriticalReadings(v.Vitals, v.BloodTest)
	data["Thresholds"] = vs.Thresholds()

	if v.BMI != nil && v.BMI.Category != "" {
		data["BMIRisks"] = clinical.BMIHealthRisks(v.BMI.Category)
		data["BMIGuidance"] = clinical.BMIGuidance(v.BMI.Category)
	}

	if stage == visit.StageECG || stage == visit.StageSummary {
		if chart, ok := liveECGChart(v); ok {
			data["ECGChart"] = chart
		}
	}

	data["Summary"] = v.HealthSummary
	data["IsAssessment"] = true
	t.HTML(http.StatusOK, "assessment")
}

func liveECGChart(v visit.Visit) (htmltemplate.HTML, bool) {
	w, err := export.LiveWaveform(v.ECG)
	if err != nil {
		if !errors.Is(err, export.ErrNoHeartRate) {
			logger.Warn("Failed to build ECG waveform", "visit_id", v.ID, "error", err)
		}

		return "", false
	}

	chart, err := export.ECGChart(w, "Live ECG")
	if err != nil {
		logger.Warn("Failed to render ECG chart", "visit_id", v.ID, "error", err)
		return "", false
	}

	return htmltemplate.HTML(chart), true
}

// NextStage advances the wizard.
func NextStage(c flamego.Context, s session.Session, reg *visit.Registry) {
	if vs := withVisit(c, s, reg); vs != nil {
		vs.Advance()
		c.Redirect(assessmentPath, http.StatusSeeOther)
	}
}

// PreviousStage steps the wizard back.
func PreviousStage(c flamego.Context, s session.Session, reg *visit.Registry) {
	if vs := withVisit(c, s, reg); vs != nil {
		vs.Retreat()
		c.Redirect(assessmentPath, http.StatusSeeOther)
	}
}

// GoToStage jumps to the stage named in the URL.
func GoToStage(c flamego.Context, s session.Session, reg *visit.Registry) {
	vs := withVisit(c, s, reg)
	if vs == nil {
		return
	}

	stage, ok := visit.StageFromSlug(c.Param("stage"))
	if !ok {
		SetErrorFlash(s, "Unknown assessment stage")
		c.Redirect(assessmentPath, http.StatusSeeOther)

		return
	}

	vs.GoTo(stage)
	c.Redirect(assessmentPath, http.StatusSeeOther)
}

// SaveVisit persists the current visit.
func SaveVisit(c flamego.Context, s session.Session, reg *visit.Registry) {
	vs := withVisit(c, s, reg)
	if vs == nil {
		return
	}

	if err := vs.Save(c.Request().Context()); err != nil {
		logger.Error("Failed to save visit", "operator_id", vs.OperatorID(), "error", err)
		SetErrorFlash(s, "Failed to save visit")
	} else {
		SetSuccessFlash(s, "Visit saved")
	}

	c.Redirect(assessmentPath, http.StatusSeeOther)
}

// stageUpdate parses a stage form and applies it. A submitted action of
// "next" advances the wizard afterwards.
func stageUpdate(c flamego.Context, s session.Session, reg *visit.Registry, apply func(*visit.Session) error) {
	vs := withVisit(c, s, reg)
	if vs == nil {
		return
	}

	if err := c.Request().ParseForm(); err != nil {
		logger.Warn("Failed to parse assessment form", "error", err)
		SetErrorFlash(s, "Failed to parse form")
		c.Redirect(assessmentPath, http.StatusSeeOther)

		return
	}

	if err := apply(vs); err != nil {
		SetErrorFlash(s, "Please check the entered values: "+err.Error())
		c.Redirect(assessmentPath, http.StatusSeeOther)

		return
	}

	if c.Request().Form.Get("action") == "next" {
		vs.Advance()
	}

	c.Redirect(assessmentPath, http.StatusSeeOther)
}

// UpdatePatient handles the registration form.
func UpdatePatient(c flamego.Context, s session.Session, reg *visit.Registry) {
	stageUpdate(c, s, reg, func(vs *visit.Session) error {
		u, err := parsePatientForm(c.Request().Form)
		if err != nil {
			return err
		}

		vs.UpdatePatient(u)

		return nil
	})
}

// UpdateVitals handles the vital signs form.
func UpdateVitals(c flamego.Context, s session.Session, reg *visit.Registry) {
	stageUpdate(c, s, reg, func(vs *visit.Session) error {
		u, err := parseVitalsForm(c.Request().Form)
		if err != nil {
			return err
		}

		vs.UpdateVitals(u)

		return nil
	})
}

// UpdateBloodTest handles the blood panel form.
func UpdateBloodTest(c flamego.Context, s session.Session, reg *visit.Registry) {
	stageUpdate(c, s, reg, func(vs *visit.Session) error {
		u, err := parseBloodTestForm(c.Request().Form)
		if err != nil {
			return err
		}

		vs.UpdateBloodTest(u)

		return nil
	})
}

// UpdateBMI handles the height and weight form.
func UpdateBMI(c flamego.Context, s session.Session, reg *visit.Registry) {
	stageUpdate(c, s, reg, func(vs *visit.Session) error {
		u, err := parseBMIForm(c.Request().Form)
		if err != nil {
			return err
		}

		vs.UpdateBMI(u)

		return nil
	})
}

// UpdateECG handles the ECG parameter form.
func UpdateECG(c flamego.Context, s session.Session, reg *visit.Registry) {
	stageUpdate(c, s, reg, func(vs *visit.Session) error {
		u, err := parseECGForm(c.Request().Form)
		if err != nil {
			return err
		}

		vs.UpdateECG(u)

		return nil
	})
}

// SimulateECG fills the ECG stage with a sample recording.
func SimulateECG(c flamego.Context, s session.Session, reg *visit.Registry) {
	vs := withVisit(c, s, reg)
	if vs == nil {
		return
	}

	sample := clinical.SampleECG()
	vs.UpdateECG(clinical.ECGUpdate{
		HeartRate:   sample.HeartRate,
		QRSDuration: sample.QRSDuration,
		QTInterval:  sample.QTInterval,
	})

	SetInfoFlash(s, "Sample ECG recorded")
	c.Redirect(assessmentPath, http.StatusSeeOther)
}

// UpdateUltrasound handles the ultrasound form.
func UpdateUltrasound(c flamego.Context, s session.Session, reg *visit.Registry) {
	stageUpdate(c, s, reg, func(vs *visit.Session) error {
		vs.UpdateUltrasound(parseUltrasoundForm(c.Request().Form))
		return nil
	})
}

// RegenerateSummary rebuilds the health summary from the current records.
func RegenerateSummary(c flamego.Context, s session.Session, reg *visit.Registry) {
	vs := withVisit(c, s, reg)
	if vs == nil {
		return
	}

	vs.ClearSummary()
	vs.GenerateSummary()

	SetSuccessFlash(s, "Health summary updated")
	c.Redirect(assessmentPath, http.StatusSeeOther)
}
