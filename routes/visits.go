/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"

	"github.com/humaidq/carewheels/export"
	"github.com/humaidq/carewheels/visit"
)

// ReportConfig carries settings for rendered reports.
type ReportConfig struct {
	// BaseURL is encoded into report QR codes.
	BaseURL string
}

// VisitsList renders the saved visits.
func VisitsList(c flamego.Context, s session.Session, reg *visit.Registry, t template.Template, data template.Data) {
	vs, err := openSession(s, reg)
	if err != nil {
		logger.Error("Failed to open assessment session", "error", err)
		c.Redirect("/login", http.StatusSeeOther)

		return
	}

	visits, err := vs.Visits(c.Request().Context())
	if err != nil {
		logger.Error("Failed to list visits", "error", err)
		data["Error"] = "Failed to load visits"
		t.HTML(http.StatusInternalServerError, "error")

		return
	}

	if current, ok := vs.Current(); ok {
		data["Current"] = current
	}

	data["Visits"] = visits
	data["IsVisits"] = true
	t.HTML(http.StatusOK, "visits")
}

// NewVisit starts a fresh visit and opens the wizard.
func NewVisit(c flamego.Context, s session.Session, reg *visit.Registry) {
	vs, err := openSession(s, reg)
	if err != nil {
		logger.Error("Failed to open assessment session", "error", err)
		c.Redirect("/login", http.StatusSeeOther)

		return
	}

	v, ok := vs.CreateNewVisit()
	if !ok {
		SetErrorFlash(s, "Failed to start a new visit")
		c.Redirect("/visits", http.StatusSeeOther)

		return
	}

	logger.Info("Started visit", "visit_id", v.ID, "operator_id", vs.OperatorID())
	c.Redirect(assessmentPath, http.StatusSeeOther)
}

// LoadVisit makes a saved visit current and resumes it at its stage.
func LoadVisit(c flamego.Context, s session.Session, reg *visit.Registry) {
	vs, err := openSession(s, reg)
	if err != nil {
		logger.Error("Failed to open assessment session", "error", err)
		c.Redirect("/login", http.StatusSeeOther)

		return
	}

	id := c.Param("id")

	found, err := vs.LoadVisit(c.Request().Context(), id)
	if err != nil {
		logger.Error("Failed to load visit", "visit_id", id, "error", err)
		SetErrorFlash(s, "Failed to load visit")
		c.Redirect("/visits", http.StatusSeeOther)

		return
	}

	if !found {
		SetErrorFlash(s, "Visit not found")
		c.Redirect("/visits", http.StatusSeeOther)

		return
	}

	c.Redirect(assessmentPath, http.StatusSeeOther)
}

// findVisit prefers the in-progress visit so unsaved edits appear in reports.
func findVisit(ctx context.Context, vs *visit.Session, id string) (visit.Visit, error) {
	if current, ok := vs.Current(); ok && current.ID == id {
		return current, nil
	}

	visits, err := vs.Visits(ctx)
	if err != nil {
		return visit.Visit{}, err
	}

	idx := slices.IndexFunc(visits, func(v visit.Visit) bool { return v.ID == id })
	if idx < 0 {
		return visit.Visit{}, fmt.Errorf("%w: %s", errVisitNotFound, id)
	}

	return visits[idx], nil
}

// DownloadReport renders a visit report as PDF, CSV or HTML. Reports are
// shared across the clinic team, so any signed-in operator may download
// any stored visit.
func DownloadReport(c flamego.Context, s session.Session, reg *visit.Registry, cfg ReportConfig) {
	vs, err := openSession(s, reg)
	if err != nil {
		logger.Error("Failed to open assessment session", "error", err)
		c.Redirect("/login", http.StatusSeeOther)

		return
	}

	format, err := export.ParseFormat(c.Param("format"))
	if err != nil {
		SetErrorFlash(s, "Unsupported report format")
		c.Redirect(assessmentPath, http.StatusSeeOther)

		return
	}

	id := c.Param("id")

	v, err := findVisit(c.Request().Context(), vs, id)
	if err != nil {
		logger.Warn("Report requested for unavailable visit", "visit_id", id, "error", err)
		SetErrorFlash(s, "Visit not found")
		c.Redirect("/visits", http.StatusSeeOther)

		return
	}

	now := time.Now()

	var buf bytes.Buffer
	if err := export.Write(&buf, format, v, export.Options{Now: now, BaseURL: cfg.BaseURL}); err != nil {
		logger.Error("Failed to generate report", "visit_id", id, "format", format, "error", err)
		SetErrorFlash(s, "Failed to generate report")
		c.Redirect(assessmentPath, http.StatusSeeOther)

		return
	}

	header := c.ResponseWriter().Header()
	header.Set("Content-Type", format.ContentType())
	header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(v, format, now)))
	c.ResponseWriter().WriteHeader(http.StatusOK)

	if _, err := c.ResponseWriter().Write(buf.Bytes()); err != nil {
		logger.Warn("Failed to write report response", "visit_id", id, "error", err)
	}
}
