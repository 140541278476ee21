// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/humaidq/carewheels/clinical"
	"github.com/humaidq/carewheels/export"
	"github.com/humaidq/carewheels/visit"
)

const hypertensiveInput = `{
  "patient": {"fullName": "Omar Haddad", "age": 61, "gender": "Male", "symptoms": ["headache"]},
  "vitals": {"systolicBP": 185, "diastolicBP": 125, "heartRate": 88, "temperature": 36.8, "spO2": 97},
  "bmi": {"height": 175, "weight": 85},
  "ecg": {"heartRate": 88, "qrsDuration": 96, "qtInterval": 380}
}`

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func TestReadAssessInput(t *testing.T) {
	t.Parallel()

	in, err := readAssessInput("-", strings.NewReader(hypertensiveInput))
	if err != nil {
		t.Fatalf("readAssessInput failed: %v", err)
	}

	if in.Patient.FullName != "Omar Haddad" || in.Vitals == nil || in.BloodTest != nil {
		t.Fatalf("unexpected input: %#v", in)
	}

	if _, err := readAssessInput("-", strings.NewReader(`{"patient": {}, "extra": 1}`)); err == nil {
		t.Fatal("expected unknown fields to be rejected")
	}

	if _, err := readAssessInput(filepath.Join(t.TempDir(), "missing.json"), nil); err == nil {
		t.Fatal("expected missing file to fail")
	}
}

func TestRunAssessment(t *testing.T) {
	t.Parallel()

	in, err := readAssessInput("-", strings.NewReader(hypertensiveInput))
	if err != nil {
		t.Fatalf("readAssessInput failed: %v", err)
	}

	v, err := runAssessment(in, "1", clinical.DefaultThresholds(), func() time.Time { return fixedNow })
	if err != nil {
		t.Fatalf("runAssessment failed: %v", err)
	}

	if v.Patient.Gender != clinical.GenderMale || v.DoctorID != "1" {
		t.Fatalf("unexpected patient record: %#v", v.Patient)
	}

	if !v.Vitals.BloodPressure.IsCritical() {
		t.Fatal("expected derived critical blood pressure")
	}

	if v.BMI == nil || v.BMI.Category != clinical.BMIOverweight {
		t.Fatalf("expected overweight BMI, got %#v", v.BMI)
	}

	if v.Stage() != visit.StageSummary || v.Status != visit.StatusCompleted {
		t.Fatalf("expected completed visit at summary, got %v %q", v.Stage(), v.Status)
	}

	h := v.HealthSummary
	if h == nil || len(h.CriticalAlerts) == 0 {
		t.Fatalf("expected critical alerts, got %#v", h)
	}

	if _, err := runAssessment(in, "", clinical.DefaultThresholds(), time.Now); !errors.Is(err, visit.ErrOperatorRequired) {
		t.Fatalf("expected ErrOperatorRequired, got %v", err)
	}
}

func TestPrintSummary(t *testing.T) {
	t.Parallel()

	in, _ := readAssessInput("-", strings.NewReader(hypertensiveInput))
	v, _ := runAssessment(in, "1", clinical.DefaultThresholds(), func() time.Time { return fixedNow })

	var buf bytes.Buffer
	printSummary(&buf, v)

	out := buf.String()
	for _, want := range []string{"Patient: Omar Haddad", "Risk: ", "Critical alerts:", "  - "} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	buf.Reset()
	printSummary(&buf, visit.Visit{})

	if buf.Len() != 0 {
		t.Fatalf("expected no output without a summary, got %q", buf.String())
	}
}

func TestWriteReport(t *testing.T) {
	t.Parallel()

	in, _ := readAssessInput("-", strings.NewReader(hypertensiveInput))
	v, _ := runAssessment(in, "1", clinical.DefaultThresholds(), func() time.Time { return fixedNow })

	dir := t.TempDir()

	path, err := writeReport(dir, export.FormatCSV, v, export.Options{Now: fixedNow})
	if err != nil {
		t.Fatalf("writeReport failed: %v", err)
	}

	if filepath.Base(path) != "Health_Report_Omar_Haddad_2025-03-14.csv" {
		t.Fatalf("unexpected report name: %s", path)
	}

	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read report: %v", err)
	}

	if !strings.Contains(string(body), "Omar Haddad") {
		t.Fatal("expected patient name in report")
	}
}

//nolint:paralleltest // Runs the shared CmdAssess command.
func TestAssessCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "visit.json")

	if err := os.WriteFile(input, []byte(hypertensiveInput), 0o600); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}

	var buf bytes.Buffer

	root := &cli.Command{
		Name:     "carewheels",
		Writer:   &buf,
		Commands: []*cli.Command{CmdAssess},
	}

	args := []string{"carewheels", "assess", "--format", "csv", "--format", "html", "--out", dir, input}
	if err := root.Run(context.Background(), args); err != nil {
		t.Fatalf("assess failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Patient: Omar Haddad") || strings.Count(out, "Wrote ") != 2 {
		t.Fatalf("unexpected output:\n%s", out)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "Health_Report_Omar_Haddad_*"))
	if err != nil || len(matches) != 2 {
		t.Fatalf("expected two reports, got %v, %v", matches, err)
	}
}
