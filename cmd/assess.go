/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/humaidq/carewheels/clinical"
	"github.com/humaidq/carewheels/db"
	"github.com/humaidq/carewheels/export"
	"github.com/humaidq/carewheels/visit"
)

var CmdAssess = &cli.Command{
	Name:      "assess",
	Usage:     "Run an assessment from a JSON file and print the health summary",
	ArgsUsage: "<input.json|->",
	Flags: []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "also write a report in this format (pdf, csv, html), may be repeated",
		},
		&cli.StringFlag{
			Name:  "out",
			Value: ".",
			Usage: "directory for written reports",
		},
		&cli.StringFlag{
			Name:  "operator",
			Value: "1",
			Usage: "operator id recorded on the visit",
		},
		&cli.StringFlag{
			Name:    "base-url",
			Sources: cli.EnvVars("BASE_URL"),
			Usage:   "public server address encoded in report QR codes",
		},
		&cli.StringFlag{
			Name:    "database-url",
			Sources: cli.EnvVars("DATABASE_URL"),
			Usage:   "load reference thresholds from this database instead of the defaults",
		},
	},
	Action: assess,
}

// assessInput is the JSON document accepted by the assess command. Only
// the raw measurements are read; derived fields are recomputed.
type assessInput struct {
	Patient    clinical.Patient         `json:"patient"`
	Vitals     *clinical.Vitals         `json:"vitals"`
	BloodTest  *clinical.BloodTest      `json:"bloodTest"`
	BMI        *clinical.BMIData        `json:"bmi"`
	ECG        *clinical.ECGData        `json:"ecg"`
	Ultrasound *clinical.UltrasoundData `json:"ultrasound"`
}

func readAssessInput(path string, stdin io.Reader) (assessInput, error) {
	var in assessInput

	r := stdin

	if path != "-" {
		f, err := os.Open(filepath.Clean(path))
		if err != nil {
			return in, fmt.Errorf("failed to open input: %w", err)
		}

		defer func() {
			if err := f.Close(); err != nil {
				cliLogger.Warn("Failed to close input", "path", path, "error", err)
			}
		}()

		r = f
	}

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&in); err != nil {
		return in, fmt.Errorf("failed to decode input: %w", err)
	}

	return in, nil
}

func patientUpdate(p clinical.Patient) clinical.PatientUpdate {
	u := clinical.PatientUpdate{
		FullName:      &p.FullName,
		Age:           &p.Age,
		PatientID:     &p.PatientID,
		ContactInfo:   &p.ContactInfo,
		Address:       &p.Address,
		GeoCode:       &p.GeoCode,
		Symptoms:      p.Symptoms,
		FamilyHistory: p.FamilyHistory,
		ConsentGiven:  &p.ConsentGiven,
	}

	if p.Gender != "" {
		g := clinical.ParseGender(string(p.Gender))
		u.Gender = &g
	}

	return u
}

// runAssessment drives a throwaway session through every stage so the
// result matches what the wizard would produce.
func runAssessment(in assessInput, operatorID string, t clinical.Thresholds, now func() time.Time) (visit.Visit, error) {
	s := visit.NewSession(visit.NewMemoryStore(), operatorID, visit.WithThresholds(t), visit.WithClock(now))
	defer s.End()

	if _, ok := s.CreateNewVisit(); !ok {
		return visit.Visit{}, visit.ErrOperatorRequired
	}

	s.UpdatePatient(patientUpdate(in.Patient))

	if v := in.Vitals; v != nil {
		s.UpdateVitals(clinical.VitalsUpdate{
			SystolicBP:  v.SystolicBP,
			DiastolicBP: v.DiastolicBP,
			HeartRate:   v.HeartRate,
			Temperature: v.Temperature,
			SpO2:        v.SpO2,
		})
	}

	if b := in.BloodTest; b != nil {
		s.UpdateBloodTest(clinical.BloodTestUpdate{
			Hemoglobin:       b.Hemoglobin,
			BloodSugar:       b.BloodSugar,
			HDL:              b.HDL,
			LDL:              b.LDL,
			TotalCholesterol: b.TotalCholesterol,
			Triglycerides:    b.Triglycerides,
		})
	}

	if b := in.BMI; b != nil {
		s.UpdateBMI(clinical.BMIUpdate{Height: b.Height, Weight: b.Weight})
	}

	if e := in.ECG; e != nil {
		s.UpdateECG(clinical.ECGUpdate{
			HeartRate:   e.HeartRate,
			QRSDuration: e.QRSDuration,
			QTInterval:  e.QTInterval,
		})
	}

	if us := in.Ultrasound; us != nil {
		s.UpdateUltrasound(clinical.UltrasoundUpdate{
			ImageURL:     &us.ImageURL,
			Observations: &us.Observations,
		})
	}

	s.GoTo(visit.StageSummary)

	v, _ := s.Current()

	return v, nil
}

func printSummary(w io.Writer, v visit.Visit) {
	h := v.HealthSummary
	if h == nil {
		return
	}

	fmt.Fprintf(w, "Patient: %s\n", v.DisplayName())
	fmt.Fprintf(w, "Risk: %s (score %d/100)\n", h.RiskLevel, h.OverallRiskScore)
	fmt.Fprintf(w, "Summary: %s\n", h.Summary)

	printList(w, "Critical alerts", h.CriticalAlerts)
	printList(w, "Recommendations", h.Recommendations)
}

func printList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}

	fmt.Fprintf(w, "%s:\n", title)

	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}

func writeReport(dir string, f export.Format, v visit.Visit, o export.Options) (path string, err error) {
	path = filepath.Join(dir, export.FileName(v, f, o.Now))

	out, err := os.Create(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}

	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close report file: %w", closeErr)
		}
	}()

	if err := export.Write(out, f, v, o); err != nil {
		return "", err
	}

	return path, nil
}

func assessThresholds(ctx context.Context, cmd *cli.Command) (clinical.Thresholds, error) {
	if cmd.String("database-url") == "" {
		return clinical.DefaultThresholds(), nil
	}

	var t clinical.Thresholds

	err := withPool(ctx, cmd, func() error {
		var err error

		t, err = db.GetReferenceThresholds(ctx)

		return err
	})

	return t, err
}

func assess(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() < 1 {
		return errInputRequired
	}

	formats := make([]export.Format, 0, len(cmd.StringSlice("format")))

	for _, raw := range cmd.StringSlice("format") {
		f, err := export.ParseFormat(strings.TrimSpace(raw))
		if err != nil {
			return err
		}

		formats = append(formats, f)
	}

	in, err := readAssessInput(cmd.Args().First(), os.Stdin)
	if err != nil {
		return err
	}

	t, err := assessThresholds(ctx, cmd)
	if err != nil {
		return err
	}

	now := time.Now()

	v, err := runAssessment(in, cmd.String("operator"), t, func() time.Time { return now })
	if err != nil {
		return err
	}

	w := cmd.Root().Writer
	printSummary(w, v)

	opts := export.Options{Now: now, BaseURL: strings.TrimRight(cmd.String("base-url"), "/")}

	for _, f := range formats {
		path, err := writeReport(cmd.String("out"), f, v, opts)
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "Wrote %s\n", path)
	}

	return nil
}
