/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"fmt"
	"maps"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/humaidq/carewheels/clinical"
)

// formFloat reads an optional finite, non-negative number. Blank fields
// yield nil.
func formFloat(form url.Values, key string) (*float64, error) {
	raw := strings.TrimSpace(form.Get(key))
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("invalid %s: %w", key, errNonFiniteValue)
	}

	if v < 0 {
		return nil, fmt.Errorf("invalid %s: %w", key, errNegativeValue)
	}

	return &v, nil
}

func formInt(form url.Values, key string) (*int, error) {
	raw := strings.TrimSpace(form.Get(key))
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}

	if v < 0 {
		return nil, fmt.Errorf("invalid %s: %w", key, errNegativeValue)
	}

	return &v, nil
}

// formString returns nil when the field was not submitted.
func formString(form url.Values, key string) *string {
	if !form.Has(key) {
		return nil
	}

	v := form.Get(key)

	return &v
}

// formList splits a textarea into trimmed, non-empty lines or comma
// separated entries.
func formList(form url.Values, key string) []string {
	if !form.Has(key) {
		return nil
	}

	fields := strings.FieldsFunc(form.Get(key), func(r rune) bool {
		return r == '\n' || r == ','
	})

	out := make([]string, 0, len(fields))

	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}

	return out
}

func parsePatientForm(form url.Values) (clinical.PatientUpdate, error) {
	age, err := formInt(form, "age")
	if err != nil {
		return clinical.PatientUpdate{}, err
	}

	u := clinical.PatientUpdate{
		FullName:      formString(form, "full_name"),
		Age:           age,
		PatientID:     formString(form, "patient_id"),
		ContactInfo:   formString(form, "contact_info"),
		Address:       formString(form, "address"),
		GeoCode:       formString(form, "geo_code"),
		Symptoms:      formList(form, "symptoms"),
		FamilyHistory: formList(form, "family_history"),
	}

	if raw := strings.TrimSpace(form.Get("gender")); raw != "" {
		g := clinical.ParseGender(raw)
		u.Gender = &g
	}

	consent := form.Get("consent") != ""
	u.ConsentGiven = &consent

	return u, nil
}

// floatFields reads the named fields into the matching destinations in
// key order, stopping at the first invalid value.
func floatFields(form url.Values, fields map[string]**float64) error {
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		v, err := formFloat(form, key)
		if err != nil {
			return err
		}

		*fields[key] = v
	}

	return nil
}

func parseVitalsForm(form url.Values) (clinical.VitalsUpdate, error) {
	var u clinical.VitalsUpdate

	err := floatFields(form, map[string]**float64{
		"systolic_bp":  &u.SystolicBP,
		"diastolic_bp": &u.DiastolicBP,
		"heart_rate":   &u.HeartRate,
		"temperature":  &u.Temperature,
		"spo2":         &u.SpO2,
	})

	return u, err
}

func parseBloodTestForm(form url.Values) (clinical.BloodTestUpdate, error) {
	var u clinical.BloodTestUpdate

	err := floatFields(form, map[string]**float64{
		"hemoglobin":        &u.Hemoglobin,
		"blood_sugar":       &u.BloodSugar,
		"hdl":               &u.HDL,
		"ldl":               &u.LDL,
		"total_cholesterol": &u.TotalCholesterol,
		"triglycerides":     &u.Triglycerides,
	})

	return u, err
}

func parseBMIForm(form url.Values) (clinical.BMIUpdate, error) {
	var u clinical.BMIUpdate

	err := floatFields(form, map[string]**float64{
		"height": &u.Height,
		"weight": &u.Weight,
	})

	return u, err
}

func parseECGForm(form url.Values) (clinical.ECGUpdate, error) {
	var u clinical.ECGUpdate

	err := floatFields(form, map[string]**float64{
		"ecg_heart_rate": &u.HeartRate,
		"qrs_duration":   &u.QRSDuration,
		"qt_interval":    &u.QTInterval,
	})

	return u, err
}

func parseUltrasoundForm(form url.Values) clinical.UltrasoundUpdate {
	return clinical.UltrasoundUpdate{
		ImageURL:     formString(form, "image_url"),
		Observations: formString(form, "observations"),
	}
}
