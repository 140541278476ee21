/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package visit

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/humaidq/carewheels/clinical"
)

// Session is the per-operator assessment context. It owns the single
// editable visit and the wizard stage. It is safe for concurrent use so
// the auto-saver can run alongside request handlers.
type Session struct {
	mu sync.Mutex

	store      Store
	operatorID string
	thresholds clinical.Thresholds
	now        func() time.Time
	newID      func() string

	current *Visit
	stage   Stage

	done    chan struct{}
	endOnce sync.Once
}

// Option configures a Session.
type Option func(*Session)

// WithThresholds overrides the reference table used for derivations.
func WithThresholds(t clinical.Thresholds) Option {
	return func(s *Session) {
		s.thresholds = t
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithIDGenerator overrides visit id generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Session) {
		s.newID = newID
	}
}

// NewSession creates a session for the given operator backed by store.
func NewSession(store Store, operatorID string, opts ...Option) *Session {
	s := &Session{
		store:      store,
		operatorID: operatorID,
		thresholds: clinical.DefaultThresholds(),
		now:        time.Now,
		newID:      uuid.NewString,
		stage:      FirstStage,
		done:       make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// OperatorID returns the id of the signed-in operator.
func (s *Session) OperatorID() string {
	return s.operatorID
}

// Thresholds returns the reference table in use.
func (s *Session) Thresholds() clinical.Thresholds {
	return s.thresholds
}

// Done is closed when the session ends.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// End releases the session. Further saves still work but the auto-saver stops.
func (s *Session) End() {
	s.endOnce.Do(func() {
		close(s.done)
	})
}

// Current returns a copy of the visit being edited.
func (s *Session) Current() (Visit, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return Visit{}, false
	}

	return s.current.Clone(), true
}

// HasVisit reports whether a visit is being edited.
func (s *Session) HasVisit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.current != nil
}

// Stage returns the current wizard stage.
func (s *Session) Stage() Stage {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stage
}

// CreateNewVisit starts a fresh visit at the registration stage. It is a
// no-op without an operator.
func (s *Session) CreateNewVisit() (Visit, bool) {
	if s.operatorID == "" {
		return Visit{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.current = &Visit{
		ID:       s.newID(),
		DoctorID: s.operatorID,
		Patient: clinical.Patient{
			ID:            s.newID(),
			Gender:        clinical.GenderMale,
			Symptoms:      []string{},
			FamilyHistory: []string{},
			CreatedAt:     now,
		},
		Status:      StatusInProgress,
		CurrentStep: int(FirstStage),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.stage = FirstStage

	return s.current.Clone(), true
}

// enterLocked moves to stage and generates the summary when it is reached.
func (s *Session) enterLocked(stage Stage) {
	s.stage = stage

	if s.current == nil {
		return
	}

	s.current.CurrentStep = int(stage)

	if stage == StageSummary {
		s.generateSummaryLocked()
	}
}

// Advance moves to the next stage. It is a no-op at the last stage.
func (s *Session) Advance() Stage {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stage < LastStage {
		s.enterLocked(s.stage + 1)
	}

	return s.stage
}

// Retreat moves to the previous stage. It is a no-op at the first stage.
func (s *Session) Retreat() Stage {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stage > FirstStage {
		s.enterLocked(s.stage - 1)
	}

	return s.stage
}

// GoTo jumps to a stage, clamped to the wizard bounds.
func (s *Session) GoTo(stage Stage) Stage {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.enterLocked(Clamp(stage))

	return s.stage
}

// touchLocked stamps the visit and returns the stamp.
func (s *Session) touchLocked() time.Time {
	now := s.now()
	s.current.UpdatedAt = now

	return now
}

// UpdatePatient merges u into the patient record. A gender change
// re-derives the blood panel, since hemoglobin depends on it.
func (s *Session) UpdatePatient(u clinical.PatientUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return
	}

	previousGender := s.current.Patient.Gender

	u.Apply(&s.current.Patient)
	s.current.PatientID = s.current.Patient.PatientID
	s.touchLocked()

	if s.current.BloodTest != nil && s.current.Patient.Gender != previousGender {
		clinical.RecomputeBloodTest(s.current.BloodTest, s.current.Patient.Gender, s.thresholds)
	}
}

// UpdateVitals merges u into the vitals and re-derives their readings.
func (s *Session) UpdateVitals(u clinical.VitalsUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return
	}

	v := s.current.Vitals
	if v == nil {
		v = &clinical.Vitals{}
	}

	u.Apply(v)
	v.Timestamp = s.touchLocked()
	clinical.RecomputeVitals(v, s.thresholds)
	s.current.Vitals = v
}

// UpdateBloodTest merges u into the blood test and re-derives its readings.
func (s *Session) UpdateBloodTest(u clinical.BloodTestUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return
	}

	b := s.current.BloodTest
	if b == nil {
		b = &clinical.BloodTest{}
	}

	u.Apply(b)
	b.Timestamp = s.touchLocked()
	clinical.RecomputeBloodTest(b, s.current.Patient.Gender, s.thresholds)
	s.current.BloodTest = b
}

// UpdateBMI merges u into the BMI record and re-derives the index.
func (s *Session) UpdateBMI(u clinical.BMIUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return
	}

	b := s.current.BMI
	if b == nil {
		b = &clinical.BMIData{}
	}

	u.Apply(b)
	b.Timestamp = s.touchLocked()
	clinical.RecomputeBMI(b, s.thresholds)
	s.current.BMI = b
}

// UpdateECG merges u into the ECG record and re-derives the interpretation.
func (s *Session) UpdateECG(u clinical.ECGUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return
	}

	e := s.current.ECG
	if e == nil {
		e = &clinical.ECGData{}
	}

	u.Apply(e)
	e.Timestamp = s.touchLocked()
	clinical.RecomputeECG(e, s.thresholds)
	s.current.ECG = e
}

// UpdateUltrasound merges u into the ultrasound record.
func (s *Session) UpdateUltrasound(u clinical.UltrasoundUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return
	}

	us := s.current.Ultrasound
	if us == nil {
		us = &clinical.UltrasoundData{}
	}

	u.Apply(us)
	us.Timestamp = s.touchLocked()
	s.current.Ultrasound = us
}

func (s *Session) generateSummaryLocked() {
	if s.current.HealthSummary != nil {
		return
	}

	now := s.touchLocked()
	summary := clinical.Assess(s.current.Records(), s.thresholds, now)
	s.current.HealthSummary = &summary
	s.current.Status = StatusCompleted
}

// GenerateSummary computes the health summary unless one already exists.
func (s *Session) GenerateSummary() (clinical.HealthSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return clinical.HealthSummary{}, false
	}

	s.generateSummaryLocked()

	return *s.current.HealthSummary.Clone(), true
}

// ClearSummary drops the health summary so the next generation rebuilds it.
func (s *Session) ClearSummary() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil || s.current.HealthSummary == nil {
		return
	}

	s.current.HealthSummary = nil
	s.current.Status = StatusInProgress
	s.touchLocked()
}

// Save upserts the current visit into the store with a fresh update time.
// It is a no-op without a current visit.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil
	}

	if s.store == nil {
		return ErrStoreRequired
	}

	s.current.CurrentStep = int(s.stage)
	s.touchLocked()
	snapshot := s.current.Clone()

	if u, ok := s.store.(Upserter); ok {
		if err := u.Upsert(ctx, snapshot); err != nil {
			return fmt.Errorf("failed to save visit: %w", err)
		}

		return nil
	}

	visits, err := s.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load visits: %w", err)
	}

	if err := s.store.SaveAll(ctx, upsert(visits, snapshot)); err != nil {
		return fmt.Errorf("failed to save visits: %w", err)
	}

	return nil
}

// LoadVisit makes the stored visit with id current and restores its stage.
// An unknown id leaves the session untouched.
func (s *Session) LoadVisit(ctx context.Context, id string) (bool, error) {
	if s.store == nil {
		return false, ErrStoreRequired
	}

	visits, err := s.store.LoadAll(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load visits: %w", err)
	}

	idx := slices.IndexFunc(visits, func(v Visit) bool { return v.ID == id })
	if idx < 0 {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	loaded := visits[idx].Clone()
	s.current = &loaded
	s.stage = loaded.Stage()
	s.current.CurrentStep = int(s.stage)

	return true, nil
}

// Visits returns every stored visit, most recently updated first.
func (s *Session) Visits(ctx context.Context) ([]Visit, error) {
	if s.store == nil {
		return nil, ErrStoreRequired
	}

	visits, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load visits: %w", err)
	}

	slices.SortStableFunc(visits, func(a, b Visit) int {
		return cmp.Compare(b.UpdatedAt.UnixNano(), a.UpdatedAt.UnixNano())
	})

	return visits, nil
}
