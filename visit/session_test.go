// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package visit

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/humaidq/carewheels/clinical"
)

var errTestStore = errors.New("store unavailable")

type fakeClock struct {
	now atomic.Int64
}

func newFakeClock() *fakeClock {
	c := &fakeClock{}
	c.now.Store(time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC).UnixNano())

	return c
}

func (c *fakeClock) Now() time.Time {
	return time.Unix(0, c.now.Add(int64(time.Second))).UTC()
}

func sequentialIDs() func() string {
	var n atomic.Int64
	return func() string {
		return fmt.Sprintf("id-%d", n.Add(1))
	}
}

func newTestSession(store Store) *Session {
	return NewSession(store, "1", WithClock(newFakeClock().Now), WithIDGenerator(sequentialIDs()))
}

// listOnlyStore hides MemoryStore's Upsert so the LoadAll/SaveAll path runs.
type listOnlyStore struct {
	inner *MemoryStore
	saves int
}

func (l *listOnlyStore) LoadAll(ctx context.Context) ([]Visit, error) {
	return l.inner.LoadAll(ctx)
}

func (l *listOnlyStore) SaveAll(ctx context.Context, visits []Visit) error {
	l.saves++
	return l.inner.SaveAll(ctx, visits)
}

type failingStore struct{}

func (failingStore) LoadAll(context.Context) ([]Visit, error) { return nil, errTestStore }
func (failingStore) SaveAll(context.Context, []Visit) error  { return errTestStore }

func TestCreateNewVisitDefaults(t *testing.T) {
	t.Parallel()

	s := newTestSession(NewMemoryStore())

	v, ok := s.CreateNewVisit()
	if !ok {
		t.Fatal("expected visit to be created")
	}

	if v.DoctorID != "1" || v.Status != StatusInProgress || v.CurrentStep != 1 {
		t.Fatalf("unexpected visit defaults: %+v", v)
	}

	if v.Patient.Gender != clinical.GenderMale {
		t.Fatalf("expected default gender male, got %q", v.Patient.Gender)
	}

	if s.Stage() != StageRegistration {
		t.Fatalf("expected registration stage, got %d", s.Stage())
	}
}

func TestCreateNewVisitRequiresOperator(t *testing.T) {
	t.Parallel()

	s := NewSession(NewMemoryStore(), "")
	if _, ok := s.CreateNewVisit(); ok {
		t.Fatal("expected no visit without an operator")
	}

	if s.HasVisit() {
		t.Fatal("expected session to stay empty")
	}
}

func TestStageBounds(t *testing.T) {
	t.Parallel()

	s := newTestSession(NewMemoryStore())
	s.CreateNewVisit()

	if got := s.Retreat(); got != StageRegistration {
		t.Fatalf("expected retreat at stage 1 to stay, got %d", got)
	}

	for range 20 {
		s.Advance()
	}

	if got := s.Stage(); got != StageSummary {
		t.Fatalf("expected to stop at summary, got %d", got)
	}

	if got := s.Advance(); got != StageSummary {
		t.Fatalf("expected advance at stage 7 to stay, got %d", got)
	}

	for range 20 {
		if got := s.Retreat(); !got.Valid() {
			t.Fatalf("stage %d left bounds", got)
		}
	}

	if got := s.Stage(); got != StageRegistration {
		t.Fatalf("expected to stop at registration, got %d", got)
	}
}

func TestAdvanceIntoSummaryGeneratesOnce(t *testing.T) {
	t.Parallel()

	s := newTestSession(NewMemoryStore())
	s.CreateNewVisit()
	s.UpdateVitals(clinical.VitalsUpdate{SpO2: clinical.Float(88)})
	s.GoTo(StageUltrasound)
	s.Advance()

	v, _ := s.Current()
	if v.HealthSummary == nil {
		t.Fatal("expected summary on entering the summary stage")
	}

	if v.HealthSummary.OverallRiskScore != 20 || v.HealthSummary.RiskLevel != clinical.RiskLow {
		t.Fatalf("unexpected summary: %+v", v.HealthSummary)
	}

	if v.Status != StatusCompleted {
		t.Fatalf("expected completed status, got %q", v.Status)
	}

	// Later edits do not rewrite the frozen summary.
	s.Retreat()
	s.UpdateVitals(clinical.VitalsUpdate{SystolicBP: clinical.Float(190), DiastolicBP: clinical.Float(120)})
	s.Advance()

	v, _ = s.Current()
	if v.HealthSummary.OverallRiskScore != 20 {
		t.Fatalf("expected frozen summary, got score %d", v.HealthSummary.OverallRiskScore)
	}

	s.ClearSummary()

	summary, ok := s.GenerateSummary()
	if !ok || summary.OverallRiskScore != 35 {
		t.Fatalf("expected regenerated score 35, got %+v", summary)
	}
}

func TestUpdatesWithoutVisitAreNoops(t *testing.T) {
	t.Parallel()

	s := newTestSession(NewMemoryStore())

	s.UpdatePatient(clinical.PatientUpdate{})
	s.UpdateVitals(clinical.VitalsUpdate{HeartRate: clinical.Float(70)})
	s.UpdateBloodTest(clinical.BloodTestUpdate{})
	s.UpdateBMI(clinical.BMIUpdate{})
	s.UpdateECG(clinical.ECGUpdate{})
	s.UpdateUltrasound(clinical.UltrasoundUpdate{})
	s.ClearSummary()

	if s.HasVisit() {
		t.Fatal("expected no visit")
	}

	if _, ok := s.GenerateSummary(); ok {
		t.Fatal("expected no summary without a visit")
	}

	if err := s.Save(context.Background()); err != nil {
		t.Fatalf("expected save without visit to be a no-op, got %v", err)
	}
}

func TestUpdatesDeriveReadings(t *testing.T) {
	t.Parallel()

	s := newTestSession(NewMemoryStore())
	s.CreateNewVisit()

	s.UpdateVitals(clinical.VitalsUpdate{SystolicBP: clinical.Float(185), DiastolicBP: clinical.Float(95)})
	s.UpdateBMI(clinical.BMIUpdate{Height: clinical.Float(170), Weight: clinical.Float(70)})
	s.UpdateECG(clinical.ECGUpdate{HeartRate: clinical.Float(45), QRSDuration: clinical.Float(90), QTInterval: clinical.Float(400)})
	s.UpdateUltrasound(clinical.UltrasoundUpdate{Observations: ptr("Normal liver echotexture")})

	v, _ := s.Current()

	if v.Vitals.BloodPressure == nil || v.Vitals.BloodPressure.Status != clinical.StatusCritical {
		t.Fatalf("expected critical blood pressure, got %+v", v.Vitals.BloodPressure)
	}

	if v.Vitals.Timestamp.IsZero() {
		t.Fatal("expected vitals timestamp")
	}

	if *v.BMI.BMI != 24.2 || v.BMI.Category != clinical.BMINormal {
		t.Fatalf("unexpected BMI: %+v", v.BMI)
	}

	if v.ECG.RiskLevel != clinical.ECGRiskCritical {
		t.Fatalf("expected critical ECG, got %s", v.ECG.RiskLevel)
	}

	if v.Ultrasound.Observations != "Normal liver echotexture" {
		t.Fatalf("unexpected ultrasound: %+v", v.Ultrasound)
	}
}

func TestGenderChangeRederivesHemoglobin(t *testing.T) {
	t.Parallel()

	s := newTestSession(NewMemoryStore())
	s.CreateNewVisit()
	s.UpdateBloodTest(clinical.BloodTestUpdate{Hemoglobin: clinical.Float(13)})

	v, _ := s.Current()
	if v.BloodTest.HemoglobinStatus.Status != clinical.StatusCritical {
		t.Fatalf("expected critical for default male, got %+v", v.BloodTest.HemoglobinStatus)
	}

	female := clinical.GenderFemale
	s.UpdatePatient(clinical.PatientUpdate{Gender: &female})

	v, _ = s.Current()
	if v.BloodTest.HemoglobinStatus.Status != clinical.StatusNormal {
		t.Fatalf("expected normal after switching to female, got %+v", v.BloodTest.HemoglobinStatus)
	}
}

func TestCurrentReturnsCopy(t *testing.T) {
	t.Parallel()

	s := newTestSession(NewMemoryStore())
	s.CreateNewVisit()
	s.UpdateVitals(clinical.VitalsUpdate{HeartRate: clinical.Float(70)})

	v, _ := s.Current()
	*v.Vitals.HeartRate = 200

	again, _ := s.Current()
	if *again.Vitals.HeartRate != 70 {
		t.Fatalf("expected session state untouched, got %v", *again.Vitals.HeartRate)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	t.Parallel()

	for name, store := range map[string]Store{
		"upserter":  NewMemoryStore(),
		"list only": &listOnlyStore{inner: NewMemoryStore()},
	} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newTestSession(store)
			s.CreateNewVisit()

			fullName := "Fatima Noor"
			age := 52
			s.UpdatePatient(clinical.PatientUpdate{FullName: &fullName, Age: &age})
			s.UpdateVitals(clinical.VitalsUpdate{SystolicBP: clinical.Float(150), DiastolicBP: clinical.Float(92)})
			s.Advance()
			s.Advance()

			if err := s.Save(ctx); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			saved, _ := s.Current()

			other := newTestSession(store)
			found, err := other.LoadVisit(ctx, saved.ID)
			if err != nil || !found {
				t.Fatalf("LoadVisit = %v, %v", found, err)
			}

			loaded, _ := other.Current()
			if !reflect.DeepEqual(saved, loaded) {
				t.Fatalf("loaded visit differs:\nsaved  %+v\nloaded %+v", saved, loaded)
			}

			if other.Stage() != StageBloodTest {
				t.Fatalf("expected restored stage 3, got %d", other.Stage())
			}
		})
	}
}

func TestSaveUpsertsAndRefreshesUpdatedAt(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := &listOnlyStore{inner: NewMemoryStore()}
	s := newTestSession(store)
	s.CreateNewVisit()

	if err := s.Save(ctx); err != nil {
		t.Fatalf("first save failed: %v", err)
	}

	first, _ := s.Current()

	if err := s.Save(ctx); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	second, _ := s.Current()

	visits, _ := store.LoadAll(ctx)
	if len(visits) != 1 {
		t.Fatalf("expected a single upserted visit, got %d", len(visits))
	}

	if !second.UpdatedAt.After(first.UpdatedAt) {
		t.Fatalf("expected updatedAt to advance, got %v then %v", first.UpdatedAt, second.UpdatedAt)
	}

	if !visits[0].UpdatedAt.Equal(second.UpdatedAt) {
		t.Fatalf("expected stored updatedAt %v, got %v", second.UpdatedAt, visits[0].UpdatedAt)
	}

	if store.saves != 2 {
		t.Fatalf("expected two SaveAll calls, got %d", store.saves)
	}
}

func TestLoadVisitUnknownIDIsNoop(t *testing.T) {
	t.Parallel()

	s := newTestSession(NewMemoryStore())
	created, _ := s.CreateNewVisit()
	s.Advance()

	found, err := s.LoadVisit(context.Background(), "missing")
	if err != nil || found {
		t.Fatalf("expected silent no-op, got %v, %v", found, err)
	}

	v, _ := s.Current()
	if v.ID != created.ID || s.Stage() != StageVitals {
		t.Fatalf("expected session untouched, got visit %s stage %d", v.ID, s.Stage())
	}
}

func TestLoadVisitClampsStage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.SaveAll(ctx, []Visit{{ID: "v1", CurrentStep: 12}}); err != nil {
		t.Fatalf("SaveAll failed: %v", err)
	}

	s := newTestSession(store)
	if _, err := s.LoadVisit(ctx, "v1"); err != nil {
		t.Fatalf("LoadVisit failed: %v", err)
	}

	if s.Stage() != StageSummary {
		t.Fatalf("expected clamped stage 7, got %d", s.Stage())
	}
}

func TestVisitsSortedByUpdatedAt(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	if err := store.SaveAll(ctx, []Visit{
		{ID: "old", UpdatedAt: base},
		{ID: "new", UpdatedAt: base.Add(time.Hour)},
	}); err != nil {
		t.Fatalf("SaveAll failed: %v", err)
	}

	visits, err := newTestSession(store).Visits(ctx)
	if err != nil {
		t.Fatalf("Visits failed: %v", err)
	}

	if len(visits) != 2 || visits[0].ID != "new" {
		t.Fatalf("unexpected order: %+v", visits)
	}
}

func TestStoreErrorsAreWrapped(t *testing.T) {
	t.Parallel()

	s := newTestSession(failingStore{})
	s.CreateNewVisit()

	if err := s.Save(context.Background()); !errors.Is(err, errTestStore) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}

	if _, err := s.LoadVisit(context.Background(), "x"); !errors.Is(err, errTestStore) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func ptr[T any](v T) *T {
	return &v
}
