// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"context"
	"testing"
	"time"

	"github.com/humaidq/carewheels/clinical"
	"github.com/humaidq/carewheels/visit"
)

func testContext() context.Context {
	return context.Background()
}

func floatPtr(value float64) *float64 {
	return &value
}

// testVisit builds a visit with UTC timestamps truncated to the precision
// PostgreSQL stores.
func testVisit(id, name string, created time.Time) visit.Visit {
	created = created.UTC().Truncate(time.Microsecond)

	return visit.Visit{
		ID:        id,
		PatientID: "P-" + id,
		DoctorID:  "1",
		Patient: clinical.Patient{
			ID:           "P-" + id,
			FullName:     name,
			Age:          40,
			Gender:       clinical.GenderFemale,
			PatientID:    "P-" + id,
			ConsentGiven: true,
			CreatedAt:    created,
		},
		Status:      visit.StatusInProgress,
		CurrentStep: int(visit.StageRegistration),
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func mustSaveVisit(t *testing.T, store *VisitStore, v visit.Visit) {
	t.Helper()

	if err := store.Upsert(testContext(), v); err != nil {
		t.Fatalf("failed to save visit: %v", err)
	}
}

func stringPtr(value string) *string {
	return &value
}
