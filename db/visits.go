/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/humaidq/carewheels/visit"
)

// VisitStore persists visits as JSON documents in PostgreSQL. The
// denormalized columns back the visit list without decoding documents.
type VisitStore struct{}

// NewVisitStore returns a store using the package connection pool.
func NewVisitStore() *VisitStore {
	return &VisitStore{}
}

var _ visit.Store = (*VisitStore)(nil)
var _ visit.Upserter = (*VisitStore)(nil)

const upsertVisitQuery = `
	INSERT INTO visits (id, patient_name, doctor_id, status, current_step, risk_level, document, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (id)
	DO UPDATE SET
		patient_name = EXCLUDED.patient_name,
		doctor_id = EXCLUDED.doctor_id,
		status = EXCLUDED.status,
		current_step = EXCLUDED.current_step,
		risk_level = EXCLUDED.risk_level,
		document = EXCLUDED.document,
		updated_at = EXCLUDED.updated_at
`

func visitArgs(v visit.Visit) ([]any, error) {
	doc, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode visit %s: %w", v.ID, err)
	}

	var riskLevel *string
	if v.HealthSummary != nil {
		level := string(v.HealthSummary.RiskLevel)
		riskLevel = &level
	}

	return []any{
		v.ID, v.Patient.FullName, v.DoctorID, string(v.Status), int(v.Stage()),
		riskLevel, doc, v.CreatedAt, v.UpdatedAt,
	}, nil
}

// LoadAll returns every stored visit in creation order.
func (s *VisitStore) LoadAll(ctx context.Context) ([]visit.Visit, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	rows, err := pool.Query(ctx, `SELECT id, document FROM visits ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	defer rows.Close()

	var visits []visit.Visit

	for rows.Next() {
		var (
			id  string
			doc []byte
		)

		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("failed to scan visit: %w", err)
		}

		var v visit.Visit
		if err := json.Unmarshal(doc, &v); err != nil {
			logger.Warn("Skipping undecodable visit document", "visit_id", id, "error", err)
			continue
		}

		visits = append(visits, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating visits: %w", err)
	}

	return visits, nil
}

// SaveAll replaces the stored list with visits in a single transaction.
func (s *VisitStore) SaveAll(ctx context.Context, visits []visit.Visit) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			logger.Warn("Failed to rollback visit transaction", "error", err)
		}
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM visits`); err != nil {
		return fmt.Errorf("failed to clear visits: %w", err)
	}

	batch := &pgx.Batch{}

	for _, v := range visits {
		args, err := visitArgs(v)
		if err != nil {
			return err
		}

		batch.Queue(upsertVisitQuery, args...)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to write visits: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit visits: %w", err)
	}

	logger.Debug("Saved visit list", "count", len(visits))

	return nil
}

// Upsert writes a single visit.
func (s *VisitStore) Upsert(ctx context.Context, v visit.Visit) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	args, err := visitArgs(v)
	if err != nil {
		return err
	}

	if _, err := pool.Exec(ctx, upsertVisitQuery, args...); err != nil {
		return fmt.Errorf("failed to upsert visit %s: %w", v.ID, err)
	}

	return nil
}
