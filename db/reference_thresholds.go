/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/humaidq/carewheels/clinical"
)

// thresholdDefinitions splits the reference table into one JSON document
// per clinical parameter, keyed by the table's JSON field names.
func thresholdDefinitions(t clinical.Thresholds) (map[string]json.RawMessage, error) {
	encoded, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to encode thresholds: %w", err)
	}

	var defs map[string]json.RawMessage
	if err := json.Unmarshal(encoded, &defs); err != nil {
		return nil, fmt.Errorf("failed to split thresholds: %w", err)
	}

	return defs, nil
}

// ThresholdParameters returns the parameter names stored in the table.
func ThresholdParameters() []string {
	defs, err := thresholdDefinitions(clinical.DefaultThresholds())
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// SyncReferenceThresholds seeds the reference_thresholds table with the
// built-in defaults. Existing rows are kept so local overrides survive
// restarts.
func SyncReferenceThresholds(ctx context.Context) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	defs, err := thresholdDefinitions(clinical.DefaultThresholds())
	if err != nil {
		return err
	}

	logger.Infof("Syncing %d reference threshold definitions to database...", len(defs))

	query := `
		INSERT INTO reference_thresholds (parameter, definition)
		VALUES ($1, $2)
		ON CONFLICT (parameter) DO NOTHING
	`

	inserted := 0

	for _, name := range ThresholdParameters() {
		tag, err := pool.Exec(ctx, query, name, []byte(defs[name]))
		if err != nil {
			return fmt.Errorf("failed to sync reference threshold %s: %w", name, err)
		}

		inserted += int(tag.RowsAffected())
	}

	logger.Infof("Reference thresholds synced, %d new definitions", inserted)

	return nil
}

// GetReferenceThresholds loads the table, falling back to the defaults for
// any parameter without a stored row.
func GetReferenceThresholds(ctx context.Context) (clinical.Thresholds, error) {
	defaults := clinical.DefaultThresholds()

	if pool == nil {
		return defaults, ErrDatabaseConnectionNotInitialized
	}

	defs, err := thresholdDefinitions(defaults)
	if err != nil {
		return defaults, err
	}

	rows, err := pool.Query(ctx, `SELECT parameter, definition FROM reference_thresholds`)
	if err != nil {
		return defaults, fmt.Errorf("failed to query reference thresholds: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			name string
			def  []byte
		)

		if err := rows.Scan(&name, &def); err != nil {
			return defaults, fmt.Errorf("failed to scan reference threshold: %w", err)
		}

		if _, known := defs[name]; !known {
			logger.Warn("Ignoring unknown reference threshold", "parameter", name)
			continue
		}

		defs[name] = def
	}

	if err := rows.Err(); err != nil {
		return defaults, fmt.Errorf("error iterating reference thresholds: %w", err)
	}

	merged, err := json.Marshal(defs)
	if err != nil {
		return defaults, fmt.Errorf("failed to merge reference thresholds: %w", err)
	}

	var out clinical.Thresholds
	if err := json.Unmarshal(merged, &out); err != nil {
		return defaults, fmt.Errorf("failed to decode reference thresholds: %w", err)
	}

	return out, nil
}

// SetReferenceThreshold overrides the stored definition of one parameter.
// The definition must decode into that parameter's section of the table.
func SetReferenceThreshold(ctx context.Context, parameter string, definition json.RawMessage) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	if !slices.Contains(ThresholdParameters(), parameter) {
		return fmt.Errorf("%w: %s", ErrUnknownThresholdParameter, parameter)
	}

	probe, err := json.Marshal(map[string]json.RawMessage{parameter: definition})
	if err != nil {
		return fmt.Errorf("failed to encode threshold definition: %w", err)
	}

	var check clinical.Thresholds
	if err := json.Unmarshal(probe, &check); err != nil {
		return fmt.Errorf("invalid threshold definition for %s: %w", parameter, err)
	}

	query := `
		INSERT INTO reference_thresholds (parameter, definition)
		VALUES ($1, $2)
		ON CONFLICT (parameter)
		DO UPDATE SET
			definition = EXCLUDED.definition,
			updated_at = now()
	`

	if _, err := pool.Exec(ctx, query, parameter, []byte(definition)); err != nil {
		return fmt.Errorf("failed to set reference threshold %s: %w", parameter, err)
	}

	return nil
}
