/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import "errors"

var (
	errDatabaseURLRequired   = errors.New("database-url is required (set via --database-url or DATABASE_URL env var)")
	errMigrationNameRequired = errors.New("migration name is required")
	errCSRFSecretRequired    = errors.New("CSRF_SECRET is required outside development mode")
	errUnknownStore          = errors.New("store must be one of: postgres, memory")
	errThresholdArgsRequired = errors.New("usage: set-threshold <parameter> <json>")
	errInputRequired         = errors.New("an assessment input file is required")
)
