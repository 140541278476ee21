/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import "errors"

var (
	ErrDatabaseURLEnvVarNotSet          = errors.New("DATABASE_URL environment variable is not set")
	ErrDatabaseConnectionNotInitialized = errors.New("database connection not initialized")
	ErrDatabaseNameNotSpecified         = errors.New("database name not specified in DATABASE_URL")
	ErrUnknownThresholdParameter        = errors.New("unknown threshold parameter")
	ErrInvalidSessionConfig             = errors.New("invalid session store config")
)
