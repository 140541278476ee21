/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package visit

import "errors"

var (
	ErrOperatorRequired = errors.New("operator id is required")
	ErrStoreRequired    = errors.New("visit store is required")
)
