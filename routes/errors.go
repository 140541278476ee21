/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import "errors"

var (
	errSessionUserMissing = errors.New("session user missing")
	errNegativeValue      = errors.New("value must not be negative")
	errNonFiniteValue     = errors.New("value must be a finite number")
	errVisitNotFound      = errors.New("visit not found")
)
