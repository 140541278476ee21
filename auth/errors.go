/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrOperatorNotFound   = errors.New("operator not found")
	ErrEmptyPassword      = errors.New("password must not be empty")
)
