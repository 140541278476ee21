/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package export

import "errors"

var (
	ErrUnknownFormat = errors.New("unknown report format")
	ErrNoHeartRate   = errors.New("no ECG heart rate recorded")
)
