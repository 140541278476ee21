/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package export

import "github.com/humaidq/carewheels/logging"

var logger = logging.Logger(logging.SourceExport)
