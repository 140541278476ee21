/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package visit

import "github.com/humaidq/carewheels/logging"

var logger = logging.Logger(logging.SourceVisit)
