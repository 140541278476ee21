/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/flamego/flamego"
	"github.com/flamego/session"

	"github.com/humaidq/carewheels/logging"
)

var requestLogger = logging.Logger(logging.SourceWebRequest)

// RequestLogger logs method, path, status and timing for each request.
func RequestLogger(c flamego.Context, s session.Session) {
	start := time.Now()

	c.Next()

	status := c.ResponseWriter().Status()
	if status == 0 {
		status = http.StatusOK
	}

	fields := []any{
		"event", "request",
		"status", status,
		"duration_ms", time.Since(start).Milliseconds(),
	}
	fields = append(fields, baseRequestFields(c, s)...)

	requestLogger.Info("request", fields...)
}

func logAccessDenied(c flamego.Context, s session.Session, reason string, redirect string) {
	fields := []any{
		"event", "access_denied",
		"reason", reason,
		"redirect", redirect,
	}
	fields = append(fields, baseRequestFields(c, s)...)

	requestLogger.Warn("access denied", fields...)
}

func baseRequestFields(c flamego.Context, s session.Session) []any {
	fields := []any{
		"method", c.Request().Method,
		"path", c.Request().URL.Path,
		"ip", clientIP(c),
	}

	if operatorID, ok := sessionOperatorID(s); ok {
		fields = append(fields, "operator_id", operatorID)
	}

	return fields
}

func clientIP(c flamego.Context) string {
	if forwarded := c.Request().Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	return c.RemoteAddr()
}
