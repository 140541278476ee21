/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"net/http"

	"github.com/flamego/csrf"
	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"
)

// CSRFInjector exposes the CSRF token to templates.
func CSRFInjector() flamego.Handler {
	return func(x csrf.CSRF, data template.Data) {
		data["csrf_token"] = x.Token()
	}
}

// NoCacheHeaders keeps patient pages out of browser and proxy caches.
func NoCacheHeaders() flamego.Handler {
	return func(c flamego.Context) {
		header := c.ResponseWriter().Header()
		header.Set("X-Robots-Tag", "noindex, nofollow")

		method := c.Request().Method
		if method == http.MethodGet || method == http.MethodHead {
			header.Set("Cache-Control", "no-store, max-age=0")
			header.Set("Pragma", "no-cache")
			header.Set("Expires", "0")
		}

		c.Next()
	}
}

// OperatorInjector exposes the signed-in operator to templates.
func OperatorInjector() flamego.Handler {
	return func(s session.Session, data template.Data) {
		authenticated, _ := s.Get(sessionKeyAuthenticated).(bool)
		data["IsAuthenticated"] = authenticated

		if !authenticated {
			return
		}

		data["OperatorName"], _ = s.Get(sessionKeyOperatorName).(string)
		data["OperatorRole"], _ = s.Get(sessionKeyOperatorRole).(string)
	}
}
