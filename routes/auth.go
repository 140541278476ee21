/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"net/http"
	"strings"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"

	"github.com/humaidq/carewheels/auth"
	"github.com/humaidq/carewheels/visit"
)

const (
	sessionKeyAuthenticated = "authenticated"
	sessionKeyOperatorID    = "operator_id"
	sessionKeyOperatorName  = "operator_name"
	sessionKeyOperatorRole  = "operator_role"
)

func sessionOperatorID(s session.Session) (string, bool) {
	if authenticated, _ := s.Get(sessionKeyAuthenticated).(bool); !authenticated {
		return "", false
	}

	id, ok := s.Get(sessionKeyOperatorID).(string)

	return id, ok && id != ""
}

// LoginForm renders the sign-in page.
func LoginForm(t template.Template, data template.Data) {
	data["HeaderOnly"] = true
	data["DemoAccounts"] = auth.DemoOperators()
	t.HTML(http.StatusOK, "login")
}

// Login checks the submitted credentials against the operator directory.
func Login(c flamego.Context, s session.Session, dir *auth.Directory) {
	if err := c.Request().ParseForm(); err != nil {
		logger.Warn("Failed to parse login form", "error", err)
		SetErrorFlash(s, "Failed to parse form")
		c.Redirect("/login", http.StatusSeeOther)

		return
	}

	email := strings.TrimSpace(c.Request().Form.Get("email"))

	op, err := dir.Authenticate(email, c.Request().Form.Get("password"))
	if err != nil {
		logAccessDenied(c, s, "invalid_credentials", "/login")
		SetErrorFlash(s, "Invalid email or password")
		c.Redirect("/login", http.StatusSeeOther)

		return
	}

	s.Set(sessionKeyAuthenticated, true)
	s.Set(sessionKeyOperatorID, op.ID)
	s.Set(sessionKeyOperatorName, op.Name)
	s.Set(sessionKeyOperatorRole, string(op.Role))

	logger.Info("Operator signed in", "operator_id", op.ID, "role", op.Role)
	SetSuccessFlash(s, "Welcome, "+op.Name)
	c.Redirect("/visits", http.StatusSeeOther)
}

// Logout ends the operator's assessment session and clears the login.
func Logout(c flamego.Context, s session.Session, reg *visit.Registry) {
	reg.End(s.ID())

	s.Delete(sessionKeyAuthenticated)
	s.Delete(sessionKeyOperatorID)
	s.Delete(sessionKeyOperatorName)
	s.Delete(sessionKeyOperatorRole)

	c.Redirect("/login", http.StatusSeeOther)
}

// RequireAuth redirects anonymous requests to the sign-in page.
func RequireAuth(c flamego.Context, s session.Session) {
	if _, ok := sessionOperatorID(s); !ok {
		logAccessDenied(c, s, "unauthenticated", "/login")
		c.Redirect("/login", http.StatusSeeOther)

		return
	}

	c.Next()
}
