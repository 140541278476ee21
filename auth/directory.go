/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package auth

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// DefaultDemoPassword is shared by the built-in demo operators.
const DefaultDemoPassword = "healthcare123"

// Role is the operator's role in the clinic.
type Role string

const (
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
	RolePatient Role = "patient"
)

// Operator is a signed-in user of the assessment tool. Only ID is recorded
// on visits.
type Operator struct {
	ID            string
	Name          string
	Email         string
	Role          Role
	Department    string
	LicenseNumber string
}

type account struct {
	operator Operator
	hash     []byte
}

// Directory is an in-memory operator list with bcrypt password hashes.
type Directory struct {
	accounts map[string]account
	byID     map[string]string
}

// DemoOperators returns the operators seeded by NewDemoDirectory.
func DemoOperators() []Operator {
	return []Operator{
		{
			ID:            "1",
			Name:          "Dr. Sarah Johnson",
			Email:         "doctor@healthcare.com",
			Role:          RoleDoctor,
			Department:    "General Medicine",
			LicenseNumber: "MD-12345",
		},
		{
			ID:    "2",
			Name:  "John Administrator",
			Email: "admin@healthcare.com",
			Role:  RoleAdmin,
		},
		{
			ID:    "3",
			Name:  "Jane Patient",
			Email: "patient@healthcare.com",
			Role:  RolePatient,
		},
	}
}

// NewDirectory returns an empty directory.
func NewDirectory() *Directory {
	return &Directory{
		accounts: make(map[string]account),
		byID:     make(map[string]string),
	}
}

// NewDemoDirectory seeds the demo operators with password. An empty
// password falls back to DefaultDemoPassword.
func NewDemoDirectory(password string) (*Directory, error) {
	if password == "" {
		password = DefaultDemoPassword
	}

	d := NewDirectory()

	for _, op := range DemoOperators() {
		if err := d.Add(op, password); err != nil {
			return nil, err
		}
	}

	return d, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Add registers op with the given password, replacing any operator that
// shares its email.
func (d *Directory) Add(op Operator, password string) error {
	if password == "" {
		return ErrEmptyPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password for %s: %w", op.Email, err)
	}

	key := normalizeEmail(op.Email)
	d.accounts[key] = account{operator: op, hash: hash}
	d.byID[op.ID] = key

	return nil
}

// Authenticate returns the operator whose email and password match.
func (d *Directory) Authenticate(email, password string) (Operator, error) {
	acct, ok := d.accounts[normalizeEmail(email)]
	if !ok {
		// Unknown emails still pay for one bcrypt comparison.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return Operator{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(acct.hash, []byte(password)); err != nil {
		return Operator{}, ErrInvalidCredentials
	}

	return acct.operator, nil
}

// Lookup returns the operator with the given id.
func (d *Directory) Lookup(id string) (Operator, error) {
	key, ok := d.byID[id]
	if !ok {
		return Operator{}, ErrOperatorNotFound
	}

	return d.accounts[key].operator, nil
}

var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("carewheels"), bcrypt.MinCost)
