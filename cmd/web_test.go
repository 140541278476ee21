// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/flamego/flamego"
	"github.com/urfave/cli/v3"

	"github.com/humaidq/carewheels/clinical"
	"github.com/humaidq/carewheels/visit"
)

// runCommand parses args against fresh copies of flags and calls fn with
// the parsed command.
func runCommand(t *testing.T, flags []cli.Flag, args []string, fn func(*cli.Command) error) error {
	t.Helper()

	c := &cli.Command{
		Name:  "test",
		Flags: flags,
		Action: func(_ context.Context, cmd *cli.Command) error {
			return fn(cmd)
		},
	}

	return c.Run(context.Background(), append([]string{"test"}, args...))
}

func secretFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "csrf-secret"},
		&cli.BoolFlag{Name: "dev"},
	}
}

func TestConfigureEmptyNotFoundHandlerReturnsStatusOnly(t *testing.T) {
	t.Parallel()

	f := flamego.New()
	configureEmptyNotFoundHandler(f)

	req := httptest.NewRequest(http.MethodGet, "/does-not-exist", nil)
	rec := httptest.NewRecorder()
	f.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}

	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty 404 body, got %q", rec.Body.String())
	}
}

func TestCSRFSecret(t *testing.T) {
	t.Parallel()

	var secret string

	err := runCommand(t, secretFlags(), []string{"--csrf-secret", " s3cret "}, func(cmd *cli.Command) error {
		var err error
		secret, err = csrfSecret(cmd)

		return err
	})
	if err != nil || secret != "s3cret" {
		t.Fatalf("expected configured secret, got %q, %v", secret, err)
	}

	err = runCommand(t, secretFlags(), nil, func(cmd *cli.Command) error {
		_, err := csrfSecret(cmd)
		return err
	})
	if !errors.Is(err, errCSRFSecretRequired) {
		t.Fatalf("expected errCSRFSecretRequired, got %v", err)
	}

	err = runCommand(t, secretFlags(), []string{"--dev"}, func(cmd *cli.Command) error {
		var err error
		secret, err = csrfSecret(cmd)

		return err
	})
	if err != nil || secret == "" {
		t.Fatalf("expected generated dev secret, got %q, %v", secret, err)
	}
}

func backendFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "store", Value: storePostgres},
		&cli.StringFlag{Name: "database-url"},
		&cli.BoolFlag{Name: "dev"},
	}
}

func TestOpenBackendMemory(t *testing.T) {
	t.Parallel()

	var b backend

	err := runCommand(t, backendFlags(), []string{"--store", "Memory"}, func(cmd *cli.Command) error {
		var err error
		b, err = openBackend(context.Background(), cmd)

		return err
	})
	if err != nil {
		t.Fatalf("openBackend failed: %v", err)
	}
	defer b.close()

	if _, ok := b.store.(*visit.MemoryStore); !ok {
		t.Fatalf("expected memory store, got %T", b.store)
	}

	if b.thresholds != clinical.DefaultThresholds() {
		t.Fatal("expected default thresholds for memory store")
	}

	if !b.sessions.Cookie.Secure || !b.sessions.Cookie.HTTPOnly {
		t.Fatalf("expected secure session cookie, got %#v", b.sessions.Cookie)
	}
}

func TestOpenBackendErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want error
	}{
		{name: "unknown store", args: []string{"--store", "sqlite"}, want: errUnknownStore},
		{name: "missing database url", args: nil, want: errDatabaseURLRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := runCommand(t, backendFlags(), tt.args, func(cmd *cli.Command) error {
				_, err := openBackend(context.Background(), cmd)
				return err
			})
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestTemplateFuncs(t *testing.T) {
	t.Parallel()

	funcs := templateFuncs()[0]

	formatFloat, ok := funcs["formatFloat"].(func(*float64) string)
	if !ok {
		t.Fatal("formatFloat has unexpected type")
	}

	if got := formatFloat(clinical.Float(36.6)); got != "36.6" {
		t.Fatalf("unexpected formatFloat output: %q", got)
	}

	if got := formatFloat(nil); got != "" {
		t.Fatalf("expected empty output for nil, got %q", got)
	}

	formatTime, ok := funcs["formatTime"].(func(time.Time) string)
	if !ok {
		t.Fatal("formatTime has unexpected type")
	}

	if got := formatTime(time.Time{}); got != "" {
		t.Fatalf("expected empty output for zero time, got %q", got)
	}

	stageDone, ok := funcs["stageDone"].(func(visit.Stage, visit.Stage) bool)
	if !ok {
		t.Fatal("stageDone has unexpected type")
	}

	if !stageDone(visit.StageRegistration, visit.StageVitals) || stageDone(visit.StageVitals, visit.StageVitals) {
		t.Fatal("unexpected stageDone result")
	}
}
