/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/flamego/session"
	"github.com/jackc/pgx/v5"
)

// DefaultSessionLifetime is how long an idle operator session is kept.
const DefaultSessionLifetime = 12 * time.Hour

// SessionStoreConfig contains options for the PostgreSQL session store.
type SessionStoreConfig struct {
	// Lifetime is the idle duration before a session is recycled.
	Lifetime time.Duration
	// Encoder defaults to session.GobEncoder.
	Encoder session.Encoder
	// Decoder defaults to session.GobDecoder.
	Decoder session.Decoder
}

// SessionStore keeps operator login sessions in the operator_sessions
// table so logins survive a restart of the clinic server.
type SessionStore struct {
	lifetime time.Duration
	encoder  session.Encoder
	decoder  session.Decoder
}

// SessionStoreIniter returns the flamego Initer for SessionStore.
func SessionStoreIniter() session.Initer {
	return func(_ context.Context, args ...any) (session.Store, error) {
		var config SessionStoreConfig

		if len(args) > 0 {
			var ok bool

			config, ok = args[0].(SessionStoreConfig)
			if !ok {
				return nil, ErrInvalidSessionConfig
			}
		}

		if config.Lifetime <= 0 {
			config.Lifetime = DefaultSessionLifetime
		}

		if config.Encoder == nil {
			config.Encoder = session.GobEncoder
		}

		if config.Decoder == nil {
			config.Decoder = session.GobDecoder
		}

		return &SessionStore{
			lifetime: config.Lifetime,
			encoder:  config.Encoder,
			decoder:  config.Decoder,
		}, nil
	}
}

// The session middleware writes the cookie itself.
func discardIDWriter(http.ResponseWriter, *http.Request, string) {}

// Exist reports whether an unexpired session with sid is stored.
func (s *SessionStore) Exist(ctx context.Context, sid string) bool {
	if pool == nil {
		return false
	}

	var exists bool

	err := pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM operator_sessions WHERE id = $1 AND expires_at > now())`,
		sid,
	).Scan(&exists)

	return err == nil && exists
}

// Read loads the session with sid, or starts an empty one under that ID.
func (s *SessionStore) Read(ctx context.Context, sid string) (session.Session, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	var data []byte

	err := pool.QueryRow(ctx,
		`SELECT data FROM operator_sessions WHERE id = $1 AND expires_at > now()`,
		sid,
	).Scan(&data)

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return session.NewBaseSession(sid, s.encoder, discardIDWriter), nil
	case err != nil:
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	values, err := s.decoder(data)
	if err != nil {
		logger.Warn("Discarding undecodable session", "error", err)
		return session.NewBaseSession(sid, s.encoder, discardIDWriter), nil
	}

	return session.NewBaseSessionWithData(sid, s.encoder, discardIDWriter, values), nil
}

// Destroy removes the session with sid.
func (s *SessionStore) Destroy(ctx context.Context, sid string) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	if _, err := pool.Exec(ctx, `DELETE FROM operator_sessions WHERE id = $1`, sid); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}

	return nil
}

// Touch extends the expiry of the session with sid.
func (s *SessionStore) Touch(ctx context.Context, sid string) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	_, err := pool.Exec(ctx,
		`UPDATE operator_sessions SET expires_at = $1 WHERE id = $2`,
		time.Now().Add(s.lifetime), sid,
	)
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}

	return nil
}

// Save writes the session data and pushes out its expiry.
func (s *SessionStore) Save(ctx context.Context, sess session.Session) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	data, err := sess.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO operator_sessions (id, data, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			data = EXCLUDED.data,
			expires_at = EXCLUDED.expires_at
	`, sess.ID(), data, time.Now().Add(s.lifetime))
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// GC deletes expired sessions.
func (s *SessionStore) GC(ctx context.Context) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	tag, err := pool.Exec(ctx, `DELETE FROM operator_sessions WHERE expires_at < now()`)
	if err != nil {
		return fmt.Errorf("failed to collect sessions: %w", err)
	}

	if n := tag.RowsAffected(); n > 0 {
		logger.Debug("Collected expired sessions", "count", n)
	}

	return nil
}
