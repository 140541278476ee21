/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SQLSTATE for CREATE DATABASE racing another creator.
const duplicateDatabaseCode = "42P04"

// A clinic server has a handful of operators; keep the pool small.
const (
	maxPoolConns    = 10
	minPoolConns    = 1
	maxConnIdleTime = 5 * time.Minute
)

var pool *pgxpool.Pool

// Init connects the package pool to DATABASE_URL, creating the database
// first when it does not exist.
func Init(ctx context.Context) error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return ErrDatabaseURLEnvVarNotSet
	}

	if err := ensureDatabaseExists(ctx, databaseURL); err != nil {
		return fmt.Errorf("failed to ensure database exists: %w", err)
	}

	p, err := openPool(ctx, databaseURL, nil)
	if err != nil {
		return err
	}

	pool = p

	logger.Info("Database connection pool ready", "max_conns", maxPoolConns)

	return nil
}

// openPool creates and pings a pool. runtimeParams are applied to every
// connection.
func openPool(ctx context.Context, databaseURL string, runtimeParams map[string]string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = maxPoolConns
	config.MinConns = minPoolConns
	config.MaxConnIdleTime = maxConnIdleTime

	for key, value := range runtimeParams {
		if config.ConnConfig.RuntimeParams == nil {
			config.ConnConfig.RuntimeParams = map[string]string{}
		}

		config.ConnConfig.RuntimeParams[key] = value
	}

	p, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return p, nil
}

// GetPool returns the package connection pool.
func GetPool() *pgxpool.Pool {
	return pool
}

// Close releases the connection pool.
func Close() {
	if pool != nil {
		pool.Close()
		pool = nil
	}
}

// withMaintenanceConn runs fn on a single short-lived connection.
func withMaintenanceConn(ctx context.Context, config *pgx.ConnConfig, fn func(*pgx.Conn) error) error {
	conn, err := pgx.ConnectConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", config.Database, err)
	}

	defer func() {
		if err := conn.Close(ctx); err != nil {
			logger.Warn("Failed to close maintenance connection", "error", err)
		}
	}()

	return fn(conn)
}

func ensureDatabaseExists(ctx context.Context, databaseURL string) error {
	config, err := pgx.ParseConfig(databaseURL)
	if err != nil {
		return fmt.Errorf("failed to parse database URL: %w", err)
	}

	dbName := config.Database
	if dbName == "" {
		return ErrDatabaseNameNotSpecified
	}

	config.Database = "postgres"

	return withMaintenanceConn(ctx, config, func(conn *pgx.Conn) error {
		var exists bool

		err := conn.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", dbName).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check if database exists: %w", err)
		}

		if exists {
			return nil
		}

		logger.Info("Creating database", "database", dbName)

		if _, err := conn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{dbName}.Sanitize()); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == duplicateDatabaseCode {
				return nil
			}

			return fmt.Errorf("failed to create database: %w", err)
		}

		return nil
	})
}
