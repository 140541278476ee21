/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/humaidq/carewheels/cmd"
	"github.com/humaidq/carewheels/logging"
)

func main() {
	logger := logging.Logger(logging.SourceApp)

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("Failed to load .env file", "error", err)
	}

	app := &cli.Command{
		Name:  "carewheels",
		Usage: "Healthcare on Wheels - mobile clinic diagnostic assessments",
		Commands: []*cli.Command{
			cmd.CmdStart,
			cmd.CmdMigrate,
			cmd.CmdAssess,
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatal("Command failed", "error", err)
	}
}
