// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package database

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/sqlite/*.sql migrations/mysql/*.sql
var embedMigrations embed.FS

func setup(driver string) (string, error) {
	goose.SetBaseFS(embedMigrations)

	switch driver {
	case DriverSQLite:
		return "migrations/sqlite", goose.SetDialect("sqlite3")
	case DriverMySQL:
		return "migrations/mysql", goose.SetDialect("mysql")
	default:
		return "", fmt.Errorf("no migrations for driver %s", driver)
	}
}

// RunMigrations runs all pending goose migrations.
func RunMigrations(db *sql.DB, driver string) error {
	dir, err := setup(driver)
	if err != nil {
		return err
	}

	return goose.Up(db, dir)
}

// MigrateDown rolls back the last migration.
func MigrateDown(db *sql.DB, driver string) error {
	dir, err := setup(driver)
	if err != nil {
		return err
	}

	return goose.Down(db, dir)
}

// MigrateReset rolls back all migrations.
func MigrateReset(db *sql.DB, driver string) error {
	dir, err := setup(driver)
	if err != nil {
		return err
	}

	return goose.Reset(db, dir)
}
