// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/vinovest/sqlx"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver
)

// Supported drivers.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Open creates a new database connection for the given driver and runs all
// pending migrations.
func Open(driver, dsn string) (*sqlx.DB, error) {
	switch strings.ToLower(driver) {
	case "", DriverSQLite:
		return openSQLite(dsn)
	case DriverMySQL:
		return openMySQL(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

func openSQLite(dsn string) (*sqlx.DB, error) {
	if dsn == "" {
		dsn = "./data/app.db"
	}

	// Create directory for file-based databases
	if !strings.HasPrefix(dsn, ":memory:") && !strings.Contains(dsn, "mode=memory") {
		dir := filepath.Dir(dsn)
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, err
		}
	}

	// Pragmas passed in the DSN apply to every pooled connection.
	dsn = addDefaultParams(dsn,
		"_txlock=immediate",
		"_pragma=busy_timeout(5000)",
		"_pragma=foreign_keys(1)",
		"_time_format=sqlite",
	)

	conn, err := sqlx.Open(DriverSQLite, dsn)
	if err != nil {
		return nil, err
	}

	if strings.HasPrefix(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		// Every connection to :memory: is a separate database.
		conn.SetMaxOpenConns(1)
	} else {
		configurePool(conn)
	}

	ctx := context.Background()
	if err := configureSQLite(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := RunMigrations(conn.DB, DriverSQLite); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return conn, nil
}

func openMySQL(dsn string) (*sqlx.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("mysql DSN is required")
	}

	dsn = addDefaultParams(dsn,
		"parseTime=true",
		"loc=UTC",
		"charset=utf8mb4",
	)

	conn, err := sqlx.Open(DriverMySQL, dsn)
	if err != nil {
		return nil, err
	}
	configurePool(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := RunMigrations(conn.DB, DriverMySQL); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return conn, nil
}

func configurePool(conn *sqlx.DB) {
	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(time.Hour)
}

// addDefaultParams adds key=value DSN parameters that are not already
// present. A _pragma parameter is identified by its pragma name.
func addDefaultParams(dsn string, params ...string) string {
	for _, param := range params {
		key, _, _ := strings.Cut(param, "(")
		if !strings.HasPrefix(key, "_pragma=") {
			key, _, _ = strings.Cut(param, "=")
			key += "="
		}
		if strings.Contains(dsn, key) {
			continue
		}

		separator := "?"
		if strings.Contains(dsn, "?") {
			separator = "&"
		}
		dsn += separator + param
	}

	return dsn
}

// configureSQLite sets PRAGMAs for optimal performance.
func configureSQLite(ctx context.Context, db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
		"PRAGMA foreign_keys = ON",
		"PRAGMA cache_size = 2000",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return err
		}
	}

	return nil
}
