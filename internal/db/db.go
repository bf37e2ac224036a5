// Package db owns the sqlite connection, schema and migrations.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

var (
	db            *sql.DB
	dbPath        string
	dbInitialized bool
	mu            sync.Mutex
)

// SetPath selects the database file used by the next GetDB call.
// It closes any open connection.
func SetPath(path string) {
	mu.Lock()
	defer mu.Unlock()
	if db != nil {
		db.Close()
		db = nil
		dbInitialized = false
	}
	dbPath = path
}

// GetDB returns the database connection, initializing if needed
func GetDB() (*sql.DB, error) {
	mu.Lock()
	defer mu.Unlock()
	return getDB()
}

func getDB() (*sql.DB, error) {
	if db != nil {
		return db, nil
	}

	path, err := GetDBPath()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	db = conn

	// Run migrations on first connection (but avoid recursion)
	if !dbInitialized {
		dbInitialized = true
		if err := InitSchema(db); err != nil {
			return nil, fmt.Errorf("failed to initialize schema: %w", err)
		}
	}

	return db, nil
}

// Close closes the database connection
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if db != nil {
		err := db.Close()
		db = nil
		dbInitialized = false
		return err
	}
	return nil
}

// GetDBPath returns the path to the database file
func GetDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "tabbyspaces", "tabbyspaces.db"), nil
}
