// Package storage implements the persistence layer of the app.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ErikKalkoken/trailbuddy/internal/app"
)

// Storage provides access to the app's durable stores:
// a dictionary for small JSON documents and a blob store for binary assets.
type Storage struct {
	dbRW *sql.DB
	dbRO *sql.DB
}

// New returns a new storage object.
func New(dbRW, dbRO *sql.DB) *Storage {
	st := &Storage{dbRW: dbRW, dbRO: dbRO}
	return st
}

// InitDB initializes the database and returns it.
//
// It returns two db handles: one for read-write and one for read-only connections.
func InitDB(dsn string) (dbRW *sql.DB, dbRO *sql.DB, err error) {
	dsnRW := dsn + "?_journal=WAL&_synchronous=normal&_txlock=immediate&_fk=on"
	dbRW, err = sql.Open("sqlite3", dsnRW)
	if err != nil {
		return nil, nil, fmt.Errorf("init DB %s: %w", dsn, err)
	}
	dbRW.SetMaxOpenConns(1)
	dsnRO := dsn + "?_journal=WAL&_fk=on&mode=ro"
	dbRO, err = sql.Open("sqlite3", dsnRO)
	if err != nil {
		return nil, nil, fmt.Errorf("init DB %s: %w", dsn, err)
	}
	if err := ApplyMigrations(dbRW); err != nil {
		return nil, nil, fmt.Errorf("apply migrations %s: %w", dsn, err)
	}
	return dbRW, dbRO, nil
}

// convertGetError converts sql.ErrNoRows into the app's not found error.
func convertGetError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return app.ErrNotFound
	}
	return err
}
