// Package testutil contains helpers for creating test databases and objects.
package testutil

import (
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/ErikKalkoken/trailbuddy/internal/app/storage"
)

// New creates and returns a database in memory for tests.
func New() (*sql.DB, *storage.Storage, Factory) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		panic(err)
	}
	// a second connection would see its own empty in-memory database
	db.SetMaxOpenConns(1)
	if err := storage.ApplyMigrations(db); err != nil {
		panic(err)
	}
	st := storage.New(db, db)
	factory := NewFactory(st)
	return db, st, factory
}

// NewDBOnDisk creates and returns a new database on disk for tests.
// The caller of this function is responsible for deleting the file when the tests have concluded.
func NewDBOnDisk(path string) (*sql.DB, *storage.Storage, Factory) {
	p := filepath.Join(path, "trailbuddy_test.sqlite")
	dbRW, dbRO, err := storage.InitDB("file:" + p)
	if err != nil {
		panic(err)
	}
	st := storage.New(dbRW, dbRO)
	factory := NewFactory(st)
	return dbRW, st, factory
}

// TruncateTables purges data from all tables. This is meant for tests.
func TruncateTables(db *sql.DB) {
	sql := `SELECT name FROM sqlite_master WHERE type = "table" AND name != "migrations"`
	rows, err := db.Query(sql)
	if err != nil {
		panic(err)
	}
	defer rows.Close()
	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			panic(err)
		}
		tables = append(tables, name)
	}
	for _, n := range tables {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s;", n)); err != nil {
			panic(err)
		}
	}
}
