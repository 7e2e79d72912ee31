// Package store holds the Postgres persistence layer shared by the REST
// handlers and the reconciliation poller.
package store

import (
	"github.com/pkg/errors"

	"github.com/innodatatics/city_dashboard/internal/db"
)

// ErrNotFound is returned by updates that target a missing row.
var ErrNotFound = errors.New("record not found")

// Store executes all queries through the shared connection pool.
type Store struct {
	DB *db.DB
}

func New(database *db.DB) *Store {
	return &Store{DB: database}
}
