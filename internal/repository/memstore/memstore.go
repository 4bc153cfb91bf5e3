// Package memstore is the purely in-memory storage backend. It reuses
// the filestore maps without a snapshot file, so Close and Ping are
// explicit no-ops.
package memstore

import (
	"context"

	"github.com/akozyrev-dev/ordersvc/internal/repository/filestore"
)

type DB struct {
	*filestore.DB
}

func New() (*DB, error) {
	return &DB{DB: filestore.NewInMemory()}, nil
}

func (db *DB) Close() error {
	return nil
}

func (db *DB) Ping(_ context.Context) error {
	return nil
}
