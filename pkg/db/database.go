package db

import (
	"github.com/dadas-io/dadas/pkg/store"
)

// Database is the SQL-backed record store.
type Database interface {
	store.Client
	Close() error
}
