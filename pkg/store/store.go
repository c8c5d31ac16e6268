package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dadas-io/dadas/pkg/model"
)

// Collection is the name of the single collection (or table) holding VPS records.
const Collection = "vps"

var ErrNotFound = errors.New("record not found")

// Client is the record store boundary. Implementations return *Error for every
// failure and never retry.
type Client interface {
	// List returns all records, newest first.
	List(ctx context.Context) ([]model.VPS, error)
	Insert(ctx context.Context, fields model.VPSFields) error
	// Update overwrites every mutable field of the record with the given id.
	Update(ctx context.Context, id string, fields model.VPSFields) error
	Delete(ctx context.Context, id string) error
}

// Error is the single error kind produced by the store boundary: transport,
// auth, constraint and not-found failures all surface as an *Error.
type Error struct {
	Op  string
	ID  string
	Err error
}

func (e *Error) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("store %s %s: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap returns err as an *Error for op, leaving it untouched if it already is one.
func Wrap(op, id string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Op: op, ID: id, Err: err}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
