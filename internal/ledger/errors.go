package ledger

import (
	"errors"
	"fmt"

	"rufay/internal/database"
)

// Error classes surfaced by the ledger
var (
	// ErrValidation is returned when input is rejected before any mutation.
	ErrValidation = errors.New("validation failed")

	// ErrDependencyExists is returned when a delete is blocked by a referencing entity.
	ErrDependencyExists = errors.New("dependency exists")

	// ErrNotFound is returned when an update or status change targets a missing entity.
	// Deletes of missing entities succeed instead.
	ErrNotFound = database.ErrNotFound

	// ErrPersistence is returned when the store fails. The transaction has been rolled back.
	ErrPersistence = errors.New("persistence failure")

	// ErrVersionConflict is returned when a restore was prepared against an older data version.
	ErrVersionConflict = database.ErrVersionConflict

	// ErrInvalidTransition is returned when a document status change is not allowed.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError names the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Is reports ErrValidation so callers can match the class.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// DependencyError describes the entity blocking a delete.
type DependencyError struct {
	// Entity and ID identify what was being deleted.
	Entity string
	ID     string

	// BlockedBy is the kind of the referencing entity (invoice, booking, ...).
	BlockedBy string

	// Reference is the human readable number of the blocker, e.g. BKG-12. Empty for payments.
	Reference string

	// Action is what was attempted; empty means delete.
	Action string
}

func (e *DependencyError) Error() string {
	action := e.Action
	if action == "" {
		action = "delete"
	}
	if e.Reference != "" {
		return fmt.Sprintf("cannot %s %s %s: referenced by %s %s", action, e.Entity, e.ID, e.BlockedBy, e.Reference)
	}
	return fmt.Sprintf("cannot %s %s %s: referenced by a %s", action, e.Entity, e.ID, e.BlockedBy)
}

func (e *DependencyError) Is(target error) bool {
	return target == ErrDependencyExists
}

// PersistenceError wraps a store failure with the operation that hit it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("ledger: %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

func transition(entity, id, from, to string) error {
	return fmt.Errorf("%s %s: %s -> %s: %w", entity, id, from, to, ErrInvalidTransition)
}

// classify passes domain errors through and wraps everything else as a persistence failure
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{ErrValidation, ErrDependencyExists, ErrNotFound, ErrInvalidTransition, ErrVersionConflict, database.ErrOwnerNotFound} {
		if errors.Is(err, known) {
			return err
		}
	}
	return &PersistenceError{Op: op, Err: err}
}
