package appointment

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrAppointmentNotFound = fmt.Errorf("appointment %w", ErrNotFound)
	ErrShiftNotFound       = fmt.Errorf("shift %w", ErrNotFound)

	// ErrStaleStatus is returned by conditional status writes whose
	// expected status no longer matches the stored row.
	ErrStaleStatus = errors.New("appointment status changed concurrently")

	// ErrResourceBusy means another request is booking the same patient
	// or machine, either holding its lock or winning the serializable
	// race. Safe to retry.
	ErrResourceBusy = errors.New("resource is being booked by another request")
)

// ValidationError: campo obrigatório ausente ou malformado.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// ConflictError carries which resources are double-booked.
type ConflictError struct {
	Patient bool
	Machine bool
}

func (e *ConflictError) Resources() []string {
	var out []string
	if e.Patient {
		out = append(out, "patient")
	}
	if e.Machine {
		out = append(out, "machine")
	}
	return out
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("time conflict: %s already booked", strings.Join(e.Resources(), " and "))
}

type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	if e.From == e.To {
		return fmt.Sprintf("appointment is %s and can no longer be rescheduled", e.From)
	}
	if e.From.IsTerminal() {
		return fmt.Sprintf("appointment is %s and can no longer change to %s", e.From, e.To)
	}
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

// StorageError wraps persistence failures (timeouts, driver errors,
// serialization failures). Only these are worth retrying.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// AsStorageError deixa passar os erros tipados do domínio e embrulha o
// resto em StorageError.
func AsStorageError(op string, err error) error {
	if err == nil {
		return nil
	}

	var (
		ve *ValidationError
		ce *ConflictError
		te *InvalidTransitionError
		se *StorageError
	)
	switch {
	case errors.As(err, &ve), errors.As(err, &ce), errors.As(err, &te), errors.As(err, &se),
		errors.Is(err, ErrNotFound), errors.Is(err, ErrStaleStatus):
		return err
	}
	return &StorageError{Op: op, Err: err}
}
