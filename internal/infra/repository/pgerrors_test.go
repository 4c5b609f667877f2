package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

func TestTranslateExclusionViolation(t *testing.T) {
	tests := []struct {
		constraint  string
		wantPatient bool
		wantMachine bool
	}{
		{models.ConstraintMachineOverlap, false, true},
		{models.ConstraintPatientOverlap, true, false},
		{"", true, true},
	}

	for _, tt := range tests {
		pgErr := &pgconn.PgError{Code: pgExclusionViolation, ConstraintName: tt.constraint}
		err := translate("insert appointment", fmt.Errorf("create: %w", pgErr))

		var ce *domain.ConflictError
		if !errors.As(err, &ce) {
			t.Fatalf("%q: expected ConflictError, got %v", tt.constraint, err)
		}
		if ce.Patient != tt.wantPatient || ce.Machine != tt.wantMachine {
			t.Errorf("%q: got %+v", tt.constraint, ce)
		}
		if !IsExclusionConflict(pgErr) {
			t.Errorf("%q: IsExclusionConflict = false", tt.constraint)
		}
	}
}

func TestTranslateStorageErrors(t *testing.T) {
	serialization := &pgconn.PgError{Code: pgSerializationFailure}
	err := translate("appointment transaction", serialization)

	var se *domain.StorageError
	if !errors.As(err, &se) {
		t.Fatalf("expected StorageError, got %v", err)
	}
	if !IsSerializationFailure(err) {
		t.Error("serialization failure lost through wrapping")
	}
	if !errors.Is(err, domain.ErrResourceBusy) {
		t.Errorf("serialization failure must read as resource busy, got %v", err)
	}

	deadlock := translate("appointment transaction", fmt.Errorf("commit: %w", &pgconn.PgError{Code: pgDeadlockDetected}))
	if !errors.Is(deadlock, domain.ErrResourceBusy) {
		t.Errorf("deadlock must read as resource busy, got %v", deadlock)
	}

	plain := translate("find appointment", errors.New("connection reset"))
	if errors.Is(plain, domain.ErrResourceBusy) {
		t.Error("plain driver error must not read as resource busy")
	}

	err = translate("find appointment", context.DeadlineExceeded)
	if !errors.As(err, &se) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("timeout must be a StorageError wrapping the cause, got %v", err)
	}

	if translate("noop", nil) != nil {
		t.Error("nil must stay nil")
	}
	if got := translate("op", domain.ErrAppointmentNotFound); got != domain.ErrAppointmentNotFound {
		t.Errorf("not found rewrapped: %v", got)
	}
}

func TestShiftToDomain(t *testing.T) {
	row := models.Shift{Name: "Manhã", StartTime: "07:00", EndTime: "13:00", Weekdays: "1, 3,5", Active: true}
	shift, err := shiftToDomain(row)
	if err != nil {
		t.Fatal(err)
	}
	if shift.Window.Start != 420 || shift.Window.End != 780 {
		t.Fatalf("window = %+v", shift.Window)
	}
	want := []time.Weekday{time.Monday, time.Wednesday, time.Friday}
	if len(shift.Weekdays) != len(want) {
		t.Fatalf("weekdays = %v", shift.Weekdays)
	}
	for i := range want {
		if shift.Weekdays[i] != want[i] {
			t.Fatalf("weekdays = %v", shift.Weekdays)
		}
	}

	row.Weekdays = "1,9"
	if _, err := shiftToDomain(row); err == nil {
		t.Fatal("weekday 9 must be rejected")
	}
	row.Weekdays = ""
	row.EndTime = "1pm"
	if _, err := shiftToDomain(row); err == nil {
		t.Fatal("bad end time must be rejected")
	}
}

func TestChangeColumns(t *testing.T) {
	start := domain.ClockTime(600)
	st := domain.StatusConfirmed
	cols := changeColumns(domain.Changes{StartTime: &start, Status: &st})

	if len(cols) != 2 {
		t.Fatalf("got columns %v", cols)
	}
	if cols["hora_inicio"] != 600 || cols["status"] != "confirmed" {
		t.Fatalf("unexpected values %v", cols)
	}
}
