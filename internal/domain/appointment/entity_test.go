package appointment

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func validAppointment() Appointment {
	return Appointment{
		ClinicID:        uuid.New(),
		PatientID:       uuid.New(),
		MachineID:       uuid.New(),
		Date:            time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC),
		StartTime:       420,
		DurationMinutes: 240,
		Status:          StatusScheduled,
	}
}

func TestValidateSchedule(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Appointment)
		field  string
	}{
		{"ok", func(*Appointment) {}, ""},
		{"missing clinic", func(a *Appointment) { a.ClinicID = uuid.Nil }, "clinic_id"},
		{"missing patient", func(a *Appointment) { a.PatientID = uuid.Nil }, "patient_id"},
		{"missing machine", func(a *Appointment) { a.MachineID = uuid.Nil }, "machine_id"},
		{"missing date", func(a *Appointment) { a.Date = time.Time{} }, "date"},
		{"zero duration", func(a *Appointment) { a.DurationMinutes = 0 }, "duration_minutes"},
		{"negative duration", func(a *Appointment) { a.DurationMinutes = -10 }, "duration_minutes"},
		{"crosses midnight", func(a *Appointment) { a.StartTime = 1380; a.DurationMinutes = 120 }, "duration_minutes"},
		{"ends at midnight", func(a *Appointment) { a.StartTime = 1200; a.DurationMinutes = 240 }, ""},
		{"start at 24:00", func(a *Appointment) { a.StartTime = EndOfDay; a.DurationMinutes = 1 }, "start_time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ap := validAppointment()
			tt.mutate(&ap)
			err := ap.ValidateSchedule()

			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tt.field {
				t.Fatalf("field = %s, want %s", ve.Field, tt.field)
			}
		})
	}
}

func TestCancel(t *testing.T) {
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

	ap := validAppointment()
	if err := Cancel(&ap, "   ", now); err == nil {
		t.Fatal("blank reason must be rejected")
	}
	if ap.Status != StatusScheduled {
		t.Fatal("rejected cancel changed status")
	}

	if err := Cancel(&ap, " paciente internado ", now); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if ap.Status != StatusCancelled || ap.CancellationReason != "paciente internado" {
		t.Fatalf("unexpected state %+v", ap)
	}
	if ap.CancelledAt == nil || !ap.CancelledAt.Equal(now) {
		t.Fatal("cancelled_at not recorded")
	}

	err := Cancel(&ap, "outro motivo", now.Add(time.Hour))
	var te *InvalidTransitionError
	if !errors.As(err, &te) {
		t.Fatalf("second cancel: expected InvalidTransitionError, got %v", err)
	}
	if ap.CancellationReason != "paciente internado" {
		t.Fatal("original cancellation reason lost")
	}

	// terminal vence o motivo vazio
	for _, st := range []Status{StatusCancelled, StatusCompleted, StatusNoShow} {
		done := validAppointment()
		done.Status = st
		err := Cancel(&done, "", now)
		if !errors.As(err, &te) {
			t.Fatalf("cancel %s with blank reason: expected InvalidTransitionError, got %v", st, err)
		}
	}
}

func TestTransition(t *testing.T) {
	now := time.Now()
	ap := validAppointment()

	for _, to := range []Status{StatusConfirmed, StatusInProgress, StatusCompleted} {
		if err := Transition(&ap, to, now); err != nil {
			t.Fatalf("-> %s: %v", to, err)
		}
	}
	if err := Transition(&ap, StatusCancelled, now); err == nil {
		t.Fatal("completed appointment must not be cancellable")
	}
}

func TestChangesApply(t *testing.T) {
	ap := validAppointment()
	start := ClockTime(600)
	obs := "trocar filtro"

	merged := Changes{StartTime: &start, Observations: &obs}.Apply(ap)
	if merged.StartTime != 600 || merged.Observations != obs {
		t.Fatalf("merge failed: %+v", merged)
	}
	if ap.StartTime != 420 {
		t.Fatal("Apply mutated its input")
	}

	if (Changes{Observations: &obs}).TouchesSchedule() {
		t.Error("observations-only change must not touch schedule")
	}
	if !(Changes{StartTime: &start}).TouchesSchedule() {
		t.Error("start change must touch schedule")
	}
}

func TestChangesDiff(t *testing.T) {
	ap := validAppointment()
	ap.Observations = "antiga"

	sameDate := ap.Date.Add(15 * time.Hour)
	sameStart := ap.StartTime
	sameDuration := ap.DurationMinutes
	obs := "nova"

	resent := Changes{
		PatientID:       &ap.PatientID,
		MachineID:       &ap.MachineID,
		Date:            &sameDate,
		StartTime:       &sameStart,
		DurationMinutes: &sameDuration,
		Observations:    &obs,
	}.Diff(ap)

	if resent.TouchesSchedule() {
		t.Fatalf("unchanged schedule fields survived diff: %+v", resent)
	}
	if resent.Observations == nil || *resent.Observations != "nova" {
		t.Fatal("changed observations dropped by diff")
	}

	other := uuid.New()
	later := ClockTime(600)
	moved := Changes{MachineID: &other, StartTime: &later}.Diff(ap)
	if moved.MachineID == nil || moved.StartTime == nil {
		t.Fatalf("real changes dropped by diff: %+v", moved)
	}
}

func TestAsStorageError(t *testing.T) {
	raw := errors.New("connection reset")
	err := AsStorageError("insert appointment", raw)
	var se *StorageError
	if !errors.As(err, &se) || !errors.Is(err, raw) {
		t.Fatalf("expected wrapped StorageError, got %v", err)
	}

	for _, typed := range []error{
		&ConflictError{Machine: true},
		&ValidationError{Field: "x", Reason: "y"},
		&InvalidTransitionError{From: StatusCancelled, To: StatusConfirmed},
		ErrAppointmentNotFound,
		ErrShiftNotFound,
	} {
		if got := AsStorageError("op", typed); got != typed {
			t.Errorf("typed error %v was rewrapped", typed)
		}
	}

	if !errors.Is(ErrShiftNotFound, ErrNotFound) {
		t.Error("shift not found must match ErrNotFound")
	}
	if AsStorageError("op", nil) != nil {
		t.Error("nil must stay nil")
	}
}
