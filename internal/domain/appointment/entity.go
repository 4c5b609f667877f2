package appointment

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Appointment is a dialysis session booked for a patient on a machine.
// The end of the session is always derived from StartTime and
// DurationMinutes.
type Appointment struct {
	ID        uuid.UUID
	ClinicID  uuid.UUID
	PatientID uuid.UUID
	MachineID uuid.UUID

	Date            time.Time
	StartTime       ClockTime
	DurationMinutes int

	Status             Status
	CancellationReason string
	CancelledAt        *time.Time
	Observations       string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a Appointment) EndTime() ClockTime {
	return a.StartTime.Add(a.DurationMinutes)
}

func (a Appointment) Interval() Interval {
	return NewInterval(a.StartTime, a.DurationMinutes)
}

// ===============================
// Validations
// ===============================

// ValidateSchedule checks the fields that place an appointment in time
// and on resources.
func (a Appointment) ValidateSchedule() error {
	if a.ClinicID == uuid.Nil {
		return invalid("clinic_id", "required")
	}
	if a.PatientID == uuid.Nil {
		return invalid("patient_id", "required")
	}
	if a.MachineID == uuid.Nil {
		return invalid("machine_id", "required")
	}
	if a.Date.IsZero() {
		return invalid("date", "required")
	}
	if a.StartTime < 0 || a.StartTime >= EndOfDay {
		return invalid("start_time", "must be between 00:00 and 23:59")
	}
	if a.DurationMinutes <= 0 {
		return invalid("duration_minutes", "must be positive")
	}
	if a.EndTime() > EndOfDay {
		return invalid("duration_minutes", "session must end by 24:00")
	}
	return nil
}

// ===============================
// Domain Actions
// ===============================

func Transition(ap *Appointment, to Status, now time.Time) error {
	if err := CanTransition(ap.Status, to); err != nil {
		return err
	}

	ap.Status = to
	ap.UpdatedAt = now
	return nil
}

// Cancel exige motivo; cancelar algo terminal falha e preserva o motivo
// original.
func Cancel(ap *Appointment, reason string, now time.Time) error {
	if err := CanTransition(ap.Status, StatusCancelled); err != nil {
		return err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return invalid("reason", "required")
	}

	ap.Status = StatusCancelled
	ap.CancellationReason = reason
	ap.CancelledAt = &now
	ap.UpdatedAt = now
	return nil
}
