package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OverlapQuery selects active appointments of one clinic on one date
// whose window overlaps Window. When both PatientID and MachineID are
// set, an appointment matches if it shares either of them.
type OverlapQuery struct {
	ClinicID  uuid.UUID
	PatientID *uuid.UUID
	MachineID *uuid.UUID
	Date      time.Time
	Window    Interval
	ExcludeID *uuid.UUID
}

// DateRange is inclusive on both ends; nil bounds are open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Changes são as colunas alteradas por Update. Campos nil não mudam.
type Changes struct {
	PatientID       *uuid.UUID
	MachineID       *uuid.UUID
	Date            *time.Time
	StartTime       *ClockTime
	DurationMinutes *int
	Observations    *string

	Status             *Status
	CancellationReason *string
	CancelledAt        *time.Time

	// ExpectStatus condiciona a escrita ao status atual da linha.
	// Divergência resulta em ErrStaleStatus.
	ExpectStatus *Status
}

// TouchesSchedule reports whether the change moves the appointment in
// time or onto other resources.
func (c Changes) TouchesSchedule() bool {
	return c.PatientID != nil || c.MachineID != nil || c.Date != nil ||
		c.StartTime != nil || c.DurationMinutes != nil
}

// Diff drops the schedule and observation fields whose value equals
// what ap already holds, so a resent form does not count as a change.
func (c Changes) Diff(ap Appointment) Changes {
	if c.PatientID != nil && *c.PatientID == ap.PatientID {
		c.PatientID = nil
	}
	if c.MachineID != nil && *c.MachineID == ap.MachineID {
		c.MachineID = nil
	}
	if c.Date != nil && DateOf(*c.Date).Equal(DateOf(ap.Date)) {
		c.Date = nil
	}
	if c.StartTime != nil && *c.StartTime == ap.StartTime {
		c.StartTime = nil
	}
	if c.DurationMinutes != nil && *c.DurationMinutes == ap.DurationMinutes {
		c.DurationMinutes = nil
	}
	if c.Observations != nil && *c.Observations == ap.Observations {
		c.Observations = nil
	}
	return c
}

// Apply returns a copy of ap with the changes merged in.
func (c Changes) Apply(ap Appointment) Appointment {
	if c.PatientID != nil {
		ap.PatientID = *c.PatientID
	}
	if c.MachineID != nil {
		ap.MachineID = *c.MachineID
	}
	if c.Date != nil {
		ap.Date = DateOf(*c.Date)
	}
	if c.StartTime != nil {
		ap.StartTime = *c.StartTime
	}
	if c.DurationMinutes != nil {
		ap.DurationMinutes = *c.DurationMinutes
	}
	if c.Observations != nil {
		ap.Observations = *c.Observations
	}
	if c.Status != nil {
		ap.Status = *c.Status
	}
	if c.CancellationReason != nil {
		ap.CancellationReason = *c.CancellationReason
	}
	if c.CancelledAt != nil {
		t := *c.CancelledAt
		ap.CancelledAt = &t
	}
	return ap
}

// Repository is the persistence store. Every method is scoped by
// clinic; rows of other clinics behave as absent.
type Repository interface {
	// -------- Conflict --------
	FindOverlapping(
		ctx context.Context,
		q OverlapQuery,
	) ([]Appointment, error)

	// -------- Appointment (create / update) --------
	Insert(
		ctx context.Context,
		ap *Appointment,
	) error

	Update(
		ctx context.Context,
		clinicID uuid.UUID,
		id uuid.UUID,
		ch Changes,
	) (*Appointment, error)

	FindByID(
		ctx context.Context,
		clinicID uuid.UUID,
		id uuid.UUID,
	) (*Appointment, error)

	// -------- Queries --------
	CountByStatus(
		ctx context.Context,
		clinicID uuid.UUID,
		period DateRange,
	) (map[Status]int64, error)

	ListForDay(
		ctx context.Context,
		clinicID uuid.UUID,
		date time.Time,
		machineID *uuid.UUID,
	) ([]Appointment, error)

	// WithinTx runs fn against a repository bound to one serializable
	// transaction; fn's error rolls everything back.
	WithinTx(
		ctx context.Context,
		fn func(tx Repository) error,
	) error
}

type ShiftProvider interface {
	GetShift(
		ctx context.Context,
		clinicID uuid.UUID,
		shiftID uuid.UUID,
	) (*Shift, error)
}

type MachineProvider interface {
	ListActiveMachines(
		ctx context.Context,
		clinicID uuid.UUID,
	) ([]uuid.UUID, error)
}
