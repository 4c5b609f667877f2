package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/lock"
)

// UpdateAppointmentInput é um patch: campos nil não mudam.
type UpdateAppointmentInput struct {
	ClinicID uuid.UUID
	ID       uuid.UUID
	ActorID  string

	PatientID       *uuid.UUID
	MachineID       *uuid.UUID
	Date            *time.Time
	StartTime       *domain.ClockTime
	DurationMinutes *int
	Observations    *string
}

func (in UpdateAppointmentInput) changes() domain.Changes {
	ch := domain.Changes{
		PatientID:       in.PatientID,
		MachineID:       in.MachineID,
		StartTime:       in.StartTime,
		DurationMinutes: in.DurationMinutes,
		Observations:    in.Observations,
	}
	if in.Date != nil {
		d := domain.DateOf(*in.Date)
		ch.Date = &d
	}
	return ch
}

type UpdateAppointment struct {
	repo   domain.Repository
	locker lock.Locker
	audit  Auditor
	log    *zap.Logger
}

func NewUpdateAppointment(
	repo domain.Repository,
	locker lock.Locker,
	auditor Auditor,
	log *zap.Logger,
) *UpdateAppointment {
	if log == nil {
		log = zap.NewNop()
	}
	return &UpdateAppointment{
		repo:   repo,
		locker: lockerOrNop(locker),
		audit:  auditorOrNop(auditor),
		log:    log,
	}
}

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (*domain.Appointment, error) {

	current, err := uc.repo.FindByID(ctx, in.ClinicID, in.ID)
	if err != nil {
		return nil, err
	}

	// campos reenviados com o mesmo valor não contam como mudança
	ch := in.changes().Diff(*current)

	// --------------------------------------------------
	// Só observações: sem checagem de conflito
	// --------------------------------------------------
	if !ch.TouchesSchedule() {
		if ch.Observations == nil {
			return current, nil
		}

		updated, err := uc.repo.Update(ctx, in.ClinicID, in.ID, ch)
		if err != nil {
			return nil, err
		}
		uc.dispatch(in, updated, false)
		return updated, nil
	}

	// --------------------------------------------------
	// Reagendamento
	// --------------------------------------------------
	if current.Status.IsTerminal() {
		return nil, &domain.InvalidTransitionError{From: current.Status, To: current.Status}
	}

	merged := ch.Apply(*current)
	if err := merged.ValidateSchedule(); err != nil {
		return nil, err
	}

	keys := bookingKeys(merged)

	var updated *domain.Appointment
	err = withBookingLock(ctx, uc.locker, keys, func(ctx context.Context) error {
		return uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
			fresh, err := tx.FindByID(ctx, in.ClinicID, in.ID)
			if err != nil {
				return err
			}
			if fresh.Status.IsTerminal() {
				return &domain.InvalidTransitionError{From: fresh.Status, To: fresh.Status}
			}

			candidate := ch.Apply(*fresh)
			if err := candidate.ValidateSchedule(); err != nil {
				return err
			}
			// a linha mudou de recurso entre a leitura e o lock
			if !sameKeys(bookingKeys(candidate), keys) {
				return &domain.StorageError{Op: "reschedule", Err: domain.ErrResourceBusy}
			}

			res, err := NewConflictChecker(tx).Check(ctx, candidate, in.ID)
			if err != nil {
				return err
			}
			if res.Any() {
				return res.Err()
			}

			expect := fresh.Status
			ch.ExpectStatus = &expect

			updated, err = tx.Update(ctx, in.ClinicID, in.ID, ch)
			if errors.Is(err, domain.ErrStaleStatus) {
				return &domain.InvalidTransitionError{From: fresh.Status, To: fresh.Status}
			}
			return err
		})
	})
	if err != nil {
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			uc.log.Info("reschedule rejected by conflict",
				zap.Stringer("appointment_id", in.ID),
				zap.Strings("resources", conflict.Resources()),
			)
		}
		return nil, err
	}

	uc.dispatch(in, updated, true)
	return updated, nil
}

func (uc *UpdateAppointment) dispatch(in UpdateAppointmentInput, ap *domain.Appointment, rescheduled bool) {
	uc.audit.Dispatch(audit.Event{
		ClinicID: in.ClinicID,
		ActorID:  in.ActorID,
		Action:   audit.ActionAppointmentUpdated,
		Entity:   audit.EntityAppointment,
		EntityID: entityID(ap.ID),
		Metadata: map[string]any{
			"rescheduled": rescheduled,
			"date":        domain.FormatDate(ap.Date),
			"start_time":  ap.StartTime.String(),
		},
	})
}
