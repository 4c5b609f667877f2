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

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	ClinicID uuid.UUID
	ActorID  string

	PatientID uuid.UUID
	MachineID uuid.UUID

	Date            time.Time
	StartTime       domain.ClockTime
	DurationMinutes int
	Observations    string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo   domain.Repository
	locker lock.Locker
	audit  Auditor
	log    *zap.Logger
	now    func() time.Time
}

func NewCreateAppointment(
	repo domain.Repository,
	locker lock.Locker,
	auditor Auditor,
	log *zap.Logger,
) *CreateAppointment {
	if log == nil {
		log = zap.NewNop()
	}
	return &CreateAppointment{
		repo:   repo,
		locker: lockerOrNop(locker),
		audit:  auditorOrNop(auditor),
		log:    log,
		now:    utcNow,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*domain.Appointment, error) {

	// --------------------------------------------------
	// 1️⃣ Validação
	// --------------------------------------------------
	now := uc.now()
	ap := domain.Appointment{
		ClinicID:        in.ClinicID,
		PatientID:       in.PatientID,
		MachineID:       in.MachineID,
		Date:            domain.DateOf(in.Date),
		StartTime:       in.StartTime,
		DurationMinutes: in.DurationMinutes,
		Status:          domain.InitialStatus(),
		Observations:    in.Observations,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := ap.ValidateSchedule(); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Conflito + criação na mesma transação
	// --------------------------------------------------
	err := withBookingLock(ctx, uc.locker, bookingKeys(ap), func(ctx context.Context) error {
		return uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
			res, err := NewConflictChecker(tx).Check(ctx, ap, uuid.Nil)
			if err != nil {
				return err
			}
			if res.Any() {
				return res.Err()
			}
			return tx.Insert(ctx, &ap)
		})
	})

	var conflict *domain.ConflictError
	if errors.As(err, &conflict) {
		uc.log.Info("appointment rejected by conflict",
			zap.Stringer("clinic_id", in.ClinicID),
			zap.Stringer("machine_id", in.MachineID),
			zap.Strings("resources", conflict.Resources()),
		)
		uc.audit.Dispatch(audit.Event{
			ClinicID: in.ClinicID,
			ActorID:  in.ActorID,
			Action:   audit.ActionAppointmentConflict,
			Entity:   audit.EntityAppointment,
			Metadata: map[string]any{
				"patient_id": in.PatientID,
				"machine_id": in.MachineID,
				"date":       domain.FormatDate(ap.Date),
				"start_time": ap.StartTime.String(),
				"resources":  conflict.Resources(),
			},
		})
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3️⃣ Auditoria
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		ClinicID: ap.ClinicID,
		ActorID:  in.ActorID,
		Action:   audit.ActionAppointmentCreated,
		Entity:   audit.EntityAppointment,
		EntityID: entityID(ap.ID),
	})

	return &ap, nil
}
