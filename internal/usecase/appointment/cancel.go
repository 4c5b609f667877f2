package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
)

type CancelAppointment struct {
	repo  domain.Repository
	audit Auditor
	now   func() time.Time
}

func NewCancelAppointment(
	repo domain.Repository,
	auditor Auditor,
) *CancelAppointment {
	return &CancelAppointment{
		repo:  repo,
		audit: auditorOrNop(auditor),
		now:   utcNow,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	clinicID uuid.UUID,
	appointmentID uuid.UUID,
	actorID string,
	reason string,
) (*domain.Appointment, error) {

	ap, err := uc.repo.FindByID(ctx, clinicID, appointmentID)
	if err != nil {
		return nil, err
	}

	from := ap.Status
	if err := domain.Cancel(ap, reason, uc.now()); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Update(ctx, clinicID, appointmentID, domain.Changes{
		Status:             &ap.Status,
		CancellationReason: &ap.CancellationReason,
		CancelledAt:        ap.CancelledAt,
		ExpectStatus:       &from,
	})
	if err != nil {
		return nil, staleAsTransition(ctx, uc.repo, clinicID, appointmentID, domain.StatusCancelled, err)
	}

	uc.audit.Dispatch(audit.Event{
		ClinicID: clinicID,
		ActorID:  actorID,
		Action:   audit.ActionAppointmentCancelled,
		Entity:   audit.EntityAppointment,
		EntityID: entityID(appointmentID),
		Metadata: map[string]any{
			"from":   from,
			"reason": ap.CancellationReason,
		},
	})

	return updated, nil
}
