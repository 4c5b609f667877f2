package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
)

// ChangeStatus aplica uma transição fixa (confirmar, iniciar, concluir,
// falta). Cancelamento tem use case próprio por causa do motivo.
type ChangeStatus struct {
	repo  domain.Repository
	audit Auditor
	to    domain.Status
	now   func() time.Time
}

func newChangeStatus(repo domain.Repository, auditor Auditor, to domain.Status) *ChangeStatus {
	return &ChangeStatus{
		repo:  repo,
		audit: auditorOrNop(auditor),
		to:    to,
		now:   utcNow,
	}
}

func NewConfirmAppointment(repo domain.Repository, auditor Auditor) *ChangeStatus {
	return newChangeStatus(repo, auditor, domain.StatusConfirmed)
}

func NewStartSession(repo domain.Repository, auditor Auditor) *ChangeStatus {
	return newChangeStatus(repo, auditor, domain.StatusInProgress)
}

func NewCompleteAppointment(repo domain.Repository, auditor Auditor) *ChangeStatus {
	return newChangeStatus(repo, auditor, domain.StatusCompleted)
}

func NewMarkNoShow(repo domain.Repository, auditor Auditor) *ChangeStatus {
	return newChangeStatus(repo, auditor, domain.StatusNoShow)
}

func (uc *ChangeStatus) Execute(
	ctx context.Context,
	clinicID uuid.UUID,
	appointmentID uuid.UUID,
	actorID string,
) (*domain.Appointment, error) {

	ap, err := uc.repo.FindByID(ctx, clinicID, appointmentID)
	if err != nil {
		return nil, err
	}

	from := ap.Status
	if err := domain.Transition(ap, uc.to, uc.now()); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Update(ctx, clinicID, appointmentID, domain.Changes{
		Status:       &ap.Status,
		ExpectStatus: &from,
	})
	if err != nil {
		return nil, staleAsTransition(ctx, uc.repo, clinicID, appointmentID, uc.to, err)
	}

	uc.audit.Dispatch(audit.Event{
		ClinicID: clinicID,
		ActorID:  actorID,
		Action:   audit.ActionAppointmentStatus,
		Entity:   audit.EntityAppointment,
		EntityID: entityID(appointmentID),
		Metadata: map[string]any{
			"from": from,
			"to":   uc.to,
		},
	})

	return updated, nil
}

// staleAsTransition: outra requisição mudou o status entre a leitura e a
// escrita. O chamador recebe a transição a partir do status atual.
func staleAsTransition(
	ctx context.Context,
	repo domain.Repository,
	clinicID uuid.UUID,
	id uuid.UUID,
	to domain.Status,
	err error,
) error {

	if !errors.Is(err, domain.ErrStaleStatus) {
		return err
	}

	current, ferr := repo.FindByID(ctx, clinicID, id)
	if ferr != nil {
		return ferr
	}
	return &domain.InvalidTransitionError{From: current.Status, To: to}
}
