package appointment

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
)

type GetAppointment struct {
	repo domain.Repository
}

func NewGetAppointment(repo domain.Repository) *GetAppointment {
	return &GetAppointment{repo: repo}
}

func (uc *GetAppointment) Execute(
	ctx context.Context,
	clinicID uuid.UUID,
	appointmentID uuid.UUID,
) (*domain.Appointment, error) {
	return uc.repo.FindByID(ctx, clinicID, appointmentID)
}
