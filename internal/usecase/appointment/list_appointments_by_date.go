package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
)

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(
	repo domain.Repository,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo: repo,
	}
}

func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	clinicID uuid.UUID,
	date time.Time,
	machineID *uuid.UUID,
) ([]domain.Appointment, error) {

	if date.IsZero() {
		return nil, &domain.ValidationError{Field: "date", Reason: "required"}
	}

	return uc.repo.ListForDay(ctx, clinicID, domain.DateOf(date), machineID)
}
