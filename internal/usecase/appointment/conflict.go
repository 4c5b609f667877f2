package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
)

// ConflictChecker lê o estado atual do store e classifica sobreposições.
// Não trava nada; quem chama decide a transação.
type ConflictChecker struct {
	repo domain.Repository
}

func NewConflictChecker(repo domain.Repository) *ConflictChecker {
	return &ConflictChecker{repo: repo}
}

// Check reports patient and machine conflicts of candidate. excludeID
// (uuid.Nil for none) is the appointment being updated.
func (c *ConflictChecker) Check(
	ctx context.Context,
	candidate domain.Appointment,
	excludeID uuid.UUID,
) (domain.ConflictResult, error) {

	q := domain.OverlapQuery{
		ClinicID:  candidate.ClinicID,
		PatientID: &candidate.PatientID,
		MachineID: &candidate.MachineID,
		Date:      domain.DateOf(candidate.Date),
		Window:    candidate.Interval(),
	}
	if excludeID != uuid.Nil {
		q.ExcludeID = &excludeID
	}

	existing, err := c.repo.FindOverlapping(ctx, q)
	if err != nil {
		return domain.ConflictResult{}, domain.AsStorageError("find overlapping appointments", err)
	}

	return domain.ClassifyConflicts(candidate, existing, excludeID), nil
}

// Occupied returns the windows taken on a machine within window.
func (c *ConflictChecker) Occupied(
	ctx context.Context,
	clinicID uuid.UUID,
	machineID uuid.UUID,
	date time.Time,
	window domain.Interval,
) ([]domain.Interval, error) {

	existing, err := c.repo.FindOverlapping(ctx, domain.OverlapQuery{
		ClinicID:  clinicID,
		MachineID: &machineID,
		Date:      domain.DateOf(date),
		Window:    window,
	})
	if err != nil {
		return nil, domain.AsStorageError("find machine occupancy", err)
	}

	out := make([]domain.Interval, 0, len(existing))
	for _, ap := range existing {
		if ap.ClinicID != clinicID || ap.MachineID != machineID || !ap.Status.IsActive() {
			continue
		}
		out = append(out, ap.Interval())
	}
	return out, nil
}
