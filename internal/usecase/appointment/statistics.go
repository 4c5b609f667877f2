package appointment

import (
	"context"
	"math"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
)

type StatusShare struct {
	Status     domain.Status `json:"status"`
	Count      int64         `json:"count"`
	Percentage float64       `json:"percentage"`
}

type Statistics struct {
	Total    int64         `json:"total"`
	ByStatus []StatusShare `json:"by_status"`
}

type GetStatistics struct {
	repo domain.Repository
}

func NewGetStatistics(repo domain.Repository) *GetStatistics {
	return &GetStatistics{repo: repo}
}

func (uc *GetStatistics) Execute(
	ctx context.Context,
	clinicID uuid.UUID,
	period domain.DateRange,
) (*Statistics, error) {

	if period.From != nil && period.To != nil && period.To.Before(*period.From) {
		return nil, &domain.ValidationError{Field: "to", Reason: "must not be before from"}
	}

	counts, err := uc.repo.CountByStatus(ctx, clinicID, period)
	if err != nil {
		return nil, domain.AsStorageError("count appointments by status", err)
	}

	out := &Statistics{ByStatus: []StatusShare{}}
	for _, st := range domain.AllStatuses() {
		out.Total += counts[st]
	}
	if out.Total == 0 {
		return out, nil
	}

	for _, st := range domain.AllStatuses() {
		n := counts[st]
		out.ByStatus = append(out.ByStatus, StatusShare{
			Status:     st,
			Count:      n,
			Percentage: percentage(n, out.Total),
		})
	}
	return out, nil
}

func percentage(n, total int64) float64 {
	return math.Round(float64(n)*10000/float64(total)) / 100
}
