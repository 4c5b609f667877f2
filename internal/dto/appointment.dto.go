package dto

import (
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
)

type AppointmentDTO struct {
	ID        uuid.UUID `json:"id"`
	PatientID uuid.UUID `json:"patient_id"`
	MachineID uuid.UUID `json:"machine_id"`

	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	DurationMinutes int    `json:"duration_minutes"`

	Status             domain.Status `json:"status"`
	CancellationReason string        `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time    `json:"cancelled_at,omitempty"`
	Observations       string        `json:"observations,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromAppointment(ap *domain.Appointment) AppointmentDTO {
	return AppointmentDTO{
		ID:                 ap.ID,
		PatientID:          ap.PatientID,
		MachineID:          ap.MachineID,
		Date:               domain.FormatDate(ap.Date),
		StartTime:          ap.StartTime.String(),
		EndTime:            ap.EndTime().String(),
		DurationMinutes:    ap.DurationMinutes,
		Status:             ap.Status,
		CancellationReason: ap.CancellationReason,
		CancelledAt:        ap.CancelledAt,
		Observations:       ap.Observations,
		CreatedAt:          ap.CreatedAt,
		UpdatedAt:          ap.UpdatedAt,
	}
}

func FromAppointments(aps []domain.Appointment) []AppointmentDTO {
	out := make([]AppointmentDTO, 0, len(aps))
	for i := range aps {
		out = append(out, FromAppointment(&aps[i]))
	}
	return out
}
