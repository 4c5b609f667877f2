package handlers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

type slotFinder interface {
	Execute(ctx context.Context, in domain.AvailabilityInput) ([]domain.TimeSlot, error)
}

type statisticsReader interface {
	Execute(ctx context.Context, clinicID uuid.UUID, period domain.DateRange) (*ucAppointment.Statistics, error)
}

// ScheduleHandler serve as consultas de agenda: slots e estatísticas.
type ScheduleHandler struct {
	slots    slotFinder
	stats    statisticsReader
	timezone string
}

func NewScheduleHandler(slots slotFinder, stats statisticsReader, tz string) *ScheduleHandler {
	return &ScheduleHandler{
		slots:    slots,
		stats:    stats,
		timezone: tz,
	}
}

// ======================================================
// SLOTS
// ======================================================

func (h *ScheduleHandler) Slots(c *gin.Context) {
	shiftID, err := parseUUID("shift_id", c.Query("shift_id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	date, err := parseDay("date", c.Query("date"), h.timezone)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	machineID, err := parseOptionalUUID("machine_id", c.Query("machine_id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	step := 0
	if raw := c.Query("step"); raw != "" {
		step, err = strconv.Atoi(raw)
		if err != nil || step <= 0 {
			httperr.Respond(c, &domain.ValidationError{Field: "step", Reason: "must be a positive number of minutes"})
			return
		}
	}

	slots, err := h.slots.Execute(c.Request.Context(), domain.AvailabilityInput{
		ClinicID:    middleware.ClinicID(c),
		ShiftID:     shiftID,
		MachineID:   machineID,
		Date:        date,
		StepMinutes: step,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"date":  domain.FormatDate(date),
		"slots": slots,
	})
}

// ======================================================
// STATISTICS
// ======================================================

func (h *ScheduleHandler) Statistics(c *gin.Context) {
	from, err := parseOptionalDay("from", c.Query("from"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	to, err := parseOptionalDay("to", c.Query("to"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	stats, err := h.stats.Execute(c.Request.Context(), middleware.ClinicID(c), domain.DateRange{From: from, To: to})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, stats)
}
