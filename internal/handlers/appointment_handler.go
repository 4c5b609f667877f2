package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

// ======================================================
// USE CASE PORTS
// ======================================================

type appointmentCreator interface {
	Execute(ctx context.Context, in ucAppointment.CreateAppointmentInput) (*domain.Appointment, error)
}

type appointmentUpdater interface {
	Execute(ctx context.Context, in ucAppointment.UpdateAppointmentInput) (*domain.Appointment, error)
}

type appointmentGetter interface {
	Execute(ctx context.Context, clinicID, id uuid.UUID) (*domain.Appointment, error)
}

type dayLister interface {
	Execute(ctx context.Context, clinicID uuid.UUID, date time.Time, machineID *uuid.UUID) ([]domain.Appointment, error)
}

type statusChanger interface {
	Execute(ctx context.Context, clinicID, id uuid.UUID, actorID string) (*domain.Appointment, error)
}

type appointmentCanceller interface {
	Execute(ctx context.Context, clinicID, id uuid.UUID, actorID, reason string) (*domain.Appointment, error)
}

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create   appointmentCreator
	update   appointmentUpdater
	get      appointmentGetter
	list     dayLister
	confirm  statusChanger
	start    statusChanger
	complete statusChanger
	noShow   statusChanger
	cancel   appointmentCanceller

	timezone string
}

type AppointmentUseCases struct {
	Create   appointmentCreator
	Update   appointmentUpdater
	Get      appointmentGetter
	List     dayLister
	Confirm  statusChanger
	Start    statusChanger
	Complete statusChanger
	NoShow   statusChanger
	Cancel   appointmentCanceller
}

func NewAppointmentHandler(uc AppointmentUseCases, tz string) *AppointmentHandler {
	return &AppointmentHandler{
		create:   uc.Create,
		update:   uc.Update,
		get:      uc.Get,
		list:     uc.List,
		confirm:  uc.Confirm,
		start:    uc.Start,
		complete: uc.Complete,
		noShow:   uc.NoShow,
		cancel:   uc.Cancel,
		timezone: tz,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	PatientID       string `json:"patient_id" binding:"required"`
	MachineID       string `json:"machine_id" binding:"required"`
	Date            string `json:"date" binding:"required"`       // YYYY-MM-DD
	StartTime       string `json:"start_time" binding:"required"` // HH:MM
	DurationMinutes int    `json:"duration_minutes"`
	Observations    string `json:"observations"`
}

type UpdateAppointmentRequest struct {
	PatientID       *string `json:"patient_id"`
	MachineID       *string `json:"machine_id"`
	Date            *string `json:"date"`
	StartTime       *string `json:"start_time"`
	DurationMinutes *int    `json:"duration_minutes"`
	Observations    *string `json:"observations"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	in := ucAppointment.CreateAppointmentInput{
		ClinicID:        middleware.ClinicID(c),
		ActorID:         middleware.ActorID(c),
		DurationMinutes: req.DurationMinutes,
		Observations:    req.Observations,
	}

	var err error
	if in.PatientID, err = parseUUID("patient_id", req.PatientID); err != nil {
		httperr.Respond(c, err)
		return
	}
	if in.MachineID, err = parseUUID("machine_id", req.MachineID); err != nil {
		httperr.Respond(c, err)
		return
	}
	if in.Date, err = domain.ParseDate(req.Date); err != nil {
		httperr.Respond(c, &domain.ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"})
		return
	}
	if in.StartTime, err = parseClock("start_time", req.StartTime); err != nil {
		httperr.Respond(c, err)
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, dto.FromAppointment(ap))
}

// ======================================================
// UPDATE
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, err := parseUUID("id", c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	in, err := req.toInput()
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	in.ClinicID = middleware.ClinicID(c)
	in.ActorID = middleware.ActorID(c)
	in.ID = id

	ap, err := h.update.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.FromAppointment(ap))
}

func (req UpdateAppointmentRequest) toInput() (ucAppointment.UpdateAppointmentInput, error) {
	in := ucAppointment.UpdateAppointmentInput{
		DurationMinutes: req.DurationMinutes,
		Observations:    req.Observations,
	}

	if req.PatientID != nil {
		id, err := parseUUID("patient_id", *req.PatientID)
		if err != nil {
			return in, err
		}
		in.PatientID = &id
	}
	if req.MachineID != nil {
		id, err := parseUUID("machine_id", *req.MachineID)
		if err != nil {
			return in, err
		}
		in.MachineID = &id
	}
	if req.Date != nil {
		d, err := parseOptionalDay("date", *req.Date)
		if err != nil {
			return in, err
		}
		if d == nil {
			return in, &domain.ValidationError{Field: "date", Reason: "required"}
		}
		in.Date = d
	}
	if req.StartTime != nil {
		t, err := parseClock("start_time", *req.StartTime)
		if err != nil {
			return in, err
		}
		in.StartTime = &t
	}

	return in, nil
}

// ======================================================
// READ
// ======================================================

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, err := parseUUID("id", c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	ap, err := h.get.Execute(c.Request.Context(), middleware.ClinicID(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.FromAppointment(ap))
}

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
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

	aps, err := h.list.Execute(c.Request.Context(), middleware.ClinicID(c), date, machineID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, dto.FromAppointments(aps))
}

// ======================================================
// STATUS
// ======================================================

func (h *AppointmentHandler) Confirm(c *gin.Context)  { h.changeStatus(c, h.confirm) }
func (h *AppointmentHandler) Start(c *gin.Context)    { h.changeStatus(c, h.start) }
func (h *AppointmentHandler) Complete(c *gin.Context) { h.changeStatus(c, h.complete) }
func (h *AppointmentHandler) NoShow(c *gin.Context)   { h.changeStatus(c, h.noShow) }

func (h *AppointmentHandler) changeStatus(c *gin.Context, uc statusChanger) {
	id, err := parseUUID("id", c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	ap, err := uc.Execute(c.Request.Context(), middleware.ClinicID(c), id, middleware.ActorID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.FromAppointment(ap))
}

// ======================================================
// CANCEL
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, err := parseUUID("id", c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	var req CancelAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.cancel.Execute(
		c.Request.Context(),
		middleware.ClinicID(c),
		id,
		middleware.ActorID(c),
		req.Reason,
	)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.FromAppointment(ap))
}
