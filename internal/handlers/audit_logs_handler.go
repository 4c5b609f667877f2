package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
)

// AuditLogLister é implementado por *audit.Logger.
type AuditLogLister interface {
	List(ctx context.Context, clinicID uuid.UUID, f audit.Filter) (*audit.Page, error)
}

type AuditLogsHandler struct {
	logs AuditLogLister
}

func NewAuditLogsHandler(logs AuditLogLister) *AuditLogsHandler {
	return &AuditLogsHandler{logs: logs}
}

// GET /api/audit-logs?action=&entity=&from=&to=&page=&limit=
func (h *AuditLogsHandler) List(c *gin.Context) {
	filter, err := auditFilterFromQuery(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	page, err := h.logs.List(c.Request.Context(), middleware.ClinicID(c), filter)
	if err != nil {
		httperr.Respond(c, domain.AsStorageError("list audit logs", err))
		return
	}

	httpresp.OK(c, page)
}

func auditFilterFromQuery(c *gin.Context) (audit.Filter, error) {
	f := audit.Filter{
		Action: strings.TrimSpace(c.Query("action")),
		Entity: strings.TrimSpace(c.Query("entity")),
	}

	var err error
	if f.From, err = parseOptionalDay("from", c.Query("from")); err != nil {
		return f, err
	}
	if f.To, err = parseOptionalDay("to", c.Query("to")); err != nil {
		return f, err
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return f, &domain.ValidationError{Field: "to", Reason: "must not be before from"}
	}

	if f.Page, err = parseOptionalInt("page", c.Query("page")); err != nil {
		return f, err
	}
	if f.Limit, err = parseOptionalInt("limit", c.Query("limit")); err != nil {
		return f, err
	}
	return f, nil
}

// parseOptionalInt: vazio é zero; o filtro aplica o padrão.
func parseOptionalInt(field, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &domain.ValidationError{Field: field, Reason: "must be an integer"}
	}
	return n, nil
}
