package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
)

// Respond traduz os erros do domínio para status HTTP. Cada tipo de erro
// tem código e status próprios.
func Respond(c *gin.Context, err error) {
	var (
		ve *domain.ValidationError
		ce *domain.ConflictError
		te *domain.InvalidTransitionError
		se *domain.StorageError
	)

	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, HTTPError{
			Code:    "validation_failed",
			Message: ve.Error(),
			Field:   ve.Field,
		})

	case errors.Is(err, domain.ErrShiftNotFound):
		NotFound(c, "shift_not_found", "Turno não encontrado.")

	case errors.Is(err, domain.ErrNotFound):
		NotFound(c, "appointment_not_found", "Agendamento não encontrado.")

	case errors.As(err, &ce):
		c.JSON(http.StatusConflict, HTTPError{
			Code:      "time_conflict",
			Message:   "Conflito de horário.",
			Resources: ce.Resources(),
		})

	case errors.As(err, &te):
		Write(c, http.StatusConflict, "invalid_transition", te.Error())

	case errors.As(err, &se):
		if errors.Is(err, domain.ErrResourceBusy) {
			ServiceUnavailable(c, "resource_busy", "Recurso em agendamento por outra requisição. Tente novamente.")
			return
		}
		ServiceUnavailable(c, "storage_unavailable", "Armazenamento indisponível. Tente novamente.")

	default:
		Internal(c, "internal_error", "Erro interno.")
	}
}
