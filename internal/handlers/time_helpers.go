package handlers

import (
	"strings"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

// --------------------------------------------------
// Parsing de parâmetros (erros viram ValidationError)
// --------------------------------------------------

func parseUUID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, &domain.ValidationError{Field: field, Reason: "must be a uuid"}
	}
	return id, nil
}

func parseOptionalUUID(field, raw string) (*uuid.UUID, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	id, err := parseUUID(field, raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// parseDay: data vazia é "hoje" no fuso da clínica.
func parseDay(field, raw, tz string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return timezone.TodayIn(tz), nil
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		return time.Time{}, &domain.ValidationError{Field: field, Reason: "must be YYYY-MM-DD"}
	}
	return d, nil
}

func parseOptionalDay(field, raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		return nil, &domain.ValidationError{Field: field, Reason: "must be YYYY-MM-DD"}
	}
	return &d, nil
}

func parseClock(field, raw string) (domain.ClockTime, error) {
	t, err := domain.ParseClock(strings.TrimSpace(raw))
	if err != nil {
		return 0, &domain.ValidationError{Field: field, Reason: "must be HH:MM"}
	}
	return t, nil
}
