package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// SQLSTATE
const (
	pgExclusionViolation   = "23P01"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// IsExclusionConflict reports whether err is a violation of one of the
// overlap exclusion constraints.
func IsExclusionConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation
}

// IsSerializationFailure reports whether the transaction lost a
// serializable conflict and can be retried by the caller.
func IsSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
}

// translate converte erros do driver nos erros do domínio. A constraint
// de exclusão é a fonte autoritativa de conflito; o check da aplicação
// só antecipa a mensagem. Falha de serialização vira recurso ocupado,
// que o cliente pode repetir.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}

	if IsExclusionConflict(err) {
		var pgErr *pgconn.PgError
		errors.As(err, &pgErr)
		return conflictFromConstraint(pgErr.ConstraintName)
	}

	if IsSerializationFailure(err) {
		return &domain.StorageError{Op: op, Err: fmt.Errorf("%w: %w", domain.ErrResourceBusy, err)}
	}

	return domain.AsStorageError(op, err)
}

func conflictFromConstraint(name string) *domain.ConflictError {
	switch name {
	case models.ConstraintPatientOverlap:
		return &domain.ConflictError{Patient: true}
	case models.ConstraintMachineOverlap:
		return &domain.ConflictError{Machine: true}
	default:
		return &domain.ConflictError{Patient: true, Machine: true}
	}
}
