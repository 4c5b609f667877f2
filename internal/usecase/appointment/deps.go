package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/lock"
)

// Auditor recebe eventos de auditoria; *audit.Dispatcher implementa.
type Auditor interface {
	Dispatch(ev audit.Event)
}

type nopAuditor struct{}

func (nopAuditor) Dispatch(audit.Event) {}

func auditorOrNop(a Auditor) Auditor {
	if a == nil {
		return nopAuditor{}
	}
	return a
}

func lockerOrNop(l lock.Locker) lock.Locker {
	if l == nil {
		return lock.NopLocker{}
	}
	return l
}

// bookingKeys: máquina e paciente no dia, as duas dimensões de conflito.
func bookingKeys(ap domain.Appointment) []string {
	return []string{
		lock.MachineKey(ap.ClinicID, ap.MachineID, ap.Date),
		lock.PatientKey(ap.ClinicID, ap.PatientID, ap.Date),
	}
}

func sameKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// withBookingLock runs fn holding the booking locks. Contention becomes a
// StorageError wrapping ErrResourceBusy.
func withBookingLock(
	ctx context.Context,
	locker lock.Locker,
	keys []string,
	fn func(ctx context.Context) error,
) error {

	err := locker.WithLock(ctx, keys, fn)
	if errors.Is(err, lock.ErrLockNotAcquired) {
		return &domain.StorageError{Op: "acquire booking lock", Err: domain.ErrResourceBusy}
	}
	return domain.AsStorageError("booking lock", err)
}

func entityID(id uuid.UUID) *uuid.UUID {
	return &id
}

func utcNow() time.Time {
	return time.Now().UTC()
}
