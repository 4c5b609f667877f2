package appointment

import "github.com/google/uuid"

// ConflictResult reports patient and machine double-booking separately;
// both may be true at once.
type ConflictResult struct {
	Patient bool
	Machine bool
}

func (r ConflictResult) Any() bool {
	return r.Patient || r.Machine
}

// Err returns a *ConflictError when any resource conflicts, nil otherwise.
func (r ConflictResult) Err() error {
	if !r.Any() {
		return nil
	}
	return &ConflictError{Patient: r.Patient, Machine: r.Machine}
}

// ClassifyConflicts compara o candidato com os agendamentos existentes.
// Só contam agendamentos ativos, da mesma clínica e data, que se
// sobreponham ao intervalo; excludeID é ignorado (update de si mesmo).
func ClassifyConflicts(candidate Appointment, existing []Appointment, excludeID uuid.UUID) ConflictResult {
	var res ConflictResult
	window := candidate.Interval()
	date := DateOf(candidate.Date)

	for _, ap := range existing {
		if excludeID != uuid.Nil && ap.ID == excludeID {
			continue
		}
		if ap.ClinicID != candidate.ClinicID || !ap.Status.IsActive() {
			continue
		}
		if !DateOf(ap.Date).Equal(date) || !ap.Interval().Overlaps(window) {
			continue
		}
		if ap.PatientID == candidate.PatientID {
			res.Patient = true
		}
		if ap.MachineID == candidate.MachineID {
			res.Machine = true
		}
	}
	return res
}
