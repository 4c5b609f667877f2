package appointment

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestClassifyConflicts(t *testing.T) {
	clinic := uuid.New()
	otherClinic := uuid.New()
	patient := uuid.New()
	machine := uuid.New()
	date := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)

	base := Appointment{
		ID:              uuid.New(),
		ClinicID:        clinic,
		PatientID:       patient,
		MachineID:       machine,
		Date:            date,
		StartTime:       480,
		DurationMinutes: 60,
		Status:          StatusScheduled,
	}

	candidate := func(p, m uuid.UUID, start ClockTime, dur int) Appointment {
		return Appointment{
			ClinicID:        clinic,
			PatientID:       p,
			MachineID:       m,
			Date:            date,
			StartTime:       start,
			DurationMinutes: dur,
		}
	}

	tests := []struct {
		name     string
		existing Appointment
		cand     Appointment
		exclude  uuid.UUID
		want     ConflictResult
	}{
		{
			name:     "same patient other machine",
			existing: base,
			cand:     candidate(patient, uuid.New(), 510, 30),
			want:     ConflictResult{Patient: true},
		},
		{
			name:     "same patient same machine",
			existing: base,
			cand:     candidate(patient, machine, 510, 30),
			want:     ConflictResult{Patient: true, Machine: true},
		},
		{
			name:     "other patient same machine",
			existing: base,
			cand:     candidate(uuid.New(), machine, 450, 60),
			want:     ConflictResult{Machine: true},
		},
		{
			name:     "adjacent after",
			existing: base,
			cand:     candidate(patient, machine, 540, 60),
		},
		{
			name:     "adjacent before",
			existing: base,
			cand:     candidate(patient, machine, 420, 60),
		},
		{
			name: "other clinic never conflicts",
			existing: func() Appointment {
				a := base
				a.ClinicID = otherClinic
				return a
			}(),
			cand: candidate(patient, machine, 480, 60),
		},
		{
			name: "other date",
			existing: func() Appointment {
				a := base
				a.Date = date.AddDate(0, 0, 1)
				return a
			}(),
			cand: candidate(patient, machine, 480, 60),
		},
		{
			name:     "excluded self",
			existing: base,
			cand:     candidate(patient, machine, 500, 60),
			exclude:  base.ID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyConflicts(tt.cand, []Appointment{tt.existing}, tt.exclude)
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestClassifyConflictsIgnoresTerminal(t *testing.T) {
	clinic, patient, machine := uuid.New(), uuid.New(), uuid.New()
	date := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)

	for _, st := range []Status{StatusCancelled, StatusCompleted, StatusNoShow} {
		existing := Appointment{
			ID: uuid.New(), ClinicID: clinic, PatientID: patient, MachineID: machine,
			Date: date, StartTime: 480, DurationMinutes: 240, Status: st,
		}
		cand := Appointment{
			ClinicID: clinic, PatientID: patient, MachineID: machine,
			Date: date, StartTime: 480, DurationMinutes: 240,
		}
		if got := ClassifyConflicts(cand, []Appointment{existing}, uuid.Nil); got.Any() {
			t.Errorf("%s appointment reported as conflict: %+v", st, got)
		}
	}
}

func TestConflictResultErr(t *testing.T) {
	if (ConflictResult{}).Err() != nil {
		t.Fatal("no conflict must yield nil error")
	}
	err := ConflictResult{Patient: true, Machine: true}.Err()
	ce, ok := err.(*ConflictError)
	if !ok {
		t.Fatalf("got %T", err)
	}
	if !ce.Patient || !ce.Machine {
		t.Fatalf("flags lost: %+v", ce)
	}
	if ce.Error() != "time conflict: patient and machine already booked" {
		t.Fatalf("message = %q", ce.Error())
	}
}
