package appointment

import (
	"time"

	"github.com/google/uuid"
)

type AvailabilityInput struct {
	ClinicID  uuid.UUID
	ShiftID   uuid.UUID
	MachineID *uuid.UUID
	Date      time.Time

	// StepMinutes zero means the configured default session length.
	StepMinutes int
}

type TimeSlot struct {
	Start     ClockTime `json:"start"`
	End       ClockTime `json:"end"`
	Available bool      `json:"available"`
}

// Shift (turno) is a recurring window in which sessions are scheduled.
// An empty Weekdays list means every day.
type Shift struct {
	ID       uuid.UUID
	ClinicID uuid.UUID
	Name     string
	Window   Interval
	Weekdays []time.Weekday
	Active   bool
}

func (s Shift) AppliesTo(date time.Time) bool {
	if len(s.Weekdays) == 0 {
		return true
	}
	wd := date.Weekday()
	for _, d := range s.Weekdays {
		if d == wd {
			return true
		}
	}
	return false
}

// GenerateSlots parte a janela em fatias de step minutos, na ordem.
// A última fatia é descartada se passar do fim da janela.
func GenerateSlots(window Interval, step int) []TimeSlot {
	slots := []TimeSlot{}
	if step <= 0 || window.Empty() {
		return slots
	}

	for cur := window.Start; cur.Add(step) <= window.End; cur = cur.Add(step) {
		slots = append(slots, TimeSlot{
			Start:     cur,
			End:       cur.Add(step),
			Available: true,
		})
	}
	return slots
}

func (s TimeSlot) Interval() Interval {
	return Interval{Start: s.Start, End: s.End}
}
