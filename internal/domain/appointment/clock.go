package appointment

import (
	"fmt"
	"time"
)

const (
	MinutesPerDay = 24 * 60

	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// ClockTime is a time of day expressed in minutes since 00:00.
// EndOfDay (24:00) is valid only as the end of an interval.
type ClockTime int

const EndOfDay ClockTime = MinutesPerDay

// ParseClock aceita "HH:MM"; "24:00" representa o fim do dia.
func ParseClock(hm string) (ClockTime, error) {
	if hm == "24:00" {
		return EndOfDay, nil
	}
	t, err := time.Parse(clockLayout, hm)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q", hm)
	}
	return ClockTime(t.Hour()*60 + t.Minute()), nil
}

func (c ClockTime) Add(minutes int) ClockTime {
	return c + ClockTime(minutes)
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

func (c ClockTime) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *ClockTime) UnmarshalText(b []byte) error {
	v, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// On returns the instant of c on the given date, in loc.
func (c ClockTime) On(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), int(c)/60, int(c)%60, 0, 0, loc)
}

// Interval is a half-open time window [Start, End) within one day.
type Interval struct {
	Start ClockTime
	End   ClockTime
}

func NewInterval(start ClockTime, durationMinutes int) Interval {
	return Interval{Start: start, End: start.Add(durationMinutes)}
}

// Overlaps aplica a regra semiaberta: terminar exatamente quando o
// outro começa não é conflito.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start < o.End && o.Start < i.End
}

func (i Interval) Minutes() int {
	return int(i.End - i.Start)
}

func (i Interval) Empty() bool {
	return i.End <= i.Start
}

// ===============================
// Dates
// ===============================

// DateOf trunca t para a data civil, em UTC, para comparação estável.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
