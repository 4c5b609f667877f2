package appointment

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
)

// =====================================================
// In-memory repository
// =====================================================

type fakeRepo struct {
	mu   sync.Mutex
	txMu sync.Mutex

	items    map[uuid.UUID]domain.Appointment
	shifts   map[uuid.UUID]domain.Shift
	machines map[uuid.UUID][]uuid.UUID

	overlapCalls int
	updateCalls  int

	// hooks de falha
	findErr   error
	insertErr error
	updateErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		items:    map[uuid.UUID]domain.Appointment{},
		shifts:   map[uuid.UUID]domain.Shift{},
		machines: map[uuid.UUID][]uuid.UUID{},
	}
}

func (r *fakeRepo) seed(ap domain.Appointment) domain.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ap.ID == uuid.Nil {
		ap.ID = uuid.New()
	}
	ap.Date = domain.DateOf(ap.Date)
	r.items[ap.ID] = ap
	return ap
}

func (r *fakeRepo) get(id uuid.UUID) domain.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[id]
}

func (r *fakeRepo) FindOverlapping(_ context.Context, q domain.OverlapQuery) ([]domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.overlapCalls++
	if r.findErr != nil {
		return nil, r.findErr
	}

	var out []domain.Appointment
	for _, ap := range r.items {
		if ap.ClinicID != q.ClinicID || !ap.Status.IsActive() {
			continue
		}
		if !ap.Date.Equal(domain.DateOf(q.Date)) || !ap.Interval().Overlaps(q.Window) {
			continue
		}
		if q.ExcludeID != nil && ap.ID == *q.ExcludeID {
			continue
		}

		matchPatient := q.PatientID != nil && ap.PatientID == *q.PatientID
		matchMachine := q.MachineID != nil && ap.MachineID == *q.MachineID
		if (q.PatientID != nil || q.MachineID != nil) && !matchPatient && !matchMachine {
			continue
		}
		out = append(out, ap)
	}
	sortByStart(out)
	return out, nil
}

func (r *fakeRepo) Insert(_ context.Context, ap *domain.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.insertErr != nil {
		return r.insertErr
	}
	if ap.ID == uuid.Nil {
		ap.ID = uuid.New()
	}
	r.items[ap.ID] = *ap
	return nil
}

func (r *fakeRepo) Update(_ context.Context, clinicID, id uuid.UUID, ch domain.Changes) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.updateCalls++
	if r.updateErr != nil {
		return nil, r.updateErr
	}

	ap, ok := r.items[id]
	if !ok || ap.ClinicID != clinicID {
		return nil, domain.ErrAppointmentNotFound
	}
	if ch.ExpectStatus != nil && ap.Status != *ch.ExpectStatus {
		return nil, domain.ErrStaleStatus
	}

	ap = ch.Apply(ap)
	ap.UpdatedAt = time.Now()
	r.items[id] = ap
	return &ap, nil
}

func (r *fakeRepo) FindByID(_ context.Context, clinicID, id uuid.UUID) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ap, ok := r.items[id]
	if !ok || ap.ClinicID != clinicID {
		return nil, domain.ErrAppointmentNotFound
	}
	return &ap, nil
}

func (r *fakeRepo) CountByStatus(_ context.Context, clinicID uuid.UUID, period domain.DateRange) (map[domain.Status]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := map[domain.Status]int64{}
	for _, ap := range r.items {
		if ap.ClinicID != clinicID {
			continue
		}
		if period.From != nil && ap.Date.Before(domain.DateOf(*period.From)) {
			continue
		}
		if period.To != nil && ap.Date.After(domain.DateOf(*period.To)) {
			continue
		}
		out[ap.Status]++
	}
	return out, nil
}

func (r *fakeRepo) ListForDay(_ context.Context, clinicID uuid.UUID, date time.Time, machineID *uuid.UUID) ([]domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Appointment
	for _, ap := range r.items {
		if ap.ClinicID != clinicID || !ap.Date.Equal(domain.DateOf(date)) {
			continue
		}
		if machineID != nil && ap.MachineID != *machineID {
			continue
		}
		out = append(out, ap)
	}
	sortByStart(out)
	return out, nil
}

// WithinTx serializa as transações e desfaz tudo em caso de erro.
func (r *fakeRepo) WithinTx(ctx context.Context, fn func(tx domain.Repository) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	r.mu.Lock()
	snapshot := make(map[uuid.UUID]domain.Appointment, len(r.items))
	for k, v := range r.items {
		snapshot[k] = v
	}
	r.mu.Unlock()

	if err := fn(r); err != nil {
		r.mu.Lock()
		r.items = snapshot
		r.mu.Unlock()
		return err
	}
	return nil
}

func (r *fakeRepo) GetShift(_ context.Context, clinicID, shiftID uuid.UUID) (*domain.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.shifts[shiftID]
	if !ok || s.ClinicID != clinicID {
		return nil, domain.ErrShiftNotFound
	}
	return &s, nil
}

func (r *fakeRepo) ListActiveMachines(_ context.Context, clinicID uuid.UUID) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uuid.UUID(nil), r.machines[clinicID]...), nil
}

func sortByStart(aps []domain.Appointment) {
	sort.Slice(aps, func(i, j int) bool { return aps[i].StartTime < aps[j].StartTime })
}

// =====================================================
// Auditor
// =====================================================

type recordingAuditor struct {
	mu     sync.Mutex
	events []audit.Event
}

func (a *recordingAuditor) Dispatch(ev audit.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, ev)
}

func (a *recordingAuditor) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.events))
	for _, ev := range a.events {
		out = append(out, ev.Action)
	}
	return out
}

// =====================================================
// Fixtures
// =====================================================

var (
	clinicA = uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001")
	clinicB = uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000002")

	patient1 = uuid.MustParse("10000000-0000-0000-0000-000000000001")
	patient2 = uuid.MustParse("10000000-0000-0000-0000-000000000002")
	machine1 = uuid.MustParse("20000000-0000-0000-0000-000000000001")
	machine2 = uuid.MustParse("20000000-0000-0000-0000-000000000002")

	day = time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC) // segunda-feira
)

func clock(hm string) domain.ClockTime {
	c, err := domain.ParseClock(hm)
	if err != nil {
		panic(err)
	}
	return c
}

func booking(clinic, patient, machine uuid.UUID, start string, minutes int, st domain.Status) domain.Appointment {
	return domain.Appointment{
		ClinicID:        clinic,
		PatientID:       patient,
		MachineID:       machine,
		Date:            day,
		StartTime:       clock(start),
		DurationMinutes: minutes,
		Status:          st,
	}
}

func createInput(patient, machine uuid.UUID, start string, minutes int) CreateAppointmentInput {
	return CreateAppointmentInput{
		ClinicID:        clinicA,
		ActorID:         "user-1",
		PatientID:       patient,
		MachineID:       machine,
		Date:            day,
		StartTime:       clock(start),
		DurationMinutes: minutes,
	}
}
