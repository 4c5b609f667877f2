package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
)

func TestChangeStatus_FullLifecycle(t *testing.T) {
	repo := newFakeRepo()
	aud := &recordingAuditor{}
	ap := repo.seed(booking(clinicA, patient1, machine1, "07:00", 240, domain.StatusScheduled))
	ctx := context.Background()

	steps := []struct {
		uc   *ChangeStatus
		want domain.Status
	}{
		{NewConfirmAppointment(repo, aud), domain.StatusConfirmed},
		{NewStartSession(repo, aud), domain.StatusInProgress},
		{NewCompleteAppointment(repo, aud), domain.StatusCompleted},
	}

	for _, step := range steps {
		got, err := step.uc.Execute(ctx, clinicA, ap.ID, "nurse-7")
		if err != nil {
			t.Fatalf("-> %s: %v", step.want, err)
		}
		if got.Status != step.want {
			t.Fatalf("status = %s, want %s", got.Status, step.want)
		}
	}

	if n := len(aud.actions()); n != 3 {
		t.Fatalf("audit events = %d", n)
	}
	for _, a := range aud.actions() {
		if a != audit.ActionAppointmentStatus {
			t.Fatalf("unexpected action %s", a)
		}
	}
}

func TestChangeStatus_IllegalTransitions(t *testing.T) {
	tests := []struct {
		from domain.Status
		uc   func(*fakeRepo) *ChangeStatus
	}{
		{domain.StatusConfirmed, func(r *fakeRepo) *ChangeStatus { return NewConfirmAppointment(r, nil) }},
		{domain.StatusScheduled, func(r *fakeRepo) *ChangeStatus { return NewCompleteAppointment(r, nil) }},
		{domain.StatusInProgress, func(r *fakeRepo) *ChangeStatus { return NewMarkNoShow(r, nil) }},
		{domain.StatusCompleted, func(r *fakeRepo) *ChangeStatus { return NewStartSession(r, nil) }},
		{domain.StatusNoShow, func(r *fakeRepo) *ChangeStatus { return NewConfirmAppointment(r, nil) }},
	}

	for _, tt := range tests {
		repo := newFakeRepo()
		ap := repo.seed(booking(clinicA, patient1, machine1, "07:00", 240, tt.from))

		_, err := tt.uc(repo).Execute(context.Background(), clinicA, ap.ID, "")

		var te *domain.InvalidTransitionError
		if !errors.As(err, &te) || te.From != tt.from {
			t.Fatalf("from %s: expected InvalidTransitionError, got %v", tt.from, err)
		}
		if repo.updateCalls != 0 {
			t.Fatalf("from %s: store written on illegal transition", tt.from)
		}
	}
}

func TestChangeStatus_LostRaceIsInvalidTransition(t *testing.T) {
	repo := newFakeRepo()
	ap := repo.seed(booking(clinicA, patient1, machine1, "07:00", 240, domain.StatusScheduled))

	uc := NewConfirmAppointment(repo, nil)
	// outra requisição cancelou entre a leitura e a escrita
	uc.now = func() time.Time {
		repo.mu.Lock()
		cur := repo.items[ap.ID]
		cur.Status = domain.StatusCancelled
		repo.items[ap.ID] = cur
		repo.mu.Unlock()
		return time.Now()
	}

	_, err := uc.Execute(context.Background(), clinicA, ap.ID, "")

	var te *domain.InvalidTransitionError
	if !errors.As(err, &te) || te.From != domain.StatusCancelled || te.To != domain.StatusConfirmed {
		t.Fatalf("expected cancelled->confirmed InvalidTransition, got %v", err)
	}
}

func TestChangeStatus_NotFound(t *testing.T) {
	_, err := NewMarkNoShow(newFakeRepo(), nil).Execute(context.Background(), clinicA, uuid.New(), "")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCancelAppointment(t *testing.T) {
	repo := newFakeRepo()
	ap := repo.seed(booking(clinicA, patient1, machine1, "07:00", 240, domain.StatusConfirmed))
	aud := &recordingAuditor{}
	uc := NewCancelAppointment(repo, aud)

	if _, err := uc.Execute(context.Background(), clinicA, ap.ID, "", "   "); err == nil {
		t.Fatal("blank reason must be rejected")
	} else {
		var ve *domain.ValidationError
		if !errors.As(err, &ve) || ve.Field != "reason" {
			t.Fatalf("expected reason ValidationError, got %v", err)
		}
	}

	got, err := uc.Execute(context.Background(), clinicA, ap.ID, "", "paciente internado")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != domain.StatusCancelled || got.CancellationReason != "paciente internado" || got.CancelledAt == nil {
		t.Fatalf("got %+v", got)
	}

	before := repo.get(ap.ID)
	_, err = uc.Execute(context.Background(), clinicA, ap.ID, "", "outro motivo")

	var te *domain.InvalidTransitionError
	if !errors.As(err, &te) {
		t.Fatalf("second cancel must fail with InvalidTransition, got %v", err)
	}
	if after := repo.get(ap.ID); after.CancellationReason != before.CancellationReason ||
		!after.UpdatedAt.Equal(before.UpdatedAt) {
		t.Fatal("stored appointment changed by rejected cancel")
	}
	if acts := aud.actions(); len(acts) != 1 || acts[0] != audit.ActionAppointmentCancelled {
		t.Fatalf("audit actions = %v", acts)
	}

	_, err = uc.Execute(context.Background(), clinicA, ap.ID, "", "")
	if !errors.As(err, &te) {
		t.Fatalf("blank reason on cancelled appointment must be InvalidTransition, got %v", err)
	}
}

func TestCancelAppointment_CompletedIsFinal(t *testing.T) {
	repo := newFakeRepo()
	ap := repo.seed(booking(clinicA, patient1, machine1, "07:00", 240, domain.StatusCompleted))

	_, err := NewCancelAppointment(repo, nil).Execute(context.Background(), clinicA, ap.ID, "", "engano")

	var te *domain.InvalidTransitionError
	if !errors.As(err, &te) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if repo.get(ap.ID).Status != domain.StatusCompleted {
		t.Fatal("completed appointment changed")
	}
}
