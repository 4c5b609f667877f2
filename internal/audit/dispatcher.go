package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ActionAppointmentCreated   = "appointment_created"
	ActionAppointmentUpdated   = "appointment_updated"
	ActionAppointmentConflict  = "appointment_conflict"
	ActionAppointmentStatus    = "appointment_status_changed"
	ActionAppointmentCancelled = "appointment_cancelled"

	EntityAppointment = "appointment"
)

const (
	defaultQueueSize = 100
	sinkTimeout      = 5 * time.Second
)

type Event struct {
	ClinicID uuid.UUID
	ActorID  string
	Action   string
	Entity   string
	EntityID *uuid.UUID
	Metadata any
}

// Dispatcher grava eventos de auditoria fora do caminho da requisição.
type Dispatcher struct {
	sink  Sink
	log   *zap.Logger
	queue chan Event

	wg        sync.WaitGroup
	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

func NewDispatcher(sink Sink, log *zap.Logger, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	if log == nil {
		log = zap.NewNop()
	}

	d := &Dispatcher{
		sink:  sink,
		log:   log.Named("audit"),
		queue: make(chan Event, queueSize),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
		if err := d.sink.Log(ctx, ev); err != nil {
			d.log.Error("audit write failed",
				zap.String("action", ev.Action),
				zap.Stringer("clinic_id", ev.ClinicID),
				zap.Error(err),
			)
		}
		cancel()
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return
	}

	select {
	case d.queue <- ev:
	default:
		// fila cheia: descartamos o evento, a API nunca quebra por auditoria
		d.log.Warn("audit queue full, dropping event", zap.String("action", ev.Action))
	}
}

// Close stops accepting events and waits until the queue is drained.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.queue)
		d.mu.Unlock()
	})
	d.wg.Wait()
}
