package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// Sink persists audit events.
type Sink interface {
	Log(ctx context.Context, ev Event) error
}

type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Log(ctx context.Context, ev Event) error {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	row := models.AuditLog{
		ClinicID: ev.ClinicID,
		ActorID:  ev.ActorID,
		Action:   ev.Action,
		Entity:   ev.Entity,
		EntityID: ev.EntityID,
		Metadata: metaJSON,
	}

	return l.db.WithContext(ctx).Create(&row).Error
}

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

// Filter seleciona logs de uma clínica. From e To são dias inteiros,
// inclusivos; zero em Page ou Limit usa o padrão.
type Filter struct {
	Action string
	Entity string
	From   *time.Time
	To     *time.Time
	Page   int
	Limit  int
}

func (f Filter) normalized() Filter {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > maxPageLimit {
		f.Limit = defaultPageLimit
	}
	return f
}

func (f Filter) offset() int {
	return (f.Page - 1) * f.Limit
}

type Page struct {
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
	Total int64             `json:"total"`
	Logs  []models.AuditLog `json:"logs"`
}

// List pages the clinic's audit trail, newest first.
func (l *Logger) List(ctx context.Context, clinicID uuid.UUID, f Filter) (*Page, error) {
	f = f.normalized()

	q := l.db.
		WithContext(ctx).
		Model(&models.AuditLog{}).
		Where("clinica_id = ?", clinicID)

	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.Entity != "" {
		q = q.Where("entity = ?", f.Entity)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", f.To.AddDate(0, 0, 1))
	}

	// sessão nova: Count não contamina a listagem
	q = q.Session(&gorm.Session{})

	page := &Page{Page: f.Page, Limit: f.Limit, Logs: []models.AuditLog{}}
	if err := q.Count(&page.Total).Error; err != nil {
		return nil, err
	}
	if page.Total == 0 {
		return page, nil
	}

	if err := q.
		Order("created_at DESC").
		Limit(f.Limit).
		Offset(f.offset()).
		Find(&page.Logs).Error; err != nil {
		return nil, err
	}
	return page, nil
}
