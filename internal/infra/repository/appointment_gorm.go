package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Conflict
// --------------------------------------------------

func (r *AppointmentGormRepository) FindOverlapping(
	ctx context.Context,
	q domain.OverlapQuery,
) ([]domain.Appointment, error) {

	query := r.db.WithContext(ctx).
		Where(
			"clinica_id = ? AND data = CAST(? AS date) AND status IN ?",
			q.ClinicID,
			domain.FormatDate(q.Date),
			statusStrings(domain.ActiveStatuses()),
		).
		Where(
			"hora_inicio < ? AND hora_inicio + duracao_minutos > ?",
			int(q.Window.End),
			int(q.Window.Start),
		)

	switch {
	case q.PatientID != nil && q.MachineID != nil:
		query = query.Where("(paciente_id = ? OR maquina_id = ?)", *q.PatientID, *q.MachineID)
	case q.PatientID != nil:
		query = query.Where("paciente_id = ?", *q.PatientID)
	case q.MachineID != nil:
		query = query.Where("maquina_id = ?", *q.MachineID)
	}

	if q.ExcludeID != nil {
		query = query.Where("id <> ?", *q.ExcludeID)
	}

	var rows []models.Appointment
	if err := query.Order("hora_inicio ASC").Find(&rows).Error; err != nil {
		return nil, translate("find overlapping appointments", err)
	}

	return toDomainList(rows), nil
}

// --------------------------------------------------
// Appointment (create / update)
// --------------------------------------------------

func (r *AppointmentGormRepository) Insert(
	ctx context.Context,
	ap *domain.Appointment,
) error {

	if ap.ID == uuid.Nil {
		ap.ID = uuid.New()
	}

	row := fromDomain(*ap)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return translate("insert appointment", err)
	}

	*ap = toDomain(row)
	return nil
}

func (r *AppointmentGormRepository) Update(
	ctx context.Context,
	clinicID uuid.UUID,
	id uuid.UUID,
	ch domain.Changes,
) (*domain.Appointment, error) {

	cols := changeColumns(ch)
	cols["updated_at"] = time.Now()

	query := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND clinica_id = ?", id, clinicID)

	if ch.ExpectStatus != nil {
		query = query.Where("status = ?", string(*ch.ExpectStatus))
	}

	res := query.Updates(cols)
	if res.Error != nil {
		return nil, translate("update appointment", res.Error)
	}

	current, err := r.FindByID(ctx, clinicID, id)
	if err != nil {
		return nil, err
	}

	// nenhuma linha: ou não existe (FindByID já falhou) ou o status mudou
	if res.RowsAffected == 0 && ch.ExpectStatus != nil {
		return nil, domain.ErrStaleStatus
	}

	return current, nil
}

func (r *AppointmentGormRepository) FindByID(
	ctx context.Context,
	clinicID uuid.UUID,
	id uuid.UUID,
) (*domain.Appointment, error) {

	var row models.Appointment
	err := r.db.WithContext(ctx).
		Where("id = ? AND clinica_id = ?", id, clinicID).
		First(&row).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrAppointmentNotFound
	}
	if err != nil {
		return nil, translate("find appointment", err)
	}

	ap := toDomain(row)
	return &ap, nil
}

// --------------------------------------------------
// Queries
// --------------------------------------------------

func (r *AppointmentGormRepository) CountByStatus(
	ctx context.Context,
	clinicID uuid.UUID,
	period domain.DateRange,
) (map[domain.Status]int64, error) {

	query := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select("status, COUNT(*) AS total").
		Where("clinica_id = ?", clinicID)

	if period.From != nil {
		query = query.Where("data >= CAST(? AS date)", domain.FormatDate(*period.From))
	}
	if period.To != nil {
		query = query.Where("data <= CAST(? AS date)", domain.FormatDate(*period.To))
	}

	var rows []struct {
		Status string
		Total  int64
	}
	if err := query.Group("status").Scan(&rows).Error; err != nil {
		return nil, translate("count appointments by status", err)
	}

	out := make(map[domain.Status]int64, len(rows))
	for _, row := range rows {
		st, err := domain.ParseStatus(row.Status)
		if err != nil {
			return nil, domain.AsStorageError("count appointments by status", err)
		}
		out[st] = row.Total
	}
	return out, nil
}

func (r *AppointmentGormRepository) ListForDay(
	ctx context.Context,
	clinicID uuid.UUID,
	date time.Time,
	machineID *uuid.UUID,
) ([]domain.Appointment, error) {

	query := r.db.WithContext(ctx).
		Where("clinica_id = ? AND data = CAST(? AS date)", clinicID, domain.FormatDate(date))

	if machineID != nil {
		query = query.Where("maquina_id = ?", *machineID)
	}

	var rows []models.Appointment
	if err := query.Order("hora_inicio ASC, created_at ASC").Find(&rows).Error; err != nil {
		return nil, translate("list appointments for day", err)
	}

	return toDomainList(rows), nil
}

func (r *AppointmentGormRepository) WithinTx(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})

	return translate("appointment transaction", err)
}

// --------------------------------------------------
// Shifts / machines
// --------------------------------------------------

func (r *AppointmentGormRepository) GetShift(
	ctx context.Context,
	clinicID uuid.UUID,
	shiftID uuid.UUID,
) (*domain.Shift, error) {

	var row models.Shift
	err := r.db.WithContext(ctx).
		Where("id = ? AND clinica_id = ?", shiftID, clinicID).
		First(&row).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrShiftNotFound
	}
	if err != nil {
		return nil, translate("find shift", err)
	}

	shift, err := shiftToDomain(row)
	if err != nil {
		return nil, domain.AsStorageError("decode shift", err)
	}
	return shift, nil
}

func (r *AppointmentGormRepository) ListActiveMachines(
	ctx context.Context,
	clinicID uuid.UUID,
) ([]uuid.UUID, error) {

	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.Machine{}).
		Where("clinica_id = ? AND ativa = true", clinicID).
		Order("nome ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, translate("list machines", err)
	}
	return ids, nil
}

// --------------------------------------------------
// Mapping
// --------------------------------------------------

func toDomain(row models.Appointment) domain.Appointment {
	return domain.Appointment{
		ID:                 row.ID,
		ClinicID:           row.ClinicID,
		PatientID:          row.PatientID,
		MachineID:          row.MachineID,
		Date:               domain.DateOf(row.Date),
		StartTime:          domain.ClockTime(row.StartMinute),
		DurationMinutes:    row.DurationMinutes,
		Status:             domain.Status(row.Status),
		CancellationReason: row.CancellationReason,
		CancelledAt:        row.CancelledAt,
		Observations:       row.Observations,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
}

func toDomainList(rows []models.Appointment) []domain.Appointment {
	out := make([]domain.Appointment, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomain(row))
	}
	return out
}

func fromDomain(ap domain.Appointment) models.Appointment {
	return models.Appointment{
		ID:                 ap.ID,
		ClinicID:           ap.ClinicID,
		PatientID:          ap.PatientID,
		MachineID:          ap.MachineID,
		Date:               domain.DateOf(ap.Date),
		StartMinute:        int(ap.StartTime),
		DurationMinutes:    ap.DurationMinutes,
		Status:             string(ap.Status),
		CancellationReason: ap.CancellationReason,
		CancelledAt:        ap.CancelledAt,
		Observations:       ap.Observations,
		CreatedAt:          ap.CreatedAt,
		UpdatedAt:          ap.UpdatedAt,
	}
}

func changeColumns(ch domain.Changes) map[string]any {
	cols := map[string]any{}

	if ch.PatientID != nil {
		cols["paciente_id"] = *ch.PatientID
	}
	if ch.MachineID != nil {
		cols["maquina_id"] = *ch.MachineID
	}
	if ch.Date != nil {
		cols["data"] = gorm.Expr("CAST(? AS date)", domain.FormatDate(*ch.Date))
	}
	if ch.StartTime != nil {
		cols["hora_inicio"] = int(*ch.StartTime)
	}
	if ch.DurationMinutes != nil {
		cols["duracao_minutos"] = *ch.DurationMinutes
	}
	if ch.Observations != nil {
		cols["observacoes"] = *ch.Observations
	}
	if ch.Status != nil {
		cols["status"] = string(*ch.Status)
	}
	if ch.CancellationReason != nil {
		cols["motivo_cancelamento"] = *ch.CancellationReason
	}
	if ch.CancelledAt != nil {
		cols["cancelado_em"] = *ch.CancelledAt
	}

	return cols
}

func shiftToDomain(row models.Shift) (*domain.Shift, error) {
	start, err := domain.ParseClock(row.StartTime)
	if err != nil {
		return nil, fmt.Errorf("shift %s start: %w", row.ID, err)
	}
	end, err := domain.ParseClock(row.EndTime)
	if err != nil {
		return nil, fmt.Errorf("shift %s end: %w", row.ID, err)
	}

	weekdays, err := parseWeekdays(row.Weekdays)
	if err != nil {
		return nil, fmt.Errorf("shift %s weekdays: %w", row.ID, err)
	}

	return &domain.Shift{
		ID:       row.ID,
		ClinicID: row.ClinicID,
		Name:     row.Name,
		Window:   domain.Interval{Start: start, End: end},
		Weekdays: weekdays,
		Active:   row.Active,
	}, nil
}

func parseWeekdays(raw string) ([]time.Weekday, error) {
	var out []time.Weekday
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 6 {
			return nil, fmt.Errorf("invalid weekday %q", part)
		}
		out = append(out, time.Weekday(n))
	}
	return out, nil
}

func statusStrings(sts []domain.Status) []string {
	out := make([]string, len(sts))
	for i, s := range sts {
		out[i] = string(s)
	}
	return out
}

// Compile-time check
var (
	_ domain.Repository      = (*AppointmentGormRepository)(nil)
	_ domain.ShiftProvider   = (*AppointmentGormRepository)(nil)
	_ domain.MachineProvider = (*AppointmentGormRepository)(nil)
)
