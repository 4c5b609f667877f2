package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	dbpkg "github.com/BruksfildServices01/clinic-scheduler/internal/db"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/lock"
	infraRepo "github.com/BruksfildServices01/clinic-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

type seedOptions struct {
	clinic   string
	machines int
	patients int
	days     int
	bookings int
}

func seedCmd() *cobra.Command {
	var opts seedOptions

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate a clinic with machines, shifts and random sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			if err := dbpkg.Migrate(a.db); err != nil {
				return err
			}
			return a.seed(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.clinic, "clinic", "", "clinic id (random when empty)")
	cmd.Flags().IntVar(&opts.machines, "machines", 6, "machines to create")
	cmd.Flags().IntVar(&opts.patients, "patients", 20, "distinct patients")
	cmd.Flags().IntVar(&opts.days, "days", 7, "days ahead to fill")
	cmd.Flags().IntVar(&opts.bookings, "bookings", 40, "booking attempts")
	return cmd
}

func (a *app) seed(ctx context.Context, opts seedOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.days <= 0 {
		opts.days = 1
	}

	clinicID := uuid.New()
	if opts.clinic != "" {
		id, err := uuid.Parse(opts.clinic)
		if err != nil {
			return fmt.Errorf("invalid --clinic: %w", err)
		}
		clinicID = id
	}

	// --------------------------------------------------
	// Máquinas e turnos
	// --------------------------------------------------
	machineIDs := make([]uuid.UUID, 0, opts.machines)
	for i := 0; i < opts.machines; i++ {
		m := models.Machine{
			ID:       uuid.New(),
			ClinicID: clinicID,
			Name:     fmt.Sprintf("Máquina %02d %s", i+1, gofakeit.Word()),
			Active:   true,
		}
		if err := a.db.WithContext(ctx).Create(&m).Error; err != nil {
			return fmt.Errorf("create machine: %w", err)
		}
		machineIDs = append(machineIDs, m.ID)
	}

	shifts := []models.Shift{
		{ID: uuid.New(), ClinicID: clinicID, Name: "Manhã", StartTime: "07:00", EndTime: "13:00", Weekdays: "1,2,3,4,5,6", Active: true},
		{ID: uuid.New(), ClinicID: clinicID, Name: "Tarde", StartTime: "13:00", EndTime: "19:00", Weekdays: "1,2,3,4,5,6", Active: true},
	}
	if err := a.db.WithContext(ctx).Create(&shifts).Error; err != nil {
		return fmt.Errorf("create shifts: %w", err)
	}

	// --------------------------------------------------
	// Sessões pelo próprio use case (conflitos são rejeitados)
	// --------------------------------------------------
	patients := make([]uuid.UUID, opts.patients)
	for i := range patients {
		patients[i] = uuid.New()
	}

	create := ucAppointment.NewCreateAppointment(
		infraRepo.NewAppointmentGormRepository(a.db),
		lock.NopLocker{},
		nil,
		a.log,
	)

	starts := []string{"07:00", "11:00", "13:00", "15:00"}
	today := domain.DateOf(time.Now())
	created, conflicts := 0, 0

	for i := 0; i < opts.bookings && len(patients) > 0 && len(machineIDs) > 0; i++ {
		start, _ := domain.ParseClock(starts[gofakeit.Number(0, len(starts)-1)])

		_, err := create.Execute(ctx, ucAppointment.CreateAppointmentInput{
			ClinicID:        clinicID,
			ActorID:         "seed",
			PatientID:       patients[gofakeit.Number(0, len(patients)-1)],
			MachineID:       machineIDs[gofakeit.Number(0, len(machineIDs)-1)],
			Date:            today.AddDate(0, 0, gofakeit.Number(0, opts.days-1)),
			StartTime:       start,
			DurationMinutes: gofakeit.RandomInt([]int{120, 180, 240}),
			Observations:    gofakeit.Name(),
		})

		var ce *domain.ConflictError
		switch {
		case err == nil:
			created++
		case errors.As(err, &ce):
			conflicts++
		default:
			return err
		}
	}

	a.log.Info("seed done",
		zap.Stringer("clinic_id", clinicID),
		zap.Int("machines", len(machineIDs)),
		zap.Int("appointments", created),
		zap.Int("conflicts_skipped", conflicts),
	)
	return nil
}
