package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	"github.com/BruksfildServices01/clinic-scheduler/internal/handlers"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/lock"
	infraRepo "github.com/BruksfildServices01/clinic-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

type Deps struct {
	DB     *gorm.DB
	Redis  *redis.Client // opcional
	Config *config.Config
	Log    *zap.Logger
	Audit  *audit.Dispatcher
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(d.Log),
		middleware.CORSMiddleware(cfg.CORSOrigins),
	)

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(d.DB)

	var locker lock.Locker = lock.NopLocker{}
	if d.Redis != nil {
		locker = lock.NewRedisLocker(d.Redis, cfg.LockTTL)
	}

	// ======================================================
	// 🧠 USE CASES: APPOINTMENTS
	// ======================================================
	appointmentHandler := handlers.NewAppointmentHandler(handlers.AppointmentUseCases{
		Create:   ucAppointment.NewCreateAppointment(appointmentRepo, locker, d.Audit, d.Log),
		Update:   ucAppointment.NewUpdateAppointment(appointmentRepo, locker, d.Audit, d.Log),
		Get:      ucAppointment.NewGetAppointment(appointmentRepo),
		List:     ucAppointment.NewListAppointmentsByDate(appointmentRepo),
		Confirm:  ucAppointment.NewConfirmAppointment(appointmentRepo, d.Audit),
		Start:    ucAppointment.NewStartSession(appointmentRepo, d.Audit),
		Complete: ucAppointment.NewCompleteAppointment(appointmentRepo, d.Audit),
		NoShow:   ucAppointment.NewMarkNoShow(appointmentRepo, d.Audit),
		Cancel:   ucAppointment.NewCancelAppointment(appointmentRepo, d.Audit),
	}, cfg.ClinicTimezone)

	scheduleHandler := handlers.NewScheduleHandler(
		ucAppointment.NewGetAvailability(
			appointmentRepo,
			appointmentRepo,
			appointmentRepo,
			cfg.DefaultSessionMinutes,
		),
		ucAppointment.NewGetStatistics(appointmentRepo),
		cfg.ClinicTimezone,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(audit.New(d.DB))
	healthHandler := handlers.NewHealthHandler(postgresPinger(d.DB), redisPinger(d.Redis), cfg.AppEnv)

	// ======================================================
	// 🩺 HEALTH
	// ======================================================
	r.GET("/health/live", healthHandler.Liveness)
	r.GET("/health/ready", healthHandler.Readiness)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	api.Use(
		middleware.TenantMiddleware(cfg),
		middleware.Timeout(cfg.RequestTimeout),
	)
	{
		// ------------------------------
		// APPOINTMENTS
		// ------------------------------
		api.POST("/appointments", appointmentHandler.Create)
		api.GET("/appointments", appointmentHandler.ListByDate)
		api.GET("/appointments/:id", appointmentHandler.Get)
		api.PATCH("/appointments/:id", appointmentHandler.Update)
		api.PATCH("/appointments/:id/confirm", appointmentHandler.Confirm)
		api.PATCH("/appointments/:id/start", appointmentHandler.Start)
		api.PATCH("/appointments/:id/complete", appointmentHandler.Complete)
		api.PATCH("/appointments/:id/no-show", appointmentHandler.NoShow)
		api.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)

		// ------------------------------
		// AGENDA
		// ------------------------------
		api.GET("/slots", scheduleHandler.Slots)
		api.GET("/statistics", scheduleHandler.Statistics)

		api.GET("/audit-logs", auditLogsHandler.List)
	}
}

func postgresPinger(db *gorm.DB) handlers.Pinger {
	return handlers.PingFunc(func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})
}

func redisPinger(client *redis.Client) handlers.Pinger {
	if client == nil {
		return nil
	}
	return handlers.PingFunc(func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
}
