package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

func NewDB(cfg *config.Config) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if cfg.IsDev() {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	return db, nil
}

// Migrate cria as tabelas e as constraints de exclusão. Idempotente.
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return fmt.Errorf("enable btree_gist: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Machine{},
		&models.Shift{},
		&models.Appointment{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	for _, stmt := range []string{
		exclusionConstraint(models.ConstraintMachineOverlap, "maquina_id"),
		exclusionConstraint(models.ConstraintPatientOverlap, "paciente_id"),
	} {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("exclusion constraint: %w", err)
		}
	}

	return nil
}

// Sessões ativas do mesmo recurso, na mesma clínica e data, não podem
// se sobrepor. int4range '[)' segue a regra meio-aberta do domínio.
func exclusionConstraint(name, column string) string {
	return fmt.Sprintf(`
DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%[1]s') THEN
		ALTER TABLE agendamentos_sessao
			ADD CONSTRAINT %[1]s
			EXCLUDE USING gist (
				clinica_id WITH =,
				%[2]s WITH =,
				data WITH =,
				int4range(hora_inicio, hora_inicio + duracao_minutos, '[)') WITH &&
			)
			WHERE (status IN ('scheduled', 'confirmed', 'in_progress'));
	END IF;
END
$$;`, name, column)
}
