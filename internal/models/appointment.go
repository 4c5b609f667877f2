package models

import (
	"time"

	"github.com/google/uuid"
)

// Appointment é a linha de agendamentos_sessao. O fim da sessão não é
// coluna: deriva de hora_inicio + duracao_minutos.
type Appointment struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	ClinicID  uuid.UUID `gorm:"column:clinica_id;type:uuid;not null;index:idx_agendamentos_clinica_data,priority:1" json:"clinica_id"`
	PatientID uuid.UUID `gorm:"column:paciente_id;type:uuid;not null;index" json:"paciente_id"`
	MachineID uuid.UUID `gorm:"column:maquina_id;type:uuid;not null;index" json:"maquina_id"`

	Date            time.Time `gorm:"column:data;type:date;not null;index:idx_agendamentos_clinica_data,priority:2" json:"data"`
	StartMinute     int       `gorm:"column:hora_inicio;not null" json:"hora_inicio"`
	DurationMinutes int       `gorm:"column:duracao_minutos;not null;check:chk_agendamentos_duracao,duracao_minutos > 0" json:"duracao_minutos"`

	Status string `gorm:"size:20;not null;default:'scheduled'" json:"status"`

	CancellationReason string     `gorm:"column:motivo_cancelamento;type:text" json:"motivo_cancelamento"`
	CancelledAt        *time.Time `gorm:"column:cancelado_em" json:"cancelado_em"`
	Observations       string     `gorm:"column:observacoes;type:text" json:"observacoes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Appointment) TableName() string {
	return "agendamentos_sessao"
}

// Exclusion constraints de agendamentos_sessao (btree_gist). Impedem
// sobreposição de sessões ativas por máquina e por paciente.
const (
	ConstraintMachineOverlap = "agendamentos_maquina_sem_sobreposicao"
	ConstraintPatientOverlap = "agendamentos_paciente_sem_sobreposicao"
)
