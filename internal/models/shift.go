package models

import (
	"time"

	"github.com/google/uuid"
)

// Shift (turno) pertence ao CRUD da clínica; aqui só é lido.
type Shift struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClinicID uuid.UUID `gorm:"column:clinica_id;type:uuid;not null;index" json:"clinica_id"`

	Name string `gorm:"column:nome;size:100;not null" json:"nome"`

	// "HH:MM"
	StartTime string `gorm:"column:hora_inicio;size:5;not null" json:"hora_inicio"`
	EndTime   string `gorm:"column:hora_fim;size:5;not null" json:"hora_fim"`

	// dias da semana separados por vírgula, 0 = domingo ("1,3,5")
	Weekdays string `gorm:"column:dias_semana;size:20" json:"dias_semana"`
	Active   bool   `gorm:"column:ativo;default:true" json:"ativo"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Shift) TableName() string {
	return "turnos"
}

type Machine struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClinicID uuid.UUID `gorm:"column:clinica_id;type:uuid;not null;index" json:"clinica_id"`

	Name   string `gorm:"column:nome;size:100;not null" json:"nome"`
	Active bool   `gorm:"column:ativa;default:true" json:"ativa"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Machine) TableName() string {
	return "maquinas"
}
