package models

import "time"

const (
	ScheduleActive   = "activo"
	ScheduleInactive = "inactivo"
)

// ScheduleWindow is either an availability window (active) or a closure (inactive)
// for one professional on one date.
type ScheduleWindow struct {
	ID             uint      `gorm:"primaryKey" json:"idHorario"`
	ProfessionalID uint      `gorm:"not null;index:idx_horarios_prof_fecha,priority:1" json:"idProfesional"`
	Date           Date      `gorm:"not null;index:idx_horarios_prof_fecha,priority:2" json:"fechaHorario"`
	StartTime      string    `gorm:"type:time;not null" json:"horaInicio"`
	EndTime        string    `gorm:"type:time;not null" json:"horaFinal"`
	Status         string    `gorm:"type:varchar(10);not null;default:'activo'" json:"estado"`
	CreatedAt      time.Time `json:"creadoEn"`
	UpdatedAt      time.Time `json:"actualizadoEn"`

	Professional *Professional `gorm:"foreignKey:ProfessionalID" json:"-"`
}

func (ScheduleWindow) TableName() string { return "horarios" }

func (w *ScheduleWindow) IsActive() bool { return w.Status == ScheduleActive }

func ValidScheduleStatus(s string) bool {
	return s == ScheduleActive || s == ScheduleInactive
}
