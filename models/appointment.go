package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	AppointmentPending   = "pendiente"
	AppointmentConfirmed = "confirmada"
	AppointmentCancelled = "cancelada"
)

// Appointment end time is always computed server-side from the service duration.
// The partial unique index is the last-resort guard against double booking.
type Appointment struct {
	ID              uint      `gorm:"primaryKey" json:"idCita"`
	ClientID        uint      `gorm:"not null;index" json:"idCliente"`
	ServiceID       uint      `gorm:"not null" json:"idServicios"`
	ProfessionalID  uint      `gorm:"not null;index:idx_citas_prof_fecha,priority:1;uniqueIndex:idx_citas_slot,priority:1,where:status <> 'cancelada'" json:"idProfesional"`
	Date            Date      `gorm:"not null;index:idx_citas_prof_fecha,priority:2;uniqueIndex:idx_citas_slot,priority:2,where:status <> 'cancelada'" json:"fechaCita"`
	StartTime       string    `gorm:"type:time;not null;uniqueIndex:idx_citas_slot,priority:3,where:status <> 'cancelada'" json:"horaCita"`
	EndTime         string    `gorm:"type:time;not null" json:"finCita"`
	Status          string    `gorm:"type:varchar(12);not null;default:'pendiente'" json:"estadoCita"`
	ReferenceNumber *string   `json:"numeroReferencia"`
	CreatedAt       time.Time `json:"creadoEn"`
	UpdatedAt       time.Time `json:"actualizadoEn"`

	Client       *Client       `gorm:"foreignKey:ClientID" json:"-"`
	Service      *Service      `gorm:"foreignKey:ServiceID" json:"-"`
	Professional *Professional `gorm:"foreignKey:ProfessionalID" json:"-"`
}

func (Appointment) TableName() string { return "citas" }

// BeforeCreate defaults the status to pending.
func (a *Appointment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.Status == "" {
		a.Status = AppointmentPending
	}
	return
}

// CanTransition reports whether status may move from a.Status to next.
func (a *Appointment) CanTransition(next string) bool {
	switch a.Status {
	case AppointmentPending:
		return next == AppointmentConfirmed || next == AppointmentCancelled
	case AppointmentConfirmed:
		return next == AppointmentCancelled
	default:
		return false
	}
}

// AppointmentDetail is the joined admin view of an appointment.
type AppointmentDetail struct {
	ID               uint    `json:"idCita"`
	ClientName       string  `json:"nombreCliente"`
	ServiceName      string  `json:"servNombre"`
	ServiceDuration  int     `json:"servDuracion"`
	Date             Date    `json:"fechaCita"`
	StartTime        string  `json:"horaCita"`
	EndTime          string  `json:"finCita"`
	ProfessionalName string  `json:"nombreProfesional"`
	Status           string  `json:"estadoCita"`
	ReferenceNumber  *string `json:"numeroReferencia"`
}

// AppointmentStats counts appointments by status.
type AppointmentStats struct {
	Total     int64 `json:"totalCitas"`
	Pending   int64 `json:"citasPendientes"`
	Confirmed int64 `json:"citasConfirmadas"`
	Cancelled int64 `json:"citasCanceladas"`
}
