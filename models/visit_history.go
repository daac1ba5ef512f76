package models

import "time"

// VisitHistory (HV) records what was done during an appointment.
type VisitHistory struct {
	ID                 uint      `gorm:"primaryKey" json:"idHv"`
	AppointmentID      uint      `gorm:"not null;index" json:"idCita"`
	Description        string    `gorm:"type:text;not null" json:"hvDesc"`
	ServiceDescription string    `gorm:"type:text;not null" json:"servDescripcion"`
	ImageBefore        []byte    `gorm:"type:bytea" json:"hvImagenAntes"`
	ImageAfter         []byte    `gorm:"type:bytea" json:"hvImagenDespues"`
	CreatedAt          time.Time `json:"hvFechaCreacion"`
	UpdatedAt          time.Time `json:"actualizadoEn"`

	Appointment *Appointment `gorm:"foreignKey:AppointmentID" json:"-"`
}

func (VisitHistory) TableName() string { return "historias_visita" }

// VisitHistoryDetail joins a visit history row with its appointment,
// client, service and professional.
type VisitHistoryDetail struct {
	ID                 uint      `json:"idHv"`
	Description        string    `json:"hvDesc"`
	ServiceDescription string    `json:"servDescripcion"`
	ImageBefore        []byte    `json:"hvImagenAntes"`
	ImageAfter         []byte    `json:"hvImagenDespues"`
	CreatedAt          time.Time `json:"hvFechaCreacion"`
	AppointmentID      uint      `json:"idCita"`
	Date               Date      `json:"fechaCita"`
	StartTime          string    `json:"horaCita"`
	EndTime            string    `json:"finCita"`
	Status             string    `json:"estadoCita"`
	ClientID           uint      `json:"idCliente"`
	ClientName         string    `json:"nombreCliente"`
	ClientPhone        string    `json:"celularCliente"`
	ServiceName        string    `json:"servNombre"`
	ProfessionalName   string    `json:"nombreProfesional"`
}
