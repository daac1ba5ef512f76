package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReminderSent   = "sent"
	ReminderFailed = "failed"
)

// ReminderTemplate holds the message body sent the day before an appointment.
// Placeholders: [ClientName], [Service], [Professional], [Date], [Time].
type ReminderTemplate struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	IsActive  bool      `gorm:"default:true" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (t *ReminderTemplate) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}

type ReminderLog struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	AppointmentID uint       `gorm:"index;not null" json:"idCita"`
	ClientID      uint       `gorm:"index;not null" json:"idCliente"`
	TemplateID    *uuid.UUID `gorm:"type:uuid" json:"templateId,omitempty"` // nil when the built-in message was used
	Message       string     `gorm:"type:text" json:"message"`
	Status        string     `gorm:"type:varchar(20)" json:"status"` // sent, failed
	ErrorMessage  string     `gorm:"type:text" json:"errorMessage,omitempty"`
	Channel       string     `gorm:"type:varchar(20)" json:"channel"` // whatsapp, sms
	SentAt        time.Time  `json:"sentAt"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func (r *ReminderLog) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}

// ReminderCandidate is a booked appointment that has not been reminded yet.
type ReminderCandidate struct {
	AppointmentID    uint
	ClientID         uint
	ClientName       string
	ClientPhone      string
	ServiceName      string
	ProfessionalName string
	Date             Date
	StartTime        string
}
