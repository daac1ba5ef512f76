package models

// DefaultServiceDuration is applied on create when no duration is given.
const DefaultServiceDuration = 60

type Service struct {
	ID              uint    `gorm:"primaryKey" json:"idServicios"`
	Name            string  `gorm:"not null" json:"servNombre"`
	Description     string  `json:"servDescripcion"`
	Cost            float64 `gorm:"type:decimal(10,2);not null;default:0" json:"servCosto"`
	DurationMinutes int     `gorm:"not null;default:60" json:"servDuracion"` // in minutes
	Image           []byte  `gorm:"type:bytea" json:"servImagen"`
}

func (Service) TableName() string { return "servicios" }
