package models

import "time"

type Professional struct {
	ID        uint   `gorm:"primaryKey" json:"idProfesional"`
	Name      string `gorm:"not null" json:"nombreProfesional"`
	Email     string `json:"correoProfesional"`
	Phone     string `json:"celularProfesional"`
	Specialty string `json:"especialidad"`

	// Fallback working hours used when no active schedule window exists for a date.
	DefaultStart *string `gorm:"type:time" json:"horaInicioDefecto"`
	DefaultEnd   *string `gorm:"type:time" json:"horaFinDefecto"`

	CreatedAt time.Time `json:"creadoEn"`
	UpdatedAt time.Time `json:"actualizadoEn"`
}

func (Professional) TableName() string { return "profesionales" }

// HasDefaultHours reports whether both default bounds are set.
func (p *Professional) HasDefaultHours() bool {
	return p.DefaultStart != nil && p.DefaultEnd != nil && *p.DefaultStart != "" && *p.DefaultEnd != ""
}
