package models

import "time"

// Client is identified by phone number. Rows are created lazily by the
// booking flow and never updated in place by it.
type Client struct {
	ID        uint      `gorm:"primaryKey" json:"idCliente"`
	Name      string    `gorm:"not null" json:"nombreCliente"`
	Phone     string    `gorm:"not null;uniqueIndex:idx_clientes_celular" json:"celularCliente"`
	BirthDate Date      `json:"fechaNacCliente"`
	CreatedAt time.Time `json:"creadoEn"`
}

func (Client) TableName() string { return "clientes" }
