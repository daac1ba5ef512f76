package models

// ServiceSummary aggregates non-cancelled bookings of one service.
type ServiceSummary struct {
	ServiceID uint    `json:"idServicios"`
	Name      string  `json:"servNombre"`
	Count     int     `json:"cantidad"`
	Revenue   float64 `json:"ingresos"`
}

type ClientSummary struct {
	ClientID uint   `json:"idCliente"`
	Name     string `json:"nombreCliente"`
	Visits   int    `json:"visitas"`
}
