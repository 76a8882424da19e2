package entity

import "time"

// Company representa una organización/tenant del sistema.
type Company struct {
	ID        string
	Name      string
	TaxID     string // identificación fiscal del emisor
	Address   string
	Phone     string
	Email     string
	// Prefijo por defecto para la numeración de facturas (ej. "FAC").
	InvoicePrefix string
	Status        string // active, suspended, inactive
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
