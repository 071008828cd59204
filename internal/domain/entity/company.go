package entity

import "time"

// Company representa un emisor (empresa) que factura con RIF venezolano.
type Company struct {
	ID            string
	Name          string
	RIF           string // J-12345678-9
	FiscalAddress string
	Phone         string
	Email         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
