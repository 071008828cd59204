package entity

import "time"

// Tipos de documento de identidad aceptados por la imprenta digital.
const (
	DocumentTypeV = "V" // venezolano
	DocumentTypeE = "E" // extranjero
	DocumentTypeJ = "J" // jurídico
	DocumentTypeP = "P" // pasaporte
	DocumentTypeG = "G" // gobierno
)

// Customer representa un cliente (receptor) de la empresa.
type Customer struct {
	ID            string
	CompanyID     string
	Name          string
	TaxID         string // RIF o cédula, sin prefijo
	DocumentType  string // ver DocumentType*
	FiscalAddress string
	Email         string
	Phone         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// FullTaxID devuelve la identificación con prefijo (ej. "V-12345678").
func (c *Customer) FullTaxID() string {
	if c.DocumentType == "" {
		return c.TaxID
	}
	return c.DocumentType + "-" + c.TaxID
}
