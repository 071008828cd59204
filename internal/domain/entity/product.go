package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de producto.
const (
	ProductStatusActive   = "activo"
	ProductStatusInactive = "inactivo"
)

// Product representa un producto del catálogo de la empresa.
// VATRate es la clasificación de alícuota (0, 8, 16 o 31); Exempt manda sobre VATRate.
type Product struct {
	ID          string
	CompanyID   string
	Code        string // único por empresa
	Description string
	Price       decimal.Decimal
	VATRate     int
	Exempt      bool
	Discount    decimal.Decimal // fracción 0..1 aplicada por defecto en pedidos
	Status      string
	Stock       int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
