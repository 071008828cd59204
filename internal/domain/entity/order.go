package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de pedido. Un pedido facturado es inmutable.
const (
	OrderStatusPending  = "PENDIENTE"
	OrderStatusInvoiced = "FACTURADO"
)

// Order representa un pedido, precursor de una factura.
type Order struct {
	ID           string
	CompanyID    string
	CustomerID   string
	Status       string
	ExchangeRate decimal.Decimal // tasa BCV al momento de crear el pedido
	Total        decimal.Decimal
	Observations string
	Lines        []OrderLine
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsPending indica si el pedido todavía puede modificarse o facturarse.
func (o *Order) IsPending() bool {
	return o.Status == OrderStatusPending
}

// OrderLine es una línea de pedido. Exempt y VATRate se copian del producto.
type OrderLine struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
	VATRate   int
	Exempt    bool
	Total     decimal.Decimal
}
