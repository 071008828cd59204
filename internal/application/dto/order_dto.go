package dto

import (
	"time"

	"github.com/jhoicas/facturacion-ve/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest body para POST /api/pedidos.
// Precio, alícuota y exento se toman del producto; el descuento también, salvo que se indique.
type CreateOrderRequest struct {
	CustomerID   string             `json:"id_cliente" validate:"required,uuid"`
	Observations string             `json:"observaciones" validate:"omitempty,max=1000"`
	Lines        []OrderLineRequest `json:"detalles" validate:"required,min=1,dive"`
}

// OrderLineRequest línea de pedido.
type OrderLineRequest struct {
	ProductID string           `json:"id_producto" validate:"required,uuid"`
	Quantity  decimal.Decimal  `json:"cantidad"`
	Discount  *decimal.Decimal `json:"descuento,omitempty"`
}

// UpdateOrderRequest body para PUT /api/pedidos/:id (solo pedidos pendientes).
type UpdateOrderRequest struct {
	Observations *string            `json:"observaciones" validate:"omitempty,max=1000"`
	Lines        []OrderLineRequest `json:"detalles" validate:"omitempty,min=1,dive"`
}

// OrderListRequest filtros de GET /api/pedidos.
type OrderListRequest struct {
	PageRequest
	CustomerID string `query:"id_cliente"`
	Status     string `query:"estado" validate:"omitempty,oneof=PENDIENTE FACTURADO"`
}

// OrderResponse pedido con sus líneas y los totales que tendría su factura.
type OrderResponse struct {
	ID           string                 `json:"id"`
	CompanyID    string                 `json:"id_empresa"`
	CustomerID   string                 `json:"id_cliente"`
	Status       string                 `json:"estado"`
	ExchangeRate decimal.Decimal        `json:"tasa_cambio"`
	Total        decimal.Decimal        `json:"total"`
	Observations string                 `json:"observaciones,omitempty"`
	Lines        []OrderLineResponse    `json:"detalles"`
	Totals       *entity.DocumentTotals `json:"totales,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// OrderLineResponse línea de pedido en respuestas.
type OrderLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"id_producto"`
	Quantity  decimal.Decimal `json:"cantidad"`
	UnitPrice decimal.Decimal `json:"precio_unitario"`
	Discount  decimal.Decimal `json:"descuento"`
	VATRate   int             `json:"alicuota_iva"`
	Exempt    bool            `json:"exento"`
	Total     decimal.Decimal `json:"total"`
}

// OrderListResponse lista paginada de pedidos.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
