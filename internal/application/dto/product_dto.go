package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
// AlicuotaIVA: 0 (exento), 8 (reducida), 16 (general) o 31 (adicional).
type CreateProductRequest struct {
	Code        string          `json:"codigo" validate:"required,min=1,max=50"`
	Description string          `json:"descripcion" validate:"required,min=1,max=300"`
	Price       decimal.Decimal `json:"precio"`
	VATRate     int             `json:"alicuota_iva" validate:"oneof=0 8 16 31"`
	Exempt      bool            `json:"exento"`
	Discount    decimal.Decimal `json:"descuento"`
	Stock       int64           `json:"existencia" validate:"min=0"`
}

// UpdateProductRequest entrada para actualizar un producto (campos opcionales).
type UpdateProductRequest struct {
	Description *string          `json:"descripcion" validate:"omitempty,min=1,max=300"`
	Price       *decimal.Decimal `json:"precio"`
	VATRate     *int             `json:"alicuota_iva" validate:"omitempty,oneof=0 8 16 31"`
	Exempt      *bool            `json:"exento"`
	Discount    *decimal.Decimal `json:"descuento"`
	Stock       *int64           `json:"existencia" validate:"omitempty,min=0"`
	Status      *string          `json:"estado" validate:"omitempty,oneof=activo inactivo"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	CompanyID   string          `json:"id_empresa"`
	Code        string          `json:"codigo"`
	Description string          `json:"descripcion"`
	Price       decimal.Decimal `json:"precio"`
	VATRate     int             `json:"alicuota_iva"`
	Exempt      bool            `json:"exento"`
	Discount    decimal.Decimal `json:"descuento"`
	Status      string          `json:"estado"`
	Stock       int64           `json:"existencia"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
