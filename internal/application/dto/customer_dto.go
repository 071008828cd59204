package dto

import "time"

// CreateCustomerRequest body para POST /api/cliente.
type CreateCustomerRequest struct {
	Name          string `json:"nombre" validate:"required,min=1,max=200"`
	TaxID         string `json:"rif_cedula" validate:"required,min=5,max=20"`
	DocumentType  string `json:"tipo_documento" validate:"required,oneof=V E J P G"`
	FiscalAddress string `json:"direccion_fiscal" validate:"omitempty,max=500"`
	Email         string `json:"correo" validate:"omitempty,email"`
	Phone         string `json:"telefono" validate:"omitempty,max=30"`
}

// UpdateCustomerRequest body para PUT /api/cliente/:id (campos opcionales).
type UpdateCustomerRequest struct {
	Name          *string `json:"nombre" validate:"omitempty,min=1,max=200"`
	FiscalAddress *string `json:"direccion_fiscal" validate:"omitempty,max=500"`
	Email         *string `json:"correo" validate:"omitempty,email"`
	Phone         *string `json:"telefono" validate:"omitempty,max=30"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID            string    `json:"id"`
	CompanyID     string    `json:"id_empresa"`
	Name          string    `json:"nombre"`
	TaxID         string    `json:"rif_cedula"`
	DocumentType  string    `json:"tipo_documento"`
	FiscalAddress string    `json:"direccion_fiscal,omitempty"`
	Email         string    `json:"correo,omitempty"`
	Phone         string    `json:"telefono,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// CustomerListResponse lista paginada de clientes.
type CustomerListResponse struct {
	Items []CustomerResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
