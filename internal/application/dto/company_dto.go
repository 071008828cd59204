package dto

import "time"

// CreateCompanyRequest entrada para crear una empresa emisora.
type CreateCompanyRequest struct {
	Name          string `json:"nombre" validate:"required,min=1,max=200"`
	RIF           string `json:"rif" validate:"required,rif"`
	FiscalAddress string `json:"direccion_fiscal" validate:"required,max=500"`
	Phone         string `json:"telefono" validate:"omitempty,max=30"`
	Email         string `json:"correo" validate:"omitempty,email"`
}

// UpdateCompanyRequest entrada para actualizar una empresa (campos opcionales).
// El RIF no se modifica: identifica al emisor ante la imprenta digital.
type UpdateCompanyRequest struct {
	Name          *string `json:"nombre" validate:"omitempty,min=1,max=200"`
	FiscalAddress *string `json:"direccion_fiscal" validate:"omitempty,max=500"`
	Phone         *string `json:"telefono" validate:"omitempty,max=30"`
	Email         *string `json:"correo" validate:"omitempty,email"`
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"nombre"`
	RIF           string    `json:"rif"`
	FiscalAddress string    `json:"direccion_fiscal"`
	Phone         string    `json:"telefono"`
	Email         string    `json:"correo"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CompanyListResponse lista paginada de empresas.
type CompanyListResponse struct {
	Items []CompanyResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
