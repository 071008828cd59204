package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound                = errors.New("recurso no encontrado")
	ErrInvalidInput            = errors.New("entrada inválida")
	ErrDuplicate               = errors.New("recurso duplicado")
	ErrUnauthorized            = errors.New("no autorizado")
	ErrForbidden               = errors.New("acceso denegado")
	ErrConflict                = errors.New("conflicto con el estado actual")
	ErrInvalidState            = errors.New("estado inválido para la operación")
	ErrInvalidDiscount         = errors.New("descuento fuera del rango [0,1]")
	ErrInvalidVATRate          = errors.New("alícuota de IVA no soportada")
	ErrExchangeRateUnavailable = errors.New("tasa de cambio no disponible")
	ErrPrinterRejected         = errors.New("la imprenta digital rechazó el documento")
	ErrControlNumberAssigned   = errors.New("el documento ya tiene número de control")
	ErrIntegrity               = errors.New("violación de integridad en base de datos")
)

// ValidationError describe un error de validación sobre un campo concreto.
// Envuelve a un error de dominio (ErrInvalidInput por defecto) para que errors.Is funcione.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e.Err == nil {
		return ErrInvalidInput
	}
	return e.Err
}

// NewValidationError construye un ValidationError; err puede ser nil.
func NewValidationError(field string, err error, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...), Err: err}
}
