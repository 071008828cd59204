package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/facturacion-ve/internal/application/dto"
	"github.com/jhoicas/facturacion-ve/internal/domain"
	"github.com/jhoicas/facturacion-ve/pkg/logger"
)

// errorMapping traduce un error de dominio a estado HTTP y código.
type errorMapping struct {
	sentinel error
	status   int
	code     string
}

// El orden importa: los sentinels más específicos van primero.
var errorMappings = []errorMapping{
	{domain.ErrInvalidDiscount, fiber.StatusBadRequest, "INVALID_DISCOUNT"},
	{domain.ErrInvalidVATRate, fiber.StatusBadRequest, "INVALID_VAT_RATE"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrControlNumberAssigned, fiber.StatusConflict, "CONTROL_NUMBER_ASSIGNED"},
	{domain.ErrInvalidState, fiber.StatusConflict, "INVALID_STATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrIntegrity, fiber.StatusConflict, "INTEGRITY"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrExchangeRateUnavailable, fiber.StatusServiceUnavailable, "EXCHANGE_RATE_UNAVAILABLE"},
	{domain.ErrPrinterRejected, fiber.StatusBadGateway, "PRINTER_REJECTED"},
}

// errorResponder escribe errores de casos de uso como dto.ErrorResponse.
type errorResponder struct {
	log *logger.Logger
}

func (r errorResponder) respond(c *fiber.Ctx, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.sentinel) {
			body := dto.ErrorResponse{Code: m.code, Message: err.Error()}
			var ve *domain.ValidationError
			if errors.As(err, &ve) && ve.Field != "" {
				body.Fields = []dto.FieldError{{Field: ve.Field, Message: ve.Message}}
			}
			return c.Status(m.status).JSON(body)
		}
	}
	r.log.WithRequest(GetRequestID(c)).Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("error no controlado")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token sin empresa"})
}
