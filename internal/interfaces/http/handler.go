package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/facturacion-ve/pkg/logger"
)

// base agrupa lo que comparten todos los handlers.
type base struct {
	requestBinder
	errorResponder
}

func newBase(v *validator.Validate, log *logger.Logger) base {
	return base{
		requestBinder:  requestBinder{validate: v},
		errorResponder: errorResponder{log: log},
	}
}

// companyOf devuelve la empresa del token; vacío si el token no la trae.
func companyOf(c *fiber.Ctx) string {
	return GetCompanyID(c)
}
