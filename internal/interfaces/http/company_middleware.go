package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/facturacion-ve/internal/application/dto"
	"github.com/jhoicas/facturacion-ve/pkg/logger"
)

// companyChecker es el contrato mínimo que necesita el middleware. Lo implementa *usecase.CompanyUseCase.
type companyChecker interface {
	Exists(ctx context.Context, companyID string) (bool, error)
}

// RequireCompany verifica que la empresa del token esté registrada antes de operar sobre
// clientes, productos, pedidos o documentos. Debe usarse DESPUÉS de AuthMiddleware.
//
//   - 401 si el token no trae company_id.
//   - 403 si la empresa no existe.
//   - 503 si no se pudo consultar la base de datos.
func RequireCompany(checker companyChecker, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID := GetCompanyID(c)
		if companyID == "" {
			return unauthorized(c)
		}
		ok, err := checker.Exists(c.UserContext(), companyID)
		if err != nil {
			log.Error().Err(err).Str("empresa", companyID).Msg("verificar empresa del token")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "COMPANY_CHECK_FAILED",
				Message: "no se pudo verificar la empresa, intente más tarde",
			})
		}
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "COMPANY_NOT_REGISTERED",
				Message: "la empresa del token no está registrada",
			})
		}
		return c.Next()
	}
}
