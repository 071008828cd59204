package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/facturacion-ve/internal/application/dto"
	"github.com/jhoicas/facturacion-ve/internal/application/usecase"
)

// AuditHandler consulta la bitácora que llenan los triggers de la base de datos.
type AuditHandler struct {
	base
	uc *usecase.AuditUseCase
}

func NewAuditHandler(b base, uc *usecase.AuditUseCase) *AuditHandler {
	return &AuditHandler{base: b, uc: uc}
}

// List GET /api/auditoria?tabla=documents&accion=UPDATE&desde=...&hasta=...
func (h *AuditHandler) List(c *fiber.Ctx) error {
	var in dto.AuditListRequest
	if ok, err := h.query(c, &in); !ok {
		return err
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}
