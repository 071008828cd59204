package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/facturacion-ve/internal/application/dto"
	"github.com/jhoicas/facturacion-ve/internal/application/usecase"
	"github.com/jhoicas/facturacion-ve/internal/domain"
)

// CompanyHandler maneja las peticiones HTTP para el recurso Empresa.
type CompanyHandler struct {
	base
	uc *usecase.CompanyUseCase
}

// NewCompanyHandler construye el handler inyectando el caso de uso.
func NewCompanyHandler(b base, uc *usecase.CompanyUseCase) *CompanyHandler {
	return &CompanyHandler{base: b, uc: uc}
}

// Create godoc
// @Summary      Registrar empresa
// @Tags         empresa
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCompanyRequest  true  "Datos de la empresa"
// @Success      201   {object}  dto.CompanyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/empresa [post]
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCompanyRequest
	if ok, err := h.body(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return h.respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener empresa por ID
// @Tags         empresa
// @Produce      json
// @Param        id   path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.CompanyResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/empresa/{id} [get]
func (h *CompanyHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.canAccess(c, id); err != nil {
		return h.respond(c, err)
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar empresas
// @Tags         empresa
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.CompanyListResponse
// @Router       /api/empresa [get]
func (h *CompanyHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if ok, err := h.query(c, &page); !ok {
		return err
	}
	out, err := h.uc.List(c.UserContext(), page)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}

// Update PUT /api/empresa/:id
func (h *CompanyHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.canAccess(c, id); err != nil {
		return h.respond(c, err)
	}
	var in dto.UpdateCompanyRequest
	if ok, err := h.body(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/empresa/:id
func (h *CompanyHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return h.respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// canAccess: el admin ve cualquier empresa; el resto solo la de su token.
func (h *CompanyHandler) canAccess(c *fiber.Ctx, id string) error {
	if GetRole(c) == RoleAdmin || companyOf(c) == id {
		return nil
	}
	return domain.ErrForbidden
}
