package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/facturacion-ve/internal/application/dto"
	"github.com/jhoicas/facturacion-ve/internal/application/usecase"
)

// ProductHandler maneja el catálogo de productos de la empresa del token.
type ProductHandler struct {
	base
	uc *usecase.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(b base, uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{base: b, uc: uc}
}

// Create POST /api/producto
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	companyID := companyOf(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.CreateProductRequest
	if ok, err := h.body(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), companyID, in)
	if err != nil {
		return h.respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/producto?limit=20&offset=0
func (h *ProductHandler) List(c *fiber.Ctx) error {
	companyID := companyOf(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var page dto.PageRequest
	if ok, err := h.query(c, &page); !ok {
		return err
	}
	out, err := h.uc.List(c.UserContext(), companyID, page)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}

// Get GET /api/producto/:id
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	companyID := companyOf(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.GetByID(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}

// Update PUT /api/producto/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	companyID := companyOf(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.UpdateProductRequest
	if ok, err := h.body(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), companyID, c.Params("id"), in)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/producto/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	companyID := companyOf(c)
	if companyID == "" {
		return unauthorized(c)
	}
	if err := h.uc.Delete(c.UserContext(), companyID, c.Params("id")); err != nil {
		return h.respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
