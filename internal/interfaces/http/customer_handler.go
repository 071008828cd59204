package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/facturacion-ve/internal/application/billing"
	"github.com/jhoicas/facturacion-ve/internal/application/dto"
)

// CustomerHandler maneja los clientes de la empresa del token.
type CustomerHandler struct {
	base
	uc *billing.CustomerUseCase
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(b base, uc *billing.CustomerUseCase) *CustomerHandler {
	return &CustomerHandler{base: b, uc: uc}
}

// Create POST /api/cliente
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	companyID := companyOf(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.CreateCustomerRequest
	if ok, err := h.body(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), companyID, in)
	if err != nil {
		return h.respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/cliente?limit=20&offset=0
func (h *CustomerHandler) List(c *fiber.Ctx) error {
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

// Get GET /api/cliente/:id
func (h *CustomerHandler) Get(c *fiber.Ctx) error {
	companyID := companyOf(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Get(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}

// Update PUT /api/cliente/:id
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	companyID := companyOf(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.UpdateCustomerRequest
	if ok, err := h.body(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), companyID, c.Params("id"), in)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/cliente/:id
func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	companyID := companyOf(c)
	if companyID == "" {
		return unauthorized(c)
	}
	if err := h.uc.Delete(c.UserContext(), companyID, c.Params("id")); err != nil {
		return h.respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
