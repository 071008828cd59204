package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/facturacion-ve/internal/application/billing"
	"github.com/jhoicas/facturacion-ve/internal/application/dto"
)

// OrderHandler maneja los pedidos. Un pedido solo se modifica mientras está PENDIENTE.
type OrderHandler struct {
	base
	uc *billing.OrderUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(b base, uc *billing.OrderUseCase) *OrderHandler {
	return &OrderHandler{base: b, uc: uc}
}

// Create godoc
// @Summary      Crear pedido
// @Description  Precios, descuentos y alícuotas se toman del producto salvo que la línea los indique.
// @Tags         pedidos
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "Pedido"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/pedidos [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	companyID := companyOf(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.CreateOrderRequest
	if ok, err := h.body(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), companyID, in)
	if err != nil {
		return h.respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/pedidos?estado=PENDIENTE&id_cliente=...
func (h *OrderHandler) List(c *fiber.Ctx) error {
	companyID := companyOf(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.OrderListRequest
	if ok, err := h.query(c, &in); !ok {
		return err
	}
	out, err := h.uc.List(c.UserContext(), companyID, in)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}

// Get GET /api/pedidos/:id
func (h *OrderHandler) Get(c *fiber.Ctx) error {
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

// Update PUT /api/pedidos/:id
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	companyID := companyOf(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.UpdateOrderRequest
	if ok, err := h.body(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), companyID, c.Params("id"), in)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/pedidos/:id
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	companyID := companyOf(c)
	if companyID == "" {
		return unauthorized(c)
	}
	if err := h.uc.Delete(c.UserContext(), companyID, c.Params("id")); err != nil {
		return h.respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
