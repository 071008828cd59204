package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/facturacion-ve/internal/application/usecase"
)

// ExchangeRateHandler expone la tasa oficial Bs/USD.
type ExchangeRateHandler struct {
	base
	uc *usecase.ExchangeRateUseCase
}

// NewExchangeRateHandler construye el handler.
func NewExchangeRateHandler(b base, uc *usecase.ExchangeRateUseCase) *ExchangeRateHandler {
	return &ExchangeRateHandler{base: b, uc: uc}
}

// Current godoc
// @Summary      Tasa oficial vigente
// @Tags         moneda
// @Produce      json
// @Success      200  {object}  dto.ExchangeRateResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/moneda/dolar [get]
func (h *ExchangeRateHandler) Current(c *fiber.Ctx) error {
	out, err := h.uc.Current(c.UserContext())
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}

// Refresh POST /api/moneda/dolar/actualizar
func (h *ExchangeRateHandler) Refresh(c *fiber.Ctx) error {
	out, err := h.uc.Refresh(c.UserContext())
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}
