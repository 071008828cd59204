package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/facturacion-ve/internal/application/billing"
	"github.com/jhoicas/facturacion-ve/internal/application/dto"
	"github.com/jhoicas/facturacion-ve/internal/domain/entity"
)

// DocumentHandler expone la emisión y consulta de documentos fiscales.
type DocumentHandler struct {
	base
	uc *billing.DocumentUseCase
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(b base, uc *billing.DocumentUseCase) *DocumentHandler {
	return &DocumentHandler{base: b, uc: uc}
}

// CreateInvoice godoc
// @Summary      Facturar un pedido
// @Description  Calcula totales, asigna consecutivo y número de control y marca el pedido como FACTURADO en una sola transacción.
// @Tags         factura
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "Pedido a facturar"
// @Success      201   {object}  dto.DocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/factura [post]
func (h *DocumentHandler) CreateInvoice(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	return h.create(c, &in, func(companyID string) (*dto.DocumentResponse, error) {
		return h.uc.CreateInvoice(c.UserContext(), companyID, in)
	})
}

// CreateCreditNote POST /api/notas/credito
func (h *DocumentHandler) CreateCreditNote(c *fiber.Ctx) error {
	var in dto.CreateNoteRequest
	return h.create(c, &in, func(companyID string) (*dto.DocumentResponse, error) {
		return h.uc.CreateCreditNote(c.UserContext(), companyID, in)
	})
}

// CreateDebitNote POST /api/notas/debito
func (h *DocumentHandler) CreateDebitNote(c *fiber.Ctx) error {
	var in dto.CreateNoteRequest
	return h.create(c, &in, func(companyID string) (*dto.DocumentResponse, error) {
		return h.uc.CreateDebitNote(c.UserContext(), companyID, in)
	})
}

// CreateDeliveryOrder POST /api/orden-entrega
func (h *DocumentHandler) CreateDeliveryOrder(c *fiber.Ctx) error {
	var in dto.CreateDeliveryOrderRequest
	return h.create(c, &in, func(companyID string) (*dto.DocumentResponse, error) {
		return h.uc.CreateDeliveryOrder(c.UserContext(), companyID, in)
	})
}

// CreateRetention POST /api/retencion
func (h *DocumentHandler) CreateRetention(c *fiber.Ctx) error {
	var in dto.CreateRetentionRequest
	return h.create(c, &in, func(companyID string) (*dto.DocumentResponse, error) {
		return h.uc.CreateRetentionReceipt(c.UserContext(), companyID, in)
	})
}

func (h *DocumentHandler) create(c *fiber.Ctx, in any, run func(companyID string) (*dto.DocumentResponse, error)) error {
	companyID := companyOf(c)
	if companyID == "" {
		return unauthorized(c)
	}
	if ok, err := h.body(c, in); !ok {
		return err
	}
	out, err := run(companyID)
	if err != nil {
		return h.respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List devuelve un handler de listado restringido a kind (vacío = todos los tipos).
// Acepta ?id_cliente= y ?id_factura= además de la paginación.
func (h *DocumentHandler) List(kind entity.DocumentKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID := companyOf(c)
		if companyID == "" {
			return unauthorized(c)
		}
		var in dto.DocumentListRequest
		if ok, err := h.query(c, &in); !ok {
			return err
		}
		if kind != "" {
			in.Kind = string(kind)
		}
		if id := c.Params("customerID"); id != "" {
			in.CustomerID = id
		}
		if id := c.Params("invoiceID"); id != "" {
			in.InvoiceID = id
		}
		out, err := h.uc.ListDocuments(c.UserContext(), companyID, in)
		if err != nil {
			return h.respond(c, err)
		}
		return c.JSON(out)
	}
}

// Get devuelve un handler que obtiene un documento por :id, exigiendo kind si no es vacío.
func (h *DocumentHandler) Get(kind entity.DocumentKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID := companyOf(c)
		if companyID == "" {
			return unauthorized(c)
		}
		out, err := h.uc.GetDocument(c.UserContext(), companyID, c.Params("id"), kind)
		if err != nil {
			return h.respond(c, err)
		}
		return c.JSON(out)
	}
}

// GetByControlNumber GET /api/factura/numero-control/:numero
func (h *DocumentHandler) GetByControlNumber(c *fiber.Ctx) error {
	companyID := companyOf(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.GetByControlNumber(c.UserContext(), companyID, c.Params("numero"))
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}

// InvoiceLines GET /api/factura/:id/detalles
func (h *DocumentHandler) InvoiceLines(c *fiber.Ctx) error {
	companyID := companyOf(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.InvoiceLines(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}

// InvoiceOrder GET /api/factura/:id/pedido
func (h *DocumentHandler) InvoiceOrder(c *fiber.Ctx) error {
	companyID := companyOf(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.InvoiceOrder(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}

// VATBreakdown GET /api/factura/:id/iva
func (h *DocumentHandler) VATBreakdown(c *fiber.Ctx) error {
	companyID := companyOf(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.VATBreakdown(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}
