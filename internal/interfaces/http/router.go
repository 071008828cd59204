package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/facturacion-ve/internal/application/billing"
	"github.com/jhoicas/facturacion-ve/internal/application/dto"
	"github.com/jhoicas/facturacion-ve/internal/application/usecase"
	"github.com/jhoicas/facturacion-ve/internal/domain/entity"
	"github.com/jhoicas/facturacion-ve/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC  *usecase.CompanyUseCase
	CustomerUC *billing.CustomerUseCase
	ProductUC  *usecase.ProductUseCase
	OrderUC    *billing.OrderUseCase
	DocumentUC *billing.DocumentUseCase
	ExchangeUC *usecase.ExchangeRateUseCase
	AuditUC    *usecase.AuditUseCase
	JWTSecret  string
	JWTIssuer  string
	// WithUser agrega el usuario autenticado al contexto de cada petición (auditoría).
	WithUser ContextDecorator
	// Ping verifica la base de datos para /health; puede ser nil.
	Ping func(ctx context.Context) error
	Log  *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	httpLog := log.Component("http")
	b := newBase(newValidator(), httpLog)

	app.Use(RequestID(), RequestLogger(httpLog))
	app.Get("/health", healthHandler(deps.Ping))

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer, deps.WithUser))
	writers := RequireRole(RoleAdmin, RoleBiller)
	admin := RequireRole(RoleAdmin)
	owned := RequireCompany(deps.CompanyUC, httpLog)

	companies := api.Group("/empresa")
	companyHandler := NewCompanyHandler(b, deps.CompanyUC)
	companies.Get("/", admin, companyHandler.List)
	companies.Post("/", admin, companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)
	companies.Put("/:id", admin, companyHandler.Update)
	companies.Delete("/:id", admin, companyHandler.Delete)

	customers := api.Group("/cliente", owned)
	customerHandler := NewCustomerHandler(b, deps.CustomerUC)
	customers.Get("/", customerHandler.List)
	customers.Post("/", writers, customerHandler.Create)
	customers.Get("/:id", customerHandler.Get)
	customers.Put("/:id", writers, customerHandler.Update)
	customers.Delete("/:id", writers, customerHandler.Delete)

	products := api.Group("/producto", owned)
	productHandler := NewProductHandler(b, deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Post("/", writers, productHandler.Create)
	products.Get("/:id", productHandler.Get)
	products.Put("/:id", writers, productHandler.Update)
	products.Delete("/:id", writers, productHandler.Delete)

	orders := api.Group("/pedidos", owned)
	orderHandler := NewOrderHandler(b, deps.OrderUC)
	orders.Get("/", orderHandler.List)
	orders.Post("/", writers, orderHandler.Create)
	orders.Get("/:id", orderHandler.Get)
	orders.Put("/:id", writers, orderHandler.Update)
	orders.Delete("/:id", writers, orderHandler.Delete)

	documentHandler := NewDocumentHandler(b, deps.DocumentUC)

	documents := api.Group("/documento", owned)
	documents.Get("/", documentHandler.List(""))
	documents.Get("/cliente/:customerID", documentHandler.List(""))
	documents.Get("/numero-control/:numero", documentHandler.GetByControlNumber)
	documents.Get("/:id", documentHandler.Get(""))

	invoices := api.Group("/factura", owned)
	invoices.Get("/", documentHandler.List(entity.KindInvoice))
	invoices.Post("/", writers, documentHandler.CreateInvoice)
	invoices.Get("/cliente/:customerID", documentHandler.List(entity.KindInvoice))
	invoices.Get("/numero-control/:numero", documentHandler.GetByControlNumber)
	invoices.Get("/:id", documentHandler.Get(entity.KindInvoice))
	invoices.Get("/:id/detalles", documentHandler.InvoiceLines)
	invoices.Get("/:id/iva", documentHandler.VATBreakdown)
	invoices.Get("/:id/pedido", documentHandler.InvoiceOrder)

	notes := api.Group("/notas", owned)
	notes.Get("/factura/:invoiceID", documentHandler.List(""))
	notes.Get("/credito", documentHandler.List(entity.KindCreditNote))
	notes.Post("/credito", writers, documentHandler.CreateCreditNote)
	notes.Get("/credito/:id", documentHandler.Get(entity.KindCreditNote))
	notes.Get("/debito", documentHandler.List(entity.KindDebitNote))
	notes.Post("/debito", writers, documentHandler.CreateDebitNote)
	notes.Get("/debito/:id", documentHandler.Get(entity.KindDebitNote))

	deliveries := api.Group("/orden-entrega", owned)
	deliveries.Get("/", documentHandler.List(entity.KindDeliveryOrder))
	deliveries.Post("/", writers, documentHandler.CreateDeliveryOrder)
	deliveries.Get("/:id", documentHandler.Get(entity.KindDeliveryOrder))

	retentions := api.Group("/retencion", owned)
	retentions.Get("/", documentHandler.List(entity.KindRetentionReceipt))
	retentions.Post("/", writers, documentHandler.CreateRetention)
	retentions.Get("/:id", documentHandler.Get(entity.KindRetentionReceipt))

	currency := api.Group("/moneda")
	exchangeHandler := NewExchangeRateHandler(b, deps.ExchangeUC)
	currency.Get("/dolar", exchangeHandler.Current)
	currency.Post("/dolar/actualizar", admin, exchangeHandler.Refresh)

	auditHandler := NewAuditHandler(b, deps.AuditUC)
	api.Get("/auditoria", admin, auditHandler.List)
}

func healthHandler(ping func(ctx context.Context) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "DB_UNAVAILABLE", Message: "base de datos no disponible"})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}
