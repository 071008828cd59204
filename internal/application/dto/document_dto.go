package dto

import (
	"time"

	"github.com/jhoicas/facturacion-ve/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest body para POST /api/factura.
type CreateInvoiceRequest struct {
	OrderID     string `json:"id_pedido" validate:"required,uuid"`
	AppliesIGTF bool   `json:"aplica_igtf"`
}

// CreateNoteRequest body para POST /api/notas/credito y /api/notas/debito.
type CreateNoteRequest struct {
	InvoiceID     string                    `json:"id_factura" validate:"required,uuid"`
	Description   string                    `json:"descripcion" validate:"required,min=1,max=500"`
	Modifications []NoteModificationRequest `json:"modif_detalles" validate:"required,min=1,dive"`
}

// NoteModificationRequest ajuste sobre un producto; precio cero toma el de la factura o el producto.
type NoteModificationRequest struct {
	ProductID string          `json:"id_producto" validate:"required,uuid"`
	Quantity  decimal.Decimal `json:"cantidad"`
	UnitPrice decimal.Decimal `json:"precio_unitario"`
	Discount  decimal.Decimal `json:"descuento"`
}

// CreateDeliveryOrderRequest body para POST /api/orden-entrega.
type CreateDeliveryOrderRequest struct {
	CustomerID string                 `json:"id_cliente" validate:"required,uuid"`
	Goods      []DeliveredGoodRequest `json:"bienes_entregados" validate:"required,min=1,dive"`
}

// DeliveredGoodRequest bien entregado.
type DeliveredGoodRequest struct {
	ProductID string          `json:"id_producto" validate:"required,uuid"`
	Quantity  decimal.Decimal `json:"cantidad"`
}

// CreateRetentionRequest body para POST /api/retencion.
// Para IVA el porcentaje es 75 o 100; para ISLR cualquier valor en (0,100].
type CreateRetentionRequest struct {
	InvoiceID  string          `json:"id_factura" validate:"required,uuid"`
	TaxType    string          `json:"tipo_impuesto" validate:"required,oneof=IVA ISLR"`
	Percentage decimal.Decimal `json:"porcentaje"`
}

// DocumentListRequest filtros de listados de documentos.
type DocumentListRequest struct {
	PageRequest
	Kind       string `query:"tipo" validate:"omitempty,oneof=FACTURA NOTA_CREDITO NOTA_DEBITO ORDEN_ENTREGA COMPROBANTE_RETENCION"`
	CustomerID string `query:"id_cliente"`
	InvoiceID  string `query:"id_factura"`
}

// DocumentResponse documento fiscal: sobre común más el detalle de su tipo.
type DocumentResponse struct {
	ID                string                   `json:"id"`
	Kind              entity.DocumentKind      `json:"tipo"`
	Number            int64                    `json:"numero"`
	ControlNumber     string                   `json:"numero_control,omitempty"`
	ControlAssignedAt *time.Time               `json:"fecha_asignacion_control,omitempty"`
	PDFURL            string                   `json:"url_pdf,omitempty"`
	Status            string                   `json:"estado"`
	CompanyID         string                   `json:"id_empresa"`
	CustomerID        string                   `json:"id_cliente"`
	IssuedAt          time.Time                `json:"fecha_emision"`
	ExchangeRate      decimal.Decimal          `json:"tasa_cambio"`
	Totals            entity.DocumentTotals    `json:"totales"`
	Invoice           *InvoiceDetailResponse   `json:"factura,omitempty"`
	Note              *NoteDetailResponse      `json:"nota,omitempty"`
	Delivery          *entity.DeliveryPayload  `json:"orden_entrega,omitempty"`
	Retention         *entity.RetentionPayload `json:"retencion,omitempty"`
}

// InvoiceDetailResponse detalle propio de una factura.
type InvoiceDetailResponse struct {
	OrderID     string                 `json:"id_pedido"`
	AppliesIGTF bool                   `json:"aplica_igtf"`
	Lines       []DocumentLineResponse `json:"detalles"`
}

// DocumentLineResponse línea de factura.
type DocumentLineResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"id_producto"`
	Description string          `json:"descripcion"`
	Quantity    decimal.Decimal `json:"cantidad"`
	UnitPrice   decimal.Decimal `json:"precio_unitario"`
	Discount    decimal.Decimal `json:"descuento"`
	VATRate     int             `json:"alicuota_iva"`
	Exempt      bool            `json:"exento"`
	VATAmount   decimal.Decimal `json:"monto_iva"`
	Total       decimal.Decimal `json:"total"`
}

// NoteDetailResponse detalle de una nota de crédito o débito.
type NoteDetailResponse struct {
	InvoiceID     string            `json:"id_factura"`
	Description   string            `json:"descripcion"`
	Amount        decimal.Decimal   `json:"monto"`
	Modifications []entity.NoteLine `json:"modif_detalles"`
}

// DocumentListResponse lista paginada de documentos.
type DocumentListResponse struct {
	Items []DocumentResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// VATBreakdownResponse desglose de IVA e IGTF de una factura (GET /api/factura/:id/iva).
type VATBreakdownResponse struct {
	InvoiceID string                `json:"id_factura"`
	Brackets  []VATBracketResponse  `json:"alicuotas"`
	Totals    entity.DocumentTotals `json:"totales"`
}

// VATBracketResponse base e impuesto de una alícuota.
type VATBracketResponse struct {
	Rate   int             `json:"alicuota"`
	Base   decimal.Decimal `json:"base"`
	Amount decimal.Decimal `json:"monto"`
}
