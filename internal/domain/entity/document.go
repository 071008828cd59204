package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentKind discrimina el payload de un Document.
type DocumentKind string

// Tipos de documento fiscal. Cada tipo tiene su propia secuencia de numeración.
const (
	KindInvoice          DocumentKind = "FACTURA"
	KindCreditNote       DocumentKind = "NOTA_CREDITO"
	KindDebitNote        DocumentKind = "NOTA_DEBITO"
	KindDeliveryOrder    DocumentKind = "ORDEN_ENTREGA"
	KindRetentionReceipt DocumentKind = "COMPROBANTE_RETENCION"
)

// Valid indica si el tipo es conocido.
func (k DocumentKind) Valid() bool {
	switch k {
	case KindInvoice, KindCreditNote, KindDebitNote, KindDeliveryOrder, KindRetentionReceipt:
		return true
	}
	return false
}

// Estados del documento.
const (
	DocumentStatusIssued    = "EMITIDO"    // número de control asignado localmente
	DocumentStatusPrinted   = "IMPRESO"    // número de control asignado por la imprenta digital
	DocumentStatusCancelled = "ANULADO"
)

// Document es el sobre común de todos los documentos fiscales.
// Solo uno de los payloads (Invoice, Note, Delivery, Retention) es no nulo, según Kind.
type Document struct {
	ID                string
	Kind              DocumentKind
	Number            int64 // consecutivo dentro de la familia Kind
	ControlNumber     string
	ControlAssignedAt *time.Time
	PDFURL            string
	Status            string
	CompanyID         string
	CustomerID        string
	IssuedAt          time.Time
	ExchangeRate      decimal.Decimal
	Totals            DocumentTotals
	Invoice           *InvoicePayload
	Note              *NotePayload
	Delivery          *DeliveryPayload
	Retention         *RetentionPayload
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// HasControlNumber indica si el número de control ya fue asignado (inmutable a partir de ahí).
func (d *Document) HasControlNumber() bool {
	return d.ControlNumber != ""
}

// InvoicePayload datos propios de una factura.
type InvoicePayload struct {
	OrderID     string
	AppliesIGTF bool
	Lines       []DocumentLine
}

// DocumentLine es una línea de factura (copia de la línea de pedido con su VAT calculado).
type DocumentLine struct {
	ID          string
	DocumentID  string
	ProductID   string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal
	VATRate     int
	Exempt      bool
	VATAmount   decimal.Decimal
	Total       decimal.Decimal // cantidad × precio, sin descuento
}

// NotePayload datos de una nota de crédito o débito.
type NotePayload struct {
	InvoiceID   string
	Description string
	Amount      decimal.Decimal
	Lines       []NoteLine // modif_detalles
}

// NoteLine es la foto normalizada de una línea ajustada por la nota.
type NoteLine struct {
	ProductID   string          `json:"id_producto"`
	Description string          `json:"descripcion"`
	Quantity    decimal.Decimal `json:"cantidad"`
	UnitPrice   decimal.Decimal `json:"precio_unitario"`
	Discount    decimal.Decimal `json:"descuento"`
	VATRate     int             `json:"alicuota_iva"`
	Exempt      bool            `json:"exento"`
	Total       decimal.Decimal `json:"total"`
}

// DeliveryPayload datos de una orden de entrega.
type DeliveryPayload struct {
	Goods []DeliveredGood `json:"bienes_entregados"`
}

// DeliveredGood un bien entregado.
type DeliveredGood struct {
	ProductID   string          `json:"id_producto"`
	Description string          `json:"descripcion"`
	Quantity    decimal.Decimal `json:"cantidad"`
}

// Tipos de impuesto retenido.
const (
	RetentionTaxIVA  = "IVA"
	RetentionTaxISLR = "ISLR"
)

// RetentionPayload datos de un comprobante de retención.
type RetentionPayload struct {
	InvoiceID      string          `json:"factura_id"`
	TaxType        string          `json:"tipo_impuesto"`
	Percentage     decimal.Decimal `json:"porcentaje"`
	TaxableAmount  decimal.Decimal `json:"monto_sujeto"`
	RetainedAmount decimal.Decimal `json:"monto_retenido"`
}
