package repository

import (
	"context"
	"time"

	"github.com/jhoicas/facturacion-ve/internal/domain/entity"
)

// DocumentFilter filtros de listado de documentos; los campos vacíos no filtran.
type DocumentFilter struct {
	Kind       entity.DocumentKind
	CompanyID  string
	CustomerID string
	InvoiceID  string // notas y comprobantes que referencian la factura
	Limit      int
	Offset     int
}

// ControlAssignment es el resultado de asignar el número de control a un documento.
type ControlAssignment struct {
	ControlNumber string
	AssignedAt    time.Time
	PDFURL        string
	Status        string
}

// DocumentRepository define el puerto de persistencia para documentos fiscales
// (sobre común más el payload de su tipo).
type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	GetByID(ctx context.Context, id string) (*entity.Document, error)
	// GetForUpdate es GetByID bloqueando la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Document, error)
	GetByControlNumber(ctx context.Context, controlNumber string) (*entity.Document, error)
	List(ctx context.Context, filter DocumentFilter) ([]*entity.Document, error)
	GetInvoiceLines(ctx context.Context, invoiceID string) ([]entity.DocumentLine, error)
	// AssignControlNumber fija el número de control solo si aún no tiene uno;
	// en caso contrario devuelve domain.ErrControlNumberAssigned.
	AssignControlNumber(ctx context.Context, id string, a ControlAssignment) error
}

// SequenceRepository entrega el siguiente consecutivo de cada familia de documentos.
// Debe usarse dentro de la transacción del documento: la fila queda bloqueada hasta el commit.
type SequenceRepository interface {
	Next(ctx context.Context, kind entity.DocumentKind) (int64, error)
}
