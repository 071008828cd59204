package billing

import (
	"context"
	"time"

	"github.com/jhoicas/facturacion-ve/internal/domain/entity"
	"github.com/jhoicas/facturacion-ve/internal/domain/repository"
)

// DocumentRepos repositorios atados a la transacción de un documento.
type DocumentRepos struct {
	Orders        repository.OrderRepository
	Documents     repository.DocumentRepository
	Sequences     repository.SequenceRepository
	Products      repository.ProductRepository
	Customers     repository.CustomerRepository
	Companies     repository.CompanyRepository
	ExchangeRates repository.ExchangeRateRepository
}

// DocumentTxRunner ejecuta fn dentro de una única transacción: si fn devuelve error
// no queda nada escrito; si no, se hace commit.
type DocumentTxRunner interface {
	RunDocument(ctx context.Context, fn func(repos DocumentRepos) error) error
}

// ControlNumberRequest datos que la imprenta necesita para emitir un documento.
type ControlNumberRequest struct {
	Document *entity.Document
	Company  *entity.Company
	Customer *entity.Customer
	// Related es la factura afectada por una nota o comprobante de retención.
	Related *entity.Document
}

// ControlNumberResult número de control asignado y datos devueltos por la imprenta.
type ControlNumberResult struct {
	ControlNumber string
	AssignedAt    time.Time
	PDFURL        string
	Printed       bool // asignado por la imprenta digital (no localmente)
}

// ControlNumberAssigner asigna el número de control fiscal de un documento.
// Se invoca dentro de la transacción del documento, antes del commit.
type ControlNumberAssigner interface {
	Assign(ctx context.Context, req ControlNumberRequest) (*ControlNumberResult, error)
}
