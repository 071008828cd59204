package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/facturacion-ve/internal/application/dto"
	"github.com/jhoicas/facturacion-ve/internal/domain"
	"github.com/jhoicas/facturacion-ve/internal/domain/entity"
	"github.com/jhoicas/facturacion-ve/internal/domain/repository"
	"github.com/jhoicas/facturacion-ve/pkg/logger"
)

// DocumentUseCase crea y consulta documentos fiscales (facturas, notas, órdenes de entrega
// y comprobantes de retención).
//
// Cada creación corre en una sola transacción: bloqueo de la referencia (pedido o factura),
// cálculo de totales, consecutivo de la familia, persistencia, número de control y commit.
// Cualquier error, incluido el rechazo de la imprenta, deshace todo.
type DocumentUseCase struct {
	txRunner     DocumentTxRunner
	assigner     ControlNumberAssigner
	documentRepo repository.DocumentRepository
	orderRepo    repository.OrderRepository
	log          *logger.Logger
	now          func() time.Time
}

// NewDocumentUseCase construye el caso de uso.
func NewDocumentUseCase(
	txRunner DocumentTxRunner,
	assigner ControlNumberAssigner,
	documentRepo repository.DocumentRepository,
	orderRepo repository.OrderRepository,
	log *logger.Logger,
) *DocumentUseCase {
	return &DocumentUseCase{
		txRunner:     txRunner,
		assigner:     assigner,
		documentRepo: documentRepo,
		orderRepo:    orderRepo,
		log:          log.Component("documentos"),
		now:          time.Now,
	}
}

// issue numera, persiste y asigna el número de control de doc con los repos de la transacción.
func (uc *DocumentUseCase) issue(ctx context.Context, repos DocumentRepos, doc *entity.Document, related *entity.Document) error {
	company, err := repos.Companies.GetByID(ctx, doc.CompanyID)
	if err != nil {
		return err
	}
	if company == nil {
		return domain.NewValidationError("id_empresa", domain.ErrNotFound, "la empresa %s no existe", doc.CompanyID)
	}
	customer, err := repos.Customers.GetByID(ctx, doc.CustomerID)
	if err != nil {
		return err
	}
	if customer == nil {
		return domain.NewValidationError("id_cliente", domain.ErrNotFound, "el cliente %s no existe", doc.CustomerID)
	}
	if customer.CompanyID != doc.CompanyID {
		return domain.ErrForbidden
	}

	number, err := repos.Sequences.Next(ctx, doc.Kind)
	if err != nil {
		return fmt.Errorf("consecutivo %s: %w", doc.Kind, err)
	}
	now := uc.now()
	doc.ID = uuid.New().String()
	doc.Number = number
	doc.Status = entity.DocumentStatusIssued
	doc.IssuedAt = now
	doc.CreatedAt = now
	doc.UpdatedAt = now
	if err := repos.Documents.Create(ctx, doc); err != nil {
		return err
	}

	// La llamada a la imprenta va dentro de la transacción a propósito: si rechaza, el
	// consecutivo y el pedido vuelven atrás. Mientras responde, la fila de la familia en
	// document_sequences sigue bloqueada y las demás emisiones de ese tipo esperan.
	// Sacarla de la tx exige compensar consecutivos y estado del pedido a mano.
	res, err := uc.assigner.Assign(ctx, ControlNumberRequest{
		Document: doc,
		Company:  company,
		Customer: customer,
		Related:  related,
	})
	if err != nil {
		return err
	}
	status := entity.DocumentStatusIssued
	if res.Printed {
		status = entity.DocumentStatusPrinted
	}
	if err := repos.Documents.AssignControlNumber(ctx, doc.ID, repository.ControlAssignment{
		ControlNumber: res.ControlNumber,
		AssignedAt:    res.AssignedAt,
		PDFURL:        res.PDFURL,
		Status:        status,
	}); err != nil {
		return err
	}
	assignedAt := res.AssignedAt
	doc.ControlNumber = res.ControlNumber
	doc.ControlAssignedAt = &assignedAt
	doc.PDFURL = res.PDFURL
	doc.Status = status
	return nil
}

// fail deja pasar los errores de dominio tal cual y registra los inesperados con contexto.
func (uc *DocumentUseCase) fail(kind entity.DocumentKind, ref string, err error) error {
	if isDomainError(err) {
		return err
	}
	uc.log.Error().Err(err).
		Str("kind", string(kind)).
		Str("ref", ref).
		Msg("error inesperado creando documento")
	return fmt.Errorf("crear %s: %w", kind, err)
}

var domainErrors = []error{
	domain.ErrNotFound,
	domain.ErrInvalidInput,
	domain.ErrDuplicate,
	domain.ErrForbidden,
	domain.ErrConflict,
	domain.ErrInvalidState,
	domain.ErrInvalidDiscount,
	domain.ErrInvalidVATRate,
	domain.ErrExchangeRateUnavailable,
	domain.ErrPrinterRejected,
	domain.ErrControlNumberAssigned,
	domain.ErrIntegrity,
}

func isDomainError(err error) bool {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return true
	}
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// invoiceForReference obtiene y valida la factura referida por una nota o un comprobante.
// Con forUpdate la fila queda bloqueada hasta el commit.
func invoiceForReference(ctx context.Context, repos DocumentRepos, companyID, invoiceID string, forUpdate bool) (*entity.Document, error) {
	get := repos.Documents.GetByID
	if forUpdate {
		get = repos.Documents.GetForUpdate
	}
	invoice, err := get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil || invoice.Kind != entity.KindInvoice || invoice.Invoice == nil {
		return nil, domain.NewValidationError("id_factura", domain.ErrNotFound, "la factura %s no existe", invoiceID)
	}
	if invoice.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if invoice.Status == entity.DocumentStatusCancelled {
		return nil, domain.NewValidationError("id_factura", domain.ErrInvalidState, "la factura %s está anulada", invoiceID)
	}
	return invoice, nil
}

// currentRate devuelve la tasa vigente o ErrExchangeRateUnavailable si no hay una válida.
func currentRate(ctx context.Context, repos repository.ExchangeRateRepository) (*entity.ExchangeRate, error) {
	rate, err := repos.Get(ctx)
	if err != nil {
		return nil, err
	}
	if rate == nil || !rate.Rate.IsPositive() {
		return nil, domain.ErrExchangeRateUnavailable
	}
	return rate, nil
}

func toDocumentResponse(doc *entity.Document) *dto.DocumentResponse {
	resp := &dto.DocumentResponse{
		ID:                doc.ID,
		Kind:              doc.Kind,
		Number:            doc.Number,
		ControlNumber:     doc.ControlNumber,
		ControlAssignedAt: doc.ControlAssignedAt,
		PDFURL:            doc.PDFURL,
		Status:            doc.Status,
		CompanyID:         doc.CompanyID,
		CustomerID:        doc.CustomerID,
		IssuedAt:          doc.IssuedAt,
		ExchangeRate:      doc.ExchangeRate,
		Totals:            doc.Totals,
		Delivery:          doc.Delivery,
		Retention:         doc.Retention,
	}
	if doc.Invoice != nil {
		resp.Invoice = &dto.InvoiceDetailResponse{
			OrderID:     doc.Invoice.OrderID,
			AppliesIGTF: doc.Invoice.AppliesIGTF,
			Lines:       toDocumentLineResponses(doc.Invoice.Lines),
		}
	}
	if doc.Note != nil {
		resp.Note = &dto.NoteDetailResponse{
			InvoiceID:     doc.Note.InvoiceID,
			Description:   doc.Note.Description,
			Amount:        doc.Note.Amount,
			Modifications: doc.Note.Lines,
		}
	}
	return resp
}

func toDocumentLineResponses(lines []entity.DocumentLine) []dto.DocumentLineResponse {
	out := make([]dto.DocumentLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, dto.DocumentLineResponse{
			ID:          l.ID,
			ProductID:   l.ProductID,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Discount:    l.Discount,
			VATRate:     l.VATRate,
			Exempt:      l.Exempt,
			VATAmount:   l.VATAmount,
			Total:       l.Total,
		})
	}
	return out
}
