package billing

import (
	"context"

	"github.com/jhoicas/facturacion-ve/internal/application/dto"
	"github.com/jhoicas/facturacion-ve/internal/domain"
	"github.com/jhoicas/facturacion-ve/internal/domain/entity"
	"github.com/jhoicas/facturacion-ve/internal/domain/repository"
)

// GetDocument obtiene un documento de la empresa por ID. Si kind no es vacío, el
// documento debe ser de ese tipo.
func (uc *DocumentUseCase) GetDocument(ctx context.Context, companyID, id string, kind entity.DocumentKind) (*dto.DocumentResponse, error) {
	doc, err := uc.getOwned(ctx, companyID, id, kind)
	if err != nil {
		return nil, err
	}
	return toDocumentResponse(doc), nil
}

// GetByControlNumber busca un documento por su número de control.
func (uc *DocumentUseCase) GetByControlNumber(ctx context.Context, companyID, controlNumber string) (*dto.DocumentResponse, error) {
	doc, err := uc.documentRepo.GetByControlNumber(ctx, controlNumber)
	if err != nil {
		return nil, err
	}
	if doc == nil || doc.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return toDocumentResponse(doc), nil
}

// ListDocuments lista documentos de la empresa con filtros opcionales.
func (uc *DocumentUseCase) ListDocuments(ctx context.Context, companyID string, in dto.DocumentListRequest) (*dto.DocumentListResponse, error) {
	in.DefaultPage()
	kind := entity.DocumentKind(in.Kind)
	if kind != "" && !kind.Valid() {
		return nil, domain.NewValidationError("tipo", nil, "tipo de documento inválido: %s", in.Kind)
	}
	list, err := uc.documentRepo.List(ctx, repository.DocumentFilter{
		Kind:       kind,
		CompanyID:  companyID,
		CustomerID: in.CustomerID,
		InvoiceID:  in.InvoiceID,
		Limit:      in.Limit,
		Offset:     in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.DocumentResponse, 0, len(list))
	for _, d := range list {
		items = append(items, *toDocumentResponse(d))
	}
	return &dto.DocumentListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// InvoiceLines devuelve las líneas de una factura.
func (uc *DocumentUseCase) InvoiceLines(ctx context.Context, companyID, invoiceID string) ([]dto.DocumentLineResponse, error) {
	if _, err := uc.getOwned(ctx, companyID, invoiceID, entity.KindInvoice); err != nil {
		return nil, err
	}
	lines, err := uc.documentRepo.GetInvoiceLines(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return toDocumentLineResponses(lines), nil
}

// InvoiceOrder devuelve el pedido que originó una factura.
func (uc *DocumentUseCase) InvoiceOrder(ctx context.Context, companyID, invoiceID string) (*dto.OrderResponse, error) {
	doc, err := uc.getOwned(ctx, companyID, invoiceID, entity.KindInvoice)
	if err != nil {
		return nil, err
	}
	order, err := uc.orderRepo.GetByID(ctx, doc.Invoice.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return toOrderResponse(order, nil), nil
}

// VATBreakdown devuelve las bases e impuestos por alícuota de una factura.
func (uc *DocumentUseCase) VATBreakdown(ctx context.Context, companyID, invoiceID string) (*dto.VATBreakdownResponse, error) {
	doc, err := uc.getOwned(ctx, companyID, invoiceID, entity.KindInvoice)
	if err != nil {
		return nil, err
	}
	t := doc.Totals
	return &dto.VATBreakdownResponse{
		InvoiceID: doc.ID,
		Brackets: []dto.VATBracketResponse{
			{Rate: entity.VATRateGeneral, Base: t.BaseGeneral, Amount: t.VATGeneral},
			{Rate: entity.VATRateReduced, Base: t.BaseReduced, Amount: t.VATReduced},
			{Rate: entity.VATRateAdditional, Base: t.BaseAdditional, Amount: t.VATAdditional},
			{Rate: entity.VATRateExempt, Base: t.Exempt},
		},
		Totals: t,
	}, nil
}

func (uc *DocumentUseCase) getOwned(ctx context.Context, companyID, id string, kind entity.DocumentKind) (*entity.Document, error) {
	doc, err := uc.documentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil || (kind != "" && doc.Kind != kind) {
		return nil, domain.ErrNotFound
	}
	if doc.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return doc, nil
}
