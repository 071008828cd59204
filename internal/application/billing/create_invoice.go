package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/jhoicas/facturacion-ve/internal/application/dto"
	"github.com/jhoicas/facturacion-ve/internal/domain"
	"github.com/jhoicas/facturacion-ve/internal/domain/entity"
	"github.com/jhoicas/facturacion-ve/internal/domain/tax"
)

// CreateInvoice factura un pedido pendiente.
//
// El pedido se bloquea (FOR UPDATE) durante toda la transacción, de modo que dos
// solicitudes simultáneas sobre el mismo pedido producen una factura y un ErrInvalidState.
func (uc *DocumentUseCase) CreateInvoice(ctx context.Context, companyID string, in dto.CreateInvoiceRequest) (*dto.DocumentResponse, error) {
	if in.OrderID == "" {
		return nil, domain.NewValidationError("id_pedido", nil, "el pedido es obligatorio")
	}

	var doc *entity.Document
	err := uc.txRunner.RunDocument(ctx, func(repos DocumentRepos) error {
		order, err := repos.Orders.GetForUpdate(ctx, in.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.NewValidationError("id_pedido", domain.ErrNotFound, "el pedido %s no existe", in.OrderID)
		}
		if order.CompanyID != companyID {
			return domain.ErrForbidden
		}
		if !order.IsPending() {
			return domain.NewValidationError("id_pedido", domain.ErrInvalidState,
				"el pedido %s está en estado %s", order.ID, order.Status)
		}
		if len(order.Lines) == 0 {
			return domain.NewValidationError("id_pedido", nil, "el pedido %s no tiene líneas", order.ID)
		}

		rate, err := currentRate(ctx, repos.ExchangeRates)
		if err != nil {
			return err
		}

		ids := make([]string, 0, len(order.Lines))
		for _, l := range order.Lines {
			ids = append(ids, l.ProductID)
		}
		products, err := repos.Products.GetByIDs(ctx, ids)
		if err != nil {
			return err
		}

		calcLines := make([]tax.Line, 0, len(order.Lines))
		docLines := make([]entity.DocumentLine, 0, len(order.Lines))
		for _, l := range order.Lines {
			line := tax.Line{
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
				UnitPrice: l.UnitPrice,
				Discount:  l.Discount,
				VATRate:   l.VATRate,
				Exempt:    l.Exempt,
			}
			res, err := tax.CalculateLine(line)
			if err != nil {
				return err
			}
			description := l.ProductID
			if p, ok := products[l.ProductID]; ok {
				description = p.Description
			}
			calcLines = append(calcLines, line)
			docLines = append(docLines, entity.DocumentLine{
				ID:          uuid.New().String(),
				ProductID:   l.ProductID,
				Description: description,
				Quantity:    l.Quantity,
				UnitPrice:   l.UnitPrice,
				Discount:    l.Discount,
				VATRate:     l.VATRate,
				Exempt:      res.Exempt,
				VATAmount:   res.VATAmount,
				Total:       res.Gross,
			})
		}

		totals, err := tax.CalculateTotals(calcLines, in.AppliesIGTF, rate.Rate)
		if err != nil {
			return err
		}

		doc = &entity.Document{
			Kind:         entity.KindInvoice,
			CompanyID:    order.CompanyID,
			CustomerID:   order.CustomerID,
			ExchangeRate: rate.Rate,
			Totals:       totals,
			Invoice: &entity.InvoicePayload{
				OrderID:     order.ID,
				AppliesIGTF: in.AppliesIGTF,
				Lines:       docLines,
			},
		}
		if err := uc.issue(ctx, repos, doc, nil); err != nil {
			return err
		}
		return repos.Orders.UpdateStatus(ctx, order.ID, entity.OrderStatusInvoiced)
	})
	if err != nil {
		return nil, uc.fail(entity.KindInvoice, in.OrderID, err)
	}

	uc.log.Info().
		Str("id", doc.ID).
		Int64("numero", doc.Number).
		Str("numero_control", doc.ControlNumber).
		Str("pedido", in.OrderID).
		Msg("factura emitida")
	return toDocumentResponse(doc), nil
}
