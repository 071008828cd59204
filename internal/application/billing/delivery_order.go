package billing

import (
	"context"
	"errors"

	"github.com/jhoicas/facturacion-ve/internal/application/dto"
	"github.com/jhoicas/facturacion-ve/internal/domain"
	"github.com/jhoicas/facturacion-ve/internal/domain/entity"
	"github.com/jhoicas/facturacion-ve/internal/domain/tax"
	"github.com/shopspring/decimal"
)

// CreateDeliveryOrder emite una orden de entrega con los bienes entregados al cliente.
// Los totales son informativos, a precio de catálogo y sin IGTF; si no hay tasa vigente
// el equivalente en dólares queda en cero.
func (uc *DocumentUseCase) CreateDeliveryOrder(ctx context.Context, companyID string, in dto.CreateDeliveryOrderRequest) (*dto.DocumentResponse, error) {
	if in.CustomerID == "" {
		return nil, domain.NewValidationError("id_cliente", nil, "el cliente es obligatorio")
	}
	if len(in.Goods) == 0 {
		return nil, domain.NewValidationError("bienes_entregados", nil, "la orden debe tener al menos un bien")
	}

	var doc *entity.Document
	err := uc.txRunner.RunDocument(ctx, func(repos DocumentRepos) error {
		ids := make([]string, 0, len(in.Goods))
		for _, g := range in.Goods {
			ids = append(ids, g.ProductID)
		}
		products, err := repos.Products.GetByIDs(ctx, ids)
		if err != nil {
			return err
		}

		lines := make([]tax.Line, 0, len(in.Goods))
		goods := make([]entity.DeliveredGood, 0, len(in.Goods))
		for _, g := range in.Goods {
			p, ok := products[g.ProductID]
			if !ok || p.CompanyID != companyID {
				return domain.NewValidationError("id_producto", domain.ErrNotFound, "el producto %s no existe", g.ProductID)
			}
			if !g.Quantity.IsPositive() {
				return domain.NewValidationError("cantidad", nil, "la cantidad del producto %s debe ser mayor a cero", g.ProductID)
			}
			lines = append(lines, tax.Line{
				ProductID: p.ID,
				Quantity:  g.Quantity,
				UnitPrice: p.Price,
				VATRate:   p.VATRate,
				Exempt:    p.Exempt,
			})
			goods = append(goods, entity.DeliveredGood{
				ProductID:   p.ID,
				Description: p.Description,
				Quantity:    g.Quantity,
			})
		}

		rate := decimal.Zero
		current, err := currentRate(ctx, repos.ExchangeRates)
		switch {
		case err == nil:
			rate = current.Rate
		case !errors.Is(err, domain.ErrExchangeRateUnavailable):
			return err
		}

		totals, err := tax.CalculateTotals(lines, false, rate)
		if err != nil {
			return err
		}

		doc = &entity.Document{
			Kind:         entity.KindDeliveryOrder,
			CompanyID:    companyID,
			CustomerID:   in.CustomerID,
			ExchangeRate: rate,
			Totals:       totals,
			Delivery:     &entity.DeliveryPayload{Goods: goods},
		}
		return uc.issue(ctx, repos, doc, nil)
	})
	if err != nil {
		return nil, uc.fail(entity.KindDeliveryOrder, in.CustomerID, err)
	}

	uc.log.Info().
		Str("id", doc.ID).
		Int64("numero", doc.Number).
		Str("cliente", in.CustomerID).
		Msg("orden de entrega emitida")
	return toDocumentResponse(doc), nil
}
