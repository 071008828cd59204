package billing

import (
	"context"

	"github.com/jhoicas/facturacion-ve/internal/application/dto"
	"github.com/jhoicas/facturacion-ve/internal/domain"
	"github.com/jhoicas/facturacion-ve/internal/domain/entity"
	"github.com/jhoicas/facturacion-ve/internal/domain/repository"
	"github.com/shopspring/decimal"
)

const retentionPlaces = 2

var (
	hundred         = decimal.NewFromInt(100)
	ivaRetention75  = decimal.NewFromInt(75)
	ivaRetention100 = decimal.NewFromInt(100)
)

// CreateRetentionReceipt emite un comprobante de retención sobre una factura.
//
// IVA: se retiene el 75% o el 100% del IVA facturado.
// ISLR: se retiene el porcentaje indicado sobre la base sin IVA (bases más exento).
// Solo se admite un comprobante por factura y tipo de impuesto.
func (uc *DocumentUseCase) CreateRetentionReceipt(ctx context.Context, companyID string, in dto.CreateRetentionRequest) (*dto.DocumentResponse, error) {
	if in.InvoiceID == "" {
		return nil, domain.NewValidationError("id_factura", nil, "la factura es obligatoria")
	}
	if err := validateRetentionPercentage(in.TaxType, in.Percentage); err != nil {
		return nil, err
	}

	var doc *entity.Document
	err := uc.txRunner.RunDocument(ctx, func(repos DocumentRepos) error {
		invoice, err := invoiceForReference(ctx, repos, companyID, in.InvoiceID, false)
		if err != nil {
			return err
		}

		existing, err := repos.Documents.List(ctx, repository.DocumentFilter{
			Kind:      entity.KindRetentionReceipt,
			InvoiceID: invoice.ID,
		})
		if err != nil {
			return err
		}
		for _, d := range existing {
			if d.Retention != nil && d.Retention.TaxType == in.TaxType {
				return domain.NewValidationError("tipo_impuesto", domain.ErrDuplicate,
					"la factura %s ya tiene comprobante de retención de %s", invoice.ID, in.TaxType)
			}
		}

		taxable := invoice.Totals.VATTotal
		if in.TaxType == entity.RetentionTaxISLR {
			taxable = invoice.Totals.SubtotalGross
		}
		retained := taxable.Mul(in.Percentage).Div(hundred).Round(retentionPlaces)

		doc = &entity.Document{
			Kind:         entity.KindRetentionReceipt,
			CompanyID:    invoice.CompanyID,
			CustomerID:   invoice.CustomerID,
			ExchangeRate: invoice.ExchangeRate,
			Totals:       entity.DocumentTotals{Total: retained},
			Retention: &entity.RetentionPayload{
				InvoiceID:      invoice.ID,
				TaxType:        in.TaxType,
				Percentage:     in.Percentage,
				TaxableAmount:  taxable,
				RetainedAmount: retained,
			},
		}
		return uc.issue(ctx, repos, doc, invoice)
	})
	if err != nil {
		return nil, uc.fail(entity.KindRetentionReceipt, in.InvoiceID, err)
	}

	uc.log.Info().
		Str("id", doc.ID).
		Int64("numero", doc.Number).
		Str("factura", in.InvoiceID).
		Str("impuesto", in.TaxType).
		Msg("comprobante de retención emitido")
	return toDocumentResponse(doc), nil
}

func validateRetentionPercentage(taxType string, pct decimal.Decimal) error {
	switch taxType {
	case entity.RetentionTaxIVA:
		if !pct.Equal(ivaRetention75) && !pct.Equal(ivaRetention100) {
			return domain.NewValidationError("porcentaje", nil, "la retención de IVA debe ser 75 o 100, se recibió %s", pct.String())
		}
	case entity.RetentionTaxISLR:
		if !pct.IsPositive() || pct.GreaterThan(hundred) {
			return domain.NewValidationError("porcentaje", nil, "la retención de ISLR debe estar en (0,100], se recibió %s", pct.String())
		}
	default:
		return domain.NewValidationError("tipo_impuesto", nil, "tipo de impuesto inválido: %s", taxType)
	}
	return nil
}
