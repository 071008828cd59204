package tax

import (
	"github.com/jhoicas/facturacion-ve/internal/domain"
	"github.com/jhoicas/facturacion-ve/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// NoteModification es un ajuste solicitado por el cliente sobre un producto.
// UnitPrice cero toma el precio de la factura (crédito) o del producto (débito).
type NoteModification struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
}

// NoteInput reúne lo necesario para calcular una nota de crédito o débito.
type NoteInput struct {
	Kind          entity.DocumentKind
	Modifications []NoteModification
	Products      map[string]entity.Product
	InvoiceLines  []entity.DocumentLine
	Credited      map[string]decimal.Decimal // cantidades ya acreditadas por notas anteriores
	AppliesIGTF   bool
	ExchangeRate  decimal.Decimal
}

// NoteResult totales de la nota y la foto normalizada de las líneas ajustadas.
type NoteResult struct {
	Totals entity.DocumentTotals
	Lines  []entity.NoteLine
}

// CalculateNoteTotals aplica la misma lógica de alícuotas que CalculateTotals a las
// modificaciones de una nota. Todo producto debe existir; en notas de crédito además
// debe figurar en la factura original y lo acreditado, sumando notas anteriores, no puede
// superar lo facturado.
func CalculateNoteTotals(in NoteInput) (NoteResult, error) {
	if in.Kind != entity.KindCreditNote && in.Kind != entity.KindDebitNote {
		return NoteResult{}, domain.NewValidationError("tipo", nil, "tipo de nota inválido: %s", in.Kind)
	}
	if len(in.Modifications) == 0 {
		return NoteResult{}, domain.NewValidationError("modif_detalles", nil, "la nota debe tener al menos un detalle")
	}

	invoiced := make(map[string]entity.DocumentLine, len(in.InvoiceLines))
	invoicedQty := make(map[string]decimal.Decimal, len(in.InvoiceLines))
	for _, l := range in.InvoiceLines {
		if _, ok := invoiced[l.ProductID]; !ok {
			invoiced[l.ProductID] = l
		}
		invoicedQty[l.ProductID] = invoicedQty[l.ProductID].Add(l.Quantity)
	}

	credited := make(map[string]decimal.Decimal)
	lines := make([]Line, 0, len(in.Modifications))
	snapshot := make([]entity.NoteLine, 0, len(in.Modifications))

	for _, m := range in.Modifications {
		product, ok := in.Products[m.ProductID]
		if !ok {
			return NoteResult{}, domain.NewValidationError("id_producto", domain.ErrNotFound,
				"el producto %s no existe", m.ProductID)
		}
		if !m.Quantity.IsPositive() {
			return NoteResult{}, domain.NewValidationError("cantidad", nil,
				"la cantidad del producto %s debe ser mayor a cero", m.ProductID)
		}

		line := Line{
			ProductID: m.ProductID,
			Quantity:  m.Quantity,
			UnitPrice: m.UnitPrice,
			Discount:  m.Discount,
		}
		description := product.Description

		if in.Kind == entity.KindCreditNote {
			orig, ok := invoiced[m.ProductID]
			if !ok {
				return NoteResult{}, domain.NewValidationError("id_producto", domain.ErrNotFound,
					"el producto %s no figura en la factura original", m.ProductID)
			}
			credited[m.ProductID] = credited[m.ProductID].Add(m.Quantity)
			available := invoicedQty[m.ProductID].Sub(in.Credited[m.ProductID])
			if credited[m.ProductID].GreaterThan(available) {
				return NoteResult{}, domain.NewValidationError("cantidad", nil,
					"la cantidad acreditada del producto %s supera la disponible (%s de %s facturada)",
					m.ProductID, available.String(), invoicedQty[m.ProductID].String())
			}
			line.VATRate, line.Exempt = orig.VATRate, orig.Exempt
			if line.UnitPrice.IsZero() {
				line.UnitPrice = orig.UnitPrice
			}
			if orig.Description != "" {
				description = orig.Description
			}
		} else {
			line.VATRate, line.Exempt = product.VATRate, product.Exempt
			if line.UnitPrice.IsZero() {
				line.UnitPrice = product.Price
			}
		}

		res, err := CalculateLine(line)
		if err != nil {
			return NoteResult{}, err
		}
		lines = append(lines, line)
		snapshot = append(snapshot, entity.NoteLine{
			ProductID:   line.ProductID,
			Description: description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Discount:    line.Discount,
			VATRate:     line.VATRate,
			Exempt:      res.Exempt,
			Total:       res.Gross.Round(amountPlaces),
		})
	}

	totals, err := CalculateTotals(lines, in.AppliesIGTF, in.ExchangeRate)
	if err != nil {
		return NoteResult{}, err
	}
	return NoteResult{Totals: totals, Lines: snapshot}, nil
}
