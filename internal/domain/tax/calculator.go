// Package tax implementa el cálculo de totales fiscales venezolanos: IVA por alícuota
// (general, reducida, adicional), monto exento, descuentos e IGTF.
package tax

import (
	"github.com/jhoicas/facturacion-ve/internal/domain"
	"github.com/jhoicas/facturacion-ve/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Decimales de salida de todos los montos y de redondeo del IGTF.
const (
	amountPlaces = 4
	igtfPlaces   = 2
)

var (
	hundred  = decimal.NewFromInt(100)
	igtfRate = decimal.NewFromInt(entity.IGTFRate).Div(hundred)
)

// Line es la entrada mínima del calculador: una línea de pedido, factura o nota.
type Line struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal // fracción 0..1
	VATRate   int             // 0, 8, 16 o 31
	Exempt    bool
}

// LineResult es el desglose calculado para una línea.
type LineResult struct {
	Gross     decimal.Decimal // cantidad × precio
	Discount  decimal.Decimal
	VATAmount decimal.Decimal
	Exempt    bool
}

// bracket identifica el acumulador de una línea gravada.
type bracket int

const (
	bracketExempt bracket = iota
	bracketGeneral
	bracketReduced
	bracketAdditional
)

func classify(l Line) (bracket, error) {
	if l.Exempt {
		return bracketExempt, nil
	}
	switch l.VATRate {
	case entity.VATRateExempt:
		return bracketExempt, nil
	case entity.VATRateGeneral:
		return bracketGeneral, nil
	case entity.VATRateReduced:
		return bracketReduced, nil
	case entity.VATRateAdditional:
		return bracketAdditional, nil
	}
	return 0, domain.NewValidationError("alicuota_iva", domain.ErrInvalidVATRate,
		"alícuota %d no soportada para el producto %s", l.VATRate, l.ProductID)
}

// ValidateDiscount verifica que la fracción de descuento esté en [0,1].
func ValidateDiscount(productID string, discount decimal.Decimal) error {
	if discount.IsNegative() || discount.GreaterThan(decimal.NewFromInt(1)) {
		return domain.NewValidationError("descuento", domain.ErrInvalidDiscount,
			"el descuento del producto %s es inválido: %s", productID, discount.String())
	}
	return nil
}

// VATPercent devuelve la tasa decimal (0.16) de una alícuota entera (16).
func VATPercent(rate int) decimal.Decimal {
	return decimal.NewFromInt(int64(rate)).Div(hundred)
}

// CalculateLine valida y desglosa una línea. El IVA se calcula sobre el monto bruto
// y se redondea a 4 decimales por línea.
func CalculateLine(l Line) (LineResult, error) {
	if err := ValidateDiscount(l.ProductID, l.Discount); err != nil {
		return LineResult{}, err
	}
	if l.Quantity.IsNegative() || l.UnitPrice.IsNegative() {
		return LineResult{}, domain.NewValidationError("cantidad", nil,
			"cantidad y precio del producto %s deben ser positivos", l.ProductID)
	}
	b, err := classify(l)
	if err != nil {
		return LineResult{}, err
	}
	gross := l.Quantity.Mul(l.UnitPrice)
	res := LineResult{
		Gross:    gross,
		Discount: gross.Mul(l.Discount),
		Exempt:   b == bracketExempt,
	}
	if b != bracketExempt {
		res.VATAmount = gross.Mul(VATPercent(l.VATRate)).Round(amountPlaces)
	}
	return res, nil
}

// CalculateTotals calcula los totales de un documento a partir de sus líneas.
//
// Las bases por alícuota se acumulan sin descuento; el descuento se reporta aparte.
// Total antes de IGTF = bases + IVA + exento. Si aplicaIGTF y el total es positivo,
// se suma el 3% redondeado a 2 decimales. El equivalente en dólares usa la tasa dada
// (0 si la tasa no es positiva). Todas las salidas quedan en 4 decimales y >= 0.
// Un descuento fuera de [0,1] aborta el cálculo completo.
func CalculateTotals(lines []Line, appliesIGTF bool, exchangeRate decimal.Decimal) (entity.DocumentTotals, error) {
	var (
		gross, discount, exempt                  decimal.Decimal
		baseGeneral, baseReduced, baseAdditional decimal.Decimal
		vatGeneral, vatReduced, vatAdditional    decimal.Decimal
	)
	for _, l := range lines {
		res, err := CalculateLine(l)
		if err != nil {
			return entity.DocumentTotals{}, err
		}
		gross = gross.Add(res.Gross)
		discount = discount.Add(res.Discount)
		if res.Exempt {
			exempt = exempt.Add(res.Gross)
			continue
		}
		switch l.VATRate {
		case entity.VATRateGeneral:
			baseGeneral = baseGeneral.Add(res.Gross)
			vatGeneral = vatGeneral.Add(res.VATAmount)
		case entity.VATRateReduced:
			baseReduced = baseReduced.Add(res.Gross)
			vatReduced = vatReduced.Add(res.VATAmount)
		case entity.VATRateAdditional:
			baseAdditional = baseAdditional.Add(res.Gross)
			vatAdditional = vatAdditional.Add(res.VATAmount)
		}
	}

	taxableBase := baseGeneral.Add(baseReduced).Add(baseAdditional)
	vatTotal := vatGeneral.Add(vatReduced).Add(vatAdditional)
	preIGTF := taxableBase.Add(vatTotal).Add(exempt)

	igtfBase, igtfAmount := IGTF(preIGTF, appliesIGTF)
	total := preIGTF.Add(igtfAmount)

	var totalUSD decimal.Decimal
	if exchangeRate.IsPositive() {
		totalUSD = total.Div(exchangeRate)
	}

	return entity.DocumentTotals{
		SubtotalGross:  clamp(gross),
		Subtotal:       clamp(gross.Sub(discount)),
		Exempt:         clamp(exempt),
		BaseGeneral:    clamp(baseGeneral),
		BaseReduced:    clamp(baseReduced),
		BaseAdditional: clamp(baseAdditional),
		TaxableBase:    clamp(taxableBase),
		VATGeneral:     clamp(vatGeneral),
		VATReduced:     clamp(vatReduced),
		VATAdditional:  clamp(vatAdditional),
		VATTotal:       clamp(vatTotal),
		Discount:       clamp(discount),
		IGTFBase:       clamp(igtfBase),
		IGTFAmount:     clamp(igtfAmount),
		Total:          clamp(total),
		TotalUSD:       clamp(totalUSD),
	}, nil
}

// IGTF devuelve la base y el monto del impuesto a las grandes transacciones financieras.
// Ambos son cero cuando no aplica o la base no es positiva.
func IGTF(base decimal.Decimal, applies bool) (decimal.Decimal, decimal.Decimal) {
	if !applies || !base.IsPositive() {
		return decimal.Zero, decimal.Zero
	}
	return base, base.Mul(igtfRate).Round(igtfPlaces)
}

func clamp(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d.Round(amountPlaces)
}
