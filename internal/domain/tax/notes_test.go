package tax_test

import (
	"testing"

	"github.com/jhoicas/facturacion-ve/internal/domain"
	"github.com/jhoicas/facturacion-ve/internal/domain/entity"
	"github.com/jhoicas/facturacion-ve/internal/domain/tax"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noteFixture(kind entity.DocumentKind) tax.NoteInput {
	return tax.NoteInput{
		Kind: kind,
		Products: map[string]entity.Product{
			"p1": {ID: "p1", Description: "Harina", Price: dec("100"), VATRate: entity.VATRateGeneral},
			"p2": {ID: "p2", Description: "Arroz", Price: dec("40"), VATRate: entity.VATRateReduced},
			"p3": {ID: "p3", Description: "Servicio", Price: dec("10"), Exempt: true},
		},
		InvoiceLines: []entity.DocumentLine{
			{ProductID: "p1", Description: "Harina PAN", Quantity: dec("2"), UnitPrice: dec("90"), VATRate: entity.VATRateGeneral},
			{ProductID: "p2", Description: "Arroz", Quantity: dec("5"), UnitPrice: dec("40"), VATRate: entity.VATRateReduced},
		},
		ExchangeRate: dec("36.5"),
	}
}

func TestCalculateNoteTotals_CreditoUsaDatosDeLaFactura(t *testing.T) {
	in := noteFixture(entity.KindCreditNote)
	in.Modifications = []tax.NoteModification{
		{ProductID: "p1", Quantity: dec("1")},
		{ProductID: "p2", Quantity: dec("2"), UnitPrice: dec("35")},
	}

	res, err := tax.CalculateNoteTotals(in)
	require.NoError(t, err)

	require.Len(t, res.Lines, 2)
	assertDec(t, "90", res.Lines[0].UnitPrice, "precio tomado de la factura")
	assert.Equal(t, "Harina PAN", res.Lines[0].Description)
	assertDec(t, "70", res.Lines[1].Total, "total de línea")

	assertDec(t, "90", res.Totals.BaseGeneral, "base general")
	assertDec(t, "70", res.Totals.BaseReduced, "base reducida")
	assertDec(t, "14.4", res.Totals.VATGeneral, "iva general")
	assertDec(t, "5.6", res.Totals.VATReduced, "iva reducida")
	assertDec(t, "180", res.Totals.Total, "total")
}

func TestCalculateNoteTotals_CreditoProductoFueraDeFactura(t *testing.T) {
	in := noteFixture(entity.KindCreditNote)
	in.Modifications = []tax.NoteModification{{ProductID: "p3", Quantity: dec("1")}}

	_, err := tax.CalculateNoteTotals(in)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCalculateNoteTotals_CreditoExcedeCantidadFacturada(t *testing.T) {
	in := noteFixture(entity.KindCreditNote)
	in.Modifications = []tax.NoteModification{
		{ProductID: "p1", Quantity: dec("1.5")},
		{ProductID: "p1", Quantity: dec("1")},
	}

	_, err := tax.CalculateNoteTotals(in)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCalculateNoteTotals_CreditoDescuentaLoYaAcreditado(t *testing.T) {
	in := noteFixture(entity.KindCreditNote)
	in.Modifications = []tax.NoteModification{{ProductID: "p1", Quantity: dec("1")}}

	in.Credited = map[string]decimal.Decimal{"p1": dec("1")}
	_, err := tax.CalculateNoteTotals(in)
	require.NoError(t, err, "queda 1 de 2")

	in.Credited = map[string]decimal.Decimal{"p1": dec("1.5")}
	_, err = tax.CalculateNoteTotals(in)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCalculateNoteTotals_DebitoUsaDatosDelProducto(t *testing.T) {
	in := noteFixture(entity.KindDebitNote)
	in.AppliesIGTF = true
	in.Modifications = []tax.NoteModification{
		{ProductID: "p3", Quantity: dec("2")},
		{ProductID: "p1", Quantity: dec("1")},
	}

	res, err := tax.CalculateNoteTotals(in)
	require.NoError(t, err)

	assert.True(t, res.Lines[0].Exempt)
	assertDec(t, "20", res.Totals.Exempt, "exento")
	assertDec(t, "100", res.Totals.BaseGeneral, "base general con precio del producto")
	assertDec(t, "136", res.Totals.IGTFBase, "base igtf")
	assertDec(t, "4.08", res.Totals.IGTFAmount, "igtf")
	assertDec(t, "140.08", res.Totals.Total, "total")
}

func TestCalculateNoteTotals_ProductoInexistente(t *testing.T) {
	in := noteFixture(entity.KindDebitNote)
	in.Modifications = []tax.NoteModification{{ProductID: "nope", Quantity: dec("1")}}

	_, err := tax.CalculateNoteTotals(in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCalculateNoteTotals_DescuentoInvalido(t *testing.T) {
	in := noteFixture(entity.KindDebitNote)
	in.Modifications = []tax.NoteModification{{ProductID: "p1", Quantity: dec("1"), Discount: dec("1.5")}}

	_, err := tax.CalculateNoteTotals(in)
	assert.ErrorIs(t, err, domain.ErrInvalidDiscount)
}

func TestCalculateNoteTotals_SinDetalles(t *testing.T) {
	_, err := tax.CalculateNoteTotals(noteFixture(entity.KindCreditNote))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
