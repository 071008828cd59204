package entity

import "github.com/shopspring/decimal"

// Alícuotas de IVA (porcentajes) y tasa IGTF vigentes.
const (
	VATRateExempt     = 0
	VATRateReduced    = 8
	VATRateGeneral    = 16
	VATRateAdditional = 31 // 16% general + 15% adicional de bienes suntuarios
	IGTFRate          = 3
)

// DocumentTotals agrupa los montos calculados de un documento fiscal.
// Las bases por alícuota más el exento suman SubtotalGross (antes de descuento).
type DocumentTotals struct {
	SubtotalGross  decimal.Decimal `json:"subtotal_sin_descuento"`
	Subtotal       decimal.Decimal `json:"subtotal_descuento"`
	Exempt         decimal.Decimal `json:"monto_exento"`
	BaseGeneral    decimal.Decimal `json:"monto_base_general"`
	BaseReduced    decimal.Decimal `json:"monto_base_reducida"`
	BaseAdditional decimal.Decimal `json:"monto_base_adicional"`
	TaxableBase    decimal.Decimal `json:"monto_base"`
	VATGeneral     decimal.Decimal `json:"iva_general_monto"`
	VATReduced     decimal.Decimal `json:"iva_reducida_monto"`
	VATAdditional  decimal.Decimal `json:"iva_adicional_monto"`
	VATTotal       decimal.Decimal `json:"iva_total"`
	Discount       decimal.Decimal `json:"descuento_total"`
	IGTFBase       decimal.Decimal `json:"base_igtf"`
	IGTFAmount     decimal.Decimal `json:"monto_igtf"`
	Total          decimal.Decimal `json:"monto_total"`
	TotalUSD       decimal.Decimal `json:"monto_dolares"`
}
