package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRateResponse tasa oficial vigente (Bs por USD).
type ExchangeRateResponse struct {
	Rate       decimal.Decimal `json:"tasa"`
	SourceDate time.Time       `json:"fecha_fuente"`
	UpdatedAt  time.Time       `json:"actualizado"`
}
