package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate es la tasa oficial vigente (Bs/USD). Solo existe un registro.
type ExchangeRate struct {
	Rate       decimal.Decimal
	SourceDate time.Time // fecha de publicación según la fuente
	UpdatedAt  time.Time
}
