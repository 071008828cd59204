package repository

import (
	"context"

	"github.com/jhoicas/facturacion-ve/internal/domain/entity"
)

// ExchangeRateRepository persiste la tasa de cambio vigente (una sola fila).
type ExchangeRateRepository interface {
	// Get devuelve (nil, nil) si aún no hay tasa registrada.
	Get(ctx context.Context) (*entity.ExchangeRate, error)
	Upsert(ctx context.Context, rate *entity.ExchangeRate) error
}
