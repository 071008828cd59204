package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/facturacion-ve/internal/domain/entity"
	"github.com/jhoicas/facturacion-ve/internal/domain/repository"
)

var _ repository.ExchangeRateRepository = (*ExchangeRateRepo)(nil)

// ExchangeRateRepo tasa vigente (fila única id = 1).
type ExchangeRateRepo struct {
	q Querier
}

// NewExchangeRateRepository construye el adaptador. Pasar pool o tx (Querier).
func NewExchangeRateRepository(q Querier) *ExchangeRateRepo {
	return &ExchangeRateRepo{q: q}
}

// Get devuelve la tasa vigente o (nil, nil) si aún no se ha cargado.
func (r *ExchangeRateRepo) Get(ctx context.Context) (*entity.ExchangeRate, error) {
	var (
		rate       entity.ExchangeRate
		sourceDate *time.Time
	)
	err := r.q.QueryRow(ctx, `SELECT rate, source_date, updated_at FROM exchange_rates WHERE id = 1`).
		Scan(&rate.Rate, &sourceDate, &rate.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get exchange rate: %w", err)
	}
	if sourceDate != nil {
		rate.SourceDate = *sourceDate
	}
	return &rate, nil
}

// Upsert reemplaza la tasa vigente.
func (r *ExchangeRateRepo) Upsert(ctx context.Context, rate *entity.ExchangeRate) error {
	var sourceDate *time.Time
	if !rate.SourceDate.IsZero() {
		sourceDate = &rate.SourceDate
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO exchange_rates (id, rate, source_date, updated_at) VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET rate = EXCLUDED.rate, source_date = EXCLUDED.source_date,
			updated_at = EXCLUDED.updated_at`,
		rate.Rate, sourceDate, rate.UpdatedAt,
	)
	if err != nil {
		return translate("upsert exchange rate", err)
	}
	return nil
}
