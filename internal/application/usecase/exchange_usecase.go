package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/facturacion-ve/internal/application/dto"
	"github.com/jhoicas/facturacion-ve/internal/domain"
	"github.com/jhoicas/facturacion-ve/internal/domain/entity"
	"github.com/jhoicas/facturacion-ve/internal/domain/repository"
	"github.com/jhoicas/facturacion-ve/pkg/logger"
)

// ExchangeRateSource fuente externa de la tasa oficial.
type ExchangeRateSource interface {
	Fetch(ctx context.Context) (*entity.ExchangeRate, error)
}

// ExchangeRateUseCase mantiene la tasa vigente que consumen pedidos y facturas.
type ExchangeRateUseCase struct {
	repo   repository.ExchangeRateRepository
	source ExchangeRateSource
	log    *logger.Logger
	now    func() time.Time
}

// NewExchangeRateUseCase construye el caso de uso. source puede ser nil si el refresco está deshabilitado.
func NewExchangeRateUseCase(repo repository.ExchangeRateRepository, source ExchangeRateSource, log *logger.Logger) *ExchangeRateUseCase {
	return &ExchangeRateUseCase{
		repo:   repo,
		source: source,
		log:    log.Component("tasa_cambio"),
		now:    time.Now,
	}
}

// Current devuelve la tasa vigente o domain.ErrExchangeRateUnavailable.
func (uc *ExchangeRateUseCase) Current(ctx context.Context) (*dto.ExchangeRateResponse, error) {
	rate, err := uc.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if rate == nil {
		return nil, domain.ErrExchangeRateUnavailable
	}
	return toExchangeRateResponse(rate), nil
}

// Refresh consulta la fuente y reemplaza la tasa vigente.
func (uc *ExchangeRateUseCase) Refresh(ctx context.Context) (*dto.ExchangeRateResponse, error) {
	if uc.source == nil {
		return nil, fmt.Errorf("refrescar tasa: %w", domain.ErrExchangeRateUnavailable)
	}
	rate, err := uc.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("refrescar tasa: %w", err)
	}
	if rate == nil || !rate.Rate.IsPositive() {
		return nil, fmt.Errorf("refrescar tasa: valor no positivo: %w", domain.ErrExchangeRateUnavailable)
	}
	rate.UpdatedAt = uc.now()
	if err := uc.repo.Upsert(ctx, rate); err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("tasa", rate.Rate.String()).
		Time("fecha_fuente", rate.SourceDate).
		Msg("tasa de cambio actualizada")
	return toExchangeRateResponse(rate), nil
}

// StartScheduler refresca la tasa al arrancar y luego cada interval, hasta que ctx se cancele.
// El canal devuelto se cierra cuando la goroutine termina.
func (uc *ExchangeRateUseCase) StartScheduler(ctx context.Context, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			if _, err := uc.Refresh(ctx); err != nil && ctx.Err() == nil {
				uc.log.Warn().Err(err).Msg("no se pudo refrescar la tasa de cambio")
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return done
}

func toExchangeRateResponse(r *entity.ExchangeRate) *dto.ExchangeRateResponse {
	return &dto.ExchangeRateResponse{
		Rate:       r.Rate,
		SourceDate: r.SourceDate,
		UpdatedAt:  r.UpdatedAt,
	}
}
