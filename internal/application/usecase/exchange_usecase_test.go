package usecase_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jhoicas/facturacion-ve/internal/application/usecase"
	"github.com/jhoicas/facturacion-ve/internal/domain"
	"github.com/jhoicas/facturacion-ve/internal/domain/entity"
	"github.com/jhoicas/facturacion-ve/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	rate  decimal.Decimal
	err   error
	calls atomic.Int32
}

func (s *fakeSource) Fetch(_ context.Context) (*entity.ExchangeRate, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return &entity.ExchangeRate{Rate: s.rate, SourceDate: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)}, nil
}

func TestExchangeRate_CurrentSinTasa(t *testing.T) {
	uc := usecase.NewExchangeRateUseCase(&memRateRepo{}, nil, logger.Nop())
	_, err := uc.Current(context.Background())
	assert.ErrorIs(t, err, domain.ErrExchangeRateUnavailable)
}

func TestExchangeRate_Refresh(t *testing.T) {
	repo := &memRateRepo{}
	src := &fakeSource{rate: decimal.RequireFromString("36.5123")}
	uc := usecase.NewExchangeRateUseCase(repo, src, logger.Nop())
	ctx := context.Background()

	resp, err := uc.Refresh(ctx)
	require.NoError(t, err)
	assert.True(t, resp.Rate.Equal(src.rate))
	assert.False(t, resp.UpdatedAt.IsZero())

	current, err := uc.Current(ctx)
	require.NoError(t, err)
	assert.True(t, current.Rate.Equal(src.rate))
}

func TestExchangeRate_RefreshErrores(t *testing.T) {
	ctx := context.Background()

	t.Run("sin fuente", func(t *testing.T) {
		uc := usecase.NewExchangeRateUseCase(&memRateRepo{}, nil, logger.Nop())
		_, err := uc.Refresh(ctx)
		assert.ErrorIs(t, err, domain.ErrExchangeRateUnavailable)
	})

	t.Run("fuente caída conserva la tasa anterior", func(t *testing.T) {
		prev := &entity.ExchangeRate{Rate: decimal.NewFromInt(35)}
		repo := &memRateRepo{rate: prev}
		boom := errors.New("timeout")
		uc := usecase.NewExchangeRateUseCase(repo, &fakeSource{err: boom}, logger.Nop())

		_, err := uc.Refresh(ctx)
		assert.ErrorIs(t, err, boom)
		assert.Zero(t, repo.count())
		assert.True(t, repo.rate.Rate.Equal(prev.Rate))
	})

	t.Run("valor no positivo", func(t *testing.T) {
		repo := &memRateRepo{}
		uc := usecase.NewExchangeRateUseCase(repo, &fakeSource{rate: decimal.Zero}, logger.Nop())
		_, err := uc.Refresh(ctx)
		assert.ErrorIs(t, err, domain.ErrExchangeRateUnavailable)
		assert.Zero(t, repo.count())
	})
}

func TestExchangeRate_SchedulerRefrescaYTerminaAlCancelar(t *testing.T) {
	repo := &memRateRepo{}
	src := &fakeSource{rate: decimal.NewFromInt(40)}
	uc := usecase.NewExchangeRateUseCase(repo, src, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := uc.StartScheduler(ctx, 10*time.Millisecond)

	require.Eventually(t, func() bool { return repo.count() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("el programador no terminó tras cancelar el contexto")
	}
	assert.GreaterOrEqual(t, int(src.calls.Load()), 2)
}
