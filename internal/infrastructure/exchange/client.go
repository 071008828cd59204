package exchange

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/jhoicas/facturacion-ve/internal/application/usecase"
	"github.com/jhoicas/facturacion-ve/internal/domain/entity"
	"github.com/shopspring/decimal"
)

const requestTimeout = 15 * time.Second

var _ usecase.ExchangeRateSource = (*Client)(nil)

// quote es la respuesta de la fuente pública del dólar oficial.
type quote struct {
	Average   decimal.Decimal `json:"promedio"`
	UpdatedAt time.Time       `json:"fechaActualizacion"`
}

// Client consulta la tasa oficial Bs/USD publicada por el BCV.
type Client struct {
	http *resty.Client
	url  string
}

// NewClient crea el cliente de la fuente en url.
func NewClient(url string) *Client {
	return &Client{
		http: resty.New().SetTimeout(requestTimeout).SetHeader("Accept", "application/json"),
		url:  url,
	}
}

// Fetch obtiene el promedio publicado, redondeado a 4 decimales.
func (c *Client) Fetch(ctx context.Context) (*entity.ExchangeRate, error) {
	var q quote
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&q).
		Get(c.url)
	if err != nil {
		return nil, fmt.Errorf("consultar tasa oficial: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("consultar tasa oficial: estado %d", resp.StatusCode())
	}
	if !q.Average.IsPositive() {
		return nil, fmt.Errorf("consultar tasa oficial: promedio inválido %q", q.Average.String())
	}
	return &entity.ExchangeRate{
		Rate:       q.Average.Round(4),
		SourceDate: q.UpdatedAt,
	}, nil
}
