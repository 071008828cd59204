package smart

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
	"github.com/jhoicas/facturacion-ve/internal/application/billing"
	"github.com/jhoicas/facturacion-ve/internal/domain"
	"github.com/jhoicas/facturacion-ve/pkg/config"
	"github.com/jhoicas/facturacion-ve/pkg/logger"
)

var _ billing.ControlNumberAssigner = (*Client)(nil)

// Formatos de fecha y hora que devuelve la imprenta.
var issuedLayouts = []string{
	"2006-01-02 15:04:05",
	"02/01/2006 15:04:05",
	"2006-01-02 03:04:05 PM",
	"02/01/2006 03:04:05 PM",
	"2006-01-02",
	"02/01/2006",
}

// Client relaya los documentos a la imprenta digital, que devuelve el número de control.
// Los tipos que la imprenta no emite (comprobantes de retención) se delegan a fallback.
type Client struct {
	http      *resty.Client
	sendEmail bool
	fallback  billing.ControlNumberAssigner
	log       *logger.Logger
	now       func() time.Time
}

// NewClient construye el cliente a partir de la configuración de la imprenta.
func NewClient(cfg config.SmartConfig, fallback billing.ControlNumberAssigner, log *logger.Logger) *Client {
	http := resty.New().
		SetBaseURL(strings.TrimRight(cfg.APIURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.APIToken != "" {
		http.SetAuthToken(cfg.APIToken)
	}
	return &Client{
		http:      http,
		sendEmail: cfg.SendEmail,
		fallback:  fallback,
		log:       log.Component("imprenta"),
		now:       time.Now,
	}
}

// Assign implementa billing.ControlNumberAssigner.
func (c *Client) Assign(ctx context.Context, req billing.ControlNumberRequest) (*billing.ControlNumberResult, error) {
	if req.Document == nil || req.Company == nil || req.Customer == nil {
		return nil, fmt.Errorf("imprenta: solicitud incompleta")
	}
	if _, ok := documentTypes[req.Document.Kind]; !ok {
		return c.fallback.Assign(ctx, req)
	}

	var out response
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(buildRequest(req, c.sendEmail)).
		Post("")
	if err != nil {
		return nil, fmt.Errorf("imprenta: %w", err)
	}
	if resp.IsError() {
		c.log.Warn().
			Int("status", resp.StatusCode()).
			Str("documento", req.Document.ID).
			Str("respuesta", truncate(resp.String(), 500)).
			Msg("la imprenta rechazó el documento")
		return nil, fmt.Errorf("imprenta respondió %d: %w", resp.StatusCode(), domain.ErrPrinterRejected)
	}
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("imprenta: respuesta ilegible: %w", domain.ErrPrinterRejected)
	}
	if !out.Success || out.Data.DocumentNumber == "" {
		msg := out.Message
		if msg == "" {
			msg = "sin número de control"
		}
		c.log.Warn().
			Bool("success", out.Success).
			Str("documento", req.Document.ID).
			Str("numero", out.Data.DocumentNumber).
			Str("respuesta", truncate(out.Message, 500)).
			Msg("la imprenta no confirmó el documento")
		return nil, fmt.Errorf("imprenta: %s: %w", msg, domain.ErrPrinterRejected)
	}

	c.log.Info().
		Str("documento", req.Document.ID).
		Str("numero_control", out.Data.DocumentNumber).
		Msg("número de control asignado por la imprenta")
	return &billing.ControlNumberResult{
		ControlNumber: out.Data.DocumentNumber,
		AssignedAt:    c.issuedAt(out.Data.Date, out.Data.Time),
		PDFURL:        out.Data.PDFURL,
		Printed:       true,
	}, nil
}

func (c *Client) issuedAt(date, clock string) time.Time {
	value := strings.TrimSpace(date + " " + clock)
	for _, layout := range issuedLayouts {
		if t, err := time.ParseInLocation(layout, value, caracas); err == nil {
			return t
		}
	}
	return c.now()
}

var caracas = loadCaracas()

func loadCaracas() *time.Location {
	loc, err := time.LoadLocation("America/Caracas")
	if err != nil {
		return time.FixedZone("VET", -4*60*60)
	}
	return loc
}

// truncate corta s a lo sumo en n bytes sin partir una runa.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
