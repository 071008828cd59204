package smart

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/jhoicas/facturacion-ve/internal/application/billing"
	"github.com/jhoicas/facturacion-ve/internal/domain"
	"github.com/jhoicas/facturacion-ve/internal/domain/entity"
	"github.com/jhoicas/facturacion-ve/pkg/config"
	"github.com/jhoicas/facturacion-ve/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func invoiceRequest() billing.ControlNumberRequest {
	return billing.ControlNumberRequest{
		Company:  &entity.Company{ID: "emp-1", RIF: "J-12345678-9"},
		Customer: &entity.Customer{ID: "cli-1", Name: "Comercial Caracas", TaxID: "312345675", DocumentType: entity.DocumentTypeJ, Email: "compras@caracas.ve"},
		Document: &entity.Document{
			ID:           "doc-1",
			Kind:         entity.KindInvoice,
			Number:       7,
			ExchangeRate: d("36.5"),
			Totals: entity.DocumentTotals{
				SubtotalGross: d("140"),
				Exempt:        d("0"),
				BaseGeneral:   d("100"),
				VATGeneral:    d("16"),
				BaseReduced:   d("40"),
				VATReduced:    d("3.2"),
				IGTFBase:      d("159.2"),
				IGTFAmount:    d("4.78"),
				Total:         d("163.98"),
			},
			Invoice: &entity.InvoicePayload{
				OrderID:     "ped-1",
				AppliesIGTF: true,
				Lines: []entity.DocumentLine{
					{ProductID: "p-1", Description: "Harina", Quantity: d("1"), UnitPrice: d("100"), Discount: d("0"), VATRate: 16, VATAmount: d("16"), Total: d("100")},
					{ProductID: "p-2", Description: "Arroz", Quantity: d("2"), UnitPrice: d("20"), Discount: d("0"), VATRate: 8, VATAmount: d("3.2"), Total: d("40")},
				},
			},
		},
	}
}

type stubAssigner struct{ called bool }

func (s *stubAssigner) Assign(context.Context, billing.ControlNumberRequest) (*billing.ControlNumberResult, error) {
	s.called = true
	return &billing.ControlNumberResult{ControlNumber: "04-00000001"}, nil
}

func newTestClient(t *testing.T, h http.HandlerFunc, fallback billing.ControlNumberAssigner) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(config.SmartConfig{
		Enabled:   true,
		APIURL:    srv.URL,
		APIToken:  "secreto",
		SendEmail: true,
		Timeout:   2 * time.Second,
	}, fallback, logger.Nop())
}

func TestAssign_Factura(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secreto", r.Header.Get("Authorization"))
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":{"numerodocumento":"00-00012345","fecha":"2026-10-19","hora":"10:30:00","urlpdf":"https://imprenta/doc.pdf"}}`))
	}, &stubAssigner{})

	res, err := c.Assign(context.Background(), invoiceRequest())
	require.NoError(t, err)
	assert.Equal(t, "00-00012345", res.ControlNumber)
	assert.Equal(t, "https://imprenta/doc.pdf", res.PDFURL)
	assert.True(t, res.Printed)
	assert.Equal(t, 2026, res.AssignedAt.Year())
	assert.Equal(t, 10, res.AssignedAt.Hour())

	assert.Equal(t, "J-12345678-9", body["rif"])
	assert.Equal(t, "doc-1", body["trackingid"])
	assert.EqualValues(t, 3, body["idtipocedulacliente"])
	assert.EqualValues(t, 1, body["idtipodocumento"])
	assert.EqualValues(t, 163.98, body["total"])
	assert.EqualValues(t, 4.78, body["impuestoigtf"])
	assert.EqualValues(t, 16, body["tasag"])
	assert.Equal(t, "1", body["sendmail"])
	assert.Equal(t, "7", body["numerointerno"])
	lines, ok := body["cuerpofactura"].([]any)
	require.True(t, ok)
	assert.Len(t, lines, 2)
}

func TestAssign_NotaEnviaRelacionado(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		_, _ = w.Write([]byte(`{"success":true,"data":{"numerodocumento":"01-00000009"}}`))
	}, &stubAssigner{})

	req := invoiceRequest()
	req.Related = &entity.Document{ID: "doc-1", ControlNumber: "00-00012345"}
	req.Document = &entity.Document{
		ID:     "doc-2",
		Kind:   entity.KindCreditNote,
		Number: 1,
		Note: &entity.NotePayload{
			InvoiceID:   "doc-1",
			Description: "Devolución parcial",
			Lines: []entity.NoteLine{
				{ProductID: "p-1", Description: "Harina", Quantity: d("1"), UnitPrice: d("100"), Discount: d("0"), VATRate: 16, Total: d("100")},
			},
		},
	}

	res, err := c.Assign(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "01-00000009", res.ControlNumber)
	assert.EqualValues(t, 2, body["idtipodocumento"])
	assert.Equal(t, "00-00012345", body["relacionado"])
	assert.Equal(t, "Devolución parcial", body["Observacion"])
	line := body["cuerpofactura"].([]any)[0].(map[string]any)
	assert.EqualValues(t, 16, line["impuesto"])
}

func TestAssign_Rechazos(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		payload string
	}{
		{"error http", http.StatusBadRequest, `{"success":false,"message":"rif inválido"}`},
		{"sin número", http.StatusOK, `{"success":false,"message":"cliente sin correo"}`},
		{"rechazo con número", http.StatusOK, `{"success":false,"message":"rechazado","data":{"numerodocumento":"00-1"}}`},
		{"sin confirmar", http.StatusOK, `{"data":{"numerodocumento":"00-2"}}`},
		{"cuerpo ilegible", http.StatusOK, `<html>`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.payload))
			}, &stubAssigner{})
			res, err := c.Assign(context.Background(), invoiceRequest())
			require.Error(t, err)
			assert.Nil(t, res)
			assert.True(t, errors.Is(err, domain.ErrPrinterRejected), err)
		})
	}
}

func TestAssign_ErrorDeTransporte(t *testing.T) {
	c := NewClient(config.SmartConfig{APIURL: "http://127.0.0.1:1", Timeout: 200 * time.Millisecond}, &stubAssigner{}, logger.Nop())
	_, err := c.Assign(context.Background(), invoiceRequest())
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrPrinterRejected))
}

func TestAssign_RetencionUsaFallback(t *testing.T) {
	fallback := &stubAssigner{}
	c := newTestClient(t, func(http.ResponseWriter, *http.Request) {
		t.Fatal("la imprenta no debe recibir comprobantes de retención")
	}, fallback)

	req := invoiceRequest()
	req.Document = &entity.Document{ID: "doc-3", Kind: entity.KindRetentionReceipt, Number: 1}
	res, err := c.Assign(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, fallback.called)
	assert.Equal(t, "04-00000001", res.ControlNumber)
}

func TestIssuedAt_FormatoDesconocido(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	c := &Client{now: func() time.Time { return fixed }}
	assert.Equal(t, fixed, c.issuedAt("mañana", ""))
}

func TestTruncate_NoParteRunas(t *testing.T) {
	assert.Equal(t, "corto", truncate("corto", 10))
	// "á" ocupa dos bytes: cortar en 2 no puede dejar medio carácter.
	got := truncate("cá", 2)
	assert.Equal(t, "c", got)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "cá", truncate("cáx", 3))
}
