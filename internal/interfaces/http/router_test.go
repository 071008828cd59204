package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-ve/internal/application/billing"
	"github.com/jhoicas/facturacion-ve/internal/application/dto"
	"github.com/jhoicas/facturacion-ve/internal/application/usecase"
	"github.com/jhoicas/facturacion-ve/internal/domain/entity"
	"github.com/jhoicas/facturacion-ve/internal/domain/repository"
	apphttp "github.com/jhoicas/facturacion-ve/internal/interfaces/http"
	"github.com/jhoicas/facturacion-ve/pkg/logger"
)

type companyRepo struct {
	mu   sync.Mutex
	byID map[string]*entity.Company
}

func (r *companyRepo) Create(_ context.Context, c *entity.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *companyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.byID[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *companyRepo) GetByRIF(_ context.Context, rif string) (*entity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byID {
		if c.RIF == rif {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *companyRepo) Update(ctx context.Context, c *entity.Company) error { return r.Create(ctx, c) }

func (r *companyRepo) List(_ context.Context, _, _ int) ([]*entity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Company, 0, len(r.byID))
	for _, c := range r.byID {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *companyRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

type customerRepo struct {
	mu   sync.Mutex
	byID map[string]*entity.Customer
}

func (r *customerRepo) Create(_ context.Context, c *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *customerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.byID[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *customerRepo) GetByCompanyAndTaxID(_ context.Context, companyID, taxID string) (*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byID {
		if c.CompanyID == companyID && c.TaxID == taxID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *customerRepo) ListByCompany(_ context.Context, companyID string, _, _ int) ([]*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Customer
	for _, c := range r.byID {
		if c.CompanyID == companyID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *customerRepo) Update(ctx context.Context, c *entity.Customer) error { return r.Create(ctx, c) }

func (r *customerRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

type rateRepo struct{ rate *entity.ExchangeRate }

func (r *rateRepo) Get(context.Context) (*entity.ExchangeRate, error) { return r.rate, nil }

func (r *rateRepo) Upsert(_ context.Context, rate *entity.ExchangeRate) error {
	r.rate = rate
	return nil
}

type auditRepo struct {
	got repository.AuditFilter
	err error
}

func (r *auditRepo) List(_ context.Context, f repository.AuditFilter) ([]*entity.AuditEntry, error) {
	r.got = f
	return nil, r.err
}

type testEnv struct {
	app       *fiber.App
	companies *companyRepo
	rates     *rateRepo
	audit     *auditRepo
	pingErr   error
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		app:       fiber.New(),
		companies: &companyRepo{byID: map[string]*entity.Company{}},
		rates:     &rateRepo{},
		audit:     &auditRepo{},
	}
	env.companies.byID[testCompanyID] = &entity.Company{ID: testCompanyID, Name: "Andes", RIF: "J-31234567-5"}
	apphttp.Router(env.app, apphttp.RouterDeps{
		CompanyUC:  usecase.NewCompanyUseCase(env.companies),
		CustomerUC: billing.NewCustomerUseCase(&customerRepo{byID: map[string]*entity.Customer{}}),
		ExchangeUC: usecase.NewExchangeRateUseCase(env.rates, nil, logger.Nop()),
		AuditUC:    usecase.NewAuditUseCase(env.audit),
		JWTSecret:  testJWTSecret,
		JWTIssuer:  testIssuer,
		Ping:       func(context.Context) error { return env.pingErr },
		Log:        logger.Nop(),
	})
	return env
}

func (e *testEnv) send(t *testing.T, method, path, auth string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var req *http.Request
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, strings.NewReader(string(raw)))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestHealth_Publico(t *testing.T) {
	env := newEnv(t)
	resp, body := env.send(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])

	env.pingErr = errors.New("sin conexión")
	resp, body = env.send(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "DB_UNAVAILABLE", body["code"])
}

func TestAPI_RequiereToken(t *testing.T) {
	env := newEnv(t)
	resp, body := env.send(t, http.MethodGet, "/api/cliente", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", body["code"])
}

func TestAPI_EmpresaNoRegistrada(t *testing.T) {
	env := newEnv(t)
	resp, body := env.send(t, http.MethodGet, "/api/cliente", tokenFor(t, "empresa-fantasma", apphttp.RoleAdmin), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "COMPANY_NOT_REGISTERED", body["code"])

	resp, body = env.send(t, http.MethodGet, "/api/factura", tokenFor(t, "", apphttp.RoleAdmin), nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", body["code"])
}

func TestEmpresa_Acceso(t *testing.T) {
	env := newEnv(t)

	resp, body := env.send(t, http.MethodGet, "/api/empresa/"+testCompanyID, tokenForRole(t, apphttp.RoleReadOnly), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Andes", body["nombre"])

	resp, body = env.send(t, http.MethodGet, "/api/empresa/otra-empresa", tokenForRole(t, apphttp.RoleBiller), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", body["code"])

	resp, body = env.send(t, http.MethodGet, "/api/empresa/no-existe", tokenForRole(t, apphttp.RoleAdmin), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body["code"])

	resp, _ = env.send(t, http.MethodGet, "/api/empresa", tokenForRole(t, apphttp.RoleBiller), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestEmpresa_Crear(t *testing.T) {
	env := newEnv(t)
	admin := tokenForRole(t, apphttp.RoleAdmin)

	resp, body := env.send(t, http.MethodPost, "/api/empresa", admin, dto.CreateCompanyRequest{
		Name: "Lara", RIF: "J-00006372-9", FiscalAddress: "Barquisimeto",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "J-00006372-9", body["rif"])

	resp, body = env.send(t, http.MethodPost, "/api/empresa", admin, dto.CreateCompanyRequest{
		Name: "Lara bis", RIF: "J-00006372-9", FiscalAddress: "Barquisimeto",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", body["code"])

	resp, body = env.send(t, http.MethodPost, "/api/empresa", admin, dto.CreateCompanyRequest{
		Name: "Mala", RIF: "J-31234567-1", FiscalAddress: "x", Email: "no-es-correo",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body["code"])
	fields := fieldNames(body)
	assert.Contains(t, fields, "rif")
	assert.Contains(t, fields, "correo")
}

func TestEmpresa_CuerpoInvalido(t *testing.T) {
	env := newEnv(t)
	req := httptest.NewRequest(http.MethodPost, "/api/empresa", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, apphttp.RoleAdmin))
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCliente_CrearYListar(t *testing.T) {
	env := newEnv(t)
	biller := tokenForRole(t, apphttp.RoleBiller)

	resp, body := env.send(t, http.MethodPost, "/api/cliente", biller, dto.CreateCustomerRequest{
		Name: "Distribuidora Lara", TaxID: "J-31234567-5", DocumentType: entity.DocumentTypeJ,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "312345675", body["rif_cedula"])
	assert.Equal(t, testCompanyID, body["id_empresa"])

	resp, _ = env.send(t, http.MethodPost, "/api/cliente", tokenForRole(t, apphttp.RoleReadOnly), dto.CreateCustomerRequest{
		Name: "Otro", TaxID: "V-12345678", DocumentType: entity.DocumentTypeV,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = env.send(t, http.MethodPost, "/api/cliente", biller, map[string]any{
		"nombre": "Sin tipo", "rif_cedula": "12345678", "tipo_documento": "X",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, fieldNames(body), "tipo_documento")

	resp, body = env.send(t, http.MethodGet, "/api/cliente?limit=10", tokenForRole(t, apphttp.RoleReadOnly), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items, _ := body["items"].([]any)
	assert.Len(t, items, 1)

	resp, body = env.send(t, http.MethodGet, "/api/cliente?limit=500", biller, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, fieldNames(body), "limit")
}

func TestFactura_ValidaAntesDeEmitir(t *testing.T) {
	env := newEnv(t)

	resp, _ := env.send(t, http.MethodPost, "/api/factura", tokenForRole(t, apphttp.RoleReadOnly), dto.CreateInvoiceRequest{OrderID: testUserID})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := env.send(t, http.MethodPost, "/api/factura", tokenForRole(t, apphttp.RoleBiller), dto.CreateInvoiceRequest{OrderID: "no-uuid"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, fieldNames(body), "id_pedido")

	resp, body = env.send(t, http.MethodPost, "/api/notas/credito", tokenForRole(t, apphttp.RoleBiller), map[string]any{
		"id_factura": testUserID, "descripcion": "devolución",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, fieldNames(body), "modif_detalles")
}

func TestMoneda_Dolar(t *testing.T) {
	env := newEnv(t)
	reader := tokenForRole(t, apphttp.RoleReadOnly)

	resp, body := env.send(t, http.MethodGet, "/api/moneda/dolar", reader, nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "EXCHANGE_RATE_UNAVAILABLE", body["code"])

	env.rates.rate = &entity.ExchangeRate{Rate: decimal.RequireFromString("36.5"), SourceDate: time.Now()}
	resp, body = env.send(t, http.MethodGet, "/api/moneda/dolar", reader, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "36.5", body["tasa"])

	resp, _ = env.send(t, http.MethodPost, "/api/moneda/dolar/actualizar", reader, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// sin fuente configurada el refresco no está disponible
	resp, _ = env.send(t, http.MethodPost, "/api/moneda/dolar/actualizar", tokenForRole(t, apphttp.RoleAdmin), nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestAuditoria(t *testing.T) {
	env := newEnv(t)

	resp, _ := env.send(t, http.MethodGet, "/api/auditoria", tokenForRole(t, apphttp.RoleBiller), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := env.send(t, http.MethodGet, "/api/auditoria?tabla=documents&accion=UPDATE&usuario=ana", tokenForRole(t, apphttp.RoleAdmin), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "documents", env.audit.got.Table)
	assert.Equal(t, "UPDATE", env.audit.got.Action)
	assert.Equal(t, "ana", env.audit.got.User)

	resp, body = env.send(t, http.MethodGet, "/api/auditoria?accion=TRUNCATE", tokenForRole(t, apphttp.RoleAdmin), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, fieldNames(body), "accion")

	env.audit.err = errors.New("conexión perdida")
	resp, body = env.send(t, http.MethodGet, "/api/auditoria", tokenForRole(t, apphttp.RoleAdmin), nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "INTERNAL", body["code"])
}

func fieldNames(body map[string]any) []string {
	raw, _ := body["fields"].([]any)
	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if m, ok := f.(map[string]any); ok {
			name, _ := m["field"].(string)
			out = append(out, name)
		}
	}
	return out
}
