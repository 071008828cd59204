package billing_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/facturacion-ve/internal/application/billing"
	"github.com/jhoicas/facturacion-ve/internal/domain"
	"github.com/jhoicas/facturacion-ve/internal/domain/entity"
	"github.com/jhoicas/facturacion-ve/internal/domain/repository"
)

// memStore base en memoria. RunDocument toma el mutex durante toda la transacción
// (equivalente al bloqueo de filas) y restaura la foto previa si fn falla.
type memStore struct {
	mu        sync.Mutex
	companies map[string]*entity.Company
	customers map[string]*entity.Customer
	products  map[string]*entity.Product
	orders    map[string]*entity.Order
	documents map[string]*entity.Document
	sequences map[entity.DocumentKind]int64
	rate      *entity.ExchangeRate
}

func newMemStore() *memStore {
	return &memStore{
		companies: map[string]*entity.Company{},
		customers: map[string]*entity.Customer{},
		products:  map[string]*entity.Product{},
		orders:    map[string]*entity.Order{},
		documents: map[string]*entity.Document{},
		sequences: map[entity.DocumentKind]int64{},
	}
}

type snapshot struct {
	orders    map[string]entity.Order
	documents map[string]entity.Document
	sequences map[entity.DocumentKind]int64
}

func (s *memStore) snapshot() snapshot {
	snap := snapshot{
		orders:    make(map[string]entity.Order, len(s.orders)),
		documents: make(map[string]entity.Document, len(s.documents)),
		sequences: make(map[entity.DocumentKind]int64, len(s.sequences)),
	}
	for k, v := range s.orders {
		snap.orders[k] = *v
	}
	for k, v := range s.documents {
		snap.documents[k] = *v
	}
	for k, v := range s.sequences {
		snap.sequences[k] = v
	}
	return snap
}

func (s *memStore) restore(snap snapshot) {
	s.orders = make(map[string]*entity.Order, len(snap.orders))
	for k, v := range snap.orders {
		o := v
		s.orders[k] = &o
	}
	s.documents = make(map[string]*entity.Document, len(snap.documents))
	for k, v := range snap.documents {
		d := v
		s.documents[k] = &d
	}
	s.sequences = snap.sequences
}

func (s *memStore) lock(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *memStore) repos(inTx bool) billing.DocumentRepos {
	return billing.DocumentRepos{
		Orders:        &memOrders{s: s, inTx: inTx},
		Documents:     &memDocuments{s: s, inTx: inTx},
		Sequences:     &memSequences{s: s},
		Products:      &memProducts{s: s, inTx: inTx},
		Customers:     &memCustomers{s: s, inTx: inTx},
		Companies:     &memCompanies{s: s, inTx: inTx},
		ExchangeRates: &memRates{s: s, inTx: inTx},
	}
}

// RunDocument implementa billing.DocumentTxRunner.
func (s *memStore) RunDocument(_ context.Context, fn func(repos billing.DocumentRepos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snapshot()
	if err := fn(s.repos(true)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// ── companies ────────────────────────────────────────────────────────────────

type memCompanies struct {
	s    *memStore
	inTx bool
}

func (r *memCompanies) Create(_ context.Context, c *entity.Company) error {
	defer r.s.lock(r.inTx)()
	cp := *c
	r.s.companies[c.ID] = &cp
	return nil
}

func (r *memCompanies) GetByID(_ context.Context, id string) (*entity.Company, error) {
	defer r.s.lock(r.inTx)()
	if c, ok := r.s.companies[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *memCompanies) GetByRIF(_ context.Context, rif string) (*entity.Company, error) {
	defer r.s.lock(r.inTx)()
	for _, c := range r.s.companies {
		if c.RIF == rif {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memCompanies) Update(ctx context.Context, c *entity.Company) error { return r.Create(ctx, c) }

func (r *memCompanies) List(_ context.Context, _, _ int) ([]*entity.Company, error) {
	defer r.s.lock(r.inTx)()
	var out []*entity.Company
	for _, c := range r.s.companies {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memCompanies) Delete(_ context.Context, id string) error {
	defer r.s.lock(r.inTx)()
	delete(r.s.companies, id)
	return nil
}

// ── customers ────────────────────────────────────────────────────────────────

type memCustomers struct {
	s    *memStore
	inTx bool
}

func (r *memCustomers) Create(_ context.Context, c *entity.Customer) error {
	defer r.s.lock(r.inTx)()
	cp := *c
	r.s.customers[c.ID] = &cp
	return nil
}

func (r *memCustomers) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	defer r.s.lock(r.inTx)()
	if c, ok := r.s.customers[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *memCustomers) GetByCompanyAndTaxID(_ context.Context, companyID, taxID string) (*entity.Customer, error) {
	defer r.s.lock(r.inTx)()
	for _, c := range r.s.customers {
		if c.CompanyID == companyID && c.TaxID == taxID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memCustomers) ListByCompany(_ context.Context, companyID string, _, _ int) ([]*entity.Customer, error) {
	defer r.s.lock(r.inTx)()
	var out []*entity.Customer
	for _, c := range r.s.customers {
		if c.CompanyID == companyID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memCustomers) Update(ctx context.Context, c *entity.Customer) error { return r.Create(ctx, c) }

func (r *memCustomers) Delete(_ context.Context, id string) error {
	defer r.s.lock(r.inTx)()
	delete(r.s.customers, id)
	return nil
}

// ── products ─────────────────────────────────────────────────────────────────

type memProducts struct {
	s    *memStore
	inTx bool
}

func (r *memProducts) Create(_ context.Context, p *entity.Product) error {
	defer r.s.lock(r.inTx)()
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *memProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	defer r.s.lock(r.inTx)()
	if p, ok := r.s.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *memProducts) GetByCompanyAndCode(_ context.Context, companyID, code string) (*entity.Product, error) {
	defer r.s.lock(r.inTx)()
	for _, p := range r.s.products {
		if p.CompanyID == companyID && p.Code == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memProducts) GetByIDs(_ context.Context, ids []string) (map[string]*entity.Product, error) {
	defer r.s.lock(r.inTx)()
	out := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok {
			cp := *p
			out[id] = &cp
		}
	}
	return out, nil
}

func (r *memProducts) Update(ctx context.Context, p *entity.Product) error { return r.Create(ctx, p) }

func (r *memProducts) ListByCompany(_ context.Context, companyID string, _, _ int) ([]*entity.Product, error) {
	defer r.s.lock(r.inTx)()
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.CompanyID == companyID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memProducts) Delete(_ context.Context, id string) error {
	defer r.s.lock(r.inTx)()
	delete(r.s.products, id)
	return nil
}

// ── orders ───────────────────────────────────────────────────────────────────

type memOrders struct {
	s    *memStore
	inTx bool
}

func (r *memOrders) Create(_ context.Context, o *entity.Order) error {
	defer r.s.lock(r.inTx)()
	cp := *o
	r.s.orders[o.ID] = &cp
	return nil
}

func (r *memOrders) GetByID(_ context.Context, id string) (*entity.Order, error) {
	defer r.s.lock(r.inTx)()
	if o, ok := r.s.orders[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, nil
}

func (r *memOrders) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *memOrders) List(_ context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	defer r.s.lock(r.inTx)()
	var out []*entity.Order
	for _, o := range r.s.orders {
		if o.CompanyID != f.CompanyID || (f.Status != "" && o.Status != f.Status) {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memOrders) ReplaceLines(_ context.Context, o *entity.Order) error {
	defer r.s.lock(r.inTx)()
	cur, ok := r.s.orders[o.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if !cur.IsPending() {
		return domain.ErrInvalidState
	}
	cp := *o
	r.s.orders[o.ID] = &cp
	return nil
}

func (r *memOrders) UpdateStatus(_ context.Context, id, status string) error {
	defer r.s.lock(r.inTx)()
	o, ok := r.s.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	return nil
}

func (r *memOrders) Delete(_ context.Context, id string) error {
	defer r.s.lock(r.inTx)()
	delete(r.s.orders, id)
	return nil
}

// ── documents ────────────────────────────────────────────────────────────────

type memDocuments struct {
	s    *memStore
	inTx bool
}

func (r *memDocuments) Create(_ context.Context, d *entity.Document) error {
	defer r.s.lock(r.inTx)()
	for _, existing := range r.s.documents {
		if existing.Kind == d.Kind && existing.Number == d.Number {
			return domain.ErrDuplicate
		}
	}
	cp := *d
	r.s.documents[d.ID] = &cp
	return nil
}

func (r *memDocuments) GetByID(_ context.Context, id string) (*entity.Document, error) {
	defer r.s.lock(r.inTx)()
	if d, ok := r.s.documents[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, nil
}

// GetForUpdate no necesita bloquear: RunDocument ya serializa las transacciones.
func (r *memDocuments) GetForUpdate(ctx context.Context, id string) (*entity.Document, error) {
	return r.GetByID(ctx, id)
}

func (r *memDocuments) GetByControlNumber(_ context.Context, control string) (*entity.Document, error) {
	defer r.s.lock(r.inTx)()
	for _, d := range r.s.documents {
		if d.ControlNumber == control {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memDocuments) List(_ context.Context, f repository.DocumentFilter) ([]*entity.Document, error) {
	defer r.s.lock(r.inTx)()
	var out []*entity.Document
	for _, d := range r.s.documents {
		if f.Kind != "" && d.Kind != f.Kind {
			continue
		}
		if f.CompanyID != "" && d.CompanyID != f.CompanyID {
			continue
		}
		if f.InvoiceID != "" && referencedInvoice(d) != f.InvoiceID {
			continue
		}
		cp := *d
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func referencedInvoice(d *entity.Document) string {
	switch {
	case d.Note != nil:
		return d.Note.InvoiceID
	case d.Retention != nil:
		return d.Retention.InvoiceID
	}
	return ""
}

func (r *memDocuments) GetInvoiceLines(_ context.Context, invoiceID string) ([]entity.DocumentLine, error) {
	defer r.s.lock(r.inTx)()
	d, ok := r.s.documents[invoiceID]
	if !ok || d.Invoice == nil {
		return nil, nil
	}
	return d.Invoice.Lines, nil
}

func (r *memDocuments) AssignControlNumber(_ context.Context, id string, a repository.ControlAssignment) error {
	defer r.s.lock(r.inTx)()
	d, ok := r.s.documents[id]
	if !ok {
		return domain.ErrNotFound
	}
	if d.ControlNumber != "" {
		return domain.ErrControlNumberAssigned
	}
	for _, other := range r.s.documents {
		if other.ControlNumber == a.ControlNumber {
			return domain.ErrDuplicate
		}
	}
	at := a.AssignedAt
	d.ControlNumber = a.ControlNumber
	d.ControlAssignedAt = &at
	d.PDFURL = a.PDFURL
	d.Status = a.Status
	return nil
}

// ── sequences & rates ────────────────────────────────────────────────────────

type memSequences struct{ s *memStore }

// Next solo se usa dentro de RunDocument, con el mutex ya tomado.
func (r *memSequences) Next(_ context.Context, kind entity.DocumentKind) (int64, error) {
	r.s.sequences[kind]++
	return r.s.sequences[kind], nil
}

type memRates struct {
	s    *memStore
	inTx bool
}

func (r *memRates) Get(_ context.Context) (*entity.ExchangeRate, error) {
	defer r.s.lock(r.inTx)()
	if r.s.rate == nil {
		return nil, nil
	}
	cp := *r.s.rate
	return &cp, nil
}

func (r *memRates) Upsert(_ context.Context, rate *entity.ExchangeRate) error {
	defer r.s.lock(r.inTx)()
	cp := *rate
	r.s.rate = &cp
	return nil
}

// ── control number assigner ──────────────────────────────────────────────────

// fakePrinter simula la imprenta digital.
type fakePrinter struct {
	mu       sync.Mutex
	err      error
	next     int
	requests []billing.ControlNumberRequest
}

func (p *fakePrinter) Assign(_ context.Context, req billing.ControlNumberRequest) (*billing.ControlNumberResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, req)
	if p.err != nil {
		return nil, p.err
	}
	p.next++
	return &billing.ControlNumberResult{
		ControlNumber: fmt.Sprintf("IMP-%06d", p.next),
		AssignedAt:    time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		PDFURL:        fmt.Sprintf("https://imprenta.example/pdf/%d", p.next),
		Printed:       true,
	}, nil
}
