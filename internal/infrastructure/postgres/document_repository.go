package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/facturacion-ve/internal/domain"
	"github.com/jhoicas/facturacion-ve/internal/domain/entity"
	"github.com/jhoicas/facturacion-ve/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

const documentColumns = `id, kind, number, control_number, control_assigned_at, pdf_url, status,
	company_id, customer_id, issued_at, exchange_rate, totals, order_id, applies_igtf,
	invoice_id, tax_type, payload, created_at, updated_at`

// notePayload es lo que se guarda en documents.payload para notas de crédito y débito.
type notePayload struct {
	Description string            `json:"descripcion"`
	Amount      decimal.Decimal   `json:"monto"`
	Lines       []entity.NoteLine `json:"modif_detalles"`
}

// DocumentRepo documentos fiscales: sobre en documents, líneas de factura en invoice_lines.
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

// Create persiste el documento y, si es factura, sus líneas.
func (r *DocumentRepo) Create(ctx context.Context, doc *entity.Document) error {
	totals, err := json.Marshal(doc.Totals)
	if err != nil {
		return fmt.Errorf("marshal totals: %w", err)
	}
	var (
		orderID, invoiceID, taxType *string
		appliesIGTF                 bool
		payload                     any
	)
	switch {
	case doc.Invoice != nil:
		orderID = nullIfEmpty(doc.Invoice.OrderID)
		appliesIGTF = doc.Invoice.AppliesIGTF
	case doc.Note != nil:
		invoiceID = nullIfEmpty(doc.Note.InvoiceID)
		payload = notePayload{Description: doc.Note.Description, Amount: doc.Note.Amount, Lines: doc.Note.Lines}
	case doc.Delivery != nil:
		payload = doc.Delivery
	case doc.Retention != nil:
		invoiceID = nullIfEmpty(doc.Retention.InvoiceID)
		taxType = nullIfEmpty(doc.Retention.TaxType)
		payload = doc.Retention
	}
	var rawPayload []byte
	if payload != nil {
		if rawPayload, err = json.Marshal(payload); err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
	}

	return inTx(ctx, r.q, func(tx pgx.Tx) error {
		query := `
			INSERT INTO documents (id, kind, number, control_number, control_assigned_at, pdf_url, status,
				company_id, customer_id, issued_at, exchange_rate, totals, total, order_id, applies_igtf,
				invoice_id, tax_type, payload, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
		_, err := tx.Exec(ctx, query,
			doc.ID, string(doc.Kind), doc.Number, nullIfEmpty(doc.ControlNumber), doc.ControlAssignedAt,
			doc.PDFURL, doc.Status, doc.CompanyID, doc.CustomerID, doc.IssuedAt, doc.ExchangeRate,
			totals, doc.Totals.Total, orderID, appliesIGTF, invoiceID, taxType, rawPayload,
			doc.CreatedAt, doc.UpdatedAt,
		)
		if err != nil {
			return translate("insert document", err)
		}
		if doc.Invoice == nil {
			return nil
		}
		batch := &pgx.Batch{}
		for i, l := range doc.Invoice.Lines {
			batch.Queue(`
				INSERT INTO invoice_lines (id, document_id, product_id, position, description, quantity,
					unit_price, discount, vat_rate, exempt, vat_amount, total)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
				l.ID, doc.ID, l.ProductID, i+1, l.Description, l.Quantity,
				l.UnitPrice, l.Discount, l.VATRate, l.Exempt, l.VATAmount, l.Total,
			)
		}
		if batch.Len() == 0 {
			return nil
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return translate("insert invoice lines", err)
		}
		return nil
	})
}

// GetByID obtiene un documento completo.
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	return r.getOne(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
}

// GetForUpdate obtiene el documento con FOR UPDATE; las notas de crédito de una misma
// factura se serializan sobre esta fila.
func (r *DocumentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Document, error) {
	return r.getOne(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1 FOR UPDATE`, id)
}

// GetByControlNumber obtiene un documento por número de control.
func (r *DocumentRepo) GetByControlNumber(ctx context.Context, controlNumber string) (*entity.Document, error) {
	return r.getOne(ctx, `SELECT `+documentColumns+` FROM documents WHERE control_number = $1`, controlNumber)
}

func (r *DocumentRepo) getOne(ctx context.Context, query, arg string) (*entity.Document, error) {
	doc, err := scanDocument(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	if doc.Invoice != nil {
		if doc.Invoice.Lines, err = r.GetInvoiceLines(ctx, doc.ID); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func scanDocument(row pgx.Row) (*entity.Document, error) {
	var (
		d                           entity.Document
		kind                        string
		controlNumber               *string
		assignedAt                  *time.Time
		totals, payload             []byte
		orderID, invoiceID, taxType *string
		appliesIGTF                 bool
	)
	err := row.Scan(&d.ID, &kind, &d.Number, &controlNumber, &assignedAt, &d.PDFURL, &d.Status,
		&d.CompanyID, &d.CustomerID, &d.IssuedAt, &d.ExchangeRate, &totals, &orderID, &appliesIGTF,
		&invoiceID, &taxType, &payload, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	d.Kind = entity.DocumentKind(kind)
	d.ControlNumber = deref(controlNumber)
	d.ControlAssignedAt = assignedAt
	if err := json.Unmarshal(totals, &d.Totals); err != nil {
		return nil, fmt.Errorf("unmarshal totals: %w", err)
	}

	switch d.Kind {
	case entity.KindInvoice:
		d.Invoice = &entity.InvoicePayload{OrderID: deref(orderID), AppliesIGTF: appliesIGTF}
	case entity.KindCreditNote, entity.KindDebitNote:
		var p notePayload
		if err := unmarshalPayload(payload, &p); err != nil {
			return nil, err
		}
		d.Note = &entity.NotePayload{InvoiceID: deref(invoiceID), Description: p.Description, Amount: p.Amount, Lines: p.Lines}
	case entity.KindDeliveryOrder:
		d.Delivery = &entity.DeliveryPayload{}
		if err := unmarshalPayload(payload, d.Delivery); err != nil {
			return nil, err
		}
	case entity.KindRetentionReceipt:
		d.Retention = &entity.RetentionPayload{}
		if err := unmarshalPayload(payload, d.Retention); err != nil {
			return nil, err
		}
		d.Retention.InvoiceID = deref(invoiceID)
	}
	return &d, nil
}

func unmarshalPayload(raw []byte, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	return nil
}

// List lista documentos sin líneas de factura, más recientes primero.
func (r *DocumentRepo) List(ctx context.Context, f repository.DocumentFilter) ([]*entity.Document, error) {
	var w filter
	if f.CompanyID != "" {
		w.add("company_id = $%d", f.CompanyID)
	}
	if f.Kind != "" {
		w.add("kind = $%d", string(f.Kind))
	}
	if f.CustomerID != "" {
		w.add("customer_id = $%d", f.CustomerID)
	}
	if f.InvoiceID != "" {
		w.add("invoice_id = $%d", f.InvoiceID)
	}
	query := `SELECT ` + documentColumns + ` FROM documents` + w.sql() +
		` ORDER BY issued_at DESC, number DESC` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()
	var list []*entity.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// GetInvoiceLines obtiene las líneas de una factura en su orden original.
func (r *DocumentRepo) GetInvoiceLines(ctx context.Context, invoiceID string) ([]entity.DocumentLine, error) {
	query := `
		SELECT id, document_id, product_id, description, quantity, unit_price, discount,
		       vat_rate, exempt, vat_amount, total
		FROM invoice_lines WHERE document_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice lines: %w", err)
	}
	defer rows.Close()
	var list []entity.DocumentLine
	for rows.Next() {
		var l entity.DocumentLine
		if err := rows.Scan(&l.ID, &l.DocumentID, &l.ProductID, &l.Description, &l.Quantity, &l.UnitPrice,
			&l.Discount, &l.VATRate, &l.Exempt, &l.VATAmount, &l.Total); err != nil {
			return nil, fmt.Errorf("scan invoice line: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// AssignControlNumber fija el número de control una sola vez.
func (r *DocumentRepo) AssignControlNumber(ctx context.Context, id string, a repository.ControlAssignment) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE documents
		SET control_number = $2, control_assigned_at = $3, pdf_url = $4, status = $5, updated_at = now()
		WHERE id = $1 AND control_number IS NULL`,
		id, a.ControlNumber, a.AssignedAt, a.PDFURL, a.Status,
	)
	if err != nil {
		return translate("assign control number", err)
	}
	if cmd.RowsAffected() == 1 {
		return nil
	}
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM documents WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check document: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return fmt.Errorf("documento %s: %w", id, domain.ErrControlNumberAssigned)
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(p *string) string {
	if p != nil {
		return *p
	}
	return ""
}
