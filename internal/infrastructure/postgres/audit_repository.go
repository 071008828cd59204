package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/facturacion-ve/internal/domain/entity"
	"github.com/jhoicas/facturacion-ve/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo lectura de audit_log, que llenan los triggers.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador.
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// List filtra el registro; los campos vacíos no filtran.
func (r *AuditRepo) List(ctx context.Context, f repository.AuditFilter) ([]*entity.AuditEntry, error) {
	var w filter
	if f.Table != "" {
		w.add("table_name = $%d", f.Table)
	}
	if f.RecordID != "" {
		w.add("record_id = $%d", f.RecordID)
	}
	if f.Action != "" {
		w.add("action = $%d", f.Action)
	}
	if f.User != "" {
		w.add("username = $%d", f.User)
	}
	if f.From != nil {
		w.add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		w.add("created_at <= $%d", *f.To)
	}
	query := `SELECT id, table_name, record_id, action, details, created_at, username FROM audit_log` +
		w.sql() + ` ORDER BY id DESC` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list audit log: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditEntry
	for rows.Next() {
		var e entity.AuditEntry
		var details []byte
		if err := rows.Scan(&e.ID, &e.Table, &e.RecordID, &e.Action, &details, &e.CreatedAt, &e.User); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.Details = details
		list = append(list, &e)
	}
	return list, rows.Err()
}
