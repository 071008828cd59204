package repository

import (
	"context"
	"time"

	"github.com/jhoicas/facturacion-ve/internal/domain/entity"
)

// AuditFilter filtros del registro de auditoría.
type AuditFilter struct {
	Table    string
	RecordID string
	Action   string
	User     string
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

// AuditRepository lectura del registro de auditoría (lo escriben los triggers de la base).
type AuditRepository interface {
	List(ctx context.Context, filter AuditFilter) ([]*entity.AuditEntry, error)
}
