package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/facturacion-ve/internal/domain/entity"
	"github.com/jhoicas/facturacion-ve/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo consecutivos por familia en document_sequences.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Debe recibir la tx del documento.
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next incrementa y devuelve el consecutivo de kind. El upsert bloquea la fila de la
// familia hasta el commit, así que dos emisiones concurrentes se serializan y un rollback
// no deja huecos.
func (r *SequenceRepo) Next(ctx context.Context, kind entity.DocumentKind) (int64, error) {
	const query = `
		INSERT INTO document_sequences (kind, last_value) VALUES ($1, 1)
		ON CONFLICT (kind) DO UPDATE SET last_value = document_sequences.last_value + 1
		RETURNING last_value`
	var n int64
	if err := r.q.QueryRow(ctx, query, string(kind)).Scan(&n); err != nil {
		return 0, fmt.Errorf("next %s: %w", kind, err)
	}
	return n, nil
}
