package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/facturacion-ve/internal/application/billing"
)

var _ billing.DocumentTxRunner = (*TxRunner)(nil)

type auditUserKey struct{}

// WithAuditUser deja en ctx el usuario que registran los triggers de auditoría.
func WithAuditUser(ctx context.Context, user string) context.Context {
	return context.WithValue(ctx, auditUserKey{}, user)
}

func auditUser(ctx context.Context) string {
	u, _ := ctx.Value(auditUserKey{}).(string)
	return u
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunDocument inicia una transacción, ejecuta fn con todos los repos atados a ella y hace
// Commit o Rollback. Es la única unidad de trabajo de la emisión de documentos.
func (r *TxRunner) RunDocument(ctx context.Context, fn func(repos billing.DocumentRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if user := auditUser(ctx); user != "" {
		if _, err := tx.Exec(ctx, `SELECT set_config('app.user', $1, true)`, user); err != nil {
			return fmt.Errorf("usuario de auditoría: %w", err)
		}
	}

	repos := billing.DocumentRepos{
		Orders:        NewOrderRepository(tx),
		Documents:     NewDocumentRepository(tx),
		Sequences:     NewSequenceRepository(tx),
		Products:      NewProductRepository(tx),
		Customers:     NewCustomerRepository(tx),
		Companies:     NewCompanyRepository(tx),
		ExchangeRates: NewExchangeRateRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
