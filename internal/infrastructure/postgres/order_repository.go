package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/facturacion-ve/internal/domain"
	"github.com/jhoicas/facturacion-ve/internal/domain/entity"
	"github.com/jhoicas/facturacion-ve/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, company_id, customer_id, status, exchange_rate, total, observations, created_at, updated_at`

// OrderRepo pedidos y sus líneas (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste cabecera y líneas en una sola transacción.
func (r *OrderRepo) Create(ctx context.Context, order *entity.Order) error {
	return inTx(ctx, r.q, func(tx pgx.Tx) error {
		query := `
			INSERT INTO orders (` + orderColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
		_, err := tx.Exec(ctx, query,
			order.ID, order.CompanyID, order.CustomerID, order.Status, order.ExchangeRate,
			order.Total, order.Observations, order.CreatedAt, order.UpdatedAt,
		)
		if err != nil {
			return translate("insert order", err)
		}
		return insertOrderLines(ctx, tx, order)
	})
}

func insertOrderLines(ctx context.Context, tx pgx.Tx, order *entity.Order) error {
	batch := &pgx.Batch{}
	for i, l := range order.Lines {
		batch.Queue(`
			INSERT INTO order_lines (id, order_id, product_id, position, quantity, unit_price, discount, vat_rate, exempt, total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			l.ID, order.ID, l.ProductID, i+1, l.Quantity, l.UnitPrice, l.Discount, l.VATRate, l.Exempt, l.Total,
		)
	}
	if batch.Len() == 0 {
		return nil
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return translate("insert order lines", err)
	}
	return nil
}

// GetByID obtiene un pedido con sus líneas.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

// GetForUpdate obtiene el pedido bloqueando su fila hasta el fin de la transacción.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *OrderRepo) get(ctx context.Context, query, id string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if o.Lines, err = r.lines(ctx, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(&o.ID, &o.CompanyID, &o.CustomerID, &o.Status, &o.ExchangeRate,
		&o.Total, &o.Observations, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepo) lines(ctx context.Context, orderID string) ([]entity.OrderLine, error) {
	query := `
		SELECT id, order_id, product_id, quantity, unit_price, discount, vat_rate, exempt, total
		FROM order_lines WHERE order_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order lines: %w", err)
	}
	defer rows.Close()
	var list []entity.OrderLine
	for rows.Next() {
		var l entity.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Quantity, &l.UnitPrice,
			&l.Discount, &l.VATRate, &l.Exempt, &l.Total); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// List lista cabeceras de pedidos (sin líneas), más recientes primero.
func (r *OrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	var w filter
	w.add("company_id = $%d", f.CompanyID)
	if f.CustomerID != "" {
		w.add("customer_id = $%d", f.CustomerID)
	}
	if f.Status != "" {
		w.add("status = $%d", f.Status)
	}
	query := `SELECT ` + orderColumns + ` FROM orders` + w.sql() + ` ORDER BY created_at DESC` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// ReplaceLines reemplaza líneas, total y observaciones mientras el pedido siga pendiente.
func (r *OrderRepo) ReplaceLines(ctx context.Context, order *entity.Order) error {
	return inTx(ctx, r.q, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx, `
			UPDATE orders SET total = $2, observations = $3, updated_at = $4
			WHERE id = $1 AND status = $5`,
			order.ID, order.Total, order.Observations, order.UpdatedAt, entity.OrderStatusPending,
		)
		if err != nil {
			return translate("update order", err)
		}
		if cmd.RowsAffected() == 0 {
			return fmt.Errorf("pedido %s: %w", order.ID, domain.ErrInvalidState)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM order_lines WHERE order_id = $1`, order.ID); err != nil {
			return fmt.Errorf("delete order lines: %w", err)
		}
		return insertOrderLines(ctx, tx, order)
	})
}

// UpdateStatus cambia el estado del pedido.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return translate("update order status", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un pedido pendiente y sus líneas.
func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM orders WHERE id = $1 AND status = $2`, id, entity.OrderStatusPending)
	if err != nil {
		return translate("delete order", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("pedido %s: %w", id, domain.ErrInvalidState)
	}
	return nil
}
