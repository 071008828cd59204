package repository

import (
	"context"

	"github.com/jhoicas/facturacion-ve/internal/domain/entity"
)

// OrderFilter filtros de listado de pedidos; los campos vacíos no filtran.
type OrderFilter struct {
	CompanyID  string
	CustomerID string
	Status     string
	Limit      int
	Offset     int
}

// OrderRepository define el puerto de persistencia para Order y sus líneas.
type OrderRepository interface {
	// Create persiste cabecera y líneas.
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// GetForUpdate bloquea la fila del pedido (SELECT ... FOR UPDATE) hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]*entity.Order, error)
	// ReplaceLines reemplaza las líneas, el total y las observaciones de un pedido pendiente.
	ReplaceLines(ctx context.Context, order *entity.Order) error
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}
