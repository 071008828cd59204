package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/facturacion-ve/internal/application/dto"
	"github.com/jhoicas/facturacion-ve/internal/domain"
	"github.com/jhoicas/facturacion-ve/internal/domain/entity"
	"github.com/jhoicas/facturacion-ve/internal/domain/repository"
	"github.com/jhoicas/facturacion-ve/internal/domain/tax"
	"github.com/shopspring/decimal"
)

// OrderUseCase casos de uso para pedidos. Un pedido facturado no se modifica.
type OrderUseCase struct {
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	rateRepo     repository.ExchangeRateRepository
	now          func() time.Time
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	rateRepo repository.ExchangeRateRepository,
) *OrderUseCase {
	return &OrderUseCase{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		rateRepo:     rateRepo,
		now:          time.Now,
	}
}

// Create crea un pedido PENDIENTE. Precio, alícuota y exento salen del producto; la tasa
// vigente queda como referencia (cero si aún no hay).
func (uc *OrderUseCase) Create(ctx context.Context, companyID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	customer, err := uc.customerRepo.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.NewValidationError("id_cliente", domain.ErrNotFound, "el cliente %s no existe", in.CustomerID)
	}
	if customer.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	rate := decimal.Zero
	if current, err := uc.rateRepo.Get(ctx); err != nil {
		return nil, err
	} else if current != nil {
		rate = current.Rate
	}

	now := uc.now()
	order := &entity.Order{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		CustomerID:   in.CustomerID,
		Status:       entity.OrderStatusPending,
		ExchangeRate: rate,
		Observations: in.Observations,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	totals, err := uc.buildLines(ctx, order, in.Lines)
	if err != nil {
		return nil, err
	}
	if err := uc.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	return toOrderResponse(order, totals), nil
}

// Get obtiene un pedido con los totales que tendría su factura (sin IGTF).
func (uc *OrderUseCase) Get(ctx context.Context, companyID, id string) (*dto.OrderResponse, error) {
	order, err := uc.getOwned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	totals, err := tax.CalculateTotals(orderTaxLines(order.Lines), false, order.ExchangeRate)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order, &totals), nil
}

// List lista pedidos de la empresa, opcionalmente por cliente o estado.
func (uc *OrderUseCase) List(ctx context.Context, companyID string, in dto.OrderListRequest) (*dto.OrderListResponse, error) {
	in.DefaultPage()
	list, err := uc.orderRepo.List(ctx, repository.OrderFilter{
		CompanyID:  companyID,
		CustomerID: in.CustomerID,
		Status:     in.Status,
		Limit:      in.Limit,
		Offset:     in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toOrderResponse(o, nil))
	}
	return &dto.OrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// Update reemplaza líneas u observaciones de un pedido pendiente.
func (uc *OrderUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateOrderRequest) (*dto.OrderResponse, error) {
	order, err := uc.getOwned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if !order.IsPending() {
		return nil, domain.NewValidationError("estado", domain.ErrInvalidState, "el pedido %s ya fue facturado", id)
	}
	if in.Observations != nil {
		order.Observations = *in.Observations
	}
	var totals *entity.DocumentTotals
	if len(in.Lines) > 0 {
		if totals, err = uc.buildLines(ctx, order, in.Lines); err != nil {
			return nil, err
		}
	}
	order.UpdatedAt = uc.now()
	if err := uc.orderRepo.ReplaceLines(ctx, order); err != nil {
		return nil, err
	}
	return toOrderResponse(order, totals), nil
}

// Delete elimina un pedido pendiente.
func (uc *OrderUseCase) Delete(ctx context.Context, companyID, id string) error {
	order, err := uc.getOwned(ctx, companyID, id)
	if err != nil {
		return err
	}
	if !order.IsPending() {
		return domain.NewValidationError("estado", domain.ErrInvalidState, "el pedido %s ya fue facturado", id)
	}
	return uc.orderRepo.Delete(ctx, id)
}

// buildLines arma las líneas del pedido desde el catálogo y recalcula su total.
func (uc *OrderUseCase) buildLines(ctx context.Context, order *entity.Order, in []dto.OrderLineRequest) (*entity.DocumentTotals, error) {
	if len(in) == 0 {
		return nil, domain.NewValidationError("detalles", nil, "el pedido debe tener al menos una línea")
	}
	ids := make([]string, 0, len(in))
	for _, l := range in {
		ids = append(ids, l.ProductID)
	}
	products, err := uc.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	lines := make([]entity.OrderLine, 0, len(in))
	for _, l := range in {
		p, ok := products[l.ProductID]
		if !ok || p.CompanyID != order.CompanyID {
			return nil, domain.NewValidationError("id_producto", domain.ErrNotFound, "el producto %s no existe", l.ProductID)
		}
		if p.Status == entity.ProductStatusInactive {
			return nil, domain.NewValidationError("id_producto", domain.ErrInvalidState, "el producto %s está inactivo", l.ProductID)
		}
		if !l.Quantity.IsPositive() {
			return nil, domain.NewValidationError("cantidad", nil, "la cantidad del producto %s debe ser mayor a cero", l.ProductID)
		}
		discount := p.Discount
		if l.Discount != nil {
			discount = *l.Discount
		}
		if err := tax.ValidateDiscount(p.ID, discount); err != nil {
			return nil, err
		}
		lines = append(lines, entity.OrderLine{
			ID:        uuid.New().String(),
			OrderID:   order.ID,
			ProductID: p.ID,
			Quantity:  l.Quantity,
			UnitPrice: p.Price,
			Discount:  discount,
			VATRate:   p.VATRate,
			Exempt:    p.Exempt,
			Total:     l.Quantity.Mul(p.Price),
		})
	}

	totals, err := tax.CalculateTotals(orderTaxLines(lines), false, order.ExchangeRate)
	if err != nil {
		return nil, err
	}
	order.Lines = lines
	order.Total = totals.Total
	return &totals, nil
}

func (uc *OrderUseCase) getOwned(ctx context.Context, companyID, id string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return order, nil
}

func orderTaxLines(lines []entity.OrderLine) []tax.Line {
	out := make([]tax.Line, 0, len(lines))
	for _, l := range lines {
		out = append(out, tax.Line{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Discount:  l.Discount,
			VATRate:   l.VATRate,
			Exempt:    l.Exempt,
		})
	}
	return out
}

func toOrderResponse(o *entity.Order, totals *entity.DocumentTotals) *dto.OrderResponse {
	resp := &dto.OrderResponse{
		ID:           o.ID,
		CompanyID:    o.CompanyID,
		CustomerID:   o.CustomerID,
		Status:       o.Status,
		ExchangeRate: o.ExchangeRate,
		Total:        o.Total,
		Observations: o.Observations,
		Lines:        make([]dto.OrderLineResponse, 0, len(o.Lines)),
		Totals:       totals,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
	for _, l := range o.Lines {
		resp.Lines = append(resp.Lines, dto.OrderLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Discount:  l.Discount,
			VATRate:   l.VATRate,
			Exempt:    l.Exempt,
			Total:     l.Total,
		})
	}
	return resp
}
