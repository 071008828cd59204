package usecase

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

// ProductUseCase casos de uso CRUD para productos del catálogo.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un nuevo producto activo. El código es único por empresa.
func (uc *ProductUseCase) Create(ctx context.Context, companyID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := validateProduct(in.Code, in.Price, in.VATRate, in.Discount); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByCompanyAndCode(ctx, companyID, in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		Code:        in.Code,
		Description: in.Description,
		Price:       in.Price,
		VATRate:     in.VATRate,
		Exempt:      in.Exempt || in.VATRate == entity.VATRateExempt,
		Discount:    in.Discount,
		Status:      entity.ProductStatusActive,
		Stock:       in.Stock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto de la empresa.
func (uc *ProductUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.ProductResponse, error) {
	product, err := uc.getOwned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos de la empresa.
func (uc *ProductUseCase) List(ctx context.Context, companyID string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Update actualiza un producto. Los pedidos ya creados conservan precio y alícuota.
func (uc *ProductUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.getOwned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.VATRate != nil {
		product.VATRate = *in.VATRate
	}
	if in.Exempt != nil {
		product.Exempt = *in.Exempt
	}
	if in.Discount != nil {
		product.Discount = *in.Discount
	}
	if in.Stock != nil {
		product.Stock = *in.Stock
	}
	if in.Status != nil {
		product.Status = *in.Status
	}
	if err := validateProduct(product.Code, product.Price, product.VATRate, product.Discount); err != nil {
		return nil, err
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete elimina un producto que no figure en pedidos ni documentos.
func (uc *ProductUseCase) Delete(ctx context.Context, companyID, id string) error {
	if _, err := uc.getOwned(ctx, companyID, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *ProductUseCase) getOwned(ctx context.Context, companyID, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return product, nil
}

func validateProduct(code string, price decimal.Decimal, vatRate int, discount decimal.Decimal) error {
	if price.IsNegative() {
		return domain.NewValidationError("precio", nil, "el precio no puede ser negativo")
	}
	switch vatRate {
	case entity.VATRateExempt, entity.VATRateReduced, entity.VATRateGeneral, entity.VATRateAdditional:
	default:
		return domain.NewValidationError("alicuota_iva", domain.ErrInvalidVATRate, "alícuota %d no soportada", vatRate)
	}
	return tax.ValidateDiscount(code, discount)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID,
		CompanyID:   p.CompanyID,
		Code:        p.Code,
		Description: p.Description,
		Price:       p.Price,
		VATRate:     p.VATRate,
		Exempt:      p.Exempt,
		Discount:    p.Discount,
		Status:      p.Status,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
