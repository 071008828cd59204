package billing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/facturacion-ve/internal/application/dto"
	"github.com/jhoicas/facturacion-ve/internal/domain"
	"github.com/jhoicas/facturacion-ve/internal/domain/entity"
	"github.com/jhoicas/facturacion-ve/internal/domain/repository"
	"github.com/jhoicas/facturacion-ve/pkg/rif"
)

// CustomerUseCase casos de uso para clientes.
type CustomerUseCase struct {
	repo repository.CustomerRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo}
}

// Create crea un nuevo cliente. Para personas jurídicas (J) y entes de gobierno (G) el
// RIF debe traer dígito verificador válido; se guarda sin la letra.
func (uc *CustomerUseCase) Create(ctx context.Context, companyID string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	taxID, err := normalizeTaxID(in.DocumentType, in.TaxID)
	if err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByCompanyAndTaxID(ctx, companyID, taxID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		Name:          in.Name,
		TaxID:         taxID,
		DocumentType:  in.DocumentType,
		FiscalAddress: in.FiscalAddress,
		Email:         in.Email,
		Phone:         in.Phone,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// Get obtiene un cliente de la empresa.
func (uc *CustomerUseCase) Get(ctx context.Context, companyID, id string) (*dto.CustomerResponse, error) {
	c, err := uc.getOwned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// List lista clientes de la empresa.
func (uc *CustomerUseCase) List(ctx context.Context, companyID string, page dto.PageRequest) (*dto.CustomerListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCustomerResponse(c))
	}
	return &dto.CustomerListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Update actualiza datos de contacto; la identificación fiscal no cambia.
func (uc *CustomerUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	c, err := uc.getOwned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.FiscalAddress != nil {
		c.FiscalAddress = *in.FiscalAddress
	}
	if in.Email != nil {
		c.Email = *in.Email
	}
	if in.Phone != nil {
		c.Phone = *in.Phone
	}
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// Delete elimina un cliente sin documentos asociados (la FK lo impide en caso contrario).
func (uc *CustomerUseCase) Delete(ctx context.Context, companyID, id string) error {
	if _, err := uc.getOwned(ctx, companyID, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *CustomerUseCase) getOwned(ctx context.Context, companyID, id string) (*entity.Customer, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if c.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return c, nil
}

// normalizeTaxID deja solo dígitos y valida el RIF de contribuyentes jurídicos.
func normalizeTaxID(docType, taxID string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, taxID)
	if len(digits) < 5 || len(digits) > 10 {
		return "", domain.NewValidationError("rif_cedula", nil, "identificación inválida: %s", taxID)
	}
	switch docType {
	case entity.DocumentTypeJ, entity.DocumentTypeG:
		if err := rif.Validate(docType + digits); err != nil {
			return "", domain.NewValidationError("rif_cedula", nil, "%s", err.Error())
		}
	case entity.DocumentTypeV, entity.DocumentTypeE, entity.DocumentTypeP:
	default:
		return "", domain.NewValidationError("tipo_documento", nil, "tipo de documento inválido: %s", docType)
	}
	return digits, nil
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:            c.ID,
		CompanyID:     c.CompanyID,
		Name:          c.Name,
		TaxID:         c.TaxID,
		DocumentType:  c.DocumentType,
		FiscalAddress: c.FiscalAddress,
		Email:         c.Email,
		Phone:         c.Phone,
		CreatedAt:     c.CreatedAt,
	}
}
