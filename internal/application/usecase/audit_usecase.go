package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/facturacion-ve/internal/application/dto"
	"github.com/jhoicas/facturacion-ve/internal/domain"
	"github.com/jhoicas/facturacion-ve/internal/domain/repository"
)

// AuditUseCase consulta el registro de auditoría.
type AuditUseCase struct {
	repo repository.AuditRepository
}

// NewAuditUseCase construye el caso de uso.
func NewAuditUseCase(repo repository.AuditRepository) *AuditUseCase {
	return &AuditUseCase{repo: repo}
}

// List filtra por tabla, registro, acción, usuario y rango de fechas.
func (uc *AuditUseCase) List(ctx context.Context, in dto.AuditListRequest) (*dto.AuditListResponse, error) {
	in.DefaultPage()
	filter := repository.AuditFilter{
		Table:    in.Table,
		RecordID: in.RecordID,
		Action:   in.Action,
		User:     in.User,
		Limit:    in.Limit,
		Offset:   in.Offset,
	}
	var err error
	if filter.From, err = parseTime("desde", in.From); err != nil {
		return nil, err
	}
	if filter.To, err = parseTime("hasta", in.To); err != nil {
		return nil, err
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, domain.NewValidationError("hasta", nil, "el rango de fechas es inválido")
	}

	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AuditEntryResponse, 0, len(list))
	for _, e := range list {
		items = append(items, dto.AuditEntryResponse{
			ID:        e.ID,
			Table:     e.Table,
			RecordID:  e.RecordID,
			Action:    e.Action,
			Details:   e.Details,
			User:      e.User,
			CreatedAt: e.CreatedAt,
		})
	}
	return &dto.AuditListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

func parseTime(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, domain.NewValidationError(field, nil, "fecha inválida %q, se espera RFC3339", s)
	}
	return &t, nil
}
