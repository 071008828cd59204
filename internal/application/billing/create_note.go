package billing

import (
	"context"

	"github.com/jhoicas/facturacion-ve/internal/application/dto"
	"github.com/jhoicas/facturacion-ve/internal/domain"
	"github.com/jhoicas/facturacion-ve/internal/domain/entity"
	"github.com/jhoicas/facturacion-ve/internal/domain/repository"
	"github.com/jhoicas/facturacion-ve/internal/domain/tax"
	"github.com/shopspring/decimal"
)

// CreateCreditNote emite una nota de crédito sobre una factura. Solo puede acreditar
// productos facturados y hasta la cantidad facturada.
func (uc *DocumentUseCase) CreateCreditNote(ctx context.Context, companyID string, in dto.CreateNoteRequest) (*dto.DocumentResponse, error) {
	return uc.createNote(ctx, companyID, entity.KindCreditNote, in)
}

// CreateDebitNote emite una nota de débito sobre una factura.
func (uc *DocumentUseCase) CreateDebitNote(ctx context.Context, companyID string, in dto.CreateNoteRequest) (*dto.DocumentResponse, error) {
	return uc.createNote(ctx, companyID, entity.KindDebitNote, in)
}

func (uc *DocumentUseCase) createNote(ctx context.Context, companyID string, kind entity.DocumentKind, in dto.CreateNoteRequest) (*dto.DocumentResponse, error) {
	if in.InvoiceID == "" {
		return nil, domain.NewValidationError("id_factura", nil, "la factura es obligatoria")
	}
	if len(in.Modifications) == 0 {
		return nil, domain.NewValidationError("modif_detalles", nil, "la nota debe tener al menos un detalle")
	}

	var doc *entity.Document
	err := uc.txRunner.RunDocument(ctx, func(repos DocumentRepos) error {
		// Las notas de crédito bloquean la factura para que dos emisiones simultáneas
		// no acrediten la misma cantidad.
		invoice, err := invoiceForReference(ctx, repos, companyID, in.InvoiceID, kind == entity.KindCreditNote)
		if err != nil {
			return err
		}
		var credited map[string]decimal.Decimal
		if kind == entity.KindCreditNote {
			if credited, err = creditedQuantities(ctx, repos, invoice.ID); err != nil {
				return err
			}
		}

		ids := make([]string, 0, len(in.Modifications))
		mods := make([]tax.NoteModification, 0, len(in.Modifications))
		for _, m := range in.Modifications {
			ids = append(ids, m.ProductID)
			mods = append(mods, tax.NoteModification{
				ProductID: m.ProductID,
				Quantity:  m.Quantity,
				UnitPrice: m.UnitPrice,
				Discount:  m.Discount,
			})
		}
		found, err := repos.Products.GetByIDs(ctx, ids)
		if err != nil {
			return err
		}
		products := make(map[string]entity.Product, len(found))
		for id, p := range found {
			if p.CompanyID != companyID {
				continue
			}
			products[id] = *p
		}

		res, err := tax.CalculateNoteTotals(tax.NoteInput{
			Kind:          kind,
			Modifications: mods,
			Products:      products,
			InvoiceLines:  invoice.Invoice.Lines,
			Credited:      credited,
			AppliesIGTF:   invoice.Invoice.AppliesIGTF,
			ExchangeRate:  invoice.ExchangeRate,
		})
		if err != nil {
			return err
		}

		doc = &entity.Document{
			Kind:         kind,
			CompanyID:    invoice.CompanyID,
			CustomerID:   invoice.CustomerID,
			ExchangeRate: invoice.ExchangeRate,
			Totals:       res.Totals,
			Note: &entity.NotePayload{
				InvoiceID:   invoice.ID,
				Description: in.Description,
				Amount:      res.Totals.Total,
				Lines:       res.Lines,
			},
		}
		return uc.issue(ctx, repos, doc, invoice)
	})
	if err != nil {
		return nil, uc.fail(kind, in.InvoiceID, err)
	}

	uc.log.Info().
		Str("id", doc.ID).
		Str("kind", string(kind)).
		Int64("numero", doc.Number).
		Str("factura", in.InvoiceID).
		Msg("nota emitida")
	return toDocumentResponse(doc), nil
}

// creditedQuantities suma por producto lo acreditado en notas de crédito vigentes de la factura.
func creditedQuantities(ctx context.Context, repos DocumentRepos, invoiceID string) (map[string]decimal.Decimal, error) {
	notes, err := repos.Documents.List(ctx, repository.DocumentFilter{
		Kind:      entity.KindCreditNote,
		InvoiceID: invoiceID,
	})
	if err != nil {
		return nil, err
	}
	out := make(map[string]decimal.Decimal)
	for _, n := range notes {
		if n.Note == nil || n.Status == entity.DocumentStatusCancelled {
			continue
		}
		for _, l := range n.Note.Lines {
			out[l.ProductID] = out[l.ProductID].Add(l.Quantity)
		}
	}
	return out, nil
}
