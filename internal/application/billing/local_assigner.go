package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/facturacion-ve/internal/domain/entity"
)

// serie del número de control local por familia; mantiene la unicidad global
// aunque cada familia tenga su propio consecutivo.
var localSeries = map[entity.DocumentKind]int{
	entity.KindInvoice:          0,
	entity.KindCreditNote:       1,
	entity.KindDebitNote:        2,
	entity.KindDeliveryOrder:    3,
	entity.KindRetentionReceipt: 4,
}

// LocalControlNumberAssigner asigna "SS-NNNNNNNN" a partir del consecutivo de la familia.
// Se usa cuando la imprenta digital está deshabilitada.
type LocalControlNumberAssigner struct {
	now func() time.Time
}

// NewLocalControlNumberAssigner construye el asignador local.
func NewLocalControlNumberAssigner() *LocalControlNumberAssigner {
	return &LocalControlNumberAssigner{now: time.Now}
}

// Assign implementa ControlNumberAssigner.
func (a *LocalControlNumberAssigner) Assign(_ context.Context, req ControlNumberRequest) (*ControlNumberResult, error) {
	if req.Document == nil || req.Document.Number <= 0 {
		return nil, fmt.Errorf("asignación local: documento sin consecutivo")
	}
	control, err := LocalControlNumber(req.Document.Kind, req.Document.Number)
	if err != nil {
		return nil, err
	}
	return &ControlNumberResult{ControlNumber: control, AssignedAt: a.now()}, nil
}

// LocalControlNumber formatea el número de control local; las facturas usan la serie 00.
func LocalControlNumber(kind entity.DocumentKind, number int64) (string, error) {
	series, ok := localSeries[kind]
	if !ok {
		return "", fmt.Errorf("asignación local: tipo de documento desconocido %q", kind)
	}
	return fmt.Sprintf("%02d-%08d", series, number), nil
}
