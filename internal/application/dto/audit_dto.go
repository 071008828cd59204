package dto

import (
	"encoding/json"
	"time"
)

// AuditListRequest filtros de GET /api/auditoria.
// Desde/Hasta en formato RFC3339.
type AuditListRequest struct {
	PageRequest
	Table    string `query:"tabla"`
	RecordID string `query:"id_registro"`
	Action   string `query:"accion" validate:"omitempty,oneof=INSERT UPDATE DELETE"`
	User     string `query:"usuario"`
	From     string `query:"desde" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	To       string `query:"hasta" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// AuditEntryResponse registro de auditoría.
type AuditEntryResponse struct {
	ID        int64           `json:"id"`
	Table     string          `json:"tabla"`
	RecordID  string          `json:"id_registro"`
	Action    string          `json:"accion"`
	Details   json.RawMessage `json:"detalles"`
	User      string          `json:"usuario,omitempty"`
	CreatedAt time.Time       `json:"fecha"`
}

// AuditListResponse lista paginada de auditoría.
type AuditListResponse struct {
	Items []AuditEntryResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}
