package entity

import (
	"encoding/json"
	"time"
)

// AuditEntry es un registro escrito por los triggers de auditoría.
type AuditEntry struct {
	ID        int64
	Table     string
	RecordID  string
	Action    string // INSERT, UPDATE, DELETE
	Details   json.RawMessage
	CreatedAt time.Time
	User      string
}
