package models

import (
	"encoding/json"
	"time"
)

type AuditLog struct {
	ID           int       `json:"id" db:"id"`
	ResourceID   int       `json:"resource_id" db:"resource_id"`
	ResourceType string    `json:"resource_type" db:"resource_type"`
	Action       string    `json:"action" db:"action"`
	Data         any       `json:"data"`
	DataRaw      []byte    `json:"-" db:"data"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// LoadFromDB decodes the raw JSON payload scanned from the data column.
func (a *AuditLog) LoadFromDB() {
	if len(a.DataRaw) == 0 {
		return
	}
	var decoded any
	if err := json.Unmarshal(a.DataRaw, &decoded); err == nil {
		a.Data = decoded
	}
}
