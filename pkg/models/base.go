package models

// Base is a military base. Pure reference data for the ledger.
type Base struct {
	ID          int    `json:"base_id" db:"base_id"`
	Name        string `json:"base_name" db:"base_name"`
	Location    string `json:"location" db:"location"`
	CommanderID *int   `json:"commander_id" db:"commander_id"`
}

func (b *Base) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   b.ID,
		ResourceType: "base",
	}
}

type BaseRequest struct {
	Name        string `json:"base_name" binding:"required"`
	Location    string `json:"location"`
	CommanderID *int   `json:"commander_id"`
}

type PatchBaseRequest struct {
	Name        *string `json:"base_name"`
	Location    *string `json:"location"`
	CommanderID *int    `json:"commander_id"`
}
