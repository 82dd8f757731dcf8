package models

import (
	"time"

	"github.com/GThiruAishwarya/kristaball/pkg/metadata"
)

// Asset is a unit or fungible batch of equipment, joined with the
// human-readable category and base names for display.
type Asset struct {
	ID              int                  `json:"asset_id" db:"asset_id"`
	CategoryID      int                  `json:"category_id" db:"category_id"`
	CategoryName    string               `json:"category_name" db:"category_name"`
	ModelName       string               `json:"model_name" db:"model_name"`
	SerialNumber    *string              `json:"serial_number" db:"serial_number"`
	Quantity        int                  `json:"quantity" db:"quantity"`
	UnitOfMeasure   string               `json:"unit_of_measure" db:"unit_of_measure"`
	UnitCost        *float64             `json:"unit_cost" db:"unit_cost"`
	AcquisitionDate time.Time            `json:"acquisition_date" db:"acquisition_date"`
	CurrentBaseID   *int                 `json:"current_base_id" db:"current_base_id"`
	CurrentBaseName string               `json:"current_base_name" db:"current_base_name"`
	Status          metadata.AssetStatus `json:"status" db:"status"`
	Notes           string               `json:"notes" db:"notes"`
	CreatedAt       time.Time            `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at" db:"updated_at"`
}

// IsSerialized reports whether the asset is identity-tracked. Assets without
// a serial number are interchangeable batches (e.g. rounds of ammunition).
func (a *Asset) IsSerialized() bool {
	return a.SerialNumber != nil && *a.SerialNumber != ""
}

func (a *Asset) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   a.ID,
		ResourceType: "asset",
	}
}

// AssetCreate carries the columns for a new assets row. The acquisition date
// is already parsed; request-level date strings never reach the repository.
type AssetCreate struct {
	CategoryID      int
	ModelName       string
	SerialNumber    *string
	Quantity        int
	UnitOfMeasure   string
	UnitCost        *float64
	AcquisitionDate time.Time
	CurrentBaseID   int
	Status          metadata.AssetStatus
	Notes           string
}

// PatchAssetRequest is a partial update of an assets row. Identity and
// audit-managed columns are not patchable.
type PatchAssetRequest struct {
	CategoryID      *int     `json:"category_id"`
	ModelName       *string  `json:"model_name"`
	SerialNumber    *string  `json:"serial_number"`
	Quantity        *int     `json:"quantity"`
	UnitOfMeasure   *string  `json:"unit_of_measure"`
	UnitCost        *float64 `json:"unit_cost"`
	CurrentBaseID   *int     `json:"current_base_id"`
	Status          *string  `json:"status"`
	Notes           *string  `json:"notes"`
	AcquisitionDate *string  `json:"acquisition_date"`
}
