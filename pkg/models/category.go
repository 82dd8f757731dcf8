package models

// AssetCategory is a category of equipment (e.g. Vehicle, Small Arm,
// Ammunition). Pure reference data.
type AssetCategory struct {
	ID   int    `json:"category_id" db:"category_id"`
	Name string `json:"category_name" db:"category_name"`
}

type CategoryRequest struct {
	Name string `json:"category_name" binding:"required"`
}
