package models

// Request payloads for the movement endpoints. Binding tags cover the
// structural checks; the movement service re-validates business rules.

type PurchaseRequest struct {
	CategoryID      int      `json:"category_id" binding:"required"`
	ModelName       string   `json:"model_name" binding:"required"`
	SerialNumber    *string  `json:"serial_number"`
	Quantity        int      `json:"quantity" binding:"required,gte=1"`
	UnitOfMeasure   string   `json:"unit_of_measure" binding:"required"`
	CurrentBaseID   int      `json:"current_base_id" binding:"required"`
	AcquisitionDate string   `json:"acquisition_date" binding:"required"`
	UnitCost        *float64 `json:"unit_cost"`
	Notes           string   `json:"notes"`
}

type TransferRequest struct {
	AssetID           int    `json:"asset_id" binding:"required"`
	Quantity          int    `json:"quantity" binding:"required,gte=1"`
	SourceBaseID      int    `json:"source_base_id" binding:"required"`
	DestinationBaseID int    `json:"destination_base_id" binding:"required"`
	Notes             string `json:"notes"`
}

type AssignmentRequest struct {
	AssetID            int    `json:"asset_id" binding:"required"`
	Quantity           int    `json:"quantity" binding:"required,gte=1"`
	AssignedToUserID   int    `json:"assigned_to_user_id" binding:"required"`
	BaseOfAssignmentID int    `json:"base_of_assignment_id" binding:"required"`
	Purpose            string `json:"purpose" binding:"required"`
	ExpectedReturnDate string `json:"expected_return_date"`
	Notes              string `json:"notes"`
}

type ExpenditureRequest struct {
	AssetID             int    `json:"asset_id" binding:"required"`
	Quantity            int    `json:"quantity" binding:"required,gte=1"`
	BaseWhereExpendedID int    `json:"base_where_expended_id" binding:"required"`
	Reason              string `json:"reason" binding:"required"`
	ReportingUserID     *int   `json:"reporting_user_id"`
	Notes               string `json:"notes"`
}

// TransferResult reports which of the two transfer shapes was taken:
// "relocated" keeps the asset_id and moves it; "split" leaves the original
// in place and creates a new lot at the destination.
type TransferResult struct {
	Mode       string `json:"mode"`
	AssetID    int    `json:"asset_id"`
	NewAssetID *int   `json:"new_asset_id,omitempty"`
}

const (
	TransferModeRelocated = "relocated"
	TransferModeSplit     = "split"
)
