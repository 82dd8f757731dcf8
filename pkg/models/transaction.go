package models

import (
	"time"

	"github.com/GThiruAishwarya/kristaball/pkg/metadata"
)

// TransactionRecord is one immutable asset_history row. Records are only
// ever inserted; nothing in the codebase updates or deletes them.
type TransactionRecord struct {
	ID                int                      `json:"history_id" db:"history_id"`
	AssetID           int                      `json:"asset_id" db:"asset_id"`
	Type              metadata.TransactionType `json:"transaction_type" db:"transaction_type"`
	QuantityChange    int                      `json:"quantity_change" db:"quantity_change"`
	TransactionDate   time.Time                `json:"transaction_date" db:"transaction_date"`
	SourceBaseID      *int                     `json:"source_base_id" db:"source_base_id"`
	DestinationBaseID *int                     `json:"destination_base_id" db:"destination_base_id"`
	InvolvedUserID    *int                     `json:"involved_user_id" db:"involved_user_id"`
	Notes             string                   `json:"notes" db:"notes"`
}

// HistoryEntry is a TransactionRecord joined with asset, category, base and
// user display fields for the history views.
type HistoryEntry struct {
	ID                  int                      `json:"history_id" db:"history_id"`
	AssetID             int                      `json:"asset_id" db:"asset_id"`
	Type                metadata.TransactionType `json:"transaction_type" db:"transaction_type"`
	QuantityChange      int                      `json:"quantity_change" db:"quantity_change"`
	TransactionDate     time.Time                `json:"transaction_date" db:"transaction_date"`
	SourceBaseID        *int                     `json:"source_base_id" db:"source_base_id"`
	DestinationBaseID   *int                     `json:"destination_base_id" db:"destination_base_id"`
	InvolvedUserID      *int                     `json:"involved_user_id" db:"involved_user_id"`
	Notes               string                   `json:"notes" db:"notes"`
	AssetModel          string                   `json:"asset_model" db:"asset_model"`
	AssetSerial         *string                  `json:"asset_serial" db:"asset_serial"`
	AssetCategory       string                   `json:"asset_category" db:"asset_category"`
	SourceBaseName      string                   `json:"source_base_name" db:"source_base_name"`
	DestinationBaseName string                   `json:"destination_base_name" db:"destination_base_name"`
	InvolvedUsername    string                   `json:"involved_username" db:"involved_username"`
}
