package models

import "time"

// DashboardMetrics are the aggregated figures for the dashboard. Missing
// sums default to 0, never null.
type DashboardMetrics struct {
	TotalAssets    int       `json:"total_assets"`
	TotalPurchased int       `json:"total_purchased"`
	TotalExpended  int       `json:"total_expended"`
	NetMovement    int       `json:"net_movement"`
	PeriodStart    time.Time `json:"period_start"`
	PeriodEnd      time.Time `json:"period_end"`
	BaseID         *int      `json:"base_id,omitempty"`
}
