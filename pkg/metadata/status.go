package metadata

import "fmt"

// AssetStatus is the lifecycle state of an asset record.
type AssetStatus string

const (
	StatusOperational AssetStatus = "Operational"
	StatusDamaged     AssetStatus = "Damaged"
	StatusUnderRepair AssetStatus = "Under Repair"
	StatusDisposed    AssetStatus = "Disposed"
	StatusExpended    AssetStatus = "Expended"
)

func NewAssetStatus(value string) (AssetStatus, error) {
	status := AssetStatus(value)
	if !status.isValid() {
		return "", fmt.Errorf("invalid asset status: %s", value)
	}
	return status, nil
}

func (s AssetStatus) isValid() bool {
	switch s {
	case StatusOperational, StatusDamaged, StatusUnderRepair, StatusDisposed, StatusExpended:
		return true
	default:
		return false
	}
}

func (s AssetStatus) String() string {
	return string(s)
}
