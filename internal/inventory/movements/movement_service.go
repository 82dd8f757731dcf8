package movements

import (
	"fmt"
	"log"
	"time"

	"github.com/GThiruAishwarya/kristaball/pkg/auditlog"
	custom_error "github.com/GThiruAishwarya/kristaball/pkg/errors"
	"github.com/GThiruAishwarya/kristaball/pkg/metadata"
	"github.com/GThiruAishwarya/kristaball/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

// AssetDirectory is the slice of the assets repository the movement service
// needs. DecrementQuantity must be conditional: it fails with
// InsufficientQuantityError instead of driving quantity negative, and
// reports the quantity remaining after the decrement.
type AssetDirectory interface {
	GetAsset(id int) (*models.Asset, error)
	PersistAsset(tx *goqu.TxDatabase, data models.AssetCreate) (int, error)
	DecrementQuantity(tx *goqu.TxDatabase, assetID int, amount int) (int, error)
	AdjustQuantity(tx *goqu.TxDatabase, assetID int, delta int) error
	Relocate(tx *goqu.TxDatabase, assetID int, baseID int) error
	SetStatus(tx *goqu.TxDatabase, assetID int, status metadata.AssetStatus) error
}

// TransactionLedger appends immutable history records.
type TransactionLedger interface {
	Append(tx *goqu.TxDatabase, rec models.TransactionRecord) (int, error)
}

// TxRunner scopes a directory-mutation-plus-ledger-append pair to one
// database transaction, so the pair commits or rolls back together.
type TxRunner interface {
	WithTx(fn func(tx *goqu.TxDatabase) error) error
}

type AuditSink interface {
	Log(action string, data interface{}, item auditlog.Auditable)
}

// MovementService coordinates the asset directory and the transaction
// ledger for each movement kind. Every validation failure happens strictly
// before any mutation; every mutation pair is atomic.
type MovementService struct {
	directory AssetDirectory
	ledger    TransactionLedger
	runner    TxRunner
	auditLog  AuditSink
}

func NewMovementService(directory AssetDirectory, ledger TransactionLedger, runner TxRunner, auditLog AuditSink) *MovementService {
	return &MovementService{
		directory: directory,
		ledger:    ledger,
		runner:    runner,
		auditLog:  auditLog,
	}
}

// RecordPurchase creates the asset at the receiving base and appends the
// matching Purchase record in the same transaction.
func (s *MovementService) RecordPurchase(req models.PurchaseRequest, recordedBy int) (*models.Asset, error) {
	acquisitionDate, err := time.Parse("2006-01-02", req.AcquisitionDate)
	if err != nil {
		return nil, &custom_error.ValidationError{Message: "acquisition_date must be YYYY-MM-DD"}
	}
	if req.SerialNumber != nil && *req.SerialNumber != "" && req.Quantity != 1 {
		return nil, &custom_error.ValidationError{Message: "serialized assets are purchased with quantity 1"}
	}

	var assetID int
	err = s.runner.WithTx(func(tx *goqu.TxDatabase) error {
		assetID, err = s.directory.PersistAsset(tx, models.AssetCreate{
			CategoryID:      req.CategoryID,
			ModelName:       req.ModelName,
			SerialNumber:    req.SerialNumber,
			Quantity:        req.Quantity,
			UnitOfMeasure:   req.UnitOfMeasure,
			UnitCost:        req.UnitCost,
			AcquisitionDate: acquisitionDate,
			CurrentBaseID:   req.CurrentBaseID,
			Status:          metadata.StatusOperational,
			Notes:           req.Notes,
		})
		if err != nil {
			return err
		}

		destBase := req.CurrentBaseID
		recorder := recordedBy
		_, err = s.ledger.Append(tx, models.TransactionRecord{
			AssetID:           assetID,
			Type:              metadata.TypePurchase,
			QuantityChange:    req.Quantity,
			DestinationBaseID: &destBase,
			InvolvedUserID:    &recorder,
			Notes:             joinNotes("Initial purchase record.", req.Notes),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	asset, err := s.directory.GetAsset(assetID)
	if err != nil {
		return nil, err
	}

	if asset != nil {
		go s.auditLog.Log(
			"purchase",
			map[string]interface{}{
				"quantity":    req.Quantity,
				"base_id":     req.CurrentBaseID,
				"recorded_by": recordedBy,
				"msg":         "Asset purchased and recorded",
			},
			asset,
		)
	}

	return asset, nil
}

// RecordTransfer moves quantity between bases. A serialized asset moved in
// full keeps its identity and is relocated with a single Transfer record; a
// fungible or partial quantity becomes a new lot at the destination with a
// Transfer_Out/Transfer_In pair, because one asset row cannot sit at two
// bases at once.
func (s *MovementService) RecordTransfer(req models.TransferRequest, actorID int) (*models.TransferResult, error) {
	if req.SourceBaseID == req.DestinationBaseID {
		return nil, &custom_error.ValidationError{Message: "source and destination bases cannot be the same for a transfer"}
	}

	asset, err := s.directory.GetAsset(req.AssetID)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, &custom_error.NotFoundError{Resource: "asset", ID: req.AssetID}
	}
	if asset.CurrentBaseID == nil || *asset.CurrentBaseID != req.SourceBaseID {
		return nil, &custom_error.LocationMismatchError{AssetID: req.AssetID, BaseID: req.SourceBaseID}
	}
	if asset.Quantity < req.Quantity {
		return nil, &custom_error.InsufficientQuantityError{AssetID: req.AssetID, Requested: req.Quantity}
	}

	result := &models.TransferResult{AssetID: req.AssetID}

	err = s.runner.WithTx(func(tx *goqu.TxDatabase) error {
		if _, err := s.directory.DecrementQuantity(tx, req.AssetID, req.Quantity); err != nil {
			return err
		}

		if !asset.IsSerialized() || req.Quantity < asset.Quantity {
			return s.splitTransfer(tx, asset, req, actorID, result)
		}
		return s.relocateTransfer(tx, asset, req, actorID, result)
	})
	if err != nil {
		return nil, err
	}

	go s.auditLog.Log(
		"transfer",
		map[string]interface{}{
			"quantity":            req.Quantity,
			"source_base_id":      req.SourceBaseID,
			"destination_base_id": req.DestinationBaseID,
			"mode":                result.Mode,
			"msg":                 "Asset transferred between bases",
		},
		asset,
	)

	return result, nil
}

// splitTransfer creates a new inventory lot at the destination and records
// the movement as a Transfer_Out/Transfer_In pair across the two asset ids.
// The decrement has already happened on tx.
func (s *MovementService) splitTransfer(tx *goqu.TxDatabase, asset *models.Asset, req models.TransferRequest, actorID int, result *models.TransferResult) error {
	newAssetID, err := s.directory.PersistAsset(tx, models.AssetCreate{
		CategoryID:      asset.CategoryID,
		ModelName:       asset.ModelName,
		SerialNumber:    nil,
		Quantity:        req.Quantity,
		UnitOfMeasure:   asset.UnitOfMeasure,
		UnitCost:        asset.UnitCost,
		AcquisitionDate: time.Now(),
		CurrentBaseID:   req.DestinationBaseID,
		Status:          metadata.StatusOperational,
		Notes:           joinNotes(fmt.Sprintf("Transferred from base %d.", req.SourceBaseID), req.Notes),
	})
	if err != nil {
		return fmt.Errorf("failed to create destination lot: %w", err)
	}

	sourceBase := req.SourceBaseID
	actor := actorID
	if _, err := s.ledger.Append(tx, models.TransactionRecord{
		AssetID:        asset.ID,
		Type:           metadata.TypeTransferOut,
		QuantityChange: -req.Quantity,
		SourceBaseID:   &sourceBase,
		InvolvedUserID: &actor,
		Notes:          joinNotes("Transfer out.", req.Notes),
	}); err != nil {
		return err
	}

	destBase := req.DestinationBaseID
	if _, err := s.ledger.Append(tx, models.TransactionRecord{
		AssetID:           newAssetID,
		Type:              metadata.TypeTransferIn,
		QuantityChange:    req.Quantity,
		DestinationBaseID: &destBase,
		InvolvedUserID:    &actor,
		Notes:             joinNotes("Transfer in.", req.Notes),
	}); err != nil {
		return err
	}

	result.Mode = models.TransferModeSplit
	result.NewAssetID = &newAssetID
	return nil
}

// relocateTransfer moves a serialized asset in full: the row keeps its
// identity, the quantity decremented above is restored by recording a
// zero-change Transfer, and only current_base_id changes.
func (s *MovementService) relocateTransfer(tx *goqu.TxDatabase, asset *models.Asset, req models.TransferRequest, actorID int, result *models.TransferResult) error {
	// Full serialized transfer carries the whole quantity with the row, so
	// the decrement above is undone by moving the row itself.
	if err := s.directory.Relocate(tx, asset.ID, req.DestinationBaseID); err != nil {
		return err
	}
	if err := s.directory.AdjustQuantity(tx, asset.ID, req.Quantity); err != nil {
		return err
	}

	sourceBase := req.SourceBaseID
	destBase := req.DestinationBaseID
	actor := actorID
	if _, err := s.ledger.Append(tx, models.TransactionRecord{
		AssetID:           asset.ID,
		Type:              metadata.TypeTransfer,
		QuantityChange:    0,
		SourceBaseID:      &sourceBase,
		DestinationBaseID: &destBase,
		InvolvedUserID:    &actor,
		Notes:             joinNotes("Asset fully transferred.", req.Notes),
	}); err != nil {
		return err
	}

	result.Mode = models.TransferModeRelocated
	return nil
}

// RecordAssignment removes the assigned quantity from the base's available
// inventory and records who received it. There is no relocation and no new
// asset row; holder state lives only in the ledger.
func (s *MovementService) RecordAssignment(req models.AssignmentRequest, actorID int) error {
	asset, err := s.directory.GetAsset(req.AssetID)
	if err != nil {
		return err
	}
	if asset == nil {
		return &custom_error.NotFoundError{Resource: "asset", ID: req.AssetID}
	}
	if asset.CurrentBaseID == nil || *asset.CurrentBaseID != req.BaseOfAssignmentID {
		return &custom_error.LocationMismatchError{AssetID: req.AssetID, BaseID: req.BaseOfAssignmentID}
	}
	if asset.Quantity < req.Quantity {
		return &custom_error.InsufficientQuantityError{AssetID: req.AssetID, Requested: req.Quantity}
	}

	err = s.runner.WithTx(func(tx *goqu.TxDatabase) error {
		if _, err := s.directory.DecrementQuantity(tx, req.AssetID, req.Quantity); err != nil {
			return err
		}

		expectedReturn := req.ExpectedReturnDate
		if expectedReturn == "" {
			expectedReturn = "N/A"
		}
		sourceBase := req.BaseOfAssignmentID
		assignee := req.AssignedToUserID
		_, err := s.ledger.Append(tx, models.TransactionRecord{
			AssetID:        req.AssetID,
			Type:           metadata.TypeAssignment,
			QuantityChange: -req.Quantity,
			SourceBaseID:   &sourceBase,
			InvolvedUserID: &assignee,
			Notes: joinNotes(
				fmt.Sprintf("Assigned to user ID %d for purpose: %s. Expected return: %s.",
					req.AssignedToUserID, req.Purpose, expectedReturn),
				req.Notes,
			),
		})
		return err
	})
	if err != nil {
		return err
	}

	go s.auditLog.Log(
		"assignment",
		map[string]interface{}{
			"quantity":            req.Quantity,
			"assigned_to_user_id": req.AssignedToUserID,
			"base_id":             req.BaseOfAssignmentID,
			"msg":                 "Asset assigned to personnel",
		},
		asset,
	)

	return nil
}

// RecordExpenditure consumes quantity at a base. A serialized asset drained
// to zero flips to Expended; failing to flip the status is logged but does
// not fail the movement.
func (s *MovementService) RecordExpenditure(req models.ExpenditureRequest, actorID int) error {
	asset, err := s.directory.GetAsset(req.AssetID)
	if err != nil {
		return err
	}
	if asset == nil {
		return &custom_error.NotFoundError{Resource: "asset", ID: req.AssetID}
	}
	if asset.CurrentBaseID == nil || *asset.CurrentBaseID != req.BaseWhereExpendedID {
		return &custom_error.LocationMismatchError{AssetID: req.AssetID, BaseID: req.BaseWhereExpendedID}
	}
	if asset.Quantity < req.Quantity {
		return &custom_error.InsufficientQuantityError{AssetID: req.AssetID, Requested: req.Quantity}
	}

	err = s.runner.WithTx(func(tx *goqu.TxDatabase) error {
		remaining, err := s.directory.DecrementQuantity(tx, req.AssetID, req.Quantity)
		if err != nil {
			return err
		}

		if asset.IsSerialized() && remaining == 0 {
			if err := s.directory.SetStatus(tx, req.AssetID, metadata.StatusExpended); err != nil {
				log.Printf("Warning: could not update asset %d status to Expended: %v", req.AssetID, err)
			}
		}

		involved := actorID
		if req.ReportingUserID != nil {
			involved = *req.ReportingUserID
		}
		sourceBase := req.BaseWhereExpendedID
		_, err = s.ledger.Append(tx, models.TransactionRecord{
			AssetID:        req.AssetID,
			Type:           metadata.TypeExpenditure,
			QuantityChange: -req.Quantity,
			SourceBaseID:   &sourceBase,
			InvolvedUserID: &involved,
			Notes:          joinNotes(fmt.Sprintf("Reason: %s.", req.Reason), req.Notes),
		})
		return err
	})
	if err != nil {
		return err
	}

	go s.auditLog.Log(
		"expenditure",
		map[string]interface{}{
			"quantity": req.Quantity,
			"base_id":  req.BaseWhereExpendedID,
			"reason":   req.Reason,
			"msg":      "Asset expenditure recorded",
		},
		asset,
	)

	return nil
}

func joinNotes(prefix, notes string) string {
	if notes == "" {
		return prefix
	}
	return prefix + " " + notes
}
