package assets

import (
	"fmt"
	"time"

	"github.com/GThiruAishwarya/kristaball/internal/repository"
	custom_error "github.com/GThiruAishwarya/kristaball/pkg/errors"
	"github.com/GThiruAishwarya/kristaball/pkg/metadata"
	"github.com/GThiruAishwarya/kristaball/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

// AssetsRepository owns the mutable current-state assets table. It performs
// the arithmetic it is asked to; business preconditions live in the
// movement service.
type AssetsRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *AssetsRepository {
	return &AssetsRepository{
		repository: r,
	}
}

func (r *AssetsRepository) GetAsset(id int) (*models.Asset, error) {
	query := r.getAssetQuery().Where(goqu.Ex{"a.asset_id": id})

	var asset models.Asset
	found, err := query.Executor().ScanStruct(&asset)
	if err != nil {
		return nil, fmt.Errorf("unable to select asset from database: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &asset, nil
}

func (r *AssetsRepository) GetAssetList() ([]models.Asset, error) {
	query := r.getAssetQuery().Order(goqu.I("a.asset_id").Asc())

	var assets []models.Asset
	if err := query.Executor().ScanStructs(&assets); err != nil {
		return nil, fmt.Errorf("unable to select assets from database: %w", err)
	}

	return assets, nil
}

func (r *AssetsRepository) GetAssetsBy(conditions repository.QueryBuilder) ([]models.Asset, error) {
	aliases := map[string]string{
		"base_id":     "a.current_base_id",
		"category_id": "a.category_id",
		"status":      "a.status",
	}

	query := r.getAssetQuery().
		Where(conditions.BuildConditions(aliases)).
		Order(goqu.I("a.asset_id").Asc())

	var assets []models.Asset
	if err := query.Executor().ScanStructs(&assets); err != nil {
		return nil, fmt.Errorf("unable to select assets from database: %w", err)
	}

	return assets, nil
}

// PersistAsset inserts a new assets row and returns its id. A duplicate
// serial number surfaces as a UniqueViolationError.
func (r *AssetsRepository) PersistAsset(tx *goqu.TxDatabase, data models.AssetCreate) (int, error) {
	record := goqu.Record{
		"category_id":      data.CategoryID,
		"model_name":       data.ModelName,
		"quantity":         data.Quantity,
		"unit_of_measure":  data.UnitOfMeasure,
		"current_base_id":  data.CurrentBaseID,
		"acquisition_date": data.AcquisitionDate,
		"status":           string(data.Status),
		"notes":            data.Notes,
	}
	if data.SerialNumber != nil {
		record["serial_number"] = *data.SerialNumber
	}
	if data.UnitCost != nil {
		record["unit_cost"] = *data.UnitCost
	}

	var insert *goqu.InsertDataset
	if tx != nil {
		insert = tx.Insert("assets")
	} else {
		insert = r.repository.GoquDBWrapper.Insert("assets")
	}

	var assetID int
	query := insert.Rows(record).Returning("asset_id")
	if _, err := query.Executor().ScanVal(&assetID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return 0, custom_error.WrapDBError("Duplicate serial number for asset", string(pqErr.Code))
		}
		return 0, fmt.Errorf("failed to insert asset record: %w", err)
	}

	return assetID, nil
}

// DecrementQuantity atomically subtracts amount from an asset's quantity,
// guarded by `quantity >= amount` in the same statement, and returns the
// quantity remaining after the decrement. No row returned means the guard
// failed and the decrement did not happen; two concurrent movements can
// therefore never jointly overdraw an asset.
func (r *AssetsRepository) DecrementQuantity(tx *goqu.TxDatabase, assetID int, amount int) (int, error) {
	if tx == nil {
		return 0, fmt.Errorf("transaction is required for DecrementQuantity")
	}

	query := tx.Update("assets").
		Set(goqu.Record{
			"quantity":   goqu.L("quantity - ?", amount),
			"updated_at": goqu.L("CURRENT_TIMESTAMP"),
		}).
		Where(goqu.Ex{"asset_id": assetID}).
		Where(goqu.C("quantity").Gte(amount)).
		Returning("quantity")

	var remaining int
	found, err := query.Executor().ScanVal(&remaining)
	if err != nil {
		return 0, fmt.Errorf("failed to decrease quantity for asset %d: %w", assetID, err)
	}
	if !found {
		return 0, &custom_error.InsufficientQuantityError{AssetID: assetID, Requested: amount}
	}

	return remaining, nil
}

// AdjustQuantity applies an unguarded delta. Used for increments and
// administrative corrections; decrements go through DecrementQuantity.
func (r *AssetsRepository) AdjustQuantity(tx *goqu.TxDatabase, assetID int, delta int) error {
	record := goqu.Record{
		"quantity":   goqu.L("quantity + ?", delta),
		"updated_at": goqu.L("CURRENT_TIMESTAMP"),
	}
	condition := goqu.Ex{"asset_id": assetID}

	var err error
	if tx != nil {
		_, err = tx.Update("assets").Set(record).Where(condition).Executor().Exec()
	} else {
		_, err = r.repository.GoquDBWrapper.Update("assets").Set(record).Where(condition).Executor().Exec()
	}
	if err != nil {
		return fmt.Errorf("failed to adjust quantity for asset %d: %w", assetID, err)
	}

	return nil
}

func (r *AssetsRepository) Relocate(tx *goqu.TxDatabase, assetID int, baseID int) error {
	if tx == nil {
		return fmt.Errorf("transaction is required for Relocate")
	}

	result, err := tx.Update("assets").
		Set(goqu.Record{
			"current_base_id": baseID,
			"updated_at":      goqu.L("CURRENT_TIMESTAMP"),
		}).
		Where(goqu.Ex{"asset_id": assetID}).
		Executor().
		Exec()
	if err != nil {
		return fmt.Errorf("failed to update asset location: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no asset found with id: %d", assetID)
	}

	return nil
}

func (r *AssetsRepository) SetStatus(tx *goqu.TxDatabase, assetID int, status metadata.AssetStatus) error {
	record := goqu.Record{
		"status":     string(status),
		"updated_at": goqu.L("CURRENT_TIMESTAMP"),
	}
	condition := goqu.Ex{"asset_id": assetID}

	var err error
	if tx != nil {
		_, err = tx.Update("assets").Set(record).Where(condition).Executor().Exec()
	} else {
		_, err = r.repository.GoquDBWrapper.Update("assets").Set(record).Where(condition).Executor().Exec()
	}
	if err != nil {
		return fmt.Errorf("failed to update asset status: %w", err)
	}

	return nil
}

// UpdateAsset applies a partial field patch. Identity and audit-managed
// columns are never touched.
func (r *AssetsRepository) UpdateAsset(assetID int, patch models.PatchAssetRequest) error {
	updates, err := buildUpdateFields(patch)
	if err != nil {
		return err
	}
	updates["updated_at"] = goqu.L("CURRENT_TIMESTAMP")

	query := r.repository.GoquDBWrapper.
		Update("assets").
		Set(updates).
		Where(goqu.Ex{"asset_id": assetID})

	result, err := query.Executor().Exec()
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("Duplicate serial number for asset", string(pqErr.Code))
		}
		return fmt.Errorf("failed to update asset: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &custom_error.NotFoundError{Resource: "asset", ID: assetID}
	}

	return nil
}

func (r *AssetsRepository) RemoveAsset(assetID int) error {
	result, err := r.repository.GoquDBWrapper.
		Delete("assets").
		Where(goqu.Ex{"asset_id": assetID}).
		Executor().
		Exec()
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("Asset is referenced by history records", string(pqErr.Code))
		}
		return fmt.Errorf("failed to delete asset: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &custom_error.NotFoundError{Resource: "asset", ID: assetID}
	}

	return nil
}

// TotalQuantity sums current on-hand quantity, optionally scoped to a base.
func (r *AssetsRepository) TotalQuantity(baseID *int) (int, error) {
	query := r.repository.GoquDBWrapper.
		Select(goqu.COALESCE(goqu.SUM("quantity"), 0)).
		From("assets")
	if baseID != nil {
		query = query.Where(goqu.Ex{"current_base_id": *baseID})
	}

	var total int
	if _, err := query.Executor().ScanVal(&total); err != nil {
		return 0, fmt.Errorf("failed to sum asset quantities: %w", err)
	}

	return total, nil
}

func (r *AssetsRepository) getAssetQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.Select(
		goqu.I("a.asset_id").As("asset_id"),
		goqu.I("a.category_id").As("category_id"),
		goqu.I("c.category_name").As("category_name"),
		goqu.I("a.model_name").As("model_name"),
		goqu.I("a.serial_number").As("serial_number"),
		goqu.I("a.quantity").As("quantity"),
		goqu.I("a.unit_of_measure").As("unit_of_measure"),
		goqu.I("a.unit_cost").As("unit_cost"),
		goqu.I("a.acquisition_date").As("acquisition_date"),
		goqu.I("a.current_base_id").As("current_base_id"),
		goqu.COALESCE(goqu.I("b.base_name"), "").As("current_base_name"),
		goqu.I("a.status").As("status"),
		goqu.COALESCE(goqu.I("a.notes"), "").As("notes"),
		goqu.I("a.created_at").As("created_at"),
		goqu.I("a.updated_at").As("updated_at"),
	).
		From(goqu.T("assets").As("a")).
		Join(
			goqu.T("asset_categories").As("c"),
			goqu.On(goqu.Ex{"a.category_id": goqu.I("c.category_id")}),
		).
		LeftJoin(
			goqu.T("bases").As("b"),
			goqu.On(goqu.Ex{"a.current_base_id": goqu.I("b.base_id")}),
		)
}

func buildUpdateFields(patch models.PatchAssetRequest) (goqu.Record, error) {
	updates := goqu.Record{}

	if patch.CategoryID != nil {
		updates["category_id"] = *patch.CategoryID
	}
	if patch.ModelName != nil {
		updates["model_name"] = *patch.ModelName
	}
	if patch.SerialNumber != nil {
		updates["serial_number"] = *patch.SerialNumber
	}
	if patch.Quantity != nil {
		updates["quantity"] = *patch.Quantity
	}
	if patch.UnitOfMeasure != nil {
		updates["unit_of_measure"] = *patch.UnitOfMeasure
	}
	if patch.UnitCost != nil {
		updates["unit_cost"] = *patch.UnitCost
	}
	if patch.CurrentBaseID != nil {
		updates["current_base_id"] = *patch.CurrentBaseID
	}
	if patch.Status != nil {
		status, err := metadata.NewAssetStatus(*patch.Status)
		if err != nil {
			return nil, &custom_error.ValidationError{Message: err.Error()}
		}
		updates["status"] = string(status)
	}
	if patch.Notes != nil {
		updates["notes"] = *patch.Notes
	}
	if patch.AcquisitionDate != nil {
		date, err := time.Parse("2006-01-02", *patch.AcquisitionDate)
		if err != nil {
			return nil, &custom_error.ValidationError{Message: "acquisition_date must be YYYY-MM-DD"}
		}
		updates["acquisition_date"] = date
	}

	if len(updates) == 0 {
		return nil, &custom_error.ValidationError{Message: "no fields to update"}
	}

	return updates, nil
}
