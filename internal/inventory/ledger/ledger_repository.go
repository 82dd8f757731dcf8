package ledger

import (
	"fmt"
	"time"

	"github.com/GThiruAishwarya/kristaball/internal/repository"
	"github.com/GThiruAishwarya/kristaball/pkg/metadata"
	"github.com/GThiruAishwarya/kristaball/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

// LedgerRepository owns the append-only asset_history table. Rows are only
// ever inserted; there is no update or delete path.
type LedgerRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *LedgerRepository {
	return &LedgerRepository{repository: r}
}

// HistoryFilter narrows GetFilteredHistory. Nil fields are ignored; To is
// exclusive so callers can pass day boundaries without off-by-one clauses.
type HistoryFilter struct {
	AssetID           *int
	TransactionType   *metadata.TransactionType
	SourceBaseID      *int
	DestinationBaseID *int
	InvolvedUserID    *int
	From              *time.Time
	To                *time.Time
	CategoryName      *string
	ModelName         *string
	SerialNumber      *string
}

// Append inserts one transaction record and returns its history_id.
func (r *LedgerRepository) Append(tx *goqu.TxDatabase, rec models.TransactionRecord) (int, error) {
	record := goqu.Record{
		"asset_id":         rec.AssetID,
		"transaction_type": string(rec.Type),
		"quantity_change":  rec.QuantityChange,
		"notes":            rec.Notes,
	}
	if rec.SourceBaseID != nil {
		record["source_base_id"] = *rec.SourceBaseID
	}
	if rec.DestinationBaseID != nil {
		record["destination_base_id"] = *rec.DestinationBaseID
	}
	if rec.InvolvedUserID != nil {
		record["involved_user_id"] = *rec.InvolvedUserID
	}
	if !rec.TransactionDate.IsZero() {
		record["transaction_date"] = rec.TransactionDate
	}

	var insert *goqu.InsertDataset
	if tx != nil {
		insert = tx.Insert("asset_history")
	} else {
		insert = r.repository.GoquDBWrapper.Insert("asset_history")
	}

	var historyID int
	query := insert.Rows(record).Returning("history_id")
	if _, err := query.Executor().ScanVal(&historyID); err != nil {
		return 0, fmt.Errorf("failed to insert history record: %w", err)
	}

	return historyID, nil
}

// GetHistoryByAsset returns an asset's records, newest first.
func (r *LedgerRepository) GetHistoryByAsset(assetID int) ([]models.HistoryEntry, error) {
	query := r.getHistoryQuery().
		Where(goqu.Ex{"ah.asset_id": assetID}).
		Order(goqu.I("ah.transaction_date").Desc(), goqu.I("ah.history_id").Desc())

	var entries []models.HistoryEntry
	if err := query.Executor().ScanStructs(&entries); err != nil {
		return nil, fmt.Errorf("unable to select asset history: %w", err)
	}

	return entries, nil
}

// GetFilteredHistory returns records matching the filter, newest first.
func (r *LedgerRepository) GetFilteredHistory(f HistoryFilter) ([]models.HistoryEntry, error) {
	query := r.getHistoryQuery()

	if f.AssetID != nil {
		query = query.Where(goqu.Ex{"ah.asset_id": *f.AssetID})
	}
	if f.TransactionType != nil {
		query = query.Where(goqu.Ex{"ah.transaction_type": string(*f.TransactionType)})
	}
	if f.SourceBaseID != nil {
		query = query.Where(goqu.Ex{"ah.source_base_id": *f.SourceBaseID})
	}
	if f.DestinationBaseID != nil {
		query = query.Where(goqu.Ex{"ah.destination_base_id": *f.DestinationBaseID})
	}
	if f.InvolvedUserID != nil {
		query = query.Where(goqu.Ex{"ah.involved_user_id": *f.InvolvedUserID})
	}
	if f.From != nil {
		query = query.Where(goqu.I("ah.transaction_date").Gte(*f.From))
	}
	if f.To != nil {
		query = query.Where(goqu.I("ah.transaction_date").Lt(*f.To))
	}
	if f.CategoryName != nil {
		query = query.Where(goqu.Ex{"c.category_name": *f.CategoryName})
	}
	if f.ModelName != nil {
		query = query.Where(goqu.I("a.model_name").ILike("%" + *f.ModelName + "%"))
	}
	if f.SerialNumber != nil {
		query = query.Where(goqu.Ex{"a.serial_number": *f.SerialNumber})
	}

	query = query.Order(goqu.I("ah.transaction_date").Desc(), goqu.I("ah.history_id").Desc())

	var entries []models.HistoryEntry
	if err := query.Executor().ScanStructs(&entries); err != nil {
		return nil, fmt.Errorf("unable to select asset history: %w", err)
	}

	return entries, nil
}

// NetMovement sums quantity_change over the period. With a base it counts
// records where the base is the source OR the destination.
func (r *LedgerRepository) NetMovement(baseID *int, from, to time.Time) (int, error) {
	query := r.repository.GoquDBWrapper.
		Select(goqu.COALESCE(goqu.SUM("quantity_change"), 0)).
		From("asset_history").
		Where(goqu.I("transaction_date").Gte(from)).
		Where(goqu.I("transaction_date").Lt(to))
	if baseID != nil {
		query = query.Where(goqu.Or(
			goqu.Ex{"source_base_id": *baseID},
			goqu.Ex{"destination_base_id": *baseID},
		))
	}

	var net int
	if _, err := query.Executor().ScanVal(&net); err != nil {
		return 0, fmt.Errorf("failed to compute net movement: %w", err)
	}

	return net, nil
}

// TotalPurchased sums Purchase quantity over the period, optionally scoped
// to the destination base.
func (r *LedgerRepository) TotalPurchased(baseID *int, from, to time.Time) (int, error) {
	query := r.repository.GoquDBWrapper.
		Select(goqu.COALESCE(goqu.SUM("quantity_change"), 0)).
		From("asset_history").
		Where(goqu.Ex{"transaction_type": string(metadata.TypePurchase)}).
		Where(goqu.I("transaction_date").Gte(from)).
		Where(goqu.I("transaction_date").Lt(to))
	if baseID != nil {
		query = query.Where(goqu.Ex{"destination_base_id": *baseID})
	}

	var total int
	if _, err := query.Executor().ScanVal(&total); err != nil {
		return 0, fmt.Errorf("failed to compute total purchased: %w", err)
	}

	return total, nil
}

// TotalExpended sums the magnitude of Expenditure records over the period,
// optionally scoped to the base the assets were expended from.
func (r *LedgerRepository) TotalExpended(baseID *int, from, to time.Time) (int, error) {
	query := r.repository.GoquDBWrapper.
		Select(goqu.L("COALESCE(SUM(ABS(quantity_change)), 0)")).
		From("asset_history").
		Where(goqu.Ex{"transaction_type": string(metadata.TypeExpenditure)}).
		Where(goqu.I("transaction_date").Gte(from)).
		Where(goqu.I("transaction_date").Lt(to))
	if baseID != nil {
		query = query.Where(goqu.Ex{"source_base_id": *baseID})
	}

	var total int
	if _, err := query.Executor().ScanVal(&total); err != nil {
		return 0, fmt.Errorf("failed to compute total expended: %w", err)
	}

	return total, nil
}

func (r *LedgerRepository) getHistoryQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.Select(
		goqu.I("ah.history_id").As("history_id"),
		goqu.I("ah.asset_id").As("asset_id"),
		goqu.I("ah.transaction_type").As("transaction_type"),
		goqu.I("ah.quantity_change").As("quantity_change"),
		goqu.I("ah.transaction_date").As("transaction_date"),
		goqu.I("ah.source_base_id").As("source_base_id"),
		goqu.I("ah.destination_base_id").As("destination_base_id"),
		goqu.I("ah.involved_user_id").As("involved_user_id"),
		goqu.COALESCE(goqu.I("ah.notes"), "").As("notes"),
		goqu.I("a.model_name").As("asset_model"),
		goqu.I("a.serial_number").As("asset_serial"),
		goqu.I("c.category_name").As("asset_category"),
		goqu.COALESCE(goqu.I("sb.base_name"), "").As("source_base_name"),
		goqu.COALESCE(goqu.I("db.base_name"), "").As("destination_base_name"),
		goqu.COALESCE(goqu.I("u.username"), "").As("involved_username"),
	).
		From(goqu.T("asset_history").As("ah")).
		Join(
			goqu.T("assets").As("a"),
			goqu.On(goqu.Ex{"ah.asset_id": goqu.I("a.asset_id")}),
		).
		Join(
			goqu.T("asset_categories").As("c"),
			goqu.On(goqu.Ex{"a.category_id": goqu.I("c.category_id")}),
		).
		LeftJoin(
			goqu.T("bases").As("sb"),
			goqu.On(goqu.Ex{"ah.source_base_id": goqu.I("sb.base_id")}),
		).
		LeftJoin(
			goqu.T("bases").As("db"),
			goqu.On(goqu.Ex{"ah.destination_base_id": goqu.I("db.base_id")}),
		).
		LeftJoin(
			goqu.T("users").As("u"),
			goqu.On(goqu.Ex{"ah.involved_user_id": goqu.I("u.user_id")}),
		)
}
