package movements

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/GThiruAishwarya/kristaball/pkg/auditlog"
	custom_error "github.com/GThiruAishwarya/kristaball/pkg/errors"
	"github.com/GThiruAishwarya/kristaball/pkg/metadata"
	"github.com/GThiruAishwarya/kristaball/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDirectory is an in-memory asset store. DecrementQuantity applies the
// same conditional check the SQL implementation does.
type fakeDirectory struct {
	mu     sync.Mutex
	assets map[int]*models.Asset
	nextID int

	persistErr   error
	setStatusErr error
	relocateErr  error
}

func newFakeDirectory(assets ...*models.Asset) *fakeDirectory {
	d := &fakeDirectory{assets: map[int]*models.Asset{}, nextID: 1}
	for _, a := range assets {
		d.assets[a.ID] = a
		if a.ID >= d.nextID {
			d.nextID = a.ID + 1
		}
	}
	return d
}

func (d *fakeDirectory) GetAsset(id int) (*models.Asset, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	a, ok := d.assets[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (d *fakeDirectory) PersistAsset(tx *goqu.TxDatabase, data models.AssetCreate) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.persistErr != nil {
		return 0, d.persistErr
	}
	id := d.nextID
	d.nextID++
	base := data.CurrentBaseID
	d.assets[id] = &models.Asset{
		ID:              id,
		CategoryID:      data.CategoryID,
		ModelName:       data.ModelName,
		SerialNumber:    data.SerialNumber,
		Quantity:        data.Quantity,
		UnitOfMeasure:   data.UnitOfMeasure,
		UnitCost:        data.UnitCost,
		AcquisitionDate: data.AcquisitionDate,
		CurrentBaseID:   &base,
		Status:          data.Status,
		Notes:           data.Notes,
	}
	return id, nil
}

func (d *fakeDirectory) DecrementQuantity(tx *goqu.TxDatabase, assetID int, amount int) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	a, ok := d.assets[assetID]
	if !ok || a.Quantity < amount {
		return 0, &custom_error.InsufficientQuantityError{AssetID: assetID, Requested: amount}
	}
	a.Quantity -= amount
	return a.Quantity, nil
}

func (d *fakeDirectory) AdjustQuantity(tx *goqu.TxDatabase, assetID int, delta int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	a, ok := d.assets[assetID]
	if !ok {
		return &custom_error.NotFoundError{Resource: "asset", ID: assetID}
	}
	a.Quantity += delta
	return nil
}

func (d *fakeDirectory) Relocate(tx *goqu.TxDatabase, assetID int, baseID int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.relocateErr != nil {
		return d.relocateErr
	}
	a, ok := d.assets[assetID]
	if !ok {
		return &custom_error.NotFoundError{Resource: "asset", ID: assetID}
	}
	b := baseID
	a.CurrentBaseID = &b
	return nil
}

func (d *fakeDirectory) SetStatus(tx *goqu.TxDatabase, assetID int, status metadata.AssetStatus) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.setStatusErr != nil {
		return d.setStatusErr
	}
	a, ok := d.assets[assetID]
	if !ok {
		return &custom_error.NotFoundError{Resource: "asset", ID: assetID}
	}
	a.Status = status
	return nil
}

func (d *fakeDirectory) quantityOf(t *testing.T, id int) int {
	t.Helper()
	d.mu.Lock()
	defer d.mu.Unlock()
	a, ok := d.assets[id]
	require.True(t, ok, "asset %d should exist", id)
	return a.Quantity
}

func (d *fakeDirectory) totalQuantity() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	total := 0
	for _, a := range d.assets {
		total += a.Quantity
	}
	return total
}

type fakeLedger struct {
	mu      sync.Mutex
	records []models.TransactionRecord

	appendErr error
}

func (l *fakeLedger) Append(tx *goqu.TxDatabase, rec models.TransactionRecord) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.appendErr != nil {
		return 0, l.appendErr
	}
	rec.ID = len(l.records) + 1
	l.records = append(l.records, rec)
	return rec.ID, nil
}

func (l *fakeLedger) all() []models.TransactionRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.TransactionRecord, len(l.records))
	copy(out, l.records)
	return out
}

// fakeTxRunner serializes transactions and restores the directory and
// ledger to their pre-transaction state when the closure fails, mirroring a
// database rollback. beforeTx, when set, runs once ahead of the next
// transaction to simulate a competing movement committing in between.
type fakeTxRunner struct {
	mu        sync.Mutex
	directory *fakeDirectory
	ledger    *fakeLedger
	beforeTx  func()
}

func (r *fakeTxRunner) WithTx(fn func(tx *goqu.TxDatabase) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.beforeTx != nil {
		hook := r.beforeTx
		r.beforeTx = nil
		hook()
	}

	r.directory.mu.Lock()
	assetSnapshot := map[int]*models.Asset{}
	for id, a := range r.directory.assets {
		cp := *a
		assetSnapshot[id] = &cp
	}
	nextIDSnapshot := r.directory.nextID
	r.directory.mu.Unlock()

	r.ledger.mu.Lock()
	recordSnapshot := make([]models.TransactionRecord, len(r.ledger.records))
	copy(recordSnapshot, r.ledger.records)
	r.ledger.mu.Unlock()

	if err := fn(nil); err != nil {
		r.directory.mu.Lock()
		r.directory.assets = assetSnapshot
		r.directory.nextID = nextIDSnapshot
		r.directory.mu.Unlock()

		r.ledger.mu.Lock()
		r.ledger.records = recordSnapshot
		r.ledger.mu.Unlock()
		return err
	}
	return nil
}

type fakeAudit struct{}

func (fakeAudit) Log(action string, data interface{}, item auditlog.Auditable) {}

func newTestService(assets ...*models.Asset) (*MovementService, *fakeDirectory, *fakeLedger) {
	directory := newFakeDirectory(assets...)
	ledger := &fakeLedger{}
	runner := &fakeTxRunner{directory: directory, ledger: ledger}
	return NewMovementService(directory, ledger, runner, fakeAudit{}), directory, ledger
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func rifleAt(base int) *models.Asset {
	b := base
	return &models.Asset{
		ID:            1,
		CategoryID:    2,
		ModelName:     "M4A1 Carbine",
		SerialNumber:  strPtr("SN-0001"),
		Quantity:      1,
		UnitOfMeasure: "unit",
		CurrentBaseID: &b,
		Status:        metadata.StatusOperational,
	}
}

func ammoAt(base, quantity int) *models.Asset {
	b := base
	return &models.Asset{
		ID:            1,
		CategoryID:    7,
		ModelName:     "5.56mm NATO",
		Quantity:      quantity,
		UnitOfMeasure: "rounds",
		CurrentBaseID: &b,
		Status:        metadata.StatusOperational,
	}
}

func TestRecordPurchaseCreatesAssetAndLedgerRecord(t *testing.T) {
	service, directory, ledger := newTestService()

	asset, err := service.RecordPurchase(models.PurchaseRequest{
		CategoryID:      7,
		ModelName:       "5.56mm NATO",
		Quantity:        5000,
		UnitOfMeasure:   "rounds",
		CurrentBaseID:   3,
		AcquisitionDate: "2026-08-15",
	}, 42)

	require.NoError(t, err)
	require.NotNil(t, asset)
	assert.Equal(t, 5000, asset.Quantity)
	require.NotNil(t, asset.CurrentBaseID)
	assert.Equal(t, 3, *asset.CurrentBaseID)
	assert.Equal(t, metadata.StatusOperational, asset.Status)

	records := ledger.all()
	require.Len(t, records, 1)
	assert.Equal(t, metadata.TypePurchase, records[0].Type)
	assert.Equal(t, 5000, records[0].QuantityChange)
	require.NotNil(t, records[0].DestinationBaseID)
	assert.Equal(t, 3, *records[0].DestinationBaseID)
	require.NotNil(t, records[0].InvolvedUserID)
	assert.Equal(t, 42, *records[0].InvolvedUserID)

	assert.Equal(t, 5000, directory.quantityOf(t, asset.ID))
}

func TestRecordPurchaseRejectsBadDate(t *testing.T) {
	service, _, ledger := newTestService()

	_, err := service.RecordPurchase(models.PurchaseRequest{
		CategoryID:      7,
		ModelName:       "5.56mm NATO",
		Quantity:        100,
		UnitOfMeasure:   "rounds",
		CurrentBaseID:   3,
		AcquisitionDate: "15-08-2026",
	}, 42)

	var validationErr *custom_error.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Empty(t, ledger.all())
}

func TestRecordPurchaseRejectsSerializedBatch(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.RecordPurchase(models.PurchaseRequest{
		CategoryID:      2,
		ModelName:       "M4A1 Carbine",
		SerialNumber:    strPtr("SN-0009"),
		Quantity:        3,
		UnitOfMeasure:   "unit",
		CurrentBaseID:   1,
		AcquisitionDate: "2026-08-15",
	}, 42)

	var validationErr *custom_error.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestRecordPurchaseRollsBackAssetWhenLedgerFails(t *testing.T) {
	service, directory, ledger := newTestService()
	ledger.appendErr = errors.New("insert failed")

	_, err := service.RecordPurchase(models.PurchaseRequest{
		CategoryID:      7,
		ModelName:       "5.56mm NATO",
		Quantity:        100,
		UnitOfMeasure:   "rounds",
		CurrentBaseID:   3,
		AcquisitionDate: "2026-08-15",
	}, 42)

	require.Error(t, err)
	assert.Empty(t, directory.assets)
	assert.Empty(t, ledger.all())
}

func TestRecordTransferRejectsSameBase(t *testing.T) {
	service, _, _ := newTestService(rifleAt(1))

	_, err := service.RecordTransfer(models.TransferRequest{
		AssetID:           1,
		Quantity:          1,
		SourceBaseID:      1,
		DestinationBaseID: 1,
	}, 42)

	var validationErr *custom_error.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestRecordTransferUnknownAsset(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.RecordTransfer(models.TransferRequest{
		AssetID:           99,
		Quantity:          1,
		SourceBaseID:      1,
		DestinationBaseID: 2,
	}, 42)

	var notFound *custom_error.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestRecordTransferLocationMismatch(t *testing.T) {
	service, directory, ledger := newTestService(rifleAt(1))

	_, err := service.RecordTransfer(models.TransferRequest{
		AssetID:           1,
		Quantity:          1,
		SourceBaseID:      5,
		DestinationBaseID: 2,
	}, 42)

	var mismatch *custom_error.LocationMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 1, directory.quantityOf(t, 1))
	assert.Empty(t, ledger.all())
}

func TestRecordTransferInsufficientQuantity(t *testing.T) {
	service, directory, ledger := newTestService(ammoAt(1, 100))

	_, err := service.RecordTransfer(models.TransferRequest{
		AssetID:           1,
		Quantity:          500,
		SourceBaseID:      1,
		DestinationBaseID: 2,
	}, 42)

	var insufficient *custom_error.InsufficientQuantityError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 100, directory.quantityOf(t, 1))
	assert.Empty(t, ledger.all())
}

func TestRecordTransferSerializedFullMoveRelocates(t *testing.T) {
	service, directory, ledger := newTestService(rifleAt(1))

	result, err := service.RecordTransfer(models.TransferRequest{
		AssetID:           1,
		Quantity:          1,
		SourceBaseID:      1,
		DestinationBaseID: 2,
	}, 42)

	require.NoError(t, err)
	assert.Equal(t, models.TransferModeRelocated, result.Mode)
	assert.Equal(t, 1, result.AssetID)
	assert.Nil(t, result.NewAssetID)

	moved, err := directory.GetAsset(1)
	require.NoError(t, err)
	require.NotNil(t, moved.CurrentBaseID)
	assert.Equal(t, 2, *moved.CurrentBaseID)
	assert.Equal(t, 1, moved.Quantity)
	require.NotNil(t, moved.SerialNumber)
	assert.Equal(t, "SN-0001", *moved.SerialNumber)

	records := ledger.all()
	require.Len(t, records, 1)
	assert.Equal(t, metadata.TypeTransfer, records[0].Type)
	assert.Equal(t, 0, records[0].QuantityChange)
	assert.Equal(t, 1, *records[0].SourceBaseID)
	assert.Equal(t, 2, *records[0].DestinationBaseID)
}

func TestRecordTransferFungibleSplitsLot(t *testing.T) {
	service, directory, ledger := newTestService(ammoAt(1, 5000))

	result, err := service.RecordTransfer(models.TransferRequest{
		AssetID:           1,
		Quantity:          1200,
		SourceBaseID:      1,
		DestinationBaseID: 2,
	}, 42)

	require.NoError(t, err)
	assert.Equal(t, models.TransferModeSplit, result.Mode)
	require.NotNil(t, result.NewAssetID)

	assert.Equal(t, 3800, directory.quantityOf(t, 1))
	newLot, err := directory.GetAsset(*result.NewAssetID)
	require.NoError(t, err)
	assert.Equal(t, 1200, newLot.Quantity)
	assert.Nil(t, newLot.SerialNumber)
	assert.Equal(t, "5.56mm NATO", newLot.ModelName)
	assert.Equal(t, metadata.StatusOperational, newLot.Status)
	require.NotNil(t, newLot.CurrentBaseID)
	assert.Equal(t, 2, *newLot.CurrentBaseID)

	// conservation: nothing created or destroyed
	assert.Equal(t, 5000, directory.totalQuantity())

	records := ledger.all()
	require.Len(t, records, 2)
	assert.Equal(t, metadata.TypeTransferOut, records[0].Type)
	assert.Equal(t, -1200, records[0].QuantityChange)
	assert.Equal(t, 1, records[0].AssetID)
	assert.Equal(t, metadata.TypeTransferIn, records[1].Type)
	assert.Equal(t, 1200, records[1].QuantityChange)
	assert.Equal(t, *result.NewAssetID, records[1].AssetID)
}

func TestRecordTransferSerializedPartialSplits(t *testing.T) {
	asset := rifleAt(1)
	asset.Quantity = 4
	service, directory, _ := newTestService(asset)

	result, err := service.RecordTransfer(models.TransferRequest{
		AssetID:           1,
		Quantity:          3,
		SourceBaseID:      1,
		DestinationBaseID: 2,
	}, 42)

	require.NoError(t, err)
	assert.Equal(t, models.TransferModeSplit, result.Mode)
	require.NotNil(t, result.NewAssetID)

	assert.Equal(t, 1, directory.quantityOf(t, 1))
	newLot, err := directory.GetAsset(*result.NewAssetID)
	require.NoError(t, err)
	assert.Nil(t, newLot.SerialNumber, "split lot must not inherit the serial number")
	assert.Equal(t, 3, newLot.Quantity)
}

func TestRecordTransferRollsBackOnLedgerFailure(t *testing.T) {
	service, directory, ledger := newTestService(ammoAt(1, 5000))
	ledger.appendErr = errors.New("insert failed")

	_, err := service.RecordTransfer(models.TransferRequest{
		AssetID:           1,
		Quantity:          1200,
		SourceBaseID:      1,
		DestinationBaseID: 2,
	}, 42)

	require.Error(t, err)
	assert.Equal(t, 5000, directory.quantityOf(t, 1))
	assert.Equal(t, 5000, directory.totalQuantity())
	assert.Empty(t, ledger.all())
}

func TestRecordAssignmentDecrementsAndRecords(t *testing.T) {
	service, directory, ledger := newTestService(ammoAt(1, 500))

	err := service.RecordAssignment(models.AssignmentRequest{
		AssetID:            1,
		Quantity:           120,
		AssignedToUserID:   7,
		BaseOfAssignmentID: 1,
		Purpose:            "Live-fire training",
		ExpectedReturnDate: "2026-09-30",
	}, 42)

	require.NoError(t, err)
	assert.Equal(t, 380, directory.quantityOf(t, 1))

	records := ledger.all()
	require.Len(t, records, 1)
	assert.Equal(t, metadata.TypeAssignment, records[0].Type)
	assert.Equal(t, -120, records[0].QuantityChange)
	require.NotNil(t, records[0].InvolvedUserID)
	assert.Equal(t, 7, *records[0].InvolvedUserID)
	assert.Contains(t, records[0].Notes, "Live-fire training")
	assert.Contains(t, records[0].Notes, "2026-09-30")
}

func TestRecordAssignmentLocationMismatch(t *testing.T) {
	service, directory, _ := newTestService(ammoAt(1, 500))

	err := service.RecordAssignment(models.AssignmentRequest{
		AssetID:            1,
		Quantity:           120,
		AssignedToUserID:   7,
		BaseOfAssignmentID: 9,
		Purpose:            "Live-fire training",
	}, 42)

	var mismatch *custom_error.LocationMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 500, directory.quantityOf(t, 1))
}

func TestRecordAssignmentInsufficientQuantity(t *testing.T) {
	service, _, ledger := newTestService(ammoAt(1, 100))

	err := service.RecordAssignment(models.AssignmentRequest{
		AssetID:            1,
		Quantity:           200,
		AssignedToUserID:   7,
		BaseOfAssignmentID: 1,
		Purpose:            "Live-fire training",
	}, 42)

	var insufficient *custom_error.InsufficientQuantityError
	require.ErrorAs(t, err, &insufficient)
	assert.Empty(t, ledger.all())
}

func TestRecordExpenditureDecrementsAndRecords(t *testing.T) {
	service, directory, ledger := newTestService(ammoAt(1, 5000))

	err := service.RecordExpenditure(models.ExpenditureRequest{
		AssetID:             1,
		Quantity:            300,
		BaseWhereExpendedID: 1,
		Reason:              "Training exercise",
		ReportingUserID:     intPtr(9),
	}, 42)

	require.NoError(t, err)
	assert.Equal(t, 4700, directory.quantityOf(t, 1))

	records := ledger.all()
	require.Len(t, records, 1)
	assert.Equal(t, metadata.TypeExpenditure, records[0].Type)
	assert.Equal(t, -300, records[0].QuantityChange)
	require.NotNil(t, records[0].InvolvedUserID)
	assert.Equal(t, 9, *records[0].InvolvedUserID)
	assert.Contains(t, records[0].Notes, "Reason: Training exercise")
}

func TestRecordExpenditureDefaultsToActor(t *testing.T) {
	service, _, ledger := newTestService(ammoAt(1, 5000))

	err := service.RecordExpenditure(models.ExpenditureRequest{
		AssetID:             1,
		Quantity:            300,
		BaseWhereExpendedID: 1,
		Reason:              "Training exercise",
	}, 42)

	require.NoError(t, err)
	records := ledger.all()
	require.Len(t, records, 1)
	require.NotNil(t, records[0].InvolvedUserID)
	assert.Equal(t, 42, *records[0].InvolvedUserID)
}

func TestRecordExpenditureFlipsSerializedAssetToExpended(t *testing.T) {
	service, directory, _ := newTestService(rifleAt(1))

	err := service.RecordExpenditure(models.ExpenditureRequest{
		AssetID:             1,
		Quantity:            1,
		BaseWhereExpendedID: 1,
		Reason:              "Destroyed in action",
	}, 42)

	require.NoError(t, err)
	asset, err := directory.GetAsset(1)
	require.NoError(t, err)
	assert.Equal(t, 0, asset.Quantity)
	assert.Equal(t, metadata.StatusExpended, asset.Status)
}

// The flip decision uses the quantity the in-transaction decrement reports,
// not the pre-transaction read: a competing expenditure landing in between
// must not leave a drained serialized asset marked Operational.
func TestRecordExpenditureFlipUsesPostDecrementQuantity(t *testing.T) {
	asset := rifleAt(1)
	asset.Quantity = 2
	directory := newFakeDirectory(asset)
	ledger := &fakeLedger{}
	runner := &fakeTxRunner{directory: directory, ledger: ledger}
	runner.beforeTx = func() {
		_, err := directory.DecrementQuantity(nil, 1, 1)
		require.NoError(t, err)
	}
	service := NewMovementService(directory, ledger, runner, fakeAudit{})

	err := service.RecordExpenditure(models.ExpenditureRequest{
		AssetID:             1,
		Quantity:            1,
		BaseWhereExpendedID: 1,
		Reason:              "Destroyed in action",
	}, 42)

	require.NoError(t, err)
	expended, err := directory.GetAsset(1)
	require.NoError(t, err)
	assert.Equal(t, 0, expended.Quantity)
	assert.Equal(t, metadata.StatusExpended, expended.Status)
}

func TestRecordExpenditureStatusFlipIsBestEffort(t *testing.T) {
	service, directory, ledger := newTestService(rifleAt(1))
	directory.setStatusErr = errors.New("column locked")

	err := service.RecordExpenditure(models.ExpenditureRequest{
		AssetID:             1,
		Quantity:            1,
		BaseWhereExpendedID: 1,
		Reason:              "Destroyed in action",
	}, 42)

	require.NoError(t, err)
	assert.Equal(t, 0, directory.quantityOf(t, 1))
	assert.Len(t, ledger.all(), 1)
}

func TestRecordExpenditureFungibleToZeroKeepsStatus(t *testing.T) {
	service, directory, _ := newTestService(ammoAt(1, 200))

	err := service.RecordExpenditure(models.ExpenditureRequest{
		AssetID:             1,
		Quantity:            200,
		BaseWhereExpendedID: 1,
		Reason:              "Training exercise",
	}, 42)

	require.NoError(t, err)
	asset, err := directory.GetAsset(1)
	require.NoError(t, err)
	assert.Equal(t, 0, asset.Quantity)
	assert.Equal(t, metadata.StatusOperational, asset.Status)
}

// Regression: two concurrent transfers that each pass the availability
// pre-check must not drive quantity negative. The conditional decrement
// inside the transaction is the arbiter: exactly one wins.
func TestConcurrentTransfersCannotOverdraw(t *testing.T) {
	service, directory, ledger := newTestService(ammoAt(1, 10))

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = service.RecordTransfer(models.TransferRequest{
				AssetID:           1,
				Quantity:          8,
				SourceBaseID:      1,
				DestinationBaseID: 2,
				Notes:             fmt.Sprintf("convoy %d", i),
			}, 42)
		}(i)
	}
	wg.Wait()

	var succeeded, failed int
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		failed++
		var insufficient *custom_error.InsufficientQuantityError
		require.ErrorAs(t, err, &insufficient)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, failed)

	assert.Equal(t, 2, directory.quantityOf(t, 1))
	assert.Equal(t, 10, directory.totalQuantity())
	assert.Len(t, ledger.all(), 2)
	assert.GreaterOrEqual(t, directory.quantityOf(t, 1), 0)
}
