package dashboard

import (
	"sync"
	"time"

	"github.com/GThiruAishwarya/kristaball/pkg/models"
)

// AssetTotals is the slice of the assets repository the metrics service
// reads from.
type AssetTotals interface {
	TotalQuantity(baseID *int) (int, error)
}

// LedgerTotals aggregates over the transaction ledger. From is inclusive,
// to is exclusive.
type LedgerTotals interface {
	NetMovement(baseID *int, from, to time.Time) (int, error)
	TotalPurchased(baseID *int, from, to time.Time) (int, error)
	TotalExpended(baseID *int, from, to time.Time) (int, error)
}

// MetricsService computes the dashboard aggregates. The four figures are
// independent reads, so they run concurrently.
type MetricsService struct {
	assets AssetTotals
	ledger LedgerTotals
}

func NewMetricsService(assets AssetTotals, ledger LedgerTotals) *MetricsService {
	return &MetricsService{assets: assets, ledger: ledger}
}

// ComputeDashboard returns the aggregates for the base (nil means all bases)
// over [from, to). Callers pass zero times to get the current calendar month.
func (s *MetricsService) ComputeDashboard(baseID *int, from, to time.Time) (*models.DashboardMetrics, error) {
	if from.IsZero() || to.IsZero() {
		from, to = currentMonthRange(time.Now())
	}

	metrics := &models.DashboardMetrics{
		PeriodStart: from,
		PeriodEnd:   to,
		BaseID:      baseID,
	}

	var wg sync.WaitGroup
	errs := make([]error, 4)

	wg.Add(4)
	go func() {
		defer wg.Done()
		metrics.TotalAssets, errs[0] = s.assets.TotalQuantity(baseID)
	}()
	go func() {
		defer wg.Done()
		metrics.TotalPurchased, errs[1] = s.ledger.TotalPurchased(baseID, from, to)
	}()
	go func() {
		defer wg.Done()
		metrics.TotalExpended, errs[2] = s.ledger.TotalExpended(baseID, from, to)
	}()
	go func() {
		defer wg.Done()
		metrics.NetMovement, errs[3] = s.ledger.NetMovement(baseID, from, to)
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return metrics, nil
}

// currentMonthRange returns the first day of now's month (inclusive) and the
// first day of the next month (exclusive).
func currentMonthRange(now time.Time) (time.Time, time.Time) {
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return from, from.AddDate(0, 1, 0)
}
