package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	v1 "github.com/pricepulse-lab/pricepulse/internal/api/v1"
	"github.com/pricepulse-lab/pricepulse/internal/core/pricing"
	"github.com/pricepulse-lab/pricepulse/internal/core/storage"
)

// fakeAnalyticsStore is a hand-written fake; unset methods panic through
// the embedded nil interface.
type fakeAnalyticsStore struct {
	storage.AnalyticsStore

	priceHistory    func(ctx context.Context, productID, salePointID int64, span pricing.Span) ([]v1.PriceHistoryEntry, error)
	findDateID      func(ctx context.Context, date pricing.CalendarDate) (int64, error)
	maxPriceDateID  func(ctx context.Context, productID int64) (int64, error)
	pricesAtDate    func(ctx context.Context, productID, dateID int64) ([]v1.PriceComparisonRow, error)
	priceEvolution  func(ctx context.Context, productID int64) ([]v1.PriceEvolutionPoint, error)
	cityComparison  func(ctx context.Context, productID int64) ([]v1.CityPriceComparisonRow, error)
	priceTrends     func(ctx context.Context, span pricing.Span) ([]v1.PriceTrendRow, error)
	productsCount   func(ctx context.Context) (int64, error)
	productsBySP    func(ctx context.Context) ([]v1.ProductsBySalePointRow, error)
	spByCity        func(ctx context.Context) ([]v1.SalePointsByCityRow, error)
	spByType        func(ctx context.Context) ([]v1.SalePointsByTypeRow, error)
	pricesByMonth   func(ctx context.Context) ([]v1.PricesByMonthRow, error)
	avgByProduct    func(ctx context.Context) ([]v1.AveragePriceByProductRow, error)
}

func (f *fakeAnalyticsStore) PriceHistory(ctx context.Context, productID, salePointID int64, span pricing.Span) ([]v1.PriceHistoryEntry, error) {
	return f.priceHistory(ctx, productID, salePointID, span)
}

func (f *fakeAnalyticsStore) FindDateID(ctx context.Context, date pricing.CalendarDate) (int64, error) {
	return f.findDateID(ctx, date)
}

func (f *fakeAnalyticsStore) MaxPriceDateID(ctx context.Context, productID int64) (int64, error) {
	return f.maxPriceDateID(ctx, productID)
}

func (f *fakeAnalyticsStore) PricesAtDate(ctx context.Context, productID, dateID int64) ([]v1.PriceComparisonRow, error) {
	return f.pricesAtDate(ctx, productID, dateID)
}

func (f *fakeAnalyticsStore) PriceEvolution(ctx context.Context, productID int64) ([]v1.PriceEvolutionPoint, error) {
	return f.priceEvolution(ctx, productID)
}

func (f *fakeAnalyticsStore) CityPriceComparison(ctx context.Context, productID int64) ([]v1.CityPriceComparisonRow, error) {
	return f.cityComparison(ctx, productID)
}

func (f *fakeAnalyticsStore) PriceTrends(ctx context.Context, span pricing.Span) ([]v1.PriceTrendRow, error) {
	return f.priceTrends(ctx, span)
}

func (f *fakeAnalyticsStore) ProductsWithPricesCount(ctx context.Context) (int64, error) {
	return f.productsCount(ctx)
}

func (f *fakeAnalyticsStore) ProductsBySalePoint(ctx context.Context) ([]v1.ProductsBySalePointRow, error) {
	return f.productsBySP(ctx)
}

func (f *fakeAnalyticsStore) SalePointsByCity(ctx context.Context) ([]v1.SalePointsByCityRow, error) {
	return f.spByCity(ctx)
}

func (f *fakeAnalyticsStore) SalePointsByType(ctx context.Context) ([]v1.SalePointsByTypeRow, error) {
	return f.spByType(ctx)
}

func (f *fakeAnalyticsStore) PricesByMonth(ctx context.Context) ([]v1.PricesByMonthRow, error) {
	return f.pricesByMonth(ctx)
}

func (f *fakeAnalyticsStore) AveragePricesByProduct(ctx context.Context) ([]v1.AveragePriceByProductRow, error) {
	return f.avgByProduct(ctx)
}

func TestService_HistoryMalformedDateFailsBeforeStoreAccess(t *testing.T) {
	storeCalled := false
	store := &fakeAnalyticsStore{
		priceHistory: func(_ context.Context, _, _ int64, _ pricing.Span) ([]v1.PriceHistoryEntry, error) {
			storeCalled = true
			return nil, nil
		},
	}
	svc := NewService(store)

	_, err := svc.History(context.Background(), 1, 0, "15/03/2024", "")
	require.ErrorIs(t, err, pricing.ErrInvalidDate)
	require.False(t, storeCalled)
}

func TestService_HistoryEmptyForUnknownProduct(t *testing.T) {
	store := &fakeAnalyticsStore{
		priceHistory: func(_ context.Context, _, _ int64, _ pricing.Span) ([]v1.PriceHistoryEntry, error) {
			return nil, nil
		},
	}
	svc := NewService(store)

	entries, err := svc.History(context.Background(), 999, 0, "", "")
	require.NoError(t, err)
	require.NotNil(t, entries)
	require.Empty(t, entries)
}

func TestService_HistoryPassesSpanAndSalePoint(t *testing.T) {
	var gotSpan pricing.Span
	var gotSalePoint int64
	store := &fakeAnalyticsStore{
		priceHistory: func(_ context.Context, _, salePointID int64, span pricing.Span) ([]v1.PriceHistoryEntry, error) {
			gotSpan, gotSalePoint = span, salePointID
			return []v1.PriceHistoryEntry{}, nil
		},
	}
	svc := NewService(store)

	_, err := svc.History(context.Background(), 1, 2, "2024-01-10", "2024-03-01")
	require.NoError(t, err)
	require.Equal(t, int64(2), gotSalePoint)
	require.Equal(t, &pricing.CalendarDate{Year: 2024, Month: 1, Day: 10}, gotSpan.Start)
	require.Equal(t, &pricing.CalendarDate{Year: 2024, Month: 3, Day: 1}, gotSpan.End)
}

func TestService_ComparisonResolvesMaxDateID(t *testing.T) {
	// Facts carry date ids 3, 5 and 2; resolution must pick 5, the
	// maximum id, regardless of the calendar dates behind them.
	var resolvedDateID int64
	store := &fakeAnalyticsStore{
		maxPriceDateID: func(_ context.Context, _ int64) (int64, error) { return 5, nil },
		pricesAtDate: func(_ context.Context, _, dateID int64) ([]v1.PriceComparisonRow, error) {
			resolvedDateID = dateID
			return []v1.PriceComparisonRow{
				{SalePointID: 2, SalePointName: "HyperMart", Price: decimal.RequireFromString("10.00"), DateID: dateID},
			}, nil
		},
	}
	svc := NewService(store)

	rows, err := svc.Comparison(context.Background(), 1, "")
	require.NoError(t, err)
	require.Equal(t, int64(5), resolvedDateID)
	require.Len(t, rows, 1)
	require.Equal(t, int64(5), rows[0].DateID)
}

func TestService_ComparisonSpecificDateResolvesExactComponents(t *testing.T) {
	var gotDate pricing.CalendarDate
	store := &fakeAnalyticsStore{
		findDateID: func(_ context.Context, date pricing.CalendarDate) (int64, error) {
			gotDate = date
			return 8, nil
		},
		pricesAtDate: func(_ context.Context, _, dateID int64) ([]v1.PriceComparisonRow, error) {
			require.Equal(t, int64(8), dateID)
			return nil, nil
		},
	}
	svc := NewService(store)

	rows, err := svc.Comparison(context.Background(), 1, "2024-03-15")
	require.NoError(t, err)
	require.Equal(t, pricing.CalendarDate{Year: 2024, Month: 3, Day: 15}, gotDate)
	require.Empty(t, rows)
}

func TestService_ComparisonUnknownSpecificDateReturnsEmpty(t *testing.T) {
	store := &fakeAnalyticsStore{
		findDateID: func(_ context.Context, _ pricing.CalendarDate) (int64, error) {
			return 0, storage.ErrNotFound
		},
	}
	svc := NewService(store)

	rows, err := svc.Comparison(context.Background(), 1, "2024-03-15")
	require.NoError(t, err)
	require.NotNil(t, rows)
	require.Empty(t, rows)
}

func TestService_ComparisonProductWithoutFactsReturnsEmpty(t *testing.T) {
	store := &fakeAnalyticsStore{
		maxPriceDateID: func(_ context.Context, _ int64) (int64, error) {
			return 0, storage.ErrNotFound
		},
	}
	svc := NewService(store)

	rows, err := svc.Comparison(context.Background(), 999, "")
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestService_ComparisonMalformedDateFailsBeforeStoreAccess(t *testing.T) {
	svc := NewService(&fakeAnalyticsStore{})

	_, err := svc.Comparison(context.Background(), 1, "not-a-date")
	require.ErrorIs(t, err, pricing.ErrInvalidDate)
}

func TestService_TrendsDefaultsTo30Days(t *testing.T) {
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	var gotSpan pricing.Span
	store := &fakeAnalyticsStore{
		priceTrends: func(_ context.Context, span pricing.Span) ([]v1.PriceTrendRow, error) {
			gotSpan = span
			return nil, nil
		},
	}
	svc := NewService(store)
	svc.nowFn = func() time.Time { return now }

	rows, err := svc.Trends(context.Background(), 0)
	require.NoError(t, err)
	require.NotNil(t, rows)
	require.Equal(t, &pricing.CalendarDate{Year: 2024, Month: 3, Day: 1}, gotSpan.Start)
	require.Equal(t, &pricing.CalendarDate{Year: 2024, Month: 3, Day: 31}, gotSpan.End)
}

func TestService_TrendsCustomWindow(t *testing.T) {
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	var gotSpan pricing.Span
	store := &fakeAnalyticsStore{
		priceTrends: func(_ context.Context, span pricing.Span) ([]v1.PriceTrendRow, error) {
			gotSpan = span
			return []v1.PriceTrendRow{{Title: "Olive Oil 1L"}}, nil
		},
	}
	svc := NewService(store)
	svc.nowFn = func() time.Time { return now }

	rows, err := svc.Trends(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, &pricing.CalendarDate{Year: 2024, Month: 3, Day: 24}, gotSpan.Start)
}

func TestService_EvolutionEmptyForUnknownProduct(t *testing.T) {
	store := &fakeAnalyticsStore{
		priceEvolution: func(_ context.Context, _ int64) ([]v1.PriceEvolutionPoint, error) {
			return nil, nil
		},
	}
	svc := NewService(store)

	points, err := svc.Evolution(context.Background(), 999)
	require.NoError(t, err)
	require.NotNil(t, points)
	require.Empty(t, points)
}

func TestService_OverviewFansOutAllSixQueries(t *testing.T) {
	lyon := "Lyon"
	supermarket := "supermarket"
	store := &fakeAnalyticsStore{
		productsCount: func(_ context.Context) (int64, error) { return 17, nil },
		productsBySP: func(_ context.Context) ([]v1.ProductsBySalePointRow, error) {
			return []v1.ProductsBySalePointRow{{Name: "HyperMart", ProductCount: 12}}, nil
		},
		spByCity: func(_ context.Context) ([]v1.SalePointsByCityRow, error) {
			return []v1.SalePointsByCityRow{{City: &lyon, SalePointCount: 2}}, nil
		},
		spByType: func(_ context.Context) ([]v1.SalePointsByTypeRow, error) {
			return []v1.SalePointsByTypeRow{{Type: &supermarket, SalePointCount: 3}}, nil
		},
		pricesByMonth: func(_ context.Context) ([]v1.PricesByMonthRow, error) {
			return []v1.PricesByMonthRow{{Year: 2024, Month: 3, PriceCount: 14}}, nil
		},
		avgByProduct: func(_ context.Context) ([]v1.AveragePriceByProductRow, error) {
			return []v1.AveragePriceByProductRow{{Title: "Olive Oil 1L"}}, nil
		},
	}
	svc := NewService(store)

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(17), overview.ProductsWithPrices)
	require.Len(t, overview.ProductsBySalePoint, 1)
	require.Len(t, overview.SalePointsByCity, 1)
	require.Len(t, overview.SalePointsByType, 1)
	require.Len(t, overview.PricesByMonth, 1)
	require.Len(t, overview.AveragePricesByProduct, 1)
}

func TestService_OverviewPropagatesQueryFailure(t *testing.T) {
	store := &fakeAnalyticsStore{
		productsCount: func(_ context.Context) (int64, error) { return 0, nil },
		productsBySP: func(_ context.Context) ([]v1.ProductsBySalePointRow, error) {
			return nil, errors.New("db failure")
		},
		spByCity: func(_ context.Context) ([]v1.SalePointsByCityRow, error) { return nil, nil },
		spByType: func(_ context.Context) ([]v1.SalePointsByTypeRow, error) { return nil, nil },
		pricesByMonth: func(_ context.Context) ([]v1.PricesByMonthRow, error) { return nil, nil },
		avgByProduct: func(_ context.Context) ([]v1.AveragePriceByProductRow, error) {
			return nil, nil
		},
	}
	svc := NewService(store)

	_, err := svc.Overview(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "db failure")
}
