// Package analytics serves the derived price views: history, cross-vendor
// comparison, evolution, city aggregation, trend ranking and descriptive
// statistics.
//
// Queries are read-only and stateless across calls. Absence of data is
// an empty sequence, never an error; only malformed date input fails,
// and it fails before any store access.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	v1 "github.com/pricepulse-lab/pricepulse/internal/api/v1"
	"github.com/pricepulse-lab/pricepulse/internal/core/pricing"
	"github.com/pricepulse-lab/pricepulse/internal/core/storage"
)

type Service struct {
	store storage.AnalyticsStore

	// nowFn is the clock for trend windows, injectable in tests.
	nowFn func() time.Time
}

func NewService(store storage.AnalyticsStore) *Service {
	if store == nil {
		panic("analytics: store must not be nil")
	}
	return &Service{store: store, nowFn: time.Now}
}

// History returns a product's price facts enriched with date and sale
// point, ordered ascending on (year, month, day). salePointID 0 means
// all sale points; empty date strings leave that side unbounded.
func (s *Service) History(ctx context.Context, productID, salePointID int64, startDate, endDate string) ([]v1.PriceHistoryEntry, error) {
	span, err := pricing.ParseSpan(startDate, endDate)
	if err != nil {
		return nil, err
	}

	entries, err := s.store.PriceHistory(ctx, productID, salePointID, span)
	if err != nil {
		return nil, fmt.Errorf("price history query failed: %w", err)
	}
	if entries == nil {
		entries = []v1.PriceHistoryEntry{}
	}
	return entries, nil
}

// Comparison returns the product's price at every sale point on the
// resolution date.
//
// With specificDate set, the resolution date is the DateRecord matching
// those exact components; no match degrades to an empty result. Without
// it, resolution uses the highest date id among the product's facts,
// which is not necessarily the chronologically latest date.
func (s *Service) Comparison(ctx context.Context, productID int64, specificDate string) ([]v1.PriceComparisonRow, error) {
	var dateID int64
	var err error

	if specificDate != "" {
		date, perr := pricing.ParseISO(specificDate)
		if perr != nil {
			return nil, perr
		}
		dateID, err = s.store.FindDateID(ctx, date)
	} else {
		dateID, err = s.store.MaxPriceDateID(ctx, productID)
	}
	if errors.Is(err, storage.ErrNotFound) {
		return []v1.PriceComparisonRow{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("comparison date resolution failed: %w", err)
	}

	rows, err := s.store.PricesAtDate(ctx, productID, dateID)
	if err != nil {
		return nil, fmt.Errorf("price comparison query failed: %w", err)
	}
	if rows == nil {
		rows = []v1.PriceComparisonRow{}
	}
	return rows, nil
}

// Evolution returns per-date avg/min/max across all sale points for a
// product, ordered ascending on (year, month, day).
func (s *Service) Evolution(ctx context.Context, productID int64) ([]v1.PriceEvolutionPoint, error) {
	points, err := s.store.PriceEvolution(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("price evolution query failed: %w", err)
	}
	if points == nil {
		points = []v1.PriceEvolutionPoint{}
	}
	return points, nil
}

// CityComparison aggregates the latest per-sale-point observation of a
// product by city. Sale points without a city form the nil-city group.
func (s *Service) CityComparison(ctx context.Context, productID int64) ([]v1.CityPriceComparisonRow, error) {
	rows, err := s.store.CityPriceComparison(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("city comparison query failed: %w", err)
	}
	if rows == nil {
		rows = []v1.CityPriceComparisonRow{}
	}
	return rows, nil
}

// Trends ranks products by average price over the lookback window
// [now − days, now]. days <= 0 falls back to 30.
func (s *Service) Trends(ctx context.Context, days int) ([]v1.PriceTrendRow, error) {
	span := pricing.TrendWindow(s.nowFn(), days)

	rows, err := s.store.PriceTrends(ctx, span)
	if err != nil {
		return nil, fmt.Errorf("price trend query failed: %w", err)
	}
	if rows == nil {
		rows = []v1.PriceTrendRow{}
	}
	return rows, nil
}

// StatsOverview bundles the six descriptive statistics views.
type StatsOverview struct {
	ProductsWithPrices     int64                         `json:"products_with_prices"`
	ProductsBySalePoint    []v1.ProductsBySalePointRow   `json:"products_by_sale_point"`
	SalePointsByCity       []v1.SalePointsByCityRow      `json:"sale_points_by_city"`
	SalePointsByType       []v1.SalePointsByTypeRow      `json:"sale_points_by_type"`
	PricesByMonth          []v1.PricesByMonthRow         `json:"prices_by_month"`
	AveragePricesByProduct []v1.AveragePriceByProductRow `json:"average_prices_by_product"`
}

// Overview fans the descriptive statistics queries out concurrently and
// fails if any of them does.
func (s *Service) Overview(ctx context.Context) (*StatsOverview, error) {
	var overview StatsOverview

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		count, err := s.store.ProductsWithPricesCount(gctx)
		overview.ProductsWithPrices = count
		return err
	})
	g.Go(func() error {
		rows, err := s.store.ProductsBySalePoint(gctx)
		overview.ProductsBySalePoint = rows
		return err
	})
	g.Go(func() error {
		rows, err := s.store.SalePointsByCity(gctx)
		overview.SalePointsByCity = rows
		return err
	})
	g.Go(func() error {
		rows, err := s.store.SalePointsByType(gctx)
		overview.SalePointsByType = rows
		return err
	})
	g.Go(func() error {
		rows, err := s.store.PricesByMonth(gctx)
		overview.PricesByMonth = rows
		return err
	})
	g.Go(func() error {
		rows, err := s.store.AveragePricesByProduct(gctx)
		overview.AveragePricesByProduct = rows
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("stats overview failed: %w", err)
	}

	if overview.ProductsBySalePoint == nil {
		overview.ProductsBySalePoint = []v1.ProductsBySalePointRow{}
	}
	if overview.SalePointsByCity == nil {
		overview.SalePointsByCity = []v1.SalePointsByCityRow{}
	}
	if overview.SalePointsByType == nil {
		overview.SalePointsByType = []v1.SalePointsByTypeRow{}
	}
	if overview.PricesByMonth == nil {
		overview.PricesByMonth = []v1.PricesByMonthRow{}
	}
	if overview.AveragePricesByProduct == nil {
		overview.AveragePricesByProduct = []v1.AveragePriceByProductRow{}
	}
	return &overview, nil
}
