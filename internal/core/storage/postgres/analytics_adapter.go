package postgres

import (
	"context"
	"database/sql"
	"fmt"

	v1 "github.com/pricepulse-lab/pricepulse/internal/api/v1"
	"github.com/pricepulse-lab/pricepulse/internal/core/pricing"
	"github.com/pricepulse-lab/pricepulse/internal/core/storage"
)

// AnalyticsAdapter implements storage.AnalyticsStore using PostgreSQL.
// It shares the CRUD adapter's connection rather than opening a second one.
//
// All methods are read-only and stateless across calls; the store's own
// transaction isolation governs consistency under concurrent writes.
type AnalyticsAdapter struct {
	db *sql.DB
}

// NewAnalyticsAdapter creates a new AnalyticsAdapter sharing the given connection.
func NewAnalyticsAdapter(db *sql.DB) *AnalyticsAdapter {
	return &AnalyticsAdapter{db: db}
}

// PriceHistory returns every price fact for a product joined with its date
// and sale point, ordered ascending on (year, month, day).
//
// The span filter bounds year, month and day independently rather than
// comparing whole dates. Downstream consumers rely on this filtering
// shape; see pricing.Span.
func (a *AnalyticsAdapter) PriceHistory(
	ctx context.Context,
	productID, salePointID int64,
	span pricing.Span,
) ([]v1.PriceHistoryEntry, error) {
	query := `
		SELECT d.id, d.day, d.month, d.year, p.price, sp.id, sp.name
		FROM prices p
		JOIN dates d ON p.id_date = d.id
		JOIN sale_points sp ON p.id_sale_point = sp.id
		WHERE p.id_product = $1`
	args := []interface{}{productID}

	if salePointID != 0 {
		args = append(args, salePointID)
		query += fmt.Sprintf(" AND p.id_sale_point = $%d", len(args))
	}
	if span.Start != nil {
		args = append(args, span.Start.Year, span.Start.Month, span.Start.Day)
		query += fmt.Sprintf(" AND d.year >= $%d AND d.month >= $%d AND d.day >= $%d",
			len(args)-2, len(args)-1, len(args))
	}
	if span.End != nil {
		args = append(args, span.End.Year, span.End.Month, span.End.Day)
		query += fmt.Sprintf(" AND d.year <= $%d AND d.month <= $%d AND d.day <= $%d",
			len(args)-2, len(args)-1, len(args))
	}
	query += " ORDER BY d.year, d.month, d.day"

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query price history: %w", err)
	}
	defer rows.Close()

	var entries []v1.PriceHistoryEntry
	for rows.Next() {
		var entry v1.PriceHistoryEntry
		var value string

		err := rows.Scan(
			&entry.Date.ID,
			&entry.Date.Day,
			&entry.Date.Month,
			&entry.Date.Year,
			&value,
			&entry.SalePoint.ID,
			&entry.SalePoint.Name,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		if entry.Price, err = parseDecimal(value); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history rows: %w", err)
	}
	return entries, nil
}

// FindDateID resolves exact (year, month, day) components to a DateRecord id.
// Returns storage.ErrNotFound when no record matches.
func (a *AnalyticsAdapter) FindDateID(ctx context.Context, date pricing.CalendarDate) (int64, error) {
	var id int64
	err := a.db.QueryRowContext(ctx, queryFindDateID, date.Year, date.Month, date.Day).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, storage.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve date %s: %w", date, err)
	}
	return id, nil
}

// MaxPriceDateID returns the highest date id among the product's facts.
// Returns storage.ErrNotFound when the product has no facts.
func (a *AnalyticsAdapter) MaxPriceDateID(ctx context.Context, productID int64) (int64, error) {
	var maxID sql.NullInt64
	err := a.db.QueryRowContext(ctx, queryMaxPriceDateID, productID).Scan(&maxID)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve latest date id: %w", err)
	}
	if !maxID.Valid {
		return 0, storage.ErrNotFound
	}
	return maxID.Int64, nil
}

// PricesAtDate returns one comparison row per sale point carrying a price
// fact for the product at the given date id. Storage order, no sorting.
func (a *AnalyticsAdapter) PricesAtDate(ctx context.Context, productID, dateID int64) ([]v1.PriceComparisonRow, error) {
	rows, err := a.db.QueryContext(ctx, queryPricesAtDate, productID, dateID)
	if err != nil {
		return nil, fmt.Errorf("failed to query price comparison: %w", err)
	}
	defer rows.Close()

	var result []v1.PriceComparisonRow
	for rows.Next() {
		var row v1.PriceComparisonRow
		var value string

		if err := rows.Scan(&row.SalePointID, &row.SalePointName, &value, &row.DateID); err != nil {
			return nil, fmt.Errorf("failed to scan comparison row: %w", err)
		}
		if row.Price, err = parseDecimal(value); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comparison rows: %w", err)
	}
	return result, nil
}

// PriceEvolution aggregates a product's prices per date across all sale
// points, ordered ascending on (year, month, day).
func (a *AnalyticsAdapter) PriceEvolution(ctx context.Context, productID int64) ([]v1.PriceEvolutionPoint, error) {
	rows, err := a.db.QueryContext(ctx, queryPriceEvolution, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query price evolution: %w", err)
	}
	defer rows.Close()

	var points []v1.PriceEvolutionPoint
	for rows.Next() {
		var point v1.PriceEvolutionPoint
		var avg, min, max string

		err := rows.Scan(&point.DateID, &point.Year, &point.Month, &point.Day, &avg, &min, &max)
		if err != nil {
			return nil, fmt.Errorf("failed to scan evolution row: %w", err)
		}
		if point.AvgPrice, err = parseDecimal(avg); err != nil {
			return nil, err
		}
		if point.MinPrice, err = parseDecimal(min); err != nil {
			return nil, err
		}
		if point.MaxPrice, err = parseDecimal(max); err != nil {
			return nil, err
		}
		points = append(points, point)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating evolution rows: %w", err)
	}
	return points, nil
}

// CityPriceComparison aggregates the product's latest per-sale-point
// prices by city. Sale points without a city land in the nil-city group.
func (a *AnalyticsAdapter) CityPriceComparison(ctx context.Context, productID int64) ([]v1.CityPriceComparisonRow, error) {
	rows, err := a.db.QueryContext(ctx, queryCityPriceComparison, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query city comparison: %w", err)
	}
	defer rows.Close()

	var result []v1.CityPriceComparisonRow
	for rows.Next() {
		var row v1.CityPriceComparisonRow
		var city sql.NullString
		var avg, min, max string

		if err := rows.Scan(&city, &avg, &min, &max); err != nil {
			return nil, fmt.Errorf("failed to scan city row: %w", err)
		}
		row.City = strPtr(city)
		if row.AvgPrice, err = parseDecimal(avg); err != nil {
			return nil, err
		}
		if row.MinPrice, err = parseDecimal(min); err != nil {
			return nil, err
		}
		if row.MaxPrice, err = parseDecimal(max); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating city rows: %w", err)
	}
	return result, nil
}

// PriceTrends aggregates prices per product title over the given span,
// ordered descending by average price. The span must be fully bounded.
func (a *AnalyticsAdapter) PriceTrends(ctx context.Context, span pricing.Span) ([]v1.PriceTrendRow, error) {
	if span.Start == nil || span.End == nil {
		return nil, fmt.Errorf("trend query requires a bounded span")
	}

	rows, err := a.db.QueryContext(ctx, queryPriceTrends,
		span.Start.Year, span.Start.Month, span.Start.Day,
		span.End.Year, span.End.Month, span.End.Day,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query price trends: %w", err)
	}
	defer rows.Close()

	var result []v1.PriceTrendRow
	for rows.Next() {
		var row v1.PriceTrendRow
		var avg, variation, max, min string

		if err := rows.Scan(&row.Title, &avg, &variation, &max, &min); err != nil {
			return nil, fmt.Errorf("failed to scan trend row: %w", err)
		}
		if row.AvgPrice, err = parseDecimal(avg); err != nil {
			return nil, err
		}
		if row.PriceVariation, err = parseDecimal(variation); err != nil {
			return nil, err
		}
		if row.MaxPrice, err = parseDecimal(max); err != nil {
			return nil, err
		}
		if row.MinPrice, err = parseDecimal(min); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trend rows: %w", err)
	}
	return result, nil
}

// ProductsWithPricesCount counts distinct products having at least one
// price fact.
func (a *AnalyticsAdapter) ProductsWithPricesCount(ctx context.Context) (int64, error) {
	var count int64
	if err := a.db.QueryRowContext(ctx, queryProductsWithPricesCount).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products with prices: %w", err)
	}
	return count, nil
}

// ProductsBySalePoint counts carried products per sale point name.
func (a *AnalyticsAdapter) ProductsBySalePoint(ctx context.Context) ([]v1.ProductsBySalePointRow, error) {
	rows, err := a.db.QueryContext(ctx, queryProductsBySalePoint)
	if err != nil {
		return nil, fmt.Errorf("failed to query products by sale point: %w", err)
	}
	defer rows.Close()

	var result []v1.ProductsBySalePointRow
	for rows.Next() {
		var row v1.ProductsBySalePointRow
		if err := rows.Scan(&row.Name, &row.ProductCount); err != nil {
			return nil, fmt.Errorf("failed to scan sale point count row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sale point count rows: %w", err)
	}
	return result, nil
}

// SalePointsByCity counts sale points per city, NULL city included.
func (a *AnalyticsAdapter) SalePointsByCity(ctx context.Context) ([]v1.SalePointsByCityRow, error) {
	rows, err := a.db.QueryContext(ctx, querySalePointsByCity)
	if err != nil {
		return nil, fmt.Errorf("failed to query sale points by city: %w", err)
	}
	defer rows.Close()

	var result []v1.SalePointsByCityRow
	for rows.Next() {
		var row v1.SalePointsByCityRow
		var city sql.NullString
		if err := rows.Scan(&city, &row.SalePointCount); err != nil {
			return nil, fmt.Errorf("failed to scan city count row: %w", err)
		}
		row.City = strPtr(city)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating city count rows: %w", err)
	}
	return result, nil
}

// SalePointsByType counts sale points per type, NULL type included.
func (a *AnalyticsAdapter) SalePointsByType(ctx context.Context) ([]v1.SalePointsByTypeRow, error) {
	rows, err := a.db.QueryContext(ctx, querySalePointsByType)
	if err != nil {
		return nil, fmt.Errorf("failed to query sale points by type: %w", err)
	}
	defer rows.Close()

	var result []v1.SalePointsByTypeRow
	for rows.Next() {
		var row v1.SalePointsByTypeRow
		var spType sql.NullString
		if err := rows.Scan(&spType, &row.SalePointCount); err != nil {
			return nil, fmt.Errorf("failed to scan type count row: %w", err)
		}
		row.Type = strPtr(spType)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating type count rows: %w", err)
	}
	return result, nil
}

// PricesByMonth counts and averages price facts per (year, month).
func (a *AnalyticsAdapter) PricesByMonth(ctx context.Context) ([]v1.PricesByMonthRow, error) {
	rows, err := a.db.QueryContext(ctx, queryPricesByMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to query prices by month: %w", err)
	}
	defer rows.Close()

	var result []v1.PricesByMonthRow
	for rows.Next() {
		var row v1.PricesByMonthRow
		var avg string
		if err := rows.Scan(&row.Year, &row.Month, &row.PriceCount, &avg); err != nil {
			return nil, fmt.Errorf("failed to scan month row: %w", err)
		}
		if row.AvgPrice, err = parseDecimal(avg); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating month rows: %w", err)
	}
	return result, nil
}

// AveragePricesByProduct aggregates prices per product title string.
func (a *AnalyticsAdapter) AveragePricesByProduct(ctx context.Context) ([]v1.AveragePriceByProductRow, error) {
	rows, err := a.db.QueryContext(ctx, queryAveragePricesByProduct)
	if err != nil {
		return nil, fmt.Errorf("failed to query average prices by product: %w", err)
	}
	defer rows.Close()

	var result []v1.AveragePriceByProductRow
	for rows.Next() {
		var row v1.AveragePriceByProductRow
		var avg, min, max string

		if err := rows.Scan(&row.Title, &avg, &min, &max); err != nil {
			return nil, fmt.Errorf("failed to scan product average row: %w", err)
		}
		if row.AvgPrice, err = parseDecimal(avg); err != nil {
			return nil, err
		}
		if row.MinPrice, err = parseDecimal(min); err != nil {
			return nil, err
		}
		if row.MaxPrice, err = parseDecimal(max); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product average rows: %w", err)
	}
	return result, nil
}
