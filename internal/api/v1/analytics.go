package v1

import "github.com/shopspring/decimal"

// SalePointRef is the reduced sale point embedded in price history rows.
type SalePointRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// PriceHistoryEntry is one price observation in a product's history,
// enriched with its resolved date and sale point. Entries are ordered
// ascending on (year, month, day).
type PriceHistoryEntry struct {
	Date      DateRecord      `json:"date"`
	Price     decimal.Decimal `json:"price"`
	SalePoint SalePointRef    `json:"sale_point"`
}

// PriceComparisonRow is one sale point's price for a product on the
// resolution date. No ordering guarantee beyond storage order.
type PriceComparisonRow struct {
	SalePointID   int64           `json:"sale_point_id"`
	SalePointName string          `json:"sale_point_name"`
	Price         decimal.Decimal `json:"price"`
	DateID        int64           `json:"date_id"`
}

// PriceEvolutionPoint aggregates all of a product's prices at one date
// across sale points.
type PriceEvolutionPoint struct {
	DateID   int64           `json:"date_id"`
	Year     int             `json:"year"`
	Month    int             `json:"month"`
	Day      int             `json:"day"`
	AvgPrice decimal.Decimal `json:"avg_price"`
	MinPrice decimal.Decimal `json:"min_price"`
	MaxPrice decimal.Decimal `json:"max_price"`
}

// CityPriceComparisonRow aggregates the latest per-sale-point prices of a
// product within one city. A nil City is the null-city group.
type CityPriceComparisonRow struct {
	City     *string         `json:"city"`
	AvgPrice decimal.Decimal `json:"avg_price"`
	MinPrice decimal.Decimal `json:"min_price"`
	MaxPrice decimal.Decimal `json:"max_price"`
}

// PriceTrendRow summarizes one product's prices over the lookback window,
// grouped by title string. Rows are ordered descending by average price.
type PriceTrendRow struct {
	Title          string          `json:"title"`
	AvgPrice       decimal.Decimal `json:"avg_price"`
	PriceVariation decimal.Decimal `json:"price_variation"`
	MaxPrice       decimal.Decimal `json:"max_price"`
	MinPrice       decimal.Decimal `json:"min_price"`
}

// ProductsBySalePointRow counts carried products per sale point name.
type ProductsBySalePointRow struct {
	Name         string `json:"name"`
	ProductCount int64  `json:"product_count"`
}

// SalePointsByCityRow counts sale points per city.
type SalePointsByCityRow struct {
	City           *string `json:"city"`
	SalePointCount int64   `json:"sale_point_count"`
}

// SalePointsByTypeRow counts sale points per type.
type SalePointsByTypeRow struct {
	Type           *string `json:"type"`
	SalePointCount int64   `json:"sale_point_count"`
}

// PricesByMonthRow counts and averages price facts per (year, month).
type PricesByMonthRow struct {
	Year       int             `json:"year"`
	Month      int             `json:"month"`
	PriceCount int64           `json:"price_count"`
	AvgPrice   decimal.Decimal `json:"avg_price"`
}

// AveragePriceByProductRow aggregates prices per product title. Two
// products sharing the exact title string merge into one row.
type AveragePriceByProductRow struct {
	Title    string          `json:"title"`
	AvgPrice decimal.Decimal `json:"avg_price"`
	MinPrice decimal.Decimal `json:"min_price"`
	MaxPrice decimal.Decimal `json:"max_price"`
}
