package storage

import (
	"context"
	"errors"

	v1 "github.com/pricepulse-lab/pricepulse/internal/api/v1"
	"github.com/pricepulse-lab/pricepulse/internal/core/pricing"
)

// ErrNotFound is returned by single-entity lookups when no row matches.
// Aggregation queries never return it; they degrade to empty results.
var ErrNotFound = errors.New("entity not found")

// ErrDuplicate is returned when a composite-key insert conflicts with an
// existing row.
var ErrDuplicate = errors.New("entry already exists")

// Page bounds list queries. A zero Limit falls back to the adapter default.
type Page struct {
	Skip  int
	Limit int
}

// SalePointFilter narrows sale point listings. Empty strings mean "any".
type SalePointFilter struct {
	City string
	Type string
}

// DateFilter narrows date listings. Zero values mean "any".
type DateFilter struct {
	Year  int
	Month int
}

// PriceFilter narrows price listings. Zero ids mean "any".
type PriceFilter struct {
	ProductID   int64
	SalePointID int64
	DateID      int64
}

// AssociationFilter narrows product–sale-point listings. Zero ids mean "any".
type AssociationFilter struct {
	ProductID   int64
	SalePointID int64
}

// CatalogStore persists the catalog entities: products, sale points,
// dates and product–sale-point associations.
type CatalogStore interface {
	CreateProduct(ctx context.Context, product *v1.Product) error
	GetProduct(ctx context.Context, id int64) (*v1.Product, error)
	ListProducts(ctx context.Context, page Page) ([]*v1.Product, error)
	ProductCount(ctx context.Context) (int64, error)
	UpdateProduct(ctx context.Context, product *v1.Product) error
	DeleteProduct(ctx context.Context, id int64) error

	// SearchProducts filters by case-insensitive title substring and by a
	// minimum number of associated price facts. Zero values disable a filter.
	SearchProducts(ctx context.Context, title string, minPrices int) ([]*v1.Product, error)

	CreateSalePoint(ctx context.Context, salePoint *v1.SalePoint) error
	GetSalePoint(ctx context.Context, id int64) (*v1.SalePoint, error)
	ListSalePoints(ctx context.Context, filter SalePointFilter, page Page) ([]*v1.SalePoint, error)
	SalePointCount(ctx context.Context, filter SalePointFilter) (int64, error)
	UpdateSalePoint(ctx context.Context, salePoint *v1.SalePoint) error
	DeleteSalePoint(ctx context.Context, id int64) error

	CreateDate(ctx context.Context, date *v1.DateRecord) error
	GetDate(ctx context.Context, id int64) (*v1.DateRecord, error)
	ListDates(ctx context.Context, filter DateFilter, page Page) ([]*v1.DateRecord, error)
	DeleteDate(ctx context.Context, id int64) error

	CreateAssociation(ctx context.Context, assoc *v1.ProductSalePoint) error
	GetAssociation(ctx context.Context, productID, salePointID int64) (*v1.ProductSalePoint, error)
	ListAssociations(ctx context.Context, filter AssociationFilter, page Page) ([]*v1.ProductSalePoint, error)
	DeleteAssociation(ctx context.Context, productID, salePointID int64) error
}

// PriceStore persists the central price fact table.
type PriceStore interface {
	// CreatePrice inserts one observation. Referential existence of the
	// three keys is the caller's responsibility; a composite key conflict
	// maps to ErrDuplicate.
	CreatePrice(ctx context.Context, price *v1.Price) error
	GetPrice(ctx context.Context, productID, salePointID, dateID int64) (*v1.Price, error)
	ListPrices(ctx context.Context, filter PriceFilter, page Page) ([]*v1.Price, error)
	PriceCount(ctx context.Context) (int64, error)
	DeletePrice(ctx context.Context, productID, salePointID, dateID int64) error

	// ListPriceDetails returns prices joined with product and date.
	// A zero salePointID means "all sale points".
	ListPriceDetails(ctx context.Context, salePointID int64, limit int) ([]*v1.PriceDetail, error)
}

// AnalyticsStore serves the derived read-only views over the price facts.
// Queries against unknown products return empty slices, never ErrNotFound.
type AnalyticsStore interface {
	// PriceHistory returns every price fact for a product, optionally
	// restricted to one sale point (0 = all) and to a component-wise date
	// span, ordered ascending on (year, month, day).
	PriceHistory(ctx context.Context, productID, salePointID int64, span pricing.Span) ([]v1.PriceHistoryEntry, error)

	// FindDateID resolves a calendar date to the first DateRecord with
	// matching components. ErrNotFound when no such record exists.
	FindDateID(ctx context.Context, date pricing.CalendarDate) (int64, error)

	// MaxPriceDateID returns the highest date id among a product's price
	// facts. ErrNotFound when the product has no facts.
	MaxPriceDateID(ctx context.Context, productID int64) (int64, error)

	// PricesAtDate returns one row per sale point carrying a price fact
	// for the product at the given date id.
	PricesAtDate(ctx context.Context, productID, dateID int64) ([]v1.PriceComparisonRow, error)

	PriceEvolution(ctx context.Context, productID int64) ([]v1.PriceEvolutionPoint, error)
	CityPriceComparison(ctx context.Context, productID int64) ([]v1.CityPriceComparisonRow, error)
	PriceTrends(ctx context.Context, span pricing.Span) ([]v1.PriceTrendRow, error)

	ProductsWithPricesCount(ctx context.Context) (int64, error)
	ProductsBySalePoint(ctx context.Context) ([]v1.ProductsBySalePointRow, error)
	SalePointsByCity(ctx context.Context) ([]v1.SalePointsByCityRow, error)
	SalePointsByType(ctx context.Context) ([]v1.SalePointsByTypeRow, error)
	PricesByMonth(ctx context.Context) ([]v1.PricesByMonthRow, error)
	AveragePricesByProduct(ctx context.Context) ([]v1.AveragePriceByProductRow, error)
}
