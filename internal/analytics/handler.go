package analytics

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	v1 "github.com/pricepulse-lab/pricepulse/internal/api/v1"
	httperr "github.com/pricepulse-lab/pricepulse/internal/core/errors"
	"github.com/pricepulse-lab/pricepulse/internal/core/pricing"
)

// RegisterRoutes registers the analytics query routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/products/:id/prices", s.HistoryHandler)
	r.GET("/products/:id/price-comparison", s.ComparisonHandler)

	r.GET("/stats/products/:id/price-evolution", s.EvolutionHandler)
	r.GET("/stats/products/:id/city-comparison", s.CityComparisonHandler)
	r.GET("/stats/price-trends", s.TrendsHandler)

	r.GET("/stats/products-with-prices", s.ProductsWithPricesHandler)
	r.GET("/stats/products-by-sale-point", s.ProductsBySalePointHandler)
	r.GET("/stats/sale-points-by-city", s.SalePointsByCityHandler)
	r.GET("/stats/sale-points-by-type", s.SalePointsByTypeHandler)
	r.GET("/stats/prices-by-month", s.PricesByMonthHandler)
	r.GET("/stats/average-prices-by-product", s.AveragePricesByProductHandler)
	r.GET("/stats/overview", s.OverviewHandler)
}

func writeQueryError(c *gin.Context, err error) {
	if errors.Is(err, pricing.ErrInvalidDate) {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpValidationError,
			Message:   err.Error(),
		})
		return
	}

	slog.Error("Analytics query failed", "error", err)
	c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
		ErrorType: httperr.HttpInternalError,
		Message:   "Query failed",
	})
}

// productID parses the :id path parameter. Non-numeric input yields 400.
func productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpValidationError,
			Message:   "Invalid product id",
		})
		return 0, false
	}
	return id, true
}

// HistoryHandler handles GET /products/:id/prices.
// Optional query params: id_sale_point, start_date, end_date (ISO).
func (s *Service) HistoryHandler(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	salePointID, _ := strconv.ParseInt(c.DefaultQuery("id_sale_point", "0"), 10, 64)

	entries, err := s.History(c.Request.Context(), id, salePointID,
		c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		writeQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// ComparisonHandler handles GET /products/:id/price-comparison.
// Optional query param: specific_date (ISO).
func (s *Service) ComparisonHandler(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	rows, err := s.Comparison(c.Request.Context(), id, c.Query("specific_date"))
	if err != nil {
		writeQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// EvolutionHandler handles GET /stats/products/:id/price-evolution.
func (s *Service) EvolutionHandler(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	points, err := s.Evolution(c.Request.Context(), id)
	if err != nil {
		writeQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, points)
}

// CityComparisonHandler handles GET /stats/products/:id/city-comparison.
func (s *Service) CityComparisonHandler(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	rows, err := s.CityComparison(c.Request.Context(), id)
	if err != nil {
		writeQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// TrendsHandler handles GET /stats/price-trends?days=N.
func (s *Service) TrendsHandler(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	rows, err := s.Trends(c.Request.Context(), days)
	if err != nil {
		writeQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// ProductsWithPricesHandler handles GET /stats/products-with-prices.
func (s *Service) ProductsWithPricesHandler(c *gin.Context) {
	count, err := s.store.ProductsWithPricesCount(c.Request.Context())
	if err != nil {
		writeQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products_with_prices": count})
}

// ProductsBySalePointHandler handles GET /stats/products-by-sale-point.
func (s *Service) ProductsBySalePointHandler(c *gin.Context) {
	rows, err := s.store.ProductsBySalePoint(c.Request.Context())
	if err != nil {
		writeQueryError(c, err)
		return
	}
	if rows == nil {
		rows = []v1.ProductsBySalePointRow{}
	}
	c.JSON(http.StatusOK, rows)
}

// SalePointsByCityHandler handles GET /stats/sale-points-by-city.
func (s *Service) SalePointsByCityHandler(c *gin.Context) {
	rows, err := s.store.SalePointsByCity(c.Request.Context())
	if err != nil {
		writeQueryError(c, err)
		return
	}
	if rows == nil {
		rows = []v1.SalePointsByCityRow{}
	}
	c.JSON(http.StatusOK, rows)
}

// SalePointsByTypeHandler handles GET /stats/sale-points-by-type.
func (s *Service) SalePointsByTypeHandler(c *gin.Context) {
	rows, err := s.store.SalePointsByType(c.Request.Context())
	if err != nil {
		writeQueryError(c, err)
		return
	}
	if rows == nil {
		rows = []v1.SalePointsByTypeRow{}
	}
	c.JSON(http.StatusOK, rows)
}

// PricesByMonthHandler handles GET /stats/prices-by-month.
func (s *Service) PricesByMonthHandler(c *gin.Context) {
	rows, err := s.store.PricesByMonth(c.Request.Context())
	if err != nil {
		writeQueryError(c, err)
		return
	}
	if rows == nil {
		rows = []v1.PricesByMonthRow{}
	}
	c.JSON(http.StatusOK, rows)
}

// AveragePricesByProductHandler handles GET /stats/average-prices-by-product.
func (s *Service) AveragePricesByProductHandler(c *gin.Context) {
	rows, err := s.store.AveragePricesByProduct(c.Request.Context())
	if err != nil {
		writeQueryError(c, err)
		return
	}
	if rows == nil {
		rows = []v1.AveragePriceByProductRow{}
	}
	c.JSON(http.StatusOK, rows)
}

// OverviewHandler handles GET /stats/overview.
func (s *Service) OverviewHandler(c *gin.Context) {
	overview, err := s.Overview(c.Request.Context())
	if err != nil {
		writeQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}
