package catalog

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	v1 "github.com/pricepulse-lab/pricepulse/internal/api/v1"
	httperr "github.com/pricepulse-lab/pricepulse/internal/core/errors"
	"github.com/pricepulse-lab/pricepulse/internal/core/storage"
)

// CreatePriceHandler handles POST /prices.
//
// The price table carries no foreign keys, so referential existence of
// the product, sale point and date is checked here before inserting. A
// missing referent yields 404 naming the entity.
func (s *Service) CreatePriceHandler(c *gin.Context) {
	var price v1.Price
	if err := c.ShouldBindJSON(&price); err != nil {
		writeError(c, invalidJSONError())
		return
	}
	if err := price.Validate(); err != nil {
		writeError(c, validationError(err))
		return
	}

	ctx := c.Request.Context()
	if _, err := s.catalog.GetProduct(ctx, price.ProductID); err != nil {
		writeError(c, referentError("product", err))
		return
	}
	if _, err := s.catalog.GetSalePoint(ctx, price.SalePointID); err != nil {
		writeError(c, referentError("sale_point", err))
		return
	}
	if _, err := s.catalog.GetDate(ctx, price.DateID); err != nil {
		writeError(c, referentError("date", err))
		return
	}

	if err := s.prices.CreatePrice(ctx, &price); err != nil {
		if !errors.Is(err, storage.ErrDuplicate) {
			slog.Error("Failed to create price", "error", err)
		}
		writeError(c, storeError(err))
		return
	}

	slog.Info("Created price",
		"product_id", price.ProductID,
		"sale_point_id", price.SalePointID,
		"date_id", price.DateID)
	c.JSON(http.StatusCreated, price)
}

// referentError maps a failed referent lookup to a 404 naming the
// missing entity, or a 500 on store failure.
func referentError(entity string, err error) *catalogError {
	if errors.Is(err, storage.ErrNotFound) {
		return &catalogError{
			statusCode: http.StatusNotFound,
			errorType:  httperr.HttpNotFoundError,
			message:    entity + " not found",
			details:    map[string]interface{}{"entity": entity},
		}
	}
	return storeError(err)
}

// ListPricesHandler handles GET /prices with optional component filters.
func (s *Service) ListPricesHandler(c *gin.Context) {
	page := parsePage(c)

	productID, _ := strconv.ParseInt(c.DefaultQuery("id_product", "0"), 10, 64)
	salePointID, _ := strconv.ParseInt(c.DefaultQuery("id_sale_point", "0"), 10, 64)
	dateID, _ := strconv.ParseInt(c.DefaultQuery("id_date", "0"), 10, 64)
	filter := storage.PriceFilter{ProductID: productID, SalePointID: salePointID, DateID: dateID}

	prices, err := s.prices.ListPrices(c.Request.Context(), filter, page)
	if err != nil {
		writeError(c, storeError(err))
		return
	}

	total, err := s.prices.PriceCount(c.Request.Context())
	if err != nil {
		writeError(c, storeError(err))
		return
	}

	if prices == nil {
		prices = []*v1.Price{}
	}
	c.JSON(http.StatusOK, gin.H{"items": prices, "total": total})
}

// ListPriceDetailsHandler handles GET /prices/details, returning prices
// joined with their product and date. Optional sale point filter.
func (s *Service) ListPriceDetailsHandler(c *gin.Context) {
	salePointID, _ := strconv.ParseInt(c.DefaultQuery("id_sale_point", "0"), 10, 64)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)))

	details, err := s.prices.ListPriceDetails(c.Request.Context(), salePointID, limit)
	if err != nil {
		writeError(c, storeError(err))
		return
	}

	if details == nil {
		details = []*v1.PriceDetail{}
	}
	c.JSON(http.StatusOK, details)
}

func (s *Service) parsePriceKey(c *gin.Context) (int64, int64, int64, *catalogError) {
	productID, herr := parseIDParam(c, "id_product")
	if herr != nil {
		return 0, 0, 0, herr
	}
	salePointID, herr := parseIDParam(c, "id_sale_point")
	if herr != nil {
		return 0, 0, 0, herr
	}
	dateID, herr := parseIDParam(c, "id_date")
	if herr != nil {
		return 0, 0, 0, herr
	}
	return productID, salePointID, dateID, nil
}

// GetPriceHandler handles GET /prices/:id_product/:id_sale_point/:id_date.
func (s *Service) GetPriceHandler(c *gin.Context) {
	productID, salePointID, dateID, herr := s.parsePriceKey(c)
	if herr != nil {
		writeError(c, herr)
		return
	}

	price, err := s.prices.GetPrice(c.Request.Context(), productID, salePointID, dateID)
	if err != nil {
		writeError(c, storeError(err))
		return
	}
	c.JSON(http.StatusOK, price)
}

// DeletePriceHandler handles DELETE /prices/:id_product/:id_sale_point/:id_date.
func (s *Service) DeletePriceHandler(c *gin.Context) {
	productID, salePointID, dateID, herr := s.parsePriceKey(c)
	if herr != nil {
		writeError(c, herr)
		return
	}

	if err := s.prices.DeletePrice(c.Request.Context(), productID, salePointID, dateID); err != nil {
		writeError(c, storeError(err))
		return
	}
	c.Status(http.StatusNoContent)
}
