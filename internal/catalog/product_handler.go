package catalog

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	v1 "github.com/pricepulse-lab/pricepulse/internal/api/v1"
)

// CreateProductHandler handles POST /products.
func (s *Service) CreateProductHandler(c *gin.Context) {
	var product v1.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		writeError(c, invalidJSONError())
		return
	}
	if err := product.Validate(); err != nil {
		writeError(c, validationError(err))
		return
	}

	if err := s.catalog.CreateProduct(c.Request.Context(), &product); err != nil {
		slog.Error("Failed to create product", "error", err)
		writeError(c, storeError(err))
		return
	}

	slog.Info("Created product", "product_id", product.ID, "title", product.Title)
	c.JSON(http.StatusCreated, product)
}

// ListProductsHandler handles GET /products with skip/limit pagination.
func (s *Service) ListProductsHandler(c *gin.Context) {
	page := parsePage(c)

	products, err := s.catalog.ListProducts(c.Request.Context(), page)
	if err != nil {
		slog.Error("Failed to list products", "error", err)
		writeError(c, storeError(err))
		return
	}

	total, err := s.catalog.ProductCount(c.Request.Context())
	if err != nil {
		slog.Error("Failed to count products", "error", err)
		writeError(c, storeError(err))
		return
	}

	if products == nil {
		products = []*v1.Product{}
	}
	c.JSON(http.StatusOK, gin.H{"items": products, "total": total})
}

// SearchProductsHandler handles GET /products/search?title=&min_prices=.
func (s *Service) SearchProductsHandler(c *gin.Context) {
	title := c.Query("title")
	minPrices, _ := strconv.Atoi(c.DefaultQuery("min_prices", "0"))
	if minPrices < 0 {
		minPrices = 0
	}

	products, err := s.catalog.SearchProducts(c.Request.Context(), title, minPrices)
	if err != nil {
		slog.Error("Failed to search products", "error", err)
		writeError(c, storeError(err))
		return
	}

	if products == nil {
		products = []*v1.Product{}
	}
	c.JSON(http.StatusOK, products)
}

// GetProductHandler handles GET /products/:id.
func (s *Service) GetProductHandler(c *gin.Context) {
	id, herr := parseIDParam(c, "id")
	if herr != nil {
		writeError(c, herr)
		return
	}

	product, err := s.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		writeError(c, storeError(err))
		return
	}
	c.JSON(http.StatusOK, product)
}

// UpdateProductHandler handles PUT /products/:id.
func (s *Service) UpdateProductHandler(c *gin.Context) {
	id, herr := parseIDParam(c, "id")
	if herr != nil {
		writeError(c, herr)
		return
	}

	var product v1.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		writeError(c, invalidJSONError())
		return
	}
	product.ID = id
	if err := product.Validate(); err != nil {
		writeError(c, validationError(err))
		return
	}

	if err := s.catalog.UpdateProduct(c.Request.Context(), &product); err != nil {
		writeError(c, storeError(err))
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProductHandler handles DELETE /products/:id.
func (s *Service) DeleteProductHandler(c *gin.Context) {
	id, herr := parseIDParam(c, "id")
	if herr != nil {
		writeError(c, herr)
		return
	}

	if err := s.catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		writeError(c, storeError(err))
		return
	}

	slog.Info("Deleted product", "product_id", id)
	c.Status(http.StatusNoContent)
}
