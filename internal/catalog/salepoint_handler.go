package catalog

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/pricepulse-lab/pricepulse/internal/api/v1"
	"github.com/pricepulse-lab/pricepulse/internal/core/storage"
)

// CreateSalePointHandler handles POST /sale-points.
func (s *Service) CreateSalePointHandler(c *gin.Context) {
	var sp v1.SalePoint
	if err := c.ShouldBindJSON(&sp); err != nil {
		writeError(c, invalidJSONError())
		return
	}
	if err := sp.Validate(); err != nil {
		writeError(c, validationError(err))
		return
	}

	if err := s.catalog.CreateSalePoint(c.Request.Context(), &sp); err != nil {
		slog.Error("Failed to create sale point", "error", err)
		writeError(c, storeError(err))
		return
	}

	slog.Info("Created sale point", "sale_point_id", sp.ID, "name", sp.Name)
	c.JSON(http.StatusCreated, sp)
}

// ListSalePointsHandler handles GET /sale-points with optional city and
// type filters.
func (s *Service) ListSalePointsHandler(c *gin.Context) {
	page := parsePage(c)
	filter := storage.SalePointFilter{
		City: c.Query("city"),
		Type: c.Query("type"),
	}

	salePoints, err := s.catalog.ListSalePoints(c.Request.Context(), filter, page)
	if err != nil {
		slog.Error("Failed to list sale points", "error", err)
		writeError(c, storeError(err))
		return
	}

	total, err := s.catalog.SalePointCount(c.Request.Context(), filter)
	if err != nil {
		slog.Error("Failed to count sale points", "error", err)
		writeError(c, storeError(err))
		return
	}

	if salePoints == nil {
		salePoints = []*v1.SalePoint{}
	}
	c.JSON(http.StatusOK, gin.H{"items": salePoints, "total": total})
}

// GetSalePointHandler handles GET /sale-points/:id.
func (s *Service) GetSalePointHandler(c *gin.Context) {
	id, herr := parseIDParam(c, "id")
	if herr != nil {
		writeError(c, herr)
		return
	}

	sp, err := s.catalog.GetSalePoint(c.Request.Context(), id)
	if err != nil {
		writeError(c, storeError(err))
		return
	}
	c.JSON(http.StatusOK, sp)
}

// UpdateSalePointHandler handles PUT /sale-points/:id.
func (s *Service) UpdateSalePointHandler(c *gin.Context) {
	id, herr := parseIDParam(c, "id")
	if herr != nil {
		writeError(c, herr)
		return
	}

	var sp v1.SalePoint
	if err := c.ShouldBindJSON(&sp); err != nil {
		writeError(c, invalidJSONError())
		return
	}
	sp.ID = id
	if err := sp.Validate(); err != nil {
		writeError(c, validationError(err))
		return
	}

	if err := s.catalog.UpdateSalePoint(c.Request.Context(), &sp); err != nil {
		writeError(c, storeError(err))
		return
	}
	c.JSON(http.StatusOK, sp)
}

// DeleteSalePointHandler handles DELETE /sale-points/:id.
func (s *Service) DeleteSalePointHandler(c *gin.Context) {
	id, herr := parseIDParam(c, "id")
	if herr != nil {
		writeError(c, herr)
		return
	}

	if err := s.catalog.DeleteSalePoint(c.Request.Context(), id); err != nil {
		writeError(c, storeError(err))
		return
	}

	slog.Info("Deleted sale point", "sale_point_id", id)
	c.Status(http.StatusNoContent)
}
