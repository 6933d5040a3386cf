package catalog

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	v1 "github.com/pricepulse-lab/pricepulse/internal/api/v1"
	"github.com/pricepulse-lab/pricepulse/internal/core/storage"
)

// CreateAssociationHandler handles POST /product-sale-points.
// Both sides must exist; the pair itself must not.
func (s *Service) CreateAssociationHandler(c *gin.Context) {
	var assoc v1.ProductSalePoint
	if err := c.ShouldBindJSON(&assoc); err != nil {
		writeError(c, invalidJSONError())
		return
	}
	if err := assoc.Validate(); err != nil {
		writeError(c, validationError(err))
		return
	}

	ctx := c.Request.Context()
	if _, err := s.catalog.GetProduct(ctx, assoc.ProductID); err != nil {
		writeError(c, referentError("product", err))
		return
	}
	if _, err := s.catalog.GetSalePoint(ctx, assoc.SalePointID); err != nil {
		writeError(c, referentError("sale_point", err))
		return
	}

	if err := s.catalog.CreateAssociation(ctx, &assoc); err != nil {
		writeError(c, storeError(err))
		return
	}
	c.JSON(http.StatusCreated, assoc)
}

// ListAssociationsHandler handles GET /product-sale-points with optional
// filters on either side of the pair.
func (s *Service) ListAssociationsHandler(c *gin.Context) {
	page := parsePage(c)

	productID, _ := strconv.ParseInt(c.DefaultQuery("id_product", "0"), 10, 64)
	salePointID, _ := strconv.ParseInt(c.DefaultQuery("id_sale_point", "0"), 10, 64)
	filter := storage.AssociationFilter{ProductID: productID, SalePointID: salePointID}

	assocs, err := s.catalog.ListAssociations(c.Request.Context(), filter, page)
	if err != nil {
		writeError(c, storeError(err))
		return
	}

	if assocs == nil {
		assocs = []*v1.ProductSalePoint{}
	}
	c.JSON(http.StatusOK, assocs)
}

// DeleteAssociationHandler handles DELETE /product-sale-points/:id_product/:id_sale_point.
func (s *Service) DeleteAssociationHandler(c *gin.Context) {
	productID, herr := parseIDParam(c, "id_product")
	if herr != nil {
		writeError(c, herr)
		return
	}
	salePointID, herr := parseIDParam(c, "id_sale_point")
	if herr != nil {
		writeError(c, herr)
		return
	}

	if err := s.catalog.DeleteAssociation(c.Request.Context(), productID, salePointID); err != nil {
		writeError(c, storeError(err))
		return
	}
	c.Status(http.StatusNoContent)
}
