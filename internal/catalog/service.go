// Package catalog exposes the CRUD API over products, sale points,
// dates, prices and product–sale-point associations.
package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	httperr "github.com/pricepulse-lab/pricepulse/internal/core/errors"
	"github.com/pricepulse-lab/pricepulse/internal/core/storage"
)

const (
	msgInvalidJSON   = "Invalid JSON body"
	msgInvalidID     = "Invalid id parameter"
	msgNotFound      = "Entity not found"
	msgDuplicate     = "Entry already exists"
	msgStoreFailure  = "Storage operation failed"
	defaultPageLimit = 100
)

type Service struct {
	catalog storage.CatalogStore
	prices  storage.PriceStore
}

func NewService(catalog storage.CatalogStore, prices storage.PriceStore) *Service {
	if catalog == nil {
		panic("catalog: catalog store must not be nil")
	}
	if prices == nil {
		panic("catalog: price store must not be nil")
	}
	return &Service{catalog: catalog, prices: prices}
}

// RegisterRoutes registers the catalog CRUD routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/products", s.CreateProductHandler)
	r.GET("/products", s.ListProductsHandler)
	r.GET("/products/search", s.SearchProductsHandler)
	r.GET("/products/:id", s.GetProductHandler)
	r.PUT("/products/:id", s.UpdateProductHandler)
	r.DELETE("/products/:id", s.DeleteProductHandler)

	r.POST("/sale-points", s.CreateSalePointHandler)
	r.GET("/sale-points", s.ListSalePointsHandler)
	r.GET("/sale-points/:id", s.GetSalePointHandler)
	r.PUT("/sale-points/:id", s.UpdateSalePointHandler)
	r.DELETE("/sale-points/:id", s.DeleteSalePointHandler)

	r.POST("/dates", s.CreateDateHandler)
	r.POST("/dates/from-iso", s.CreateDateFromISOHandler)
	r.GET("/dates", s.ListDatesHandler)
	r.GET("/dates/:id", s.GetDateHandler)
	r.DELETE("/dates/:id", s.DeleteDateHandler)

	r.POST("/prices", s.CreatePriceHandler)
	r.GET("/prices", s.ListPricesHandler)
	r.GET("/prices/details", s.ListPriceDetailsHandler)
	r.GET("/prices/:id_product/:id_sale_point/:id_date", s.GetPriceHandler)
	r.DELETE("/prices/:id_product/:id_sale_point/:id_date", s.DeletePriceHandler)

	r.POST("/product-sale-points", s.CreateAssociationHandler)
	r.GET("/product-sale-points", s.ListAssociationsHandler)
	r.DELETE("/product-sale-points/:id_product/:id_sale_point", s.DeleteAssociationHandler)
}

// catalogError carries the structured HTTP error shape from a helper back
// to the handler. Helpers return this instead of writing to gin.Context
// directly, keeping them decoupled from HTTP.
type catalogError struct {
	statusCode int
	errorType  string
	message    string
	details    interface{}
}

func (e *catalogError) Error() string {
	return e.message
}

func writeError(c *gin.Context, err *catalogError) {
	c.JSON(err.statusCode, httperr.ErrorResponse{
		ErrorType: err.errorType,
		Message:   err.message,
		Details:   err.details,
	})
}

func invalidJSONError() *catalogError {
	return &catalogError{
		statusCode: http.StatusBadRequest,
		errorType:  httperr.HttpInvalidJsonError,
		message:    msgInvalidJSON,
	}
}

func validationError(err error) *catalogError {
	return &catalogError{
		statusCode: http.StatusBadRequest,
		errorType:  httperr.HttpValidationError,
		message:    err.Error(),
	}
}

// storeError maps sentinel storage errors onto HTTP status codes.
func storeError(err error) *catalogError {
	if errors.Is(err, storage.ErrNotFound) {
		return &catalogError{
			statusCode: http.StatusNotFound,
			errorType:  httperr.HttpNotFoundError,
			message:    msgNotFound,
		}
	}
	if errors.Is(err, storage.ErrDuplicate) {
		return &catalogError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpDuplicateError,
			message:    msgDuplicate,
		}
	}
	return &catalogError{
		statusCode: http.StatusInternalServerError,
		errorType:  httperr.HttpInternalError,
		message:    msgStoreFailure,
	}
}

func parseIDParam(c *gin.Context, name string) (int64, *catalogError) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, &catalogError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpValidationError,
			message:    msgInvalidID,
			details:    map[string]interface{}{"param": name},
		}
	}
	return id, nil
}

func parsePage(c *gin.Context) storage.Page {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)))
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	return storage.Page{Skip: skip, Limit: limit}
}
