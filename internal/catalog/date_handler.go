package catalog

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	v1 "github.com/pricepulse-lab/pricepulse/internal/api/v1"
	"github.com/pricepulse-lab/pricepulse/internal/core/pricing"
	"github.com/pricepulse-lab/pricepulse/internal/core/storage"
)

// CreateDateHandler handles POST /dates with explicit day/month/year
// components. Duplicate calendar components are allowed.
func (s *Service) CreateDateHandler(c *gin.Context) {
	var date v1.DateRecord
	if err := c.ShouldBindJSON(&date); err != nil {
		writeError(c, invalidJSONError())
		return
	}
	if err := date.Validate(); err != nil {
		writeError(c, validationError(err))
		return
	}

	if err := s.catalog.CreateDate(c.Request.Context(), &date); err != nil {
		writeError(c, storeError(err))
		return
	}
	c.JSON(http.StatusCreated, date)
}

type dateFromISORequest struct {
	Date string `json:"date"`
}

// CreateDateFromISOHandler handles POST /dates/from-iso, accepting a
// single ISO-8601 date string instead of split components.
func (s *Service) CreateDateFromISOHandler(c *gin.Context) {
	var req dateFromISORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, invalidJSONError())
		return
	}

	parsed, err := pricing.ParseISO(req.Date)
	if err != nil {
		writeError(c, validationError(err))
		return
	}

	date := v1.DateRecord{Day: parsed.Day, Month: parsed.Month, Year: parsed.Year}
	if err := date.Validate(); err != nil {
		writeError(c, validationError(err))
		return
	}

	if err := s.catalog.CreateDate(c.Request.Context(), &date); err != nil {
		writeError(c, storeError(err))
		return
	}
	c.JSON(http.StatusCreated, date)
}

// ListDatesHandler handles GET /dates with optional year/month filters.
func (s *Service) ListDatesHandler(c *gin.Context) {
	page := parsePage(c)

	year, _ := strconv.Atoi(c.DefaultQuery("year", "0"))
	month, _ := strconv.Atoi(c.DefaultQuery("month", "0"))
	filter := storage.DateFilter{Year: year, Month: month}

	dates, err := s.catalog.ListDates(c.Request.Context(), filter, page)
	if err != nil {
		writeError(c, storeError(err))
		return
	}

	if dates == nil {
		dates = []*v1.DateRecord{}
	}
	c.JSON(http.StatusOK, dates)
}

// GetDateHandler handles GET /dates/:id.
func (s *Service) GetDateHandler(c *gin.Context) {
	id, herr := parseIDParam(c, "id")
	if herr != nil {
		writeError(c, herr)
		return
	}

	date, err := s.catalog.GetDate(c.Request.Context(), id)
	if err != nil {
		writeError(c, storeError(err))
		return
	}
	c.JSON(http.StatusOK, date)
}

// DeleteDateHandler handles DELETE /dates/:id.
func (s *Service) DeleteDateHandler(c *gin.Context) {
	id, herr := parseIDParam(c, "id")
	if herr != nil {
		writeError(c, herr)
		return
	}

	if err := s.catalog.DeleteDate(c.Request.Context(), id); err != nil {
		writeError(c, storeError(err))
		return
	}
	c.Status(http.StatusNoContent)
}
