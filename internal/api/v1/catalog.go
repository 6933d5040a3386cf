package v1

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Sale point types accepted by SalePoint.Type.
const (
	SalePointSupermarket = "supermarket"
	SalePointElectronics = "electronics"
	SalePointClothing    = "clothing"
	SalePointOnline      = "online"
	SalePointOther       = "other"
)

// Year bounds for DateRecord. The lower bound is 2000; see DESIGN.md.
const (
	MinYear = 2000
	MaxYear = 2100
)

var urlPattern = regexp.MustCompile(`^https?://.+`)

// Product is a catalog item tracked across sale points.
type Product struct {
	ID    int64   `json:"id"`
	Title string  `json:"title"`
	Link  *string `json:"link,omitempty"`
}

// Validate checks the mutable fields of a product payload.
// The ID is database-assigned and ignored here.
func (p *Product) Validate() error {
	title := strings.TrimSpace(p.Title)
	if len(title) < 2 {
		return fmt.Errorf("title must be at least 2 characters long")
	}
	if len(p.Title) > 255 {
		return fmt.Errorf("title must not exceed 255 characters")
	}
	if p.Link != nil && !urlPattern.MatchString(*p.Link) {
		return fmt.Errorf("link must be an http(s) URL")
	}
	return nil
}

// SalePoint is a vendor or store where product prices are observed.
// City, Website and Type are optional; a nil City groups the sale point
// under the null-city bucket in city aggregates.
type SalePoint struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	City    *string `json:"city,omitempty"`
	Website *string `json:"website,omitempty"`
	Type    *string `json:"type,omitempty"`
}

// Validate checks the mutable fields of a sale point payload.
func (s *SalePoint) Validate() error {
	name := strings.TrimSpace(s.Name)
	if len(name) < 2 {
		return fmt.Errorf("name must be at least 2 characters long")
	}
	if len(s.Name) > 255 {
		return fmt.Errorf("name must not exceed 255 characters")
	}
	if s.City != nil && len(*s.City) > 100 {
		return fmt.Errorf("city must not exceed 100 characters")
	}
	if s.Website != nil && !urlPattern.MatchString(*s.Website) {
		return fmt.Errorf("website must be an http(s) URL")
	}
	if s.Type != nil {
		switch *s.Type {
		case SalePointSupermarket, SalePointElectronics, SalePointClothing, SalePointOnline, SalePointOther:
		default:
			return fmt.Errorf("type must be one of supermarket, electronics, clothing, online, other")
		}
	}
	return nil
}

// DateRecord is an observation day. Rows are NOT unique on (day, month,
// year) and ids carry no chronological meaning; time-series consumers must
// order on (year, month, day).
type DateRecord struct {
	ID    int64 `json:"id"`
	Day   int   `json:"day"`
	Month int   `json:"month"`
	Year  int   `json:"year"`
}

// Validate checks the calendar components, including per-month day counts
// and leap years.
func (d *DateRecord) Validate() error {
	if d.Month < 1 || d.Month > 12 {
		return fmt.Errorf("month must be between 1 and 12")
	}
	if d.Day < 1 || d.Day > 31 {
		return fmt.Errorf("day must be between 1 and 31")
	}
	if d.Year < MinYear || d.Year > MaxYear {
		return fmt.Errorf("year must be between %d and %d", MinYear, MaxYear)
	}

	daysInMonth := [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	if d.Year%4 == 0 && (d.Year%100 != 0 || d.Year%400 == 0) {
		daysInMonth[1] = 29
	}
	if d.Day > daysInMonth[d.Month-1] {
		return fmt.Errorf("invalid day %d for month %d", d.Day, d.Month)
	}
	return nil
}

// Price is the central fact: one observation of a product's price at a
// sale point on a date. At most one row per (product, sale point, date).
type Price struct {
	ProductID   int64           `json:"id_product"`
	SalePointID int64           `json:"id_sale_point"`
	DateID      int64           `json:"id_date"`
	Price       decimal.Decimal `json:"price"`
}

// Validate checks the composite key and the price value.
// Referential existence of the three keys is checked at the API layer
// before insertion, not here.
func (p *Price) Validate() error {
	if p.ProductID <= 0 {
		return fmt.Errorf("id_product is required")
	}
	if p.SalePointID <= 0 {
		return fmt.Errorf("id_sale_point is required")
	}
	if p.DateID <= 0 {
		return fmt.Errorf("id_date is required")
	}
	if !p.Price.IsPositive() {
		return fmt.Errorf("price must be greater than 0")
	}
	return nil
}

// ProductSalePoint records that a sale point carries a product,
// independent of any price observation.
type ProductSalePoint struct {
	ProductID   int64 `json:"id_product"`
	SalePointID int64 `json:"id_sale_point"`
}

// Validate checks the composite key.
func (a *ProductSalePoint) Validate() error {
	if a.ProductID <= 0 {
		return fmt.Errorf("id_product is required")
	}
	if a.SalePointID <= 0 {
		return fmt.Errorf("id_sale_point is required")
	}
	return nil
}

// PriceDetail is a price joined with its product and date, served by the
// detailed price listing.
type PriceDetail struct {
	Price     decimal.Decimal `json:"price"`
	Date      DateRecord      `json:"date"`
	Product   Product         `json:"product"`
	SalePoint int64           `json:"id_sale_point"`
}
