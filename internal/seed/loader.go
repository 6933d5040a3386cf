// Package seed loads catalog fixtures from a YAML file on startup.
// Rows that already exist (matched on title, name or calendar
// components) are skipped, so re-running against a seeded catalog is
// harmless.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	v1 "github.com/pricepulse-lab/pricepulse/internal/api/v1"
	"github.com/pricepulse-lab/pricepulse/internal/core/storage"
)

// Existence checks list up to this many rows per entity. Fixture files
// are small; a catalog larger than this was not seeded from one.
const existingScanLimit = 10000

type fixtureProduct struct {
	Title string  `yaml:"title"`
	Link  *string `yaml:"link"`
}

type fixtureSalePoint struct {
	Name    string  `yaml:"name"`
	City    *string `yaml:"city"`
	Website *string `yaml:"website"`
	Type    *string `yaml:"type"`
}

type fixtureDate struct {
	Day   int `yaml:"day"`
	Month int `yaml:"month"`
	Year  int `yaml:"year"`
}

type fixtureFile struct {
	Products   []fixtureProduct   `yaml:"products"`
	SalePoints []fixtureSalePoint `yaml:"sale_points"`
	Dates      []fixtureDate      `yaml:"dates"`
}

// Loader inserts fixture entities through the catalog store.
type Loader struct {
	store storage.CatalogStore
}

func NewLoader(store storage.CatalogStore) *Loader {
	return &Loader{store: store}
}

// Run parses the fixture file and inserts every entity that validates
// and does not already exist. Invalid entries abort the whole run
// rather than seeding a partial catalog silently.
func (l *Loader) Run(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file %q: %w", path, err)
	}

	var fixtures fixtureFile
	if err := yaml.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("failed to parse seed file %q: %w", path, err)
	}

	created, err := l.seedProducts(ctx, fixtures.Products)
	if err != nil {
		return err
	}

	spCreated, err := l.seedSalePoints(ctx, fixtures.SalePoints)
	if err != nil {
		return err
	}

	dateCreated, err := l.seedDates(ctx, fixtures.Dates)
	if err != nil {
		return err
	}

	slog.Info("[Seed] Catalog fixtures loaded",
		"products", created,
		"sale_points", spCreated,
		"dates", dateCreated,
		"skipped", len(fixtures.Products)+len(fixtures.SalePoints)+len(fixtures.Dates)-created-spCreated-dateCreated)
	return nil
}

func (l *Loader) seedProducts(ctx context.Context, fixtures []fixtureProduct) (int, error) {
	if len(fixtures) == 0 {
		return 0, nil
	}

	existing, err := l.store.ListProducts(ctx, storage.Page{Limit: existingScanLimit})
	if err != nil {
		return 0, fmt.Errorf("failed to list existing products: %w", err)
	}
	titles := make(map[string]bool, len(existing))
	for _, p := range existing {
		titles[p.Title] = true
	}

	created := 0
	for i, fp := range fixtures {
		if titles[fp.Title] {
			continue
		}
		product := &v1.Product{Title: fp.Title, Link: fp.Link}
		if err := product.Validate(); err != nil {
			return created, fmt.Errorf("seed product %d: %w", i, err)
		}
		if err := l.store.CreateProduct(ctx, product); err != nil {
			return created, fmt.Errorf("seed product %q: %w", fp.Title, err)
		}
		titles[fp.Title] = true
		created++
	}
	return created, nil
}

func (l *Loader) seedSalePoints(ctx context.Context, fixtures []fixtureSalePoint) (int, error) {
	if len(fixtures) == 0 {
		return 0, nil
	}

	existing, err := l.store.ListSalePoints(ctx, storage.SalePointFilter{}, storage.Page{Limit: existingScanLimit})
	if err != nil {
		return 0, fmt.Errorf("failed to list existing sale points: %w", err)
	}
	names := make(map[string]bool, len(existing))
	for _, sp := range existing {
		names[sp.Name] = true
	}

	created := 0
	for i, fsp := range fixtures {
		if names[fsp.Name] {
			continue
		}
		sp := &v1.SalePoint{Name: fsp.Name, City: fsp.City, Website: fsp.Website, Type: fsp.Type}
		if err := sp.Validate(); err != nil {
			return created, fmt.Errorf("seed sale point %d: %w", i, err)
		}
		if err := l.store.CreateSalePoint(ctx, sp); err != nil {
			return created, fmt.Errorf("seed sale point %q: %w", fsp.Name, err)
		}
		names[fsp.Name] = true
		created++
	}
	return created, nil
}

func (l *Loader) seedDates(ctx context.Context, fixtures []fixtureDate) (int, error) {
	if len(fixtures) == 0 {
		return 0, nil
	}

	existing, err := l.store.ListDates(ctx, storage.DateFilter{}, storage.Page{Limit: existingScanLimit})
	if err != nil {
		return 0, fmt.Errorf("failed to list existing dates: %w", err)
	}
	seen := make(map[[3]int]bool, len(existing))
	for _, d := range existing {
		seen[[3]int{d.Year, d.Month, d.Day}] = true
	}

	created := 0
	for i, fd := range fixtures {
		key := [3]int{fd.Year, fd.Month, fd.Day}
		if seen[key] {
			continue
		}
		date := &v1.DateRecord{Day: fd.Day, Month: fd.Month, Year: fd.Year}
		if err := date.Validate(); err != nil {
			return created, fmt.Errorf("seed date %d: %w", i, err)
		}
		if err := l.store.CreateDate(ctx, date); err != nil {
			return created, fmt.Errorf("seed date %d-%02d-%02d: %w", fd.Year, fd.Month, fd.Day, err)
		}
		seen[key] = true
		created++
	}
	return created, nil
}
